package layout

import (
	"math"
	"unicode"

	"github.com/overtype/overtype/markup"
)

// Wrap breaks styled runs into lines that fit maxWidth at the given font
// size, using greedy accumulation: tokens are appended to the current line
// while the measured width stays within the limit, and a token that cannot
// fit on its own is force-split rune by rune. Output is deterministic for
// identical inputs. A finalized line never exceeds maxWidth.
func Wrap(runs []markup.Run, m Measurer, size int, maxWidth float64) []Line {
	limit := maxWidth
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	height := m.LineHeight(size)

	var lines []Line
	cur := Line{Height: height}
	// needBullet is armed when a new list item begins and consumed by the
	// first token placed for it, so wrapped continuation lines stay bare.
	needBullet := false

	emit := func(force bool) {
		if len(cur.Tokens) == 0 && !force {
			return
		}
		lines = append(lines, cur)
		cur = Line{Height: height}
	}

	// measured returns the width cost of appending tok to the current line,
	// and the token adjusted for its position (leading spaces are dropped at
	// line starts, the bullet is reserved on the token opening a list item).
	place := func(tok Token) (Token, float64) {
		tok.Bullet = false
		if len(cur.Tokens) == 0 {
			tok.SpaceBefore = false
			text := tok.Text
			if tok.Class == markup.ClassListItem && needBullet {
				tok.Bullet = true
				text = Bullet + text
			}
			return tok, m.Width(tok.Style, size, text)
		}
		text := tok.Text
		if tok.SpaceBefore {
			text = " " + text
		}
		return tok, m.Width(tok.Style, size, text)
	}

	appendToken := func(tok Token) {
		tok, w := place(tok)
		if len(cur.Tokens) > 0 && cur.Width+w > limit {
			emit(false)
			tok, w = place(tok)
		}
		if w <= limit {
			cur.Tokens = append(cur.Tokens, tok)
			cur.Width += w
			if tok.Bullet {
				needBullet = false
			}
			return
		}
		// The token alone exceeds the line: force-split it rune by rune. The
		// first fragment keeps room for the bullet it may carry.
		var reserve float64
		if tok.Class == markup.ClassListItem && needBullet {
			reserve = m.Width(tok.Style, size, Bullet)
		}
		for _, frag := range splitTokenByWidth(tok, m, size, limit, reserve) {
			frag, fw := place(frag)
			if len(cur.Tokens) > 0 && cur.Width+fw > limit {
				emit(false)
				frag, fw = place(frag)
			}
			cur.Tokens = append(cur.Tokens, frag)
			cur.Width += fw
			if frag.Bullet {
				needBullet = false
			}
		}
	}

	prevClass := markup.ClassBody
	for _, tok := range tokenize(runs) {
		if tok.hardBreak {
			emit(true)
			prevClass = markup.ClassBody
			continue
		}
		// Header and list-item runs claim their own lines.
		if tok.tok.Class != prevClass && (tok.tok.Class.Block() || prevClass.Block()) && len(cur.Tokens) > 0 {
			emit(false)
		}
		if tok.tok.Class == markup.ClassListItem && prevClass != markup.ClassListItem {
			needBullet = true
		}
		prevClass = tok.tok.Class
		appendToken(tok.tok)
	}
	emit(false)
	return lines
}

type wrapUnit struct {
	tok       Token
	hardBreak bool
}

// tokenize splits runs into word tokens on whitespace, preserving run
// boundaries so style never leaks across a token. Newlines become hard
// breaks; other whitespace collapses into a SpaceBefore flag on the token
// that follows it.
func tokenize(runs []markup.Run) []wrapUnit {
	var units []wrapUnit
	pendingSpace := false
	for _, run := range runs {
		var word []rune
		flush := func() {
			if len(word) == 0 {
				return
			}
			units = append(units, wrapUnit{tok: Token{
				Text:        string(word),
				Style:       run.Style,
				Class:       run.Class,
				SpaceBefore: pendingSpace,
			}})
			word = word[:0]
			pendingSpace = false
		}
		for _, r := range run.Text {
			switch {
			case r == '\r':
				// ignore
			case r == '\n':
				flush()
				units = append(units, wrapUnit{hardBreak: true})
				pendingSpace = false
			case unicode.IsSpace(r):
				flush()
				pendingSpace = true
			default:
				word = append(word, r)
			}
		}
		flush()
	}
	return units
}

// splitTokenByWidth cuts an oversized token into fragments that each fit the
// limit on their own; the first fragment fits limit-firstReserve so a prefix
// glyph can share its line. Fragments keep at least one rune so the split
// always terminates, even when a single glyph is wider than the line.
func splitTokenByWidth(tok Token, m Measurer, size int, limit, firstReserve float64) []Token {
	var frags []Token
	var cur []rune
	lim := limit - firstReserve
	for _, r := range tok.Text {
		cur = append(cur, r)
		if m.Width(tok.Style, size, string(cur)) > lim && len(cur) > 1 {
			frags = append(frags, Token{
				Text:  string(cur[:len(cur)-1]),
				Style: tok.Style,
				Class: tok.Class,
			})
			cur = []rune{r}
			lim = limit
		}
	}
	if len(cur) > 0 {
		frags = append(frags, Token{Text: string(cur), Style: tok.Style, Class: tok.Class})
	}
	if len(frags) > 0 {
		frags[0].SpaceBefore = tok.SpaceBefore
	}
	return frags
}
