package markup

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

var (
	richLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Tag", Pattern: `</?[A-Za-z][A-Za-z0-9]*>`},
		{Name: "Text", Pattern: `[^<]+`},
		{Name: "LAngle", Pattern: `<`},
	})

	// Marker alternatives are ordered so the longest marker wins at each
	// position (** before *). Single _ and ~ are not markers.
	inlineLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Marker", Pattern: "\\*\\*|__|~~|\\*|`"},
		{Name: "Text", Pattern: "[^*_~`]+"},
		{Name: "Punct", Pattern: "[_~]"},
	})

	richTagType      = mustTokenType(richLexer, "Tag")
	inlineMarkerType = mustTokenType(inlineLexer, "Marker")
)

// Parse converts raw text into an ordered sequence of styled runs. Malformed
// markup never fails: unknown or unmatched tags and unterminated markers are
// kept as literal text, and a warning is recorded for each.
func Parse(raw string, mode Mode) ([]Run, []string) {
	if raw == "" {
		return nil, nil
	}
	switch mode {
	case RichTextTags:
		return parseRichText(raw)
	case MarkdownBasic, MarkdownWithHeaders, MarkdownExtended:
		return parseMarkdown(raw, mode)
	default:
		return parseRichText(raw)
	}
}

// --- rich text tags ---

type richToken struct {
	text    string // literal payload for non-tag tokens
	tagName string // lowercase tag name, "" for non-tags
	closing bool
	raw     string
	literal bool // tag demoted to literal text
}

func parseRichText(raw string) ([]Run, []string) {
	var warnings []string
	toks, lexWarn := lexRichText(raw)
	warnings = append(warnings, lexWarn...)

	// Pair tags per style so that unmatched ones degrade to literal text.
	open := map[string][]int{}
	paired := map[int]bool{}
	for i := range toks {
		t := &toks[i]
		if t.tagName == "" {
			continue
		}
		if !isStyleTag(t.tagName) {
			t.literal = true
			warnings = append(warnings, fmt.Sprintf("markup: unknown tag %s kept as literal text", t.raw))
			continue
		}
		if t.closing {
			stack := open[t.tagName]
			if len(stack) == 0 {
				t.literal = true
				warnings = append(warnings, fmt.Sprintf("markup: unmatched %s kept as literal text", t.raw))
				continue
			}
			open[t.tagName] = stack[:len(stack)-1]
			paired[stack[len(stack)-1]] = true
			paired[i] = true
		} else {
			open[t.tagName] = append(open[t.tagName], i)
		}
	}
	for i, t := range toks {
		if t.tagName != "" && !t.closing && !t.literal && !paired[i] {
			warnings = append(warnings, fmt.Sprintf("markup: unclosed %s kept as literal text", t.raw))
		}
	}

	var runs []Run
	var buf strings.Builder
	style := Style{}
	flush := func() {
		if buf.Len() > 0 {
			runs = append(runs, Run{Text: buf.String(), Style: style})
			buf.Reset()
		}
	}
	for i, t := range toks {
		switch {
		case t.tagName == "":
			buf.WriteString(t.text)
		case t.literal || !paired[i]:
			buf.WriteString(t.raw)
		default:
			flush()
			setStyleFlag(&style, t.tagName, !t.closing)
		}
	}
	flush()
	return merge(runs), warnings
}

func lexRichText(raw string) ([]richToken, []string) {
	lx, err := richLexer.LexString("", raw)
	if err != nil {
		return []richToken{{text: raw}}, []string{fmt.Sprintf("markup: lexing failed, text kept literal: %v", err)}
	}
	var toks []richToken
	for {
		tok, err := lx.Next()
		if err != nil {
			// Remaining input that the rules cannot match stays literal.
			return toks, []string{fmt.Sprintf("markup: lexing failed mid-text: %v", err)}
		}
		if tok.EOF() {
			return toks, nil
		}
		if tok.Type != richTagType {
			toks = append(toks, richToken{text: tok.Value})
			continue
		}
		name := strings.ToLower(strings.Trim(tok.Value, "<>"))
		closing := strings.HasPrefix(name, "/")
		toks = append(toks, richToken{
			tagName: strings.TrimPrefix(name, "/"),
			closing: closing,
			raw:     tok.Value,
		})
	}
}

func isStyleTag(name string) bool {
	switch name {
	case "b", "i", "u", "s":
		return true
	default:
		return false
	}
}

func setStyleFlag(st *Style, tag string, on bool) {
	switch tag {
	case "b":
		st.Bold = on
	case "i":
		st.Italic = on
	case "u":
		st.Underline = on
	case "s":
		st.Strike = on
	}
}

// --- markdown ---

func parseMarkdown(raw string, mode Mode) ([]Run, []string) {
	var runs []Run
	var warnings []string

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		class, content := classifyLine(line, mode)
		lineRuns, warns := parseInline(content, mode, class)
		warnings = append(warnings, warns...)
		if class == ClassHeader1 || class == ClassHeader2 || class == ClassHeader3 {
			// Headers render bold regardless of inline markers.
			for j := range lineRuns {
				lineRuns[j].Style.Bold = true
			}
		}
		if i < len(lines)-1 {
			// Keep the hard break inside run text; the line breaker
			// turns it into a line boundary.
			if len(lineRuns) == 0 {
				lineRuns = []Run{{Text: "\n", Class: class}}
			} else {
				lineRuns[len(lineRuns)-1].Text += "\n"
			}
		}
		runs = append(runs, lineRuns...)
	}
	return merge(runs), warnings
}

// classifyLine decides the semantic class of a logical line and strips its
// block marker. Classification happens once per line, before inline styles.
func classifyLine(line string, mode Mode) (Class, string) {
	if mode == MarkdownBasic {
		return ClassBody, line
	}
	trimmed := strings.TrimLeft(line, " \t")
	for level, prefix := range []string{"# ", "## ", "### "} {
		if strings.HasPrefix(trimmed, prefix) {
			return ClassHeader1 + Class(level), strings.TrimSpace(trimmed[len(prefix):])
		}
	}
	if mode != MarkdownExtended {
		return ClassBody, line
	}
	if rest, ok := listItemContent(trimmed); ok {
		return ClassListItem, rest
	}
	return ClassBody, line
}

// listItemContent strips a leading "- ", "* " or "N. " list marker.
func listItemContent(line string) (string, bool) {
	if rest, ok := strings.CutPrefix(line, "- "); ok {
		return strings.TrimSpace(rest), true
	}
	if rest, ok := strings.CutPrefix(line, "* "); ok {
		return strings.TrimSpace(rest), true
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i+1 < len(line) && line[i] == '.' && line[i+1] == ' ' {
		return strings.TrimSpace(line[i+2:]), true
	}
	return "", false
}

type inlineToken struct {
	value  string
	marker bool
}

// parseInline scans one logical line for inline markers. A marker opens a
// style only when a matching closer exists further in the line; otherwise it
// stays literal (an unterminated ** never raises an error).
func parseInline(line string, mode Mode, class Class) ([]Run, []string) {
	toks, warnings := lexInline(line)

	var runs []Run
	var buf strings.Builder
	style := Style{}
	inCode := false
	var open []string

	runClass := func() Class {
		if inCode && class == ClassBody {
			return ClassCode
		}
		return class
	}
	flush := func() {
		if buf.Len() > 0 {
			runs = append(runs, Run{Text: buf.String(), Style: style, Class: runClass()})
			buf.Reset()
		}
	}

	for i, t := range toks {
		if !t.marker || (t.value == "`" && mode != MarkdownExtended) {
			buf.WriteString(t.value)
			continue
		}
		if idx := lastIndexOf(open, t.value); idx >= 0 {
			flush()
			toggleMarker(&style, &inCode, t.value, false)
			open = append(open[:idx], open[idx+1:]...)
			continue
		}
		if hasCloser(toks[i+1:], t.value) {
			flush()
			toggleMarker(&style, &inCode, t.value, true)
			open = append(open, t.value)
			continue
		}
		buf.WriteString(t.value)
		warnings = append(warnings, fmt.Sprintf("markup: unterminated %s kept as literal text", t.value))
	}
	flush()
	return runs, warnings
}

func lexInline(line string) ([]inlineToken, []string) {
	lx, err := inlineLexer.LexString("", line)
	if err != nil {
		return []inlineToken{{value: line}}, []string{fmt.Sprintf("markup: lexing failed, text kept literal: %v", err)}
	}
	var toks []inlineToken
	for {
		tok, err := lx.Next()
		if err != nil {
			return toks, []string{fmt.Sprintf("markup: lexing failed mid-line: %v", err)}
		}
		if tok.EOF() {
			return toks, nil
		}
		toks = append(toks, inlineToken{value: tok.Value, marker: tok.Type == inlineMarkerType})
	}
}

func toggleMarker(st *Style, inCode *bool, marker string, on bool) {
	switch marker {
	case "**":
		st.Bold = on
	case "*":
		st.Italic = on
	case "__":
		st.Underline = on
	case "~~":
		st.Strike = on
	case "`":
		// Inline code renders bold.
		st.Bold = on
		*inCode = on
	}
}

func lastIndexOf(stack []string, marker string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == marker {
			return i
		}
	}
	return -1
}

func hasCloser(rest []inlineToken, marker string) bool {
	for _, t := range rest {
		if t.marker && t.value == marker {
			return true
		}
	}
	return false
}

func mustTokenType(def *lexer.StatefulDefinition, name string) lexer.TokenType {
	tt, ok := def.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
