package layout

import (
	"strings"

	"github.com/overtype/overtype/markup"
)

// This file defines the layout value types shared by the line breaker, the
// degradation controller, the renderer and the debug JSON dump.

// Token is a wrap unit: a whitespace-delimited word or a forced sub-word
// fragment. It carries the owning run's style and class.
type Token struct {
	Text        string       `json:"text"`
	Style       markup.Style `json:"style"`
	Class       markup.Class `json:"class"`
	SpaceBefore bool         `json:"spaceBefore,omitempty"`
	// Bullet marks the token that opens a list item's first line. The line
	// breaker reserves the bullet glyph's width in the line and the renderer
	// draws it; continuation lines of a wrapped item carry no bullet.
	Bullet bool `json:"bullet,omitempty"`
}

// Line is an ordered sequence of tokens that fit the target width at the
// font size the line was built for. Width and Height are cached for that
// size; a line is not reusable across font sizes.
type Line struct {
	Tokens []Token `json:"tokens"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Text reassembles the line including inter-token spaces.
func (l Line) Text() string {
	var b strings.Builder
	for i, t := range l.Tokens {
		if t.SpaceBefore && i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

// Blank reports whether the line holds no visible text.
func (l Line) Blank() bool {
	for _, t := range l.Tokens {
		if t.Text != "" {
			return false
		}
	}
	return true
}

// Attempt records one degradation iteration. Attempts are immutable once
// produced.
type Attempt struct {
	FontSize    int     `json:"fontSize"`
	Lines       []Line  `json:"lines,omitempty"`
	TotalHeight float64 `json:"totalHeight"`
	Fits        bool    `json:"fits"`
	CharsKept   int     `json:"charsKept,omitempty"` // 0 outside the truncation phase
}

// OutcomeKind tags the final decision handed to the renderer.
type OutcomeKind int

const (
	// OutcomeRendered means the full text fits at the chosen size.
	OutcomeRendered OutcomeKind = iota
	// OutcomeTruncated means a prefix of the text fits at the minimum size.
	OutcomeTruncated
	// OutcomeErrorArtifact means nothing legible fits; the renderer may draw
	// a visible error marker instead.
	OutcomeErrorArtifact
)

// String returns the kind name used in diagnostics and debug JSON.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRendered:
		return "rendered"
	case OutcomeTruncated:
		return "truncated"
	case OutcomeErrorArtifact:
		return "error-artifact"
	default:
		return "unknown"
	}
}

// Outcome is the final decision of the degradation controller.
type Outcome struct {
	Kind        OutcomeKind `json:"kind"`
	FontSize    int         `json:"fontSize"`
	Lines       []Line      `json:"lines,omitempty"`
	TotalHeight float64     `json:"totalHeight"`
	CharsKept   int         `json:"charsKept,omitempty"`
	Message     string      `json:"message,omitempty"` // set for error artifacts
}

// Color uses 0-255 RGB values.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ColorSet selects the draw color per run style: bold wins over italic,
// everything else uses Base.
type ColorSet struct {
	Base   Color `json:"base"`
	Bold   Color `json:"bold"`
	Italic Color `json:"italic"`
}

// For returns the color for a run style.
func (c ColorSet) For(st markup.Style) Color {
	switch {
	case st.Bold:
		return c.Bold
	case st.Italic:
		return c.Italic
	default:
		return c.Base
	}
}

// Align is the horizontal placement of lines inside the box.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// AlignFromString resolves an alignment name; unknown names report ok=false
// and default to left.
func AlignFromString(s string) (Align, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left", "start":
		return AlignLeft, true
	case "center", "centre":
		return AlignCenter, true
	case "right", "end":
		return AlignRight, true
	default:
		return AlignLeft, false
	}
}

// VAlign is the vertical placement of the text block inside the box.
type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignMiddle
	VAlignBottom
)

// VAlignFromString resolves a vertical alignment name; unknown names report
// ok=false and default to top.
func VAlignFromString(s string) (VAlign, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "top":
		return VAlignTop, true
	case "middle", "center", "centre":
		return VAlignMiddle, true
	case "bottom":
		return VAlignBottom, true
	default:
		return VAlignTop, false
	}
}

// Box is the target rectangle, in pixels.
type Box struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Frame bundles everything the renderer needs to draw an outcome.
type Frame struct {
	Outcome             Outcome  `json:"outcome"`
	Box                 Box      `json:"box"`
	Align               Align    `json:"align"`
	VAlign              VAlign   `json:"valign"`
	Padding             float64  `json:"padding"`
	LineHeightRatio     float64  `json:"lineHeightRatio"`
	Colors              ColorSet `json:"colors"`
	ShowErrorIndicators bool     `json:"showErrorIndicators"`
}
