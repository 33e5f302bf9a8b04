package markup

import "strings"

// Mode selects which markup dialect Parse recognizes.
type Mode int

const (
	// RichTextTags recognizes HTML-like tag pairs: <b> <i> <u> <s>.
	RichTextTags Mode = iota
	// MarkdownBasic recognizes **bold**, *italic*, __underline__, ~~strike~~.
	MarkdownBasic
	// MarkdownWithHeaders adds # / ## / ### header lines rendered as bold.
	MarkdownWithHeaders
	// MarkdownExtended adds list items (- item, * item, 1. item) and `code`.
	MarkdownExtended
)

// String returns the canonical name used by ModeFromString.
func (m Mode) String() string {
	switch m {
	case RichTextTags:
		return "rich"
	case MarkdownBasic:
		return "markdown"
	case MarkdownWithHeaders:
		return "markdown-headers"
	case MarkdownExtended:
		return "markdown-extended"
	default:
		return "unknown"
	}
}

// ModeFromString resolves a mode name; the second result reports whether the
// name was recognized.
func ModeFromString(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rich", "richtext", "rich-text", "rich_text", "tags":
		return RichTextTags, true
	case "markdown", "markdown-basic", "basic":
		return MarkdownBasic, true
	case "markdown-headers", "with-headers", "with_headers", "headers":
		return MarkdownWithHeaders, true
	case "markdown-extended", "extended":
		return MarkdownExtended, true
	default:
		return RichTextTags, false
	}
}

// Class is the semantic classification of a run, decided once per logical
// line before inline styles are scanned.
type Class int

const (
	ClassBody Class = iota
	ClassHeader1
	ClassHeader2
	ClassHeader3
	ClassListItem
	ClassCode
)

// String returns a short class name for diagnostics and debug JSON.
func (c Class) String() string {
	switch c {
	case ClassBody:
		return "body"
	case ClassHeader1:
		return "h1"
	case ClassHeader2:
		return "h2"
	case ClassHeader3:
		return "h3"
	case ClassListItem:
		return "list-item"
	case ClassCode:
		return "code"
	default:
		return "body"
	}
}

// Block reports whether runs of this class claim their own line: the line
// breaker forces a break before and after them.
func (c Class) Block() bool {
	switch c {
	case ClassHeader1, ClassHeader2, ClassHeader3, ClassListItem:
		return true
	default:
		return false
	}
}

// Style holds the inline style flags of a run. Flags combine additively;
// a run never spans a style boundary.
type Style struct {
	Bold      bool `json:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty"`
	Underline bool `json:"underline,omitempty"`
	Strike    bool `json:"strike,omitempty"`
}

// Run is a maximal span of text with uniform style and class. Runs are
// immutable once produced by Parse.
type Run struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
	Class Class  `json:"class"`
}

// PlainText concatenates the text of all runs.
func PlainText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// merge collapses adjacent runs with identical style and class so that the
// output keeps runs maximal, and drops empty runs.
func merge(runs []Run) []Run {
	out := runs[:0]
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style == r.Style && out[n-1].Class == r.Class {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}
