package markup_test

import (
	"strings"
	"testing"

	"github.com/overtype/overtype/markup"
)

func runsOf(t *testing.T, raw string, mode markup.Mode) []markup.Run {
	t.Helper()
	runs, warnings := markup.Parse(raw, mode)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings for %q: %v", raw, warnings)
	}
	return runs
}

func TestParseSingleBoldRunBothDialects(t *testing.T) {
	want := markup.Run{Text: "x", Style: markup.Style{Bold: true}}
	for _, c := range []struct {
		raw  string
		mode markup.Mode
	}{
		{"<b>x</b>", markup.RichTextTags},
		{"**x**", markup.MarkdownBasic},
	} {
		runs := runsOf(t, c.raw, c.mode)
		if len(runs) != 1 || runs[0] != want {
			t.Fatalf("%q: expected exactly %+v, got %+v", c.raw, want, runs)
		}
	}
}

func TestParseRichTextStyles(t *testing.T) {
	runs := runsOf(t, "plain <b>bold</b> and <i>italic</i>", markup.RichTextTags)
	want := []markup.Run{
		{Text: "plain "},
		{Text: "bold", Style: markup.Style{Bold: true}},
		{Text: " and "},
		{Text: "italic", Style: markup.Style{Italic: true}},
	}
	if len(runs) != len(want) {
		t.Fatalf("expected %d runs, got %d: %+v", len(want), len(runs), runs)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Fatalf("run %d: got %+v want %+v", i, runs[i], want[i])
		}
	}
}

func TestParseRichTextNested(t *testing.T) {
	runs := runsOf(t, "<b>bold <i>both</i></b>", markup.RichTextTags)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %+v", runs)
	}
	if runs[0].Text != "bold " || !runs[0].Style.Bold || runs[0].Style.Italic {
		t.Fatalf("outer run wrong: %+v", runs[0])
	}
	if runs[1].Text != "both" || !runs[1].Style.Bold || !runs[1].Style.Italic {
		t.Fatalf("nested run wrong: %+v", runs[1])
	}
}

func TestParseRichTextUnderlineStrike(t *testing.T) {
	runs := runsOf(t, "<u>under</u><s>gone</s>", markup.RichTextTags)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %+v", runs)
	}
	if !runs[0].Style.Underline || runs[0].Text != "under" {
		t.Fatalf("underline run wrong: %+v", runs[0])
	}
	if !runs[1].Style.Strike || runs[1].Text != "gone" {
		t.Fatalf("strike run wrong: %+v", runs[1])
	}
}

func TestParseRichTextUnknownTagIsLiteral(t *testing.T) {
	runs, warnings := markup.Parse("a <blink>b</blink> c", markup.RichTextTags)
	if got := markup.PlainText(runs); got != "a <blink>b</blink> c" {
		t.Fatalf("unknown tags should stay literal, got %q", got)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	for _, run := range runs {
		if run.Style != (markup.Style{}) {
			t.Fatalf("unknown tag must not style text: %+v", run)
		}
	}
}

func TestParseRichTextUnclosedTag(t *testing.T) {
	runs, warnings := markup.Parse("start <b>never closed", markup.RichTextTags)
	if got := markup.PlainText(runs); got != "start <b>never closed" {
		t.Fatalf("unclosed tag should stay literal, got %q", got)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "<b>") {
		t.Fatalf("expected one unclosed warning, got %v", warnings)
	}
}

func TestParseRichTextUnmatchedClose(t *testing.T) {
	runs, warnings := markup.Parse("text</b> tail", markup.RichTextTags)
	if got := markup.PlainText(runs); got != "text</b> tail" {
		t.Fatalf("unmatched close should stay literal, got %q", got)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestParseRichTextBareAngle(t *testing.T) {
	runs := runsOf(t, "a < b", markup.RichTextTags)
	if got := markup.PlainText(runs); got != "a < b" {
		t.Fatalf("bare < should stay literal, got %q", got)
	}
}

func TestParseMarkdownStyles(t *testing.T) {
	runs := runsOf(t, "**bold** *italic* __under__ ~~strike~~", markup.MarkdownBasic)
	byText := map[string]markup.Style{}
	for _, r := range runs {
		byText[r.Text] = r.Style
	}
	if st := byText["bold"]; !st.Bold {
		t.Fatalf("** should bold, got %+v", runs)
	}
	if st := byText["italic"]; !st.Italic {
		t.Fatalf("* should italicize, got %+v", runs)
	}
	if st := byText["under"]; !st.Underline {
		t.Fatalf("__ should underline, got %+v", runs)
	}
	if st := byText["strike"]; !st.Strike {
		t.Fatalf("~~ should strike, got %+v", runs)
	}
}

func TestParseMarkdownUnterminatedMarker(t *testing.T) {
	runs, warnings := markup.Parse("half **open forever", markup.MarkdownBasic)
	if got := markup.PlainText(runs); got != "half **open forever" {
		t.Fatalf("unterminated ** should stay literal, got %q", got)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "**") {
		t.Fatalf("expected one unterminated warning, got %v", warnings)
	}
	for _, run := range runs {
		if run.Style.Bold {
			t.Fatalf("unterminated ** must not style text: %+v", run)
		}
	}
}

func TestParseMarkdownLoneAsteriskWithLaterPair(t *testing.T) {
	// The first * has a closer later in the line, so "a " inside the pair
	// turns italic; the ** in between is a longer marker and does not pair
	// with the single stars.
	runs := runsOf(t, "*a* plain", markup.MarkdownBasic)
	if len(runs) != 2 || runs[0].Text != "a" || !runs[0].Style.Italic {
		t.Fatalf("single-star pair not recognized: %+v", runs)
	}
}

func TestParseMarkdownHeadersBold(t *testing.T) {
	runs := runsOf(t, "# Title\nbody text", markup.MarkdownWithHeaders)
	if len(runs) < 2 {
		t.Fatalf("expected header and body runs, got %+v", runs)
	}
	if runs[0].Class != markup.ClassHeader1 || !runs[0].Style.Bold {
		t.Fatalf("header run must be bold h1: %+v", runs[0])
	}
	last := runs[len(runs)-1]
	if last.Class != markup.ClassBody || last.Style.Bold {
		t.Fatalf("body run must stay plain: %+v", last)
	}
}

func TestParseMarkdownHeaderLevels(t *testing.T) {
	cases := []struct {
		raw  string
		want markup.Class
	}{
		{"# a", markup.ClassHeader1},
		{"## a", markup.ClassHeader2},
		{"### a", markup.ClassHeader3},
	}
	for _, c := range cases {
		runs := runsOf(t, c.raw, markup.MarkdownWithHeaders)
		if len(runs) != 1 || runs[0].Class != c.want {
			t.Fatalf("%q: expected class %v, got %+v", c.raw, c.want, runs)
		}
	}
}

func TestParseMarkdownDeepHeaderIsLiteral(t *testing.T) {
	runs := runsOf(t, "#### too deep", markup.MarkdownWithHeaders)
	if len(runs) != 1 || runs[0].Class != markup.ClassBody || runs[0].Text != "#### too deep" {
		t.Fatalf("four hashes should stay literal body text, got %+v", runs)
	}
}

func TestParseMarkdownHeadersIgnoredInBasicMode(t *testing.T) {
	runs := runsOf(t, "# not a header", markup.MarkdownBasic)
	if len(runs) != 1 || runs[0].Class != markup.ClassBody || runs[0].Style.Bold {
		t.Fatalf("basic mode must not classify headers: %+v", runs)
	}
}

func TestParseMarkdownListItems(t *testing.T) {
	// Adjacent plain list lines merge into one maximal run; the hard breaks
	// inside it keep the items on separate lines.
	runs := runsOf(t, "- first\n* second\n3. third", markup.MarkdownExtended)
	if len(runs) != 1 {
		t.Fatalf("expected 1 merged list run, got %+v", runs)
	}
	if runs[0].Class != markup.ClassListItem {
		t.Fatalf("run should be a list item: %+v", runs[0])
	}
	if runs[0].Text != "first\nsecond\nthird" {
		t.Fatalf("list markers should be stripped: %q", runs[0].Text)
	}
}

func TestParseMarkdownListsIgnoredWithoutExtended(t *testing.T) {
	runs := runsOf(t, "- not a list", markup.MarkdownWithHeaders)
	if len(runs) != 1 || runs[0].Class != markup.ClassBody || runs[0].Text != "- not a list" {
		t.Fatalf("list markers need extended mode: %+v", runs)
	}
}

func TestParseMarkdownInlineCode(t *testing.T) {
	runs := runsOf(t, "run `go env` now", markup.MarkdownExtended)
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %+v", runs)
	}
	code := runs[1]
	if code.Text != "go env" || !code.Style.Bold || code.Class != markup.ClassCode {
		t.Fatalf("code span wrong: %+v", code)
	}
}

func TestParseMarkdownBacktickLiteralWithoutExtended(t *testing.T) {
	runs := runsOf(t, "run `go env` now", markup.MarkdownBasic)
	if got := markup.PlainText(runs); got != "run `go env` now" {
		t.Fatalf("backticks need extended mode, got %q", got)
	}
	if len(runs) != 1 || runs[0].Style.Bold {
		t.Fatalf("backticks must not style text in basic mode: %+v", runs)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, mode := range []markup.Mode{markup.RichTextTags, markup.MarkdownBasic, markup.MarkdownExtended} {
		runs, warnings := markup.Parse("", mode)
		if len(runs) != 0 || len(warnings) != 0 {
			t.Fatalf("empty input in mode %v: runs=%+v warnings=%v", mode, runs, warnings)
		}
	}
}

func TestParseMarkdownKeepsHardBreaks(t *testing.T) {
	runs := runsOf(t, "one\n\ntwo", markup.MarkdownBasic)
	if got := markup.PlainText(runs); got != "one\n\ntwo" {
		t.Fatalf("hard breaks must survive parsing, got %q", got)
	}
}

func TestMergeAdjacentRuns(t *testing.T) {
	// Two bold spans separated only by a style toggle collapse to one run.
	runs := runsOf(t, "<b>ab</b><b>cd</b>", markup.RichTextTags)
	if len(runs) != 1 || runs[0].Text != "abcd" || !runs[0].Style.Bold {
		t.Fatalf("adjacent identical runs should merge: %+v", runs)
	}
}

func TestModeFromString(t *testing.T) {
	cases := []struct {
		name string
		want markup.Mode
		ok   bool
	}{
		{"rich", markup.RichTextTags, true},
		{"richtext", markup.RichTextTags, true},
		{"markdown", markup.MarkdownBasic, true},
		{"markdown-headers", markup.MarkdownWithHeaders, true},
		{"Markdown-Extended", markup.MarkdownExtended, true},
		{"yaml", markup.RichTextTags, false},
	}
	for _, c := range cases {
		got, ok := markup.ModeFromString(c.name)
		if got != c.want || ok != c.ok {
			t.Fatalf("%q: got (%v, %v) want (%v, %v)", c.name, got, ok, c.want, c.ok)
		}
	}
}
