package layout

import (
	"fmt"
	"log/slog"

	"github.com/overtype/overtype/markup"
)

// Degradation bounds. Sizes below MinReadableSize are tried only after
// normal scaling runs out; truncation caps apply at MinSize only.
const (
	MinReadableSize = 6
	MinSize         = 2
)

// truncationCaps are tried in order once scaling is exhausted.
var truncationCaps = [...]int{100, 50, 25}

// overflowMessage is the error-artifact text for boxes smaller than the
// minimum glyph footprint.
const overflowMessage = "Text overflow"

// Controller runs the degradation state machine: normal scaling, aggressive
// scaling, truncation, error artifact. It is strictly linear and terminates
// within requestedSize+5 layout attempts. A Controller is single-use per
// operation; create one per overlay call.
type Controller struct {
	m        Measurer
	log      *slog.Logger
	attempts []Attempt
	diag     []string
}

// NewController creates a controller measuring through m. A nil logger
// disables logging.
func NewController(m Measurer, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{m: m, log: log}
}

// Attempts returns the recorded layout attempts, in the order they were
// made. Font sizes are monotonically non-increasing across the slice.
func (c *Controller) Attempts() []Attempt { return c.attempts }

// Diagnostics returns one entry per attempt plus phase-transition notes.
func (c *Controller) Diagnostics() []string { return c.diag }

// Run executes the state machine over a working copy of runs and returns
// the final outcome. It never fails: the worst case is an error artifact.
func (c *Controller) Run(runs []markup.Run, p Params) Outcome {
	if markup.PlainText(runs) == "" {
		// Empty input already fits: zero lines at the requested size. Runs
		// holding no text at all count as empty input.
		c.note("empty input: nothing to lay out")
		return Outcome{Kind: OutcomeRendered, FontSize: p.RequestedSize}
	}

	// Phase 1: normal scaling from the requested size down to the readable
	// floor. First fitting size wins.
	floor := MinReadableSize
	if p.RequestedSize < floor {
		floor = p.RequestedSize
	}
	for size := p.RequestedSize; size >= floor; size-- {
		if a := c.attempt(runs, size, 0, p); a.Fits {
			return Outcome{Kind: OutcomeRendered, FontSize: size, Lines: a.Lines, TotalHeight: a.TotalHeight}
		}
	}
	c.note(fmt.Sprintf("normal scaling exhausted at size %d", floor))

	// Phase 2: aggressive scaling below the readable floor. Some readable
	// text still beats truncation when it is geometrically possible.
	for size := floor - 1; size >= MinSize; size-- {
		if a := c.attempt(runs, size, 0, p); a.Fits {
			return Outcome{Kind: OutcomeRendered, FontSize: size, Lines: a.Lines, TotalHeight: a.TotalHeight}
		}
	}
	c.note(fmt.Sprintf("aggressive scaling exhausted at size %d", MinSize))

	// Phase 3: truncation at minimum size against fixed caps.
	for _, capChars := range truncationCaps {
		truncated, kept := truncateRuns(runs, capChars)
		if a := c.attempt(truncated, MinSize, kept, p); a.Fits {
			return Outcome{Kind: OutcomeTruncated, FontSize: MinSize, Lines: a.Lines, TotalHeight: a.TotalHeight, CharsKept: kept}
		}
	}
	c.note("truncation exhausted, emitting error artifact")

	// Phase 4: nothing legible fits.
	return Outcome{Kind: OutcomeErrorArtifact, FontSize: MinSize, Message: overflowMessage}
}

func (c *Controller) attempt(runs []markup.Run, size, kept int, p Params) Attempt {
	lines := Wrap(runs, c.m, size, p.MaxWidth)
	fits, total := Evaluate(lines, c.m, size, p.MaxHeight, p.LineHeightRatio)
	a := Attempt{FontSize: size, Lines: lines, TotalHeight: total, Fits: fits, CharsKept: kept}
	c.attempts = append(c.attempts, a)
	msg := fmt.Sprintf("attempt size=%d lines=%d height=%.1f fit=%v", size, len(lines), total, fits)
	if kept > 0 {
		msg = fmt.Sprintf("attempt size=%d cap=%d lines=%d height=%.1f fit=%v", size, kept, len(lines), total, fits)
	}
	c.diag = append(c.diag, msg)
	c.log.Debug("layout attempt",
		slog.Int("size", size), slog.Int("lines", len(lines)),
		slog.Float64("height", total), slog.Bool("fit", fits), slog.Int("cap", kept))
	return a
}

func (c *Controller) note(msg string) {
	c.diag = append(c.diag, msg)
	c.log.Debug(msg)
}

// truncateRuns keeps at most cap runes of the concatenated run text,
// preserving run boundaries by truncating the last surviving run in place.
// An ellipsis marks the cut. The returned count is the number of payload
// runes actually kept.
func truncateRuns(runs []markup.Run, capChars int) ([]markup.Run, int) {
	out := make([]markup.Run, 0, len(runs))
	kept := 0
	for _, run := range runs {
		text := []rune(run.Text)
		if kept+len(text) <= capChars {
			out = append(out, run)
			kept += len(text)
			continue
		}
		keep := capChars - kept
		r := run
		r.Text = string(text[:keep]) + "..."
		out = append(out, r)
		kept += keep
		break
	}
	return out, kept
}
