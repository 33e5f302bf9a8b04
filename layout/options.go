package layout

import "github.com/overtype/overtype/markup"

// Measurer supplies text metrics to the line breaker and fit evaluator. The
// font layer implements it; tests inject stubs.
type Measurer interface {
	// Width returns the advance width, in pixels, of s set in the face for
	// the given style at the given size.
	Width(st markup.Style, size int, s string) float64
	// LineHeight returns the natural line height, in pixels, of the base
	// face at the given size.
	LineHeight(size int) float64
}

// Params configures one run of the degradation controller. Values are
// assumed validated; the overlay entry point clamps or rejects raw caller
// input before building Params.
type Params struct {
	MaxWidth        float64 // box width minus horizontal padding, pixels
	MaxHeight       float64 // box height minus vertical padding, pixels
	RequestedSize   int
	LineHeightRatio float64
}
