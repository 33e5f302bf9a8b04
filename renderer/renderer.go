package renderer

import (
	"image"

	"github.com/overtype/overtype/layout"
)

// Renderer draws a layout frame into a raster patch of the frame's box
// size. Implementations must not mutate shared inputs: the returned image
// is freshly allocated on every call.
type Renderer interface {
	Render(frame layout.Frame) (*image.RGBA, error)
}
