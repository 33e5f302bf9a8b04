package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/overtype/overtype/fonts"
	"github.com/overtype/overtype/layout"
	"github.com/overtype/overtype/markup"
	"github.com/overtype/overtype/renderer"
)

const (
	artifactBorderWidth = 2.0
	artifactMessageSize = 12
	artifactMessageMax  = 50
)

// Renderer draws layout frames onto raster patches via
// github.com/tdewolff/canvas. It holds no per-operation state; a single
// Renderer serves concurrent overlay operations.
type Renderer struct {
	resolver *fonts.Resolver
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a raster renderer resolving faces through res.
func NewRenderer(res *fonts.Resolver) *Renderer {
	return &Renderer{resolver: res}
}

// Render draws the frame into a freshly allocated transparent patch of the
// frame's box size. The input frame is not modified.
func (r *Renderer) Render(frame layout.Frame) (*image.RGBA, error) {
	w, h := frame.Box.Width, frame.Box.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: box %dx%d is not drawable", w, h)
	}

	c := canvas.New(float64(w), float64(h))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, like the raster target

	switch frame.Outcome.Kind {
	case layout.OutcomeErrorArtifact:
		if frame.ShowErrorIndicators {
			r.drawErrorArtifact(ctx, frame)
		}
	default:
		r.drawLines(ctx, frame)
	}

	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace), nil
}

func (r *Renderer) drawLines(ctx *canvas.Context, frame layout.Frame) {
	size := frame.Outcome.FontSize
	lines := frame.Outcome.Lines
	if len(lines) == 0 {
		return
	}

	w := float64(frame.Box.Width)
	h := float64(frame.Box.Height)
	pad := frame.Padding
	lineHeight := r.resolver.LineHeight(size) * frame.LineHeightRatio
	total := float64(len(lines)) * lineHeight

	var y float64
	switch frame.VAlign {
	case layout.VAlignMiddle:
		y = (h - total) / 2
	case layout.VAlignBottom:
		y = h - total - pad
	default:
		y = pad
	}

	ascent := r.resolver.Ascent(size)
	for _, line := range lines {
		if y+lineHeight > h-pad+0.5 {
			break // never paint outside the padded box
		}
		var x float64
		switch frame.Align {
		case layout.AlignCenter:
			x = (w - line.Width) / 2
		case layout.AlignRight:
			x = w - pad - line.Width
		default:
			x = pad
		}
		r.drawLineTokens(ctx, line, size, x, y+ascent, frame.Colors)
		y += lineHeight
	}
}

func (r *Renderer) drawLineTokens(ctx *canvas.Context, line layout.Line, size int, x, baseline float64, colors layout.ColorSet) {
	for i, tok := range line.Tokens {
		seg := tok.Text
		if tok.Bullet {
			seg = layout.Bullet + seg
		} else if i > 0 && tok.SpaceBefore {
			seg = " " + seg
		}
		if seg == "" {
			continue
		}
		face := r.resolver.Face(tok.Style, size, rgba(colors.For(tok.Style)))
		ctx.DrawText(x, baseline, canvas.NewTextLine(face, seg, canvas.Left))
		x += face.TextWidth(seg)
	}
}

// drawErrorArtifact paints the visible overflow marker: a light red box with
// a red border and the overflow message centered in the default face.
func (r *Renderer) drawErrorArtifact(ctx *canvas.Context, frame layout.Frame) {
	w := float64(frame.Box.Width)
	h := float64(frame.Box.Height)

	ctx.SetFillColor(canvas.RGBA(1.0, 200.0/255.0, 200.0/255.0, 180.0/255.0))
	ctx.SetStrokeColor(canvas.Red)
	ctx.SetStrokeWidth(artifactBorderWidth)
	inset := artifactBorderWidth / 2
	ctx.DrawPath(inset, inset, canvas.Rectangle(w-artifactBorderWidth, h-artifactBorderWidth))

	msg := frame.Outcome.Message
	if len(msg) > artifactMessageMax {
		msg = msg[:artifactMessageMax-3] + "..."
	}
	if msg == "" {
		return
	}
	face := r.resolver.Face(markup.Style{}, artifactMessageSize, canvas.Red)
	baseline := (h + face.Metrics().XHeight) / 2
	ctx.DrawText(w/2, baseline, canvas.NewTextLine(face, msg, canvas.Center))
}

func rgba(c layout.Color) color.RGBA {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}
