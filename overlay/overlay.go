// Package overlay ties the markup parser, font resolver, layout engine and
// raster renderer into the single entry point that overlays styled text onto
// an image box. An operation always produces a patch and a diagnostics list;
// it fails only on structurally invalid configuration.
package overlay

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"strconv"
	"strings"

	"github.com/overtype/overtype/binding"
	"github.com/overtype/overtype/fonts"
	"github.com/overtype/overtype/layout"
	"github.com/overtype/overtype/markup"
	"github.com/overtype/overtype/renderer"
	canvasrenderer "github.com/overtype/overtype/renderer/canvas"
)

// MaxFontSize caps the requested font size; larger requests are clamped
// with a warning.
const MaxFontSize = 256

// DefaultLineHeightRatio applies when the caller passes a non-positive
// ratio.
const DefaultLineHeightRatio = 1.2

// defaultInk is the text color used when a color value is missing or
// unparsable.
var defaultInk = layout.Color{R: 30, G: 30, B: 30}

// ConfigError reports structurally invalid configuration: the only failure
// mode of an overlay operation. Cosmetic parameter problems are clamped and
// reported through diagnostics instead.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return "overlay: " + e.msg }

func configErrorf(format string, args ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// Colors selects per-style text colors as hex strings (#rgb, #rrggbb or
// #rrggbbaa; alpha is ignored). Empty bold/italic values inherit Base.
type Colors struct {
	Base   string
	Bold   string
	Italic string
}

// Request describes one overlay operation.
type Request struct {
	Text string
	Mode markup.Mode
	// Box is the target rectangle the text must fit, in pixels.
	Box layout.Box
	// Position places the box on the base image for Apply; Overlay itself
	// only produces the patch.
	Position            image.Point
	MaxFontSize         int
	Align               layout.Align
	VAlign              layout.VAlign
	Colors              Colors
	Padding             int
	LineHeightRatio     float64
	ShowErrorIndicators bool
	// Data, when non-nil, is interpolated into Text via ${path}
	// placeholders before parsing.
	Data any
}

// Result is the product of one overlay operation. The patch is always
// non-nil on success, even for an error-artifact outcome.
type Result struct {
	Patch       *image.RGBA
	Outcome     layout.Outcome
	FontSize    int
	CharsKept   int
	Attempts    []layout.Attempt
	Diagnostics []string
}

// Engine runs overlay operations against a shared font resolver, whose face
// cache persists across operations and supports concurrent use.
type Engine struct {
	resolver *fonts.Resolver
	renderer renderer.Renderer
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	renderer       renderer.Renderer
	log            *slog.Logger
	faceCacheLimit int
}

// WithRenderer substitutes the raster backend.
func WithRenderer(r renderer.Renderer) Option {
	return func(o *engineOptions) { o.renderer = r }
}

// WithLogger overrides the package logger for this engine.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) { o.log = l }
}

// WithFaceCacheLimit bounds the engine's font face cache.
func WithFaceCacheLimit(n int) Option {
	return func(o *engineOptions) { o.faceCacheLimit = n }
}

// New creates an engine for the given font sources. A missing base source
// is a ConfigError; unloadable sources degrade to the embedded defaults and
// surface as diagnostics on every operation.
func New(cfg fonts.Config, opts ...Option) (*Engine, error) {
	o := engineOptions{faceCacheLimit: fonts.DefaultFaceCacheLimit}
	for _, opt := range opts {
		opt(&o)
	}
	res, err := fonts.NewResolver(cfg, fonts.WithFaceCacheLimit(o.faceCacheLimit))
	if err != nil {
		return nil, configErrorf("%v", err)
	}
	e := &Engine{resolver: res, renderer: o.renderer, log: o.log}
	if e.renderer == nil {
		e.renderer = canvasrenderer.NewRenderer(res)
	}
	return e, nil
}

func (e *Engine) logger() *slog.Logger {
	if e.log != nil {
		return e.log
	}
	return logger()
}

// Overlay lays out and renders the request into a transparent patch of the
// box size. It always returns a result with ordered diagnostics unless the
// configuration is structurally invalid.
func (e *Engine) Overlay(req Request) (*Result, error) {
	if req.Box.Width <= 0 || req.Box.Height <= 0 {
		return nil, configErrorf("box %dx%d is not drawable", req.Box.Width, req.Box.Height)
	}

	log := e.logger()
	var diag []string
	warn := func(msg string) {
		diag = append(diag, msg)
		log.Warn(msg)
	}

	size, ratio, padding, colors := e.clampParams(req, warn)

	text := req.Text
	if req.Data != nil {
		text = binding.Interpolate(text, req.Data)
	}
	runs, warns := markup.Parse(text, req.Mode)
	diag = append(diag, warns...)
	diag = append(diag, e.resolver.Warnings()...)

	ctrl := layout.NewController(e.resolver, log)
	outcome := ctrl.Run(runs, layout.Params{
		MaxWidth:        float64(req.Box.Width - 2*padding),
		MaxHeight:       float64(req.Box.Height - 2*padding),
		RequestedSize:   size,
		LineHeightRatio: ratio,
	})
	diag = append(diag, ctrl.Diagnostics()...)

	frame := layout.Frame{
		Outcome:             outcome,
		Box:                 req.Box,
		Align:               req.Align,
		VAlign:              req.VAlign,
		Padding:             float64(padding),
		LineHeightRatio:     ratio,
		Colors:              colors,
		ShowErrorIndicators: req.ShowErrorIndicators,
	}
	patch, err := e.renderer.Render(frame)
	if err != nil {
		return nil, fmt.Errorf("overlay: render: %w", err)
	}
	diag = append(diag, fmt.Sprintf("outcome %s size=%d", outcome.Kind, outcome.FontSize))

	return &Result{
		Patch:       patch,
		Outcome:     outcome,
		FontSize:    outcome.FontSize,
		CharsKept:   outcome.CharsKept,
		Attempts:    ctrl.Attempts(),
		Diagnostics: diag,
	}, nil
}

// Apply composites the overlay patch onto a copy of base at the request
// position. The base image is never modified.
func (e *Engine) Apply(base image.Image, req Request) (*image.RGBA, *Result, error) {
	res, err := e.Overlay(req)
	if err != nil {
		return nil, nil, err
	}
	bounds := base.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, base, bounds.Min, draw.Src)
	target := image.Rect(
		bounds.Min.X+req.Position.X,
		bounds.Min.Y+req.Position.Y,
		bounds.Min.X+req.Position.X+req.Box.Width,
		bounds.Min.Y+req.Position.Y+req.Box.Height,
	)
	draw.Draw(out, target, res.Patch, res.Patch.Bounds().Min, draw.Over)
	return out, res, nil
}

// clampParams normalizes cosmetic parameters, recording a warning for each
// out-of-range value. It never fails.
func (e *Engine) clampParams(req Request, warn func(string)) (size int, ratio float64, padding int, colors layout.ColorSet) {
	size = req.MaxFontSize
	if size < layout.MinSize {
		warn(fmt.Sprintf("font size %d below minimum, clamped to %d", size, layout.MinSize))
		size = layout.MinSize
	} else if size > MaxFontSize {
		warn(fmt.Sprintf("font size %d above maximum, clamped to %d", size, MaxFontSize))
		size = MaxFontSize
	}

	ratio = req.LineHeightRatio
	if ratio <= 0 {
		warn(fmt.Sprintf("line height ratio %.2f is not positive, using %.1f", ratio, DefaultLineHeightRatio))
		ratio = DefaultLineHeightRatio
	}

	padding = req.Padding
	if padding < 0 {
		warn(fmt.Sprintf("negative padding %d, using 0", padding))
		padding = 0
	}
	if limit := (min(req.Box.Width, req.Box.Height) - 1) / 2; padding > limit {
		warn(fmt.Sprintf("padding %d leaves no room inside %dx%d box, clamped to %d",
			padding, req.Box.Width, req.Box.Height, limit))
		padding = limit
	}

	colors.Base = parseColor(req.Colors.Base, defaultInk, "base", warn)
	colors.Bold = parseColor(req.Colors.Bold, colors.Base, "bold", warn)
	colors.Italic = parseColor(req.Colors.Italic, colors.Base, "italic", warn)
	return size, ratio, padding, colors
}

// parseColor parses #rgb, #rrggbb or #rrggbbaa (alpha ignored). Empty input
// silently uses the fallback; malformed input warns.
func parseColor(value string, fallback layout.Color, name string, warn func(string)) layout.Color {
	if value == "" {
		return fallback
	}
	hex := strings.TrimPrefix(value, "#")
	switch len(hex) {
	case 3:
		hex = strings.Repeat(string(hex[0]), 2) + strings.Repeat(string(hex[1]), 2) + strings.Repeat(string(hex[2]), 2)
	case 6, 8:
	default:
		warn(fmt.Sprintf("cannot parse %s color %q, using default", name, value))
		return fallback
	}
	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		warn(fmt.Sprintf("cannot parse %s color %q, using default", name, value))
		return fallback
	}
	return layout.Color{R: int(r), G: int(g), B: int(b)}
}
