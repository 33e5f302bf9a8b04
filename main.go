package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/overtype/overtype/fonts"
	"github.com/overtype/overtype/layout"
	"github.com/overtype/overtype/markup"
	"github.com/overtype/overtype/overlay"
)

func main() {
	text := flag.String("text", "", "markup text to overlay")
	input := flag.String("in", "", "read markup text from file instead of -text")
	mode := flag.String("mode", "richtext", "markup mode: richtext, markdown, markdown-headers, markdown-extended")
	bg := flag.String("bg", "", "base image PNG; omitted means a blank canvas of the box size")
	output := flag.String("out", "output/overlay.png", "PNG output path")
	width := flag.Int("w", 400, "box width in pixels")
	height := flag.Int("h", 200, "box height in pixels")
	x := flag.Int("x", 0, "box x position on the base image")
	y := flag.Int("y", 0, "box y position on the base image")
	size := flag.Int("size", 24, "maximum font size in pixels")
	fontPath := flag.String("font", "", "base font TTF path; empty uses the embedded default")
	boldPath := flag.String("bold-font", "", "bold font TTF path")
	italicPath := flag.String("italic-font", "", "italic font TTF path")
	align := flag.String("align", "left", "horizontal alignment: left, center, right")
	valign := flag.String("valign", "top", "vertical alignment: top, middle, bottom")
	baseColor := flag.String("color", "", "base text color, e.g. #1e1e1e")
	boldColor := flag.String("bold-color", "", "bold text color; empty inherits -color")
	italicColor := flag.String("italic-color", "", "italic text color; empty inherits -color")
	padding := flag.Int("padding", 0, "inner padding of the box in pixels")
	ratio := flag.Float64("ratio", 1.2, "line height ratio")
	errorBox := flag.Bool("error-box", true, "draw an error indicator box when the text cannot fit")
	dataJSON := flag.String("data", "", "JSON data bound to ${path} placeholders in the text")
	debug := flag.String("debug", "", "layout debug JSON output path")
	verbose := flag.Bool("v", false, "log layout attempts to stderr")
	flag.Parse()

	if *verbose {
		overlay.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	raw := *text
	if *input != "" {
		b, err := os.ReadFile(*input)
		if err != nil {
			log.Fatalf("cannot read input file %s: %v", *input, err)
		}
		raw = string(b)
	}

	m, ok := markup.ModeFromString(*mode)
	if !ok {
		log.Fatalf("unknown markup mode %q", *mode)
	}

	var data any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &data); err != nil {
			log.Fatalf("cannot parse data JSON: %v", err)
		}
	}

	al, ok := layout.AlignFromString(*align)
	if !ok {
		log.Fatalf("unknown alignment %q", *align)
	}
	val, ok := layout.VAlignFromString(*valign)
	if !ok {
		log.Fatalf("unknown vertical alignment %q", *valign)
	}

	req := overlay.Request{
		Text:        raw,
		Mode:        m,
		Box:         layout.Box{Width: *width, Height: *height},
		Position:    image.Pt(*x, *y),
		MaxFontSize: *size,
		Align:       al,
		VAlign:      val,
		Colors: overlay.Colors{
			Base:   *baseColor,
			Bold:   *boldColor,
			Italic: *italicColor,
		},
		Padding:             *padding,
		LineHeightRatio:     *ratio,
		ShowErrorIndicators: *errorBox,
		Data:                data,
	}

	cfg := fontConfig(*fontPath, *boldPath, *italicPath)

	if err := run(cfg, req, *bg, *output, *debug); err != nil {
		log.Fatalf("overlay failed: %v", err)
	}
	fmt.Printf("wrote %s\n", *output)
}

// fontConfig builds the font sources from the CLI flags; roles with no path
// keep the embedded defaults.
func fontConfig(fontPath, boldPath, italicPath string) fonts.Config {
	cfg := fonts.Default()
	if fontPath != "" {
		cfg.Base = fonts.Source{Path: fontPath}
	}
	if boldPath != "" {
		cfg.Bold = fonts.Source{Path: boldPath}
	}
	if italicPath != "" {
		cfg.Italic = fonts.Source{Path: italicPath}
	}
	return cfg
}

// run chains engine construction, layout and PNG output.
func run(cfg fonts.Config, req overlay.Request, bgPath, outputPath, debugPath string) error {
	engine, err := overlay.New(cfg)
	if err != nil {
		return err
	}

	var out *image.RGBA
	var res *overlay.Result
	if bgPath != "" {
		base, err := readPNG(bgPath)
		if err != nil {
			return err
		}
		out, res, err = engine.Apply(base, req)
		if err != nil {
			return err
		}
	} else {
		res, err = engine.Overlay(req)
		if err != nil {
			return err
		}
		out = res.Patch
	}

	for _, d := range res.Diagnostics {
		fmt.Fprintln(os.Stderr, d)
	}

	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("cannot create debug directory: %w", err)
		}
		dump := layout.DebugDump{Outcome: res.Outcome, Attempts: res.Attempts}
		if err := layout.WriteDebugJSON(dump, debugPath); err != nil {
			return fmt.Errorf("cannot write debug JSON: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("cannot create output file %s: %w", outputPath, err)
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		return fmt.Errorf("cannot encode PNG: %w", err)
	}
	return nil
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open base image %s: %w", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode base image %s: %w", path, err)
	}
	return img, nil
}
