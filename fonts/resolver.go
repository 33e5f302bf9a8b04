package fonts

import (
	"fmt"
	"image/color"
	"os"

	"github.com/tdewolff/canvas"

	"github.com/overtype/overtype/layout"
	"github.com/overtype/overtype/markup"
)

// LoadError reports a font source that could not be turned into a usable
// face. It is non-fatal: the resolver substitutes the embedded default for
// the failing role and records a warning.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string { return fmt.Sprintf("fonts: load %s: %v", e.Source, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

type role uint8

const (
	roleBase role = iota
	roleBold
	roleItalic
	roleCount
)

func (r role) String() string {
	switch r {
	case roleBold:
		return "bold"
	case roleItalic:
		return "italic"
	default:
		return "base"
	}
}

// roleFor maps run style to a font role: bold wins over italic.
func roleFor(st markup.Style) role {
	switch {
	case st.Bold:
		return roleBold
	case st.Italic:
		return roleItalic
	default:
		return roleBase
	}
}

type faceKey struct {
	role      role
	size      int
	underline bool
	strike    bool
	col       color.RGBA
}

// DefaultFaceCacheLimit bounds the face cache unless overridden.
const DefaultFaceCacheLimit = 64

// Resolver maps (style, size) pairs to measurable canvas font faces. All
// sources are materialized eagerly at construction so no lookup blocks on
// I/O; the face cache supports concurrent use.
type Resolver struct {
	families [roleCount]*canvas.FontFamily
	faces    *cache[faceKey, *canvas.FontFace]
	warnings []string
}

var _ layout.Measurer = (*Resolver)(nil)

// ResolverOption configures a Resolver.
type ResolverOption func(*resolverOptions)

type resolverOptions struct {
	faceCacheLimit int
}

// WithFaceCacheLimit bounds the number of cached font faces. Zero means
// unbounded.
func WithFaceCacheLimit(n int) ResolverOption {
	return func(o *resolverOptions) { o.faceCacheLimit = n }
}

// NewResolver loads the configured sources. A missing base source is an
// error; a source that fails to load falls back to the embedded default for
// its role with a recorded warning. It fails only when even the embedded
// defaults cannot be loaded.
func NewResolver(cfg Config, opts ...ResolverOption) (*Resolver, error) {
	o := resolverOptions{faceCacheLimit: DefaultFaceCacheLimit}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.Base.Empty() {
		return nil, fmt.Errorf("fonts: base font source is required")
	}

	r := &Resolver{faces: newCache[faceKey, *canvas.FontFace](o.faceCacheLimit)}
	def := Default()
	defaults := [roleCount]Source{roleBase: def.Base, roleBold: def.Bold, roleItalic: def.Italic}
	sources := [roleCount]Source{roleBase: cfg.Base, roleBold: cfg.Bold, roleItalic: cfg.Italic}

	for ro := roleBase; ro < roleCount; ro++ {
		src := sources[ro]
		if src.Empty() {
			src = defaults[ro]
			if ro != roleBase {
				r.warnings = append(r.warnings, fmt.Sprintf("fonts: no %s source configured, using embedded %s", ro, src.ID()))
			}
		}
		fam, err := loadFamily(ro, src)
		if err != nil {
			r.warnings = append(r.warnings, fmt.Sprintf("%v, using embedded %s", err, defaults[ro].ID()))
			fam, err = loadFamily(ro, defaults[ro])
			if err != nil {
				return nil, err
			}
		}
		r.families[ro] = fam
	}
	return r, nil
}

func loadFamily(ro role, src Source) (*canvas.FontFamily, error) {
	data := src.Bytes
	if len(data) == 0 {
		var err error
		data, err = os.ReadFile(src.Path)
		if err != nil {
			return nil, &LoadError{Source: src.ID(), Err: err}
		}
	}
	fam := canvas.NewFontFamily(fmt.Sprintf("overtype-%s", ro))
	if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, &LoadError{Source: src.ID(), Err: err}
	}
	return fam, nil
}

// Warnings returns the load-time substitution warnings, in order.
func (r *Resolver) Warnings() []string { return r.warnings }

// Face returns a cached face for the style at the given pixel size, with
// underline/strike decorations and the draw color baked in. Decorations and
// color never affect measured widths.
func (r *Resolver) Face(st markup.Style, size int, col color.RGBA) *canvas.FontFace {
	key := faceKey{role: roleFor(st), size: size, underline: st.Underline, strike: st.Strike, col: col}
	if f, ok := r.faces.get(key); ok {
		return f
	}

	args := []interface{}{col, canvas.FontRegular, canvas.FontNormal}
	if st.Underline {
		args = append(args, canvas.FontUnderline)
	}
	if st.Strike {
		args = append(args, canvas.FontStrikethrough)
	}
	f := r.families[key.role].Face(float64(size)*layout.PxToPt, args...)
	r.faces.set(key, f)
	return f
}

// Width implements layout.Measurer.
func (r *Resolver) Width(st markup.Style, size int, s string) float64 {
	plain := markup.Style{Bold: st.Bold, Italic: st.Italic}
	return r.Face(plain, size, canvas.Black).TextWidth(s)
}

// LineHeight implements layout.Measurer using the base face metrics.
func (r *Resolver) LineHeight(size int) float64 {
	return r.Face(markup.Style{}, size, canvas.Black).Metrics().LineHeight
}

// Ascent returns the baseline offset, in pixels, of the base face at the
// given size. The renderer places each line's baseline with it.
func (r *Resolver) Ascent(size int) float64 {
	return r.Face(markup.Style{}, size, canvas.Black).Metrics().Ascent
}
