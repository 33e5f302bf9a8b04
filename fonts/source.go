package fonts

import (
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Source identifies font bytes. Bytes take precedence over Path, so callers
// that fetch fonts remotely can hand over materialized buffers; the resolver
// never performs network I/O itself.
type Source struct {
	Name  string // identifier used in cache keys and diagnostics
	Path  string
	Bytes []byte
}

// Empty reports whether the source carries neither bytes nor a path.
func (s Source) Empty() bool { return len(s.Bytes) == 0 && s.Path == "" }

// ID returns a stable identifier for diagnostics and cache keys.
func (s Source) ID() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Path != "":
		return s.Path
	case len(s.Bytes) > 0:
		return "bytes"
	default:
		return "unset"
	}
}

// Config supplies the base, bold and italic font sources for one resolver.
type Config struct {
	Base   Source
	Bold   Source
	Italic Source
}

// Default returns a config backed by the embedded Go fonts. It is also the
// per-role fallback when a configured source fails to load.
func Default() Config {
	return Config{
		Base:   Source{Name: "goregular", Bytes: goregular.TTF},
		Bold:   Source{Name: "gobold", Bytes: gobold.TTF},
		Italic: Source{Name: "goitalic", Bytes: goitalic.TTF},
	}
}
