package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate replaces ${path.to.value} placeholders in the overlay text
// with values from data (as produced by encoding/json: maps, slices,
// scalars). Placeholders whose path cannot be resolved are left untouched,
// so missing data never breaks an overlay.
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := lookup(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// lookup walks data along a dotted path. Each segment names a map key and
// may carry [i] index suffixes for slice elements.
func lookup(data any, path string) (any, bool) {
	cur := data
	for _, segment := range strings.Split(path, ".") {
		key, indexes, ok := splitSegment(segment)
		if !ok {
			return nil, false
		}
		if key != "" {
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			if cur, ok = m[key]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			s, ok := cur.([]any)
			if !ok || idx < 0 || idx >= len(s) {
				return nil, false
			}
			cur = s[idx]
		}
	}
	return cur, true
}

// splitSegment parses "name[0][1]" into its key and index list.
func splitSegment(segment string) (string, []int, bool) {
	bracket := strings.IndexByte(segment, '[')
	if bracket == -1 {
		return segment, nil, true
	}
	key := segment[:bracket]
	rest := segment[bracket:]
	var indexes []int
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return key, indexes, true
}
