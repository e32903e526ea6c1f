package gallery

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides whether a file name is a servable image.
type Filter struct {
	exts    map[string]struct{}
	include []string
}

// NewFilter builds a filter from an extension allow-list and optional
// doublestar include patterns. Both are matched case-insensitively.
func NewFilter(extensions, include []string) (*Filter, error) {
	f := &Filter{exts: make(map[string]struct{}, len(extensions))}
	for _, ext := range extensions {
		f.exts[strings.ToLower(strings.TrimLeft(ext, "."))] = struct{}{}
	}
	for _, p := range include {
		p = strings.ToLower(p)
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("gallery: invalid include pattern %q", p)
		}
		f.include = append(f.include, p)
	}
	return f, nil
}

// Match reports whether name has an allowed extension and, when include
// patterns are set, matches one of them. The extension is whatever follows
// the last dot.
func (f *Filter) Match(name string) bool {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return false
	}
	if _, ok := f.exts[strings.ToLower(name[i+1:])]; !ok {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, p := range f.include {
		if ok, _ := doublestar.Match(p, lower); ok {
			return true
		}
	}
	return false
}
