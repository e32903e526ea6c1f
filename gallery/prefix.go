package gallery

import (
	"fmt"
	"path"
	"strings"
)

// NormalizePrefix turns a client-supplied folder into a storage prefix:
// no leading "./" or "/", exactly one trailing "/", and no ".." segments.
// The empty string and "/" both mean the storage root and yield "".
func NormalizePrefix(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("prefix %q must not contain '..'", p)
		}
	}
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" || p == "." {
		return "", nil
	}
	return p + "/", nil
}

// prefixAllowed reports whether prefix equals or sits below one of allowed.
func prefixAllowed(prefix string, allowed []string) bool {
	for _, a := range allowed {
		if strings.HasPrefix(prefix, a) {
			return true
		}
	}
	return false
}
