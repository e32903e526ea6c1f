package server

import (
	"net/http"
	"strings"
)

var systemPaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/info":    true,
	"/version": true,
}

// formatHandlerName shortens gin's handler path:
// "github.com/kbukum/slideshow/gallery.(*Handler).List-fm" -> "Handler.List".
// Closures keep the name of the function that built them, lowercased.
func formatHandlerName(fullPath string) string {
	name := strings.TrimSuffix(fullPath, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, ")", "")

	if strings.Contains(name, ".func") {
		parts := strings.Split(name, ".")
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}

	if pkg, rest, ok := strings.Cut(name, "."); ok && rest != "" && strings.ToLower(pkg) == pkg {
		name = rest
	}
	return name
}

func methodOrder(method string) int {
	switch method {
	case http.MethodGet:
		return 0
	case http.MethodHead:
		return 1
	case http.MethodPost:
		return 2
	default:
		return 3
	}
}
