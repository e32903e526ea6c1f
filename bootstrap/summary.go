package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/slideshow/component"
)

// Route is one registered HTTP route.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is implemented by components that serve HTTP routes.
type RouteProvider interface {
	Routes() []Route
}

// Summary renders the startup report: components, routes and live health.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
}

func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Render writes the summary to w, reading descriptions, routes and health
// from the registry.
func (s *Summary) Render(w io.Writer, registry *component.Registry) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, "\n%s %s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())
	if registry == nil {
		fmt.Fprintln(w)
		return
	}

	comps := registry.All()
	var routes []Route
	var described []component.Description
	for _, c := range comps {
		if d, ok := c.(component.Describable); ok {
			described = append(described, d.Describe())
		}
		if rp, ok := c.(RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
	}

	if len(described) > 0 {
		fmt.Fprintf(w, "\nComponents\n")
		for i, d := range described {
			fmt.Fprintf(w, "   %s %s [%s] %s\n", treePrefix(i, len(described)), d.Name, d.Type, d.Details)
		}
	}

	if len(routes) > 0 {
		fmt.Fprintf(w, "\nRoutes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(w, "   %s %-7s %s -> %s\n", treePrefix(i, len(routes)), r.Method, r.Path, r.Handler)
		}
	}

	health := registry.HealthAll(context.Background())
	if len(health) > 0 {
		fmt.Fprintf(w, "\nHealth\n")
		for i, h := range health {
			msg := ""
			if h.Message != "" {
				msg = ": " + h.Message
			}
			fmt.Fprintf(w, "   %s %s %s %s%s\n", treePrefix(i, len(health)), healthMark(h.Status), h.Name,
				strings.ToLower(string(h.Status)), msg)
		}
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthMark(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "[ok]"
	case component.StatusDegraded:
		return "[!!]"
	case component.StatusUnhealthy:
		return "[xx]"
	default:
		return "[??]"
	}
}
