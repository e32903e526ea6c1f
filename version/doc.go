// Package version reports build information for the slideshow binary.
//
//	go build -ldflags "-X github.com/kbukum/slideshow/version.Version=1.0.0" ./cmd/slideshow
package version
