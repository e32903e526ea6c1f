// Package source resolves the slideshow playlist.
//
// Three kinds are supported: a same-origin /list endpoint, a folder in a
// GitHub repository read through the contents API, and a fixed URL list.
// Each returns Images whose URL is loadable as-is; the rotator adds the
// cache-busting parameter.
package source
