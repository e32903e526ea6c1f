// Package slideshow drives the image rotation.
//
// A Rotator fetches the playlist from a source.Source once, shows index 0
// immediately and then advances (i+1) mod n every interval. Each image is
// preloaded first and only committed to the Display when the preload
// succeeds. A failing image is retried RetryCount times, each with a fresh
// t= cache-busting parameter, before the rotator moves on to the next one.
// An empty playlist puts the display in its error state and no timer runs.
package slideshow
