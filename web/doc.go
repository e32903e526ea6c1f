// Package web embeds the browser page. It subscribes to /events, preloads
// every announced slide in an off-screen Image and swaps it into the visible
// <img> once it decodes, showing "Loading image i/N" and "Image i/N" status
// text and the error message when the rotator fails.
package web
