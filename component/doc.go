// Package component defines the lifecycle contract shared by the storage
// backend, the SSE hub, the rotator and the HTTP server, and a registry
// that starts them in order and stops them in reverse.
package component
