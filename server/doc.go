// Package server is the HTTP front of the slideshow: a gin engine on a
// ServeMux, wrapped with h2c and server-level middleware.
//
// ApplyMiddleware installs recovery, request ids, CORS and request logging
// for every request, and per-route OTel request metrics inside gin.
// RegisterDefaultEndpoints adds /health, /ready, /info and /version.
// Application routes (/list, /objects, /events, /slideshow/current and the
// page) are registered on GinEngine by the caller.
package server
