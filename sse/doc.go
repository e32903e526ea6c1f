// Package sse pushes server-sent events to browsers.
//
//	hub := sse.NewHub(log, "slide")
//	registry.Register(sse.NewComponent(hub, "/events"))
//	router.GET("/events", sse.Handler(hub))
//	hub.Broadcast("slide", payload)
//
// Events of retained types are replayed to viewers that connect later, so a
// fresh page shows the current slide without waiting for the next tick.
package sse
