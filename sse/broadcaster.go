package sse

// Broadcaster sends a named event to every connected client.
type Broadcaster interface {
	Broadcast(eventType string, data []byte)
}
