package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/slideshow/logger"
)

// KeepAliveInterval is how often a comment line is written to idle streams.
var KeepAliveInterval = 30 * time.Second

// ConnectedEvent is the payload of the connected event.
type ConnectedEvent struct {
	ClientID string `json:"client_id"`
}

// ServeSSE streams hub events to one client until the request ends or the
// hub stops.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string) {
	log := hub.log.WithFields(logger.Fields("client_id", clientID))

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Long-lived streams must not hit the server's WriteTimeout.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("could not disable write deadline", logger.ErrorFields("serve_sse", err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(clientID, hub.log)
	data, _ := json.Marshal(ConnectedEvent{ClientID: clientID})
	writeEvent(w, Event{Type: EventTypeConnected, Data: data})
	flusher.Flush()

	hub.Register(client)
	defer hub.Unregister(client)
	log.Debug("client connected", logger.Fields("remote_addr", r.RemoteAddr))

	keepAlive := time.NewTicker(KeepAliveInterval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("client disconnected", logger.Fields("reason", ctx.Err().Error()))
			return
		case ev, ok := <-client.Events():
			if !ok {
				return
			}
			writeEvent(w, ev)
			flusher.Flush()
		case <-keepAlive.C:
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev Event) {
	if ev.Type != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", ev.Data)
}

// Handler returns a gin handler that assigns each viewer a random id.
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ServeSSE(hub, c.Writer, c.Request, "viewer:"+uuid.NewString())
	}
}
