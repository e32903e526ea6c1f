package sse

import (
	"sync"

	"github.com/kbukum/slideshow/logger"
)

// EventTypeConnected is sent to each client right after it connects.
const EventTypeConnected = "connected"

const clientBuffer = 64

// Event is one server-sent event.
type Event struct {
	Type string
	Data []byte
}

// Client is one connected event stream.
type Client struct {
	id     string
	events chan Event
	log    *logger.Logger
}

// NewClient creates a client with a buffered event channel.
func NewClient(id string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{id: id, events: make(chan Event, clientBuffer), log: log}
}

func (c *Client) ID() string { return c.id }

// Events returns the channel the handler drains.
func (c *Client) Events() <-chan Event { return c.events }

// Send queues ev without blocking. It returns false when the client is too
// slow and the event was dropped.
func (c *Client) Send(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
		c.log.Warn("client channel full, dropping event", logger.Fields("client_id", c.id, "event", ev.Type))
		return false
	}
}

// Hub fans events out to connected clients. Events of retained types are
// remembered and replayed to clients that connect later.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}
	stopOnce   sync.Once
	log        *logger.Logger

	mu       sync.RWMutex
	clients  map[string]*Client
	retain   map[string]bool
	retained map[string]Event
	order    []string
}

// NewHub creates a hub. retainTypes lists the event types replayed to new
// clients, in the order given.
func NewHub(log *logger.Logger, retainTypes ...string) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	h := &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		done:       make(chan struct{}),
		log:        log.WithComponent("sse"),
		clients:    make(map[string]*Client),
		retain:     make(map[string]bool),
		retained:   make(map[string]Event),
		order:      retainTypes,
	}
	for _, t := range retainTypes {
		h.retain[t] = true
	}
	return h
}

var _ Broadcaster = (*Hub)(nil)

// Run is the hub loop. It returns after Stop and closes every client.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			for _, t := range h.order {
				if ev, ok := h.retained[t]; ok {
					c.Send(ev)
				}
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client registered", logger.Fields("client_id", c.id, "total_clients", n))
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.events)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client unregistered", logger.Fields("client_id", c.id, "total_clients", n))
		case ev := <-h.broadcast:
			h.fanOut(ev)
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds c. It is a no-op once the hub has stopped.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes c. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues an event for every client.
func (h *Hub) Broadcast(eventType string, data []byte) {
	select {
	case h.broadcast <- Event{Type: eventType, Data: data}:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) fanOut(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.retain[ev.Type] {
		h.retained[ev.Type] = ev
	}
	for _, c := range h.clients {
		c.Send(ev)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.events)
		delete(h.clients, id)
	}
	h.log.Debug("all clients closed during shutdown")
}
