package slideshow

import (
	"encoding/json"
	"time"

	"github.com/kbukum/slideshow/logger"
)

// Slide is the image currently on display.
type Slide struct {
	Index       int       `json:"index"`
	Total       int       `json:"total"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type,omitempty"`
	ShownAt     time.Time `json:"shown_at"`
}

// Display receives the rotator's state changes.
type Display interface {
	// Loading is called before an image is preloaded. index is zero-based.
	Loading(index, total int)
	// Show commits a successfully preloaded slide.
	Show(s Slide)
	// Error puts the display in its error state.
	Error(message string)
}

// Event types published by BroadcastDisplay.
const (
	EventLoading = "loading"
	EventSlide   = "slide"
	EventError   = "error"
)

// LoadingEvent is the payload of a loading event.
type LoadingEvent struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

// ErrorEvent is the payload of an error event.
type ErrorEvent struct {
	Message string `json:"message"`
}

// Broadcaster is the subset of sse.Hub BroadcastDisplay needs.
type Broadcaster interface {
	Broadcast(eventType string, data []byte)
}

// BroadcastDisplay publishes state changes as server-sent events.
type BroadcastDisplay struct {
	b Broadcaster
}

// NewBroadcastDisplay publishes to b, usually an sse.Hub.
func NewBroadcastDisplay(b Broadcaster) *BroadcastDisplay {
	return &BroadcastDisplay{b: b}
}

func (d *BroadcastDisplay) Loading(index, total int) {
	d.publish(EventLoading, LoadingEvent{Index: index, Total: total})
}

func (d *BroadcastDisplay) Show(s Slide) { d.publish(EventSlide, s) }

func (d *BroadcastDisplay) Error(message string) {
	d.publish(EventError, ErrorEvent{Message: message})
}

func (d *BroadcastDisplay) publish(eventType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	d.b.Broadcast(eventType, data)
}

// LogDisplay writes state changes to a logger. Indexes are logged one-based.
type LogDisplay struct {
	log *logger.Logger
}

// NewLogDisplay logs through log, or discards when log is nil.
func NewLogDisplay(log *logger.Logger) *LogDisplay {
	if log == nil {
		log = logger.NewNop()
	}
	return &LogDisplay{log: log.WithComponent("display")}
}

func (d *LogDisplay) Loading(index, total int) {
	d.log.Debug("loading image", logger.Fields(logger.FieldIndex, index+1, logger.FieldTotal, total))
}

func (d *LogDisplay) Show(s Slide) {
	d.log.Info("showing image", logger.Fields(
		logger.FieldIndex, s.Index+1, logger.FieldTotal, s.Total,
		logger.FieldImage, s.Name, logger.FieldURL, s.URL,
	))
}

func (d *LogDisplay) Error(message string) {
	d.log.Error("slideshow error", logger.Fields(logger.FieldError, message))
}

// MultiDisplay fans every call out to each display in order.
type MultiDisplay []Display

func (m MultiDisplay) Loading(index, total int) {
	for _, d := range m {
		d.Loading(index, total)
	}
}

func (m MultiDisplay) Show(s Slide) {
	for _, d := range m {
		d.Show(s)
	}
}

func (m MultiDisplay) Error(message string) {
	for _, d := range m {
		d.Error(message)
	}
}
