// Package realtime fans dashboard change events out to connected viewers
// (WebSocket sessions) through an in-process publish/subscribe hub.
//
// Delivery is best effort: every listener owns a buffered channel and an
// event that does not fit is dropped for that listener only, so a slow
// viewer never holds up the dashboard. There is no replay; a viewer that
// connects late asks for a full snapshot instead.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeChange = "change"
	TypeInit   = "init"
	TypeError  = "error"
)

// Event is the envelope sent to viewers. Payload carries the encoded
// dashboard state or part of it.
type Event struct {
	Type     string          `json:"type"`
	Revision uint64          `json:"revision"`
	Reason   string          `json:"reason,omitempty"`
	At       time.Time       `json:"at"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Hub is an in-memory fan-out dispatcher. It is safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	listeners map[string]chan Event
	bufSize   int
}

// NewHub constructs a hub with a per-listener buffer. A default of 32 is
// used when bufSize <= 0.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 32
	}
	return &Hub{
		listeners: make(map[string]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a listener and returns its ID and receive channel.
// Callers must Unregister the ID when done.
func (h *Hub) Register() (string, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := uuid.NewString()
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener and closes its channel. Unknown IDs are
// ignored.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers ev to every listener whose buffer has room. It
// returns how many listeners dropped it.
func (h *Hub) Broadcast(ev Event) int {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
			dropped++
		}
	}
	return dropped
}

// Size returns the number of registered listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
