// Package hub provides a thread-safe websocket broadcast hub
// using the channel-based fan-out pattern. The gateway uses it to
// stream tool and session activity to observer clients.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/voicegate/voicegate/internal/log"
)

// Event is one activity record pushed to observers.
type Event struct {
	// Kind names the activity, e.g. "tool_dispatch" or "session_created".
	Kind string `json:"kind"`

	// Time is when the event was published.
	Time time.Time `json:"time"`

	// Data carries event-specific fields.
	Data map[string]any `json:"data,omitempty"`
}

// Hub maintains the set of observer clients and broadcasts events to them.
type Hub struct {
	name string

	// Registered observers, owned by the Run loop.
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	// Mutex for client count, read from outside the loop.
	mu sync.RWMutex
	n  int
}

// New creates a hub. Run must be called before clients attach.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
	}
}

// Run is the hub's main loop. Call it in a goroutine; it exits when
// stop closes.
func (h *Hub) Run(stop <-chan struct{}) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.setCount(len(h.clients))
			log.Debug("observer connected", "hub", h.name, "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.setCount(len(h.clients))

		case data := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Client's buffer is full, drop the slow consumer.
					close(client.send)
					delete(h.clients, client)
					log.Warn("dropped slow observer", "hub", h.name)
				}
			}
			h.setCount(len(h.clients))

		case <-stop:
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]struct{})
			h.setCount(0)
			return
		}
	}
}

// Publish broadcasts an event to all observers. Events are dropped when
// the broadcast buffer is full rather than blocking the publisher.
func (h *Hub) Publish(kind string, data map[string]any) {
	payload, err := json.Marshal(Event{Kind: kind, Time: time.Now(), Data: data})
	if err != nil {
		log.Warn("event encoding failed", "hub", h.name, "kind", kind, "error", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		log.Warn("broadcast buffer full, dropping event", "hub", h.name, "kind", kind)
	}
}

// ClientCount returns the number of connected observers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.n
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.n = n
	h.mu.Unlock()
}
