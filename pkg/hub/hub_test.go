package hub

import (
	"encoding/json"
	"testing"
	"time"
)

func attach(t *testing.T, h *Hub) *Client {
	t.Helper()

	c := &Client{hub: h, send: make(chan []byte, 64)}
	h.register <- c
	return c
}

func waitCount(t *testing.T, h *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", h.ClientCount(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHub(t *testing.T) {
	t.Run("events reach every observer", func(t *testing.T) {
		h := New("events")
		stop := make(chan struct{})
		defer close(stop)
		go h.Run(stop)

		a := attach(t, h)
		b := attach(t, h)
		waitCount(t, h, 2)

		h.Publish("tool_dispatch", map[string]any{"calls": 2})

		for _, c := range []*Client{a, b} {
			select {
			case data := <-c.send:
				var ev Event
				if err := json.Unmarshal(data, &ev); err != nil {
					t.Fatalf("decode event: %v", err)
				}
				if ev.Kind != "tool_dispatch" {
					t.Errorf("kind = %q", ev.Kind)
				}
				if ev.Data["calls"] != float64(2) {
					t.Errorf("data = %v", ev.Data)
				}
			case <-time.After(time.Second):
				t.Fatal("observer did not receive the event")
			}
		}
	})

	t.Run("unregister closes the send channel", func(t *testing.T) {
		h := New("events")
		stop := make(chan struct{})
		defer close(stop)
		go h.Run(stop)

		c := attach(t, h)
		waitCount(t, h, 1)

		h.unregister <- c
		waitCount(t, h, 0)

		select {
		case _, ok := <-c.send:
			if ok {
				t.Error("expected a closed channel")
			}
		case <-time.After(time.Second):
			t.Fatal("send channel was not closed")
		}
	})

	t.Run("slow observers are dropped", func(t *testing.T) {
		h := New("events")
		stop := make(chan struct{})
		defer close(stop)
		go h.Run(stop)

		c := &Client{hub: h, send: make(chan []byte)} // no buffer, never drained
		h.register <- c
		waitCount(t, h, 1)

		h.Publish("tool_dispatch", nil)
		waitCount(t, h, 0)
	})

	t.Run("publish without observers does not block", func(t *testing.T) {
		h := New("events")
		stop := make(chan struct{})
		defer close(stop)
		go h.Run(stop)

		for i := 0; i < 1000; i++ {
			h.Publish("session_created", nil)
		}
	})
}
