// Package session holds per-conversation state for the gateway: an
// append-only message history plus open metadata, keyed by an opaque
// session id. State lives in process memory only; expired sessions are
// removed by a periodic sweep, never per-request.
package session

import "time"

// Message is a single conversation turn.
type Message struct {
	// Role is the message sender: "user", "assistant" or "system".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Timestamp records when the message was appended.
	Timestamp time.Time `json:"timestamp"`
}

// Session is the accumulated state of one conversation.
type Session struct {
	// ID is the opaque session identifier (UUID v4). Callers must not
	// depend on any structure inside it.
	ID string `json:"id"`

	// CreatedAt is when the session was created.
	CreatedAt time.Time `json:"created_at"`

	// LastActivity is refreshed by every append; the sweep uses it to
	// decide expiry.
	LastActivity time.Time `json:"last_activity"`

	// Conversation is the ordered message history, oldest first.
	Conversation []Message `json:"conversation"`

	// Metadata is an open mapping for collaborator bookkeeping.
	Metadata map[string]any `json:"metadata"`
}

// clone returns a deep copy so callers never share mutable state with
// the store.
func (s *Session) clone() *Session {
	out := *s
	out.Conversation = make([]Message, len(s.Conversation))
	copy(out.Conversation, s.Conversation)
	out.Metadata = make(map[string]any, len(s.Metadata))
	for k, v := range s.Metadata {
		out.Metadata[k] = copyValue(v)
	}
	return &out
}

// copyValue deep-copies JSON-shaped metadata values. Maps and slices are
// duplicated recursively; every other type is treated as immutable and
// shared as-is.
func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = copyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
