// Package blob stores short-lived binary payloads, typically synthesized
// audio, keyed by a generated opaque id. Entries live in process memory and
// are removed by a periodic age-based sweep. Blob ids are independent of
// session ids; an entry may carry a soft session association used only for
// bookkeeping, never enforced.
package blob

import (
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voicegate/voicegate/internal/log"
)

// Entry is one stored payload.
type Entry struct {
	// ID is the opaque blob identifier (UUID v4).
	ID string

	// Data is the raw payload.
	Data []byte

	// CreatedAt drives sweep expiry.
	CreatedAt time.Time

	// SessionID is a soft association with the session the payload was
	// generated for. May be empty; nothing enforces it.
	SessionID string
}

// Store holds blobs. All methods are safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]*Entry
}

// NewStore creates an empty blob store.
func NewStore() *Store {
	return &Store{
		blobs: make(map[string]*Entry),
	}
}

// Put stores raw bytes and returns the generated blob id.
func (s *Store) Put(data []byte) string {
	return s.PutForSession("", data)
}

// PutForSession stores raw bytes with a soft session association.
func (s *Store) PutForSession(sessionID string, data []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.blobs[id] = &Entry{
		ID:        id,
		Data:      data,
		CreatedAt: time.Now(),
		SessionID: sessionID,
	}

	log.Debug("blob stored", "blob_id", id, "bytes", len(data), "session_id", sessionID)
	return id
}

// PutString stores a textual payload after DecodePayload.
func (s *Store) PutString(sessionID, data string) string {
	return s.PutForSession(sessionID, DecodePayload(data))
}

// DecodePayload decodes a textual audio payload: a data-URL prefix is
// stripped and the remainder base64-decoded. Malformed base64 falls back to
// the literal bytes of the input. The fallback keeps lenient clients working
// but can mask corrupt payloads, so it is logged at warn level.
func DecodePayload(data string) []byte {
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		log.Warn("payload is not valid base64, using literal bytes", "error", err)
		return []byte(data)
	}
	return decoded
}

// Get returns the payload for id, or (nil, false) if unknown.
func (s *Store) Get(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.blobs[id]
	if !ok {
		return nil, false
	}
	return entry.Data, true
}

// Sweep removes every blob older than maxAge, by creation time, and returns
// the number removed.
func (s *Store) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, entry := range s.blobs {
		if entry.CreatedAt.Before(cutoff) {
			delete(s.blobs, id)
			removed++
		}
	}

	if removed > 0 {
		log.Info("swept expired blobs", "removed", removed, "max_age", maxAge)
	}
	return removed
}

// Len returns the number of stored blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
