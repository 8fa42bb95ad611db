package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voicegate/voicegate/internal/log"
)

// Store owns all sessions. It is the only component that mutates them;
// callers work with copies. All methods are safe for concurrent use, and
// concurrent appends to the same session both land without loss.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Create allocates a new session with a fresh UUID and returns its id.
// The id space makes collisions effectively impossible, but an existing id
// is never silently merged; a fresh one is drawn instead.
func (s *Store) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	for {
		if _, exists := s.sessions[id]; !exists {
			break
		}
		id = uuid.NewString()
	}

	now := time.Now()
	s.sessions[id] = &Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
		Conversation: []Message{},
		Metadata:     map[string]any{},
	}

	log.Debug("session created", "session_id", id)
	return id
}

// Get returns a copy of the session, or (nil, false) if the id is unknown.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return sess.clone(), true
}

// AppendMessage pushes a message onto the session's conversation and
// refreshes its last-activity timestamp. Returns false if the id is unknown.
func (s *Store) AppendMessage(id, role, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}

	now := time.Now()
	sess.Conversation = append(sess.Conversation, Message{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	sess.LastActivity = now
	return true
}

// History returns a copy of the session's conversation. Unknown ids yield
// an empty history so callers can treat them as fresh conversations.
func (s *Store) History(id string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return []Message{}
	}
	out := make([]Message, len(sess.Conversation))
	copy(out, sess.Conversation)
	return out
}

// SetMetadata stores a metadata key on the session and refreshes its
// last-activity timestamp. Returns false if the id is unknown.
func (s *Store) SetMetadata(id, key string, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.Metadata[key] = value
	sess.LastActivity = time.Now()
	return true
}

// Sweep removes every session idle for longer than maxAge and returns the
// number removed. Intended to run on a periodic timer.
func (s *Store) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		log.Info("swept idle sessions", "removed", removed, "max_age", maxAge)
	}
	return removed
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
