package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore keeps sessions and messages for the life of the process.
// It is the default backend; nothing survives a restart.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	messages map[string][]*Message
	nextID   int64
}

// NewInMemoryStore creates an in-process session store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*Session),
		messages: make(map[string][]*Message),
	}
}

// CreateSession creates a new session
func (s *InMemoryStore) CreateSession() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	now := time.Now()
	s.sessions[id] = &Session{ID: id, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

// GetSession gets a session by ID, nil if not found
func (s *InMemoryStore) GetSession(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

// GetLatestSession gets the most recently updated session, nil if none exist
func (s *InMemoryStore) GetLatestSession() (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *Session
	for _, session := range s.sessions {
		if latest == nil || session.UpdatedAt.After(latest.UpdatedAt) {
			latest = session
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

// ListSessions lists sessions ordered by most recently updated
func (s *InMemoryStore) ListSessions(limit int) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		copied := *session
		sessions = append(sessions, &copied)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// UpdateSessionTime updates the session timestamp
func (s *InMemoryStore) UpdateSessionTime(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("session not found: %s", id)
	}
	session.UpdatedAt = time.Now()
	return nil
}

// SaveMessage appends a message to a session
func (s *InMemoryStore) SaveMessage(sessionID string, msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session not found: %s", sessionID)
	}

	s.nextID++
	msg.ID = s.nextID
	msg.SessionID = sessionID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	copied := *msg
	s.messages[sessionID] = append(s.messages[sessionID], &copied)
	session.UpdatedAt = time.Now()
	return nil
}

// GetMessages returns the last limit messages of a session in
// chronological order
func (s *InMemoryStore) GetMessages(sessionID string, limit int) ([]*Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	result := make([]*Message, 0, len(msgs))
	for _, msg := range msgs {
		copied := *msg
		result = append(result, &copied)
	}
	return result, nil
}

// ClearSession removes all messages in a session
func (s *InMemoryStore) ClearSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, sessionID)
	return nil
}

// Close is a no-op for the in-process store
func (s *InMemoryStore) Close() error {
	return nil
}
