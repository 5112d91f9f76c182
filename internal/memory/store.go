// Package memory stores conversation sessions and their ordered messages.
package memory

import (
	"time"
)

// Store session storage interface
type Store interface {
	// Session management
	CreateSession() (string, error)
	GetSession(id string) (*Session, error)
	GetLatestSession() (*Session, error)
	ListSessions(limit int) ([]*Session, error)
	UpdateSessionTime(id string) error
	ClearSession(sessionID string) error

	// Messages
	SaveMessage(sessionID string, msg *Message) error
	GetMessages(sessionID string, limit int) ([]*Message, error)

	// Close connection
	Close() error
}

// Session session structure
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message message structure
type Message struct {
	ID         int64
	SessionID  string
	Role       string // "user" | "assistant" | "system" | "tool"
	Content    string
	ToolCalls  string // JSON-encoded tool calls on assistant messages
	ToolCallID string // Set on tool result messages
	CreatedAt  time.Time
}
