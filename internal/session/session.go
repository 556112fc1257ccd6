package session

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single transcript entry.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConfigurationStatus reflects the outcome of the last credential submission.
type ConfigurationStatus int

const (
	// StatusUnset means no submission has been attempted yet.
	StatusUnset ConfigurationStatus = iota
	StatusConfigured
	StatusNotConfigured
)

// String returns the status name used in logs and API responses.
func (s ConfigurationStatus) String() string {
	switch s {
	case StatusConfigured:
		return "configured"
	case StatusNotConfigured:
		return "not_configured"
	default:
		return "unset"
	}
}

// Session is one logical conversation with the assistant backend.
type Session struct {
	id         string
	createdAt  time.Time
	transcript []Message
	status     ConfigurationStatus
}

// New creates a session with a fresh random identifier and an empty transcript.
func New() *Session {
	return &Session{
		id:         uuid.NewString(),
		createdAt:  time.Now().UTC(),
		transcript: make([]Message, 0, 16),
	}
}

// ID returns the identifier sent to the backend. It never changes for the
// lifetime of the session.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns the creation time of the session.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Append adds a message to the end of the transcript.
func (s *Session) Append(role Role, content string) {
	s.transcript = append(s.transcript, Message{Role: role, Content: content})
}

// Messages returns a copy of the transcript in the order it was written.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Len returns the number of transcript messages.
func (s *Session) Len() int {
	return len(s.transcript)
}

// ConfigurationStatus returns the outcome of the last credential submission.
func (s *Session) ConfigurationStatus() ConfigurationStatus {
	return s.status
}

// Configured reports whether the last credential submission succeeded.
func (s *Session) Configured() bool {
	return s.status == StatusConfigured
}

// SetConfigured records the outcome of a credential submission attempt.
func (s *Session) SetConfigured(ok bool) {
	if ok {
		s.status = StatusConfigured
		return
	}
	s.status = StatusNotConfigured
}
