package domain

import "time"

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one exchange half in a question-answering session.
type Turn struct {
	// Role is who spoke.
	Role Role

	// Content is the message text.
	Content string

	// At is when the turn was recorded.
	At time.Time
}

// Session is a caller-owned conversation. The core reads and appends to it
// but never synchronizes access; callers that share a session across
// goroutines must serialize themselves.
type Session struct {
	// ID identifies the session.
	ID string

	// Namespace scopes the session to one document namespace.
	Namespace string

	// Turns is the conversation history, oldest first.
	Turns []Turn

	// CreatedAt is when the session was opened.
	CreatedAt time.Time
}

// NewSession opens a session in the given namespace. An empty namespace
// falls back to DefaultNamespace.
func NewSession(id, namespace string) *Session {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Session{
		ID:        id,
		Namespace: namespace,
		CreatedAt: time.Now(),
	}
}

// Append records a turn.
func (s *Session) Append(role Role, content string, at time.Time) {
	s.Turns = append(s.Turns, Turn{Role: role, Content: content, At: at})
}

// Recent returns the last n turns, oldest first. n <= 0 returns nil.
func (s *Session) Recent(n int) []Turn {
	if n <= 0 || len(s.Turns) == 0 {
		return nil
	}
	if n >= len(s.Turns) {
		out := make([]Turn, len(s.Turns))
		copy(out, s.Turns)
		return out
	}
	out := make([]Turn, n)
	copy(out, s.Turns[len(s.Turns)-n:])
	return out
}
