package sessions

import "time"

// SessionData records a locally authenticated subject. A session is created
// when a password grant succeeds and removed again at /connect/logout.
type SessionData struct {
	ID        string    // Unique session identifier (UUID)
	Subject   string    // Authenticated user ID
	Timestamp time.Time // When the session was created
}

// Repo defines the interface for session storage operations.
type Repo interface {
	// Upsert creates or updates a session
	Upsert(sessionID string, sessionData *SessionData) error

	// Delete removes a session by ID
	Delete(sessionID string) error

	// Get retrieves a session by ID
	Get(sessionID string) (*SessionData, error)

	// DeleteBySubject removes every session belonging to a subject
	DeleteBySubject(subject string) error
}
