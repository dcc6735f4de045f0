package core

import "github.com/google/uuid"

// SessionID identifies one live connection. It dies with the connection.
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}
