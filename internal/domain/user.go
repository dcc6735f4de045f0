// Package domain contains entity without logic, just meta-data
package domain

const (
	MaxUsernameLen = 36
	MaxRoomNameLen = 36
	MaxTextLen     = 2000
)

type UserID string

// UserEntry is one connection's membership: who it is and where it sits.
// Entries are replaced wholesale, never patched.
type UserEntry struct {
	ID   UserID   `json:"id"`
	Name string   `json:"name"`
	Room RoomName `json:"room"`
}

// NewUserEntry is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUserEntry(id UserID, name string, room RoomName) UserEntry {
	return UserEntry{ID: id, Name: name, Room: room}
}
