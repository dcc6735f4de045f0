package core

import "github.com/dkeye/Relay/internal/domain"

// Outbound event names.
const (
	EventMessage  = "message"
	EventUserList = "userList"
	EventRoomList = "roomList"
	EventActivity = "activity"
	EventError    = "error"
)

// Event is what the controller hands to the gateway. Payload is encoded by
// the gateway, once per addressed send.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type UserListPayload struct {
	Users []domain.UserEntry `json:"users"`
}

type RoomListPayload struct {
	Rooms []domain.RoomName `json:"rooms"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// Gateway delivers events to connections. It keeps its own delivery groups,
// which the controller moves in step with the membership store.
type Gateway interface {
	Unicast(sid SessionID, ev Event)
	// RoomCast reaches every connection in the room's delivery group.
	RoomCast(room domain.RoomName, ev Event)
	// RoomCastExcept is RoomCast without the originating connection.
	RoomCastExcept(room domain.RoomName, except SessionID, ev Event)
	Broadcast(ev Event)

	JoinGroup(sid SessionID, room domain.RoomName)
	LeaveGroup(sid SessionID, room domain.RoomName)
}
