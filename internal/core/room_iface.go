package core

import (
	"github.com/dkeye/Relay/internal/domain"
)

// PublishResult reports delivery stats/backpressure to the gateway.
type PublishResult struct {
	SendTo  int
	Dropped []SessionID
}

// RoomService is one room's delivery group.
// It owns the set of connections but never closes them.
type RoomService interface {
	Name() domain.RoomName
	MemberCount() int

	AddMember(sid SessionID, conn SignalConnection)
	// RemoveMember reports whether the group is empty afterwards.
	RemoveMember(sid SessionID) bool
	// Broadcast sends to every member except `except` ("" excludes nobody).
	Broadcast(except SessionID, data Frame) PublishResult
}

type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"client_count"`
}

type RoomManager interface {
	GetOrCreate(name domain.RoomName) RoomService
	Get(name domain.RoomName) (RoomService, bool)
	List() []RoomInfo
	StopRoom(name domain.RoomName)
}
