package orch

import (
	"fmt"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

// EnterRoom puts sid into room, leaving its previous room first. Entering
// the room sid is already in runs the same leave/join sequence.
func (o *Orchestrator) EnterRoom(sid core.SessionID, name string, room domain.RoomName) domain.UserEntry {
	o.mu.Lock()
	defer o.mu.Unlock()

	prevRoom, hadRoom := o.Registry.RoomOf(sid)
	if hadRoom {
		o.Gateway.LeaveGroup(sid, prevRoom)
		o.Gateway.RoomCast(prevRoom, o.adminMessage(fmt.Sprintf("%s has left the room", name)))
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(prevRoom)).Msg("left room")
	}

	user := o.Registry.Upsert(sid, name, room)

	// prevRoom's roster can only be rebuilt once the store has moved sid.
	if hadRoom {
		o.sendUserList(prevRoom)
	}

	o.Gateway.JoinGroup(sid, user.Room)
	o.Gateway.Unicast(sid, o.adminMessage(fmt.Sprintf("You have joined the %s chat room!", user.Room)))
	o.Gateway.RoomCastExcept(user.Room, sid, o.adminMessage(fmt.Sprintf("%s has joined the room", user.Name)))
	o.sendUserList(user.Room)
	o.sendRoomList()

	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(user.Room)).Str("name", user.Name).Msg("entered room")
	return user
}

// OnDisconnect forgets sid. Sessions that never entered a room leave
// silently.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	user, ok := o.Registry.Lookup(sid)
	o.Registry.Remove(sid)
	if !ok {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("disconnected")
		return
	}

	o.Gateway.LeaveGroup(sid, user.Room)
	o.Gateway.RoomCast(user.Room, o.adminMessage(fmt.Sprintf("%s has left the room.", user.Name)))
	o.sendUserList(user.Room)
	o.sendRoomList()
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(user.Room)).Msg("disconnected")
}

func (o *Orchestrator) sendUserList(room domain.RoomName) {
	o.Gateway.RoomCast(room, core.Event{
		Type:    core.EventUserList,
		Payload: core.UserListPayload{Users: o.Registry.RosterOf(room)},
	})
}

func (o *Orchestrator) sendRoomList() {
	o.Gateway.Broadcast(core.Event{
		Type:    core.EventRoomList,
		Payload: core.RoomListPayload{Rooms: o.Registry.ActiveRooms()},
	})
}
