package orch

import (
	"sync"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

const welcomeText = "Welcome to Chat App!"

// Orchestrator drives session lifecycle: it is the only writer of the
// Registry and tells the Gateway what to emit. Each handler runs under mu
// from first read to last send, so rosters never interleave.
type Orchestrator struct {
	Registry *app.Registry
	Gateway  core.Gateway
	Messages app.MessageBuilder

	mu sync.Mutex
}

func New(reg *app.Registry, gw core.Gateway, msgs app.MessageBuilder) *Orchestrator {
	return &Orchestrator{
		Registry: reg,
		Gateway:  gw,
		Messages: msgs,
	}
}

func (o *Orchestrator) OnConnect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("connected")
	o.Gateway.Unicast(sid, o.adminMessage(welcomeText))
}

// OnMessage relays text to the sender's whole room, sender included.
// Sessions that never entered a room are ignored.
func (o *Orchestrator) OnMessage(sid core.SessionID, text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	user, ok := o.Registry.Lookup(sid)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("message from roomless session dropped")
		return
	}
	o.Gateway.RoomCast(user.Room, o.message(user.Name, text))
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(user.Room)).Msg("message relayed")
}

// OnActivity tells the rest of the room that sid is typing.
func (o *Orchestrator) OnActivity(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	user, ok := o.Registry.Lookup(sid)
	if !ok {
		return
	}
	o.Gateway.RoomCastExcept(user.Room, sid, core.Event{Type: core.EventActivity, Payload: user.Name})
}

func (o *Orchestrator) message(author, text string) core.Event {
	return core.Event{Type: core.EventMessage, Payload: o.Messages.Build(author, text)}
}

func (o *Orchestrator) adminMessage(text string) core.Event {
	return o.message(domain.AdminAuthor, text)
}

// ActiveRooms is a read view for callers outside the lifecycle handlers.
func (o *Orchestrator) ActiveRooms() []domain.RoomName {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Registry.ActiveRooms()
}

func (o *Orchestrator) Roster(room domain.RoomName) []domain.UserEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Registry.RosterOf(room)
}
