package signal

import (
	"encoding/json"
	"sync"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

// Hub is the websocket-backed core.Gateway. Every send is a non-blocking
// TrySend, so one slow peer never holds up the others; peers that cannot
// keep up are handed to the Policy.
//
// JoinGroup and LeaveGroup are only called from the orchestrator, which
// serializes them.
type Hub struct {
	Rooms  core.RoomManager
	Policy app.Policy

	mu    sync.RWMutex
	conns map[core.SessionID]core.SignalConnection
}

func NewHub(rooms core.RoomManager, policy app.Policy) *Hub {
	return &Hub{
		Rooms:  rooms,
		Policy: policy,
		conns:  make(map[core.SessionID]core.SignalConnection),
	}
}

func (h *Hub) Register(sid core.SessionID, conn core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[sid] = conn
}

func (h *Hub) Unregister(sid core.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, sid)
}

func (h *Hub) conn(sid core.SessionID) (core.SignalConnection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.conns[sid]
	return c, ok
}

func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Groups lists the delivery groups; it should always agree with the
// controller's active rooms.
func (h *Hub) Groups() []core.RoomInfo {
	return h.Rooms.List()
}

func (h *Hub) Unicast(sid core.SessionID, ev core.Event) {
	c, ok := h.conn(sid)
	if !ok {
		return
	}
	frame, ok := encode(ev)
	if !ok {
		return
	}
	if err := c.TrySend(frame); err != nil {
		h.onDropped(nil, []core.SessionID{sid}, err)
	}
}

func (h *Hub) RoomCast(room domain.RoomName, ev core.Event) {
	h.RoomCastExcept(room, "", ev)
}

func (h *Hub) RoomCastExcept(room domain.RoomName, except core.SessionID, ev core.Event) {
	group, ok := h.Rooms.Get(room)
	if !ok {
		return
	}
	frame, ok := encode(ev)
	if !ok {
		return
	}
	res := group.Broadcast(except, frame)
	if len(res.Dropped) > 0 {
		h.onDropped(group, res.Dropped, core.ErrBackpressure)
	}
}

func (h *Hub) Broadcast(ev core.Event) {
	frame, ok := encode(ev)
	if !ok {
		return
	}
	h.mu.RLock()
	var dropped []core.SessionID
	for sid, c := range h.conns {
		if err := c.TrySend(frame); err != nil {
			dropped = append(dropped, sid)
		}
	}
	h.mu.RUnlock()
	if len(dropped) > 0 {
		h.onDropped(nil, dropped, core.ErrBackpressure)
	}
}

func (h *Hub) JoinGroup(sid core.SessionID, room domain.RoomName) {
	c, ok := h.conn(sid)
	if !ok {
		log.Warn().Str("module", "signal.hub").Str("sid", string(sid)).Msg("join for unknown connection")
		return
	}
	h.Rooms.GetOrCreate(room).AddMember(sid, c)
}

func (h *Hub) LeaveGroup(sid core.SessionID, room domain.RoomName) {
	group, ok := h.Rooms.Get(room)
	if !ok {
		return
	}
	if group.RemoveMember(sid) {
		h.Rooms.StopRoom(room)
	}
}

// onDropped applies the policy; room is nil outside room-casts.
func (h *Hub) onDropped(room core.RoomService, sids []core.SessionID, cause error) {
	for _, sid := range sids {
		ev := log.Warn().Err(cause).Str("module", "signal.hub").Str("sid", string(sid))
		if room != nil {
			ev = ev.Str("room", string(room.Name()))
		}
		ev.Msg("delivery dropped")
		if h.Policy == nil {
			continue
		}
		switch h.Policy.OnBackPressure(room, sid) {
		case app.KickMember:
			h.kick(sid)
		case app.DropFrame, app.NoAction:
		}
	}
}

// kick closes the transport; the read loop then reports the disconnect.
func (h *Hub) kick(sid core.SessionID) {
	c, ok := h.conn(sid)
	if !ok {
		return
	}
	log.Info().Str("module", "signal.hub").Str("sid", string(sid)).Msg("kicking slow member")
	c.Close()
}

func encode(ev core.Event) (core.Frame, bool) {
	b, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "signal.hub").Str("type", ev.Type).Msg("encode event")
		return nil, false
	}
	return b, true
}
