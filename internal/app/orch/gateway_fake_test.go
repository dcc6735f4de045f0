package orch

import (
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
)

// recordingGateway delivers into per-session inboxes and keeps delivery
// groups the way a real transport would.
type recordingGateway struct {
	mu     sync.Mutex
	conns  map[core.SessionID]struct{}
	groups map[domain.RoomName]map[core.SessionID]struct{}
	inbox  map[core.SessionID][]core.Event
	sends  int
}

func newRecordingGateway() *recordingGateway {
	return &recordingGateway{
		conns:  make(map[core.SessionID]struct{}),
		groups: make(map[domain.RoomName]map[core.SessionID]struct{}),
		inbox:  make(map[core.SessionID][]core.Event),
	}
}

func (g *recordingGateway) connect(sid core.SessionID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.conns[sid] = struct{}{}
}

func (g *recordingGateway) drop(sid core.SessionID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.conns, sid)
}

func (g *recordingGateway) deliver(sid core.SessionID, ev core.Event) {
	g.inbox[sid] = append(g.inbox[sid], ev)
	g.sends++
}

func (g *recordingGateway) Unicast(sid core.SessionID, ev core.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.conns[sid]; ok {
		g.deliver(sid, ev)
	}
}

func (g *recordingGateway) RoomCast(room domain.RoomName, ev core.Event) {
	g.RoomCastExcept(room, "", ev)
}

func (g *recordingGateway) RoomCastExcept(room domain.RoomName, except core.SessionID, ev core.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for sid := range g.groups[room] {
		if sid != except {
			g.deliver(sid, ev)
		}
	}
}

func (g *recordingGateway) Broadcast(ev core.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for sid := range g.conns {
		g.deliver(sid, ev)
	}
}

func (g *recordingGateway) JoinGroup(sid core.SessionID, room domain.RoomName) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.groups[room] == nil {
		g.groups[room] = make(map[core.SessionID]struct{})
	}
	g.groups[room][sid] = struct{}{}
}

func (g *recordingGateway) LeaveGroup(sid core.SessionID, room domain.RoomName) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.groups[room], sid)
	if len(g.groups[room]) == 0 {
		delete(g.groups, room)
	}
}

func (g *recordingGateway) events(sid core.SessionID, typ string) []core.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []core.Event
	for _, ev := range g.inbox[sid] {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func (g *recordingGateway) texts(sid core.SessionID) []string {
	var out []string
	for _, ev := range g.events(sid, core.EventMessage) {
		out = append(out, ev.Payload.(domain.Message).Text)
	}
	return out
}

func (g *recordingGateway) lastUserList(t *testing.T, sid core.SessionID) []domain.UserID {
	t.Helper()
	evs := g.events(sid, core.EventUserList)
	if len(evs) == 0 {
		t.Fatalf("%s got no userList", sid)
	}
	users := evs[len(evs)-1].Payload.(core.UserListPayload).Users
	out := make([]domain.UserID, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func (g *recordingGateway) lastRoomList(t *testing.T, sid core.SessionID) []domain.RoomName {
	t.Helper()
	evs := g.events(sid, core.EventRoomList)
	if len(evs) == 0 {
		t.Fatalf("%s got no roomList", sid)
	}
	return evs[len(evs)-1].Payload.(core.RoomListPayload).Rooms
}

func (g *recordingGateway) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inbox = make(map[core.SessionID][]core.Event)
	g.sends = 0
}

func (g *recordingGateway) sendCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sends
}

func newTestOrchestrator() (*Orchestrator, *recordingGateway) {
	gw := newRecordingGateway()
	msgs := app.MessageBuilder{
		Now:    func() time.Time { return time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC) },
		Layout: app.DefaultTimeLayout,
	}
	return New(app.NewRegistry(), gw, msgs), gw
}

func connect(o *Orchestrator, gw *recordingGateway, sids ...core.SessionID) {
	for _, sid := range sids {
		gw.connect(sid)
		o.OnConnect(sid)
	}
}

func disconnect(o *Orchestrator, gw *recordingGateway, sid core.SessionID) {
	gw.drop(sid)
	o.OnDisconnect(sid)
}
