package app

import (
	"slices"
	"sync"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

type userSlot struct {
	user domain.UserEntry
	seq  uint64
}

// Registry is the membership store: at most one UserEntry per session,
// kept in insertion order. Connected-but-roomless sessions are not here.
type Registry struct {
	mu    sync.RWMutex
	users map[core.SessionID]userSlot
	seq   uint64
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[core.SessionID]userSlot),
	}
}

// Upsert drops any entry for sid and appends a fresh one. Whatever room sid
// was in before is gone after this call.
func (r *Registry) Upsert(sid core.SessionID, name string, room domain.RoomName) domain.UserEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	u := domain.NewUserEntry(domain.UserID(sid), name, room)
	r.users[sid] = userSlot{user: u, seq: r.seq}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(room)).Str("name", name).Msg("upsert user")
	return u
}

func (r *Registry) Remove(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[sid]; !ok {
		return
	}
	delete(r.users, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("removed user")
}

func (r *Registry) Lookup(sid core.SessionID) (domain.UserEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.users[sid]
	return s.user, ok
}

func (r *Registry) RoomOf(sid core.SessionID) (domain.RoomName, bool) {
	u, ok := r.Lookup(sid)
	if !ok {
		return "", false
	}
	return u.Room, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Snapshot returns a copy of all entries in insertion order.
func (r *Registry) Snapshot() []domain.UserEntry {
	r.mu.RLock()
	slots := make([]userSlot, 0, len(r.users))
	for _, s := range r.users {
		slots = append(slots, s)
	}
	r.mu.RUnlock()

	slices.SortFunc(slots, func(a, b userSlot) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	out := make([]domain.UserEntry, len(slots))
	for i, s := range slots {
		out[i] = s.user
	}
	return out
}

func (r *Registry) RosterOf(room domain.RoomName) []domain.UserEntry {
	return RosterOf(r.Snapshot(), room)
}

func (r *Registry) ActiveRooms() []domain.RoomName {
	return ActiveRooms(r.Snapshot())
}
