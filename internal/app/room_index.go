package app

import "github.com/dkeye/Relay/internal/domain"

// Room views are derived from a snapshot on every call; nothing is cached.

// RosterOf keeps the snapshot order. Never nil, so it encodes as [].
func RosterOf(users []domain.UserEntry, room domain.RoomName) []domain.UserEntry {
	out := make([]domain.UserEntry, 0, len(users))
	for _, u := range users {
		if u.Room == room {
			out = append(out, u)
		}
	}
	return out
}

// ActiveRooms lists each referenced room once, in first-seen order.
func ActiveRooms(users []domain.UserEntry) []domain.RoomName {
	seen := make(map[domain.RoomName]struct{}, len(users))
	out := make([]domain.RoomName, 0, len(users))
	for _, u := range users {
		if _, ok := seen[u.Room]; ok {
			continue
		}
		seen[u.Room] = struct{}{}
		out = append(out, u.Room)
	}
	return out
}
