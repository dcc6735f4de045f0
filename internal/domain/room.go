package domain

// RoomName is a plain label. A room exists only while somebody is in it.
type RoomName string
