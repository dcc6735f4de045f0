package core

import (
	"testing"
)

type fakeConn struct {
	frames []Frame
	full   bool
}

func (c *fakeConn) TrySend(f Frame) error {
	if c.full {
		return ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {}

func TestRoomBroadcastSkipsExcept(t *testing.T) {
	room := NewRoomService("lobby")
	a, b := &fakeConn{}, &fakeConn{}
	room.AddMember("a", a)
	room.AddMember("b", b)

	res := room.Broadcast("a", Frame("hi"))
	if res.SendTo != 1 || len(res.Dropped) != 0 {
		t.Fatalf("result = %+v, want one delivery", res)
	}
	if len(a.frames) != 0 {
		t.Fatalf("excluded member got %d frames", len(a.frames))
	}
	if len(b.frames) != 1 || string(b.frames[0]) != "hi" {
		t.Fatalf("b frames = %q", b.frames)
	}
}

func TestRoomBroadcastEmptyExceptReachesEveryone(t *testing.T) {
	room := NewRoomService("lobby")
	a, b := &fakeConn{}, &fakeConn{}
	room.AddMember("a", a)
	room.AddMember("b", b)

	if res := room.Broadcast("", Frame("x")); res.SendTo != 2 {
		t.Fatalf("sent to %d, want 2", res.SendTo)
	}
}

func TestRoomBroadcastReportsDropped(t *testing.T) {
	room := NewRoomService("lobby")
	room.AddMember("ok", &fakeConn{})
	room.AddMember("slow", &fakeConn{full: true})

	res := room.Broadcast("", Frame("x"))
	if res.SendTo != 1 {
		t.Fatalf("sent to %d, want 1", res.SendTo)
	}
	if len(res.Dropped) != 1 || res.Dropped[0] != "slow" {
		t.Fatalf("dropped = %v, want [slow]", res.Dropped)
	}
}

func TestRoomRemoveMemberReportsEmpty(t *testing.T) {
	room := NewRoomService("lobby")
	room.AddMember("a", &fakeConn{})
	room.AddMember("b", &fakeConn{})

	if room.RemoveMember("a") {
		t.Fatal("room reported empty with one member left")
	}
	if !room.RemoveMember("b") {
		t.Fatal("room not reported empty after last member left")
	}
	if room.MemberCount() != 0 {
		t.Fatalf("member count = %d", room.MemberCount())
	}
}
