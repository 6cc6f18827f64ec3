package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_JoinLeave(t *testing.T) {
	tests := []struct {
		name string
		ops  []string // "+r" joins r, "-r" leaves r
		want []string
	}{
		{name: "join once", ops: []string{"+a"}, want: []string{"a"}},
		{name: "join is idempotent", ops: []string{"+a", "+a", "+b", "+a"}, want: []string{"a", "b"}},
		{name: "leave removes only that room", ops: []string{"+a", "+b", "+c", "-b"}, want: []string{"a", "c"}},
		{name: "leave unknown room", ops: []string{"+a", "-z"}, want: []string{"a"}},
		{name: "leave last room", ops: []string{"+a", "-a"}, want: []string{}},
		{name: "rejoin after leave", ops: []string{"+a", "+b", "-a", "+a"}, want: []string{"b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession("c1", "u1", &fakeConn{})
			for _, op := range tt.ops {
				if op[0] == '+' {
					s.join(op[1:])
				} else {
					s.leave(op[1:])
				}
			}
			assert.ElementsMatch(t, tt.want, s.Rooms())
			assert.Equal(t, len(tt.want), len(s.Rooms()))
		})
	}
}

// Regression: leaving a room must not keep only the room being left.
func TestSession_LeaveKeepsOtherRooms(t *testing.T) {
	s := newSession("c1", "u1", &fakeConn{})
	s.join("1")
	s.join("2")
	s.join("3")

	assert.True(t, s.leave("2"))

	assert.False(t, s.In("2"))
	assert.True(t, s.In("1"))
	assert.True(t, s.In("3"))
}

func TestSessionManager_MembersAndStats(t *testing.T) {
	m := NewSessionManager()
	a := newSession("a", "u1", &fakeConn{})
	b := newSession("b", "u2", &fakeConn{})
	c := newSession("c", "u3", &fakeConn{})
	a.join("r1")
	b.join("r1")
	b.join("r2")
	m.Add(a)
	m.Add(b)
	m.Add(c)

	assert.ElementsMatch(t, []*Session{a, b}, m.Members("r1"))
	assert.ElementsMatch(t, []*Session{b}, m.Members("r2"))
	assert.Empty(t, m.Members("r3"))

	rooms, sessions := m.Stats()
	assert.Equal(t, 2, rooms)
	assert.Equal(t, 3, sessions)

	removed, ok := m.Remove("b")
	assert.True(t, ok)
	assert.Same(t, b, removed)
	assert.False(t, m.Live(b))
	assert.ElementsMatch(t, []*Session{a}, m.Members("r1"))
}
