package gateway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitor_Probe(t *testing.T) {
	m := NewMonitor(2)
	conn := &fakeConn{}
	s := newSession("c1", "u1", conn)

	assert.Empty(t, m.Probe([]*Session{s}), "first probe only pings")
	assert.Equal(t, 1, conn.pings)

	assert.Empty(t, m.Probe([]*Session{s}), "one missed response is tolerated")
	assert.Equal(t, 2, conn.pings)

	assert.Equal(t, []*Session{s}, m.Probe([]*Session{s}), "two missed responses are fatal")
	assert.Equal(t, 2, conn.pings)
}

func TestMonitor_PongResetsMisses(t *testing.T) {
	m := NewMonitor(2)
	s := newSession("c1", "u1", &fakeConn{})

	for i := 0; i < 5; i++ {
		assert.Empty(t, m.Probe([]*Session{s}))
		assert.Empty(t, m.Probe([]*Session{s}))
		m.Pong(s)
	}
	assert.Zero(t, s.missedPongs)
}

func TestMonitor_PingFailureIsFatal(t *testing.T) {
	m := NewMonitor(2)
	s := newSession("c1", "u1", &fakeConn{pingErr: errors.New("broken pipe")})

	assert.Equal(t, []*Session{s}, m.Probe([]*Session{s}))
}
