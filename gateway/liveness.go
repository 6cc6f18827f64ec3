package gateway

import "log/slog"

// Monitor probes sessions with pings and reports the ones that stopped
// answering.
type Monitor struct {
	maxMissed int
}

func NewMonitor(maxMissed int) *Monitor {
	if maxMissed < 1 {
		maxMissed = 1
	}
	return &Monitor{maxMissed: maxMissed}
}

// Probe runs one heartbeat round. A session still waiting on the previous
// probe counts a miss; after maxMissed consecutive misses, or a failed ping,
// it is returned as dead. Everyone else is pinged again.
func (m *Monitor) Probe(sessions []*Session) (dead []*Session) {
	for _, s := range sessions {
		if s.awaitingPong {
			s.missedPongs++
		} else {
			s.missedPongs = 0
		}
		if s.missedPongs >= m.maxMissed {
			dead = append(dead, s)
			continue
		}
		if err := s.conn.Ping(); err != nil {
			slog.Debug("ping failed", "connId", s.ID, "error", err)
			dead = append(dead, s)
			continue
		}
		s.awaitingPong = true
	}
	return dead
}

// Pong records a heartbeat response for s.
func (m *Monitor) Pong(s *Session) {
	s.awaitingPong = false
	s.missedPongs = 0
}
