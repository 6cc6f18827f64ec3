package gateway

import "log/slog"

// Router fans accepted events out to room members.
type Router struct {
	sessions *SessionManager
	evict    func(s *Session, reason string)
}

func NewRouter(sessions *SessionManager, evict func(s *Session, reason string)) *Router {
	return &Router{sessions: sessions, evict: evict}
}

// Broadcast delivers data to every live member of roomID, the author
// included, and returns how many sessions accepted it. Members whose send
// fails are evicted.
func (r *Router) Broadcast(roomID string, data []byte) int {
	delivered := 0
	for _, s := range r.sessions.Members(roomID) {
		if err := s.conn.Send(data); err != nil {
			slog.Warn("send failed", "connId", s.ID, "roomId", roomID, "error", err)
			r.evict(s, "send failed")
			continue
		}
		delivered++
	}
	return delivered
}
