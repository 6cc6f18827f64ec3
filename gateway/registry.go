package gateway

// SessionManager is the registry of live sessions. It is not safe for
// concurrent use; the gateway loop is its only caller.
type SessionManager struct {
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

func (m *SessionManager) Add(s *Session) {
	m.sessions[s.ID] = s
}

func (m *SessionManager) Remove(id string) (*Session, bool) {
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	return s, ok
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	s, ok := m.sessions[id]
	return s, ok
}

// Live reports whether s is the registered session under its id.
func (m *SessionManager) Live(s *Session) bool {
	cur, ok := m.sessions[s.ID]
	return ok && cur == s
}

// Members returns every live session that has joined roomID.
func (m *SessionManager) Members(roomID string) []*Session {
	var members []*Session
	for _, s := range m.sessions {
		if s.In(roomID) {
			members = append(members, s)
		}
	}
	return members
}

func (m *SessionManager) All() []*Session {
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	return all
}

// Stats returns the number of distinct joined rooms and live sessions.
func (m *SessionManager) Stats() (rooms, sessions int) {
	seen := make(map[string]struct{})
	for _, s := range m.sessions {
		for _, r := range s.rooms {
			seen[r] = struct{}{}
		}
	}
	return len(seen), len(m.sessions)
}
