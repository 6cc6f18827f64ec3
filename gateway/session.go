package gateway

import "slices"

// Conn is the transport side of a live connection.
type Conn interface {
	Send(data []byte) error
	Ping() error
	Close() error
}

// Session is one authenticated connection and the rooms it has joined.
// ID and UserID are immutable; everything else is owned by the gateway loop.
type Session struct {
	ID     string
	UserID string

	conn  Conn
	rooms []string

	awaitingPong bool
	missedPongs  int
}

func newSession(id, userID string, conn Conn) *Session {
	return &Session{ID: id, UserID: userID, conn: conn}
}

// In reports whether the session is a member of roomID.
func (s *Session) In(roomID string) bool {
	return slices.Contains(s.rooms, roomID)
}

// join adds roomID once; it reports whether membership changed.
func (s *Session) join(roomID string) bool {
	if s.In(roomID) {
		return false
	}
	s.rooms = append(s.rooms, roomID)
	return true
}

// leave removes exactly roomID and keeps every other membership.
func (s *Session) leave(roomID string) bool {
	i := slices.Index(s.rooms, roomID)
	if i < 0 {
		return false
	}
	s.rooms = slices.Delete(s.rooms, i, i+1)
	return true
}

// Rooms returns a copy of the joined rooms in join order.
func (s *Session) Rooms() []string {
	return slices.Clone(s.rooms)
}
