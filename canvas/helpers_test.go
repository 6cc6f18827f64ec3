package canvas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"drawboard/protocol"
	"drawboard/shape"
)

type recordingPublisher struct {
	payloads []protocol.Payload
	err      error
}

func (p *recordingPublisher) Publish(roomID string, payload protocol.Payload) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

var errOffline = errors.New("offline")

// loopbackRoom stands in for the gateway: it orders every published payload
// and delivers it to every engine, the author included.
type loopbackRoom struct {
	roomID  string
	queue   []protocol.Envelope
	engines []*Engine
	stored  []string
}

type roomPublisher struct {
	room *loopbackRoom
}

func (p roomPublisher) Publish(roomID string, payload protocol.Payload) error {
	msg, err := protocol.EncodePayload(payload)
	if err != nil {
		return err
	}
	p.room.queue = append(p.room.queue, protocol.Envelope{
		Type:    protocol.TypeChat,
		RoomID:  protocol.RoomID(roomID),
		Message: msg,
	})
	return nil
}

func (r *loopbackRoom) join() *Engine {
	e := New(r.roomID, roomPublisher{room: r})
	r.engines = append(r.engines, e)
	return e
}

func (r *loopbackRoom) deliver() {
	for len(r.queue) > 0 {
		env := r.queue[0]
		r.queue = r.queue[1:]
		r.stored = append(r.stored, env.Message)
		for _, e := range r.engines {
			e.Receive(env)
		}
	}
}

func drag(e *Engine, x1, y1, x2, y2 float64) {
	e.PointerDown(x1, y1)
	e.PointerMove((x1+x2)/2, (y1+y2)/2)
	e.PointerUp(x2, y2)
}

func chat(t *testing.T, roomID string, p protocol.Payload) protocol.Envelope {
	t.Helper()
	msg, err := protocol.EncodePayload(p)
	require.NoError(t, err)
	return protocol.Envelope{Type: protocol.TypeChat, RoomID: protocol.RoomID(roomID), Message: msg}
}

func seed(e *Engine, shapes ...shape.Shape) {
	for _, s := range shapes {
		e.doc.Append(s)
	}
}
