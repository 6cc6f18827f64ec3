package gateway

import (
	"context"
	"log/slog"

	"drawboard/protocol"
)

// job does its blocking part off the loop and returns the completion to run
// back on it.
type job func(ctx context.Context) (complete func())

// roomQueue runs a room's jobs one at a time in arrival order.
type roomQueue struct {
	pending []job
	busy    bool
}

func (g *Gateway) enqueue(roomID string, j job) {
	q, ok := g.queues[roomID]
	if !ok {
		q = &roomQueue{}
		g.queues[roomID] = q
	}
	q.pending = append(q.pending, j)
	if !q.busy {
		g.next(roomID, q)
	}
}

func (g *Gateway) next(roomID string, q *roomQueue) {
	if len(q.pending) == 0 {
		q.busy = false
		delete(g.queues, roomID)
		return
	}

	j := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	q.busy = true

	ctx := g.runCtx
	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()
		complete := j(ctx)
		g.post(func() {
			complete()
			g.next(roomID, q)
		})
	}()
}

// chatJob persists message and fans it out only once the store accepted it.
func (g *Gateway) chatJob(s *Session, roomID, message string) job {
	return func(ctx context.Context) func() {
		ev, err := g.store.Append(ctx, roomID, s.UserID, message)
		return func() {
			if err != nil {
				slog.Error("persist failed", "connId", s.ID, "roomId", roomID, "error", err)
				g.reply(s, protocol.Envelope{
					Type:     protocol.TypeError,
					RoomID:   protocol.RoomID(roomID),
					Message:  "failed to store message",
					Rejected: message,
				})
				return
			}

			data, err := protocol.Encode(protocol.Envelope{
				Type:    protocol.TypeChat,
				RoomID:  protocol.RoomID(roomID),
				Message: ev.Payload,
				UserID:  ev.UserID,
			})
			if err != nil {
				slog.Error("encode chat", "roomId", roomID, "error", err)
				return
			}
			n := g.router.Broadcast(roomID, data)
			slog.Debug("event delivered", "roomId", roomID, "eventId", ev.ID, "receivers", n)
		}
	}
}

// syncJob sends the joiner the room's recent history. It shares the room
// queue with chatJob, so every chat delivered before the sync is part of it.
func (g *Gateway) syncJob(s *Session, roomID string) job {
	return func(ctx context.Context) func() {
		events, err := g.store.ListRecent(ctx, roomID, g.opts.HistoryLimit)
		return func() {
			if !g.sessions.Live(s) || !s.In(roomID) {
				return
			}
			if err != nil {
				slog.Error("load history failed", "connId", s.ID, "roomId", roomID, "error", err)
				g.reply(s, protocol.Envelope{
					Type:    protocol.TypeError,
					RoomID:  protocol.RoomID(roomID),
					Message: "failed to load history",
				})
				return
			}

			history := make([]protocol.Event, len(events))
			for i, ev := range events {
				history[i] = protocol.Event{UserID: ev.UserID, Message: ev.Payload}
			}
			g.reply(s, protocol.Envelope{
				Type:   protocol.TypeSync,
				RoomID: protocol.RoomID(roomID),
				Events: history,
			})
		}
	}
}
