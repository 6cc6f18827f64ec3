// Package gateway owns live drawing connections: it authenticates them,
// tracks room membership, persists chat events and fans them out.
//
// All registry state is owned by a single loop goroutine (Run). Transport
// goroutines post work to it; persistence calls run off the loop and post
// their completion back, serialized per room so that stored order and
// delivery order agree. Ordering holds within one gateway process only;
// scaling out needs a room-level sequencer in front of the store.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"drawboard/protocol"
	"drawboard/store"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrClosed       = errors.New("gateway closed")
)

// Verifier resolves a bearer token to a user id.
type Verifier interface {
	Verify(token string) (userID string, err error)
}

// Store durably records chat events.
type Store interface {
	Append(ctx context.Context, roomID, userID, payload string) (store.Event, error)
	ListRecent(ctx context.Context, roomID string, limit int) ([]store.Event, error)
}

type Options struct {
	HistoryLimit   int
	PingInterval   time.Duration
	MaxMissedPongs int
}

func DefaultOptions() Options {
	return Options{
		HistoryLimit:   store.DefaultHistoryLimit,
		PingInterval:   30 * time.Second,
		MaxMissedPongs: 2,
	}
}

type Gateway struct {
	verifier Verifier
	store    Store
	opts     Options

	sessions *SessionManager
	router   *Router
	monitor  *Monitor
	queues   map[string]*roomQueue

	ops      chan func()
	done     chan struct{}
	runCtx   context.Context
	inflight sync.WaitGroup
}

func New(verifier Verifier, st Store, opts Options) *Gateway {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = store.DefaultHistoryLimit
	}
	g := &Gateway{
		verifier: verifier,
		store:    st,
		opts:     opts,
		sessions: NewSessionManager(),
		monitor:  NewMonitor(opts.MaxMissedPongs),
		queues:   make(map[string]*roomQueue),
		ops:      make(chan func(), 1024),
		done:     make(chan struct{}),
	}
	g.router = NewRouter(g.sessions, g.remove)
	return g
}

// Run processes gateway work until ctx is canceled, then closes every live
// connection.
func (g *Gateway) Run(ctx context.Context) error {
	g.runCtx = ctx

	var tick <-chan time.Time
	if g.opts.PingInterval > 0 {
		ticker := time.NewTicker(g.opts.PingInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			g.shutdown()
			return nil
		case op := <-g.ops:
			op()
		case <-tick:
			g.probe()
		}
	}
}

func (g *Gateway) shutdown() {
	for _, s := range g.sessions.All() {
		g.remove(s, "shutdown")
	}
	close(g.done)
	g.inflight.Wait()
}

// Connect authenticates token and registers conn with no rooms. On failure
// conn is closed without any payload being sent.
func (g *Gateway) Connect(ctx context.Context, token string, conn Conn) (*Session, error) {
	userID, err := g.verifier.Verify(token)
	if err != nil {
		slog.Info("connection rejected", "error", err)
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	s := newSession(uuid.NewString(), userID, conn)
	err = g.call(ctx, func() {
		g.sessions.Add(s)
		slog.Info("client connected", "connId", s.ID, "userId", userID)
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// HandleMessage queues one inbound frame from s.
func (g *Gateway) HandleMessage(s *Session, raw []byte) {
	g.post(func() {
		if g.sessions.Live(s) {
			g.dispatch(s, raw)
		}
	})
}

// Disconnect removes s from the registry and every room.
func (g *Gateway) Disconnect(s *Session) {
	g.post(func() { g.remove(s, "closed") })
}

// Pong records a heartbeat response from s.
func (g *Gateway) Pong(s *Session) {
	g.post(func() {
		if g.sessions.Live(s) {
			g.monitor.Pong(s)
		}
	})
}

// Stats reports the number of joined rooms and live connections.
func (g *Gateway) Stats(ctx context.Context) (rooms, connections int, err error) {
	err = g.call(ctx, func() { rooms, connections = g.sessions.Stats() })
	return rooms, connections, err
}

func (g *Gateway) post(op func()) bool {
	select {
	case g.ops <- op:
		return true
	case <-g.done:
		return false
	}
}

// call runs fn on the loop and waits for it.
func (g *Gateway) call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !g.post(func() { fn(); close(finished) }) {
		return ErrClosed
	}
	select {
	case <-finished:
		return nil
	case <-g.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gateway) dispatch(s *Session, raw []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		slog.Warn("invalid message", "connId", s.ID, "error", err)
		return
	}

	roomID := env.RoomID.String()
	switch env.Type {
	case protocol.TypeJoinRoom:
		if roomID == "" {
			return
		}
		if s.join(roomID) {
			slog.Info("joined room", "connId", s.ID, "roomId", roomID)
			g.enqueue(roomID, g.syncJob(s, roomID))
		}

	case protocol.TypeLeaveRoom:
		if roomID == "" {
			return
		}
		if s.leave(roomID) {
			slog.Info("left room", "connId", s.ID, "roomId", roomID)
		}

	case protocol.TypeChat:
		if roomID == "" || env.Message == "" {
			return
		}
		g.enqueue(roomID, g.chatJob(s, roomID, env.Message))

	default:
		slog.Warn("unknown message type", "connId", s.ID, "type", env.Type)
	}
}

func (g *Gateway) remove(s *Session, reason string) {
	if !g.sessions.Live(s) {
		return
	}
	g.sessions.Remove(s.ID)
	s.conn.Close()
	slog.Info("client disconnected", "connId", s.ID, "userId", s.UserID, "reason", reason)
}

func (g *Gateway) reply(s *Session, env protocol.Envelope) {
	if !g.sessions.Live(s) {
		return
	}
	data, err := protocol.Encode(env)
	if err != nil {
		slog.Error("encode reply", "connId", s.ID, "error", err)
		return
	}
	if err := s.conn.Send(data); err != nil {
		slog.Warn("send failed", "connId", s.ID, "error", err)
		g.remove(s, "send failed")
	}
}

func (g *Gateway) probe() {
	for _, s := range g.monitor.Probe(g.sessions.All()) {
		g.remove(s, "heartbeat timeout")
	}
}
