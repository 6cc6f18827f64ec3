package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"drawboard/protocol"
	"drawboard/store"
)

type fakeConn struct {
	mu      sync.Mutex
	sent    [][]byte
	pings   int
	closed  bool
	sendErr error
	pingErr error
}

func (c *fakeConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, data)
	return nil
}

func (c *fakeConn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pingErr != nil {
		return c.pingErr
	}
	c.pings++
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func (c *fakeConn) envelopes(t *testing.T, typ string) []protocol.Envelope {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []protocol.Envelope
	for _, raw := range c.sent {
		var env protocol.Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		if env.Type == typ {
			out = append(out, env)
		}
	}
	return out
}

func (c *fakeConn) messages(t *testing.T) []string {
	t.Helper()
	var out []string
	for _, env := range c.envelopes(t, protocol.TypeChat) {
		out = append(out, env.Message)
	}
	return out
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (string, error) {
	if user, ok := strings.CutPrefix(token, "token-"); ok && user != "" {
		return user, nil
	}
	return "", errors.New("bad token")
}

// fakeStore wraps the in-memory store with failure injection and an optional
// gate that holds appends for one room until released.
type fakeStore struct {
	*store.Memory

	mu           sync.Mutex
	failRoom     string
	failListRoom string
	gateRoom     string
	gate         chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{Memory: store.NewMemory()}
}

func (s *fakeStore) Append(ctx context.Context, roomID, userID, payload string) (store.Event, error) {
	s.mu.Lock()
	fail := s.failRoom == roomID
	var gate chan struct{}
	if s.gateRoom == roomID {
		gate = s.gate
	}
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return store.Event{}, ctx.Err()
		}
	}
	if fail {
		return store.Event{}, errors.New("disk full")
	}
	return s.Memory.Append(ctx, roomID, userID, payload)
}

func (s *fakeStore) ListRecent(ctx context.Context, roomID string, limit int) ([]store.Event, error) {
	s.mu.Lock()
	fail := s.failListRoom == roomID
	s.mu.Unlock()

	if fail {
		return nil, errors.New("disk unreadable")
	}
	return s.Memory.ListRecent(ctx, roomID, limit)
}

func startGateway(t *testing.T, st Store) *Gateway {
	t.Helper()

	g := New(fakeVerifier{}, st, Options{HistoryLimit: 100})
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- g.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errc
	})
	return g
}

func connect(t *testing.T, g *Gateway, user string) (*Session, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	s, err := g.Connect(context.Background(), "token-"+user, conn)
	require.NoError(t, err)
	return s, conn
}

func send(t *testing.T, g *Gateway, s *Session, env map[string]any) {
	t.Helper()
	data, err := json.Marshal(env)
	require.NoError(t, err)
	g.HandleMessage(s, data)
}

// flush waits until everything posted so far has run on the loop.
func flush(t *testing.T, g *Gateway) {
	t.Helper()
	require.NoError(t, g.call(context.Background(), func() {}))
}

func join(t *testing.T, g *Gateway, s *Session, conn *fakeConn, roomID string) {
	t.Helper()
	before := len(conn.envelopes(t, protocol.TypeSync))
	send(t, g, s, map[string]any{"type": "join_room", "roomId": roomID})
	require.Eventually(t, func() bool {
		return len(conn.envelopes(t, protocol.TypeSync)) > before
	}, time.Second, 5*time.Millisecond)
}

func rooms(t *testing.T, g *Gateway, s *Session) []string {
	t.Helper()
	var out []string
	require.NoError(t, g.call(context.Background(), func() { out = s.Rooms() }))
	return out
}
