package store

import (
	"context"
	"sync"
	"time"
)

// Memory keeps events in process memory. It is used by tests and by
// `serve --dsn memory`.
type Memory struct {
	mu     sync.Mutex
	seq    uint64
	events map[string][]Event
}

func NewMemory() *Memory {
	return &Memory{events: make(map[string][]Event)}
}

func (m *Memory) Append(ctx context.Context, roomID, userID, payload string) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	ev := Event{
		ID:        m.seq,
		RoomID:    roomID,
		UserID:    userID,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	m.events[roomID] = append(m.events[roomID], ev)
	return ev, nil
}

// ListRecent returns at most limit of the newest events for roomID, oldest first.
func (m *Memory) ListRecent(ctx context.Context, roomID string, limit int) ([]Event, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.events[roomID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]Event, len(all))
	copy(out, all)
	return out, nil
}

func (m *Memory) Close() error { return nil }
