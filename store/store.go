// Package store persists drawing events per room in acceptance order.
package store

import (
	"context"
	"errors"
	"time"
)

// DefaultHistoryLimit bounds how many events are replayed to a joining client.
const DefaultHistoryLimit = 1000

var ErrInvalidLimit = errors.New("limit must be positive")

// Event is one accepted chat message. ID grows with acceptance order.
type Event struct {
	ID        uint64    `json:"id"`
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	Payload   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemoryDSN selects the in-process store instead of SQLite.
const MemoryDSN = "memory"

// Backend is a store the process owns and must close.
type Backend interface {
	Append(ctx context.Context, roomID, userID, payload string) (Event, error)
	ListRecent(ctx context.Context, roomID string, limit int) ([]Event, error)
	Close() error
}

// Open returns the in-memory store for MemoryDSN and a SQLite store for any
// other dsn.
func Open(dsn string) (Backend, error) {
	if dsn == MemoryDSN {
		return NewMemory(), nil
	}
	db, err := OpenSQL(dsn)
	if err != nil {
		return nil, err
	}
	return db, nil
}
