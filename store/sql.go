package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type drawEvent struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	RoomID    string    `gorm:"index:idx_room_id_id,priority:1;not null"`
	UserID    string    `gorm:"not null"`
	Payload   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (drawEvent) TableName() string {
	return "draw_events"
}

func (e drawEvent) event() Event {
	return Event{
		ID:        e.ID,
		RoomID:    e.RoomID,
		UserID:    e.UserID,
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt,
	}
}

// SQL stores events in a SQLite database through gorm.
type SQL struct {
	db *gorm.DB
}

// OpenSQL opens (and migrates) the SQLite database at dsn.
func OpenSQL(dsn string) (*SQL, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	// ":memory:" databases live per connection.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&drawEvent{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQL{db: db}, nil
}

func (s *SQL) Append(ctx context.Context, roomID, userID, payload string) (Event, error) {
	row := drawEvent{RoomID: roomID, UserID: userID, Payload: payload}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Event{}, fmt.Errorf("append to room %s: %w", roomID, err)
	}
	return row.event(), nil
}

// ListRecent returns at most limit of the newest events for roomID, oldest first.
func (s *SQL) ListRecent(ctx context.Context, roomID string, limit int) ([]Event, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	var rows []drawEvent
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list room %s: %w", roomID, err)
	}

	slices.Reverse(rows)
	events := make([]Event, len(rows))
	for i, row := range rows {
		events[i] = row.event()
	}
	return events, nil
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
