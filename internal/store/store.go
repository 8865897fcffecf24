// Package store persists completed cycles to Postgres so sessions can be
// replayed after the fact. It implements coach.Recorder; leaving DATABASE_URL
// empty skips the package entirely.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DoyleJ11/tft-coach-backend/internal/coach"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CycleRecord is one persisted cycle. The snapshot and recommendations go in
// as JSONB blobs; the scalar columns exist so a session can be queried
// without unpacking them.
type CycleRecord struct {
	ID        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	Stage     string
	Strategy  string
	Gold      *int
	Health    *int
	Level     *int
	Snapshot  []byte `gorm:"type:jsonb"`
	Changes   []byte `gorm:"type:jsonb"`
	Status    []byte `gorm:"type:jsonb"`
	Recs      []byte `gorm:"type:jsonb"`
}

type Store struct {
	db *gorm.DB
}

// Open connects and migrates. The cycle table is append-only; AutoMigrate
// only ever adds columns here.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if err := db.AutoMigrate(&CycleRecord{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Record(ctx context.Context, res coach.CycleResult) error {
	rec := CycleRecord{
		ID:        res.ID,
		CreatedAt: res.Snapshot.Timestamp,
		Strategy:  string(res.Strategy),
		Gold:      res.Snapshot.Gold,
		Health:    res.Snapshot.Health,
		Level:     res.Snapshot.Level,
	}
	if res.Snapshot.Stage != nil {
		rec.Stage = *res.Snapshot.Stage
	}

	var err error
	if rec.Snapshot, err = json.Marshal(res.Snapshot); err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}
	if rec.Changes, err = json.Marshal(res.Changes); err != nil {
		return fmt.Errorf("store: encode changes: %w", err)
	}
	if rec.Status, err = json.Marshal(res.Status); err != nil {
		return fmt.Errorf("store: encode status: %w", err)
	}
	if rec.Recs, err = json.Marshal(res.Recommendations); err != nil {
		return fmt.Errorf("store: encode recommendations: %w", err)
	}

	return s.db.WithContext(ctx).Create(&rec).Error
}
