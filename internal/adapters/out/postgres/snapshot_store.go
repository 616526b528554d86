// Package postgres stores snapshots in PostgreSQL through GORM.
//
// Each namespace is one row of the snapshots table. Save is an upsert, so the
// table never holds more than one row per namespace:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    return err
//	}
//	if err = postgres.Migrate(db); err != nil {
//	    return err
//	}
//	store := postgres.NewGormSnapshotStore(db, time.Now)
package postgres

import (
	"context"
	"errors"
	"time"

	"parceltrack/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates the snapshots table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&SnapshotDTO{})
}

// GormSnapshotStore implements ports.SnapshotStore using GORM.
type GormSnapshotStore struct {
	db    *gorm.DB
	clock func() time.Time
}

func NewGormSnapshotStore(db *gorm.DB, clock func() time.Time) *GormSnapshotStore {
	if clock == nil {
		clock = time.Now
	}
	return &GormSnapshotStore{db: db, clock: clock}
}

// Load returns the payload stored under namespace.
func (s *GormSnapshotStore) Load(ctx context.Context, namespace string) ([]byte, error) {
	var dto SnapshotDTO
	if err := s.db.WithContext(ctx).First(&dto, "namespace = ?", namespace).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundErrorWithCause("namespace", namespace, err)
		}
		return nil, err
	}
	return dto.Payload, nil
}

// Save inserts or replaces the payload stored under namespace.
func (s *GormSnapshotStore) Save(ctx context.Context, namespace string, payload []byte) error {
	dto := SnapshotDTO{
		Namespace: namespace,
		Payload:   payload,
		UpdatedAt: s.clock().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&dto).Error
}
