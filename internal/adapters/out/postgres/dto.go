package postgres

import "time"

// SnapshotDTO is one row of the snapshots table: the latest payload of a
// namespace.
type SnapshotDTO struct {
	Namespace string    `gorm:"primaryKey;size:64"`
	Payload   []byte    `gorm:"type:bytea;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (SnapshotDTO) TableName() string {
	return "snapshots"
}
