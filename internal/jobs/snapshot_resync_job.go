package jobs

import (
	"context"
	"log/slog"

	"parceltrack/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// Resyncer writes the live state to durable storage in one step, ordered with
// respect to concurrent commits.
type Resyncer interface {
	Resync(ctx context.Context) (ports.State, error)
}

// SnapshotResyncJob rewrites the persisted snapshots from the live store. A
// commit whose snapshot write failed keeps its in-memory effect; this job is
// what eventually brings storage back in line.
type SnapshotResyncJob struct {
	store    Resyncer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewSnapshotResyncJob(store Resyncer, schedule string, logger *slog.Logger) *SnapshotResyncJob {
	return &SnapshotResyncJob{
		store:    store,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "snapshot_resync_job"),
	}
}

func (j *SnapshotResyncJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_ = j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Snapshot resync job started", "schedule", j.schedule)
	return nil
}

// Run persists one copy of the current state.
func (j *SnapshotResyncJob) Run(ctx context.Context) error {
	state, err := j.store.Resync(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Snapshot resync failed", "error", err)
		return err
	}

	j.logger.DebugContext(ctx, "Snapshot resynced",
		"parcels", len(state.Parcels),
		"pickups", len(state.Pickups),
	)
	return nil
}

func (j *SnapshotResyncJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Snapshot resync job stopped")
}
