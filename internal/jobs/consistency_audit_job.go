package jobs

import (
	"context"
	"log/slog"

	"parceltrack/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// Auditor runs the consistency audit.
type Auditor interface {
	Handle(ctx context.Context, query queries.AuditConsistencyQuery) (queries.AuditConsistencyResponse, error)
}

// ConsistencyAuditJob periodically cross-checks parcels and pickups and logs
// every anomaly it finds. It never repairs anything.
type ConsistencyAuditJob struct {
	auditor  Auditor
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewConsistencyAuditJob creates the job. schedule is a six-field cron
// expression (seconds first).
func NewConsistencyAuditJob(auditor Auditor, schedule string, logger *slog.Logger) *ConsistencyAuditJob {
	return &ConsistencyAuditJob{
		auditor:  auditor,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "consistency_audit_job"),
	}
}

func (j *ConsistencyAuditJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Consistency audit job started", "schedule", j.schedule)
	return nil
}

// Run audits once and returns the report.
func (j *ConsistencyAuditJob) Run(ctx context.Context) (queries.AuditConsistencyResponse, error) {
	report, err := j.auditor.Handle(ctx, queries.NewAuditConsistencyQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Consistency audit failed", "error", err)
		return queries.AuditConsistencyResponse{}, err
	}

	for _, a := range report.Anomalies {
		j.logger.WarnContext(ctx, "consistency anomaly",
			"kind", a.Kind,
			"parcel_id", a.ParcelID,
			"pickup_id", a.PickupID,
			"detail", a.Detail,
		)
	}
	if !report.Consistent() {
		j.logger.WarnContext(ctx, "Consistency audit found anomalies",
			"anomalies", len(report.Anomalies),
			"parcels", report.Parcels,
			"pickups", report.Pickups,
		)
	}

	return report, nil
}

func (j *ConsistencyAuditJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Consistency audit job stopped")
}
