package jobs

import "fmt"

// JobManager starts and stops the scheduled jobs together.
type JobManager struct {
	auditJob  *ConsistencyAuditJob
	resyncJob *SnapshotResyncJob
}

// NewJobManager takes the jobs to run; resyncJob may be nil when nothing is
// persisted.
func NewJobManager(auditJob *ConsistencyAuditJob, resyncJob *SnapshotResyncJob) *JobManager {
	return &JobManager{
		auditJob:  auditJob,
		resyncJob: resyncJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.auditJob.Start(); err != nil {
		return fmt.Errorf("failed to start consistency audit job: %w", err)
	}

	if jm.resyncJob == nil {
		return nil
	}
	if err := jm.resyncJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.auditJob.Stop()
		return fmt.Errorf("failed to start snapshot resync job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	if jm.resyncJob != nil {
		jm.resyncJob.Stop()
	}
	jm.auditJob.Stop()
}
