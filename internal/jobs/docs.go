// Package jobs provides scheduled background tasks for parceltrack.
//
// Jobs are cron-based, using github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// 1. ConsistencyAuditJob - cross-checks parcels and pickups and logs every anomaly
// 2. SnapshotResyncJob - rewrites the persisted snapshots from the live store
//
// # Usage
//
//	auditJob := jobs.NewConsistencyAuditJob(auditHandler, "0 */10 * * * *", logger)
//	resyncJob := jobs.NewSnapshotResyncJob(store, "0 */5 * * * *", logger)
//	jobManager := jobs.NewJobManager(auditJob, resyncJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The audit job reports anomalies at warn level and never fixes them
// - A failed resync is logged and retried on the next tick
// - Failed job starts will stop any already running jobs
package jobs
