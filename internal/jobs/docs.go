// Package jobs provides scheduled background tasks for the delivery system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// (six-field expressions, seconds first).
//
// # Available Jobs
//
//  1. DispatchRetryJob - re-dispatches preparing orders waiting for a courier or a settled payment
//  2. CourierRecoveryJob - frees couriers still busy with a delivered or cancelled order
//  3. OutboxRelayJob - publishes stored domain events to RabbitMQ
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewDispatchRetryJob(dispatchHandler, cfg.DispatchRetrySchedule, 0, logger),
//		jobs.NewCourierRecoveryJob(recoverHandler, cfg.CourierRecoverySchedule, logger),
//		jobs.NewOutboxRelayJob(relayHandler, cfg.OutboxRelaySchedule, 0, logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Dispatch retry ignores an empty fleet, which is an expected business outcome
// - Recovery and relay log every failure; the next tick retries
// - A tick is skipped while the previous run of the same job is still going
package jobs
