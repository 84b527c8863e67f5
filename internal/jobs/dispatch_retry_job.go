package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// DefaultDispatchRetrySchedule runs dispatch retry every five seconds.
const DefaultDispatchRetrySchedule = "*/5 * * * * *"

type pendingDispatcher interface {
	Handle(ctx context.Context, cmd commands.DispatchPendingOrdersCommand) (int, error)
}

// DispatchRetryJob periodically re-dispatches preparing orders that are still waiting
// for a courier or for their payment to settle.
type DispatchRetryJob struct {
	handler   pendingDispatcher
	batchSize int
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewDispatchRetryJob(handler pendingDispatcher, schedule string, batchSize int, logger *slog.Logger) *DispatchRetryJob {
	if schedule == "" {
		schedule = DefaultDispatchRetrySchedule
	}

	return &DispatchRetryJob{
		handler:   handler,
		batchSize: batchSize,
		schedule:  schedule,
		cron:      newCron(),
		logger:    logger.With("component", "dispatch_retry_job"),
	}
}

func (j *DispatchRetryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch retry job started", "schedule", j.schedule)
	return nil
}

// Run performs a single retry pass. An empty fleet is an expected outcome and is not
// logged as an error.
func (j *DispatchRetryJob) Run(ctx context.Context) {
	assigned, err := j.handler.Handle(ctx, commands.NewDispatchPendingOrdersCommand(j.batchSize))
	if err != nil && !errors.Is(err, errs.ErrNoCourierAvailable) {
		j.logger.ErrorContext(ctx, "Dispatch retry job failed", "error", err, "assigned", assigned)
		return
	}

	if assigned > 0 {
		j.logger.InfoContext(ctx, "Pending orders dispatched", "assigned", assigned)
	}
}

func (j *DispatchRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Dispatch retry job stopped")
}
