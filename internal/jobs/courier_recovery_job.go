package jobs

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultCourierRecoverySchedule runs courier recovery once a minute.
const DefaultCourierRecoverySchedule = "0 * * * * *"

type courierRecoverer interface {
	Handle(ctx context.Context, cmd commands.RecoverCouriersCommand) (int, error)
}

// CourierRecoveryJob frees couriers left busy with a finished order, e.g. when a
// release failed after the order reached its terminal status.
type CourierRecoveryJob struct {
	handler  courierRecoverer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewCourierRecoveryJob(handler courierRecoverer, schedule string, logger *slog.Logger) *CourierRecoveryJob {
	if schedule == "" {
		schedule = DefaultCourierRecoverySchedule
	}

	return &CourierRecoveryJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(),
		logger:   logger.With("component", "courier_recovery_job"),
	}
}

func (j *CourierRecoveryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Courier recovery job started", "schedule", j.schedule)
	return nil
}

func (j *CourierRecoveryJob) Run(ctx context.Context) {
	released, err := j.handler.Handle(ctx, commands.NewRecoverCouriersCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Courier recovery job failed", "error", err, "released", released)
		return
	}

	if released > 0 {
		j.logger.WarnContext(ctx, "Released couriers stuck on finished orders", "released", released)
	}
}

func (j *CourierRecoveryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Courier recovery job stopped")
}
