package commands

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

// courierReleaser is the part of ReleaseCourierCommandHandler recovery needs.
type courierReleaser interface {
	Handle(ctx context.Context, cmd ReleaseCourierCommand) error
}

// RecoverCouriersCommandHandler re-derives courier availability from order status.
// Each stuck courier is released in its own unit of work, so one failure does not
// hold back the others.
type RecoverCouriersCommandHandler struct {
	uowFactory UoWFactory
	releaser   courierReleaser
	logger     *slog.Logger
}

func NewRecoverCouriersCommandHandler(
	uowFactory UoWFactory,
	releaser courierReleaser,
	logger *slog.Logger,
) RecoverCouriersCommandHandler {
	return RecoverCouriersCommandHandler{
		uowFactory: uowFactory,
		releaser:   releaser,
		logger:     logger.With("component", "courier-recovery"),
	}
}

// Handle returns the number of couriers released and the joined errors of the ones
// that could not be.
func (h RecoverCouriersCommandHandler) Handle(ctx context.Context, cmd RecoverCouriersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	stuck, err := h.stuckCouriers(ctx)
	if err != nil {
		return 0, err
	}

	released := 0
	var failures []error

	for _, courierID := range stuck {
		release, cmdErr := NewReleaseCourierCommand(courierID)
		if cmdErr != nil {
			return released, cmdErr
		}

		if err = h.releaser.Handle(ctx, release); err != nil {
			if errors.Is(err, errs.ErrInvalidTransition) {
				continue
			}
			h.logger.ErrorContext(ctx, "failed to release courier", "courier_id", courierID.String(), "error", err)
			failures = append(failures, err)
			continue
		}

		released++
	}

	if released > 0 {
		h.logger.InfoContext(ctx, "couriers recovered", "released", released)
	}

	return released, errors.Join(failures...)
}

// stuckCouriers lists busy couriers whose order is finished or gone.
func (h RecoverCouriersCommandHandler) stuckCouriers(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	busy, err := uow.CourierRepository().GetAllBusy(ctx)
	if err != nil {
		return nil, err
	}

	stuck := make([]kernel.UUID, 0)
	for _, c := range busy {
		o, getErr := uow.OrderRepository().Get(ctx, *c.ActiveOrder())
		switch {
		case errors.Is(getErr, errs.ErrObjectNotFound):
			stuck = append(stuck, c.ID())
		case getErr != nil:
			return nil, getErr
		case o.Status().IsTerminal():
			stuck = append(stuck, c.ID())
		}
	}

	return stuck, nil
}
