package commands

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"
)

// courierAssigner is the part of AssignCourierCommandHandler the retry loop needs.
type courierAssigner interface {
	Handle(ctx context.Context, cmd AssignCourierCommand) (kernel.UUID, error)
}

// DispatchPendingOrdersCommandHandler re-runs dispatch for preparing orders. Dispatch is
// idempotent, so an order that another caller already sent out is simply reported as
// assigned again.
type DispatchPendingOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	assigner   courierAssigner
	logger     *slog.Logger
}

func NewDispatchPendingOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	assigner courierAssigner,
	logger *slog.Logger,
) DispatchPendingOrdersCommandHandler {
	return DispatchPendingOrdersCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
		logger:     logger.With("component", "dispatch-retry"),
	}
}

// Handle returns how many orders got a courier. The run stops early when the fleet
// has no free courier left.
func (h DispatchPendingOrdersCommandHandler) Handle(ctx context.Context, cmd DispatchPendingOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	pending, err := h.pendingOrders(ctx, cmd.Limit())
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, orderID := range pending {
		if err = ctx.Err(); err != nil {
			return assigned, err
		}

		assign, cmdErr := NewAssignCourierCommand(orderID)
		if cmdErr != nil {
			return assigned, cmdErr
		}

		_, err = h.assigner.Handle(ctx, assign)
		switch {
		case err == nil:
			assigned++
		case errors.Is(err, errs.ErrNoCourierAvailable):
			h.logger.InfoContext(ctx, "no free courier left", "assigned", assigned, "pending", len(pending))
			return assigned, nil
		case errors.Is(err, services.ErrPaymentNotSettled),
			errors.Is(err, errs.ErrInvalidTransition),
			errors.Is(err, errs.ErrStaleState):
			h.logger.DebugContext(ctx, "order skipped", "order_id", orderID.String(), "reason", err)
		default:
			return assigned, err
		}
	}

	return assigned, nil
}

func (h DispatchPendingOrdersCommandHandler) pendingOrders(ctx context.Context, limit int) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetAllInStatus(ctx, order.Preparing, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}

	return ids, nil
}
