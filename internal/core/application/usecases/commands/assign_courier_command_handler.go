package commands

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultDispatchMaxAttempts bounds how many times one dispatch call reads the free
// pool. Every candidate of a read is tried before the pool is read again.
const DefaultDispatchMaxAttempts = 5

// AssignCourierCommandHandler is the dispatch engine. It ranks the free couriers,
// reserves the best one with an optimistic write and moves the order to on_the_way in
// the same transaction.
//
// A candidate that another dispatcher reserved first is skipped: its compare-and-swap
// write affects no rows, the race is logged and the next candidate is tried. Lost races
// do not use up the budget while the current read still has untried couriers, so
// concurrent dispatchers walking the same ranking cannot starve with couriers left.
//
// Example:
//
//	handler := NewAssignCourierCommandHandler(uowFactory, DefaultDispatchMaxAttempts, DefaultReleaseMaxAttempts, logger)
//	cmd, _ := NewAssignCourierCommand(orderID)
//	courierID, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrNoCourierAvailable):
//	    log.Println("All couriers are busy")
//	case err != nil:
//	    log.Printf("Assignment failed: %v", err)
//	default:
//	    log.Printf("Courier %s is on the way", courierID)
//	}
type AssignCourierCommandHandler struct {
	uowFactory  UoWFactory
	selector    services.CourierSelector
	gate        services.PaymentGate
	transition  orderTransition
	maxAttempts int
	logger      *slog.Logger
}

// NewAssignCourierCommandHandler creates a handler for courier assignment operations.
// Zero or negative attempt limits select the defaults.
func NewAssignCourierCommandHandler(
	uowFactory UoWFactory,
	maxAttempts int,
	releaseMaxAttempts int,
	logger *slog.Logger,
) AssignCourierCommandHandler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultDispatchMaxAttempts
	}

	return AssignCourierCommandHandler{
		uowFactory:  uowFactory,
		selector:    services.NewCourierSelector(),
		gate:        services.NewPaymentGate(),
		transition:  newOrderTransition(releaseMaxAttempts),
		maxAttempts: maxAttempts,
		logger:      logger.With("component", "dispatch"),
	}
}

// Handle returns the courier delivering the order. Calling it again for an order that
// is already on its way returns the same courier without touching anything.
func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) (courierID kernel.UUID, err error) {
	if err = cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	ctx, span := tracer.Start(ctx, "AssignCourier")
	span.SetAttributes(attribute.String("order.id", cmd.OrderID().String()))
	defer func() { endSpan(span, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return kernel.UUID{}, err
	}

	switch o.Status() {
	case order.OnTheWay, order.Delivered:
		return *o.Courier(), nil
	case order.Preparing:
	default:
		return kernel.UUID{}, errs.NewInvalidTransitionError("order", o.Status().String(), order.CourierAssigned.String())
	}

	payments, err := uow.PaymentRepository().GetAllByOrder(ctx, o.ID())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = h.gate.Check(payments); err != nil {
		return kernel.UUID{}, errs.NewInvalidTransitionErrorWithCause(
			"order", o.Status().String(), order.CourierAssigned.String(), err,
		)
	}

	reserved, attempts, err := h.reserve(ctx, uow, o)
	if err != nil {
		return kernel.UUID{}, err
	}

	span.SetAttributes(attribute.Int("dispatch.attempts", attempts))

	if reserved == nil {
		return kernel.UUID{}, errs.NewNoCourierAvailableError(o.ID().String(), attempts)
	}

	courierID = reserved.ID()
	if err = h.transition.apply(ctx, uow, o, order.CourierAssigned, &courierID); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	h.logger.InfoContext(ctx, "courier assigned",
		"order_id", o.ID().String(),
		"courier_id", courierID.String(),
		"attempts", attempts,
	)

	return courierID, nil
}

// reserve walks the ranked candidates and returns the first courier it managed to
// reserve for o, or nil when the pool ran dry or every read was lost. attempts counts
// the reservation writes.
func (h AssignCourierCommandHandler) reserve(
	ctx context.Context,
	uow UoW,
	o *order.Order,
) (*courier.Courier, int, error) {
	attempts := 0
	for read := 0; read < h.maxAttempts; read++ {
		if read > 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, attempts, ctxErr
			}
		}

		free, err := uow.CourierRepository().GetAllFree(ctx)
		if err != nil {
			return nil, attempts, err
		}

		ranked, err := h.selector.Rank(free)
		if err != nil {
			return nil, attempts, err
		}
		if len(ranked) == 0 {
			return nil, attempts, nil
		}

		for _, candidate := range ranked {
			if attempts > 0 {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, attempts, ctxErr
				}
			}
			attempts++

			if err = candidate.Reserve(o.ID()); err != nil {
				return nil, attempts, err
			}

			err = uow.CourierRepository().Update(ctx, candidate)
			if errors.Is(err, errs.ErrStaleState) {
				race := errs.NewReservationRaceError(candidate.ID().String(), o.ID().String(), err)
				h.logger.DebugContext(ctx, "courier reservation lost",
					"order_id", o.ID().String(),
					"courier_id", candidate.ID().String(),
					"attempt", attempts,
					"read", read+1,
					"error", race,
				)
				continue
			}
			if err != nil {
				return nil, attempts, err
			}

			return candidate, attempts, nil
		}
	}

	return nil, attempts, nil
}
