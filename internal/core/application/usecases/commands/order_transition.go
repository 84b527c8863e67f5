package commands

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/retry"
)

// DefaultReleaseMaxAttempts bounds the reload-and-write loop when releasing a courier
// whose row keeps changing underneath.
const DefaultReleaseMaxAttempts = 3

// ErrCourierNotReserved is the guard failure for sending out an order without a courier
// reserved for it.
var ErrCourierNotReserved = errors.New("no courier is reserved for the order")

// orderTransition is the single place where an order changes status. It checks the
// guards that involve other aggregates, applies the event, writes the order with a
// status compare-and-swap and, when the order leaves on_the_way for good, releases its
// courier inside the same unit of work.
type orderTransition struct {
	gate               services.PaymentGate
	releaseMaxAttempts int
}

func newOrderTransition(releaseMaxAttempts int) orderTransition {
	if releaseMaxAttempts <= 0 {
		releaseMaxAttempts = DefaultReleaseMaxAttempts
	}
	return orderTransition{
		gate:               services.NewPaymentGate(),
		releaseMaxAttempts: releaseMaxAttempts,
	}
}

// apply moves o by event. courierID is only used for CourierAssigned; when nil, the
// courier reserved for the order is looked up.
func (t orderTransition) apply(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	event order.Event,
	courierID *kernel.UUID,
) error {
	from := o.Status()

	next, err := from.Next(event)
	if err != nil {
		return err
	}

	var previousCourier *kernel.UUID
	if c := o.Courier(); c != nil {
		id := *c
		previousCourier = &id
	}

	if event == order.CourierAssigned {
		reserved, guardErr := t.checkDispatchGuards(ctx, uow, o, courierID)
		if guardErr != nil {
			return guardErr
		}
		courierID = &reserved
	}

	if err = o.Apply(event, courierID, time.Now().UTC()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o, from); err != nil {
		return err
	}

	if from == order.OnTheWay && next.IsTerminal() && previousCourier != nil {
		return t.releaseCourier(ctx, uow, *previousCourier, o.ID(), next == order.Delivered)
	}

	return nil
}

// checkDispatchGuards verifies the courier_assigned guards and returns the reserved courier.
func (t orderTransition) checkDispatchGuards(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	courierID *kernel.UUID,
) (kernel.UUID, error) {
	payments, err := uow.PaymentRepository().GetAllByOrder(ctx, o.ID())
	if err != nil {
		return kernel.UUID{}, err
	}

	if gateErr := t.gate.Check(payments); gateErr != nil {
		return kernel.UUID{}, errs.NewInvalidTransitionErrorWithCause(
			"order", o.Status().String(), order.CourierAssigned.String(), gateErr,
		)
	}

	var c *courier.Courier
	if courierID != nil {
		c, err = uow.CourierRepository().Get(ctx, *courierID)
	} else {
		c, err = uow.CourierRepository().GetByActiveOrder(ctx, o.ID())
	}

	if errors.Is(err, errs.ErrObjectNotFound) || (err == nil && !c.IsReservedFor(o.ID())) {
		return kernel.UUID{}, errs.NewInvalidTransitionErrorWithCause(
			"order", o.Status().String(), order.CourierAssigned.String(), ErrCourierNotReserved,
		)
	}
	if err != nil {
		return kernel.UUID{}, err
	}

	return c.ID(), nil
}

// releaseCourier frees the courier that was delivering orderID. Each attempt reloads
// the courier; a courier that is no longer reserved for the order is left alone.
func (t orderTransition) releaseCourier(
	ctx context.Context,
	uow UoW,
	courierID kernel.UUID,
	orderID kernel.UUID,
	delivered bool,
) error {
	return retry.OnStale(ctx, t.releaseMaxAttempts, func() error {
		c, err := uow.CourierRepository().Get(ctx, courierID)
		if err != nil {
			return err
		}

		if !c.IsReservedFor(orderID) {
			return nil
		}

		c.Release(delivered, time.Now().UTC())
		return uow.CourierRepository().Update(ctx, c)
	})
}
