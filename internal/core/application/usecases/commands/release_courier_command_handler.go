package commands

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/retry"

	"go.opentelemetry.io/otel/attribute"
)

// ReleaseCourierCommandHandler frees a courier whose order no longer needs it.
//
// Releasing a free or offline courier succeeds without changes, so the command can be
// repeated safely. A courier whose order is still on the way is refused.
type ReleaseCourierCommandHandler struct {
	uowFactory  UoWFactory
	maxAttempts int
}

// NewReleaseCourierCommandHandler creates a handler. maxAttempts bounds the retries on
// a concurrently modified courier row; zero or less selects DefaultReleaseMaxAttempts.
func NewReleaseCourierCommandHandler(uowFactory UoWFactory, maxAttempts int) ReleaseCourierCommandHandler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultReleaseMaxAttempts
	}
	return ReleaseCourierCommandHandler{
		uowFactory:  uowFactory,
		maxAttempts: maxAttempts,
	}
}

func (h ReleaseCourierCommandHandler) Handle(ctx context.Context, cmd ReleaseCourierCommand) (err error) {
	if err = cmd.Validate(); err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "ReleaseCourier")
	span.SetAttributes(attribute.String("courier.id", cmd.CourierID().String()))
	defer func() { endSpan(span, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err = retry.OnStale(ctx, h.maxAttempts, func() error {
		return h.release(ctx, uow, cmd)
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h ReleaseCourierCommandHandler) release(ctx context.Context, uow UoW, cmd ReleaseCourierCommand) error {
	c, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if !c.IsBusy() {
		return nil
	}

	delivered := false

	o, err := uow.OrderRepository().Get(ctx, *c.ActiveOrder())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return err
	case o.Status() == order.OnTheWay:
		return errs.NewInvalidTransitionErrorWithCause("courier", c.Availability().String(), "release", order.ErrCourierEnRoute)
	default:
		delivered = o.Status() == order.Delivered
	}

	c.Release(delivered, time.Now().UTC())
	return uow.CourierRepository().Update(ctx, c)
}
