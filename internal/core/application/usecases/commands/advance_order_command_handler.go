package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
)

// AdvanceOrderCommandHandler drives an order through its lifecycle.
//
// Example:
//
//	handler := NewAdvanceOrderCommandHandler(uowFactory, DefaultReleaseMaxAttempts)
//	cmd, _ := NewAdvanceOrderCommand(orderID, order.DeliveryConfirmed)
//	status, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // event not allowed in the current status
//	case errors.Is(err, errs.ErrStaleState):
//	    // another request changed the order first
//	}
type AdvanceOrderCommandHandler struct {
	uowFactory UoWFactory
	transition orderTransition
}

// NewAdvanceOrderCommandHandler creates a handler. releaseMaxAttempts bounds courier
// release retries; zero or less selects DefaultReleaseMaxAttempts.
func NewAdvanceOrderCommandHandler(uowFactory UoWFactory, releaseMaxAttempts int) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory: uowFactory,
		transition: newOrderTransition(releaseMaxAttempts),
	}
}

// Handle applies the event and returns the new status. The order write, the courier
// release and the outbox entry commit together or not at all.
func (h AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) (status order.Status, err error) {
	if err = cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	ctx, span := tracer.Start(ctx, "AdvanceOrder")
	span.SetAttributes(
		attribute.String("order.id", cmd.OrderID().String()),
		attribute.String("order.event", cmd.Event().String()),
	)
	defer func() { endSpan(span, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return order.Unknown, err
	}

	if expected := cmd.ExpectedStatus(); expected != nil && *expected != o.Status() {
		return order.Unknown, errs.NewStaleStateError("order", o.ID().String(), expected.String())
	}

	if err = h.transition.apply(ctx, uow, o, cmd.Event(), cmd.CourierID()); err != nil {
		return order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}

	return o.Status(), nil
}
