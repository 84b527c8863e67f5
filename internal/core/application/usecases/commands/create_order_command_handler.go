package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"

	"go.opentelemetry.io/otel/attribute"
)

// CreateOrderCommandHandler places a customer's order. The order starts in "created"
// and waits for the restaurant; payment attempts are registered separately.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle stores the order. Reusing an order id fails with ErrValueIsInvalid.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (err error) {
	if err = cmd.Validate(); err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "CreateOrder")
	span.SetAttributes(
		attribute.String("order.id", cmd.OrderID().String()),
		attribute.Int("order.items", len(cmd.Items())),
	)
	defer func() { endSpan(span, err) }()

	placed, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.RestaurantID(),
		cmd.Items(),
		cmd.Total(),
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
