package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/courier"

	"go.opentelemetry.io/otel/attribute"
)

// CreateCourierCommandHandler registers a courier profile for a user. A user owns at
// most one profile, and new couriers stay offline until they report presence.
type CreateCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewCreateCourierCommandHandler(uowFactory CourierUoWFactory) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *CreateCourierCommandHandler) Handle(ctx context.Context, cmd CreateCourierCommand) (err error) {
	if err = cmd.Validate(); err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "CreateCourier")
	span.SetAttributes(
		attribute.String("courier.id", cmd.CourierID().String()),
		attribute.String("courier.user_id", cmd.UserID().String()),
	)
	defer func() { endSpan(span, err) }()

	registered, err := courier.NewCourier(cmd.CourierID(), cmd.UserID(), cmd.Name(), time.Now().UTC())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err = uow.CourierRepository().Add(ctx, registered); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
