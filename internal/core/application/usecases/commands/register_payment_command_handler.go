package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"
)

// RegisterPaymentCommandHandler records a new payment attempt. Attempts can only be
// opened for orders that have not left the restaurant yet.
type RegisterPaymentCommandHandler struct {
	uowFactory UoWFactory
}

func NewRegisterPaymentCommandHandler(uowFactory UoWFactory) RegisterPaymentCommandHandler {
	return RegisterPaymentCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h RegisterPaymentCommandHandler) Handle(ctx context.Context, cmd RegisterPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if o.Status().IsTerminal() || o.Courier() != nil {
		return errs.NewInvalidTransitionError("payment", o.Status().String(), "register")
	}

	p, err := payment.NewPayment(cmd.PaymentID(), o.ID(), cmd.Method(), time.Now().UTC())
	if err != nil {
		return err
	}

	if err = uow.PaymentRepository().Add(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
