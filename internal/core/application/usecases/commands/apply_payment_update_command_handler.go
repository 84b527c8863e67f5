package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
)

// ApplyPaymentUpdateCommandHandler reconciles payment callbacks with order state.
//
// Outcomes by reported status:
//   - paid: the attempt is settled; the order is not advanced, dispatch picks it up
//   - failed: a created or preparing order is cancelled when this is its most recent
//     attempt; an order on its way keeps going and the attempt is flagged for review.
//     A paid attempt reported failed is a reversal and follows the same rules
//   - cancelled: the attempt stops taking part in gating
//
// Updates for delivered or cancelled orders are recorded and flagged, and reported
// through PaymentUpdateAck.Mismatch.
type ApplyPaymentUpdateCommandHandler struct {
	uowFactory UoWFactory
	gate       services.PaymentGate
	transition orderTransition
	logger     *slog.Logger
}

func NewApplyPaymentUpdateCommandHandler(
	uowFactory UoWFactory,
	releaseMaxAttempts int,
	logger *slog.Logger,
) ApplyPaymentUpdateCommandHandler {
	return ApplyPaymentUpdateCommandHandler{
		uowFactory: uowFactory,
		gate:       services.NewPaymentGate(),
		transition: newOrderTransition(releaseMaxAttempts),
		logger:     logger.With("component", "payment-reconciliation"),
	}
}

func (h ApplyPaymentUpdateCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyPaymentUpdateCommand,
) (ack PaymentUpdateAck, err error) {
	if err = cmd.Validate(); err != nil {
		return PaymentUpdateAck{}, err
	}

	ctx, span := tracer.Start(ctx, "ApplyPaymentUpdate")
	span.SetAttributes(
		attribute.String("payment.id", cmd.PaymentID().String()),
		attribute.String("payment.status", cmd.Status().String()),
	)
	defer func() { endSpan(span, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return PaymentUpdateAck{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.PaymentRepository().Get(ctx, cmd.PaymentID())
	if err != nil {
		return PaymentUpdateAck{}, err
	}

	ack = PaymentUpdateAck{PaymentID: p.ID(), Status: cmd.Status()}

	if p.Status() == cmd.Status() {
		ack.Duplicate = true
		return ack, nil
	}

	o, err := uow.OrderRepository().Get(ctx, p.OrderID())
	if err != nil {
		return PaymentUpdateAck{}, err
	}

	payments, err := uow.PaymentRepository().GetAllByOrder(ctx, o.ID())
	if err != nil {
		return PaymentUpdateAck{}, err
	}
	isLatest := h.gate.IsLatest(p, payments)

	now := time.Now().UTC()
	if _, err = p.Apply(cmd.Status(), cmd.TransactionID(), now); err != nil {
		return PaymentUpdateAck{}, err
	}

	switch {
	case o.Status().IsTerminal():
		if err = p.FlagForReview(fmt.Sprintf("payment %s after order %s", cmd.Status(), o.Status()), now); err != nil {
			return PaymentUpdateAck{}, err
		}
		ack.Flagged = true
		ack.Mismatch = errs.NewPaymentMismatchError(p.ID().String(), o.ID().String(), o.Status().String())

	case cmd.Status() == payment.Failed && o.Status() == order.OnTheWay:
		if err = p.FlagForReview("payment failed while order on_the_way", now); err != nil {
			return PaymentUpdateAck{}, err
		}
		ack.Flagged = true

	case cmd.Status() == payment.Failed && isLatest:
		if err = h.transition.apply(ctx, uow, o, order.CancellationRequested, nil); err != nil {
			return PaymentUpdateAck{}, err
		}
		ack.OrderCancelled = true
	}

	if err = uow.PaymentRepository().Update(ctx, p); err != nil {
		return PaymentUpdateAck{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PaymentUpdateAck{}, err
	}

	if ack.Mismatch != nil {
		h.logger.WarnContext(ctx, "payment update for finished order",
			"payment_id", p.ID().String(),
			"order_id", o.ID().String(),
			"order_status", o.Status().String(),
			"payment_status", cmd.Status().String(),
		)
	}

	return ack, nil
}
