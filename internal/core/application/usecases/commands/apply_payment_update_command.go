package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/guard"
)

var ErrApplyPaymentUpdateCommandIsNotConstructed = errors.New(
	"ApplyPaymentUpdateCommand must be created via NewApplyPaymentUpdateCommand constructor",
)

// ApplyPaymentUpdateCommand carries a payment status reported by the payment provider.
// Providers deliver at least once, so the same update may arrive several times.
//
// Example:
//
//	cmd, err := NewApplyPaymentUpdateCommand(paymentID, payment.Paid, "tx-9f2c")
//	ack, err := handler.Handle(ctx, cmd)
//	if ack.Mismatch != nil {
//	    // reported for manual reconciliation
//	}
type ApplyPaymentUpdateCommand struct { //nolint:recvcheck //using for validation
	paymentID     kernel.UUID
	status        payment.Status
	transactionID string

	guard guard.ConstructorGuard
}

func NewApplyPaymentUpdateCommand(
	paymentID kernel.UUID,
	status payment.Status,
	transactionID string,
) (ApplyPaymentUpdateCommand, error) {
	cmd := ApplyPaymentUpdateCommand{
		transactionID: transactionID,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPaymentID(paymentID),
		cmd.setStatus(status),
	); err != nil {
		return ApplyPaymentUpdateCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyPaymentUpdateCommand) Validate() error {
	return c.guard.Validate(ErrApplyPaymentUpdateCommandIsNotConstructed)
}

func (c ApplyPaymentUpdateCommand) PaymentID() kernel.UUID {
	return c.paymentID
}

func (c ApplyPaymentUpdateCommand) Status() payment.Status {
	return c.status
}

func (c ApplyPaymentUpdateCommand) TransactionID() string {
	return c.transactionID
}

func (c *ApplyPaymentUpdateCommand) setPaymentID(paymentID kernel.UUID) error {
	if err := paymentID.Validate(); err != nil {
		return err
	}
	c.paymentID = paymentID
	return nil
}

func (c *ApplyPaymentUpdateCommand) setStatus(status payment.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}

// PaymentUpdateAck tells the caller what an accepted payment update did.
type PaymentUpdateAck struct {
	PaymentID kernel.UUID
	Status    payment.Status
	// Duplicate is set when the payment already had the reported status.
	Duplicate bool
	// OrderCancelled is set when a failed payment cancelled its order.
	OrderCancelled bool
	// Flagged is set when the payment was marked for manual review.
	Flagged bool
	// Mismatch reports an update for an order that is already delivered or cancelled.
	// The update was still recorded.
	Mismatch error
}
