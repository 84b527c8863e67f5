package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/guard"
)

var ErrRegisterPaymentCommandIsNotConstructed = errors.New(
	"RegisterPaymentCommand must be created via NewRegisterPaymentCommand constructor",
)

// RegisterPaymentCommand opens a pending payment attempt for an order.
type RegisterPaymentCommand struct { //nolint:recvcheck //using for validation
	paymentID kernel.UUID
	orderID   kernel.UUID
	method    payment.Method

	guard guard.ConstructorGuard
}

func NewRegisterPaymentCommand(paymentID kernel.UUID, orderID kernel.UUID, method payment.Method) (RegisterPaymentCommand, error) {
	if err := errors.Join(paymentID.Validate(), orderID.Validate(), method.Validate()); err != nil {
		return RegisterPaymentCommand{}, err
	}

	return RegisterPaymentCommand{
		paymentID: paymentID,
		orderID:   orderID,
		method:    method,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterPaymentCommandIsNotConstructed)
}

func (c RegisterPaymentCommand) PaymentID() kernel.UUID {
	return c.paymentID
}

func (c RegisterPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RegisterPaymentCommand) Method() payment.Method {
	return c.method
}
