package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
)

// AdvanceOrderCommand applies a lifecycle event to an order.
//
// The optional expected status turns the call into a conditional update: when the
// order is no longer in that status the command fails with a stale state error
// instead of acting on a state the caller never saw.
//
// Example:
//
//	cmd, err := NewAdvanceOrderCommand(orderID, order.RestaurantAccepted)
//	if err != nil {
//	    return err
//	}
//	cmd = cmd.WithExpectedStatus(order.Created)
//	status, err := handler.Handle(ctx, cmd)
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	event          order.Event
	expectedStatus *order.Status
	courierID      *kernel.UUID

	guard guard.ConstructorGuard
}

// NewAdvanceOrderCommand validates the order id and the event.
func NewAdvanceOrderCommand(orderID kernel.UUID, event order.Event) (AdvanceOrderCommand, error) {
	cmd := AdvanceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setEvent(event),
	); err != nil {
		return AdvanceOrderCommand{}, err
	}

	return cmd, nil
}

// WithExpectedStatus returns a copy of the command that only applies while the order
// is in status.
func (c AdvanceOrderCommand) WithExpectedStatus(status order.Status) AdvanceOrderCommand {
	c.expectedStatus = &status
	return c
}

// WithCourier returns a copy of the command naming the courier for courier_assigned.
func (c AdvanceOrderCommand) WithCourier(courierID kernel.UUID) AdvanceOrderCommand {
	c.courierID = &courierID
	return c
}

// Validate ensures the command was created through the constructor.
func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

func (c AdvanceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AdvanceOrderCommand) Event() order.Event {
	return c.event
}

// ExpectedStatus returns the status the caller last saw, or nil.
func (c AdvanceOrderCommand) ExpectedStatus() *order.Status {
	return c.expectedStatus
}

// CourierID returns the courier named by the caller, or nil.
func (c AdvanceOrderCommand) CourierID() *kernel.UUID {
	return c.courierID
}

func (c *AdvanceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *AdvanceOrderCommand) setEvent(event order.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	c.event = event
	return nil
}
