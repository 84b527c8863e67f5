package order

import (
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	// ErrItemsAreRequired is returned for an order without lines.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// Order is the aggregate root of the order lifecycle. It owns the order lines, the
// total charged to the customer and the position in the status machine.
//
// Order follows these invariants:
//   - total equals the sum of unit price times quantity over all items
//   - a courier is referenced exactly when the status is on_the_way or delivered
//   - delivered and cancelled are terminal, every further event is rejected
//   - status only changes through Apply, which records a StatusChanged event
//
// The struct keeps its fields private; repositories rebuild it with RestoreOrder.
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID

	items []Item
	total kernel.Money

	status    Status
	courierID *kernel.UUID

	createdAt time.Time

	// refundRequired is set when a paid delivery could not be completed.
	refundRequired bool

	domainEvents []kernel.DomainEvent

	guard guard.ConstructorGuard
}

// NewOrder creates an order in the created status.
//
// Parameters:
//   - id: unique identifier of the order
//   - customerID, restaurantID: the parties of the order
//   - items: at least one validated line
//   - total: the amount to charge, must equal the sum over items
//   - createdAt: placement time
//
// Example:
//
//	pizza, _ := order.NewItem(pizzaID, 2, 500)
//	cola, _ := order.NewItem(colaID, 1, 300)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, restaurantID, []order.Item{pizza, cola}, 1300, time.Now())
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	items []Item,
	total kernel.Money,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:    Created,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setParties(customerID, restaurantID),
		o.setItems(items, total),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistent storage. It re-checks the total and
// the courier invariant so a corrupted row cannot turn into a live aggregate.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	items []Item,
	total kernel.Money,
	status Status,
	courierID *kernel.UUID,
	createdAt time.Time,
	refundRequired bool,
) (*Order, error) {
	o := &Order{
		createdAt:      createdAt,
		refundRequired: refundRequired,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setParties(customerID, restaurantID),
		o.setItems(items, total),
		o.setState(status, courierID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was built by one of the constructors.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) Status() Status {
	return o.status
}

// Courier returns the delivering courier, nil unless on_the_way or delivered.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) RefundRequired() bool {
	return o.refundRequired
}

// Apply moves the order along the transition table.
//
// courierID is required for CourierAssigned and ignored for other events. The
// event-specific effects are:
//   - CourierAssigned: the courier is attached
//   - DeliveryFailed: the courier is detached and a refund is required
//
// Guards that need other aggregates (payment gate, courier reservation) are checked by
// the caller before Apply. On success a StatusChanged event is recorded; on error the
// order is left unchanged.
func (o *Order) Apply(event Event, courierID *kernel.UUID, at time.Time) error {
	next, err := o.status.Next(event)
	if err != nil {
		return err
	}

	if event == CourierAssigned {
		if courierID == nil {
			return errs.NewValueIsRequiredError("courierID")
		}
		if err := courierID.Validate(); err != nil {
			return err
		}
	}

	from := o.status
	o.status = next

	switch event {
	case CourierAssigned:
		assigned := *courierID
		o.courierID = &assigned
	case DeliveryFailed:
		o.courierID = nil
		o.refundRequired = true
	default:
	}

	o.raise(newStatusChanged(o, from, event, at))
	return nil
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []kernel.DomainEvent {
	return o.domainEvents
}

func (o *Order) ClearDomainEvents() {
	o.domainEvents = nil
}

func (o *Order) raise(event kernel.DomainEvent) {
	o.domainEvents = append(o.domainEvents, event)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParties(customerID, restaurantID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}
	if err := restaurantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurantID", err)
	}
	o.customerID = customerID
	o.restaurantID = restaurantID
	return nil
}

// setItems stores the lines and checks the total against them.
func (o *Order) setItems(items []Item, total kernel.Money) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	if total < 0 {
		return errs.NewValueIsInvalidErrorWithCause("total is invalid", fmt.Errorf("%s is negative", total))
	}

	sum, err := Sum(items)
	if err != nil {
		return err
	}
	if sum != total {
		return errs.NewValueIsInvalidErrorWithCause(
			"total is invalid",
			fmt.Errorf("%s does not match items sum %s", total, sum),
		)
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	o.total = total
	return nil
}

func (o *Order) setState(status Status, courierID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}

	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return err
	}

	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return err
		}
		c := *courierID
		o.courierID = &c
	}

	o.status = status
	return nil
}
