package courier

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier is the aggregate root of the courier directory. It owns the courier's
// availability and the reference to the single order it is delivering.
//
// Business rules:
//   - a courier has an active order exactly when it is busy
//   - only a free courier can be reserved
//   - a busy courier cannot go offline
//   - releasing a courier that is not busy changes nothing
//
// Every persisted change bumps version; repositories use it as a compare-and-swap token
// so two dispatchers can never both reserve the same courier.
//
// Example usage:
//
//	c, err := courier.NewCourier(kernel.NewUUID(), userID, "Alice", time.Now())
//	if err != nil {
//	    // Handle construction error
//	}
//	c.GoOnline(time.Now())
//	err = c.Reserve(orderID)
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// userID links the courier profile to an account
	userID kernel.UUID
	// name is the human-readable name of the courier
	name string
	// availability is the dispatch state
	availability Availability
	// activeOrderID is the order being delivered, set only while busy
	activeOrderID *kernel.UUID
	// completedDeliveries is the load used to balance dispatch
	completedDeliveries int
	// idleSince is when the courier last became free (or was registered)
	idleSince time.Time
	// version is the optimistic concurrency token of the persisted row
	version int64
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier registers a courier. New couriers start offline and must go online
// before dispatch can pick them.
func NewCourier(id kernel.UUID, userID kernel.UUID, name string, at time.Time) (*Courier, error) {
	courier := &Courier{
		availability: Offline,
		idleSince:    at,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setUserID(userID),
		courier.setName(name),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage.
//
// Business Rules:
//   - availability must be valid
//   - active order is set if and only if the courier is busy
//   - completed deliveries and version cannot be negative
func RestoreCourier(
	id kernel.UUID,
	userID kernel.UUID,
	name string,
	availability Availability,
	activeOrderID *kernel.UUID,
	completedDeliveries int,
	idleSince time.Time,
	version int64,
) (*Courier, error) {
	courier := &Courier{
		idleSince: idleSince,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setUserID(userID),
		courier.setName(name),
		courier.setAssignment(availability, activeOrderID),
		courier.setCounters(completedDeliveries, version),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// Validate checks that the courier was created through a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by identifier.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) UserID() kernel.UUID {
	return c.userID
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Availability() Availability {
	return c.availability
}

// ActiveOrder returns the order being delivered, nil unless busy.
func (c *Courier) ActiveOrder() *kernel.UUID {
	return c.activeOrderID
}

func (c *Courier) CompletedDeliveries() int {
	return c.completedDeliveries
}

func (c *Courier) IdleSince() time.Time {
	return c.idleSince
}

// Version is the token the row had when the courier was loaded.
func (c *Courier) Version() int64 {
	return c.version
}

func (c *Courier) IsFree() bool {
	return c.availability == Free
}

func (c *Courier) IsBusy() bool {
	return c.availability == Busy
}

// IsReservedFor reports whether the courier is busy with the given order.
func (c *Courier) IsReservedFor(orderID kernel.UUID) bool {
	return c.IsBusy() && c.activeOrderID != nil && c.activeOrderID.IsEqual(orderID)
}

// Reserve makes a free courier busy with orderID.
func (c *Courier) Reserve(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	if !c.IsFree() {
		return errs.NewInvalidTransitionError("courier", c.availability.String(), "reserve")
	}

	id := orderID
	c.availability = Busy
	c.activeOrderID = &id
	return nil
}

// Release frees a busy courier and clears its assignment. delivered adds the finished
// order to the courier's load. It reports whether anything changed: releasing a
// courier that is already free or offline is a no-op.
func (c *Courier) Release(delivered bool, at time.Time) bool {
	if !c.IsBusy() {
		return false
	}

	c.availability = Free
	c.activeOrderID = nil
	c.idleSince = at
	if delivered {
		c.completedDeliveries++
	}
	return true
}

// GoOnline makes an offline courier available for dispatch. It reports whether
// anything changed.
func (c *Courier) GoOnline(at time.Time) bool {
	if c.availability != Offline {
		return false
	}

	c.availability = Free
	c.idleSince = at
	return true
}

// GoOffline withdraws a free courier from dispatch. A busy courier has to finish its
// delivery first.
func (c *Courier) GoOffline() (bool, error) {
	switch c.availability {
	case Offline:
		return false, nil
	case Busy:
		return false, errs.NewInvalidTransitionError("courier", c.availability.String(), "go_offline")
	default:
		c.availability = Offline
		return true, nil
	}
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("userID", err)
	}
	c.userID = userID
	return nil
}

func (c *Courier) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setAssignment(availability Availability, activeOrderID *kernel.UUID) error {
	if err := availability.Validate(); err != nil {
		return err
	}

	if (availability == Busy) != (activeOrderID != nil) {
		return errs.NewValueIsInvalidErrorWithCause(
			"active order is invalid",
			fmt.Errorf("courier is %s and active order is set: %t", availability, activeOrderID != nil),
		)
	}

	if activeOrderID != nil {
		if err := activeOrderID.Validate(); err != nil {
			return err
		}
		id := *activeOrderID
		c.activeOrderID = &id
	}

	c.availability = availability
	return nil
}

func (c *Courier) setCounters(completedDeliveries int, version int64) error {
	if completedDeliveries < 0 {
		return errs.NewValueIsInvalidErrorWithCause("completed deliveries", fmt.Errorf("%d is negative", completedDeliveries))
	}
	if version < 0 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is negative", version))
	}
	c.completedDeliveries = completedDeliveries
	c.version = version
	return nil
}
