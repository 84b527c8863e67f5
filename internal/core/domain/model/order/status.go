package order

import (
	"errors"
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// ErrCourierEnRoute is the guard failure for cancelling an order whose courier already left.
var ErrCourierEnRoute = errors.New("courier is already en route")

// Status is the lifecycle state of an order. The database column stores String().
//
// State transitions:
//
//	created ──restaurant_accepted──> preparing ──courier_assigned──> on_the_way ──delivery_confirmed──> delivered
//	   │                                 │                               │
//	   └──────cancellation_requested─────┴──> cancelled <──delivery_failed┘
//
// delivered and cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota
	Created
	Preparing
	OnTheWay
	Delivered
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Created:   "created",
		Preparing: "preparing",
		OnTheWay:  "on_the_way",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

// getTransitions is the lifecycle table: from status, on event, to status.
// Any pair missing from the table is an invalid transition.
func getTransitions() map[Status]map[Event]Status {
	return map[Status]map[Event]Status{
		Created: {
			RestaurantAccepted:    Preparing,
			CancellationRequested: Cancelled,
		},
		Preparing: {
			CancellationRequested: Cancelled,
			CourierAssigned:       OnTheWay,
		},
		OnTheWay: {
			DeliveryConfirmed: Delivered,
			DeliveryFailed:    Cancelled,
		},
	}
}

// ParseStatus converts a persisted or user supplied name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the status is one of the five lifecycle states.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is legal.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Next returns the status reached by applying event. Illegal pairs, including every
// event on a terminal status, yield *errs.InvalidTransitionError.
func (s Status) Next(event Event) (Status, error) {
	if err := event.Validate(); err != nil {
		return Unknown, err
	}

	next, ok := getTransitions()[s][event]
	if !ok {
		if s == OnTheWay && event == CancellationRequested {
			return Unknown, errs.NewInvalidTransitionErrorWithCause("order", s.String(), event.String(), ErrCourierEnRoute)
		}
		return Unknown, errs.NewInvalidTransitionError("order", s.String(), event.String())
	}

	return next, nil
}

// ValidateCanHaveCourier checks the courier reference invariant: an order references a
// courier exactly when it is on_the_way or delivered.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	requiresCourier := s == OnTheWay || s == Delivered

	if courier && !requiresCourier {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", s),
		)
	}

	if !courier && requiresCourier {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", s),
		)
	}

	return nil
}
