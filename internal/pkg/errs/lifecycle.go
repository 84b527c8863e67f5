package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrStaleState         = errors.New("stale state")
	ErrNoCourierAvailable = errors.New("no courier available")
	ErrReservationRace    = errors.New("courier reservation race lost")
	ErrPaymentMismatch    = errors.New("payment mismatch")
)

// InvalidTransitionError is returned when an event is not legal from the current state,
// or when a guard of an otherwise legal transition does not hold (Cause is set then).
// It is surfaced to the caller and must not be retried.
type InvalidTransitionError struct {
	Entity string
	From   string
	Event  string
	Cause  error
}

func NewInvalidTransitionError(entity, from, event string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, From: from, Event: event}
}

func NewInvalidTransitionErrorWithCause(entity, from, event string, cause error) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, From: from, Event: event, Cause: cause}
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s cannot apply %s from %s", ErrInvalidTransition, e.Entity, e.Event, e.From)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidTransition, e.Cause}
	}
	return []error{ErrInvalidTransition}
}

// StaleStateError is an optimistic concurrency conflict: the row no longer holds the
// value the caller read. The caller reloads and retries a bounded number of times.
type StaleStateError struct {
	Entity   string
	ID       string
	Expected string
	Cause    error
}

func NewStaleStateError(entity, id, expected string) *StaleStateError {
	return &StaleStateError{Entity: entity, ID: id, Expected: expected}
}

func NewStaleStateErrorWithCause(entity, id, expected string, cause error) *StaleStateError {
	return &StaleStateError{Entity: entity, ID: id, Expected: expected, Cause: cause}
}

func (e *StaleStateError) Error() string {
	msg := fmt.Sprintf("%s: %s %s was modified concurrently, expected %s", ErrStaleState, e.Entity, e.ID, e.Expected)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *StaleStateError) Unwrap() error {
	return ErrStaleState
}

// NoCourierAvailableError is returned by dispatch when no free courier could be reserved.
// The order stays in preparing and dispatch may be invoked again later.
type NoCourierAvailableError struct {
	OrderID  string
	Attempts int
}

func NewNoCourierAvailableError(orderID string, attempts int) *NoCourierAvailableError {
	return &NoCourierAvailableError{OrderID: orderID, Attempts: attempts}
}

func (e *NoCourierAvailableError) Error() string {
	return fmt.Sprintf("%s: order %s, reservation attempts %d", ErrNoCourierAvailable, e.OrderID, e.Attempts)
}

func (e *NoCourierAvailableError) Unwrap() error {
	return ErrNoCourierAvailable
}

// ReservationRaceError means another dispatch reserved the candidate courier first.
// It never leaves the dispatch engine.
type ReservationRaceError struct {
	CourierID string
	OrderID   string
	Cause     error
}

func NewReservationRaceError(courierID, orderID string, cause error) *ReservationRaceError {
	return &ReservationRaceError{CourierID: courierID, OrderID: orderID, Cause: cause}
}

func (e *ReservationRaceError) Error() string {
	msg := fmt.Sprintf("%s: courier %s for order %s", ErrReservationRace, e.CourierID, e.OrderID)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *ReservationRaceError) Unwrap() error {
	return ErrReservationRace
}

// PaymentMismatchError reports a payment update for an order that is already terminal.
// The update is recorded for manual reconciliation and is not fatal.
type PaymentMismatchError struct {
	PaymentID   string
	OrderID     string
	OrderStatus string
}

func NewPaymentMismatchError(paymentID, orderID, orderStatus string) *PaymentMismatchError {
	return &PaymentMismatchError{PaymentID: paymentID, OrderID: orderID, OrderStatus: orderStatus}
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("%s: payment %s references order %s in terminal status %s",
		ErrPaymentMismatch, e.PaymentID, e.OrderID, e.OrderStatus)
}

func (e *PaymentMismatchError) Unwrap() error {
	return ErrPaymentMismatch
}
