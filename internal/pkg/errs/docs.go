// Package errs provides standardized error types for the food-delivery service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes two groups of error types:
//   - validation and lookup errors: ValueIsRequiredError, ValueIsInvalidError,
//     ValueIsOutOfRangeError, ObjectNotFoundError
//   - lifecycle errors raised by the order state machine, the dispatch engine
//     and payment reconciliation: InvalidTransitionError, StaleStateError,
//     NoCourierAvailableError, ReservationRaceError, PaymentMismatchError
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrStaleState)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works on wrapped values
package errs
