// Package services provides domain services that need more than one aggregate to
// decide.
//
// The package includes:
//   - CourierSelector: ranks free couriers for dispatch
//   - PaymentGate: tells whether an order's payments allow it to be dispatched
//
// Both are stateless. Loading the aggregates and persisting the outcome is the job of
// the application layer.
package services
