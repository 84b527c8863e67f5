// Package courier provides the Courier aggregate of the courier directory.
//
// The package includes:
//   - Courier: the aggregate root holding availability, the active order and the
//     load counters used by dispatch
//   - Availability: free, busy or offline
//
// Key business rules:
//   - a courier is busy exactly when it has an active order, and it has at most one
//   - reservation requires a free courier
//   - release is idempotent
//   - couriers register offline and go online explicitly
package courier
