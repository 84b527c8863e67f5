// Package order holds the Order aggregate and the lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root with its items, total and courier reference
//   - Item: an order line with a price snapshot
//   - Status and Event: the transition table of the lifecycle
//   - StatusChanged: the domain event recorded on every transition
//
// Lifecycle:
//
//	created -> preparing -> on_the_way -> delivered
//
// with cancellation allowed from created and preparing, and delivery_failed leading
// from on_the_way to cancelled. delivered and cancelled are terminal.
package order
