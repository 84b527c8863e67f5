// Package ports defines the contracts between the application core and the
// infrastructure: repositories, the unit of work and outbound messaging.
package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update writes the courier's state with a compare-and-swap on version and bumps
	// the stored version. When another transaction changed the row since it was read,
	// nothing is written and *errs.StaleStateError is returned. The aggregate passed in
	// keeps its old version, so callers reload it before changing it again.
	//
	// Example:
	//   if err := c.Reserve(orderID); err != nil {
	//       return err
	//   }
	//   err := repo.Update(ctx, c)
	//   if errors.Is(err, errs.ErrStaleState) {
	//       // someone else reserved c first
	//   }
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllFree retrieves all couriers whose availability is free.
	GetAllFree(ctx context.Context) ([]*courier.Courier, error)

	// GetAllBusy retrieves all couriers whose availability is busy.
	GetAllBusy(ctx context.Context) ([]*courier.Courier, error)

	// GetByActiveOrder retrieves the courier reserved for the order, or
	// *errs.ObjectNotFoundError when there is none.
	GetByActiveOrder(ctx context.Context, orderID kernel.UUID) (*courier.Courier, error)
}
