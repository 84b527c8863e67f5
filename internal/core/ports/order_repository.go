package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate together with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order's state with a compare-and-swap on the status column:
	// the row is changed only while it still holds expected. A row that moved on
	// returns *errs.StaleStateError; a missing row returns *errs.ObjectNotFoundError.
	Update(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// Get retrieves an order aggregate with its items.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllInStatus retrieves up to limit orders in the given status, oldest first.
	GetAllInStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error)
}
