package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
)

// PaymentRepository defines the persistence contract for payment attempts.
type PaymentRepository interface {
	Add(ctx context.Context, payment *payment.Payment) error

	// Update writes the attempt with a compare-and-swap on version, like
	// CourierRepository.Update.
	Update(ctx context.Context, payment *payment.Payment) error

	Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error)

	// GetAllByOrder retrieves every attempt for the order, oldest first.
	GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*payment.Payment, error)
}
