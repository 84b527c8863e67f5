package payment

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
)

const StatusChangedEventName = "payment.status_changed"

// StatusChanged is recorded when a payment attempt settles or is flagged for review.
type StatusChanged struct {
	ID          string    `json:"id"`
	PaymentID   string    `json:"payment_id"`
	OrderID     string    `json:"order_id"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	NeedsReview bool      `json:"needs_review"`
	Reason      string    `json:"review_reason,omitempty"`
	OccurredOn  time.Time `json:"occurred_at"`

	id kernel.UUID
}

func newStatusChanged(p *Payment, at time.Time) StatusChanged {
	id := kernel.NewUUID()
	return StatusChanged{
		ID:          id.String(),
		PaymentID:   p.id.String(),
		OrderID:     p.orderID.String(),
		Method:      p.method.String(),
		Status:      p.status.String(),
		NeedsReview: p.needsReview,
		Reason:      p.reviewReason,
		OccurredOn:  at,
		id:          id,
	}
}

func (e StatusChanged) EventID() kernel.UUID {
	return e.id
}

func (e StatusChanged) EventName() string {
	return StatusChangedEventName
}

func (e StatusChanged) OccurredAt() time.Time {
	return e.OccurredOn
}
