package order

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
)

// StatusChangedEventName is the routing key used when the event is published.
const StatusChangedEventName = "order.status_changed"

// StatusChanged is recorded every time an order moves to a new status. The
// exported fields form the JSON payload stored in the outbox.
type StatusChanged struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Event      string    `json:"event"`
	CourierID  string    `json:"courier_id,omitempty"`
	Refund     bool      `json:"refund_required"`
	OccurredOn time.Time `json:"occurred_at"`

	id kernel.UUID
}

func newStatusChanged(o *Order, from Status, event Event, at time.Time) StatusChanged {
	id := kernel.NewUUID()
	e := StatusChanged{
		ID:         id.String(),
		OrderID:    o.id.String(),
		From:       from.String(),
		To:         o.status.String(),
		Event:      event.String(),
		Refund:     o.refundRequired,
		OccurredOn: at,
		id:         id,
	}
	if o.courierID != nil {
		e.CourierID = o.courierID.String()
	}
	return e
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
