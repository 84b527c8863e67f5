package order

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Event is an external trigger that drives the order state machine.
type Event int

const (
	UnknownEvent Event = iota
	// RestaurantAccepted is sent when the restaurant confirms the order.
	RestaurantAccepted
	// CancellationRequested comes from the customer, the restaurant or payment reconciliation.
	CancellationRequested
	// CourierAssigned is applied by dispatch once a courier is reserved and picks up.
	CourierAssigned
	// DeliveryConfirmed is sent by the courier on drop-off.
	DeliveryConfirmed
	// DeliveryFailed is sent when an en route delivery cannot be completed.
	DeliveryFailed
)

func getEventStrings() map[Event]string {
	return map[Event]string{
		UnknownEvent:          "unknown",
		RestaurantAccepted:    "restaurant_accepted",
		CancellationRequested: "cancellation_requested",
		CourierAssigned:       "courier_assigned",
		DeliveryConfirmed:     "delivery_confirmed",
		DeliveryFailed:        "delivery_failed",
	}
}

// ParseEvent converts an event name received from a caller.
func ParseEvent(s string) (Event, error) {
	for event, name := range getEventStrings() {
		if name == s && event != UnknownEvent {
			return event, nil
		}
	}
	return UnknownEvent, errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("%q is not a valid event", s))
}

func (e Event) Validate() error {
	if e <= UnknownEvent || e > DeliveryFailed {
		return errs.NewValueIsInvalidErrorWithCause("event is invalid", fmt.Errorf("%d is not a valid event", e))
	}
	return nil
}

func (e Event) String() string {
	if str, ok := getEventStrings()[e]; ok {
		return str
	}
	return "unknown"
}
