package services

import (
	"sort"

	"fooddelivery/internal/core/domain/model/courier"
)

// CourierSelector is a domain service that orders dispatch candidates so that work is
// spread evenly over the fleet.
//
// Ranking rules, applied in sequence:
//   - fewest completed deliveries first
//   - longest idle first (earliest idleSince)
//   - courier id in string order, so equal couriers always rank the same way
//
// Couriers that are not free are left out. Example usage:
//
//	selector := services.NewCourierSelector()
//	ranked, err := selector.Rank(freeCouriers)
//	for _, c := range ranked {
//	    // try to reserve c
//	}
type CourierSelector struct{}

// NewCourierSelector creates a new CourierSelector instance.
func NewCourierSelector() CourierSelector {
	return CourierSelector{}
}

// Rank returns the free couriers from the input in dispatch order. The input slice is
// not modified. An empty result means no courier can take the order.
func (s CourierSelector) Rank(couriers []*courier.Courier) ([]*courier.Courier, error) {
	candidates := make([]*courier.Courier, 0, len(couriers))

	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}

		if !c.IsFree() {
			continue
		}

		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return s.less(candidates[i], candidates[j])
	})

	return candidates, nil
}

func (s CourierSelector) less(a, b *courier.Courier) bool {
	if a.CompletedDeliveries() != b.CompletedDeliveries() {
		return a.CompletedDeliveries() < b.CompletedDeliveries()
	}

	if !a.IdleSince().Equal(b.IdleSince()) {
		return a.IdleSince().Before(b.IdleSince())
	}

	return a.ID().Less(b.ID())
}
