package courier

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Availability is the courier's dispatch state. The database column stores String().
//
//	offline ──GoOnline──> free ──Reserve──> busy
//	   ^                   │ ^               │
//	   └─────GoOffline─────┘ └────Release────┘
type Availability int

const (
	UnknownAvailability Availability = iota
	Free
	Busy
	Offline
)

func getAvailabilityStrings() map[Availability]string {
	return map[Availability]string{
		UnknownAvailability: "unknown",
		Free:                "free",
		Busy:                "busy",
		Offline:             "offline",
	}
}

// ParseAvailability converts a persisted name back to an Availability.
func ParseAvailability(s string) (Availability, error) {
	for a, name := range getAvailabilityStrings() {
		if name == s && a != UnknownAvailability {
			return a, nil
		}
	}
	return UnknownAvailability, errs.NewValueIsInvalidErrorWithCause("availability", fmt.Errorf("%q is not a valid availability", s))
}

func (a Availability) Validate() error {
	if a <= UnknownAvailability || a > Offline {
		return errs.NewValueIsInvalidErrorWithCause("availability is invalid", fmt.Errorf("%d is not a valid availability", a))
	}
	return nil
}

func (a Availability) String() string {
	if str, ok := getAvailabilityStrings()[a]; ok {
		return str
	}
	return "unknown"
}
