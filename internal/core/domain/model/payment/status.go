package payment

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Status of a payment attempt. Pending moves to any other status. A paid attempt can
// still fail when the provider reverses it after settlement; failed and cancelled are
// final. A retry is a new attempt.
type Status int

const (
	UnknownStatus Status = iota
	Pending
	Paid
	Failed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus: "unknown",
		Pending:       "pending",
		Paid:          "paid",
		Failed:        "failed",
		Cancelled:     "cancelled",
	}
}

func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != UnknownStatus {
			return status, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid payment status", s))
}

func (s Status) Validate() error {
	if s <= UnknownStatus || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// CanBecome reports whether the attempt may move from s to next.
func (s Status) CanBecome(next Status) bool {
	switch s {
	case Pending:
		return next == Paid || next == Failed || next == Cancelled
	case Paid:
		return next == Failed
	default:
		return false
	}
}
