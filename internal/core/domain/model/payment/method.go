package payment

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Method is how the customer pays. Cash is collected on delivery and never holds an
// order back.
type Method int

const (
	UnknownMethod Method = iota
	Card
	Cash
	Wallet
)

func getMethodStrings() map[Method]string {
	return map[Method]string{
		UnknownMethod: "unknown",
		Card:          "card",
		Cash:          "cash",
		Wallet:        "wallet",
	}
}

func ParseMethod(s string) (Method, error) {
	for m, name := range getMethodStrings() {
		if name == s && m != UnknownMethod {
			return m, nil
		}
	}
	return UnknownMethod, errs.NewValueIsInvalidErrorWithCause("method", fmt.Errorf("%q is not a valid payment method", s))
}

func (m Method) Validate() error {
	if m <= UnknownMethod || m > Wallet {
		return errs.NewValueIsInvalidErrorWithCause("method is invalid", fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

func (m Method) String() string {
	if str, ok := getMethodStrings()[m]; ok {
		return str
	}
	return "unknown"
}

// RequiresSettlement reports whether the payment has to be paid before dispatch.
func (m Method) RequiresSettlement() bool {
	return m == Card || m == Wallet
}
