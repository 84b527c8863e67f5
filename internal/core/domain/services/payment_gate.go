package services

import (
	"errors"

	"fooddelivery/internal/core/domain/model/payment"
)

// ErrPaymentNotSettled is the guard failure for sending an order out before its
// payment allows it.
var ErrPaymentNotSettled = errors.New("payment is not settled")

// PaymentGate decides whether an order's payments let it leave preparing.
//
// Only the most recent attempt that is not cancelled counts (by createdAt, then id).
// An order without such an attempt is held back, including cash orders: a cash
// attempt has to be registered even though it is never charged up front.
type PaymentGate struct{}

func NewPaymentGate() PaymentGate {
	return PaymentGate{}
}

// Latest returns the attempt that gates the order, or nil.
func (g PaymentGate) Latest(payments []*payment.Payment) *payment.Payment {
	var latest *payment.Payment

	for _, p := range payments {
		if p == nil || p.Status() == payment.Cancelled {
			continue
		}

		if latest == nil || g.isNewer(p, latest) {
			latest = p
		}
	}

	return latest
}

// IsLatest reports whether p is the attempt that gates its order.
func (g PaymentGate) IsLatest(p *payment.Payment, payments []*payment.Payment) bool {
	latest := g.Latest(payments)
	return latest != nil && latest.ID().IsEqual(p.ID())
}

// Check returns ErrPaymentNotSettled unless the gating attempt is satisfied.
func (g PaymentGate) Check(payments []*payment.Payment) error {
	latest := g.Latest(payments)
	if latest == nil || !latest.IsSatisfied() {
		return ErrPaymentNotSettled
	}
	return nil
}

func (g PaymentGate) isNewer(a, b *payment.Payment) bool {
	if !a.CreatedAt().Equal(b.CreatedAt()) {
		return a.CreatedAt().After(b.CreatedAt())
	}
	return b.ID().Less(a.ID())
}
