package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment constructor")
	ErrReasonIsRequired        = errs.NewValueIsRequiredError("reason")
)

// Payment is one attempt to pay for an order. An order may have several attempts;
// only the most recent one that is not cancelled decides whether the order can be
// dispatched.
//
// Business rules:
//   - only a pending attempt can become paid or cancelled
//   - a pending or paid attempt can fail; a paid one keeps its paidAt as a reversal
//   - paidAt is set whenever the attempt is paid
//   - needsReview marks attempts that disagree with the order and need a human
type Payment struct {
	id      kernel.UUID
	orderID kernel.UUID
	method  Method
	status  Status

	transactionID string
	paidAt        *time.Time
	createdAt     time.Time

	needsReview  bool
	reviewReason string

	version int64

	domainEvents []kernel.DomainEvent

	guard guard.ConstructorGuard
}

// NewPayment registers a pending attempt for an order.
func NewPayment(id kernel.UUID, orderID kernel.UUID, method Method, createdAt time.Time) (*Payment, error) {
	p := &Payment{
		status:    Pending,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrderID(orderID),
		p.setMethod(method),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestorePayment rebuilds an attempt from persistent storage.
func RestorePayment(
	id kernel.UUID,
	orderID kernel.UUID,
	method Method,
	status Status,
	transactionID string,
	paidAt *time.Time,
	createdAt time.Time,
	needsReview bool,
	reviewReason string,
	version int64,
) (*Payment, error) {
	p := &Payment{
		transactionID: transactionID,
		createdAt:     createdAt,
		needsReview:   needsReview,
		reviewReason:  reviewReason,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrderID(orderID),
		p.setMethod(method),
		p.setStatus(status, paidAt),
		p.setVersion(version),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Payment) Validate() error {
	if p == nil {
		return ErrPaymentIsNotConstructed
	}
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

func (p *Payment) ID() kernel.UUID {
	return p.id
}

func (p *Payment) OrderID() kernel.UUID {
	return p.orderID
}

func (p *Payment) Method() Method {
	return p.method
}

func (p *Payment) Status() Status {
	return p.status
}

func (p *Payment) TransactionID() string {
	return p.transactionID
}

func (p *Payment) PaidAt() *time.Time {
	return p.paidAt
}

func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Payment) NeedsReview() bool {
	return p.needsReview
}

func (p *Payment) ReviewReason() string {
	return p.reviewReason
}

// Version is the token the row had when the payment was loaded.
func (p *Payment) Version() int64 {
	return p.version
}

// IsSatisfied reports whether this attempt lets its order leave preparing. Cash is
// always satisfied; card and wallet must be paid.
func (p *Payment) IsSatisfied() bool {
	if !p.method.RequiresSettlement() {
		return p.status != Cancelled
	}
	return p.status == Paid
}

// Apply moves the attempt to status. Re-applying the current status reports no change
// and no error, so duplicated callbacks are harmless.
func (p *Payment) Apply(status Status, transactionID string, at time.Time) (bool, error) {
	if err := status.Validate(); err != nil {
		return false, err
	}

	if status == p.status {
		return false, nil
	}

	var err error
	switch status {
	case Paid:
		err = p.MarkPaid(transactionID, at)
	case Failed:
		err = p.MarkFailed(at)
	case Cancelled:
		err = p.Cancel(at)
	default:
		err = errs.NewInvalidTransitionError("payment", p.status.String(), status.String())
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// MarkPaid settles the attempt.
func (p *Payment) MarkPaid(transactionID string, at time.Time) error {
	if err := p.transition(Paid, at); err != nil {
		return err
	}
	if transactionID != "" {
		p.transactionID = transactionID
	}
	paidAt := at
	p.paidAt = &paidAt
	return nil
}

// MarkFailed fails the attempt. On a paid attempt this records a reversal.
func (p *Payment) MarkFailed(at time.Time) error {
	return p.transition(Failed, at)
}

// Cancel withdraws the attempt so it no longer takes part in gating.
func (p *Payment) Cancel(at time.Time) error {
	return p.transition(Cancelled, at)
}

// FlagForReview marks the attempt for manual reconciliation. The reason of the first
// flag is kept.
func (p *Payment) FlagForReview(reason string, at time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonIsRequired
	}
	if p.needsReview {
		return nil
	}

	p.needsReview = true
	p.reviewReason = reason
	p.raise(newStatusChanged(p, at))
	return nil
}

func (p *Payment) DomainEvents() []kernel.DomainEvent {
	return p.domainEvents
}

func (p *Payment) ClearDomainEvents() {
	p.domainEvents = nil
}

func (p *Payment) transition(next Status, at time.Time) error {
	if !p.status.CanBecome(next) {
		return errs.NewInvalidTransitionError("payment", p.status.String(), next.String())
	}
	p.status = next
	p.raise(newStatusChanged(p, at))
	return nil
}

func (p *Payment) raise(event kernel.DomainEvent) {
	p.domainEvents = append(p.domainEvents, event)
}

func (p *Payment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Payment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	p.orderID = orderID
	return nil
}

func (p *Payment) setMethod(method Method) error {
	if err := method.Validate(); err != nil {
		return err
	}
	p.method = method
	return nil
}

func (p *Payment) setStatus(status Status, paidAt *time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if (status == Paid && paidAt == nil) || (paidAt != nil && status != Paid && status != Failed) {
		return errs.NewValueIsInvalidErrorWithCause(
			"paid at is invalid",
			fmt.Errorf("payment is %s and paid at is set: %t", status, paidAt != nil),
		)
	}
	if paidAt != nil {
		t := *paidAt
		p.paidAt = &t
	}
	p.status = status
	return nil
}

func (p *Payment) setVersion(version int64) error {
	if version < 0 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is negative", version))
	}
	p.version = version
	return nil
}
