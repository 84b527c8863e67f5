// Package paymentrepo persists payment attempts. Like couriers, rows are written with a
// compare-and-swap on version.
package paymentrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

type PaymentDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Method        string     `gorm:"type:varchar(16);not null"`
	Status        string     `gorm:"type:varchar(16);not null"`
	TransactionID string     `gorm:"type:varchar(255);not null;default:''"`
	PaidAt        *time.Time `gorm:""`
	CreatedAt     time.Time  `gorm:"not null"`
	NeedsReview   bool       `gorm:"not null;default:false;index"`
	ReviewReason  string     `gorm:"type:text;not null;default:''"`
	Version       int64      `gorm:"type:bigint;not null;default:1"`
}

func (PaymentDTO) TableName() string {
	return "payments"
}

func fromDomain(p *payment.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID().Bytes(),
		OrderID:       p.OrderID().Bytes(),
		Method:        p.Method().String(),
		Status:        p.Status().String(),
		TransactionID: p.TransactionID(),
		PaidAt:        p.PaidAt(),
		CreatedAt:     p.CreatedAt(),
		NeedsReview:   p.NeedsReview(),
		ReviewReason:  p.ReviewReason(),
		Version:       p.Version(),
	}
}

func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	method, err := payment.ParseMethod(dto.Method)
	if err != nil {
		return nil, err
	}

	status, err := payment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var paidAt *time.Time
	if dto.PaidAt != nil {
		t := dto.PaidAt.UTC()
		paidAt = &t
	}

	return payment.RestorePayment(
		id,
		orderID,
		method,
		status,
		dto.TransactionID,
		paidAt,
		dto.CreatedAt.UTC(),
		dto.NeedsReview,
		dto.ReviewReason,
		dto.Version,
	)
}
