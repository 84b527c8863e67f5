// Package courierrepo persists the courier directory. Every row carries a version that
// Update uses for compare-and-swap writes.
package courierrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type CourierDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Name                string     `gorm:"type:varchar(255);not null"`
	Availability        string     `gorm:"type:varchar(16);not null;index"`
	ActiveOrderID       *uuid.UUID `gorm:"type:uuid;index"`
	CompletedDeliveries int        `gorm:"type:int;not null;default:0"`
	IdleSince           time.Time  `gorm:"not null"`
	Version             int64      `gorm:"type:bigint;not null;default:1"`
}

func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(c *courier.Courier) CourierDTO {
	var activeOrderID *uuid.UUID
	if id := c.ActiveOrder(); id != nil {
		raw := id.Bytes()
		activeOrderID = &raw
	}

	return CourierDTO{
		ID:                  c.ID().Bytes(),
		UserID:              c.UserID().Bytes(),
		Name:                c.Name(),
		Availability:        c.Availability().String(),
		ActiveOrderID:       activeOrderID,
		CompletedDeliveries: c.CompletedDeliveries(),
		IdleSince:           c.IdleSince(),
		Version:             c.Version(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	availability, err := courier.ParseAvailability(dto.Availability)
	if err != nil {
		return nil, err
	}

	var activeOrderID *kernel.UUID
	if dto.ActiveOrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.ActiveOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		activeOrderID = &oID
	}

	return courier.RestoreCourier(
		id,
		userID,
		dto.Name,
		availability,
		activeOrderID,
		dto.CompletedDeliveries,
		dto.IdleSince.UTC(),
		dto.Version,
	)
}
