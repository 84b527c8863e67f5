package queries

import (
	"context"
	"database/sql"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCourierQueryHandler reads a courier row directly.
type GetCourierQueryHandler struct {
	db *gorm.DB
}

func NewGetCourierQueryHandler(db *gorm.DB) GetCourierQueryHandler {
	return GetCourierQueryHandler{db: db}
}

func (h GetCourierQueryHandler) Handle(ctx context.Context, query GetCourierQuery) (*GetCourierQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		id, userID    uuid.UUID
		activeOrderID uuid.NullUUID
		response      GetCourierQueryResponse
	)

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			name,
			availability,
			active_order_id,
			completed_deliveries,
			idle_since
		FROM couriers
		WHERE id = ?
	`, query.CourierID().Bytes()).Row().Scan(
		&id,
		&userID,
		&response.Name,
		&response.Availability,
		&activeOrderID,
		&response.CompletedDeliveries,
		&response.IdleSince,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("courier", query.CourierID().String())
	}
	if err != nil {
		return nil, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return nil, err
	}
	if response.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
		return nil, err
	}
	if activeOrderID.Valid {
		orderID, idErr := kernel.UUIDFromBytes(activeOrderID.UUID[:])
		if idErr != nil {
			return nil, idErr
		}
		response.ActiveOrderID = &orderID
	}
	response.IdleSince = response.IdleSince.UTC()

	return &response, nil
}
