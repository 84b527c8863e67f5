package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrGetCourierQueryIsNotConstructed = errors.New(
		"GetCourierQuery must be created via NewGetCourierQuery constructor",
	)
)

// GetCourierQuery reads the availability and assignment of one courier.
type GetCourierQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCourierQuery(courierID kernel.UUID) (GetCourierQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCourierQuery{}, err
	}

	return GetCourierQuery{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetCourierQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierQueryIsNotConstructed)
}

func (q GetCourierQuery) CourierID() kernel.UUID {
	return q.courierID
}

// GetCourierQueryResponse is the courier read model. ActiveOrderID is set only while
// the courier is busy.
type GetCourierQueryResponse struct {
	ID                  kernel.UUID
	UserID              kernel.UUID
	Name                string
	Availability        string
	ActiveOrderID       *kernel.UUID
	CompletedDeliveries int
	IdleSince           time.Time
}
