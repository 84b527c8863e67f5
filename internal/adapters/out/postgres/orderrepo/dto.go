// Package orderrepo persists the order aggregate: one row in orders plus its lines in
// order_items. The status column holds the lower-case status name.
package orderrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row.
type OrderDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	RestaurantID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CourierID      *uuid.UUID `gorm:"type:uuid;index"`
	Total          int64      `gorm:"type:bigint;not null"`
	Status         string     `gorm:"type:varchar(16);not null;index:idx_orders_status_created,priority:1"`
	RefundRequired bool       `gorm:"not null;default:false"`
	CreatedAt      time.Time  `gorm:"not null;index:idx_orders_status_created,priority:2"`
	Items          []ItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one order line. Lines never change after the order is created.
type ItemDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int       `gorm:"primaryKey"`
	MenuItemID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity   int       `gorm:"type:int;not null"`
	UnitPrice  int64     `gorm:"type:bigint;not null"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := o.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	orderID := o.ID().Bytes()
	items := make([]ItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, ItemDTO{
			OrderID:    orderID,
			Position:   i,
			MenuItemID: item.MenuItemID().Bytes(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Int64(),
		})
	}

	return OrderDTO{
		ID:             orderID,
		CustomerID:     o.CustomerID().Bytes(),
		RestaurantID:   o.RestaurantID().Bytes(),
		CourierID:      courierID,
		Total:          o.Total().Int64(),
		Status:         o.Status().String(),
		RefundRequired: o.RefundRequired(),
		CreatedAt:      o.CreatedAt(),
		Items:          items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		customerID,
		restaurantID,
		items,
		kernel.Money(dto.Total),
		status,
		courierID,
		dto.CreatedAt.UTC(),
		dto.RefundRequired,
	)
}

func itemToDomain(dto ItemDTO) (order.Item, error) {
	menuItemID, err := kernel.UUIDFromBytes(dto.MenuItemID[:])
	if err != nil {
		return order.Item{}, err
	}

	return order.NewItem(menuItemID, dto.Quantity, kernel.Money(dto.UnitPrice))
}
