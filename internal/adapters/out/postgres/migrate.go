package postgres

import (
	"fooddelivery/internal/adapters/out/postgres/courierrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/adapters/out/postgres/outboxrepo"
	"fooddelivery/internal/adapters/out/postgres/paymentrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&courierrepo.CourierDTO{},
		&paymentrepo.PaymentDTO{},
		&outboxrepo.MessageDTO{},
	)
}

// Tables lists the service tables, children first.
func Tables() []string {
	return []string{"order_items", "orders", "couriers", "payments", "outbox_messages"}
}
