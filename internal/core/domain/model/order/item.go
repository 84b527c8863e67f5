package order

import (
	"fmt"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

// Item is a line of an order: a menu item, how many of it, and the unit price
// captured when the order was placed. Later menu price changes do not touch it.
type Item struct {
	menuItemID kernel.UUID
	quantity   int
	unitPrice  kernel.Money
}

// NewItem validates a single order line.
func NewItem(menuItemID kernel.UUID, quantity int, unitPrice kernel.Money) (Item, error) {
	if err := menuItemID.Validate(); err != nil {
		return Item{}, err
	}

	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}

	if unitPrice < 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("unit price is invalid", fmt.Errorf("%d is negative", unitPrice))
	}

	return Item{
		menuItemID: menuItemID,
		quantity:   quantity,
		unitPrice:  unitPrice,
	}, nil
}

func (i Item) MenuItemID() kernel.UUID {
	return i.menuItemID
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal is unit price times quantity.
func (i Item) Subtotal() (kernel.Money, error) {
	return i.unitPrice.Multiply(i.quantity)
}

// Sum adds up the subtotals of all items. It fails when the sum does not fit in Money.
func Sum(items []Item) (kernel.Money, error) {
	var total kernel.Money
	for _, item := range items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return 0, err
		}
		if total, err = total.Add(subtotal); err != nil {
			return 0, err
		}
	}
	return total, nil
}
