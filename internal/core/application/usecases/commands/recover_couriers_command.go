package commands

import (
	"errors"

	"fooddelivery/internal/pkg/guard"
)

var ErrRecoverCouriersCommandIsNotConstructed = errors.New(
	"RecoverCouriersCommand must be created via NewRecoverCouriersCommand constructor",
)

// RecoverCouriersCommand frees couriers that are still busy with an order that has
// already been delivered or cancelled.
type RecoverCouriersCommand struct {
	guard guard.ConstructorGuard
}

func NewRecoverCouriersCommand() RecoverCouriersCommand {
	return RecoverCouriersCommand{guard: guard.NewConstructorGuard()}
}

func (c RecoverCouriersCommand) Validate() error {
	return c.guard.Validate(ErrRecoverCouriersCommandIsNotConstructed)
}
