package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrSetCourierPresenceCommandIsNotConstructed = errors.New(
	"SetCourierPresenceCommand must be created via NewSetCourierPresenceCommand constructor",
)

// SetCourierPresenceCommand switches a courier between online and offline.
type SetCourierPresenceCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	online    bool

	guard guard.ConstructorGuard
}

func NewSetCourierPresenceCommand(courierID kernel.UUID, online bool) (SetCourierPresenceCommand, error) {
	if err := courierID.Validate(); err != nil {
		return SetCourierPresenceCommand{}, err
	}

	return SetCourierPresenceCommand{
		courierID: courierID,
		online:    online,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SetCourierPresenceCommand) Validate() error {
	return c.guard.Validate(ErrSetCourierPresenceCommandIsNotConstructed)
}

func (c SetCourierPresenceCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c SetCourierPresenceCommand) Online() bool {
	return c.online
}
