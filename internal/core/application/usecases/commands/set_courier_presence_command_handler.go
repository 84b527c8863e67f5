package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/courier"
)

// SetCourierPresenceCommandHandler brings a courier online (free) or takes it offline.
// Going offline is refused while the courier is busy.
type SetCourierPresenceCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewSetCourierPresenceCommandHandler(uowFactory CourierUoWFactory) SetCourierPresenceCommandHandler {
	return SetCourierPresenceCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the courier's availability after the change.
func (h SetCourierPresenceCommandHandler) Handle(ctx context.Context, cmd SetCourierPresenceCommand) (courier.Availability, error) {
	if err := cmd.Validate(); err != nil {
		return courier.UnknownAvailability, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return courier.UnknownAvailability, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	c, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return courier.UnknownAvailability, err
	}

	var changed bool
	if cmd.Online() {
		changed = c.GoOnline(time.Now().UTC())
	} else if changed, err = c.GoOffline(); err != nil {
		return courier.UnknownAvailability, err
	}

	if !changed {
		return c.Availability(), nil
	}

	if err = uow.CourierRepository().Update(ctx, c); err != nil {
		return courier.UnknownAvailability, err
	}

	if err = uow.Commit(ctx); err != nil {
		return courier.UnknownAvailability, err
	}

	return c.Availability(), nil
}
