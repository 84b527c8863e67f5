package commands_test

import (
	"testing"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCourierFactory(uow *MockUoW) *MockCourierUoWFactory {
	f := new(MockCourierUoWFactory)
	f.On("Create").Return(uow).Once()
	return f
}

func TestCreateCourierCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("should register courier offline", func(t *testing.T) {
		cmd, err := commands.NewCreateCourierCommand(kernel.NewUUID(), kernel.NewUUID(), "Alex")
		require.NoError(t, err)

		uow := newMockUoW()
		uow.couriers.On("Add", mock.Anything, mock.MatchedBy(func(c *courier.Courier) bool {
			return c.ID().IsEqual(cmd.CourierID()) &&
				c.Name() == "Alex" &&
				c.Availability() == courier.Offline &&
				c.CompletedDeliveries() == 0
		})).Return(nil).Once()
		uow.On("Commit", mock.Anything).Return(nil).Once()

		h := commands.NewCreateCourierCommandHandler(newCourierFactory(uow))
		require.NoError(t, h.Handle(ctx, cmd))

		uow.assertExpectations(t)
	})

	t.Run("should require name", func(t *testing.T) {
		_, err := commands.NewCreateCourierCommand(kernel.NewUUID(), kernel.NewUUID(), "  ")

		require.ErrorIs(t, err, commands.ErrNameIsRequired)
	})

	t.Run("should reject unconstructed command", func(t *testing.T) {
		h := commands.NewCreateCourierCommandHandler(new(MockCourierUoWFactory))

		require.ErrorIs(t, h.Handle(ctx, commands.CreateCourierCommand{}), commands.ErrCreateCourierCommandIsNotConstructed)
	})
}

func TestSetCourierPresenceCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("should bring offline courier online", func(t *testing.T) {
		c, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID(), "Alex", fixtureTime)
		require.NoError(t, err)

		uow := newMockUoW()
		uow.couriers.On("Get", mock.Anything, c.ID()).Return(c, nil).Once()
		uow.couriers.On("Update", mock.Anything, c).Return(nil).Once()
		uow.On("Commit", mock.Anything).Return(nil).Once()

		cmd, err := commands.NewSetCourierPresenceCommand(c.ID(), true)
		require.NoError(t, err)

		availability, err := commands.NewSetCourierPresenceCommandHandler(newCourierFactory(uow)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, courier.Free, availability)
		uow.assertExpectations(t)
	})

	t.Run("should not write when nothing changes", func(t *testing.T) {
		c := newFreeCourier(t, 0, fixtureTime)

		uow := newMockUoW()
		uow.couriers.On("Get", mock.Anything, c.ID()).Return(c, nil).Once()

		cmd, err := commands.NewSetCourierPresenceCommand(c.ID(), true)
		require.NoError(t, err)

		availability, err := commands.NewSetCourierPresenceCommandHandler(newCourierFactory(uow)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, courier.Free, availability)
		uow.couriers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should keep busy courier online", func(t *testing.T) {
		c := newBusyCourier(t, kernel.NewUUID())

		uow := newMockUoW()
		uow.couriers.On("Get", mock.Anything, c.ID()).Return(c, nil).Once()

		cmd, err := commands.NewSetCourierPresenceCommand(c.ID(), false)
		require.NoError(t, err)

		_, err = commands.NewSetCourierPresenceCommandHandler(newCourierFactory(uow)).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.True(t, c.IsBusy())
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should take free courier offline", func(t *testing.T) {
		c := newFreeCourier(t, 0, fixtureTime)

		uow := newMockUoW()
		uow.couriers.On("Get", mock.Anything, c.ID()).Return(c, nil).Once()
		uow.couriers.On("Update", mock.Anything, c).Return(nil).Once()
		uow.On("Commit", mock.Anything).Return(nil).Once()

		cmd, err := commands.NewSetCourierPresenceCommand(c.ID(), false)
		require.NoError(t, err)

		availability, err := commands.NewSetCourierPresenceCommandHandler(newCourierFactory(uow)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, courier.Offline, availability)
		uow.assertExpectations(t)
	})
}
