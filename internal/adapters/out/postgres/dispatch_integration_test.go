package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/postgres/pgtest"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type funcUoWFactory func() commands.UoW

func (f funcUoWFactory) Create() commands.UoW { return f() }

type funcOrderUoWFactory func() commands.OrderUoW

func (f funcOrderUoWFactory) Create() commands.OrderUoW { return f() }

type funcCourierUoWFactory func() commands.CourierUoW

func (f funcCourierUoWFactory) Create() commands.CourierUoW { return f() }

// DispatchTestSuite runs the command handlers against a real database to check the
// compare-and-swap writes under concurrency.
type DispatchTestSuite struct {
	suite.Suite
	pg      *pgtest.Database
	factory *postgres.GormUnitOfWorkFactory

	uows        funcUoWFactory
	createOrder commands.CreateOrderCommandHandler
	register    commands.RegisterPaymentCommandHandler
	advance     commands.AdvanceOrderCommandHandler
	assign      commands.AssignCourierCommandHandler
	createCour  commands.CreateCourierCommandHandler
	presence    commands.SetCourierPresenceCommandHandler
}

func TestDispatchTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(DispatchTestSuite))
}

func (suite *DispatchTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background(), postgres.Migrate)
	suite.Require().NoError(err)
	suite.pg = pg
	suite.factory = postgres.NewGormUnitOfWorkFactory(pg.DB)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.uows = func() commands.UoW { return suite.factory.Create() }
	orderUoWs := funcOrderUoWFactory(func() commands.OrderUoW { return suite.factory.Create() })
	courierUoWs := funcCourierUoWFactory(func() commands.CourierUoW { return suite.factory.Create() })

	suite.createOrder = commands.NewCreateOrderCommandHandler(orderUoWs)
	suite.register = commands.NewRegisterPaymentCommandHandler(suite.uows)
	suite.advance = commands.NewAdvanceOrderCommandHandler(suite.uows, commands.DefaultReleaseMaxAttempts)
	suite.assign = commands.NewAssignCourierCommandHandler(suite.uows,
		commands.DefaultDispatchMaxAttempts, commands.DefaultReleaseMaxAttempts, logger)
	suite.createCour = commands.NewCreateCourierCommandHandler(courierUoWs)
	suite.presence = commands.NewSetCourierPresenceCommandHandler(courierUoWs)
}

func (suite *DispatchTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *DispatchTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate(postgres.Tables()...))
}

// onlineCourier registers a courier and puts it on shift.
func (suite *DispatchTestSuite) onlineCourier(name string) kernel.UUID {
	ctx := context.Background()
	id := kernel.NewUUID()

	create, err := commands.NewCreateCourierCommand(id, kernel.NewUUID(), name)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.createCour.Handle(ctx, create))

	online, err := commands.NewSetCourierPresenceCommand(id, true)
	suite.Require().NoError(err)
	availability, err := suite.presence.Handle(ctx, online)
	suite.Require().NoError(err)
	suite.Require().Equal(courier.Free, availability)

	return id
}

// preparingOrder places a cash order and lets the restaurant accept it.
func (suite *DispatchTestSuite) preparingOrder() kernel.UUID {
	ctx := context.Background()
	id := kernel.NewUUID()

	item, err := order.NewItem(kernel.NewUUID(), 1, 900)
	suite.Require().NoError(err)
	create, err := commands.NewCreateOrderCommand(id, kernel.NewUUID(), kernel.NewUUID(), []order.Item{item}, 900)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.createOrder.Handle(ctx, create))

	pay, err := commands.NewRegisterPaymentCommand(kernel.NewUUID(), id, payment.Cash)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.register.Handle(ctx, pay))

	accept, err := commands.NewAdvanceOrderCommand(id, order.RestaurantAccepted)
	suite.Require().NoError(err)
	status, err := suite.advance.Handle(ctx, accept)
	suite.Require().NoError(err)
	suite.Require().Equal(order.Preparing, status)

	return id
}

func (suite *DispatchTestSuite) dispatch(orderID kernel.UUID) (kernel.UUID, error) {
	cmd, err := commands.NewAssignCourierCommand(orderID)
	suite.Require().NoError(err)
	return suite.assign.Handle(context.Background(), cmd)
}

// runTogether starts every fn at once and waits for all of them.
func runTogether(fns ...func()) {
	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, fn := range fns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			fn()
		}()
	}
	close(start)
	wg.Wait()
}

// dispatchAll puts the couriers on shift, prepares the orders and dispatches them all
// at once.
func (suite *DispatchTestSuite) dispatchAll(couriers, orders int) (map[kernel.UUID]kernel.UUID, []error) {
	for i := range couriers {
		suite.onlineCourier(string(rune('A' + i)))
	}
	orderIDs := make([]kernel.UUID, 0, orders)
	for range orders {
		orderIDs = append(orderIDs, suite.preparingOrder())
	}

	var mu sync.Mutex
	assigned := make(map[kernel.UUID]kernel.UUID)
	var failures []error

	fns := make([]func(), 0, orders)
	for _, orderID := range orderIDs {
		fns = append(fns, func() {
			courierID, err := suite.dispatch(orderID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			assigned[orderID] = courierID
		})
	}
	runTogether(fns...)

	return assigned, failures
}

// requireDistinctReservations checks every assignment against the stored rows.
func (suite *DispatchTestSuite) requireDistinctReservations(assigned map[kernel.UUID]kernel.UUID) {
	ctx := context.Background()
	taken := make(map[kernel.UUID]kernel.UUID)
	repos := suite.factory.Create()
	for orderID, courierID := range assigned {
		other, dup := taken[courierID]
		suite.Falsef(dup, "courier %s assigned to %s and %s", courierID, other, orderID)
		taken[courierID] = orderID

		o, err := repos.OrderRepository().Get(ctx, orderID)
		suite.Require().NoError(err)
		suite.Equal(order.OnTheWay, o.Status())
		suite.Equal(courierID, *o.Courier())

		c, err := repos.CourierRepository().Get(ctx, courierID)
		suite.Require().NoError(err)
		suite.True(c.IsReservedFor(orderID))
	}

	free, err := repos.CourierRepository().GetAllFree(ctx)
	suite.Require().NoError(err)
	suite.Empty(free)
}

func (suite *DispatchTestSuite) TestConcurrentDispatch_NoCourierIsBookedTwice() {
	const couriers, orders = 3, 6

	assigned, failures := suite.dispatchAll(couriers, orders)

	suite.Len(assigned, couriers)
	suite.Len(failures, orders-couriers)
	for _, err := range failures {
		suite.Require().ErrorIs(err, errs.ErrNoCourierAvailable)
	}
	suite.requireDistinctReservations(assigned)
}

func (suite *DispatchTestSuite) TestConcurrentDispatch_PoolLargerThanReadBudget() {
	const couriers = commands.DefaultDispatchMaxAttempts + 3

	assigned, failures := suite.dispatchAll(couriers, couriers)

	suite.Empty(failures)
	suite.Len(assigned, couriers)
	suite.requireDistinctReservations(assigned)
}

func (suite *DispatchTestSuite) TestConcurrentDispatch_SameOrderGetsOneCourier() {
	ctx := context.Background()
	suite.onlineCourier("A")
	suite.onlineCourier("B")
	orderID := suite.preparingOrder()

	results := make([]kernel.UUID, 2)
	failures := make([]error, 2)
	runTogether(
		func() { results[0], failures[0] = suite.dispatch(orderID) },
		func() { results[1], failures[1] = suite.dispatch(orderID) },
	)

	var winner kernel.UUID
	for i := range results {
		if failures[i] != nil {
			suite.Require().ErrorIs(failures[i], errs.ErrStaleState)
			continue
		}
		if winner.IsEqual(kernel.UUID{}) {
			winner = results[i]
		}
		suite.Equal(winner, results[i])
	}
	suite.Require().False(winner.IsEqual(kernel.UUID{}))

	repos := suite.factory.Create()
	busy, err := repos.CourierRepository().GetAllBusy(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(busy, 1)
	suite.Equal(winner, busy[0].ID())

	o, err := repos.OrderRepository().Get(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(winner, *o.Courier())
}

func (suite *DispatchTestSuite) TestConcurrentAdvance_ExactlyOneWins() {
	ctx := context.Background()
	courierID := suite.onlineCourier("A")
	orderID := suite.preparingOrder()
	_, err := suite.dispatch(orderID)
	suite.Require().NoError(err)

	confirm, err := commands.NewAdvanceOrderCommand(orderID, order.DeliveryConfirmed)
	suite.Require().NoError(err)

	results := make([]error, 2)
	runTogether(
		func() { _, results[0] = suite.advance.Handle(ctx, confirm) },
		func() { _, results[1] = suite.advance.Handle(ctx, confirm) },
	)

	wins := 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, errs.ErrStaleState), errors.Is(err, errs.ErrInvalidTransition):
		default:
			suite.Failf("unexpected error", "%v", err)
		}
	}
	suite.Equal(1, wins)

	repos := suite.factory.Create()
	o, err := repos.OrderRepository().Get(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(order.Delivered, o.Status())

	c, err := repos.CourierRepository().Get(ctx, courierID)
	suite.Require().NoError(err)
	suite.Equal(courier.Free, c.Availability())
	suite.Equal(1, c.CompletedDeliveries())
}
