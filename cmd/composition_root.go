package cmd

import (
	"log/slog"

	httpin "fooddelivery/internal/adapters/in/http"
	rabbitmqin "fooddelivery/internal/adapters/in/rabbitmq"
	"fooddelivery/internal/adapters/out/postgres"
	rabbitmqout "fooddelivery/internal/adapters/out/rabbitmq"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoW() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) outboxUoW() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(c.orderUoW())
	return &h
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() *commands.CreateCourierCommandHandler {
	h := commands.NewCreateCourierCommandHandler(c.courierUoW())
	return &h
}

func (c *CompositionRoot) CreateSetCourierPresenceCommandHandler() commands.SetCourierPresenceCommandHandler {
	return commands.NewSetCourierPresenceCommandHandler(c.courierUoW())
}

func (c *CompositionRoot) CreateRegisterPaymentCommandHandler() commands.RegisterPaymentCommandHandler {
	return commands.NewRegisterPaymentCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	return commands.NewAdvanceOrderCommandHandler(c.uow(), c.config.ReleaseMaxAttempts)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(
		c.uow(), c.config.DispatchMaxAttempts, c.config.ReleaseMaxAttempts, c.logger)
}

func (c *CompositionRoot) CreateReleaseCourierCommandHandler() commands.ReleaseCourierCommandHandler {
	return commands.NewReleaseCourierCommandHandler(c.uow(), c.config.ReleaseMaxAttempts)
}

func (c *CompositionRoot) CreateApplyPaymentUpdateCommandHandler() commands.ApplyPaymentUpdateCommandHandler {
	return commands.NewApplyPaymentUpdateCommandHandler(c.uow(), c.config.ReleaseMaxAttempts, c.logger)
}

func (c *CompositionRoot) CreateDispatchPendingOrdersCommandHandler() commands.DispatchPendingOrdersCommandHandler {
	return commands.NewDispatchPendingOrdersCommandHandler(
		c.orderUoW(), c.CreateAssignCourierCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateRecoverCouriersCommandHandler() commands.RecoverCouriersCommandHandler {
	return commands.NewRecoverCouriersCommandHandler(
		c.uow(), c.CreateReleaseCourierCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler(publisher ports.EventPublisher) commands.RelayOutboxCommandHandler {
	return commands.NewRelayOutboxCommandHandler(c.outboxUoW(), publisher)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierQueryHandler() queries.GetCourierQueryHandler {
	return queries.NewGetCourierQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		GetOrder:           c.CreateGetOrderQueryHandler(),
		AdvanceOrder:       c.CreateAdvanceOrderCommandHandler(),
		AssignCourier:      c.CreateAssignCourierCommandHandler(),
		CreateCourier:      c.CreateCreateCourierCommandHandler(),
		GetCourier:         c.CreateGetCourierQueryHandler(),
		SetCourierPresence: c.CreateSetCourierPresenceCommandHandler(),
		ReleaseCourier:     c.CreateReleaseCourierCommandHandler(),
		RegisterPayment:    c.CreateRegisterPaymentCommandHandler(),
		ApplyPaymentUpdate: c.CreateApplyPaymentUpdateCommandHandler(),
	}, c.config.StaleRetryMax)
}

func (c *CompositionRoot) CreateEventPublisher(ch rabbitmqout.Channel) (*rabbitmqout.Publisher, error) {
	return rabbitmqout.NewPublisher(ch, c.config.AMQPEventsExchange)
}

func (c *CompositionRoot) CreatePaymentConsumer(ch rabbitmqin.Channel) (*rabbitmqin.PaymentConsumer, error) {
	return rabbitmqin.NewPaymentConsumer(
		ch, c.config.AMQPPaymentQueue, c.CreateApplyPaymentUpdateCommandHandler(), c.config.StaleRetryMax, c.logger)
}

func (c *CompositionRoot) CreateJobManager(publisher ports.EventPublisher) *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewOutboxRelayJob(c.CreateRelayOutboxCommandHandler(publisher), c.config.OutboxRelaySchedule, 0, c.logger),
		jobs.NewDispatchRetryJob(c.CreateDispatchPendingOrdersCommandHandler(), c.config.DispatchRetrySchedule, 0, c.logger),
		jobs.NewCourierRecoveryJob(c.CreateRecoverCouriersCommandHandler(), c.config.CourierRecoverySchedule, c.logger),
	)
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
