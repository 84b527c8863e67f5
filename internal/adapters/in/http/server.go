// Package http exposes the order lifecycle, dispatch and payment reconciliation over a
// JSON API built on echo.
package http

import (
	"context"
	"fmt"
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/generated/servers"
	"fooddelivery/internal/pkg/retry"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type (
	createOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	getOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (*queries.GetOrderQueryResponse, error)
	}
	advanceOrderHandler interface {
		Handle(ctx context.Context, cmd commands.AdvanceOrderCommand) (order.Status, error)
	}
	assignCourierHandler interface {
		Handle(ctx context.Context, cmd commands.AssignCourierCommand) (kernel.UUID, error)
	}
	createCourierHandler interface {
		Handle(ctx context.Context, cmd commands.CreateCourierCommand) error
	}
	getCourierHandler interface {
		Handle(ctx context.Context, query queries.GetCourierQuery) (*queries.GetCourierQueryResponse, error)
	}
	setCourierPresenceHandler interface {
		Handle(ctx context.Context, cmd commands.SetCourierPresenceCommand) (courier.Availability, error)
	}
	releaseCourierHandler interface {
		Handle(ctx context.Context, cmd commands.ReleaseCourierCommand) error
	}
	registerPaymentHandler interface {
		Handle(ctx context.Context, cmd commands.RegisterPaymentCommand) error
	}
	applyPaymentUpdateHandler interface {
		Handle(ctx context.Context, cmd commands.ApplyPaymentUpdateCommand) (commands.PaymentUpdateAck, error)
	}
)

// Handlers groups the use cases the server delegates to.
type Handlers struct {
	CreateOrder        createOrderHandler
	GetOrder           getOrderHandler
	AdvanceOrder       advanceOrderHandler
	AssignCourier      assignCourierHandler
	CreateCourier      createCourierHandler
	GetCourier         getCourierHandler
	SetCourierPresence setCourierPresenceHandler
	ReleaseCourier     releaseCourierHandler
	RegisterPayment    registerPaymentHandler
	ApplyPaymentUpdate applyPaymentUpdateHandler
}

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the generated ServerInterface by translating requests into
// commands and queries.
type Server struct {
	handlers   Handlers
	staleRetry int
}

// NewServer creates the server. staleRetry bounds how often a payment webhook is
// retried after losing a concurrent write.
func NewServer(handlers Handlers, staleRetry int) *Server {
	return &Server{
		handlers:   handlers,
		staleRetry: staleRetry,
	}
}

// Register mounts the health check, the API routes behind request validation and
// the OpenAPI document with its Swagger UI under /swagger.
func (s *Server) Register(e *echo.Echo) error {
	doc, err := servers.GetSwagger()
	if err != nil {
		return fmt.Errorf("load openapi document: %w", err)
	}
	if err = registerDocs(doc); err != nil {
		return err
	}
	validator, err := requestValidator(doc)
	if err != nil {
		return err
	}

	e.GET("/health", s.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Use(validator)
	servers.RegisterHandlers(e, s)
	return nil
}

func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req servers.CreateOrderJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customerID, err := fromAPI(req.CustomerId)
	if err != nil {
		return badRequest(ctx, "Invalid customer_id")
	}
	restaurantID, err := fromAPI(req.RestaurantId)
	if err != nil {
		return badRequest(ctx, "Invalid restaurant_id")
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, line := range req.Items {
		menuItemID, idErr := fromAPI(line.MenuItemId)
		if idErr != nil {
			return badRequest(ctx, "Invalid menu_item_id")
		}
		item, itemErr := order.NewItem(menuItemID, line.Quantity, kernel.Money(line.UnitPrice))
		if itemErr != nil {
			return fail(ctx, itemErr)
		}
		items = append(items, item)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, restaurantID, items, kernel.Money(req.Total))
	if err != nil {
		return fail(ctx, err)
	}

	if err = s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.Created{Id: orderID.Bytes()})
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, id servers.OrderId) error {
	orderID, err := fromAPI(id)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return fail(ctx, err)
	}

	o, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	response := servers.Order{
		Id:             o.ID.Bytes(),
		CustomerId:     o.CustomerID.Bytes(),
		RestaurantId:   o.RestaurantID.Bytes(),
		Status:         o.Status,
		CourierId:      toAPI(o.CourierID),
		Total:          o.Total.Int64(),
		RefundRequired: o.RefundRequired,
		CreatedAt:      o.CreatedAt,
		Items:          make([]servers.OrderItem, len(o.Items)),
	}
	for i, item := range o.Items {
		response.Items[i] = servers.OrderItem{
			MenuItemId: item.MenuItemID.Bytes(),
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.Int64(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// AdvanceOrder handles POST /api/v1/orders/{orderId}/events.
func (s *Server) AdvanceOrder(ctx echo.Context, id servers.OrderId) error {
	orderID, err := fromAPI(id)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req servers.AdvanceOrderJSONRequestBody
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	event, err := order.ParseEvent(req.Event)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewAdvanceOrderCommand(orderID, event)
	if err != nil {
		return fail(ctx, err)
	}

	if req.ExpectedStatus != nil {
		expected, parseErr := order.ParseStatus(*req.ExpectedStatus)
		if parseErr != nil {
			return fail(ctx, parseErr)
		}
		cmd = cmd.WithExpectedStatus(expected)
	}

	if req.CourierId != nil {
		courierID, idErr := fromAPI(*req.CourierId)
		if idErr != nil {
			return badRequest(ctx, "Invalid courier_id")
		}
		cmd = cmd.WithCourier(courierID)
	}

	status, err := s.handlers.AdvanceOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.OrderStatus{Id: id, Status: status.String()})
}

// DispatchOrder handles POST /api/v1/orders/{orderId}/dispatch.
func (s *Server) DispatchOrder(ctx echo.Context, id servers.OrderId) error {
	orderID, err := fromAPI(id)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewAssignCourierCommand(orderID)
	if err != nil {
		return fail(ctx, err)
	}

	courierID, err := s.handlers.AssignCourier.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Dispatch{OrderId: id, CourierId: courierID.Bytes()})
}

// CreateCourier handles POST /api/v1/couriers.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var req servers.CreateCourierJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	userID, err := fromAPI(req.UserId)
	if err != nil {
		return badRequest(ctx, "Invalid user_id")
	}

	courierID := kernel.NewUUID()
	cmd, err := commands.NewCreateCourierCommand(courierID, userID, req.Name)
	if err != nil {
		return fail(ctx, err)
	}

	if err = s.handlers.CreateCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.Created{Id: courierID.Bytes()})
}

// GetCourier handles GET /api/v1/couriers/{courierId}.
func (s *Server) GetCourier(ctx echo.Context, id servers.CourierId) error {
	courierID, err := fromAPI(id)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	query, err := queries.NewGetCourierQuery(courierID)
	if err != nil {
		return fail(ctx, err)
	}

	c, err := s.handlers.GetCourier.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Courier{
		Id:                  c.ID.Bytes(),
		UserId:              c.UserID.Bytes(),
		Name:                c.Name,
		Availability:        c.Availability,
		ActiveOrderId:       toAPI(c.ActiveOrderID),
		CompletedDeliveries: c.CompletedDeliveries,
		IdleSince:           c.IdleSince,
	})
}

// SetCourierPresence handles POST /api/v1/couriers/{courierId}/presence.
func (s *Server) SetCourierPresence(ctx echo.Context, id servers.CourierId) error {
	courierID, err := fromAPI(id)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	var req servers.SetCourierPresenceJSONRequestBody
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetCourierPresenceCommand(courierID, req.Online)
	if err != nil {
		return fail(ctx, err)
	}

	availability, err := s.handlers.SetCourierPresence.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.CourierAvailability{Id: id, Availability: availability.String()})
}

// ReleaseCourier handles POST /api/v1/couriers/{courierId}/release. Releasing a
// courier that is already free succeeds.
func (s *Server) ReleaseCourier(ctx echo.Context, id servers.CourierId) error {
	courierID, err := fromAPI(id)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewReleaseCourierCommand(courierID)
	if err != nil {
		return fail(ctx, err)
	}

	if err = s.handlers.ReleaseCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegisterPayment handles POST /api/v1/payments.
func (s *Server) RegisterPayment(ctx echo.Context) error {
	var req servers.RegisterPaymentJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := fromAPI(req.OrderId)
	if err != nil {
		return badRequest(ctx, "Invalid order_id")
	}

	method, err := payment.ParseMethod(req.Method)
	if err != nil {
		return fail(ctx, err)
	}

	paymentID := kernel.NewUUID()
	cmd, err := commands.NewRegisterPaymentCommand(paymentID, orderID, method)
	if err != nil {
		return fail(ctx, err)
	}

	if err = s.handlers.RegisterPayment.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.Created{Id: paymentID.Bytes()})
}

// ApplyPaymentUpdate handles POST /api/v1/payments/{paymentId}/status, the provider
// webhook.
func (s *Server) ApplyPaymentUpdate(ctx echo.Context, id servers.PaymentId) error {
	paymentID, err := fromAPI(id)
	if err != nil {
		return badRequest(ctx, "Invalid payment id")
	}

	var req servers.ApplyPaymentUpdateJSONRequestBody
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, err := payment.ParseStatus(req.Status)
	if err != nil {
		return fail(ctx, err)
	}

	var transactionID string
	if req.TransactionId != nil {
		transactionID = *req.TransactionId
	}

	cmd, err := commands.NewApplyPaymentUpdateCommand(paymentID, status, transactionID)
	if err != nil {
		return fail(ctx, err)
	}

	reqCtx := ctx.Request().Context()
	var ack commands.PaymentUpdateAck
	err = retry.OnStale(reqCtx, s.staleRetry, func() error {
		var handleErr error
		ack, handleErr = s.handlers.ApplyPaymentUpdate.Handle(reqCtx, cmd)
		return handleErr
	})
	if err != nil {
		return fail(ctx, err)
	}

	response := servers.PaymentUpdateAck{
		PaymentId:      ack.PaymentID.Bytes(),
		Status:         ack.Status.String(),
		Duplicate:      ack.Duplicate,
		OrderCancelled: ack.OrderCancelled,
		Flagged:        ack.Flagged,
	}
	if ack.Mismatch != nil {
		mismatch := ack.Mismatch.Error()
		response.Mismatch = &mismatch
	}

	return ctx.JSON(http.StatusOK, response)
}

// fromAPI rejects the nil UUID, which the generated binding accepts.
func fromAPI(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func toAPI(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	googleUUID := id.Bytes()
	return &googleUUID
}
