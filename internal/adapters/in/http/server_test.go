package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/generated/servers"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCreateOrder struct{ mock.Mock }

func (m *mockCreateOrder) Handle(_ context.Context, cmd commands.CreateOrderCommand) error {
	return m.Called(cmd.Total(), len(cmd.Items())).Error(0)
}

type mockGetOrder struct{ mock.Mock }

func (m *mockGetOrder) Handle(_ context.Context, query queries.GetOrderQuery) (*queries.GetOrderQueryResponse, error) {
	args := m.Called(query.OrderID())
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.GetOrderQueryResponse), args.Error(1)
}

type mockAdvance struct{ mock.Mock }

func (m *mockAdvance) Handle(_ context.Context, cmd commands.AdvanceOrderCommand) (order.Status, error) {
	args := m.Called(cmd.OrderID(), cmd.Event(), cmd.ExpectedStatus())
	return args.Get(0).(order.Status), args.Error(1)
}

type mockAssign struct{ mock.Mock }

func (m *mockAssign) Handle(_ context.Context, cmd commands.AssignCourierCommand) (kernel.UUID, error) {
	args := m.Called(cmd.OrderID())
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type mockCreateCourier struct{ mock.Mock }

func (m *mockCreateCourier) Handle(_ context.Context, cmd commands.CreateCourierCommand) error {
	return m.Called(cmd.UserID(), cmd.Name()).Error(0)
}

type mockGetCourier struct{ mock.Mock }

func (m *mockGetCourier) Handle(_ context.Context, query queries.GetCourierQuery) (*queries.GetCourierQueryResponse, error) {
	args := m.Called(query.CourierID())
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.GetCourierQueryResponse), args.Error(1)
}

type mockPresence struct{ mock.Mock }

func (m *mockPresence) Handle(_ context.Context, cmd commands.SetCourierPresenceCommand) (courier.Availability, error) {
	args := m.Called(cmd.CourierID(), cmd.Online())
	return args.Get(0).(courier.Availability), args.Error(1)
}

type mockRelease struct{ mock.Mock }

func (m *mockRelease) Handle(_ context.Context, cmd commands.ReleaseCourierCommand) error {
	return m.Called(cmd.CourierID()).Error(0)
}

type mockRegisterPayment struct{ mock.Mock }

func (m *mockRegisterPayment) Handle(_ context.Context, cmd commands.RegisterPaymentCommand) error {
	return m.Called(cmd.OrderID(), cmd.Method()).Error(0)
}

type mockApplyPayment struct{ mock.Mock }

func (m *mockApplyPayment) Handle(_ context.Context, cmd commands.ApplyPaymentUpdateCommand) (commands.PaymentUpdateAck, error) {
	args := m.Called(cmd.PaymentID(), cmd.Status(), cmd.TransactionID())
	return args.Get(0).(commands.PaymentUpdateAck), args.Error(1)
}

type fixture struct {
	echo *echo.Echo

	createOrder     *mockCreateOrder
	getOrder        *mockGetOrder
	advance         *mockAdvance
	assign          *mockAssign
	createCourier   *mockCreateCourier
	getCourier      *mockGetCourier
	presence        *mockPresence
	release         *mockRelease
	registerPayment *mockRegisterPayment
	applyPayment    *mockApplyPayment
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		echo:            echo.New(),
		createOrder:     new(mockCreateOrder),
		getOrder:        new(mockGetOrder),
		advance:         new(mockAdvance),
		assign:          new(mockAssign),
		createCourier:   new(mockCreateCourier),
		getCourier:      new(mockGetCourier),
		presence:        new(mockPresence),
		release:         new(mockRelease),
		registerPayment: new(mockRegisterPayment),
		applyPayment:    new(mockApplyPayment),
	}

	server := api.NewServer(api.Handlers{
		CreateOrder:        f.createOrder,
		GetOrder:           f.getOrder,
		AdvanceOrder:       f.advance,
		AssignCourier:      f.assign,
		CreateCourier:      f.createCourier,
		GetCourier:         f.getCourier,
		SetCourierPresence: f.presence,
		ReleaseCourier:     f.release,
		RegisterPayment:    f.registerPayment,
		ApplyPaymentUpdate: f.applyPayment,
	}, 3)
	require.NoError(t, server.Register(f.echo))

	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	rec := newFixture(t).do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	f.createOrder.On("Handle", kernel.Money(1300), 2).Return(nil).Once()

	body := `{
		"customer_id": "` + kernel.NewUUID().String() + `",
		"restaurant_id": "` + kernel.NewUUID().String() + `",
		"items": [
			{"menu_item_id": "` + kernel.NewUUID().String() + `", "quantity": 2, "unit_price": 500},
			{"menu_item_id": "` + kernel.NewUUID().String() + `", "quantity": 1, "unit_price": 300}
		],
		"total": 1300
	}`
	rec := f.do(http.MethodPost, "/api/v1/orders", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[servers.Created](t, rec)
	_, err := kernel.UUIDFromBytes(created.Id[:])
	require.NoError(t, err)
	f.createOrder.AssertExpectations(t)
}

func TestCreateOrder_Rejections(t *testing.T) {
	customer := kernel.NewUUID().String()
	restaurant := kernel.NewUUID().String()
	menu := kernel.NewUUID().String()

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "not json", body: `{`, code: http.StatusBadRequest},
		{name: "bad customer", body: `{"customer_id":"x","restaurant_id":"` + restaurant + `"}`, code: http.StatusBadRequest},
		{
			name: "zero quantity",
			body: `{"customer_id":"` + customer + `","restaurant_id":"` + restaurant +
				`","items":[{"menu_item_id":"` + menu + `","quantity":0,"unit_price":100}],"total":0}`,
			code: http.StatusUnprocessableEntity,
		},
		{
			name: "no items",
			body: `{"customer_id":"` + customer + `","restaurant_id":"` + restaurant + `","items":[],"total":0}`,
			code: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(http.MethodPost, "/api/v1/orders", tt.body)

			assert.Equal(t, tt.code, rec.Code)
			f.createOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateOrder_TotalMismatch(t *testing.T) {
	f := newFixture(t)
	f.createOrder.On("Handle", kernel.Money(1200), 1).
		Return(errs.NewValueIsInvalidErrorWithCause("total", errors.New("1200 does not match 1300"))).Once()

	body := `{"customer_id":"` + kernel.NewUUID().String() + `","restaurant_id":"` + kernel.NewUUID().String() +
		`","items":[{"menu_item_id":"` + kernel.NewUUID().String() + `","quantity":1,"unit_price":1300}],"total":1200}`
	rec := f.do(http.MethodPost, "/api/v1/orders", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, decode[servers.Error](t, rec).Code)
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t)
	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	menuID := kernel.NewUUID()
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.getOrder.On("Handle", orderID).Return(&queries.GetOrderQueryResponse{
		ID:           orderID,
		CustomerID:   kernel.NewUUID(),
		RestaurantID: kernel.NewUUID(),
		Status:       "on_the_way",
		CourierID:    &courierID,
		Total:        1300,
		CreatedAt:    createdAt,
		Items:        []queries.GetOrderQueryItem{{MenuItemID: menuID, Quantity: 2, UnitPrice: 650}},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/"+orderID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[servers.Order](t, rec)
	assert.Equal(t, orderID.Bytes(), got.Id)
	assert.Equal(t, "on_the_way", got.Status)
	require.NotNil(t, got.CourierId)
	assert.Equal(t, courierID.Bytes(), *got.CourierId)
	assert.Equal(t, int64(1300), got.Total)
	assert.True(t, createdAt.Equal(got.CreatedAt))
	require.Len(t, got.Items, 1)
	assert.Equal(t, menuID.Bytes(), got.Items[0].MenuItemId)
}

func TestGetOrder_Errors(t *testing.T) {
	t.Run("bad id", func(t *testing.T) {
		rec := newFixture(t).do(http.MethodGet, "/api/v1/orders/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		orderID := kernel.NewUUID()
		f.getOrder.On("Handle", orderID).Return(nil, errs.NewObjectNotFoundError("order", orderID.String()))

		rec := f.do(http.MethodGet, "/api/v1/orders/"+orderID.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("database error is hidden", func(t *testing.T) {
		f := newFixture(t)
		orderID := kernel.NewUUID()
		f.getOrder.On("Handle", orderID).Return(nil, errors.New("pq: connection refused"))

		rec := f.do(http.MethodGet, "/api/v1/orders/"+orderID.String(), "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestAdvanceOrder(t *testing.T) {
	f := newFixture(t)
	orderID := kernel.NewUUID()
	expected := order.Preparing
	f.advance.On("Handle", orderID, order.CancellationRequested, &expected).Return(order.Cancelled, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/events",
		`{"event":"cancellation_requested","expected_status":"preparing"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, servers.OrderStatus{Id: orderID.Bytes(), Status: "cancelled"}, decode[servers.OrderStatus](t, rec))
}

func TestAdvanceOrder_ErrorMapping(t *testing.T) {
	orderID := kernel.NewUUID()

	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "invalid transition", err: errs.NewInvalidTransitionError("order", "delivered", "delivery_failed"), code: http.StatusConflict},
		{name: "stale", err: errs.NewStaleStateError("order", orderID.String(), "preparing"), code: http.StatusConflict},
		{name: "missing", err: errs.NewObjectNotFoundError("order", orderID.String()), code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.advance.On("Handle", orderID, order.DeliveryFailed, (*order.Status)(nil)).Return(order.Unknown, tt.err)

			rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/events", `{"event":"delivery_failed"}`)

			assert.Equal(t, tt.code, rec.Code)
		})
	}

	t.Run("unknown event", func(t *testing.T) {
		rec := newFixture(t).do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/events", `{"event":"teleported"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestDispatchOrder(t *testing.T) {
	f := newFixture(t)
	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	f.assign.On("Handle", orderID).Return(courierID, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/dispatch", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, servers.Dispatch{OrderId: orderID.Bytes(), CourierId: courierID.Bytes()}, decode[servers.Dispatch](t, rec))
}

func TestDispatchOrder_NoCourierAvailable(t *testing.T) {
	f := newFixture(t)
	orderID := kernel.NewUUID()
	f.assign.On("Handle", orderID).Return(kernel.UUID{}, errs.NewNoCourierAvailableError(orderID.String(), 0))

	rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/dispatch", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateCourier(t *testing.T) {
	f := newFixture(t)
	userID := kernel.NewUUID()
	f.createCourier.On("Handle", userID, "Anna").Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/couriers", `{"user_id":"`+userID.String()+`","name":"Anna"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEqual(t, uuid.Nil, decode[servers.Created](t, rec).Id)
}

func TestCreateCourier_BlankName(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/couriers", `{"user_id":"`+kernel.NewUUID().String()+`","name":"  "}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetCourier(t *testing.T) {
	f := newFixture(t)
	courierID := kernel.NewUUID()
	f.getCourier.On("Handle", courierID).Return(&queries.GetCourierQueryResponse{
		ID:                  courierID,
		UserID:              kernel.NewUUID(),
		Name:                "Anna",
		Availability:        "free",
		CompletedDeliveries: 4,
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/couriers/"+courierID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[servers.Courier](t, rec)
	assert.Equal(t, "free", got.Availability)
	assert.Nil(t, got.ActiveOrderId)
	assert.Equal(t, 4, got.CompletedDeliveries)
}

func TestSetCourierPresence(t *testing.T) {
	f := newFixture(t)
	courierID := kernel.NewUUID()
	f.presence.On("Handle", courierID, true).Return(courier.Free, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/couriers/"+courierID.String()+"/presence", `{"online":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "free", decode[servers.CourierAvailability](t, rec).Availability)
}

func TestSetCourierPresence_BusyCannotGoOffline(t *testing.T) {
	f := newFixture(t)
	courierID := kernel.NewUUID()
	f.presence.On("Handle", courierID, false).
		Return(courier.Busy, errs.NewInvalidTransitionError("courier", "busy", "go_offline"))

	rec := f.do(http.MethodPost, "/api/v1/couriers/"+courierID.String()+"/presence", `{"online":false}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReleaseCourier(t *testing.T) {
	f := newFixture(t)
	courierID := kernel.NewUUID()
	f.release.On("Handle", courierID).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/couriers/"+courierID.String()+"/release", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRegisterPayment(t *testing.T) {
	f := newFixture(t)
	orderID := kernel.NewUUID()
	f.registerPayment.On("Handle", orderID, payment.Wallet).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/payments", `{"order_id":"`+orderID.String()+`","method":"wallet"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEqual(t, uuid.Nil, decode[servers.Created](t, rec).Id)
}

func TestRegisterPayment_UnknownMethod(t *testing.T) {
	rec := newFixture(t).do(http.MethodPost, "/api/v1/payments",
		`{"order_id":"`+kernel.NewUUID().String()+`","method":"barter"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestApplyPaymentUpdate(t *testing.T) {
	f := newFixture(t)
	paymentID := kernel.NewUUID()
	f.applyPayment.On("Handle", paymentID, payment.Failed, "tx-7").
		Return(commands.PaymentUpdateAck{PaymentID: paymentID, Status: payment.Failed, OrderCancelled: true}, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/payments/"+paymentID.String()+"/status",
		`{"status":"failed","transaction_id":"tx-7"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[servers.PaymentUpdateAck](t, rec)
	assert.Equal(t, "failed", got.Status)
	assert.True(t, got.OrderCancelled)
	assert.Nil(t, got.Mismatch)
}

func TestApplyPaymentUpdate_RetriesStaleState(t *testing.T) {
	f := newFixture(t)
	paymentID := kernel.NewUUID()
	f.applyPayment.On("Handle", paymentID, payment.Paid, "").
		Return(commands.PaymentUpdateAck{}, errs.NewStaleStateError("payment", paymentID.String(), "version 1")).Once()
	f.applyPayment.On("Handle", paymentID, payment.Paid, "").
		Return(commands.PaymentUpdateAck{PaymentID: paymentID, Status: payment.Paid}, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/payments/"+paymentID.String()+"/status", `{"status":"paid"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	f.applyPayment.AssertNumberOfCalls(t, "Handle", 2)
}

func TestApplyPaymentUpdate_ReportsMismatch(t *testing.T) {
	f := newFixture(t)
	paymentID := kernel.NewUUID()
	mismatch := errs.NewPaymentMismatchError(paymentID.String(), kernel.NewUUID().String(), "delivered")
	f.applyPayment.On("Handle", paymentID, payment.Paid, "").
		Return(commands.PaymentUpdateAck{PaymentID: paymentID, Status: payment.Paid, Flagged: true, Mismatch: mismatch}, nil)

	rec := f.do(http.MethodPost, "/api/v1/payments/"+paymentID.String()+"/status", `{"status":"paid"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[servers.PaymentUpdateAck](t, rec)
	assert.True(t, got.Flagged)
	require.NotNil(t, got.Mismatch)
	assert.Equal(t, mismatch.Error(), *got.Mismatch)
}

func TestRequestValidation(t *testing.T) {
	courierID := kernel.NewUUID().String()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "missing required field", method: http.MethodPost, path: "/api/v1/couriers", body: `{"name":"Anna"}`},
		{name: "wrong field type", method: http.MethodPost, path: "/api/v1/couriers/" + courierID + "/presence", body: `{"online":"yes"}`},
		{name: "missing body", method: http.MethodPost, path: "/api/v1/payments/" + courierID + "/status"},
		{name: "malformed path id", method: http.MethodGet, path: "/api/v1/couriers/42"},
		{name: "nil path id", method: http.MethodPost, path: "/api/v1/orders/" + uuid.Nil.String() + "/dispatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			f.createCourier.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
			f.presence.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
			f.applyPayment.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything, mock.Anything)
			f.getCourier.AssertNotCalled(t, "Handle", mock.Anything)
			f.assign.AssertNotCalled(t, "Handle", mock.Anything)
		})
	}
}

func TestSwaggerDocs(t *testing.T) {
	rec := newFixture(t).do(http.MethodGet, "/swagger/doc.json", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/api/v1/payments/{paymentId}/status")
}
