package rabbitmq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUpdater struct{ mock.Mock }

func (m *mockUpdater) Handle(ctx context.Context, cmd commands.ApplyPaymentUpdateCommand) (commands.PaymentUpdateAck, error) {
	args := m.Called(ctx, cmd.PaymentID(), cmd.Status(), cmd.TransactionID())
	return args.Get(0).(commands.PaymentUpdateAck), args.Error(1)
}

type mockChannel struct{ mock.Mock }

func (m *mockChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	ret := m.Called(name, durable, autoDelete, exclusive, noWait, args)
	return amqp.Queue{Name: name}, ret.Error(0)
}

func (m *mockChannel) Qos(prefetchCount, prefetchSize int, global bool) error {
	return m.Called(prefetchCount, prefetchSize, global).Error(0)
}

func (m *mockChannel) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table,
) (<-chan amqp.Delivery, error) {
	ret := m.Called(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(<-chan amqp.Delivery), ret.Error(1)
}

// recordingAcknowledger remembers how a delivery was settled.
type recordingAcknowledger struct {
	mu      sync.Mutex
	acked   int
	nacked  int
	requeue []bool
}

func (a *recordingAcknowledger) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked++
	return nil
}

func (a *recordingAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked++
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func newConsumer(t *testing.T, updater *mockUpdater, staleRetry int) *PaymentConsumer {
	t.Helper()
	c, err := NewPaymentConsumer(new(mockChannel), "payments.updates", updater, staleRetry,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func delivery(ack amqp.Acknowledger, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

func TestPaymentConsumer_AcksAppliedUpdate(t *testing.T) {
	updater := new(mockUpdater)
	paymentID := kernel.NewUUID()
	updater.On("Handle", mock.Anything, paymentID, payment.Paid, "tx-1").
		Return(commands.PaymentUpdateAck{PaymentID: paymentID, Status: payment.Paid}, nil).Once()

	ack := &recordingAcknowledger{}
	newConsumer(t, updater, 3).handle(context.Background(),
		delivery(ack, `{"payment_id":"`+paymentID.String()+`","status":"paid","transaction_id":"tx-1"}`))

	assert.Equal(t, 1, ack.acked)
	assert.Zero(t, ack.nacked)
	updater.AssertExpectations(t)
}

func TestPaymentConsumer_AcksMismatch(t *testing.T) {
	updater := new(mockUpdater)
	paymentID := kernel.NewUUID()
	updater.On("Handle", mock.Anything, paymentID, payment.Paid, "").
		Return(commands.PaymentUpdateAck{
			PaymentID: paymentID,
			Status:    payment.Paid,
			Flagged:   true,
			Mismatch:  errs.NewPaymentMismatchError(paymentID.String(), kernel.NewUUID().String(), "delivered"),
		}, nil).Once()

	ack := &recordingAcknowledger{}
	newConsumer(t, updater, 3).handle(context.Background(),
		delivery(ack, `{"payment_id":"`+paymentID.String()+`","status":"paid"}`))

	assert.Equal(t, 1, ack.acked)
}

func TestPaymentConsumer_RetriesStaleState(t *testing.T) {
	updater := new(mockUpdater)
	paymentID := kernel.NewUUID()
	stale := errs.NewStaleStateError("payment", paymentID.String(), "version 1")
	updater.On("Handle", mock.Anything, paymentID, payment.Failed, "").
		Return(commands.PaymentUpdateAck{}, stale).Once()
	updater.On("Handle", mock.Anything, paymentID, payment.Failed, "").
		Return(commands.PaymentUpdateAck{PaymentID: paymentID, Status: payment.Failed, OrderCancelled: true}, nil).Once()

	ack := &recordingAcknowledger{}
	newConsumer(t, updater, 3).handle(context.Background(),
		delivery(ack, `{"payment_id":"`+paymentID.String()+`","status":"failed"}`))

	assert.Equal(t, 1, ack.acked)
	updater.AssertNumberOfCalls(t, "Handle", 2)
}

func TestPaymentConsumer_RequeuesWhenStaleOutlivesRetries(t *testing.T) {
	updater := new(mockUpdater)
	paymentID := kernel.NewUUID()
	updater.On("Handle", mock.Anything, paymentID, payment.Failed, "").
		Return(commands.PaymentUpdateAck{}, errs.NewStaleStateError("payment", paymentID.String(), "version 1"))

	ack := &recordingAcknowledger{}
	newConsumer(t, updater, 2).handle(context.Background(),
		delivery(ack, `{"payment_id":"`+paymentID.String()+`","status":"failed"}`))

	assert.Equal(t, 1, ack.nacked)
	assert.Equal(t, []bool{true}, ack.requeue)
	updater.AssertNumberOfCalls(t, "Handle", 2)
}

func TestPaymentConsumer_Rejections(t *testing.T) {
	paymentID := kernel.NewUUID()

	tests := []struct {
		name    string
		body    string
		handErr error
		requeue bool
	}{
		{name: "malformed json", body: `{"payment_id":`},
		{name: "bad payment id", body: `{"payment_id":"nope","status":"paid"}`},
		{name: "unknown status", body: `{"payment_id":"` + paymentID.String() + `","status":"refunded"}`},
		{
			name:    "unknown payment",
			body:    `{"payment_id":"` + paymentID.String() + `","status":"paid"}`,
			handErr: errs.NewObjectNotFoundError("payment", paymentID.String()),
		},
		{
			name:    "illegal transition",
			body:    `{"payment_id":"` + paymentID.String() + `","status":"paid"}`,
			handErr: errs.NewInvalidTransitionError("payment", "failed", "paid"),
		},
		{
			name:    "database down",
			body:    `{"payment_id":"` + paymentID.String() + `","status":"paid"}`,
			handErr: errors.New("connection refused"),
			requeue: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updater := new(mockUpdater)
			if tt.handErr != nil {
				updater.On("Handle", mock.Anything, paymentID, payment.Paid, "").
					Return(commands.PaymentUpdateAck{}, tt.handErr).Once()
			}

			ack := &recordingAcknowledger{}
			newConsumer(t, updater, 3).handle(context.Background(), delivery(ack, tt.body))

			assert.Zero(t, ack.acked)
			assert.Equal(t, []bool{tt.requeue}, ack.requeue)
			updater.AssertExpectations(t)
		})
	}
}

func TestPaymentConsumer_Run(t *testing.T) {
	ch := new(mockChannel)
	updater := new(mockUpdater)
	paymentID := kernel.NewUUID()
	deliveries := make(chan amqp.Delivery, 1)

	ch.On("QueueDeclare", "payments.updates", true, false, false, false, amqp.Table(nil)).Return(nil)
	ch.On("Qos", defaultPrefetch, 0, false).Return(nil)
	ch.On("Consume", "payments.updates", "", false, false, false, false, amqp.Table(nil)).
		Return((<-chan amqp.Delivery)(deliveries), nil)

	handled := make(chan struct{})
	updater.On("Handle", mock.Anything, paymentID, payment.Paid, "").
		Run(func(mock.Arguments) { close(handled) }).
		Return(commands.PaymentUpdateAck{PaymentID: paymentID, Status: payment.Paid}, nil).Once()

	consumer, err := NewPaymentConsumer(ch, "payments.updates", updater, 3,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()

	ack := &recordingAcknowledger{}
	deliveries <- delivery(ack, `{"payment_id":"`+paymentID.String()+`","status":"paid"}`)

	select {
	case <-handled:
	case <-time.After(5 * time.Second):
		t.Fatal("delivery was not handled")
	}

	cancel()
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}

	ack.mu.Lock()
	defer ack.mu.Unlock()
	assert.Equal(t, 1, ack.acked)
	ch.AssertExpectations(t)
}

func TestPaymentConsumer_RunStopsWhenBrokerClosesChannel(t *testing.T) {
	ch := new(mockChannel)
	deliveries := make(chan amqp.Delivery)
	close(deliveries)

	ch.On("QueueDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ch.On("Qos", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ch.On("Consume", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return((<-chan amqp.Delivery)(deliveries), nil)

	consumer, err := NewPaymentConsumer(ch, "payments.updates", new(mockUpdater), 3,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	err = consumer.Run(context.Background())

	require.ErrorIs(t, err, amqp.ErrClosed)
}
