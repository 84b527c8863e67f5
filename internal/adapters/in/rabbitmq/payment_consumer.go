// Package rabbitmq consumes payment provider callbacks from a RabbitMQ queue.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/retry"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultPrefetch = 10

// Channel is the part of *amqp.Channel the consumer needs.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type paymentUpdater interface {
	Handle(ctx context.Context, cmd commands.ApplyPaymentUpdateCommand) (commands.PaymentUpdateAck, error)
}

// PaymentUpdateMessage is the callback body.
type PaymentUpdateMessage struct {
	PaymentID     string `json:"payment_id"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

// PaymentConsumer feeds payment callbacks into ApplyPaymentUpdate.
//
// Messages are acknowledged manually. Malformed messages and updates the core refuses
// (unknown payment, illegal transition) are rejected without requeue; anything else,
// including stale state that outlived the retries, is requeued for another delivery.
type PaymentConsumer struct {
	ch         Channel
	queue      string
	handler    paymentUpdater
	staleRetry int
	logger     *slog.Logger
}

func NewPaymentConsumer(
	ch Channel,
	queue string,
	handler paymentUpdater,
	staleRetry int,
	logger *slog.Logger,
) (*PaymentConsumer, error) {
	if ch == nil {
		return nil, errs.NewValueIsRequiredError("channel")
	}
	if queue == "" {
		return nil, errs.NewValueIsRequiredError("queue")
	}

	return &PaymentConsumer{
		ch:         ch,
		queue:      queue,
		handler:    handler,
		staleRetry: staleRetry,
		logger:     logger.With("component", "payment-consumer"),
	}, nil
}

// Run consumes until ctx is done or the broker closes the delivery channel.
func (c *PaymentConsumer) Run(ctx context.Context) error {
	if _, err := c.ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.queue, err)
	}
	if err := c.ch.Qos(defaultPrefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	c.logger.InfoContext(ctx, "consuming payment updates", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}
			c.handle(ctx, d)
		}
	}
}

func (c *PaymentConsumer) handle(ctx context.Context, d amqp.Delivery) {
	cmd, err := decode(d.Body)
	if err != nil {
		c.logger.WarnContext(ctx, "dropping malformed payment update", "error", err)
		_ = d.Nack(false, false)
		return
	}

	var ack commands.PaymentUpdateAck
	err = retry.OnStale(ctx, c.staleRetry, func() error {
		var handleErr error
		ack, handleErr = c.handler.Handle(ctx, cmd)
		return handleErr
	})

	switch {
	case err == nil:
		if ack.Mismatch != nil {
			c.logger.WarnContext(ctx, "payment update needs reconciliation",
				"payment_id", ack.PaymentID.String(),
				"error", ack.Mismatch,
			)
		}
		_ = d.Ack(false)
	case isPermanent(err):
		c.logger.ErrorContext(ctx, "payment update rejected",
			"payment_id", cmd.PaymentID().String(),
			"error", err,
		)
		_ = d.Nack(false, false)
	default:
		c.logger.ErrorContext(ctx, "payment update failed, requeueing",
			"payment_id", cmd.PaymentID().String(),
			"error", err,
		)
		_ = d.Nack(false, true)
	}
}

func decode(body []byte) (commands.ApplyPaymentUpdateCommand, error) {
	var msg PaymentUpdateMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return commands.ApplyPaymentUpdateCommand{}, errs.NewValueIsInvalidErrorWithCause("body", err)
	}

	paymentID, err := kernel.UUIDFromString(msg.PaymentID)
	if err != nil {
		return commands.ApplyPaymentUpdateCommand{}, errs.NewValueIsInvalidErrorWithCause("payment_id", err)
	}

	status, err := payment.ParseStatus(msg.Status)
	if err != nil {
		return commands.ApplyPaymentUpdateCommand{}, err
	}

	return commands.NewApplyPaymentUpdateCommand(paymentID, status, msg.TransactionID)
}

func isPermanent(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrInvalidTransition) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired)
}
