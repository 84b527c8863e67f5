// Package rabbitmq publishes domain events to a RabbitMQ topic exchange. The event
// name is the routing key, so consumers bind to e.g. "order.*".
package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"fooddelivery/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher implements ports.EventPublisher.
type Publisher struct {
	ch       Channel
	exchange string
	now      func() time.Time
}

// NewPublisher declares a durable topic exchange and returns a publisher for it.
func NewPublisher(ch Channel, exchange string) (*Publisher, error) {
	if ch == nil {
		return nil, errs.NewValueIsRequiredError("channel")
	}
	if exchange == "" {
		return nil, errs.NewValueIsRequiredError("exchange")
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &Publisher{
		ch:       ch,
		exchange: exchange,
		now:      time.Now,
	}, nil
}

// Publish sends payload as a persistent JSON message routed by name.
func (p *Publisher) Publish(ctx context.Context, name string, payload []byte) error {
	err := p.ch.PublishWithContext(ctx, p.exchange, name, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		ContentType:  "application/json",
		Type:         name,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	return nil
}
