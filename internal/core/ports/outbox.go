package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
)

// OutboxMessage is a domain event stored in the same transaction as the aggregate
// that raised it, waiting to be published.
type OutboxMessage struct {
	ID         kernel.UUID
	Name       string
	Payload    []byte
	OccurredAt time.Time
}

// OutboxRepository reads and acknowledges stored events. Writing them is done by the
// unit of work on commit.
type OutboxRepository interface {
	// GetUnprocessed locks and returns up to limit unpublished messages, oldest first.
	// Rows locked by another relay are skipped.
	GetUnprocessed(ctx context.Context, limit int) ([]OutboxMessage, error)

	// MarkProcessed stamps the messages as published.
	MarkProcessed(ctx context.Context, ids []kernel.UUID, at time.Time) error
}

// EventPublisher delivers an event to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, name string, payload []byte) error
}
