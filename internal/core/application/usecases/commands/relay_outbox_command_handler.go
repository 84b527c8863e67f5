package commands

import (
	"context"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
)

// RelayOutboxCommandHandler moves stored events to the broker. Messages are locked for
// the duration of the run, published in order and marked processed in the same
// transaction. Publishing stops at the first failure; the rest stay for the next run.
// Consumers may see a message twice if the commit fails after publishing.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
}

func NewRelayOutboxCommandHandler(uowFactory OutboxUoWFactory, publisher ports.EventPublisher) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle returns how many messages were published and marked.
func (h RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.OutboxRepository()

	messages, err := outbox.GetUnprocessed(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	if len(messages) == 0 {
		return 0, nil
	}

	published := make([]kernel.UUID, 0, len(messages))
	var publishErr error

	for _, m := range messages {
		if err = h.publisher.Publish(ctx, m.Name, m.Payload); err != nil {
			publishErr = fmt.Errorf("publish outbox message %s: %w", m.ID, err)
			break
		}
		published = append(published, m.ID)
	}

	if len(published) > 0 {
		if err = outbox.MarkProcessed(ctx, published, time.Now().UTC()); err != nil {
			return 0, err
		}

		if err = uow.Commit(ctx); err != nil {
			return 0, err
		}
	}

	return len(published), publishErr
}
