package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate. The unit of work collects the
// events of tracked aggregates on commit and writes them to the outbox.
type DomainEvent interface {
	EventID() UUID
	EventName() string
	OccurredAt() time.Time
}
