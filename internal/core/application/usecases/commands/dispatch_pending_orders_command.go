package commands

import (
	"errors"

	"fooddelivery/internal/pkg/guard"
)

// DefaultDispatchBatchSize is how many preparing orders one retry run looks at.
const DefaultDispatchBatchSize = 50

var ErrDispatchPendingOrdersCommandIsNotConstructed = errors.New(
	"DispatchPendingOrdersCommand must be created via NewDispatchPendingOrdersCommand constructor",
)

// DispatchPendingOrdersCommand retries dispatch for orders still waiting in preparing,
// typically because no courier was free or the payment was not settled yet.
type DispatchPendingOrdersCommand struct {
	limit int

	guard guard.ConstructorGuard
}

// NewDispatchPendingOrdersCommand creates the command; a non-positive limit selects
// DefaultDispatchBatchSize.
func NewDispatchPendingOrdersCommand(limit int) DispatchPendingOrdersCommand {
	if limit <= 0 {
		limit = DefaultDispatchBatchSize
	}
	return DispatchPendingOrdersCommand{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}
}

func (c DispatchPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrDispatchPendingOrdersCommandIsNotConstructed)
}

func (c DispatchPendingOrdersCommand) Limit() int {
	return c.limit
}
