package usecase

import (
	"context"

	"github.com/Nate91117/teamnotes/domain"
)

// ChangeNotifier pushes row-change events to interested read models. It is a
// convenience only: callers must behave identically when notification is
// absent and reads happen by polling, so implementations are allowed to drop
// events and use cases treat publish failures as non-fatal.
type ChangeNotifier interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
}

// Notify fires a change event, swallowing nil notifiers. Errors are returned
// for logging but never change the outcome of the operation that produced the
// event.
func Notify(ctx context.Context, notifier ChangeNotifier, table, operation string, scope domain.Scope, entityID string) error {
	if notifier == nil {
		return nil
	}
	event := domain.ChangeEvent{
		Table:     table,
		Operation: operation,
		TeamID:    scope.TeamID,
		UserID:    scope.UserID,
		EntityID:  entityID,
	}
	event.Touch()
	return notifier.Publish(ctx, event)
}
