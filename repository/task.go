package repository

import (
	"context"
	"time"

	"github.com/Nate91117/teamnotes/domain"
)

// TaskFilter narrows task reads. Zero values mean "no constraint".
type TaskFilter struct {
	UserID            string
	TeamID            string
	Status            domain.TaskStatus
	LinkedGoalID      string
	SharedToDashboard bool
	// ExcludeTemplates drops recurring template rows; every list view sets it.
	ExcludeTemplates bool
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Task, error)
	// ListTemplates returns recurring templates (source_task_id IS NULL) for
	// the user+team scope.
	ListTemplates(ctx context.Context, userID, teamID string) ([]domain.Task, error)
	// InstanceExists checks for a materialized instance of the template in
	// the given period.
	InstanceExists(ctx context.Context, sourceTaskID, period string) (bool, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// CreateInstance inserts a materialized copy; a concurrent duplicate for
	// the same (template, period) is silently dropped and reported false.
	CreateInstance(ctx context.Context, task *domain.Task) (bool, error)
	Update(ctx context.Context, task *domain.Task) error
	// SetStatus writes status and completed_at in a single statement.
	SetStatus(ctx context.Context, id string, status domain.TaskStatus, completedAt *time.Time) error
	Delete(ctx context.Context, id string) error
	UpdateSortOrders(ctx context.Context, ids []string) error
}
