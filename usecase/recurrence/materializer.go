package recurrence

import (
	"context"

	"go.uber.org/zap"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/pkg/dates"
	"github.com/Nate91117/teamnotes/repository"
)

// Materializer expands recurring task templates into concrete monthly
// instances. It runs lazily on task reads rather than on a schedule, so a
// quiet month with no visits simply produces no instance.
type Materializer struct {
	tasks  repository.TaskRepository
	links  repository.LinkRepository
	logger *zap.Logger
}

func NewMaterializer(tasks repository.TaskRepository, links repository.LinkRepository, logger *zap.Logger) *Materializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{tasks: tasks, links: links, logger: logger}
}

// Run materializes the current period for every template in scope. Each
// template yields at most one instance per period; the instance insert is
// conflict-free so concurrent runs cannot double-create. A failure on one
// template is logged and the rest still run.
func (m *Materializer) Run(ctx context.Context, scope domain.Scope) error {
	if !scope.Valid() {
		return domain.ErrInvalidPayload
	}

	templates, err := m.tasks.ListTemplates(ctx, scope.UserID, scope.TeamID)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return nil
	}

	period := dates.CurrentPeriod()
	for i := range templates {
		if err := m.materialize(ctx, &templates[i], period); err != nil {
			m.logger.Error("failed to materialize recurring task",
				zap.String("template_id", templates[i].ID),
				zap.String("period", period),
				zap.Error(err))
		}
	}
	return nil
}

func (m *Materializer) materialize(ctx context.Context, template *domain.Task, period string) error {
	exists, err := m.tasks.InstanceExists(ctx, template.ID, period)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	instance := instanceFrom(template, period)
	created, err := m.tasks.CreateInstance(ctx, instance)
	if err != nil {
		return err
	}
	if !created {
		// Lost a race with another materializer run; the instance is there.
		return nil
	}

	assignees, err := m.links.ListByOwner(ctx, repository.LinkTaskAssignees, template.ID)
	if err != nil {
		return err
	}
	if len(assignees) > 0 {
		if err := m.links.Replace(ctx, repository.LinkTaskAssignees, instance.ID, assignees); err != nil {
			return err
		}
	}

	m.logger.Info("materialized recurring task",
		zap.String("template_id", template.ID),
		zap.String("instance_id", instance.ID),
		zap.String("period", period))
	return nil
}

// instanceFrom copies the template's descriptive fields into a fresh task.
// Status always starts at todo with no completion stamp, regardless of what
// the template row carries.
func instanceFrom(template *domain.Task, period string) *domain.Task {
	return &domain.Task{
		UserID:            template.UserID,
		TeamID:            template.TeamID,
		Title:             template.Title,
		Description:       template.Description,
		Notes:             template.Notes,
		Status:            domain.TaskTodo,
		DueDate:           template.DueDate,
		SharedToDashboard: template.SharedToDashboard,
		LinkedGoalID:      template.LinkedGoalID,
		IsRecurring:       true,
		SourceTaskID:      &template.ID,
		Period:            period,
	}
}
