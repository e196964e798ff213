package task

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
	"github.com/Nate91117/teamnotes/usecase"
)

// UseCase implements the task lifecycle: CRUD scoped to a user+team, the
// status/completed_at lockstep, link-set replacement for assignees and
// personal-goal links, and explicit reordering.
type UseCase struct {
	tasks    repository.TaskRepository
	links    repository.LinkRepository
	buffer   usecase.OperationBuffer
	notifier usecase.ChangeNotifier
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, links repository.LinkRepository, buffer usecase.OperationBuffer, notifier usecase.ChangeNotifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		links:    links,
		buffer:   buffer,
		notifier: notifier,
		logger:   logger,
	}
}

// List returns the caller's tasks with assignee and personal-goal link sets
// attached. Recurring templates never appear; only instances and ordinary
// tasks are listed.
func (uc *UseCase) List(ctx context.Context, scope domain.Scope) ([]domain.Task, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}

	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{
		UserID:           scope.UserID,
		TeamID:           scope.TeamID,
		ExcludeTemplates: true,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.attachLinks(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// attachLinks resolves both link kinds for the whole collection in two
// batched queries running in parallel.
func (uc *UseCase) attachLinks(ctx context.Context, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}

	var (
		assignees map[string][]string
		pgLinks   map[string][]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assignees, err = uc.links.ListByOwners(gctx, repository.LinkTaskAssignees, ids)
		return err
	})
	g.Go(func() error {
		var err error
		pgLinks, err = uc.links.ListByOwners(gctx, repository.LinkTaskPersonalGoals, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range tasks {
		tasks[i].Assignees = assignees[tasks[i].ID]
		tasks[i].LinkedPersonalGoalIDs = pgLinks[tasks[i].ID]
	}
	return nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	single := []domain.Task{*task}
	if err := uc.attachLinks(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// Create inserts the task and then replaces its link sets with whatever the
// caller provided. The entity insert and the link writes are separate store
// operations; a link failure after a successful insert is surfaced to the
// caller rather than rolled back.
func (uc *UseCase) Create(ctx context.Context, scope domain.Scope, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.Title == "" {
		return nil, domain.ErrInvalidPayload
	}
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	if task.Status != "" && !task.Status.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown task status")
	}
	task.UserID = scope.UserID
	task.TeamID = scope.TeamID
	if task.Status == domain.TaskDone && task.CompletedAt == nil {
		now := time.Now()
		task.CompletedAt = &now
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, "create", task) {
			return task, nil
		}
		return nil, err
	}

	if err := uc.replaceLinks(ctx, created); err != nil {
		return nil, err
	}

	uc.notify(ctx, "create", scope, created.ID)
	return created, nil
}

// Update rewrites the entity row and, when the caller supplied link sets,
// replaces them in full.
func (uc *UseCase) Update(ctx context.Context, scope domain.Scope, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if task.Status != "" && !task.Status.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown task status")
	}

	current, err := uc.tasks.GetByID(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	// Edits never move the card; only Reorder assigns sort keys.
	task.SortOrder = current.SortOrder
	if task.Status == "" {
		task.Status = current.Status
	}
	task.CompletedAt = completionTimestamp(current, task.Status)

	if err := uc.tasks.Update(ctx, task); err != nil {
		if uc.shouldBuffer(ctx, "update", task) {
			return task, nil
		}
		return nil, err
	}

	if err := uc.replaceLinks(ctx, task); err != nil {
		return nil, err
	}

	uc.notify(ctx, "update", scope, task.ID)
	return task, nil
}

// SetStatus applies a status-change shortcut. completed_at moves in lockstep:
// entering done stamps it, leaving done clears it, staying done keeps the
// original stamp. Both columns land in one statement.
func (uc *UseCase) SetStatus(ctx context.Context, scope domain.Scope, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown task status")
	}

	current, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	completedAt := completionTimestamp(current, status)
	if err := uc.tasks.SetStatus(ctx, id, status, completedAt); err != nil {
		return nil, err
	}

	current.Status = status
	current.CompletedAt = completedAt
	uc.notify(ctx, "update", scope, id)
	return current, nil
}

func (uc *UseCase) Delete(ctx context.Context, scope domain.Scope, id string) error {
	if err := uc.tasks.Delete(ctx, id); err != nil {
		if err == domain.ErrTaskNotFound {
			return err
		}
		task := &domain.Task{ID: id}
		if uc.shouldBuffer(ctx, "delete", task) {
			return nil
		}
		return err
	}
	uc.notify(ctx, "delete", scope, id)
	return nil
}

// Reorder persists new consecutive sort keys for the full reordered id list.
func (uc *UseCase) Reorder(ctx context.Context, scope domain.Scope, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := uc.tasks.UpdateSortOrders(ctx, ids); err != nil {
		return err
	}
	uc.notify(ctx, "update", scope, "")
	return nil
}

// ReplaceAssignees swaps the task's assignee set wholesale.
func (uc *UseCase) ReplaceAssignees(ctx context.Context, scope domain.Scope, taskID string, userIDs []string) error {
	if err := uc.links.Replace(ctx, repository.LinkTaskAssignees, taskID, userIDs); err != nil {
		return err
	}
	uc.notify(ctx, "update", scope, taskID)
	return nil
}

// ReplacePersonalGoalLinks swaps the task's personal-goal link set wholesale.
func (uc *UseCase) ReplacePersonalGoalLinks(ctx context.Context, scope domain.Scope, taskID string, personalGoalIDs []string) error {
	if err := uc.links.Replace(ctx, repository.LinkTaskPersonalGoals, taskID, personalGoalIDs); err != nil {
		return err
	}
	uc.notify(ctx, "update", scope, taskID)
	return nil
}

func (uc *UseCase) replaceLinks(ctx context.Context, task *domain.Task) error {
	if task.Assignees != nil {
		if err := uc.links.Replace(ctx, repository.LinkTaskAssignees, task.ID, task.Assignees); err != nil {
			return err
		}
	}
	if task.LinkedPersonalGoalIDs != nil {
		if err := uc.links.Replace(ctx, repository.LinkTaskPersonalGoals, task.ID, task.LinkedPersonalGoalIDs); err != nil {
			return err
		}
	}
	return nil
}

// completionTimestamp derives the completed_at value for a transition from
// the task's current state to the desired status.
func completionTimestamp(current *domain.Task, status domain.TaskStatus) *time.Time {
	if status != domain.TaskDone {
		return nil
	}
	if current != nil && current.Status == domain.TaskDone && current.CompletedAt != nil {
		return current.CompletedAt
	}
	now := time.Now()
	return &now
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation))
	return true
}

func (uc *UseCase) notify(ctx context.Context, operation string, scope domain.Scope, entityID string) {
	if err := usecase.Notify(ctx, uc.notifier, "tasks", operation, scope, entityID); err != nil {
		uc.logger.Warn("change notification failed", zap.Error(err))
	}
}

// GroupByStatus splits tasks into kanban columns ordered by sort key.
func GroupByStatus(tasks []domain.Task) map[domain.TaskStatus][]domain.Task {
	grouped := map[domain.TaskStatus][]domain.Task{
		domain.TaskTodo:       {},
		domain.TaskInProgress: {},
		domain.TaskOnHold:     {},
		domain.TaskDone:       {},
	}
	for _, t := range tasks {
		grouped[t.Status] = append(grouped[t.Status], t)
	}
	for status := range grouped {
		column := grouped[status]
		sort.SliceStable(column, func(i, j int) bool {
			return column[i].SortOrder < column[j].SortOrder
		})
	}
	return grouped
}

// SortedByDueDate returns a copy ordered by due date ascending with missing
// due dates last. It is display-only and never touches stored sort keys.
func SortedByDueDate(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out
}
