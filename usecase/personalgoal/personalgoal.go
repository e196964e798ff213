package personalgoal

import (
	"context"

	"go.uber.org/zap"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
	"github.com/Nate91117/teamnotes/usecase"
)

// UseCase manages a member's yearly personal goals, including their links to
// team goals and the tasks that count toward their progress.
type UseCase struct {
	personalGoals repository.PersonalGoalRepository
	tasks         repository.TaskRepository
	links         repository.LinkRepository
	notifier      usecase.ChangeNotifier
	logger        *zap.Logger
}

func New(personalGoals repository.PersonalGoalRepository, tasks repository.TaskRepository, links repository.LinkRepository, notifier usecase.ChangeNotifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		personalGoals: personalGoals,
		tasks:         tasks,
		links:         links,
		notifier:      notifier,
		logger:        logger,
	}
}

// List returns the caller's personal goals for a year (zero year means all),
// each carrying its linked team-goal ids and its linked tasks. Progress is
// derived from the attached tasks, so a goal with no links reads 0%.
func (uc *UseCase) List(ctx context.Context, scope domain.Scope, year int) ([]domain.PersonalGoal, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}

	goals, err := uc.personalGoals.List(ctx, repository.PersonalGoalFilter{
		UserID: scope.UserID,
		TeamID: scope.TeamID,
		Year:   year,
	})
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return goals, nil
	}

	ids := make([]string, len(goals))
	for i := range goals {
		ids[i] = goals[i].ID
	}
	goalLinks, err := uc.links.ListByOwners(ctx, repository.LinkPersonalGoalGoals, ids)
	if err != nil {
		return nil, err
	}

	// Task links point the other way: the task owns the link row. Resolve
	// them per goal, then fetch the union of task ids in one read.
	taskIDsByGoal := make(map[string][]string, len(goals))
	var allTaskIDs []string
	seen := make(map[string]struct{})
	for _, id := range ids {
		taskIDs, err := uc.links.ListByTarget(ctx, repository.LinkTaskPersonalGoals, id)
		if err != nil {
			return nil, err
		}
		taskIDsByGoal[id] = taskIDs
		for _, taskID := range taskIDs {
			if _, ok := seen[taskID]; ok {
				continue
			}
			seen[taskID] = struct{}{}
			allTaskIDs = append(allTaskIDs, taskID)
		}
	}

	tasksByID := make(map[string]domain.Task, len(allTaskIDs))
	if len(allTaskIDs) > 0 {
		tasks, err := uc.tasks.ListByIDs(ctx, allTaskIDs)
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			tasksByID[t.ID] = t
		}
	}

	for i := range goals {
		goals[i].LinkedGoalIDs = goalLinks[goals[i].ID]
		linked := make([]domain.Task, 0, len(taskIDsByGoal[goals[i].ID]))
		for _, taskID := range taskIDsByGoal[goals[i].ID] {
			if t, ok := tasksByID[taskID]; ok {
				linked = append(linked, t)
			}
		}
		goals[i].LinkedTasks = linked
	}
	return goals, nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.PersonalGoal, error) {
	goal, err := uc.personalGoals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	goalLinks, err := uc.links.ListByOwner(ctx, repository.LinkPersonalGoalGoals, id)
	if err != nil {
		return nil, err
	}
	goal.LinkedGoalIDs = goalLinks

	taskIDs, err := uc.links.ListByTarget(ctx, repository.LinkTaskPersonalGoals, id)
	if err != nil {
		return nil, err
	}
	if len(taskIDs) > 0 {
		tasks, err := uc.tasks.ListByIDs(ctx, taskIDs)
		if err != nil {
			return nil, err
		}
		goal.LinkedTasks = tasks
	}
	return goal, nil
}

func (uc *UseCase) Create(ctx context.Context, scope domain.Scope, goal *domain.PersonalGoal) (*domain.PersonalGoal, error) {
	if goal == nil || goal.Title == "" || goal.Year == 0 {
		return nil, domain.ErrInvalidPayload
	}
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	goal.UserID = scope.UserID
	goal.TeamID = scope.TeamID
	if goal.Status == "" {
		goal.Status = domain.PersonalGoalActive
	}

	created, err := uc.personalGoals.Create(ctx, goal)
	if err != nil {
		return nil, err
	}
	if goal.LinkedGoalIDs != nil {
		if err := uc.links.Replace(ctx, repository.LinkPersonalGoalGoals, created.ID, goal.LinkedGoalIDs); err != nil {
			return nil, err
		}
		created.LinkedGoalIDs = goal.LinkedGoalIDs
	}

	uc.notify(ctx, "create", scope, created.ID)
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, scope domain.Scope, goal *domain.PersonalGoal) (*domain.PersonalGoal, error) {
	if goal == nil || goal.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	current, err := uc.personalGoals.GetByID(ctx, goal.ID)
	if err != nil {
		return nil, err
	}
	// Edits never move the card; only Reorder assigns sort keys.
	goal.SortOrder = current.SortOrder
	if goal.Status == "" {
		goal.Status = current.Status
	}
	if goal.Year == 0 {
		goal.Year = current.Year
	}
	if err := uc.personalGoals.Update(ctx, goal); err != nil {
		return nil, err
	}
	if goal.LinkedGoalIDs != nil {
		if err := uc.links.Replace(ctx, repository.LinkPersonalGoalGoals, goal.ID, goal.LinkedGoalIDs); err != nil {
			return nil, err
		}
	}
	uc.notify(ctx, "update", scope, goal.ID)
	return goal, nil
}

func (uc *UseCase) Delete(ctx context.Context, scope domain.Scope, id string) error {
	if err := uc.personalGoals.Delete(ctx, id); err != nil {
		return err
	}
	uc.notify(ctx, "delete", scope, id)
	return nil
}

func (uc *UseCase) Reorder(ctx context.Context, scope domain.Scope, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := uc.personalGoals.UpdateSortOrders(ctx, ids); err != nil {
		return err
	}
	uc.notify(ctx, "update", scope, "")
	return nil
}

// ReplaceGoalLinks swaps the personal goal's team-goal link set wholesale.
func (uc *UseCase) ReplaceGoalLinks(ctx context.Context, scope domain.Scope, personalGoalID string, goalIDs []string) error {
	if err := uc.links.Replace(ctx, repository.LinkPersonalGoalGoals, personalGoalID, goalIDs); err != nil {
		return err
	}
	uc.notify(ctx, "update", scope, personalGoalID)
	return nil
}

func (uc *UseCase) notify(ctx context.Context, operation string, scope domain.Scope, entityID string) {
	if err := usecase.Notify(ctx, uc.notifier, "personal_goals", operation, scope, entityID); err != nil {
		uc.logger.Warn("change notification failed", zap.Error(err))
	}
}
