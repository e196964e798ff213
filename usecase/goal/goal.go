package goal

import (
	"context"

	"go.uber.org/zap"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
	"github.com/Nate91117/teamnotes/usecase"
)

// UseCase manages team goals and their categories.
type UseCase struct {
	goals      repository.GoalRepository
	categories repository.CategoryRepository
	links      repository.LinkRepository
	notifier   usecase.ChangeNotifier
	logger     *zap.Logger
}

func New(goals repository.GoalRepository, categories repository.CategoryRepository, links repository.LinkRepository, notifier usecase.ChangeNotifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		goals:      goals,
		categories: categories,
		links:      links,
		notifier:   notifier,
		logger:     logger,
	}
}

// List returns the team's goals in board order with assigned member sets
// attached.
func (uc *UseCase) List(ctx context.Context, scope domain.Scope) ([]domain.Goal, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}

	goals, err := uc.goals.ListByTeam(ctx, scope.TeamID)
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
	members, err := uc.links.ListByOwners(ctx, repository.LinkGoalMembers, ids)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		goals[i].AssignedMembers = members[goals[i].ID]
	}
	return goals, nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.Goal, error) {
	goal, err := uc.goals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := uc.links.ListByOwner(ctx, repository.LinkGoalMembers, id)
	if err != nil {
		return nil, err
	}
	goal.AssignedMembers = members
	return goal, nil
}

// Create appends the goal to the end of the board and stores its member set.
func (uc *UseCase) Create(ctx context.Context, scope domain.Scope, goal *domain.Goal) (*domain.Goal, error) {
	if goal == nil || goal.Title == "" {
		return nil, domain.ErrInvalidPayload
	}
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	goal.TeamID = scope.TeamID
	if goal.Status == "" {
		goal.Status = domain.GoalActive
	}

	max, err := uc.goals.MaxSortOrder(ctx, scope.TeamID)
	if err != nil {
		return nil, err
	}
	goal.SortOrder = max + 1

	created, err := uc.goals.Create(ctx, goal)
	if err != nil {
		return nil, err
	}
	if goal.AssignedMembers != nil {
		if err := uc.links.Replace(ctx, repository.LinkGoalMembers, created.ID, goal.AssignedMembers); err != nil {
			return nil, err
		}
		created.AssignedMembers = goal.AssignedMembers
	}

	uc.notify(ctx, "create", scope, created.ID)
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, scope domain.Scope, goal *domain.Goal) (*domain.Goal, error) {
	if goal == nil || goal.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	current, err := uc.goals.GetByID(ctx, goal.ID)
	if err != nil {
		return nil, err
	}
	// Edits never move the card; only Reorder assigns sort keys.
	goal.SortOrder = current.SortOrder
	if goal.Status == "" {
		goal.Status = current.Status
	}
	if err := uc.goals.Update(ctx, goal); err != nil {
		return nil, err
	}
	if goal.AssignedMembers != nil {
		if err := uc.links.Replace(ctx, repository.LinkGoalMembers, goal.ID, goal.AssignedMembers); err != nil {
			return nil, err
		}
	}
	uc.notify(ctx, "update", scope, goal.ID)
	return goal, nil
}

func (uc *UseCase) Delete(ctx context.Context, scope domain.Scope, id string) error {
	if err := uc.goals.Delete(ctx, id); err != nil {
		return err
	}
	uc.notify(ctx, "delete", scope, id)
	return nil
}

// Reorder persists new consecutive sort keys for the reordered board.
func (uc *UseCase) Reorder(ctx context.Context, scope domain.Scope, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := uc.goals.UpdateSortOrders(ctx, ids); err != nil {
		return err
	}
	uc.notify(ctx, "update", scope, "")
	return nil
}

// ReplaceMembers swaps the goal's assigned member set wholesale.
func (uc *UseCase) ReplaceMembers(ctx context.Context, scope domain.Scope, goalID string, userIDs []string) error {
	if err := uc.links.Replace(ctx, repository.LinkGoalMembers, goalID, userIDs); err != nil {
		return err
	}
	uc.notify(ctx, "update", scope, goalID)
	return nil
}

// ListCategories returns the team's categories in stored order.
func (uc *UseCase) ListCategories(ctx context.Context, scope domain.Scope) ([]domain.Category, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	return uc.categories.ListByTeam(ctx, scope.TeamID)
}

func (uc *UseCase) CreateCategory(ctx context.Context, scope domain.Scope, category *domain.Category) (*domain.Category, error) {
	if category == nil || category.Name == "" {
		return nil, domain.ErrInvalidPayload
	}
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	category.TeamID = scope.TeamID
	created, err := uc.categories.Create(ctx, category)
	if err != nil {
		return nil, err
	}
	uc.notifyCategories(ctx, "create", scope, created.ID)
	return created, nil
}

func (uc *UseCase) UpdateCategory(ctx context.Context, scope domain.Scope, category *domain.Category) (*domain.Category, error) {
	if category == nil || category.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := uc.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	uc.notifyCategories(ctx, "update", scope, category.ID)
	return category, nil
}

// DeleteCategory removes the category; goals that referenced it survive with
// the reference cleared.
func (uc *UseCase) DeleteCategory(ctx context.Context, scope domain.Scope, id string) error {
	if err := uc.categories.Delete(ctx, id); err != nil {
		return err
	}
	uc.notifyCategories(ctx, "delete", scope, id)
	return nil
}

func (uc *UseCase) notify(ctx context.Context, operation string, scope domain.Scope, entityID string) {
	if err := usecase.Notify(ctx, uc.notifier, "goals", operation, scope, entityID); err != nil {
		uc.logger.Warn("change notification failed", zap.Error(err))
	}
}

func (uc *UseCase) notifyCategories(ctx context.Context, operation string, scope domain.Scope, entityID string) {
	if err := usecase.Notify(ctx, uc.notifier, "categories", operation, scope, entityID); err != nil {
		uc.logger.Warn("change notification failed", zap.Error(err))
	}
}
