package personalgoal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
)

type MockPersonalGoalRepository struct{ mock.Mock }

func (m *MockPersonalGoalRepository) GetByID(ctx context.Context, id string) (*domain.PersonalGoal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PersonalGoal), args.Error(1)
}

func (m *MockPersonalGoalRepository) List(ctx context.Context, filter repository.PersonalGoalFilter) ([]domain.PersonalGoal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PersonalGoal), args.Error(1)
}

func (m *MockPersonalGoalRepository) Create(ctx context.Context, goal *domain.PersonalGoal) (*domain.PersonalGoal, error) {
	args := m.Called(ctx, goal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PersonalGoal), args.Error(1)
}

func (m *MockPersonalGoalRepository) Update(ctx context.Context, goal *domain.PersonalGoal) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *MockPersonalGoalRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPersonalGoalRepository) UpdateSortOrders(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

type MockTaskRepository struct{ mock.Mock }

func (m *MockTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Task, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskRepository) ListTemplates(ctx context.Context, userID, teamID string) ([]domain.Task, error) {
	args := m.Called(ctx, userID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskRepository) InstanceExists(ctx context.Context, sourceTaskID, period string) (bool, error) {
	args := m.Called(ctx, sourceTaskID, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) CreateInstance(ctx context.Context, task *domain.Task) (bool, error) {
	args := m.Called(ctx, task)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) SetStatus(ctx context.Context, id string, status domain.TaskStatus, completedAt *time.Time) error {
	return m.Called(ctx, id, status, completedAt).Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTaskRepository) UpdateSortOrders(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

type MockLinkRepository struct{ mock.Mock }

func (m *MockLinkRepository) Replace(ctx context.Context, kind repository.LinkKind, ownerID string, targetIDs []string) error {
	return m.Called(ctx, kind, ownerID, targetIDs).Error(0)
}

func (m *MockLinkRepository) ListByOwner(ctx context.Context, kind repository.LinkKind, ownerID string) ([]string, error) {
	args := m.Called(ctx, kind, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLinkRepository) ListByOwners(ctx context.Context, kind repository.LinkKind, ownerIDs []string) (map[string][]string, error) {
	args := m.Called(ctx, kind, ownerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

func (m *MockLinkRepository) ListByTarget(ctx context.Context, kind repository.LinkKind, targetID string) ([]string, error) {
	args := m.Called(ctx, kind, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var testScope = domain.Scope{UserID: "user-1", TeamID: "team-1"}

func newUseCase() (*UseCase, *MockPersonalGoalRepository, *MockTaskRepository, *MockLinkRepository) {
	personalGoals := new(MockPersonalGoalRepository)
	tasks := new(MockTaskRepository)
	links := new(MockLinkRepository)
	return New(personalGoals, tasks, links, nil, nil), personalGoals, tasks, links
}

func TestListResolvesTaskLinksInReverse(t *testing.T) {
	uc, personalGoals, tasks, links := newUseCase()

	personalGoals.On("List", mock.Anything, repository.PersonalGoalFilter{
		UserID: "user-1", TeamID: "team-1", Year: 2026,
	}).Return([]domain.PersonalGoal{
		{ID: "pg-1", UserID: "user-1", Year: 2026},
		{ID: "pg-2", UserID: "user-1", Year: 2026},
	}, nil)
	links.On("ListByOwners", mock.Anything, repository.LinkPersonalGoalGoals, []string{"pg-1", "pg-2"}).
		Return(map[string][]string{"pg-1": {"goal-1"}, "pg-2": {}}, nil)
	links.On("ListByTarget", mock.Anything, repository.LinkTaskPersonalGoals, "pg-1").
		Return([]string{"task-1", "task-2"}, nil)
	links.On("ListByTarget", mock.Anything, repository.LinkTaskPersonalGoals, "pg-2").
		Return([]string{"task-2"}, nil)
	// task-2 counts toward both goals but is fetched once.
	tasks.On("ListByIDs", mock.Anything, []string{"task-1", "task-2"}).Return([]domain.Task{
		{ID: "task-1", Status: domain.TaskDone},
		{ID: "task-2", Status: domain.TaskTodo},
	}, nil)

	got, err := uc.List(context.Background(), testScope, 2026)
	assert.NoError(t, err)
	assert.Len(t, got, 2)

	assert.Equal(t, []string{"goal-1"}, got[0].LinkedGoalIDs)
	assert.Len(t, got[0].LinkedTasks, 2)
	assert.Equal(t, 50, got[0].Progress())

	assert.Len(t, got[1].LinkedTasks, 1)
	assert.Equal(t, "task-2", got[1].LinkedTasks[0].ID)
	assert.Equal(t, 0, got[1].Progress())

	tasks.AssertNumberOfCalls(t, "ListByIDs", 1)
}

func TestListNoGoalsSkipsLinkFetch(t *testing.T) {
	uc, personalGoals, tasks, links := newUseCase()

	personalGoals.On("List", mock.Anything, mock.Anything).Return([]domain.PersonalGoal{}, nil)

	got, err := uc.List(context.Background(), testScope, 0)
	assert.NoError(t, err)
	assert.Empty(t, got)
	links.AssertNotCalled(t, "ListByOwners", mock.Anything, mock.Anything, mock.Anything)
	tasks.AssertNotCalled(t, "ListByIDs", mock.Anything, mock.Anything)
}

func TestCreateRequiresYear(t *testing.T) {
	uc, personalGoals, _, _ := newUseCase()

	_, err := uc.Create(context.Background(), testScope, &domain.PersonalGoal{Title: "Read more"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	personalGoals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateStampsScopeAndLinks(t *testing.T) {
	uc, personalGoals, _, links := newUseCase()

	personalGoals.On("Create", mock.Anything, mock.MatchedBy(func(g *domain.PersonalGoal) bool {
		return g.UserID == "user-1" && g.TeamID == "team-1" && g.Status == domain.PersonalGoalActive
	})).Return(&domain.PersonalGoal{ID: "pg-1", UserID: "user-1", TeamID: "team-1", Year: 2026}, nil)
	links.On("Replace", mock.Anything, repository.LinkPersonalGoalGoals, "pg-1", []string{"goal-1"}).
		Return(nil)

	created, err := uc.Create(context.Background(), testScope, &domain.PersonalGoal{
		Title:         "Read more",
		Year:          2026,
		LinkedGoalIDs: []string{"goal-1"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"goal-1"}, created.LinkedGoalIDs)
	links.AssertExpectations(t)
}

func TestUpdateKeepsPositionStatusAndYear(t *testing.T) {
	uc, personalGoals, _, links := newUseCase()

	personalGoals.On("GetByID", mock.Anything, "pg-1").
		Return(&domain.PersonalGoal{
			ID: "pg-1", Status: domain.PersonalGoalCompleted, SortOrder: 3, Year: 2026,
		}, nil)
	personalGoals.On("Update", mock.Anything, mock.MatchedBy(func(goal *domain.PersonalGoal) bool {
		return goal.SortOrder == 3 && goal.Status == domain.PersonalGoalCompleted && goal.Year == 2026
	})).Return(nil)

	// A plain edit carries no status, year, or sort order; all three survive.
	updated, err := uc.Update(context.Background(), testScope, &domain.PersonalGoal{ID: "pg-1", Title: "Renamed"})
	assert.NoError(t, err)
	assert.Equal(t, 3, updated.SortOrder)
	assert.Equal(t, 2026, updated.Year)
	links.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	personalGoals.AssertExpectations(t)
}

func TestReplaceGoalLinks(t *testing.T) {
	uc, _, _, links := newUseCase()

	links.On("Replace", mock.Anything, repository.LinkPersonalGoalGoals, "pg-1", []string{"goal-2"}).
		Return(nil)
	assert.NoError(t, uc.ReplaceGoalLinks(context.Background(), testScope, "pg-1", []string{"goal-2"}))
	links.AssertExpectations(t)
}
