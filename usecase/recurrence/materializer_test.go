package recurrence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/pkg/dates"
	"github.com/Nate91117/teamnotes/repository"
)

type MockTaskRepository struct {
	mock.Mock
}

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
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) SetStatus(ctx context.Context, id string, status domain.TaskStatus, completedAt *time.Time) error {
	args := m.Called(ctx, id, status, completedAt)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateSortOrders(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Replace(ctx context.Context, kind repository.LinkKind, ownerID string, targetIDs []string) error {
	args := m.Called(ctx, kind, ownerID, targetIDs)
	return args.Error(0)
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

func template() domain.Task {
	goalID := "goal-1"
	due := time.Date(2025, time.June, 5, 12, 0, 0, 0, time.UTC)
	return domain.Task{
		ID:                "tmpl-1",
		UserID:            "user-1",
		TeamID:            "team-1",
		Title:             "monthly review",
		Description:       "walk the board",
		Notes:             "bring metrics",
		Status:            domain.TaskDone, // template row status must not leak
		DueDate:           &due,
		SharedToDashboard: true,
		LinkedGoalID:      &goalID,
		IsRecurring:       true,
	}
}

func TestRunCreatesInstanceForCurrentPeriod(t *testing.T) {
	tasks := new(MockTaskRepository)
	links := new(MockLinkRepository)
	m := NewMaterializer(tasks, links, nil)

	tmpl := template()
	period := dates.CurrentPeriod()

	tasks.On("ListTemplates", mock.Anything, "user-1", "team-1").Return([]domain.Task{tmpl}, nil)
	tasks.On("InstanceExists", mock.Anything, "tmpl-1", period).Return(false, nil)

	var captured *domain.Task
	tasks.On("CreateInstance", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
		captured = task
		return task.SourceTaskID != nil && *task.SourceTaskID == "tmpl-1" && task.Period == period
	})).Return(true, nil)

	links.On("ListByOwner", mock.Anything, repository.LinkTaskAssignees, "tmpl-1").
		Return([]string{"user-2"}, nil)
	links.On("Replace", mock.Anything, repository.LinkTaskAssignees, mock.Anything, []string{"user-2"}).
		Return(nil)

	assert.NoError(t, m.Run(context.Background(), testScope))
	assert.NotNil(t, captured)

	// Descriptive fields copy; lifecycle fields reset.
	assert.Equal(t, tmpl.Title, captured.Title)
	assert.Equal(t, tmpl.Description, captured.Description)
	assert.Equal(t, tmpl.Notes, captured.Notes)
	assert.Equal(t, tmpl.DueDate, captured.DueDate)
	assert.Equal(t, tmpl.LinkedGoalID, captured.LinkedGoalID)
	assert.True(t, captured.SharedToDashboard)
	assert.Equal(t, domain.TaskTodo, captured.Status)
	assert.Nil(t, captured.CompletedAt)
	assert.True(t, captured.IsRecurring)

	tasks.AssertExpectations(t)
	links.AssertExpectations(t)
}

func TestRunIsIdempotentWithinPeriod(t *testing.T) {
	tasks := new(MockTaskRepository)
	links := new(MockLinkRepository)
	m := NewMaterializer(tasks, links, nil)

	tmpl := template()
	tasks.On("ListTemplates", mock.Anything, "user-1", "team-1").Return([]domain.Task{tmpl}, nil)
	tasks.On("InstanceExists", mock.Anything, "tmpl-1", dates.CurrentPeriod()).Return(true, nil)

	assert.NoError(t, m.Run(context.Background(), testScope))
	tasks.AssertNotCalled(t, "CreateInstance", mock.Anything, mock.Anything)
}

func TestRunToleratesLostInsertRace(t *testing.T) {
	tasks := new(MockTaskRepository)
	links := new(MockLinkRepository)
	m := NewMaterializer(tasks, links, nil)

	tmpl := template()
	tasks.On("ListTemplates", mock.Anything, "user-1", "team-1").Return([]domain.Task{tmpl}, nil)
	tasks.On("InstanceExists", mock.Anything, "tmpl-1", dates.CurrentPeriod()).Return(false, nil)
	tasks.On("CreateInstance", mock.Anything, mock.Anything).Return(false, nil)

	assert.NoError(t, m.Run(context.Background(), testScope))
	// A concurrent winner means the instance exists; no links are rewritten.
	links.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunContinuesPastFailingTemplate(t *testing.T) {
	tasks := new(MockTaskRepository)
	links := new(MockLinkRepository)
	m := NewMaterializer(tasks, links, nil)

	bad := template()
	good := template()
	good.ID = "tmpl-2"
	period := dates.CurrentPeriod()

	tasks.On("ListTemplates", mock.Anything, "user-1", "team-1").Return([]domain.Task{bad, good}, nil)
	tasks.On("InstanceExists", mock.Anything, "tmpl-1", period).Return(false, errors.New("timeout"))
	tasks.On("InstanceExists", mock.Anything, "tmpl-2", period).Return(true, nil)

	assert.NoError(t, m.Run(context.Background(), testScope))
	tasks.AssertExpectations(t)
}

func TestRunNoTemplatesIsNoop(t *testing.T) {
	tasks := new(MockTaskRepository)
	m := NewMaterializer(tasks, new(MockLinkRepository), nil)

	tasks.On("ListTemplates", mock.Anything, "user-1", "team-1").Return([]domain.Task{}, nil)
	assert.NoError(t, m.Run(context.Background(), testScope))
}
