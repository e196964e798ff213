package goal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
)

type MockGoalRepository struct{ mock.Mock }

func (m *MockGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Goal, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	args := m.Called(ctx, goal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *MockGoalRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGoalRepository) UpdateSortOrders(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockGoalRepository) MaxSortOrder(ctx context.Context, teamID string) (int, error) {
	args := m.Called(ctx, teamID)
	return args.Int(0), args.Error(1)
}

type MockCategoryRepository struct{ mock.Mock }

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Category, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
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

func newUseCase() (*UseCase, *MockGoalRepository, *MockCategoryRepository, *MockLinkRepository) {
	goals := new(MockGoalRepository)
	categories := new(MockCategoryRepository)
	links := new(MockLinkRepository)
	return New(goals, categories, links, nil, nil), goals, categories, links
}

func TestCreateAppendsToBoardEnd(t *testing.T) {
	uc, goals, _, links := newUseCase()

	goals.On("MaxSortOrder", mock.Anything, "team-1").Return(4, nil)
	goals.On("Create", mock.Anything, mock.MatchedBy(func(g *domain.Goal) bool {
		return g.SortOrder == 5 && g.TeamID == "team-1" && g.Status == domain.GoalActive
	})).Return(&domain.Goal{ID: "goal-1", TeamID: "team-1", Title: "Ship", SortOrder: 5}, nil)

	created, err := uc.Create(context.Background(), testScope, &domain.Goal{Title: "Ship"})
	assert.NoError(t, err)
	assert.Equal(t, "goal-1", created.ID)
	links.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateStoresMemberSet(t *testing.T) {
	uc, goals, _, links := newUseCase()

	goals.On("MaxSortOrder", mock.Anything, "team-1").Return(0, nil)
	goals.On("Create", mock.Anything, mock.Anything).
		Return(&domain.Goal{ID: "goal-1", TeamID: "team-1", Title: "Ship"}, nil)
	links.On("Replace", mock.Anything, repository.LinkGoalMembers, "goal-1", []string{"user-1", "user-2"}).
		Return(nil)

	created, err := uc.Create(context.Background(), testScope, &domain.Goal{
		Title:           "Ship",
		AssignedMembers: []string{"user-1", "user-2"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"user-1", "user-2"}, created.AssignedMembers)
	links.AssertExpectations(t)
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	uc, goals, _, _ := newUseCase()

	_, err := uc.Create(context.Background(), testScope, &domain.Goal{})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	goals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListAttachesMemberSets(t *testing.T) {
	uc, goals, _, links := newUseCase()

	goals.On("ListByTeam", mock.Anything, "team-1").Return([]domain.Goal{
		{ID: "goal-1", TeamID: "team-1"},
		{ID: "goal-2", TeamID: "team-1"},
	}, nil)
	links.On("ListByOwners", mock.Anything, repository.LinkGoalMembers, []string{"goal-1", "goal-2"}).
		Return(map[string][]string{
			"goal-1": {"user-1"},
			"goal-2": {},
		}, nil)

	got, err := uc.List(context.Background(), testScope)
	assert.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, got[0].AssignedMembers)
	assert.Empty(t, got[1].AssignedMembers)
}

func TestListEmptyBoardSkipsLinkFetch(t *testing.T) {
	uc, goals, _, links := newUseCase()

	goals.On("ListByTeam", mock.Anything, "team-1").Return([]domain.Goal{}, nil)

	got, err := uc.List(context.Background(), testScope)
	assert.NoError(t, err)
	assert.Empty(t, got)
	links.AssertNotCalled(t, "ListByOwners", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateReplacesMembersOnlyWhenProvided(t *testing.T) {
	uc, goals, _, links := newUseCase()

	goals.On("GetByID", mock.Anything, "goal-1").
		Return(&domain.Goal{ID: "goal-1", Status: domain.GoalActive}, nil)
	goals.On("Update", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.Update(context.Background(), testScope, &domain.Goal{ID: "goal-1", Title: "Renamed"})
	assert.NoError(t, err)
	links.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	links.On("Replace", mock.Anything, repository.LinkGoalMembers, "goal-1", []string{}).Return(nil)
	_, err = uc.Update(context.Background(), testScope, &domain.Goal{
		ID:              "goal-1",
		Title:           "Renamed",
		AssignedMembers: []string{},
	})
	assert.NoError(t, err)
	links.AssertExpectations(t)
}

func TestUpdateKeepsBoardPositionAndStatus(t *testing.T) {
	uc, goals, _, _ := newUseCase()

	goals.On("GetByID", mock.Anything, "goal-1").
		Return(&domain.Goal{ID: "goal-1", Status: domain.GoalCompleted, SortOrder: 7}, nil)
	goals.On("Update", mock.Anything, mock.MatchedBy(func(g *domain.Goal) bool {
		return g.SortOrder == 7 && g.Status == domain.GoalCompleted
	})).Return(nil)

	// A plain edit carries neither status nor sort order; both survive.
	updated, err := uc.Update(context.Background(), testScope, &domain.Goal{ID: "goal-1", Title: "Renamed"})
	assert.NoError(t, err)
	assert.Equal(t, 7, updated.SortOrder)
	assert.Equal(t, domain.GoalCompleted, updated.Status)
	goals.AssertExpectations(t)
}

func TestReorderEmptyIsNoOp(t *testing.T) {
	uc, goals, _, _ := newUseCase()

	assert.NoError(t, uc.Reorder(context.Background(), testScope, nil))
	goals.AssertNotCalled(t, "UpdateSortOrders", mock.Anything, mock.Anything)
}

func TestReorder(t *testing.T) {
	uc, goals, _, _ := newUseCase()

	goals.On("UpdateSortOrders", mock.Anything, []string{"goal-2", "goal-1"}).Return(nil)
	assert.NoError(t, uc.Reorder(context.Background(), testScope, []string{"goal-2", "goal-1"}))
	goals.AssertExpectations(t)
}

func TestDeleteCategory(t *testing.T) {
	uc, _, categories, _ := newUseCase()

	categories.On("Delete", mock.Anything, "cat-1").Return(nil)
	assert.NoError(t, uc.DeleteCategory(context.Background(), testScope, "cat-1"))
	categories.AssertExpectations(t)
}
