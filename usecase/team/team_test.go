package team

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Nate91117/teamnotes/domain"
)

type MockTeamRepository struct{ mock.Mock }

func (m *MockTeamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Team, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Team), args.Error(1)
}

func (m *MockTeamRepository) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	args := m.Called(ctx, team)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) Update(ctx context.Context, team *domain.Team) error {
	return m.Called(ctx, team).Error(0)
}

func (m *MockTeamRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockMembershipRepository struct{ mock.Mock }

func (m *MockMembershipRepository) Get(ctx context.Context, teamID, userID string) (*domain.Membership, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) ListByUser(ctx context.Context, userID string) ([]domain.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Membership, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) Add(ctx context.Context, membership *domain.Membership) error {
	return m.Called(ctx, membership).Error(0)
}

func (m *MockMembershipRepository) Remove(ctx context.Context, teamID, userID string) error {
	return m.Called(ctx, teamID, userID).Error(0)
}

type MockInvitationRepository struct{ mock.Mock }

func (m *MockInvitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListPendingByEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Invitation, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Create(ctx context.Context, invitation *domain.Invitation) (*domain.Invitation, error) {
	args := m.Called(ctx, invitation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) SetStatus(ctx context.Context, id string, status domain.InvitationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockProfileRepository struct{ mock.Mock }

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

type fixtures struct {
	teams       *MockTeamRepository
	memberships *MockMembershipRepository
	invitations *MockInvitationRepository
	profiles    *MockProfileRepository
	uc          *UseCase
}

func newFixtures() *fixtures {
	f := &fixtures{
		teams:       new(MockTeamRepository),
		memberships: new(MockMembershipRepository),
		invitations: new(MockInvitationRepository),
		profiles:    new(MockProfileRepository),
	}
	f.uc = New(f.teams, f.memberships, f.invitations, f.profiles, nil, nil)
	return f
}

var leaderScope = domain.Scope{UserID: "leader-1", TeamID: "team-1"}

func TestMembersRosterLeaderFirst(t *testing.T) {
	f := newFixtures()

	f.memberships.On("ListByTeam", mock.Anything, "team-1").Return([]domain.Membership{
		{TeamID: "team-1", UserID: "member-1", Role: domain.RoleMember},
		{TeamID: "team-1", UserID: "leader-1", Role: domain.RoleLeader},
	}, nil)
	f.profiles.On("ListByIDs", mock.Anything, []string{"member-1", "leader-1"}).Return([]domain.Profile{
		{ID: "member-1", Email: "m@x.dev", DisplayName: "M"},
		{ID: "leader-1", Email: "l@x.dev", DisplayName: "L"},
	}, nil)

	members, err := f.uc.Members(context.Background(), leaderScope)
	assert.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, "leader-1", members[0].ID)
	assert.Equal(t, domain.RoleLeader, members[0].Role)
	assert.Equal(t, "member-1", members[1].ID)
}

func TestInviteRequiresLeaderRole(t *testing.T) {
	f := newFixtures()
	memberScope := domain.Scope{UserID: "member-1", TeamID: "team-1"}

	f.memberships.On("Get", mock.Anything, "team-1", "member-1").
		Return(&domain.Membership{TeamID: "team-1", UserID: "member-1", Role: domain.RoleMember}, nil)

	_, err := f.uc.Invite(context.Background(), memberScope, "guest@x.dev")
	assert.ErrorIs(t, err, domain.ErrNotTeamLeader)
	f.invitations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInviteNormalizesEmail(t *testing.T) {
	f := newFixtures()

	f.memberships.On("Get", mock.Anything, "team-1", "leader-1").
		Return(&domain.Membership{TeamID: "team-1", UserID: "leader-1", Role: domain.RoleLeader}, nil)
	f.invitations.On("Create", mock.Anything, mock.MatchedBy(func(inv *domain.Invitation) bool {
		return inv.Email == "guest@x.dev" && inv.Status == domain.InvitationPending && inv.InvitedBy == "leader-1"
	})).Return(&domain.Invitation{ID: "inv-1", TeamID: "team-1", Email: "guest@x.dev"}, nil)

	inv, err := f.uc.Invite(context.Background(), leaderScope, "  Guest@X.dev ")
	assert.NoError(t, err)
	assert.Equal(t, "guest@x.dev", inv.Email)
}

func TestRemoveMemberBlocksSelfRemoval(t *testing.T) {
	f := newFixtures()

	f.memberships.On("Get", mock.Anything, "team-1", "leader-1").
		Return(&domain.Membership{TeamID: "team-1", UserID: "leader-1", Role: domain.RoleLeader}, nil)

	err := f.uc.RemoveMember(context.Background(), leaderScope, "leader-1")
	assert.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	f.memberships.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveMember(t *testing.T) {
	f := newFixtures()

	f.memberships.On("Get", mock.Anything, "team-1", "leader-1").
		Return(&domain.Membership{TeamID: "team-1", UserID: "leader-1", Role: domain.RoleLeader}, nil)
	f.memberships.On("Remove", mock.Anything, "team-1", "member-1").Return(nil)

	assert.NoError(t, f.uc.RemoveMember(context.Background(), leaderScope, "member-1"))
	f.memberships.AssertExpectations(t)
}

func TestMembershipMapsNotFoundToForbidden(t *testing.T) {
	f := newFixtures()

	f.memberships.On("Get", mock.Anything, "team-1", "stranger").
		Return(nil, domain.ErrMembershipNotFound)

	_, err := f.uc.Membership(context.Background(), "team-1", "stranger")
	assert.ErrorIs(t, err, domain.ErrNotTeamMember)
}

func TestListMine(t *testing.T) {
	f := newFixtures()

	f.memberships.On("ListByUser", mock.Anything, "user-1").Return([]domain.Membership{
		{TeamID: "team-1", UserID: "user-1"},
		{TeamID: "team-2", UserID: "user-1"},
	}, nil)
	f.teams.On("ListByIDs", mock.Anything, []string{"team-1", "team-2"}).Return([]domain.Team{
		{ID: "team-1"}, {ID: "team-2"},
	}, nil)

	teams, err := f.uc.ListMine(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, teams, 2)
}

func TestListMineNoMemberships(t *testing.T) {
	f := newFixtures()

	f.memberships.On("ListByUser", mock.Anything, "user-1").Return([]domain.Membership{}, nil)

	teams, err := f.uc.ListMine(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Empty(t, teams)
	f.teams.AssertNotCalled(t, "ListByIDs", mock.Anything, mock.Anything)
}
