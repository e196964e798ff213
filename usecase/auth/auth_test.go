package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nate91117/teamnotes/domain"
)

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

type MockSessionRepository struct{ mock.Mock }

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSessionRepository) Extend(ctx context.Context, id string, ttlSeconds int) error {
	return m.Called(ctx, id, ttlSeconds).Error(0)
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

type fixtures struct {
	profiles    *MockProfileRepository
	sessions    *MockSessionRepository
	memberships *MockMembershipRepository
	invitations *MockInvitationRepository
	uc          *UseCase
}

func newFixtures() *fixtures {
	f := &fixtures{
		profiles:    new(MockProfileRepository),
		sessions:    new(MockSessionRepository),
		memberships: new(MockMembershipRepository),
		invitations: new(MockInvitationRepository),
	}
	f.uc = New(f.profiles, f.sessions, f.memberships, f.invitations, "test-secret", time.Hour, nil)
	return f
}

func TestSignupJoinsInvitedTeams(t *testing.T) {
	f := newFixtures()

	f.profiles.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
		// Email is normalized and the password never stored raw.
		return p.Email == "new@x.dev" && p.PasswordHash != "" && p.PasswordHash != "hunter2"
	})).Return(&domain.Profile{ID: "user-9", Email: "new@x.dev", DisplayName: "New"}, nil)

	f.invitations.On("ListPendingByEmail", mock.Anything, "new@x.dev").Return([]domain.Invitation{
		{ID: "inv-1", TeamID: "team-1", Email: "new@x.dev", Status: domain.InvitationPending},
		{ID: "inv-2", TeamID: "team-2", Email: "new@x.dev", Status: domain.InvitationPending},
	}, nil)
	f.memberships.On("Add", mock.Anything, mock.MatchedBy(func(m *domain.Membership) bool {
		return m.UserID == "user-9" && m.Role == domain.RoleMember
	})).Return(nil).Twice()
	f.invitations.On("SetStatus", mock.Anything, "inv-1", domain.InvitationAccepted).Return(nil)
	f.invitations.On("SetStatus", mock.Anything, "inv-2", domain.InvitationAccepted).Return(nil)

	f.sessions.On("Save", mock.Anything, mock.Anything).Return(nil)

	creds, err := f.uc.Signup(context.Background(), "  NEW@x.dev ", "hunter2", "New")
	assert.NoError(t, err)
	assert.Equal(t, "user-9", creds.Profile.ID)
	assert.NotEmpty(t, creds.Token)
	f.memberships.AssertExpectations(t)
	f.invitations.AssertExpectations(t)
}

func TestSignupWithoutInvitationsStillSucceeds(t *testing.T) {
	f := newFixtures()

	f.profiles.On("Create", mock.Anything, mock.Anything).
		Return(&domain.Profile{ID: "user-9", Email: "solo@x.dev"}, nil)
	f.invitations.On("ListPendingByEmail", mock.Anything, "solo@x.dev").
		Return([]domain.Invitation{}, nil)
	f.sessions.On("Save", mock.Anything, mock.Anything).Return(nil)

	creds, err := f.uc.Signup(context.Background(), "solo@x.dev", "pw", "")
	assert.NoError(t, err)
	assert.NotNil(t, creds.Session)
	f.memberships.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestSignupDuplicateEmailIsConflict(t *testing.T) {
	f := newFixtures()

	f.profiles.On("Create", mock.Anything, mock.Anything).
		Return(nil, domain.ErrEmailTaken)

	_, err := f.uc.Signup(context.Background(), "taken@x.dev", "pw", "")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	var domainErr *domain.Error
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeConflict, domainErr.Code)
	f.sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSignupRejectsEmptyCredentials(t *testing.T) {
	f := newFixtures()
	_, err := f.uc.Signup(context.Background(), "", "pw", "")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	_, err = f.uc.Signup(context.Background(), "a@x.dev", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestLoginVerifiesPassword(t *testing.T) {
	f := newFixtures()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)

	f.profiles.On("GetByEmail", mock.Anything, "user@x.dev").
		Return(&domain.Profile{ID: "user-1", Email: "user@x.dev", PasswordHash: string(hash)}, nil)
	f.sessions.On("Save", mock.Anything, mock.Anything).Return(nil)

	creds, err := f.uc.Login(context.Background(), "user@x.dev", "correct")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", creds.Session.UserID)

	// The token carries the user and session it was minted for.
	token, err := jwt.Parse(creds.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, creds.Session.ID, claims["session_id"])
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	f := newFixtures()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)

	f.profiles.On("GetByEmail", mock.Anything, "user@x.dev").
		Return(&domain.Profile{ID: "user-1", PasswordHash: string(hash)}, nil)

	_, err := f.uc.Login(context.Background(), "user@x.dev", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLoginUnknownEmailIsUnauthorizedNotNotFound(t *testing.T) {
	f := newFixtures()
	f.profiles.On("GetByEmail", mock.Anything, "ghost@x.dev").
		Return(nil, domain.ErrProfileNotFound)

	_, err := f.uc.Login(context.Background(), "ghost@x.dev", "pw")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSelectTeamRequiresMembership(t *testing.T) {
	f := newFixtures()
	session := &domain.Session{ID: "sess-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}

	f.sessions.On("Get", mock.Anything, "sess-1").Return(session, nil)
	f.memberships.On("Get", mock.Anything, "team-1", "user-1").
		Return(nil, domain.ErrMembershipNotFound)

	_, err := f.uc.SelectTeam(context.Background(), "sess-1", "team-1")
	assert.ErrorIs(t, err, domain.ErrNotTeamMember)
}

func TestSelectTeamPersistsTeamOnSession(t *testing.T) {
	f := newFixtures()
	session := &domain.Session{ID: "sess-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}

	f.sessions.On("Get", mock.Anything, "sess-1").Return(session, nil)
	f.memberships.On("Get", mock.Anything, "team-1", "user-1").
		Return(&domain.Membership{TeamID: "team-1", UserID: "user-1", Role: domain.RoleMember}, nil)
	f.sessions.On("Save", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
		return s.TeamID == "team-1"
	})).Return(nil)

	updated, err := f.uc.SelectTeam(context.Background(), "sess-1", "team-1")
	assert.NoError(t, err)
	assert.Equal(t, "team-1", updated.TeamID)
}

func TestGetSessionDeletesExpired(t *testing.T) {
	f := newFixtures()
	expired := &domain.Session{ID: "sess-1", UserID: "user-1", ExpiresAt: time.Now().Add(-time.Minute)}

	f.sessions.On("Get", mock.Anything, "sess-1").Return(expired, nil)
	f.sessions.On("Delete", mock.Anything, "sess-1").Return(nil)

	_, err := f.uc.GetSession(context.Background(), "sess-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	f.sessions.AssertCalled(t, "Delete", mock.Anything, "sess-1")
}
