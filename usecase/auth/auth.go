package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
)

// UseCase covers signup, login and the Redis-backed session lifecycle.
// Signup also consumes any pending invitations for the new account's email,
// joining the matching teams automatically.
type UseCase struct {
	profiles    repository.ProfileRepository
	sessions    repository.SessionRepository
	memberships repository.MembershipRepository
	invitations repository.InvitationRepository
	jwtSecret   string
	sessionTTL  time.Duration
	logger      *zap.Logger
}

func New(profiles repository.ProfileRepository, sessions repository.SessionRepository, memberships repository.MembershipRepository, invitations repository.InvitationRepository, jwtSecret string, sessionTTL time.Duration, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		profiles:    profiles,
		sessions:    sessions,
		memberships: memberships,
		invitations: invitations,
		jwtSecret:   jwtSecret,
		sessionTTL:  sessionTTL,
		logger:      logger,
	}
}

// Credentials is the result of a successful signup or login.
type Credentials struct {
	Profile *domain.Profile `json:"profile"`
	Session *domain.Session `json:"-"`
	Token   string          `json:"token"`
}

// Signup registers a profile and logs it in. Pending invitations addressed
// to the email become accepted memberships; a failure on one invitation is
// logged and the rest still apply.
func (uc *UseCase) Signup(ctx context.Context, email, password, displayName string) (*Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidPayload
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}

	profile := &domain.Profile{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	}
	created, err := uc.profiles.Create(ctx, profile)
	if err != nil {
		return nil, err
	}

	uc.acceptInvitations(ctx, created)

	return uc.issue(ctx, created)
}

// acceptInvitations joins the new profile to every team that invited its
// email before signup.
func (uc *UseCase) acceptInvitations(ctx context.Context, profile *domain.Profile) {
	pending, err := uc.invitations.ListPendingByEmail(ctx, profile.Email)
	if err != nil {
		uc.logger.Error("failed to load pending invitations", zap.String("user_id", profile.ID), zap.Error(err))
		return
	}
	for _, inv := range pending {
		membership := &domain.Membership{
			TeamID: inv.TeamID,
			UserID: profile.ID,
			Role:   domain.RoleMember,
		}
		if err := uc.memberships.Add(ctx, membership); err != nil {
			uc.logger.Error("failed to join invited team",
				zap.String("team_id", inv.TeamID),
				zap.String("user_id", profile.ID),
				zap.Error(err))
			continue
		}
		if err := uc.invitations.SetStatus(ctx, inv.ID, domain.InvitationAccepted); err != nil {
			uc.logger.Error("failed to mark invitation accepted", zap.String("invitation_id", inv.ID), zap.Error(err))
		}
		uc.logger.Info("invitation accepted at signup",
			zap.String("team_id", inv.TeamID),
			zap.String("user_id", profile.ID))
	}
}

// Login verifies the password and issues a fresh session and token.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	profile, err := uc.profiles.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrProfileNotFound {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.issue(ctx, profile)
}

func (uc *UseCase) issue(ctx context.Context, profile *domain.Profile) (*Credentials, error) {
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    profile.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(uc.sessionTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	token, err := uc.signToken(session)
	if err != nil {
		return nil, err
	}
	return &Credentials{Profile: profile, Session: session, Token: token}, nil
}

func (uc *UseCase) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    session.UserID,
		"session_id": session.ID,
		"exp":        session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "failed to sign token", err)
	}
	return signed, nil
}

// GetSession loads a live session, deleting it when expired.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// SelectTeam records the session's current team after verifying membership.
func (uc *UseCase) SelectTeam(ctx context.Context, sessionID, teamID string) (*domain.Session, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.memberships.Get(ctx, teamID, session.UserID); err != nil {
		if err == domain.ErrMembershipNotFound {
			return nil, domain.ErrNotTeamMember
		}
		return nil, err
	}
	session.TeamID = teamID
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// RefreshSession extends the session's TTL.
func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(uc.sessionTTL.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(uc.sessionTTL)
	return session, nil
}

// Logout revokes the session.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// Profile returns the profile behind a user id.
func (uc *UseCase) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	return uc.profiles.GetByID(ctx, userID)
}
