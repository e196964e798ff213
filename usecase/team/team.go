package team

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
	"github.com/Nate91117/teamnotes/usecase"
)

// UseCase manages teams, memberships and invitations. Leader-only operations
// verify the caller's role before touching anything.
type UseCase struct {
	teams       repository.TeamRepository
	memberships repository.MembershipRepository
	invitations repository.InvitationRepository
	profiles    repository.ProfileRepository
	notifier    usecase.ChangeNotifier
	logger      *zap.Logger
}

func New(teams repository.TeamRepository, memberships repository.MembershipRepository, invitations repository.InvitationRepository, profiles repository.ProfileRepository, notifier usecase.ChangeNotifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		teams:       teams,
		memberships: memberships,
		invitations: invitations,
		profiles:    profiles,
		notifier:    notifier,
		logger:      logger,
	}
}

// Create makes a team with the caller as leader. The team row and the leader
// membership land in one transaction.
func (uc *UseCase) Create(ctx context.Context, userID, name string) (*domain.Team, error) {
	if userID == "" || name == "" {
		return nil, domain.ErrInvalidPayload
	}
	team := &domain.Team{Name: name, LeaderID: userID}
	created, err := uc.teams.Create(ctx, team)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("team created", zap.String("team_id", created.ID), zap.String("leader_id", userID))
	return created, nil
}

// ListMine returns every team the user belongs to.
func (uc *UseCase) ListMine(ctx context.Context, userID string) ([]domain.Team, error) {
	memberships, err := uc.memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []domain.Team{}, nil
	}
	ids := make([]string, len(memberships))
	for i := range memberships {
		ids[i] = memberships[i].TeamID
	}
	return uc.teams.ListByIDs(ctx, ids)
}

// Membership returns the caller's membership in the team, or
// ErrNotTeamMember when there is none.
func (uc *UseCase) Membership(ctx context.Context, teamID, userID string) (*domain.Membership, error) {
	membership, err := uc.memberships.Get(ctx, teamID, userID)
	if err == domain.ErrMembershipNotFound {
		return nil, domain.ErrNotTeamMember
	}
	return membership, err
}

// Members returns the team roster joined with profile data, leader first.
func (uc *UseCase) Members(ctx context.Context, scope domain.Scope) ([]domain.Member, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	memberships, err := uc.memberships.ListByTeam(ctx, scope.TeamID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []domain.Member{}, nil
	}

	ids := make([]string, len(memberships))
	for i := range memberships {
		ids[i] = memberships[i].UserID
	}
	profiles, err := uc.profiles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	members := make([]domain.Member, 0, len(memberships))
	for _, m := range memberships {
		p, ok := byID[m.UserID]
		if !ok {
			// Membership without a profile row should not happen; skip it
			// rather than render a hole.
			uc.logger.Warn("membership without profile", zap.String("user_id", m.UserID))
			continue
		}
		member := domain.Member{
			ID:          p.ID,
			Email:       p.Email,
			DisplayName: p.DisplayName,
			Role:        m.Role,
			JoinedAt:    m.JoinedAt,
		}
		if m.IsLeader() {
			members = append([]domain.Member{member}, members...)
		} else {
			members = append(members, member)
		}
	}
	return members, nil
}

// Invite records a pending invitation for an email address. Leader only.
func (uc *UseCase) Invite(ctx context.Context, scope domain.Scope, email string) (*domain.Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := uc.requireLeader(ctx, scope); err != nil {
		return nil, err
	}

	invitation := &domain.Invitation{
		TeamID:    scope.TeamID,
		Email:     email,
		InvitedBy: scope.UserID,
		Status:    domain.InvitationPending,
	}
	created, err := uc.invitations.Create(ctx, invitation)
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, "create", scope, created.ID)
	return created, nil
}

// ListInvitations returns the team's invitations. Leader only.
func (uc *UseCase) ListInvitations(ctx context.Context, scope domain.Scope) ([]domain.Invitation, error) {
	if err := uc.requireLeader(ctx, scope); err != nil {
		return nil, err
	}
	return uc.invitations.ListByTeam(ctx, scope.TeamID)
}

// RemoveMember drops a member from the team. Leader only; the leader cannot
// remove themselves.
func (uc *UseCase) RemoveMember(ctx context.Context, scope domain.Scope, userID string) error {
	if err := uc.requireLeader(ctx, scope); err != nil {
		return err
	}
	if userID == scope.UserID {
		return domain.NewError(domain.ErrCodeInvalid, "leader cannot leave their own team")
	}
	if err := uc.memberships.Remove(ctx, scope.TeamID, userID); err != nil {
		return err
	}
	uc.notify(ctx, "delete", scope, userID)
	return nil
}

func (uc *UseCase) requireLeader(ctx context.Context, scope domain.Scope) error {
	membership, err := uc.Membership(ctx, scope.TeamID, scope.UserID)
	if err != nil {
		return err
	}
	if !membership.IsLeader() {
		return domain.ErrNotTeamLeader
	}
	return nil
}

func (uc *UseCase) notify(ctx context.Context, operation string, scope domain.Scope, entityID string) {
	if err := usecase.Notify(ctx, uc.notifier, "team_members", operation, scope, entityID); err != nil {
		uc.logger.Warn("change notification failed", zap.Error(err))
	}
}
