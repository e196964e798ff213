package repository

import (
	"context"

	"github.com/Nate91117/teamnotes/domain"
)

type TeamRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Team, error)
	// Create inserts the team and its leader membership in one transaction.
	Create(ctx context.Context, team *domain.Team) (*domain.Team, error)
	Update(ctx context.Context, team *domain.Team) error
	Delete(ctx context.Context, id string) error
}

type MembershipRepository interface {
	Get(ctx context.Context, teamID, userID string) (*domain.Membership, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Membership, error)
	ListByTeam(ctx context.Context, teamID string) ([]domain.Membership, error)
	Add(ctx context.Context, membership *domain.Membership) error
	Remove(ctx context.Context, teamID, userID string) error
}

type InvitationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Invitation, error)
	ListPendingByEmail(ctx context.Context, email string) ([]domain.Invitation, error)
	ListByTeam(ctx context.Context, teamID string) ([]domain.Invitation, error)
	Create(ctx context.Context, invitation *domain.Invitation) (*domain.Invitation, error)
	SetStatus(ctx context.Context, id string, status domain.InvitationStatus) error
}
