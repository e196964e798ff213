package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
)

type invitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository returns a Postgres-backed implementation of InvitationRepository.
func NewInvitationRepository(pool *pgxpool.Pool) repository.InvitationRepository {
	return &invitationRepository{pool: pool}
}

const invitationColumns = `id, team_id, email, invited_by, status, created_at`

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	const query = `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	return scanInvitation(r.pool.QueryRow(ctx, query, id))
}

func (r *invitationRepository) ListPendingByEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	const query = `
	SELECT ` + invitationColumns + `
	FROM invitations
	WHERE lower(email) = lower($1) AND status = $2
	`
	return r.list(ctx, query, email, domain.InvitationPending)
}

func (r *invitationRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Invitation, error) {
	const query = `
	SELECT ` + invitationColumns + `
	FROM invitations
	WHERE team_id = $1
	ORDER BY created_at DESC
	`
	return r.list(ctx, query, teamID)
}

func (r *invitationRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Invitation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

func (r *invitationRepository) Create(ctx context.Context, invitation *domain.Invitation) (*domain.Invitation, error) {
	if invitation == nil {
		return nil, domain.ErrInvalidPayload
	}
	if invitation.ID == "" {
		invitation.ID = uuid.NewString()
	}
	if invitation.Status == "" {
		invitation.Status = domain.InvitationPending
	}

	const query = `
	INSERT INTO invitations (id, team_id, email, invited_by, status)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		invitation.ID,
		invitation.TeamID,
		invitation.Email,
		invitation.InvitedBy,
		invitation.Status,
	).Scan(&invitation.CreatedAt); err != nil {
		return nil, err
	}
	return invitation, nil
}

func (r *invitationRepository) SetStatus(ctx context.Context, id string, status domain.InvitationStatus) error {
	const query = `UPDATE invitations SET status = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

func scanInvitation(row pgx.Row) (*domain.Invitation, error) {
	var inv domain.Invitation
	if err := row.Scan(&inv.ID, &inv.TeamID, &inv.Email, &inv.InvitedBy, &inv.Status, &inv.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &inv, nil
}
