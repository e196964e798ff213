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

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository returns a Postgres-backed implementation of TeamRepository.
func NewTeamRepository(pool *pgxpool.Pool) repository.TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	const query = `SELECT id, name, leader_id, created_at FROM teams WHERE id = $1`
	return scanTeam(r.pool.QueryRow(ctx, query, id))
}

func (r *teamRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Team, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, name, leader_id, created_at FROM teams WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

// Create inserts the team together with the leader's membership row so a
// team never exists without its leader being a member.
func (r *teamRepository) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	if team == nil || team.LeaderID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if team.ID == "" {
		team.ID = uuid.NewString()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertTeam = `
	INSERT INTO teams (id, name, leader_id)
	VALUES ($1, $2, $3)
	RETURNING created_at
	`
	if err := tx.QueryRow(ctx, insertTeam, team.ID, team.Name, team.LeaderID).Scan(&team.CreatedAt); err != nil {
		return nil, err
	}

	const insertLeader = `
	INSERT INTO team_members (team_id, user_id, role)
	VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, insertLeader, team.ID, team.LeaderID, domain.RoleLeader); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return team, nil
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	if team == nil {
		return domain.ErrInvalidPayload
	}
	const query = `UPDATE teams SET name = $2, leader_id = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, team.ID, team.Name, team.LeaderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM teams WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

func scanTeam(row pgx.Row) (*domain.Team, error) {
	var team domain.Team
	if err := row.Scan(&team.ID, &team.Name, &team.LeaderID, &team.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

type membershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository returns a Postgres-backed implementation of MembershipRepository.
func NewMembershipRepository(pool *pgxpool.Pool) repository.MembershipRepository {
	return &membershipRepository{pool: pool}
}

func (r *membershipRepository) Get(ctx context.Context, teamID, userID string) (*domain.Membership, error) {
	const query = `
	SELECT team_id, user_id, role, joined_at
	FROM team_members
	WHERE team_id = $1 AND user_id = $2
	`
	var m domain.Membership
	if err := r.pool.QueryRow(ctx, query, teamID, userID).Scan(&m.TeamID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) ListByUser(ctx context.Context, userID string) ([]domain.Membership, error) {
	const query = `
	SELECT team_id, user_id, role, joined_at
	FROM team_members
	WHERE user_id = $1
	ORDER BY joined_at
	`
	return r.list(ctx, query, userID)
}

func (r *membershipRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Membership, error) {
	const query = `
	SELECT team_id, user_id, role, joined_at
	FROM team_members
	WHERE team_id = $1
	ORDER BY joined_at
	`
	return r.list(ctx, query, teamID)
}

func (r *membershipRepository) list(ctx context.Context, query string, arg string) ([]domain.Membership, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *membershipRepository) Add(ctx context.Context, membership *domain.Membership) error {
	if membership == nil {
		return domain.ErrInvalidPayload
	}
	if membership.Role == "" {
		membership.Role = domain.RoleMember
	}
	const query = `
	INSERT INTO team_members (team_id, user_id, role)
	VALUES ($1, $2, $3)
	ON CONFLICT (team_id, user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, membership.TeamID, membership.UserID, membership.Role)
	return err
}

func (r *membershipRepository) Remove(ctx context.Context, teamID, userID string) error {
	const query = `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, teamID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}
