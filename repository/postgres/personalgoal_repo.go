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

type personalGoalRepository struct {
	pool *pgxpool.Pool
}

// NewPersonalGoalRepository returns a Postgres-backed implementation of PersonalGoalRepository.
func NewPersonalGoalRepository(pool *pgxpool.Pool) repository.PersonalGoalRepository {
	return &personalGoalRepository{pool: pool}
}

const personalGoalColumns = `id, user_id, team_id, title, description, year, status, sort_order, created_at, updated_at`

func (r *personalGoalRepository) GetByID(ctx context.Context, id string) (*domain.PersonalGoal, error) {
	const query = `SELECT ` + personalGoalColumns + ` FROM personal_goals WHERE id = $1`
	return scanPersonalGoal(r.pool.QueryRow(ctx, query, id))
}

const listPersonalGoalsQuery = `
	SELECT ` + personalGoalColumns + `
	FROM personal_goals
	WHERE ($1 = '' OR user_id = $1::uuid)
	  AND ($2 = '' OR team_id = $2::uuid)
	  AND ($3 = 0 OR year = $3)
	ORDER BY sort_order ASC
	`

func (r *personalGoalRepository) List(ctx context.Context, filter repository.PersonalGoalFilter) ([]domain.PersonalGoal, error) {
	rows, err := r.pool.Query(ctx, listPersonalGoalsQuery, filter.UserID, filter.TeamID, filter.Year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.PersonalGoal
	for rows.Next() {
		goal, err := scanPersonalGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

func (r *personalGoalRepository) Create(ctx context.Context, goal *domain.PersonalGoal) (*domain.PersonalGoal, error) {
	if goal == nil {
		return nil, domain.ErrInvalidPayload
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if goal.Status == "" {
		goal.Status = domain.PersonalGoalActive
	}

	const query = `
	INSERT INTO personal_goals (id, user_id, team_id, title, description, year, status, sort_order)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		goal.ID,
		goal.UserID,
		goal.TeamID,
		goal.Title,
		goal.Description,
		goal.Year,
		goal.Status,
		goal.SortOrder,
	).Scan(&goal.CreatedAt, &goal.UpdatedAt); err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *personalGoalRepository) Update(ctx context.Context, goal *domain.PersonalGoal) error {
	if goal == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE personal_goals
	SET title = $2,
		description = $3,
		year = $4,
		status = $5,
		sort_order = $6,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		goal.ID,
		goal.Title,
		goal.Description,
		goal.Year,
		goal.Status,
		goal.SortOrder,
	).Scan(&goal.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrPersonalGoalNotFound
		}
		return err
	}
	return nil
}

func (r *personalGoalRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM personal_goals WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPersonalGoalNotFound
	}
	return nil
}

func (r *personalGoalRepository) UpdateSortOrders(ctx context.Context, ids []string) error {
	return updateSortOrders(ctx, r.pool, "personal_goals", ids)
}

func scanPersonalGoal(row pgx.Row) (*domain.PersonalGoal, error) {
	var goal domain.PersonalGoal
	if err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.TeamID,
		&goal.Title,
		&goal.Description,
		&goal.Year,
		&goal.Status,
		&goal.SortOrder,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPersonalGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}
