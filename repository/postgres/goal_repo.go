package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
)

type goalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository returns a Postgres-backed implementation of GoalRepository.
func NewGoalRepository(pool *pgxpool.Pool) repository.GoalRepository {
	return &goalRepository{pool: pool}
}

const goalColumns = `id, team_id, title, description, notes, show_notes, status, category_id, due_date, sort_order, created_at, updated_at`

func (r *goalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	const query = `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`
	return scanGoal(r.pool.QueryRow(ctx, query, id))
}

func (r *goalRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Goal, error) {
	const query = `
	SELECT ` + goalColumns + `
	FROM goals
	WHERE team_id = $1
	ORDER BY sort_order ASC, created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if goal == nil {
		return nil, domain.ErrInvalidPayload
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if goal.Status == "" {
		goal.Status = domain.GoalActive
	}

	const query = `
	INSERT INTO goals (id, team_id, title, description, notes, show_notes, status, category_id, due_date, sort_order)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		goal.ID,
		goal.TeamID,
		goal.Title,
		goal.Description,
		goal.Notes,
		goal.ShowNotes,
		goal.Status,
		nullString(goal.CategoryID),
		nullDueDate(goal.DueDate),
		goal.SortOrder,
	).Scan(&goal.CreatedAt, &goal.UpdatedAt); err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	if goal == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE goals
	SET title = $2,
		description = $3,
		notes = $4,
		show_notes = $5,
		status = $6,
		category_id = $7,
		due_date = $8,
		sort_order = $9,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		goal.ID,
		goal.Title,
		goal.Description,
		goal.Notes,
		goal.ShowNotes,
		goal.Status,
		nullString(goal.CategoryID),
		nullDueDate(goal.DueDate),
		goal.SortOrder,
	).Scan(&goal.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrGoalNotFound
		}
		return err
	}
	return nil
}

func (r *goalRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM goals WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (r *goalRepository) UpdateSortOrders(ctx context.Context, ids []string) error {
	return updateSortOrders(ctx, r.pool, "goals", ids)
}

func (r *goalRepository) MaxSortOrder(ctx context.Context, teamID string) (int, error) {
	const query = `SELECT COALESCE(MAX(sort_order), -1) FROM goals WHERE team_id = $1`
	var max int
	if err := r.pool.QueryRow(ctx, query, teamID).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var goal domain.Goal
	var (
		categoryID *string
		due        *time.Time
	)
	if err := row.Scan(
		&goal.ID,
		&goal.TeamID,
		&goal.Title,
		&goal.Description,
		&goal.Notes,
		&goal.ShowNotes,
		&goal.Status,
		&categoryID,
		&due,
		&goal.SortOrder,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	goal.CategoryID = categoryID
	goal.DueDate = due
	return &goal, nil
}

// updateSortOrders rewrites sort_order = position for the full reordered id
// list in one batched round-trip. Per-row failures are collected rather than
// aborting the remaining writes.
func updateSortOrders(ctx context.Context, pool *pgxpool.Pool, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `UPDATE ` + table + ` SET sort_order = $2 WHERE id = $1`
	for position, id := range ids {
		batch.Queue(query, id, position)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	var result *multierror.Error
	for range ids {
		if _, err := results.Exec(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
