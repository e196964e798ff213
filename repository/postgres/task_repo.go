package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, user_id, team_id, title, description, notes, status, due_date, completed_at,
	shared_to_dashboard, sort_order, linked_goal_id, is_recurring, source_task_id, period, created_at, updated_at`

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

// Untyped parameters in an "$n = ''" guard resolve as text, so every uuid
// column comparison needs the explicit cast.
const listTasksQuery = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR user_id = $1::uuid)
	  AND ($2 = '' OR team_id = $2::uuid)
	  AND ($3 = '' OR status = $3)
	  AND ($4 = '' OR linked_goal_id = $4::uuid)
	  AND (NOT $5 OR shared_to_dashboard)
	  AND (NOT $6 OR NOT (is_recurring AND source_task_id IS NULL))
	ORDER BY sort_order ASC, created_at DESC
	`

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, listTasksQuery,
		filter.UserID,
		filter.TeamID,
		string(filter.Status),
		filter.LinkedGoalID,
		filter.SharedToDashboard,
		filter.ExcludeTemplates,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) ListTemplates(ctx context.Context, userID, teamID string) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1 AND team_id = $2 AND is_recurring AND source_task_id IS NULL
	`
	rows, err := r.pool.Query(ctx, query, userID, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) InstanceExists(ctx context.Context, sourceTaskID, period string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tasks WHERE source_task_id = $1 AND period = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, sourceTaskID, period).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = domain.TaskTodo
	}

	const query = `
	INSERT INTO tasks (id, user_id, team_id, title, description, notes, status, due_date, completed_at,
		shared_to_dashboard, sort_order, linked_goal_id, is_recurring, source_task_id, period)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.TeamID,
		task.Title,
		task.Description,
		task.Notes,
		task.Status,
		nullDueDate(task.DueDate),
		task.CompletedAt,
		task.SharedToDashboard,
		task.SortOrder,
		nullString(task.LinkedGoalID),
		task.IsRecurring,
		nullString(task.SourceTaskID),
		task.Period,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	return task, nil
}

// CreateInstance inserts a materialized copy of a template. The partial
// unique index on (source_task_id, period) absorbs concurrent first-use in
// the same period: the loser's insert becomes a no-op and is reported false.
func (r *taskRepository) CreateInstance(ctx context.Context, task *domain.Task) (bool, error) {
	if task == nil || task.SourceTaskID == nil || task.Period == "" {
		return false, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, team_id, title, description, notes, status, due_date,
		shared_to_dashboard, sort_order, linked_goal_id, is_recurring, source_task_id, period)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (source_task_id, period) WHERE source_task_id IS NOT NULL DO NOTHING
	RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.TeamID,
		task.Title,
		task.Description,
		task.Notes,
		domain.TaskTodo,
		nullDueDate(task.DueDate),
		task.SharedToDashboard,
		task.SortOrder,
		nullString(task.LinkedGoalID),
		true,
		*task.SourceTaskID,
		task.Period,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	task.Status = domain.TaskTodo
	task.CompletedAt = nil
	return true, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		notes = $4,
		status = $5,
		due_date = $6,
		completed_at = $7,
		shared_to_dashboard = $8,
		sort_order = $9,
		linked_goal_id = $10,
		is_recurring = $11,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Notes,
		task.Status,
		nullDueDate(task.DueDate),
		task.CompletedAt,
		task.SharedToDashboard,
		task.SortOrder,
		nullString(task.LinkedGoalID),
		task.IsRecurring,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

// SetStatus writes status and completed_at together so the pair can never be
// observed out of lockstep.
func (r *taskRepository) SetStatus(ctx context.Context, id string, status domain.TaskStatus, completedAt *time.Time) error {
	const query = `
	UPDATE tasks
	SET status = $2, completed_at = $3, updated_at = NOW()
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, status, completedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) UpdateSortOrders(ctx context.Context, ids []string) error {
	return updateSortOrders(ctx, r.pool, "tasks", ids)
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var (
		due          *time.Time
		completedAt  *time.Time
		linkedGoalID *string
		sourceTaskID *string
		period       *string
	)
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.TeamID,
		&task.Title,
		&task.Description,
		&task.Notes,
		&task.Status,
		&due,
		&completedAt,
		&task.SharedToDashboard,
		&task.SortOrder,
		&linkedGoalID,
		&task.IsRecurring,
		&sourceTaskID,
		&period,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task.DueDate = due
	task.CompletedAt = completedAt
	task.LinkedGoalID = linkedGoalID
	task.SourceTaskID = sourceTaskID
	if period != nil {
		task.Period = *period
	}
	return &task, nil
}
