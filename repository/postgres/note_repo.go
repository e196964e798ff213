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

type noteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository returns a Postgres-backed implementation of NoteRepository.
func NewNoteRepository(pool *pgxpool.Pool) repository.NoteRepository {
	return &noteRepository{pool: pool}
}

const noteColumns = `id, user_id, team_id, title, content, linked_task_id, shared_to_dashboard, created_at, updated_at`

func (r *noteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	const query = `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`
	return scanNote(r.pool.QueryRow(ctx, query, id))
}

const listNotesQuery = `
	SELECT ` + noteColumns + `
	FROM notes
	WHERE ($1 = '' OR user_id = $1::uuid)
	  AND ($2 = '' OR team_id = $2::uuid)
	  AND (NOT $3 OR shared_to_dashboard)
	ORDER BY updated_at DESC
	`

func (r *noteRepository) List(ctx context.Context, filter repository.NoteFilter) ([]domain.Note, error) {
	rows, err := r.pool.Query(ctx, listNotesQuery, filter.UserID, filter.TeamID, filter.SharedToDashboard)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	if note == nil {
		return nil, domain.ErrInvalidPayload
	}
	if note.ID == "" {
		note.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO notes (id, user_id, team_id, title, content, linked_task_id, shared_to_dashboard)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		note.ID,
		note.UserID,
		note.TeamID,
		note.Title,
		note.Content,
		nullString(note.LinkedTaskID),
		note.SharedToDashboard,
	).Scan(&note.CreatedAt, &note.UpdatedAt); err != nil {
		return nil, err
	}
	return note, nil
}

func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	if note == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE notes
	SET title = $2,
		content = $3,
		linked_task_id = $4,
		shared_to_dashboard = $5,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		note.ID,
		note.Title,
		note.Content,
		nullString(note.LinkedTaskID),
		note.SharedToDashboard,
	).Scan(&note.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNoteNotFound
		}
		return err
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM notes WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func scanNote(row pgx.Row) (*domain.Note, error) {
	var note domain.Note
	var linkedTaskID *string
	if err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.TeamID,
		&note.Title,
		&note.Content,
		&linkedTaskID,
		&note.SharedToDashboard,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}
	note.LinkedTaskID = linkedTaskID
	return &note, nil
}
