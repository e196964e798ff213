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

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a Postgres-backed implementation of ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) repository.ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, team_id, title, assigned_user_id, created_by, created_at, updated_at`

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	const query = `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	return scanReport(r.pool.QueryRow(ctx, query, id))
}

func (r *reportRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Report, error) {
	const query = `
	SELECT ` + reportColumns + `
	FROM reports
	WHERE team_id = $1
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	if report == nil {
		return nil, domain.ErrInvalidPayload
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO reports (id, team_id, title, assigned_user_id, created_by)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		report.ID,
		report.TeamID,
		report.Title,
		report.AssignedUserID,
		report.CreatedBy,
	).Scan(&report.CreatedAt, &report.UpdatedAt); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *reportRepository) Update(ctx context.Context, report *domain.Report) error {
	if report == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE reports
	SET title = $2,
		assigned_user_id = $3,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		report.ID,
		report.Title,
		report.AssignedUserID,
	).Scan(&report.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrReportNotFound
		}
		return err
	}
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM reports WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var report domain.Report
	if err := row.Scan(
		&report.ID,
		&report.TeamID,
		&report.Title,
		&report.AssignedUserID,
		&report.CreatedBy,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}
