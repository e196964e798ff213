package repository

import (
	"context"

	"github.com/Nate91117/teamnotes/domain"
)

type ReportRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	// ListByTeam orders by created_at descending.
	ListByTeam(ctx context.Context, teamID string) ([]domain.Report, error)
	Create(ctx context.Context, report *domain.Report) (*domain.Report, error)
	Update(ctx context.Context, report *domain.Report) error
	Delete(ctx context.Context, id string) error
}
