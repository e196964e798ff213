package repository

import (
	"context"

	"github.com/Nate91117/teamnotes/domain"
)

type NoteFilter struct {
	UserID            string
	TeamID            string
	SharedToDashboard bool
}

type NoteRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Note, error)
	// List orders by updated_at descending.
	List(ctx context.Context, filter NoteFilter) ([]domain.Note, error)
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id string) error
}
