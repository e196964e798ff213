package repository

import (
	"context"

	"github.com/Nate91117/teamnotes/domain"
)

type GoalRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	// ListByTeam orders by sort_order ascending, then created_at descending.
	ListByTeam(ctx context.Context, teamID string) ([]domain.Goal, error)
	Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, id string) error
	// UpdateSortOrders rewrites sort_order = position for each id, in order.
	UpdateSortOrders(ctx context.Context, ids []string) error
	MaxSortOrder(ctx context.Context, teamID string) (int, error)
}

type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	ListByTeam(ctx context.Context, teamID string) ([]domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	// Delete removes the category and clears category_id on its goals in the
	// same transaction; the goals themselves survive.
	Delete(ctx context.Context, id string) error
}
