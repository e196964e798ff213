package repository

import (
	"context"

	"github.com/Nate91117/teamnotes/domain"
)

type PersonalGoalFilter struct {
	UserID string
	TeamID string
	Year   int
}

type PersonalGoalRepository interface {
	GetByID(ctx context.Context, id string) (*domain.PersonalGoal, error)
	// List orders by sort_order ascending. Year zero means all years.
	List(ctx context.Context, filter PersonalGoalFilter) ([]domain.PersonalGoal, error)
	Create(ctx context.Context, goal *domain.PersonalGoal) (*domain.PersonalGoal, error)
	Update(ctx context.Context, goal *domain.PersonalGoal) error
	Delete(ctx context.Context, id string) error
	UpdateSortOrders(ctx context.Context, ids []string) error
}
