package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/pkg/dates"
	"github.com/Nate91117/teamnotes/repository"
)

// UseCase builds the team's read-only dashboard views: the goal board with
// per-goal progress, and the member overview with shared work fanned out per
// assignee.
type UseCase struct {
	goals       repository.GoalRepository
	categories  repository.CategoryRepository
	tasks       repository.TaskRepository
	notes       repository.NoteRepository
	links       repository.LinkRepository
	memberships repository.MembershipRepository
	profiles    repository.ProfileRepository
	logger      *zap.Logger
}

func New(goals repository.GoalRepository, categories repository.CategoryRepository, tasks repository.TaskRepository, notes repository.NoteRepository, links repository.LinkRepository, memberships repository.MembershipRepository, profiles repository.ProfileRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		goals:       goals,
		categories:  categories,
		tasks:       tasks,
		notes:       notes,
		links:       links,
		memberships: memberships,
		profiles:    profiles,
		logger:      logger,
	}
}

// GoalProgress is a goal annotated with task-derived completion.
type GoalProgress struct {
	domain.Goal
	Progress  int `json:"progress"`
	DoneTasks int `json:"done_tasks"`
	TotalTask int `json:"total_tasks"`
}

// GoalBoard is the team goal view with categories alongside.
type GoalBoard struct {
	Goals      []GoalProgress    `json:"goals"`
	Categories []domain.Category `json:"categories"`
}

// MemberOverview is one member's slice of the team dashboard.
type MemberOverview struct {
	Member       domain.Member `json:"member"`
	SharedTasks  []domain.Task `json:"shared_tasks"`
	SharedNotes  []domain.Note `json:"shared_notes"`
	OverdueCount int           `json:"overdue_count"`
}

// Board assembles the goal board. Goals, categories and the team's tasks are
// fetched in parallel; progress is the rounded share of done tasks among the
// tasks linked to each goal, 0% with no links.
func (uc *UseCase) Board(ctx context.Context, scope domain.Scope) (*GoalBoard, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}

	var (
		goals      []domain.Goal
		categories []domain.Category
		tasks      []domain.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goals, err = uc.goals.ListByTeam(gctx, scope.TeamID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = uc.categories.ListByTeam(gctx, scope.TeamID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = uc.tasks.List(gctx, repository.TaskFilter{
			TeamID:           scope.TeamID,
			ExcludeTemplates: true,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	type tally struct{ done, total int }
	tallies := make(map[string]tally)
	for _, t := range tasks {
		if t.LinkedGoalID == nil {
			continue
		}
		c := tallies[*t.LinkedGoalID]
		c.total++
		if t.IsDone() {
			c.done++
		}
		tallies[*t.LinkedGoalID] = c
	}

	goalIDs := make([]string, len(goals))
	for i := range goals {
		goalIDs[i] = goals[i].ID
	}
	members := map[string][]string{}
	if len(goalIDs) > 0 {
		var err error
		members, err = uc.links.ListByOwners(ctx, repository.LinkGoalMembers, goalIDs)
		if err != nil {
			return nil, err
		}
	}

	board := &GoalBoard{
		Goals:      make([]GoalProgress, 0, len(goals)),
		Categories: categories,
	}
	for _, goal := range goals {
		goal.AssignedMembers = members[goal.ID]
		c := tallies[goal.ID]
		board.Goals = append(board.Goals, GoalProgress{
			Goal:      goal,
			Progress:  domain.ProgressPercent(c.done, c.total),
			DoneTasks: c.done,
			TotalTask: c.total,
		})
	}
	return board, nil
}

// Overview assembles the per-member dashboard. Shared tasks appear once under
// each assignee; a shared task with no assignees shows under its creator.
// Every roster member gets an entry even with nothing shared. Overdue counts
// tasks due on a calendar day strictly before today that are not done.
func (uc *UseCase) Overview(ctx context.Context, scope domain.Scope) ([]MemberOverview, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}

	var (
		memberships []domain.Membership
		tasks       []domain.Task
		notes       []domain.Note
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		memberships, err = uc.memberships.ListByTeam(gctx, scope.TeamID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = uc.tasks.List(gctx, repository.TaskFilter{
			TeamID:            scope.TeamID,
			SharedToDashboard: true,
			ExcludeTemplates:  true,
		})
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = uc.notes.List(gctx, repository.NoteFilter{
			TeamID:            scope.TeamID,
			SharedToDashboard: true,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	userIDs := make([]string, len(memberships))
	for i := range memberships {
		userIDs[i] = memberships[i].UserID
	}
	profiles, err := uc.profiles.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	profileByID := make(map[string]domain.Profile, len(profiles))
	for _, p := range profiles {
		profileByID[p.ID] = p
	}

	taskIDs := make([]string, len(tasks))
	for i := range tasks {
		taskIDs[i] = tasks[i].ID
	}
	assignees := map[string][]string{}
	if len(taskIDs) > 0 {
		assignees, err = uc.links.ListByOwners(ctx, repository.LinkTaskAssignees, taskIDs)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	overviews := make([]MemberOverview, 0, len(memberships))
	index := make(map[string]int, len(memberships))
	for _, m := range memberships {
		p, ok := profileByID[m.UserID]
		if !ok {
			uc.logger.Warn("membership without profile", zap.String("user_id", m.UserID))
			continue
		}
		index[m.UserID] = len(overviews)
		overviews = append(overviews, MemberOverview{
			Member: domain.Member{
				ID:          p.ID,
				Email:       p.Email,
				DisplayName: p.DisplayName,
				Role:        m.Role,
				JoinedAt:    m.JoinedAt,
			},
			SharedTasks: []domain.Task{},
			SharedNotes: []domain.Note{},
		})
	}

	for _, t := range tasks {
		t.Assignees = assignees[t.ID]
		owners := t.Assignees
		if len(owners) == 0 {
			owners = []string{t.UserID}
		}
		overdue := t.DueDate != nil && !t.IsDone() && dates.IsOverdue(*t.DueDate, now)
		for _, userID := range owners {
			i, ok := index[userID]
			if !ok {
				continue
			}
			overviews[i].SharedTasks = append(overviews[i].SharedTasks, t)
			if overdue {
				overviews[i].OverdueCount++
			}
		}
	}

	for _, n := range notes {
		if i, ok := index[n.UserID]; ok {
			overviews[i].SharedNotes = append(overviews[i].SharedNotes, n)
		}
	}
	return overviews, nil
}
