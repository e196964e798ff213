package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
)

// linkTable describes the physical shape of one join table.
type linkTable struct {
	name   string
	owner  string
	target string
}

var linkTables = map[repository.LinkKind]linkTable{
	repository.LinkTaskAssignees:     {name: "task_assignees", owner: "task_id", target: "user_id"},
	repository.LinkTaskPersonalGoals: {name: "task_personal_goal_links", owner: "task_id", target: "personal_goal_id"},
	repository.LinkGoalMembers:       {name: "goal_members", owner: "goal_id", target: "user_id"},
	repository.LinkPersonalGoalGoals: {name: "goal_personal_goal_links", owner: "personal_goal_id", target: "goal_id"},
}

type linkRepository struct {
	pool *pgxpool.Pool
}

// NewLinkRepository returns a Postgres-backed implementation of LinkRepository.
func NewLinkRepository(pool *pgxpool.Pool) repository.LinkRepository {
	return &linkRepository{pool: pool}
}

// Replace swaps the full link set for an owner: delete everything, insert
// the provided targets, one transaction. Running it twice with the same set
// leaves the stored set unchanged.
func (r *linkRepository) Replace(ctx context.Context, kind repository.LinkKind, ownerID string, targetIDs []string) error {
	table, ok := linkTables[kind]
	if !ok {
		return domain.ErrInvalidPayload
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	deleteQuery := `DELETE FROM ` + table.name + ` WHERE ` + table.owner + ` = $1`
	if _, err := tx.Exec(ctx, deleteQuery, ownerID); err != nil {
		return err
	}

	if len(targetIDs) > 0 {
		insertQuery := `
		INSERT INTO ` + table.name + ` (` + table.owner + `, ` + table.target + `)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
		`
		if _, err := tx.Exec(ctx, insertQuery, ownerID, dedupe(targetIDs)); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *linkRepository) ListByOwner(ctx context.Context, kind repository.LinkKind, ownerID string) ([]string, error) {
	table, ok := linkTables[kind]
	if !ok {
		return nil, domain.ErrInvalidPayload
	}

	query := `SELECT ` + table.target + ` FROM ` + table.name + ` WHERE ` + table.owner + ` = $1`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	targets := []string{}
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}

// ListByOwners resolves links for a whole collection in one round-trip and
// groups them by owner. Owners without links map to empty slices so callers
// never need a presence check.
func (r *linkRepository) ListByOwners(ctx context.Context, kind repository.LinkKind, ownerIDs []string) (map[string][]string, error) {
	table, ok := linkTables[kind]
	if !ok {
		return nil, domain.ErrInvalidPayload
	}

	grouped := make(map[string][]string, len(ownerIDs))
	for _, ownerID := range ownerIDs {
		grouped[ownerID] = []string{}
	}
	if len(ownerIDs) == 0 {
		return grouped, nil
	}

	query := `SELECT ` + table.owner + `, ` + table.target + ` FROM ` + table.name + ` WHERE ` + table.owner + ` = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ownerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var owner, target string
		if err := rows.Scan(&owner, &target); err != nil {
			return nil, err
		}
		grouped[owner] = append(grouped[owner], target)
	}
	return grouped, rows.Err()
}

func (r *linkRepository) ListByTarget(ctx context.Context, kind repository.LinkKind, targetID string) ([]string, error) {
	table, ok := linkTables[kind]
	if !ok {
		return nil, domain.ErrInvalidPayload
	}

	query := `SELECT ` + table.owner + ` FROM ` + table.name + ` WHERE ` + table.target + ` = $1`
	rows, err := r.pool.Query(ctx, query, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owners := []string{}
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
