package repository

import "context"

// LinkKind names one of the many-to-many join tables. Each kind has a fixed
// owner side and target side.
type LinkKind string

const (
	// LinkTaskAssignees maps task -> assigned user.
	LinkTaskAssignees LinkKind = "task_assignees"
	// LinkTaskPersonalGoals maps task -> personal goal.
	LinkTaskPersonalGoals LinkKind = "task_personal_goal_links"
	// LinkGoalMembers maps goal -> assigned user.
	LinkGoalMembers LinkKind = "goal_members"
	// LinkPersonalGoalGoals maps personal goal -> team goal.
	LinkPersonalGoalGoals LinkKind = "goal_personal_goal_links"
)

// LinkRepository maintains the many-to-many link sets. Replace is the only
// mutation: the stored set for an owner always ends up equal to the provided
// set, with no stale rows and no duplicates.
type LinkRepository interface {
	// Replace deletes every link row for the owner and inserts the provided
	// target set, inside one transaction. An empty set clears the links.
	Replace(ctx context.Context, kind LinkKind, ownerID string, targetIDs []string) error
	ListByOwner(ctx context.Context, kind LinkKind, ownerID string) ([]string, error)
	// ListByOwners fetches links for all owners in one query and groups them
	// by owner. Every requested owner is present in the result, with an
	// empty slice when it has no links.
	ListByOwners(ctx context.Context, kind LinkKind, ownerIDs []string) (map[string][]string, error)
	ListByTarget(ctx context.Context, kind LinkKind, targetID string) ([]string, error)
}
