package store

import (
	"context"
	"errors"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to stop callers from accidentally opening transactions
// within transactions.
type Store interface {
	Users() Users
	Workspaces() Workspaces
	Projects() Projects
	Tasks() Tasks
	Invites() Invites
	Activities() Activities

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	// This is the recommended way to run multi-step writes (ownership
	// transfer, invite acceptance).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by email, used when inviting by address.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error
}

type Workspaces interface {
	// CreateWorkspace inserts the workspace and its initial member rows.
	CreateWorkspace(ctx context.Context, w domain.Workspace) error

	// GetWorkspaceByID returns the workspace with its members (user records
	// hydrated) in join order.
	GetWorkspaceByID(ctx context.Context, id string) (domain.Workspace, error)

	// ListWorkspacesByMember returns every workspace the user belongs to,
	// newest first.
	ListWorkspacesByMember(ctx context.Context, userID string) ([]domain.Workspace, error)

	// UpdateWorkspaceDetails mutates name/description/color and bumps updated_at.
	UpdateWorkspaceDetails(ctx context.Context, id, name, description, color string) error

	// DeleteWorkspace cascades to members, projects, tasks and invites (per schema).
	DeleteWorkspace(ctx context.Context, id string) error

	// AddMember appends a membership row.
	AddMember(ctx context.Context, workspaceID string, m domain.WorkspaceMember) error

	// UpdateMemberRole changes an existing member's role.
	UpdateMemberRole(ctx context.Context, workspaceID, userID string, role domain.WorkspaceRole) error

	// RemoveMember deletes a membership row.
	RemoveMember(ctx context.Context, workspaceID, userID string) error

	// SetOwner updates the denormalized owner reference.
	SetOwner(ctx context.Context, workspaceID, ownerID string) error
}

type Projects interface {
	// CreateProject inserts the project and its member rows.
	CreateProject(ctx context.Context, p domain.Project) error

	// GetProjectByID returns the project with its member list (tasks not hydrated).
	GetProjectByID(ctx context.Context, id string) (domain.Project, error)

	// CountProjectsByWorkspace counts every project in the workspace,
	// archived included. This intentionally differs from the list filters.
	CountProjectsByWorkspace(ctx context.Context, workspaceID string) (int, error)

	// ListProjectsByWorkspace returns all projects in the workspace sorted
	// by creation time descending, each with its tasks hydrated (the stats
	// projection: title/status/priority/due/updated/archived).
	ListProjectsByWorkspace(ctx context.Context, workspaceID string) ([]domain.Project, error)

	// ListActiveProjectsByMember returns non-archived workspace projects the
	// user is a project member of, newest first, tasks hydrated.
	ListActiveProjectsByMember(ctx context.Context, workspaceID, userID string) ([]domain.Project, error)
}

type Tasks interface {
	// CreateTask inserts the task and its assignee rows.
	CreateTask(ctx context.Context, t domain.Task) error

	// GetTaskByID returns the task with assignees, subtasks and comments hydrated.
	GetTaskByID(ctx context.Context, id string) (domain.Task, error)

	// UpdateTaskStatus sets the status and bumps updated_at (the trend
	// histogram buckets on that timestamp).
	UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus) error

	// UpdateTaskPriority sets the priority and bumps updated_at.
	UpdateTaskPriority(ctx context.Context, id string, priority domain.TaskPriority) error

	// ListTasksByAssignee returns non-archived tasks assigned to the user,
	// most recently updated first.
	ListTasksByAssignee(ctx context.Context, userID string) ([]domain.Task, error)

	// CreateSubtask appends a subtask row.
	CreateSubtask(ctx context.Context, s domain.Subtask) error

	// SetSubtaskCompleted toggles a subtask and bumps the parent task's updated_at.
	SetSubtaskCompleted(ctx context.Context, taskID, subtaskID string, completed bool) error

	// CreateComment inserts a comment and its mention rows.
	CreateComment(ctx context.Context, c domain.Comment) error

	// ListCommentsByTask returns a task's comments oldest first.
	ListCommentsByTask(ctx context.Context, taskID string) ([]domain.Comment, error)
}

type Invites interface {
	// CreateInvite writes a new invite (token_hash is the SHA-256
	// fingerprint of the signed invite token).
	CreateInvite(ctx context.Context, inv domain.WorkspaceInvite) error

	// GetInviteByUserAndWorkspace returns the pending invite for a user in
	// a workspace regardless of expiry; callers decide how to treat
	// expired records.
	GetInviteByUserAndWorkspace(ctx context.Context, userID, workspaceID string) (domain.WorkspaceInvite, error)

	// DeleteInvite removes an invite, consuming it.
	DeleteInvite(ctx context.Context, id string) error

	// DeleteExpiredInvites is housekeeping.
	DeleteExpiredInvites(ctx context.Context) error
}

type Activities interface {
	// CreateActivity appends a feed entry.
	CreateActivity(ctx context.Context, a domain.Activity) error

	// ListActivitiesByResource returns the newest entries for a resource,
	// capped at limit.
	ListActivitiesByResource(ctx context.Context, resourceType domain.ResourceType, resourceID string, limit int) ([]domain.Activity, error)
}
