package domain

import "time"

// WorkspaceRole is the permission level of a member within a workspace.
type WorkspaceRole string

const (
	RoleOwner  WorkspaceRole = "owner"
	RoleAdmin  WorkspaceRole = "admin"
	RoleMember WorkspaceRole = "member"
	RoleViewer WorkspaceRole = "viewer"
)

// Rank orders roles so authorization checks can ask for "at least X".
// Unknown roles rank below viewer.
func (r WorkspaceRole) Rank() int {
	switch r {
	case RoleOwner:
		return 4
	case RoleAdmin:
		return 3
	case RoleMember:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// Valid reports whether r is one of the four known workspace roles.
func (r WorkspaceRole) Valid() bool { return r.Rank() > 0 }

// Workspace is the top-level tenant container owning projects and members.
// Invariant: exactly one member has RoleOwner and OwnerID matches that member.
type Workspace struct {
	ID          string
	Name        string
	Description string
	Color       string
	OwnerID     string
	Members     []WorkspaceMember // in join order
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Member returns the membership entry for userID, if any.
func (w Workspace) Member(userID string) (WorkspaceMember, bool) {
	for _, m := range w.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return WorkspaceMember{}, false
}

type WorkspaceMember struct {
	UserID   string
	Role     WorkspaceRole
	JoinedAt time.Time

	// User carries the joined user record when the query hydrates it,
	// e.g. for the members listing. Nil otherwise.
	User *User
}
