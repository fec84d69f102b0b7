package domain

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "Planning"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectOnHold     ProjectStatus = "On Hold"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectCancelled  ProjectStatus = "Cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// ProjectRole is the permission level of a member within a project.
type ProjectRole string

const (
	ProjectManager     ProjectRole = "manager"
	ProjectContributor ProjectRole = "contributor"
	ProjectViewer      ProjectRole = "viewer"
)

func (r ProjectRole) Valid() bool {
	switch r {
	case ProjectManager, ProjectContributor, ProjectViewer:
		return true
	}
	return false
}

type Project struct {
	ID          string
	WorkspaceID string
	Title       string
	Description string
	Status      ProjectStatus
	StartDate   *time.Time
	DueDate     *time.Time
	IsArchived  bool
	Members     []ProjectMember
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Tasks is populated only by queries that hydrate it, such as the
	// stats materialization and the workspace project listing.
	Tasks []Task
}

type ProjectMember struct {
	UserID string
	Role   ProjectRole
}

// HasMember reports whether userID appears in the project member list.
func (p Project) HasMember(userID string) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
