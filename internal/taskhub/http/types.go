package http

import (
	"time"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
}

// HealthResponse is returned by the livez/readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type CreateWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type UpdateWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type TransferOwnershipRequest struct {
	NewOwnerID string `json:"newOwnerId"`
}

type InviteMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AcceptInviteRequest struct {
	Token string `json:"token"`
}

type ProjectMemberRequest struct {
	UserID string `json:"user"`
	Role   string `json:"role"`
}

type CreateProjectRequest struct {
	WorkspaceID string                 `json:"workspace"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      string                 `json:"status"`
	StartDate   *time.Time             `json:"startDate,omitempty"`
	DueDate     *time.Time             `json:"dueDate,omitempty"`
	Members     []ProjectMemberRequest `json:"members"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Assignees   []string   `json:"assignees"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

type UpdateTaskPriorityRequest struct {
	Priority string `json:"priority"`
}

type CreateSubtaskRequest struct {
	Title string `json:"title"`
}

type ToggleSubtaskRequest struct {
	Completed bool `json:"completed"`
}

type CreateCommentRequest struct {
	Body string `json:"body"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// UserView is the public projection of a user record.
type UserView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

type WorkspaceMemberView struct {
	User     UserView  `json:"user"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

type WorkspaceView struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Color       string                `json:"color"`
	Owner       string                `json:"owner"`
	Members     []WorkspaceMemberView `json:"members,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

type ProjectMemberView struct {
	UserID string `json:"user"`
	Role   string `json:"role"`
}

type ProjectView struct {
	ID          string              `json:"id"`
	WorkspaceID string              `json:"workspace"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	StartDate   *time.Time          `json:"startDate,omitempty"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
	IsArchived  bool                `json:"isArchived"`
	Members     []ProjectMemberView `json:"members,omitempty"`
	Tasks       []TaskView          `json:"tasks,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

type SubtaskView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentView struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Mentions  []string  `json:"mentions,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type TaskView struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"project"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	IsArchived  bool          `json:"isArchived"`
	CreatedBy   string        `json:"createdBy"`
	Assignees   []string      `json:"assignees,omitempty"`
	Subtasks    []SubtaskView `json:"subtasks,omitempty"`
	Comments    []CommentView `json:"comments,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type ActivityView struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceId"`
	Details      string    `json:"details"`
	CreatedAt    time.Time `json:"createdAt"`
}

// StatsResponse is the dashboard bundle. The top-level keys and the fixed
// ordering of the chart arrays are part of the contract with the dashboard.
type StatsResponse struct {
	Stats             domain.StatsSummary          `json:"stats"`
	TaskTrendsData    []domain.TaskTrend           `json:"taskTrendsData"`
	ProjectStatusData []domain.ChartSlice          `json:"projectStatusData"`
	TaskPriorityData  []domain.ChartSlice          `json:"taskPriorityData"`
	Productivity      []domain.ProjectProductivity `json:"workspaceProductivityData"`
	UpcomingTasks     []TaskView                   `json:"upcomingTasks"`
	RecentProjects    []ProjectView                `json:"recentProjects"`
}

func toUserView(u domain.User) UserView {
	return UserView{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}

func toWorkspaceView(w domain.Workspace) WorkspaceView {
	view := WorkspaceView{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Color:       w.Color,
		Owner:       w.OwnerID,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	for _, m := range w.Members {
		mv := WorkspaceMemberView{Role: string(m.Role), JoinedAt: m.JoinedAt}
		if m.User != nil {
			mv.User = toUserView(*m.User)
		} else {
			mv.User = UserView{ID: m.UserID}
		}
		view.Members = append(view.Members, mv)
	}
	return view
}

func toProjectView(p domain.Project) ProjectView {
	view := ProjectView{
		ID:          p.ID,
		WorkspaceID: p.WorkspaceID,
		Title:       p.Title,
		Description: p.Description,
		Status:      string(p.Status),
		StartDate:   p.StartDate,
		DueDate:     p.DueDate,
		IsArchived:  p.IsArchived,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, m := range p.Members {
		view.Members = append(view.Members, ProjectMemberView{
			UserID: m.UserID,
			Role:   string(m.Role),
		})
	}
	for _, t := range p.Tasks {
		view.Tasks = append(view.Tasks, toTaskView(t))
	}
	return view
}

func toTaskView(t domain.Task) TaskView {
	view := TaskView{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		IsArchived:  t.IsArchived,
		CreatedBy:   t.CreatedBy,
		Assignees:   t.AssigneeIDs,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, s := range t.Subtasks {
		view.Subtasks = append(view.Subtasks, SubtaskView{
			ID:        s.ID,
			Title:     s.Title,
			Completed: s.Completed,
			CreatedAt: s.CreatedAt,
		})
	}
	for _, c := range t.Comments {
		view.Comments = append(view.Comments, toCommentView(c))
	}
	return view
}

func toCommentView(c domain.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		Author:    c.AuthorID,
		Body:      c.Body,
		Mentions:  c.MentionIDs,
		CreatedAt: c.CreatedAt,
	}
}

func toActivityView(a domain.Activity) ActivityView {
	return ActivityView{
		ID:           a.ID,
		UserID:       a.UserID,
		Action:       string(a.Action),
		ResourceType: string(a.ResourceType),
		ResourceID:   a.ResourceID,
		Details:      a.Details,
		CreatedAt:    a.CreatedAt,
	}
}
