package domain

import "time"

// ActionType enumerates the events recorded to the activity feed.
type ActionType string

const (
	ActionCreatedWorkspace ActionType = "created_workspace"
	ActionJoinedWorkspace  ActionType = "joined_workspace"
	ActionCreatedProject   ActionType = "created_project"
	ActionCreatedTask      ActionType = "created_task"
	ActionUpdatedTask      ActionType = "updated_task"
	ActionCompletedTask    ActionType = "completed_task"
	ActionCreatedSubtask   ActionType = "created_subtask"
	ActionUpdatedSubtask   ActionType = "updated_subtask"
	ActionAddedComment     ActionType = "added_comment"
	ActionAddedMember      ActionType = "added_member"
	ActionRemovedMember    ActionType = "removed_member"
)

// ResourceType names the entity an activity refers to.
type ResourceType string

const (
	ResourceWorkspace ResourceType = "Workspace"
	ResourceProject   ResourceType = "Project"
	ResourceTask      ResourceType = "Task"
	ResourceComment   ResourceType = "Comment"
)

// Activity is one entry in a resource's activity feed.
type Activity struct {
	ID           string
	UserID       string
	Action       ActionType
	ResourceType ResourceType
	ResourceID   string
	Details      string // human-readable description
	CreatedAt    time.Time
}
