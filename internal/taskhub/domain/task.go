package domain

import "time"

// TaskStatus is the board column a task sits in.
type TaskStatus string

const (
	TaskToDo       TaskStatus = "To Do"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskToDo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// TaskPriority orders work within a project.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	IsArchived  bool
	CreatedBy   string
	AssigneeIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Subtasks and Comments are populated only by the detail query.
	Subtasks []Subtask
	Comments []Comment
}

type Subtask struct {
	ID        string
	TaskID    string
	Title     string
	Completed bool
	CreatedAt time.Time
}

// Comment is a task comment. MentionIDs holds the users @mentioned in the
// body, resolved against the workspace member list at write time.
type Comment struct {
	ID         string
	TaskID     string
	AuthorID   string
	Body       string
	MentionIDs []string
	CreatedAt  time.Time
}
