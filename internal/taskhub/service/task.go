package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/internal/taskhub/store"
	"github.com/taskhubhq/taskhub/pkg/idx"
	"github.com/taskhubhq/taskhub/pkg/slogx"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrSubtaskNotFound    = errors.New("subtask not found")
	ErrInvalidTaskRequest = errors.New("invalid task request")
)

type TaskService struct {
	Store store.Store
}

// taskAccess loads a task and checks the caller holds at least min in the
// owning workspace. Returns the task and the hydrated workspace.
func (s *TaskService) taskAccess(
	ctx context.Context,
	taskID string,
	callerID string,
	min domain.WorkspaceRole,
) (domain.Task, domain.Workspace, error) {
	t, err := s.Store.Tasks().GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, domain.Workspace{}, ErrTaskNotFound
		}
		slogx.FromContext(ctx).Error("failed to fetch task", slog.Any("error", err))
		return domain.Task{}, domain.Workspace{}, err
	}

	p, err := s.Store.Projects().GetProjectByID(ctx, t.ProjectID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to fetch project", slog.Any("error", err))
		return domain.Task{}, domain.Workspace{}, err
	}

	ws, _, err := requireRole(ctx, s.Store, p.WorkspaceID, callerID, min)
	if err != nil {
		return domain.Task{}, domain.Workspace{}, err
	}
	return t, ws, nil
}

// CreateTask adds a task to a project. The caller must be on the project;
// assignees must be workspace members.
func (s *TaskService) CreateTask(
	ctx context.Context,
	projectID string,
	callerID string,
	title string,
	description string,
	status domain.TaskStatus,
	priority domain.TaskPriority,
	dueDate *time.Time,
	assigneeIDs []string,
) (domain.Task, error) {
	log := slogx.FromContext(ctx)

	p, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, ErrProjectNotFound
		}
		log.Error("failed to fetch project", slog.Any("error", err))
		return domain.Task{}, err
	}

	ws, _, err := requireRole(ctx, s.Store, p.WorkspaceID, callerID, domain.RoleMember)
	if err != nil {
		return domain.Task{}, err
	}
	if !p.HasMember(callerID) {
		return domain.Task{}, ErrForbidden
	}

	if title == "" {
		return domain.Task{}, ErrInvalidTaskRequest
	}
	if status == "" {
		status = domain.TaskToDo
	}
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !status.Valid() || !priority.Valid() {
		return domain.Task{}, ErrInvalidTaskRequest
	}
	for _, id := range assigneeIDs {
		if _, ok := ws.Member(id); !ok {
			return domain.Task{}, ErrTargetNotMember
		}
	}

	now := time.Now().UTC()
	t := domain.Task{
		ID:          idx.New().String(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedBy:   callerID,
		AssigneeIDs: assigneeIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tasks().CreateTask(ctx, t); err != nil {
			return err
		}
		return tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:           idx.New().String(),
			UserID:       callerID,
			Action:       domain.ActionCreatedTask,
			ResourceType: domain.ResourceTask,
			ResourceID:   t.ID,
			Details:      "created task " + t.Title,
			CreatedAt:    now,
		})
	})
	if err != nil {
		log.Error("failed to create task", slog.Any("error", err))
		return domain.Task{}, err
	}

	log.Info("task created",
		slog.String("task_id", t.ID),
		slog.String("project_id", projectID),
	)
	return t, nil
}

// GetTask returns a task with assignees, subtasks and comments.
func (s *TaskService) GetTask(ctx context.Context, taskID, callerID string) (domain.Task, error) {
	t, _, err := s.taskAccess(ctx, taskID, callerID, domain.RoleViewer)
	return t, err
}

// UpdateTaskStatus moves the task between board columns and bumps its
// updated_at, which feeds the weekly trend histogram.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, taskID, callerID string, status domain.TaskStatus) error {
	log := slogx.FromContext(ctx)

	if !status.Valid() {
		return ErrInvalidTaskRequest
	}

	t, _, err := s.taskAccess(ctx, taskID, callerID, domain.RoleMember)
	if err != nil {
		return err
	}

	action := domain.ActionUpdatedTask
	if status == domain.TaskDone {
		action = domain.ActionCompletedTask
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tasks().UpdateTaskStatus(ctx, taskID, status); err != nil {
			return err
		}
		return tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:           idx.New().String(),
			UserID:       callerID,
			Action:       action,
			ResourceType: domain.ResourceTask,
			ResourceID:   taskID,
			Details:      "moved " + t.Title + " to " + string(status),
			CreatedAt:    time.Now().UTC(),
		})
	})
	if err != nil {
		log.Error("failed to update task status", slog.Any("error", err))
	}
	return err
}

// UpdateTaskPriority reprioritizes the task and bumps its updated_at.
func (s *TaskService) UpdateTaskPriority(ctx context.Context, taskID, callerID string, priority domain.TaskPriority) error {
	log := slogx.FromContext(ctx)

	if !priority.Valid() {
		return ErrInvalidTaskRequest
	}

	t, _, err := s.taskAccess(ctx, taskID, callerID, domain.RoleMember)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tasks().UpdateTaskPriority(ctx, taskID, priority); err != nil {
			return err
		}
		return tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:           idx.New().String(),
			UserID:       callerID,
			Action:       domain.ActionUpdatedTask,
			ResourceType: domain.ResourceTask,
			ResourceID:   taskID,
			Details:      "set " + t.Title + " priority to " + string(priority),
			CreatedAt:    time.Now().UTC(),
		})
	})
	if err != nil {
		log.Error("failed to update task priority", slog.Any("error", err))
	}
	return err
}

// AddSubtask appends a checklist item to the task.
func (s *TaskService) AddSubtask(ctx context.Context, taskID, callerID, title string) (domain.Subtask, error) {
	log := slogx.FromContext(ctx)

	if title == "" {
		return domain.Subtask{}, ErrInvalidTaskRequest
	}

	if _, _, err := s.taskAccess(ctx, taskID, callerID, domain.RoleMember); err != nil {
		return domain.Subtask{}, err
	}

	now := time.Now().UTC()
	sub := domain.Subtask{
		ID:        idx.New().String(),
		TaskID:    taskID,
		Title:     title,
		CreatedAt: now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tasks().CreateSubtask(ctx, sub); err != nil {
			return err
		}
		return tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:           idx.New().String(),
			UserID:       callerID,
			Action:       domain.ActionCreatedSubtask,
			ResourceType: domain.ResourceTask,
			ResourceID:   taskID,
			Details:      "added subtask " + title,
			CreatedAt:    now,
		})
	})
	if err != nil {
		log.Error("failed to create subtask", slog.Any("error", err))
		return domain.Subtask{}, err
	}
	return sub, nil
}

// ToggleSubtask marks a subtask complete or incomplete. The parent task's
// updated_at is bumped so the change shows up in the trend histogram.
func (s *TaskService) ToggleSubtask(ctx context.Context, taskID, subtaskID, callerID string, completed bool) error {
	log := slogx.FromContext(ctx)

	if _, _, err := s.taskAccess(ctx, taskID, callerID, domain.RoleMember); err != nil {
		return err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tasks().SetSubtaskCompleted(ctx, taskID, subtaskID, completed); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSubtaskNotFound
			}
			return err
		}
		return tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:           idx.New().String(),
			UserID:       callerID,
			Action:       domain.ActionUpdatedSubtask,
			ResourceType: domain.ResourceTask,
			ResourceID:   taskID,
			Details:      "updated a subtask",
			CreatedAt:    time.Now().UTC(),
		})
	})
	if err != nil && !errors.Is(err, ErrSubtaskNotFound) {
		log.Error("failed to toggle subtask", slog.Any("error", err))
	}
	return err
}

// AddComment posts a comment on the task. Workspace members @mentioned by
// name in the body are recorded alongside the comment.
func (s *TaskService) AddComment(ctx context.Context, taskID, callerID, body string) (domain.Comment, error) {
	log := slogx.FromContext(ctx)

	if body == "" {
		return domain.Comment{}, ErrInvalidTaskRequest
	}

	_, ws, err := s.taskAccess(ctx, taskID, callerID, domain.RoleMember)
	if err != nil {
		return domain.Comment{}, err
	}

	now := time.Now().UTC()
	c := domain.Comment{
		ID:         idx.New().String(),
		TaskID:     taskID,
		AuthorID:   callerID,
		Body:       body,
		MentionIDs: extractMentions(body, ws.Members),
		CreatedAt:  now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tasks().CreateComment(ctx, c); err != nil {
			return err
		}
		return tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:           idx.New().String(),
			UserID:       callerID,
			Action:       domain.ActionAddedComment,
			ResourceType: domain.ResourceTask,
			ResourceID:   taskID,
			Details:      "commented on the task",
			CreatedAt:    now,
		})
	})
	if err != nil {
		log.Error("failed to create comment", slog.Any("error", err))
		return domain.Comment{}, err
	}
	return c, nil
}

// extractMentions finds workspace members referenced as "@Name" in the body.
// Matching is by display name; each member is reported at most once.
func extractMentions(body string, members []domain.WorkspaceMember) []string {
	var out []string
	for _, m := range members {
		if m.User == nil || m.User.Name == "" {
			continue
		}
		if strings.Contains(body, "@"+m.User.Name) {
			out = append(out, m.UserID)
		}
	}
	return out
}

// ListComments returns a task's comments oldest first.
func (s *TaskService) ListComments(ctx context.Context, taskID, callerID string) ([]domain.Comment, error) {
	if _, _, err := s.taskAccess(ctx, taskID, callerID, domain.RoleViewer); err != nil {
		return nil, err
	}
	return s.Store.Tasks().ListCommentsByTask(ctx, taskID)
}

// MyTasks returns the caller's open assignments across all workspaces, most
// recently touched first.
func (s *TaskService) MyTasks(ctx context.Context, callerID string) ([]domain.Task, error) {
	return s.Store.Tasks().ListTasksByAssignee(ctx, callerID)
}
