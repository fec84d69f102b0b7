package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/internal/taskhub/store"
	"github.com/taskhubhq/taskhub/pkg/idx"
	"github.com/taskhubhq/taskhub/pkg/slogx"
)

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrInvalidProjectRequest = errors.New("invalid project request")
)

type ProjectService struct {
	Store store.Store
}

// CreateProject creates a project in a workspace. The caller needs at least
// the member role and always ends up on the project, as manager if the
// request didn't place them there already.
func (s *ProjectService) CreateProject(
	ctx context.Context,
	workspaceID string,
	callerID string,
	title string,
	description string,
	status domain.ProjectStatus,
	startDate *time.Time,
	dueDate *time.Time,
	members []domain.ProjectMember,
) (domain.Project, error) {
	log := slogx.FromContext(ctx)

	ws, _, err := requireRole(ctx, s.Store, workspaceID, callerID, domain.RoleMember)
	if err != nil {
		return domain.Project{}, err
	}

	if title == "" {
		return domain.Project{}, ErrInvalidProjectRequest
	}
	if status == "" {
		status = domain.ProjectPlanning
	}
	if !status.Valid() {
		return domain.Project{}, ErrInvalidProjectRequest
	}

	// Project members must already belong to the workspace.
	callerListed := false
	for _, m := range members {
		if !m.Role.Valid() {
			return domain.Project{}, ErrInvalidProjectRequest
		}
		if _, ok := ws.Member(m.UserID); !ok {
			return domain.Project{}, ErrTargetNotMember
		}
		if m.UserID == callerID {
			callerListed = true
		}
	}
	if !callerListed {
		members = append(members, domain.ProjectMember{
			UserID: callerID,
			Role:   domain.ProjectManager,
		})
	}

	now := time.Now().UTC()
	p := domain.Project{
		ID:          idx.New().String(),
		WorkspaceID: workspaceID,
		Title:       title,
		Description: description,
		Status:      status,
		StartDate:   startDate,
		DueDate:     dueDate,
		Members:     members,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Projects().CreateProject(ctx, p); err != nil {
			return err
		}
		return tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:           idx.New().String(),
			UserID:       callerID,
			Action:       domain.ActionCreatedProject,
			ResourceType: domain.ResourceProject,
			ResourceID:   p.ID,
			Details:      "created project " + p.Title,
			CreatedAt:    now,
		})
	})
	if err != nil {
		log.Error("failed to create project", slog.Any("error", err))
		return domain.Project{}, err
	}

	log.Info("project created",
		slog.String("project_id", p.ID),
		slog.String("workspace_id", workspaceID),
	)
	return p, nil
}

// GetProject returns a project. Any workspace member may read it.
func (s *ProjectService) GetProject(ctx context.Context, projectID, callerID string) (domain.Project, error) {
	p, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, ErrProjectNotFound
		}
		slogx.FromContext(ctx).Error("failed to fetch project", slog.Any("error", err))
		return domain.Project{}, err
	}

	if _, _, err := requireRole(ctx, s.Store, p.WorkspaceID, callerID, domain.RoleViewer); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}
