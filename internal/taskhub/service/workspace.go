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
	ErrWorkspaceNotFound       = errors.New("workspace not found")
	ErrForbidden               = errors.New("insufficient workspace role")
	ErrInvalidWorkspaceRequest = errors.New("invalid workspace request")
	ErrUserNotFound            = errors.New("user not found")
	ErrCannotTransferToSelf    = errors.New("cannot transfer ownership to yourself")
	ErrTargetNotMember         = errors.New("target user is not a workspace member")
)

type WorkspaceService struct {
	Store store.Store
}

// requireRole loads the workspace and checks the caller holds at least the
// given role. Every workspace-scoped operation goes through this single gate
// instead of re-testing membership ad hoc.
func requireRole(
	ctx context.Context,
	st store.Store,
	workspaceID string,
	callerID string,
	min domain.WorkspaceRole,
) (domain.Workspace, domain.WorkspaceMember, error) {
	log := slogx.FromContext(ctx)

	ws, err := st.Workspaces().GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Workspace{}, domain.WorkspaceMember{}, ErrWorkspaceNotFound
		}
		log.Error("failed to fetch workspace", slog.Any("error", err))
		return domain.Workspace{}, domain.WorkspaceMember{}, err
	}

	member, ok := ws.Member(callerID)
	if !ok || member.Role.Rank() < min.Rank() {
		log.Warn("workspace access denied",
			slog.String("workspace_id", workspaceID),
			slog.String("user_id", callerID),
			slog.String("required_role", string(min)),
		)
		return domain.Workspace{}, domain.WorkspaceMember{}, ErrForbidden
	}

	return ws, member, nil
}

// CreateWorkspace creates a workspace with the caller as its owner member.
func (s *WorkspaceService) CreateWorkspace(
	ctx context.Context,
	callerID string,
	name string,
	description string,
	color string,
) (domain.Workspace, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	if name == "" {
		return domain.Workspace{}, ErrInvalidWorkspaceRequest
	}

	// 2. The creator must be a known user; they become the owner member.
	if _, err := s.Store.Users().GetUserByID(ctx, callerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Workspace{}, ErrUserNotFound
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.Workspace{}, err
	}

	now := time.Now().UTC()
	ws := domain.Workspace{
		ID:          idx.New().String(),
		Name:        name,
		Description: description,
		Color:       color,
		OwnerID:     callerID,
		Members: []domain.WorkspaceMember{
			{UserID: callerID, Role: domain.RoleOwner, JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 3. Insert the workspace and the activity entry atomically.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Workspaces().CreateWorkspace(ctx, ws); err != nil {
			return err
		}
		return tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:           idx.New().String(),
			UserID:       callerID,
			Action:       domain.ActionCreatedWorkspace,
			ResourceType: domain.ResourceWorkspace,
			ResourceID:   ws.ID,
			Details:      "created workspace " + ws.Name,
			CreatedAt:    now,
		})
	})
	if err != nil {
		log.Error("failed to create workspace", slog.Any("error", err))
		return domain.Workspace{}, err
	}

	log.Info("workspace created",
		slog.String("workspace_id", ws.ID),
		slog.String("owner_id", callerID),
	)
	return ws, nil
}

// GetWorkspace returns the workspace with its member list. Any member may read it.
func (s *WorkspaceService) GetWorkspace(ctx context.Context, workspaceID, callerID string) (domain.Workspace, error) {
	ws, _, err := requireRole(ctx, s.Store, workspaceID, callerID, domain.RoleViewer)
	return ws, err
}

// ListWorkspaces returns every workspace the caller belongs to, newest first.
func (s *WorkspaceService) ListWorkspaces(ctx context.Context, callerID string) ([]domain.Workspace, error) {
	return s.Store.Workspaces().ListWorkspacesByMember(ctx, callerID)
}

// UpdateWorkspace changes name/description/color. Owner only.
func (s *WorkspaceService) UpdateWorkspace(
	ctx context.Context,
	workspaceID string,
	callerID string,
	name string,
	description string,
	color string,
) (domain.Workspace, error) {
	log := slogx.FromContext(ctx)

	if name == "" {
		return domain.Workspace{}, ErrInvalidWorkspaceRequest
	}

	if _, _, err := requireRole(ctx, s.Store, workspaceID, callerID, domain.RoleOwner); err != nil {
		return domain.Workspace{}, err
	}

	if err := s.Store.Workspaces().UpdateWorkspaceDetails(ctx, workspaceID, name, description, color); err != nil {
		log.Error("failed to update workspace", slog.Any("error", err))
		return domain.Workspace{}, err
	}

	return s.Store.Workspaces().GetWorkspaceByID(ctx, workspaceID)
}

// DeleteWorkspace removes the workspace and everything under it. Owner only.
func (s *WorkspaceService) DeleteWorkspace(ctx context.Context, workspaceID, callerID string) error {
	log := slogx.FromContext(ctx)

	if _, _, err := requireRole(ctx, s.Store, workspaceID, callerID, domain.RoleOwner); err != nil {
		return err
	}

	if err := s.Store.Workspaces().DeleteWorkspace(ctx, workspaceID); err != nil {
		log.Error("failed to delete workspace", slog.Any("error", err))
		return err
	}

	log.Info("workspace deleted",
		slog.String("workspace_id", workspaceID),
		slog.String("user_id", callerID),
	)
	return nil
}

// TransferOwnership hands the workspace to another member. The old owner is
// demoted to admin and the new owner promoted, atomically.
func (s *WorkspaceService) TransferOwnership(ctx context.Context, workspaceID, callerID, newOwnerID string) error {
	log := slogx.FromContext(ctx)

	// 1. Only the current owner may transfer.
	ws, _, err := requireRole(ctx, s.Store, workspaceID, callerID, domain.RoleOwner)
	if err != nil {
		return err
	}

	// 2. Transferring to yourself is a no-op we reject outright.
	if newOwnerID == callerID {
		return ErrCannotTransferToSelf
	}

	// 3. The new owner must be an existing user and already a member.
	if _, err := s.Store.Users().GetUserByID(ctx, newOwnerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return err
	}
	if _, ok := ws.Member(newOwnerID); !ok {
		return ErrTargetNotMember
	}

	// 4. Swap the roles and the denormalized owner reference together.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Workspaces().UpdateMemberRole(ctx, workspaceID, callerID, domain.RoleAdmin); err != nil {
			return err
		}
		if err := tx.Workspaces().UpdateMemberRole(ctx, workspaceID, newOwnerID, domain.RoleOwner); err != nil {
			return err
		}
		return tx.Workspaces().SetOwner(ctx, workspaceID, newOwnerID)
	})
	if err != nil {
		log.Error("failed to transfer ownership", slog.Any("error", err))
		return err
	}

	log.Info("workspace ownership transferred",
		slog.String("workspace_id", workspaceID),
		slog.String("from", callerID),
		slog.String("to", newOwnerID),
	)
	return nil
}

// GetProjects returns the caller's non-archived projects in the workspace,
// newest first, with tasks attached.
func (s *WorkspaceService) GetProjects(ctx context.Context, workspaceID, callerID string) ([]domain.Project, error) {
	if _, _, err := requireRole(ctx, s.Store, workspaceID, callerID, domain.RoleViewer); err != nil {
		return nil, err
	}
	return s.Store.Projects().ListActiveProjectsByMember(ctx, workspaceID, callerID)
}
