package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/pkg/idx"
)

func TestCreateWorkspace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &WorkspaceService{Store: st}
	owner := seedUser(t, st, "Owner", "owner@example.com")

	t.Run("creator becomes owner member", func(t *testing.T) {
		ws, err := svc.CreateWorkspace(ctx, owner.ID, "Design", "the design team", "#ff0000")
		require.NoError(t, err)

		got, err := st.Workspaces().GetWorkspaceByID(ctx, ws.ID)
		require.NoError(t, err)
		require.Equal(t, owner.ID, got.OwnerID)
		require.Len(t, got.Members, 1)
		require.Equal(t, domain.RoleOwner, got.Members[0].Role)
		require.NotNil(t, got.Members[0].User)
		require.Equal(t, "Owner", got.Members[0].User.Name)

		feed, err := st.Activities().ListActivitiesByResource(ctx, domain.ResourceWorkspace, ws.ID, 10)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		require.Equal(t, domain.ActionCreatedWorkspace, feed[0].Action)
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := svc.CreateWorkspace(ctx, owner.ID, "", "", "")
		require.ErrorIs(t, err, ErrInvalidWorkspaceRequest)
	})

	t.Run("unknown creator", func(t *testing.T) {
		_, err := svc.CreateWorkspace(ctx, idx.New().String(), "Ops", "", "")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestWorkspaceAuthorization(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &WorkspaceService{Store: st}

	owner := seedUser(t, st, "Owner", "owner@example.com")
	viewer := seedUser(t, st, "Viewer", "viewer@example.com")
	outsider := seedUser(t, st, "Outsider", "outsider@example.com")
	ws := seedWorkspace(t, st, owner, domain.WorkspaceMember{
		UserID: viewer.ID, Role: domain.RoleViewer, JoinedAt: time.Now().UTC(),
	})

	t.Run("any member can read", func(t *testing.T) {
		got, err := svc.GetWorkspace(ctx, ws.ID, viewer.ID)
		require.NoError(t, err)
		require.Equal(t, ws.ID, got.ID)
	})

	t.Run("non-member cannot read", func(t *testing.T) {
		_, err := svc.GetWorkspace(ctx, ws.ID, outsider.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("absent workspace reported before role", func(t *testing.T) {
		_, err := svc.GetWorkspace(ctx, idx.New().String(), outsider.ID)
		require.ErrorIs(t, err, ErrWorkspaceNotFound)
	})

	t.Run("only the owner can update", func(t *testing.T) {
		_, err := svc.UpdateWorkspace(ctx, ws.ID, viewer.ID, "Renamed", "", "")
		require.ErrorIs(t, err, ErrForbidden)

		got, err := svc.UpdateWorkspace(ctx, ws.ID, owner.ID, "Renamed", "new desc", "#00ff00")
		require.NoError(t, err)
		require.Equal(t, "Renamed", got.Name)
		require.Equal(t, "new desc", got.Description)
	})

	t.Run("only the owner can delete", func(t *testing.T) {
		require.ErrorIs(t, svc.DeleteWorkspace(ctx, ws.ID, viewer.ID), ErrForbidden)
	})
}

func TestDeleteWorkspace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &WorkspaceService{Store: st}
	owner := seedUser(t, st, "Owner", "owner@example.com")
	ws := seedWorkspace(t, st, owner)
	seedProject(t, st, ws, "Doomed", domain.ProjectPlanning, time.Now().UTC())

	require.NoError(t, svc.DeleteWorkspace(ctx, ws.ID, owner.ID))

	_, err := svc.GetWorkspace(ctx, ws.ID, owner.ID)
	require.ErrorIs(t, err, ErrWorkspaceNotFound)

	// Projects go with the workspace.
	n, err := st.Projects().CountProjectsByWorkspace(ctx, ws.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestTransferOwnership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &WorkspaceService{Store: st}

	owner := seedUser(t, st, "Owner", "owner@example.com")
	admin := seedUser(t, st, "Admin", "admin@example.com")
	outsider := seedUser(t, st, "Outsider", "outsider@example.com")
	ws := seedWorkspace(t, st, owner, domain.WorkspaceMember{
		UserID: admin.ID, Role: domain.RoleAdmin, JoinedAt: time.Now().UTC(),
	})

	t.Run("admin cannot transfer", func(t *testing.T) {
		require.ErrorIs(t, svc.TransferOwnership(ctx, ws.ID, admin.ID, owner.ID), ErrForbidden)
	})

	t.Run("cannot transfer to self", func(t *testing.T) {
		require.ErrorIs(t, svc.TransferOwnership(ctx, ws.ID, owner.ID, owner.ID), ErrCannotTransferToSelf)
	})

	t.Run("target must be a member", func(t *testing.T) {
		require.ErrorIs(t, svc.TransferOwnership(ctx, ws.ID, owner.ID, outsider.ID), ErrTargetNotMember)
	})

	t.Run("target must exist", func(t *testing.T) {
		require.ErrorIs(t, svc.TransferOwnership(ctx, ws.ID, owner.ID, idx.New().String()), ErrUserNotFound)
	})

	t.Run("roles and owner reference swap together", func(t *testing.T) {
		require.NoError(t, svc.TransferOwnership(ctx, ws.ID, owner.ID, admin.ID))

		got, err := st.Workspaces().GetWorkspaceByID(ctx, ws.ID)
		require.NoError(t, err)
		require.Equal(t, admin.ID, got.OwnerID)

		oldOwner, ok := got.Member(owner.ID)
		require.True(t, ok)
		require.Equal(t, domain.RoleAdmin, oldOwner.Role)

		newOwner, ok := got.Member(admin.ID)
		require.True(t, ok)
		require.Equal(t, domain.RoleOwner, newOwner.Role)
	})
}

func TestListWorkspaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &WorkspaceService{Store: st}
	owner := seedUser(t, st, "Owner", "owner@example.com")

	first, err := svc.CreateWorkspace(ctx, owner.ID, "First", "", "")
	require.NoError(t, err)
	second, err := svc.CreateWorkspace(ctx, owner.ID, "Second", "", "")
	require.NoError(t, err)

	list, err := svc.ListWorkspaces(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	ids := []string{list[0].ID, list[1].ID}
	require.ElementsMatch(t, []string{first.ID, second.ID}, ids)

	other := seedUser(t, st, "Other", "other@example.com")
	list, err = svc.ListWorkspaces(ctx, other.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}
