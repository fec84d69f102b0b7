package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/internal/taskhub/store"
	"github.com/taskhubhq/taskhub/internal/taskhub/store/drivers/sqlite"
	"github.com/taskhubhq/taskhub/pkg/idx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func seedUser(t *testing.T, st store.Store, name, email string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:        idx.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func seedWorkspace(t *testing.T, st store.Store, owner domain.User, extra ...domain.WorkspaceMember) domain.Workspace {
	t.Helper()

	now := time.Now().UTC()
	ws := domain.Workspace{
		ID:      idx.New().String(),
		Name:    "Acme",
		OwnerID: owner.ID,
		Members: append([]domain.WorkspaceMember{
			{UserID: owner.ID, Role: domain.RoleOwner, JoinedAt: now},
		}, extra...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Workspaces().CreateWorkspace(context.Background(), ws))
	return ws
}

func seedProject(t *testing.T, st store.Store, ws domain.Workspace, title string, status domain.ProjectStatus, createdAt time.Time, members ...domain.ProjectMember) domain.Project {
	t.Helper()

	p := domain.Project{
		ID:          idx.New().String(),
		WorkspaceID: ws.ID,
		Title:       title,
		Status:      status,
		Members:     members,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, st.Projects().CreateProject(context.Background(), p))
	return p
}

func seedTask(t *testing.T, st store.Store, task domain.Task) domain.Task {
	t.Helper()

	now := time.Now().UTC()
	if task.ID == "" {
		task.ID = idx.New().String()
	}
	if task.Status == "" {
		task.Status = domain.TaskToDo
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}
	require.NoError(t, st.Tasks().CreateTask(context.Background(), task))
	return task
}
