package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
)

func TestCreateProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &ProjectService{Store: st}

	owner := seedUser(t, st, "Owner", "owner@example.com")
	viewer := seedUser(t, st, "Viewer", "viewer@example.com")
	outsider := seedUser(t, st, "Outsider", "outsider@example.com")
	ws := seedWorkspace(t, st, owner, domain.WorkspaceMember{
		UserID: viewer.ID, Role: domain.RoleViewer, JoinedAt: time.Now().UTC(),
	})

	t.Run("viewers cannot create projects", func(t *testing.T) {
		_, err := svc.CreateProject(ctx, ws.ID, viewer.ID, "Nope", "", "", nil, nil, nil)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("creator is added as manager", func(t *testing.T) {
		p, err := svc.CreateProject(ctx, ws.ID, owner.ID, "Launch", "", "", nil, nil, nil)
		require.NoError(t, err)
		require.Equal(t, domain.ProjectPlanning, p.Status)

		got, err := st.Projects().GetProjectByID(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, got.Members, 1)
		require.Equal(t, owner.ID, got.Members[0].UserID)
		require.Equal(t, domain.ProjectManager, got.Members[0].Role)
	})

	t.Run("project members must belong to the workspace", func(t *testing.T) {
		_, err := svc.CreateProject(ctx, ws.ID, owner.ID, "Launch 2", "", "", nil, nil,
			[]domain.ProjectMember{{UserID: outsider.ID, Role: domain.ProjectContributor}})
		require.ErrorIs(t, err, ErrTargetNotMember)
	})

	t.Run("title is required", func(t *testing.T) {
		_, err := svc.CreateProject(ctx, ws.ID, owner.ID, "", "", "", nil, nil, nil)
		require.ErrorIs(t, err, ErrInvalidProjectRequest)
	})
}

func TestCreateTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	projects := &ProjectService{Store: st}
	svc := &TaskService{Store: st}

	owner := seedUser(t, st, "Owner", "owner@example.com")
	member := seedUser(t, st, "Member", "member@example.com")
	outsider := seedUser(t, st, "Outsider", "outsider@example.com")
	ws := seedWorkspace(t, st, owner, domain.WorkspaceMember{
		UserID: member.ID, Role: domain.RoleMember, JoinedAt: time.Now().UTC(),
	})

	p, err := projects.CreateProject(ctx, ws.ID, owner.ID, "Launch", "", "", nil, nil, nil)
	require.NoError(t, err)

	t.Run("defaults applied", func(t *testing.T) {
		task, err := svc.CreateTask(ctx, p.ID, owner.ID, "Write docs", "", "", "", nil, nil)
		require.NoError(t, err)
		require.Equal(t, domain.TaskToDo, task.Status)
		require.Equal(t, domain.PriorityMedium, task.Priority)
	})

	t.Run("workspace members not on the project cannot create", func(t *testing.T) {
		_, err := svc.CreateTask(ctx, p.ID, member.ID, "Sneaky", "", "", "", nil, nil)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("assignees must be workspace members", func(t *testing.T) {
		_, err := svc.CreateTask(ctx, p.ID, owner.ID, "Bad assignee", "", "", "", nil,
			[]string{outsider.ID})
		require.ErrorIs(t, err, ErrTargetNotMember)
	})

	t.Run("assigned tasks show up in my tasks", func(t *testing.T) {
		task, err := svc.CreateTask(ctx, p.ID, owner.ID, "Assigned", "", "", domain.PriorityHigh, nil,
			[]string{member.ID})
		require.NoError(t, err)

		mine, err := svc.MyTasks(ctx, member.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		require.Equal(t, task.ID, mine[0].ID)
		require.Equal(t, []string{member.ID}, mine[0].AssigneeIDs)
	})
}

func TestUpdateTaskStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	projects := &ProjectService{Store: st}
	svc := &TaskService{Store: st}

	owner := seedUser(t, st, "Owner", "owner@example.com")
	ws := seedWorkspace(t, st, owner)
	p, err := projects.CreateProject(ctx, ws.ID, owner.ID, "Launch", "", "", nil, nil, nil)
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, p.ID, owner.ID, "Ship", "", "", "", nil, nil)
	require.NoError(t, err)

	t.Run("invalid status rejected", func(t *testing.T) {
		require.ErrorIs(t, svc.UpdateTaskStatus(ctx, task.ID, owner.ID, "Blocked"), ErrInvalidTaskRequest)
	})

	t.Run("status change bumps updated_at", func(t *testing.T) {
		before, err := svc.GetTask(ctx, task.ID, owner.ID)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		require.NoError(t, svc.UpdateTaskStatus(ctx, task.ID, owner.ID, domain.TaskDone))

		after, err := svc.GetTask(ctx, task.ID, owner.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TaskDone, after.Status)
		require.True(t, after.UpdatedAt.After(before.UpdatedAt))

		feed, err := st.Activities().ListActivitiesByResource(ctx, domain.ResourceTask, task.ID, 10)
		require.NoError(t, err)
		require.Equal(t, domain.ActionCompletedTask, feed[0].Action)
	})
}

func TestSubtasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	projects := &ProjectService{Store: st}
	svc := &TaskService{Store: st}

	owner := seedUser(t, st, "Owner", "owner@example.com")
	ws := seedWorkspace(t, st, owner)
	p, err := projects.CreateProject(ctx, ws.ID, owner.ID, "Launch", "", "", nil, nil, nil)
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, p.ID, owner.ID, "Ship", "", "", "", nil, nil)
	require.NoError(t, err)

	sub, err := svc.AddSubtask(ctx, task.ID, owner.ID, "Cut release branch")
	require.NoError(t, err)

	t.Run("toggle completes the subtask", func(t *testing.T) {
		require.NoError(t, svc.ToggleSubtask(ctx, task.ID, sub.ID, owner.ID, true))

		got, err := svc.GetTask(ctx, task.ID, owner.ID)
		require.NoError(t, err)
		require.Len(t, got.Subtasks, 1)
		require.True(t, got.Subtasks[0].Completed)
	})

	t.Run("unknown subtask", func(t *testing.T) {
		require.ErrorIs(t, svc.ToggleSubtask(ctx, task.ID, "missing", owner.ID, true), ErrSubtaskNotFound)
	})
}

func TestComments(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	projects := &ProjectService{Store: st}
	svc := &TaskService{Store: st}

	owner := seedUser(t, st, "Ada Lovelace", "ada@example.com")
	member := seedUser(t, st, "Grace Hopper", "grace@example.com")
	ws := seedWorkspace(t, st, owner, domain.WorkspaceMember{
		UserID: member.ID, Role: domain.RoleMember, JoinedAt: time.Now().UTC(),
	})
	p, err := projects.CreateProject(ctx, ws.ID, owner.ID, "Launch", "", "", nil, nil, nil)
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, p.ID, owner.ID, "Ship", "", "", "", nil, nil)
	require.NoError(t, err)

	t.Run("mentions resolve against member names", func(t *testing.T) {
		c, err := svc.AddComment(ctx, task.ID, owner.ID, "ping @Grace Hopper and @Nobody Else")
		require.NoError(t, err)
		require.Equal(t, []string{member.ID}, c.MentionIDs)
	})

	t.Run("comments come back oldest first with mentions", func(t *testing.T) {
		_, err := svc.AddComment(ctx, task.ID, member.ID, "on it")
		require.NoError(t, err)

		list, err := svc.ListComments(ctx, task.ID, owner.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, owner.ID, list[0].AuthorID)
		require.Equal(t, []string{member.ID}, list[0].MentionIDs)
		require.Equal(t, member.ID, list[1].AuthorID)
		require.Empty(t, list[1].MentionIDs)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		_, err := svc.AddComment(ctx, task.ID, owner.ID, "")
		require.ErrorIs(t, err, ErrInvalidTaskRequest)
	})
}
