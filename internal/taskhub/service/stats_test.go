package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/pkg/idx"
)

// fixedNow is a Thursday at noon, so the trailing-week window runs from the
// previous Friday through this Thursday.
var fixedNow = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

func trendTask(status domain.TaskStatus, updated time.Time) domain.Task {
	return domain.Task{Status: status, Priority: domain.PriorityMedium, UpdatedAt: updated}
}

func TestBuildTaskTrends(t *testing.T) {
	t.Parallel()

	t.Run("always emits Sun through Sat in order", func(t *testing.T) {
		trends := buildTaskTrends(nil, fixedNow)
		names := make([]string, len(trends))
		for i, tr := range trends {
			names[i] = tr.Name
		}
		require.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, names)
		for _, tr := range trends {
			require.Zero(t, tr.Completed)
			require.Zero(t, tr.InProgress)
			require.Zero(t, tr.ToDo)
		}
	})

	t.Run("buckets by the matched calendar date", func(t *testing.T) {
		tasks := []domain.Task{
			trendTask(domain.TaskDone, fixedNow),                         // today, Thursday
			trendTask(domain.TaskInProgress, fixedNow.AddDate(0, 0, -6)), // window start, Friday
			trendTask(domain.TaskToDo, fixedNow.AddDate(0, 0, -3)),       // Monday
		}
		trends := buildTaskTrends(tasks, fixedNow)

		byName := map[string]domain.TaskTrend{}
		for _, tr := range trends {
			byName[tr.Name] = tr
		}
		require.Equal(t, 1, byName["Thu"].Completed)
		require.Equal(t, 1, byName["Fri"].InProgress)
		require.Equal(t, 1, byName["Mon"].ToDo)
	})

	t.Run("silently drops tasks outside the window", func(t *testing.T) {
		tasks := []domain.Task{
			trendTask(domain.TaskDone, fixedNow.AddDate(0, 0, -7)), // one day too old
			trendTask(domain.TaskDone, fixedNow.AddDate(0, 0, 1)),  // tomorrow
		}
		trends := buildTaskTrends(tasks, fixedNow)
		for _, tr := range trends {
			require.Zero(t, tr.Completed, "bucket %s", tr.Name)
		}
	})

	t.Run("time of day does not matter", func(t *testing.T) {
		startOfDay := time.Date(2026, 8, 27, 0, 0, 1, 0, time.UTC)
		trends := buildTaskTrends([]domain.Task{trendTask(domain.TaskToDo, startOfDay)}, fixedNow)
		for _, tr := range trends {
			if tr.Name == "Thu" {
				require.Equal(t, 1, tr.ToDo)
			}
		}
	})
}

func TestBuildProjectStatus(t *testing.T) {
	t.Parallel()

	projects := []domain.Project{
		{Status: domain.ProjectCompleted},
		{Status: domain.ProjectCompleted},
		{Status: domain.ProjectInProgress},
		{Status: domain.ProjectPlanning},
		{Status: domain.ProjectOnHold},    // counted nowhere
		{Status: domain.ProjectCancelled}, // counted nowhere
	}

	slices := buildProjectStatus(projects)
	require.Equal(t, []domain.ChartSlice{
		{Name: "Completed", Value: 2, Color: "#10b981"},
		{Name: "In Progress", Value: 1, Color: "#3b82f6"},
		{Name: "Planning", Value: 1, Color: "#f59e0b"},
	}, slices)
}

func TestBuildTaskPriority(t *testing.T) {
	t.Parallel()

	tasks := []domain.Task{
		{Priority: domain.PriorityHigh},
		{Priority: domain.PriorityMedium},
		{Priority: domain.PriorityMedium},
		{Priority: domain.PriorityLow},
	}

	slices := buildTaskPriority(tasks)
	require.Equal(t, []domain.ChartSlice{
		{Name: "High", Value: 1, Color: "#ef4444"},
		{Name: "Medium", Value: 2, Color: "#f59e0b"},
		{Name: "Low", Value: 1, Color: "#6b7280"},
	}, slices)
}

func TestBuildProductivity(t *testing.T) {
	t.Parallel()

	projects := []domain.Project{
		{
			Title: "Alpha",
			Tasks: []domain.Task{
				{Status: domain.TaskDone},
				{Status: domain.TaskDone, IsArchived: true}, // total yes, completed no
				{Status: domain.TaskToDo},
			},
		},
		{Title: "Beta", IsArchived: true}, // archived projects still get a row
	}

	rows := buildProductivity(projects)
	require.Equal(t, []domain.ProjectProductivity{
		{Name: "Alpha", Completed: 1, Total: 3},
		{Name: "Beta", Completed: 0, Total: 0},
	}, rows)
}

func TestBuildUpcomingTasks(t *testing.T) {
	t.Parallel()

	due := func(d time.Duration) *time.Time {
		v := fixedNow.Add(d)
		return &v
	}

	tasks := []domain.Task{
		{Title: "no due date"},
		{Title: "due now", DueDate: due(0)},                  // strictly after only
		{Title: "in three days", DueDate: due(72 * time.Hour)},
		{Title: "at the horizon", DueDate: due(7 * 24 * time.Hour)},
		{Title: "in eight days", DueDate: due(8 * 24 * time.Hour)},
		{Title: "yesterday", DueDate: due(-24 * time.Hour)},
	}

	got := buildUpcomingTasks(tasks, fixedNow)
	titles := make([]string, len(got))
	for i, task := range got {
		titles[i] = task.Title
	}
	require.Equal(t, []string{"in three days", "at the horizon"}, titles)
}

func TestBuildSummary(t *testing.T) {
	t.Parallel()

	projects := []domain.Project{
		{Status: domain.ProjectInProgress},
		{Status: domain.ProjectCompleted},
		{Status: domain.ProjectOnHold},
	}
	tasks := []domain.Task{
		{Status: domain.TaskDone},
		{Status: domain.TaskDone},
		{Status: domain.TaskInProgress},
		{Status: domain.TaskToDo},
	}

	// The project count comes from its own query and may exceed the list.
	sum := buildSummary(5, projects, tasks)
	require.Equal(t, domain.StatsSummary{
		TotalProjects:          5,
		TotalTasks:             4,
		TotalProjectInProgress: 1,
		TotalProjectCompleted:  1,
		TotalTaskCompleted:     2,
		TotalTaskToDo:          1,
		TotalTaskInProgress:    1,
	}, sum)
}

func TestWorkspaceStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &StatsService{Store: st}

	owner := seedUser(t, st, "Owner", "owner@example.com")
	outsider := seedUser(t, st, "Outsider", "outsider@example.com")
	ws := seedWorkspace(t, st, owner)

	t.Run("unknown workspace", func(t *testing.T) {
		_, err := svc.WorkspaceStats(ctx, idx.New().String(), owner.ID)
		require.ErrorIs(t, err, ErrWorkspaceNotFound)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		_, err := svc.WorkspaceStats(ctx, ws.ID, outsider.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("empty workspace yields zeroed fixed shapes", func(t *testing.T) {
		stats, err := svc.WorkspaceStats(ctx, ws.ID, owner.ID)
		require.NoError(t, err)

		require.Equal(t, domain.StatsSummary{}, stats.Summary)
		require.Len(t, stats.TaskTrends, 7)
		require.Len(t, stats.ProjectStatus, 3)
		require.Len(t, stats.TaskPriority, 3)
		require.Empty(t, stats.Productivity)
		require.Empty(t, stats.UpcomingTasks)
		require.Empty(t, stats.RecentProjects)
	})

	t.Run("populated workspace", func(t *testing.T) {
		base := time.Now().UTC().Add(-time.Hour)
		older := seedProject(t, st, ws, "Older", domain.ProjectInProgress, base)
		newer := seedProject(t, st, ws, "Newer", domain.ProjectCompleted, base.Add(time.Minute))
		seedProject(t, st, ws, "Shelved", domain.ProjectOnHold, base.Add(2*time.Minute))

		soon := time.Now().UTC().Add(72 * time.Hour)
		seedTask(t, st, domain.Task{
			ProjectID: older.ID, Title: "Ship it", Status: domain.TaskDone,
			Priority: domain.PriorityHigh, CreatedBy: owner.ID,
		})
		seedTask(t, st, domain.Task{
			ProjectID: older.ID, Title: "Archived done", Status: domain.TaskDone,
			Priority: domain.PriorityLow, IsArchived: true, CreatedBy: owner.ID,
		})
		seedTask(t, st, domain.Task{
			ProjectID: newer.ID, Title: "Due soon", Status: domain.TaskToDo,
			Priority: domain.PriorityMedium, DueDate: &soon, CreatedBy: owner.ID,
		})

		stats, err := svc.WorkspaceStats(ctx, ws.ID, owner.ID)
		require.NoError(t, err)

		require.Equal(t, domain.StatsSummary{
			TotalProjects:          3,
			TotalTasks:             3,
			TotalProjectInProgress: 1,
			TotalProjectCompleted:  1,
			TotalTaskCompleted:     2,
			TotalTaskToDo:          1,
		}, stats.Summary)

		// Newest project first, and the On Hold one appears in the list
		// but in no status slice.
		require.Len(t, stats.RecentProjects, 3)
		require.Equal(t, "Shelved", stats.RecentProjects[0].Title)
		require.Equal(t, "Newer", stats.RecentProjects[1].Title)
		require.Equal(t, "Older", stats.RecentProjects[2].Title)

		require.Equal(t, []domain.ProjectProductivity{
			{Name: "Shelved", Completed: 0, Total: 0},
			{Name: "Newer", Completed: 0, Total: 1},
			{Name: "Older", Completed: 1, Total: 2}, // archived Done not completed
		}, stats.Productivity)

		require.Len(t, stats.UpcomingTasks, 1)
		require.Equal(t, "Due soon", stats.UpcomingTasks[0].Title)

		// Read-only: a second call sees the same bundle.
		again, err := svc.WorkspaceStats(ctx, ws.ID, owner.ID)
		require.NoError(t, err)
		require.Equal(t, stats.Summary, again.Summary)
		require.Equal(t, stats.Productivity, again.Productivity)
	})

	t.Run("recent projects capped at five", func(t *testing.T) {
		ws2 := seedWorkspace(t, st, owner)
		base := time.Now().UTC()
		for i := 0; i < 7; i++ {
			seedProject(t, st, ws2, "P", domain.ProjectPlanning, base.Add(time.Duration(i)*time.Second))
		}

		stats, err := svc.WorkspaceStats(ctx, ws2.ID, owner.ID)
		require.NoError(t, err)
		require.Len(t, stats.RecentProjects, 5)
		require.Equal(t, 7, stats.Summary.TotalProjects)
	})
}
