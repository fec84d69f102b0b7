package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/internal/taskhub/store"
	"github.com/taskhubhq/taskhub/pkg/slogx"
)

// StatsService materializes the workspace dashboard bundle. The computation
// is read-only and idempotent: two loads, then pure folds over the loaded
// slices with a single clock reading.
type StatsService struct {
	Store store.Store
}

// WorkspaceStats builds the dashboard for a workspace. The caller must be a
// member. Either both loads succeed or the whole call fails; there is no
// partial result.
func (s *StatsService) WorkspaceStats(ctx context.Context, workspaceID, callerID string) (domain.WorkspaceStats, error) {
	log := slogx.FromContext(ctx)

	// 1. Existence and membership gate: 404 before 403.
	if _, _, err := requireRole(ctx, s.Store, workspaceID, callerID, domain.RoleViewer); err != nil {
		return domain.WorkspaceStats{}, err
	}

	// 2. Two independent loads, run concurrently. The count deliberately
	// includes archived projects while the charts are built from the
	// project list, so totalProjects can exceed what the charts show.
	var (
		totalProjects int
		projects      []domain.Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalProjects, err = s.Store.Projects().CountProjectsByWorkspace(gctx, workspaceID)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = s.Store.Projects().ListProjectsByWorkspace(gctx, workspaceID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to load workspace stats",
			slog.String("workspace_id", workspaceID),
			slog.Any("error", err),
		)
		return domain.WorkspaceStats{}, err
	}

	// 3. Flatten once, fold many. One clock reading covers every view so
	// the bundle is internally consistent.
	now := time.Now().UTC()
	tasks := flattenTasks(projects)

	return domain.WorkspaceStats{
		Summary:        buildSummary(totalProjects, projects, tasks),
		TaskTrends:     buildTaskTrends(tasks, now),
		ProjectStatus:  buildProjectStatus(projects),
		TaskPriority:   buildTaskPriority(tasks),
		Productivity:   buildProductivity(projects),
		UpcomingTasks:  buildUpcomingTasks(tasks, now),
		RecentProjects: recentProjects(projects, 5),
	}, nil
}

func flattenTasks(projects []domain.Project) []domain.Task {
	var out []domain.Task
	for _, p := range projects {
		out = append(out, p.Tasks...)
	}
	return out
}

func buildSummary(totalProjects int, projects []domain.Project, tasks []domain.Task) domain.StatsSummary {
	sum := domain.StatsSummary{
		TotalProjects: totalProjects,
		TotalTasks:    len(tasks),
	}
	for _, p := range projects {
		switch p.Status {
		case domain.ProjectInProgress:
			sum.TotalProjectInProgress++
		case domain.ProjectCompleted:
			sum.TotalProjectCompleted++
		}
	}
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskDone:
			sum.TotalTaskCompleted++
		case domain.TaskToDo:
			sum.TotalTaskToDo++
		case domain.TaskInProgress:
			sum.TotalTaskInProgress++
		}
	}
	return sum
}

// buildTaskTrends buckets tasks by the calendar date of their last update
// over the trailing 7 days. The output rows are always Sun..Sat in that
// order; a task outside the window is silently excluded. The bucket is
// labeled by the weekday of the matched calendar date, not the task's own
// timestamp, which matters only when clocks disagree about the date.
func buildTaskTrends(tasks []domain.Task, now time.Time) []domain.TaskTrend {
	trends := []domain.TaskTrend{
		{Name: "Sun"}, {Name: "Mon"}, {Name: "Tue"}, {Name: "Wed"},
		{Name: "Thu"}, {Name: "Fri"}, {Name: "Sat"},
	}

	window := make([]time.Time, 7)
	for i := range window {
		window[i] = now.AddDate(0, 0, -(6 - i))
	}

	for _, t := range tasks {
		for _, day := range window {
			if !sameDate(day, t.UpdatedAt) {
				continue
			}
			label := day.Weekday().String()[:3]
			for i := range trends {
				if trends[i].Name != label {
					continue
				}
				switch t.Status {
				case domain.TaskDone:
					trends[i].Completed++
				case domain.TaskInProgress:
					trends[i].InProgress++
				case domain.TaskToDo:
					trends[i].ToDo++
				}
				break
			}
			break
		}
	}

	return trends
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// buildProjectStatus always returns the three fixed slices. On Hold and
// Cancelled projects are counted nowhere, which is why the chart can sum to
// less than the project total.
func buildProjectStatus(projects []domain.Project) []domain.ChartSlice {
	slices := []domain.ChartSlice{
		{Name: "Completed", Color: "#10b981"},
		{Name: "In Progress", Color: "#3b82f6"},
		{Name: "Planning", Color: "#f59e0b"},
	}
	for _, p := range projects {
		switch p.Status {
		case domain.ProjectCompleted:
			slices[0].Value++
		case domain.ProjectInProgress:
			slices[1].Value++
		case domain.ProjectPlanning:
			slices[2].Value++
		}
	}
	return slices
}

func buildTaskPriority(tasks []domain.Task) []domain.ChartSlice {
	slices := []domain.ChartSlice{
		{Name: "High", Color: "#ef4444"},
		{Name: "Medium", Color: "#f59e0b"},
		{Name: "Low", Color: "#6b7280"},
	}
	for _, t := range tasks {
		switch t.Priority {
		case domain.PriorityHigh:
			slices[0].Value++
		case domain.PriorityMedium:
			slices[1].Value++
		case domain.PriorityLow:
			slices[2].Value++
		}
	}
	return slices
}

// buildProductivity emits one row per loaded project. Total counts every
// task; completed counts only non-archived Done tasks. Archived projects
// still get a row.
func buildProductivity(projects []domain.Project) []domain.ProjectProductivity {
	out := make([]domain.ProjectProductivity, 0, len(projects))
	for _, p := range projects {
		row := domain.ProjectProductivity{
			Name:  p.Title,
			Total: len(p.Tasks),
		}
		for _, t := range p.Tasks {
			if t.Status == domain.TaskDone && !t.IsArchived {
				row.Completed++
			}
		}
		out = append(out, row)
	}
	return out
}

// buildUpcomingTasks keeps tasks due strictly after now and within the next
// seven days. Tasks without a due date never qualify.
func buildUpcomingTasks(tasks []domain.Task, now time.Time) []domain.Task {
	horizon := now.Add(7 * 24 * time.Hour)
	var out []domain.Task
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		if t.DueDate.After(now) && !t.DueDate.After(horizon) {
			out = append(out, t)
		}
	}
	return out
}

func recentProjects(projects []domain.Project, n int) []domain.Project {
	if len(projects) <= n {
		return projects
	}
	return projects[:n]
}
