package http

import (
	"net/http"

	"github.com/taskhubhq/taskhub/internal/taskhub/service"
	"github.com/taskhubhq/taskhub/pkg/httpx"
)

type StatsHandler struct {
	StatsService *service.StatsService
}

// ServeHTTP godoc
//
//	@Summary		Workspace Dashboard Statistics
//	@Description	Returns the dashboard bundle for a workspace: headline counters, the trailing-week task trend
//	@Description	histogram (fixed Sun..Sat buckets), project status and task priority breakdowns, per-project
//	@Description	productivity, tasks due within seven days, and the five most recent projects.
//	@Tags			Workspaces
//	@Produce		json
//	@Param			workspaceId	path		string	true	"Workspace ID"
//	@Success		200			{object}	StatsResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/workspaces/{workspaceId}/stats [get].
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	stats, err := h.StatsService.WorkspaceStats(r.Context(), r.PathValue("workspaceId"), caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := StatsResponse{
		Stats:             stats.Summary,
		TaskTrendsData:    stats.TaskTrends,
		ProjectStatusData: stats.ProjectStatus,
		TaskPriorityData:  stats.TaskPriority,
		Productivity:      stats.Productivity,
		UpcomingTasks:     make([]TaskView, 0, len(stats.UpcomingTasks)),
		RecentProjects:    make([]ProjectView, 0, len(stats.RecentProjects)),
	}
	for _, t := range stats.UpcomingTasks {
		resp.UpcomingTasks = append(resp.UpcomingTasks, toTaskView(t))
	}
	for _, p := range stats.RecentProjects {
		resp.RecentProjects = append(resp.RecentProjects, toProjectView(p))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
