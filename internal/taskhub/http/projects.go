package http

import (
	"encoding/json"
	"net/http"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/internal/taskhub/service"
	"github.com/taskhubhq/taskhub/pkg/httpx"
)

type ProjectsHandler struct {
	ProjectService *service.ProjectService
	TaskService    *service.TaskService
}

// HandleCreate godoc
//
//	@Summary		Create Project
//	@Description	Creates a project in a workspace. Requires at least the member role; the creator is added
//	@Description	as project manager if the member list doesn't include them.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateProjectRequest	true	"Project details"
//	@Success		201		{object}	ProjectView
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/projects [post].
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	members := make([]domain.ProjectMember, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, domain.ProjectMember{
			UserID: m.UserID,
			Role:   domain.ProjectRole(m.Role),
		})
	}

	p, err := h.ProjectService.CreateProject(r.Context(), req.WorkspaceID, caller,
		req.Title, req.Description, domain.ProjectStatus(req.Status),
		req.StartDate, req.DueDate, members)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toProjectView(p))
}

// HandleGet godoc
//
//	@Summary		Get Project
//	@Description	Returns a project with its member list. Caller must be a workspace member.
//	@Tags			Projects
//	@Produce		json
//	@Param			projectId	path		string	true	"Project ID"
//	@Success		200			{object}	ProjectView
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/projects/{projectId} [get].
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	p, err := h.ProjectService.GetProject(r.Context(), r.PathValue("projectId"), caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjectView(p))
}

// HandleCreateTask godoc
//
//	@Summary		Create Task
//	@Description	Adds a task to a project. Caller must be a project member; assignees must be workspace members.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			projectId	path		string				true	"Project ID"
//	@Param			request		body		CreateTaskRequest	true	"Task details"
//	@Success		201			{object}	TaskView
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/projects/{projectId}/tasks [post].
func (h *ProjectsHandler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	t, err := h.TaskService.CreateTask(r.Context(), r.PathValue("projectId"), caller,
		req.Title, req.Description, domain.TaskStatus(req.Status),
		domain.TaskPriority(req.Priority), req.DueDate, req.Assignees)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toTaskView(t))
}
