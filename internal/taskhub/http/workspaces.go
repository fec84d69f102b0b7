package http

import (
	"encoding/json"
	"net/http"

	"github.com/taskhubhq/taskhub/internal/taskhub/service"
	"github.com/taskhubhq/taskhub/pkg/httpx"
)

type WorkspacesHandler struct {
	WorkspaceService *service.WorkspaceService
}

// HandleCreate godoc
//
//	@Summary		Create Workspace
//	@Description	Creates a workspace owned by the authenticated user. The creator becomes the owner member.
//	@Tags			Workspaces
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateWorkspaceRequest	true	"Workspace details"
//	@Success		201		{object}	WorkspaceView
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/workspaces [post].
func (h *WorkspacesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	ws, err := h.WorkspaceService.CreateWorkspace(r.Context(), caller, req.Name, req.Description, req.Color)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toWorkspaceView(ws))
}

// HandleList godoc
//
//	@Summary		List Workspaces
//	@Description	Returns every workspace the authenticated user belongs to, newest first.
//	@Tags			Workspaces
//	@Produce		json
//	@Success		200	{array}		WorkspaceView
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/workspaces [get].
func (h *WorkspacesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	list, err := h.WorkspaceService.ListWorkspaces(r.Context(), caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]WorkspaceView, 0, len(list))
	for _, ws := range list {
		views = append(views, toWorkspaceView(ws))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}

// HandleGet godoc
//
//	@Summary		Get Workspace
//	@Description	Returns a workspace with its member list. Caller must be a member.
//	@Tags			Workspaces
//	@Produce		json
//	@Param			workspaceId	path		string	true	"Workspace ID"
//	@Success		200			{object}	WorkspaceView
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/workspaces/{workspaceId} [get].
func (h *WorkspacesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	ws, err := h.WorkspaceService.GetWorkspace(r.Context(), r.PathValue("workspaceId"), caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWorkspaceView(ws))
}

// HandleUpdate godoc
//
//	@Summary		Update Workspace
//	@Description	Updates name, description and color. Owner only.
//	@Tags			Workspaces
//	@Accept			json
//	@Produce		json
//	@Param			workspaceId	path		string					true	"Workspace ID"
//	@Param			request		body		UpdateWorkspaceRequest	true	"New details"
//	@Success		200			{object}	WorkspaceView
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/workspaces/{workspaceId} [put].
func (h *WorkspacesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req UpdateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	ws, err := h.WorkspaceService.UpdateWorkspace(r.Context(),
		r.PathValue("workspaceId"), caller, req.Name, req.Description, req.Color)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWorkspaceView(ws))
}

// HandleDelete godoc
//
//	@Summary		Delete Workspace
//	@Description	Deletes the workspace and everything under it. Owner only.
//	@Tags			Workspaces
//	@Produce		json
//	@Param			workspaceId	path		string	true	"Workspace ID"
//	@Success		200			{object}	MessageResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/workspaces/{workspaceId} [delete].
func (h *WorkspacesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.WorkspaceService.DeleteWorkspace(r.Context(), r.PathValue("workspaceId"), caller); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Workspace deleted"})
}

// HandleTransfer godoc
//
//	@Summary		Transfer Workspace Ownership
//	@Description	Hands the workspace to another member. The old owner is demoted to admin. Owner only.
//	@Tags			Workspaces
//	@Accept			json
//	@Produce		json
//	@Param			workspaceId	path		string						true	"Workspace ID"
//	@Param			request		body		TransferOwnershipRequest	true	"New owner"
//	@Success		200			{object}	MessageResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/workspaces/{workspaceId}/transfer [patch].
func (h *WorkspacesHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req TransferOwnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	err := h.WorkspaceService.TransferOwnership(r.Context(), r.PathValue("workspaceId"), caller, req.NewOwnerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Ownership transferred"})
}

// HandleMembers godoc
//
//	@Summary		List Workspace Members
//	@Description	Returns the workspace member list with user details, in join order.
//	@Tags			Workspaces
//	@Produce		json
//	@Param			workspaceId	path		string	true	"Workspace ID"
//	@Success		200			{array}		WorkspaceMemberView
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/workspaces/{workspaceId}/members [get].
func (h *WorkspacesHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	ws, err := h.WorkspaceService.GetWorkspace(r.Context(), r.PathValue("workspaceId"), caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWorkspaceView(ws).Members)
}

// HandleProjects godoc
//
//	@Summary		List Workspace Projects
//	@Description	Returns the caller's non-archived projects in the workspace, newest first, with their tasks.
//	@Tags			Workspaces
//	@Produce		json
//	@Param			workspaceId	path		string	true	"Workspace ID"
//	@Success		200			{array}		ProjectView
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/workspaces/{workspaceId}/projects [get].
func (h *WorkspacesHandler) HandleProjects(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	projects, err := h.WorkspaceService.GetProjects(r.Context(), r.PathValue("workspaceId"), caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, toProjectView(p))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}
