package http

import (
	"encoding/json"
	"net/http"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/internal/taskhub/service"
	"github.com/taskhubhq/taskhub/pkg/httpx"
)

type InvitesHandler struct {
	InviteService *service.InviteService
}

// HandleInvite godoc
//
//	@Summary		Invite Member
//	@Description	Invites an existing account to the workspace by email. The invitation link is sent by email
//	@Description	and stays valid for seven days. Admins and owners only.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			workspaceId	path		string				true	"Workspace ID"
//	@Param			request		body		InviteMemberRequest	true	"Invitee email and role"
//	@Success		200			{object}	MessageResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/workspaces/{workspaceId}/invite-member [post].
func (h *InvitesHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req InviteMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}
	if req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "email is required",
		})
		return
	}

	err := h.InviteService.Invite(r.Context(), r.PathValue("workspaceId"), caller,
		req.Email, domain.WorkspaceRole(req.Role))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Invitation sent successfully"})
}

// HandleAcceptToken godoc
//
//	@Summary		Accept Invitation Token
//	@Description	Redeems an emailed invitation token. The invited user joins with the role the invite granted;
//	@Description	the invitation is consumed and the token cannot be replayed.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AcceptInviteRequest	true	"Invitation token"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/workspaces/accept-invite-token [post].
func (h *InvitesHandler) HandleAcceptToken(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}

	var req AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	if err := h.InviteService.AcceptByToken(r.Context(), req.Token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Invitation accepted successfully"})
}

// HandleAcceptOpen godoc
//
//	@Summary		Join Workspace
//	@Description	Joins the authenticated user to the workspace as a plain member.
//	@Tags			Invitations
//	@Produce		json
//	@Param			workspaceId	path		string	true	"Workspace ID"
//	@Success		200			{object}	MessageResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/workspaces/{workspaceId}/accept-open-invite [post].
func (h *InvitesHandler) HandleAcceptOpen(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.InviteService.AcceptOpenInvite(r.Context(), r.PathValue("workspaceId"), caller); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Invitation accepted successfully"})
}
