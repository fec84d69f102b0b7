package http

import (
	"errors"
	"net/http"

	"github.com/taskhubhq/taskhub/internal/taskhub/service"
	"github.com/taskhubhq/taskhub/pkg/httpx"
	"github.com/taskhubhq/taskhub/pkg/slogx"
)

// writeServiceError maps service sentinel errors onto the HTTP surface.
// Anything unrecognized is an internal error and gets logged; sentinel
// failures are the caller's problem and stay out of the error log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrWorkspaceNotFound),
		errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrSubtaskNotFound),
		errors.Is(err, service.ErrInviteNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})

	case errors.Is(err, service.ErrForbidden):
		httpx.WriteJSON(w, http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})

	case errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrInvitePending):
		httpx.WriteJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})

	case errors.Is(err, service.ErrInvalidWorkspaceRequest),
		errors.Is(err, service.ErrInvalidProjectRequest),
		errors.Is(err, service.ErrInvalidTaskRequest),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidResourceType),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCannotTransferToSelf),
		errors.Is(err, service.ErrTargetNotMember),
		errors.Is(err, service.ErrInviteExpired),
		errors.Is(err, service.ErrInvalidInviteToken):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})

	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "server_error",
			Message: "Internal server error",
		})
	}
}

// writeBadJSON rejects a request whose body failed to decode.
func writeBadJSON(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid JSON body",
	})
}

// callerID pulls the authenticated user from the request context. The authn
// middleware guarantees it's set on secured routes.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := httpx.UserIDFromContext(r.Context())
	if id == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return "", false
	}
	return id, true
}
