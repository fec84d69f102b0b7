package http

import (
	"net/http"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/internal/taskhub/service"
	"github.com/taskhubhq/taskhub/pkg/httpx"
)

type ActivitiesHandler struct {
	ActivityService *service.ActivityService
}

// ServeHTTP godoc
//
//	@Summary		Resource Activity Feed
//	@Description	Returns the newest activity entries for a workspace, project, task or comment.
//	@Tags			Activities
//	@Produce		json
//	@Param			resourceType	path		string	true	"Resource type"	Enums(Workspace, Project, Task, Comment)
//	@Param			resourceId		path		string	true	"Resource ID"
//	@Success		200				{array}		ActivityView
//	@Failure		400				{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/activities/{resourceType}/{resourceId} [get].
func (h *ActivitiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}

	feed, err := h.ActivityService.Feed(r.Context(),
		domain.ResourceType(r.PathValue("resourceType")), r.PathValue("resourceId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]ActivityView, 0, len(feed))
	for _, a := range feed {
		views = append(views, toActivityView(a))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}
