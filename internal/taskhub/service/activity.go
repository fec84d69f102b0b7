package service

import (
	"context"
	"errors"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/internal/taskhub/store"
)

// activityFeedLimit caps the feed so a busy resource can't drag the whole
// history over the wire.
const activityFeedLimit = 25

var ErrInvalidResourceType = errors.New("invalid resource type")

type ActivityService struct {
	Store store.Store
}

// Feed returns the newest activity entries for a resource.
func (s *ActivityService) Feed(ctx context.Context, resourceType domain.ResourceType, resourceID string) ([]domain.Activity, error) {
	switch resourceType {
	case domain.ResourceWorkspace, domain.ResourceProject, domain.ResourceTask, domain.ResourceComment:
	default:
		return nil, ErrInvalidResourceType
	}
	return s.Store.Activities().ListActivitiesByResource(ctx, resourceType, resourceID, activityFeedLimit)
}
