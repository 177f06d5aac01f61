package service

import (
	"net/http"

	"github.com/litepay/litepay/internal/middleware"
	"github.com/litepay/litepay/internal/models"
	"github.com/litepay/litepay/internal/storage"
)

// timelineLimit caps the activity feed at the most recent events.
const timelineLimit = 20

// TimelineService serves the per-user activity feed.
type TimelineService struct {
	store storage.Store
}

// NewTimelineService creates a new timeline service.
func NewTimelineService(store storage.Store) *TimelineService {
	return &TimelineService{store: store}
}

func (s *TimelineService) handleList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	events, err := s.store.ListTimelineForUser(r.Context(), userID, timelineLimit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if events == nil {
		events = []*models.TimelineEvent{}
	}

	writeData(w, http.StatusOK, events)
}
