package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/litepay/litepay/internal/middleware"
	"github.com/litepay/litepay/internal/models"
	"github.com/litepay/litepay/internal/storage"
	"github.com/litepay/litepay/internal/timeline"
)

// InvitationService handles inviting users into groups and resolving the
// invitations.
type InvitationService struct {
	store    storage.Store
	timeline *timeline.Worker
	now      func() time.Time
}

// NewInvitationService creates a new invitation service.
func NewInvitationService(store storage.Store, tl *timeline.Worker) *InvitationService {
	return &InvitationService{store: store, timeline: tl, now: time.Now}
}

type invitationInput struct {
	GroupID string `json:"group"`
	Email   string `json:"email"`
}

func (s *InvitationService) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var in invitationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if in.GroupID == "" || in.Email == "" {
		writeError(w, http.StatusBadRequest, errors.New("group and email are required"))
		return
	}

	group, err := s.store.GetGroup(r.Context(), in.GroupID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !group.HasMember(userID) {
		writeError(w, http.StatusForbidden, ErrForbidden)
		return
	}

	recipient, err := s.store.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if recipient == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no user registered with email %s", in.Email))
		return
	}
	if group.HasMember(recipient.ID) {
		writeError(w, http.StatusConflict, errors.New("user is already a member of this group"))
		return
	}

	inv := &models.Invitation{
		GroupID:    group.ID,
		FromUserID: userID,
		ToUserID:   recipient.ID,
	}
	if err := s.store.CreateInvitation(r.Context(), inv); err != nil {
		slog.Error("failed to create invitation", "group_id", group.ID, "error", err)
		writeStoreError(w, err)
		return
	}

	slog.Info("invitation sent", "invitation_id", inv.ID, "group_id", group.ID, "to", recipient.ID)
	writeData(w, http.StatusCreated, inv)
}

func (s *InvitationService) handleList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	invitations, err := s.store.ListInvitationsForUser(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if invitations == nil {
		invitations = []*models.Invitation{}
	}

	writeData(w, http.StatusOK, invitations)
}

// loadPendingForRecipient fetches an invitation addressed to the caller
// that has not been resolved yet.
func (s *InvitationService) loadPendingForRecipient(w http.ResponseWriter, r *http.Request) (*models.Invitation, bool) {
	userID := middleware.GetUserID(r.Context())

	inv, err := s.store.GetInvitation(r.Context(), chi.URLParam(r, "invitationID"))
	if err != nil {
		writeStoreError(w, err)
		return nil, false
	}
	if inv.ToUserID != userID {
		writeError(w, http.StatusForbidden, ErrForbidden)
		return nil, false
	}
	if inv.Status != models.InvitationPending {
		writeError(w, http.StatusConflict, errors.New("invitation has already been resolved"))
		return nil, false
	}
	return inv, true
}

func (s *InvitationService) handleAccept(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.loadPendingForRecipient(w, r)
	if !ok {
		return
	}

	if err := s.store.UpdateInvitationStatus(r.Context(), inv.ID, models.InvitationAccepted); err != nil {
		writeStoreError(w, err)
		return
	}
	if err := s.store.AddGroupMember(r.Context(), inv.GroupID, inv.ToUserID); err != nil {
		writeStoreError(w, err)
		return
	}

	groupName := inv.GroupID
	if group, err := s.store.GetGroup(r.Context(), inv.GroupID); err == nil {
		groupName = group.Name
	}
	actor := inv.ToUserID
	if user, err := s.store.GetUserByID(r.Context(), inv.ToUserID); err == nil && user != nil {
		actor = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}
	s.timeline.Record(models.TimelineEvent{
		UserID:      inv.ToUserID,
		Type:        models.EventInvitationAccepted,
		GroupID:     inv.GroupID,
		Description: timeline.Describe(models.EventInvitationAccepted, actor, groupName),
		CreatedAt:   s.now().Unix(),
	})

	slog.Info("invitation accepted", "invitation_id", inv.ID, "group_id", inv.GroupID)
	writeData(w, http.StatusOK, struct{}{})
}

func (s *InvitationService) handleDecline(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.loadPendingForRecipient(w, r)
	if !ok {
		return
	}

	if err := s.store.UpdateInvitationStatus(r.Context(), inv.ID, models.InvitationDeclined); err != nil {
		writeStoreError(w, err)
		return
	}

	writeData(w, http.StatusOK, struct{}{})
}
