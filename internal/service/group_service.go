package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/litepay/litepay/internal/finance"
	"github.com/litepay/litepay/internal/middleware"
	"github.com/litepay/litepay/internal/models"
	"github.com/litepay/litepay/internal/storage"
	"github.com/litepay/litepay/internal/timeline"
)

const maxGroupNameLength = 50

// GroupService handles group CRUD, membership, and per-group balances.
type GroupService struct {
	store    storage.Store
	timeline *timeline.Worker
	now      func() time.Time
}

// NewGroupService creates a new group service.
func NewGroupService(store storage.Store, tl *timeline.Worker) *GroupService {
	return &GroupService{store: store, timeline: tl, now: time.Now}
}

type groupInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (in *groupInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("group name is required")
	}
	if len(in.Name) > maxGroupNameLength {
		return fmt.Errorf("group name cannot be more than %d characters", maxGroupNameLength)
	}
	return nil
}

func (s *GroupService) handleList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	groups, err := s.store.ListGroupsByMember(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if groups == nil {
		groups = []*models.Group{}
	}

	writeData(w, http.StatusOK, groups)
}

func (s *GroupService) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var in groupInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := in.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	group := &models.Group{
		Name:      strings.TrimSpace(in.Name),
		Color:     in.Color,
		Members:   []string{userID},
		CreatedBy: userID,
	}
	if err := s.store.CreateGroup(r.Context(), group); err != nil {
		slog.Error("failed to create group", "error", err)
		writeStoreError(w, err)
		return
	}

	s.recordEvent(r, models.EventGroupCreated, group, "")
	slog.Info("group created", "group_id", group.ID, "created_by", userID)
	writeData(w, http.StatusCreated, group)
}

// loadGroupForMember fetches a group and verifies the caller belongs to it.
func (s *GroupService) loadGroupForMember(w http.ResponseWriter, r *http.Request) (*models.Group, bool) {
	userID := middleware.GetUserID(r.Context())

	group, err := s.store.GetGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeStoreError(w, err)
		return nil, false
	}
	if !group.HasMember(userID) {
		writeError(w, http.StatusForbidden, ErrForbidden)
		return nil, false
	}
	return group, true
}

func (s *GroupService) handleGet(w http.ResponseWriter, r *http.Request) {
	group, ok := s.loadGroupForMember(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, group)
}

func (s *GroupService) handleUpdate(w http.ResponseWriter, r *http.Request) {
	group, ok := s.loadGroupForMember(w, r)
	if !ok {
		return
	}

	var in groupInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := in.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	group.Name = strings.TrimSpace(in.Name)
	if in.Color != "" {
		group.Color = in.Color
	}
	if err := s.store.UpdateGroup(r.Context(), group); err != nil {
		writeStoreError(w, err)
		return
	}

	writeData(w, http.StatusOK, group)
}

func (s *GroupService) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	group, ok := s.loadGroupForMember(w, r)
	if !ok {
		return
	}
	if group.CreatedBy != userID {
		writeError(w, http.StatusForbidden, errors.New("only the group creator can delete the group"))
		return
	}

	if err := s.store.DeleteGroup(r.Context(), group.ID); err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("group deleted", "group_id", group.ID, "deleted_by", userID)
	writeData(w, http.StatusOK, struct{}{})
}

func (s *GroupService) handleAddMember(w http.ResponseWriter, r *http.Request) {
	group, ok := s.loadGroupForMember(w, r)
	if !ok {
		return
	}

	newMemberID := chi.URLParam(r, "userID")
	user, err := s.store.GetUserByID(r.Context(), newMemberID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("user %s: %w", newMemberID, storage.ErrNotFound))
		return
	}

	if err := s.store.AddGroupMember(r.Context(), group.ID, newMemberID); err != nil {
		writeStoreError(w, err)
		return
	}

	s.recordEvent(r, models.EventMemberAdded, group, "")
	writeData(w, http.StatusOK, struct{}{})
}

func (s *GroupService) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	group, ok := s.loadGroupForMember(w, r)
	if !ok {
		return
	}

	targetID := chi.URLParam(r, "userID")
	// Members may leave on their own; only the creator removes others.
	if targetID != userID && group.CreatedBy != userID {
		writeError(w, http.StatusForbidden, errors.New("only the group creator can remove other members"))
		return
	}

	if err := s.store.RemoveGroupMember(r.Context(), group.ID, targetID); err != nil {
		writeStoreError(w, err)
		return
	}

	s.recordEvent(r, models.EventMemberRemoved, group, "")
	writeData(w, http.StatusOK, struct{}{})
}

// groupBalances is the per-group settlement view from the caller's side.
type groupBalances struct {
	GroupID   string                `json:"group"`
	OwedToYou []models.BalanceEntry `json:"owedToYou"`
	Debts     []models.BalanceEntry `json:"debts"`
}

// handleBalances runs the balance engine over this group's expenses only.
func (s *GroupService) handleBalances(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	group, ok := s.loadGroupForMember(w, r)
	if !ok {
		return
	}

	expenses, err := s.store.ListExpensesByGroup(r.Context(), group.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	res := finance.ComputeBalances(expenses, userID)
	owedToYou, debts := finance.PartitionBalances(res, finance.ResolveUsers(expenses))
	if owedToYou == nil {
		owedToYou = []models.BalanceEntry{}
	}
	if debts == nil {
		debts = []models.BalanceEntry{}
	}

	writeData(w, http.StatusOK, groupBalances{
		GroupID:   group.ID,
		OwedToYou: owedToYou,
		Debts:     debts,
	})
}

// recordEvent queues a timeline event for the acting user.
func (s *GroupService) recordEvent(r *http.Request, eventType models.EventType, group *models.Group, expenseID string) {
	userID := middleware.GetUserID(r.Context())
	actor := userID
	if user, err := s.store.GetUserByID(r.Context(), userID); err == nil && user != nil {
		actor = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}

	s.timeline.Record(models.TimelineEvent{
		UserID:      userID,
		Type:        eventType,
		GroupID:     group.ID,
		ExpenseID:   expenseID,
		Description: timeline.Describe(eventType, actor, group.Name),
		CreatedAt:   s.now().Unix(),
	})
}
