package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/litepay/litepay/internal/middleware"
	"github.com/litepay/litepay/internal/models"
	"github.com/litepay/litepay/internal/money"
	"github.com/litepay/litepay/internal/storage"
	"github.com/litepay/litepay/internal/timeline"
)

const maxExpenseTitleLength = 100

// ExpenseService handles expense CRUD. Its write-time validation upholds
// the invariant the finance engine relies on: shares sum to the expense
// amount within tolerance, and every referenced user is a group member.
type ExpenseService struct {
	store    storage.Store
	timeline *timeline.Worker
	now      func() time.Time
}

// NewExpenseService creates a new expense service.
func NewExpenseService(store storage.Store, tl *timeline.Worker) *ExpenseService {
	return &ExpenseService{store: store, timeline: tl, now: time.Now}
}

type shareInput struct {
	User   string          `json:"user"`
	Amount decimal.Decimal `json:"amount"`
}

type expenseInput struct {
	Title     string           `json:"title"`
	Amount    decimal.Decimal  `json:"amount"`
	PaidBy    string           `json:"paidBy"`
	Category  models.Category  `json:"category"`
	SplitType models.SplitType `json:"splitType"`
	Date      int64            `json:"date"`
	Shares    []shareInput     `json:"shares"`
}

// validate checks the input against the group it belongs to. This is the
// write-time enforcement of the share-sum and membership invariants.
func (in *expenseInput) validate(group *models.Group) error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.New("title is required")
	}
	if len(in.Title) > maxExpenseTitleLength {
		return fmt.Errorf("title cannot be more than %d characters", maxExpenseTitleLength)
	}
	if !in.Amount.IsPositive() {
		return errors.New("amount must be a positive number")
	}
	if in.PaidBy == "" {
		return errors.New("paidBy must be specified")
	}
	if !group.HasMember(in.PaidBy) {
		return fmt.Errorf("user %s is not a member of this group", in.PaidBy)
	}
	if len(in.Shares) == 0 {
		return errors.New("at least one share must be specified")
	}

	seen := make(map[string]bool, len(in.Shares))
	amounts := make([]decimal.Decimal, 0, len(in.Shares))
	for _, share := range in.Shares {
		if share.User == "" {
			return errors.New("every share must reference a user")
		}
		if seen[share.User] {
			return fmt.Errorf("duplicate share for user %s", share.User)
		}
		seen[share.User] = true
		if !share.Amount.IsPositive() {
			return errors.New("all shares must be positive numbers")
		}
		if !group.HasMember(share.User) {
			return fmt.Errorf("user %s is not a member of this group", share.User)
		}
		amounts = append(amounts, share.Amount)
	}

	if !money.SumMatches(in.Amount, amounts) {
		return errors.New("share amounts must sum to the expense amount")
	}

	if in.Category != "" && !in.Category.Valid() {
		return fmt.Errorf("unknown category %q", in.Category)
	}
	if in.SplitType != "" && !in.SplitType.Valid() {
		return fmt.Errorf("unknown split type %q", in.SplitType)
	}

	return nil
}

// apply copies validated input onto an expense.
func (in *expenseInput) apply(expense *models.Expense) {
	expense.Title = strings.TrimSpace(in.Title)
	expense.Amount = in.Amount
	expense.PaidBy = models.UserRef{ID: in.PaidBy}
	expense.Date = in.Date
	expense.Category = in.Category
	if expense.Category == "" {
		expense.Category = models.CategoryOther
	}
	expense.SplitType = in.SplitType
	if expense.SplitType == "" {
		expense.SplitType = models.SplitEqual
	}
	expense.Shares = make([]models.Share, len(in.Shares))
	for i, share := range in.Shares {
		expense.Shares[i] = models.Share{
			User:   models.UserRef{ID: share.User},
			Amount: share.Amount,
		}
	}
}

// handleListByGroup serves GET /api/groups/{groupID}/expenses.
func (s *ExpenseService) handleListByGroup(w http.ResponseWriter, r *http.Request) {
	group, ok := s.loadGroupForMember(w, r)
	if !ok {
		return
	}

	expenses, err := s.store.ListExpensesByGroup(r.Context(), group.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}

	writeData(w, http.StatusOK, expenses)
}

// handleCreate serves POST /api/groups/{groupID}/expenses.
func (s *ExpenseService) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	group, ok := s.loadGroupForMember(w, r)
	if !ok {
		return
	}

	var in expenseInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := in.validate(group); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	expense := &models.Expense{
		GroupID:   group.ID,
		CreatedBy: userID,
	}
	in.apply(expense)
	if expense.Date == 0 {
		expense.Date = s.now().Unix()
	}

	if err := s.store.CreateExpense(r.Context(), expense); err != nil {
		slog.Error("failed to create expense", "group_id", group.ID, "error", err)
		writeStoreError(w, err)
		return
	}

	s.recordEvent(r, models.EventExpenseAdded, group.ID, expense)
	slog.Info("expense created", "expense_id", expense.ID, "group_id", group.ID, "amount", expense.Amount)

	// Re-read so the response carries populated user references.
	created, err := s.store.GetExpense(r.Context(), expense.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

// loadExpenseForMember fetches an expense and verifies the caller belongs
// to its group. Returns the expense and its group.
func (s *ExpenseService) loadExpenseForMember(w http.ResponseWriter, r *http.Request) (*models.Expense, *models.Group, bool) {
	userID := middleware.GetUserID(r.Context())

	expense, err := s.store.GetExpense(r.Context(), chi.URLParam(r, "expenseID"))
	if err != nil {
		writeStoreError(w, err)
		return nil, nil, false
	}

	group, err := s.store.GetGroup(r.Context(), expense.GroupID)
	if err != nil {
		writeStoreError(w, err)
		return nil, nil, false
	}
	if !group.HasMember(userID) {
		writeError(w, http.StatusForbidden, ErrForbidden)
		return nil, nil, false
	}

	return expense, group, true
}

func (s *ExpenseService) handleGet(w http.ResponseWriter, r *http.Request) {
	expense, _, ok := s.loadExpenseForMember(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, expense)
}

// canModify reports whether the caller may change the expense: its creator,
// its payer, or the group creator.
func canModify(userID string, expense *models.Expense, group *models.Group) bool {
	return expense.CreatedBy == userID || expense.PaidBy.ID == userID || group.CreatedBy == userID
}

func (s *ExpenseService) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	expense, group, ok := s.loadExpenseForMember(w, r)
	if !ok {
		return
	}
	if !canModify(userID, expense, group) {
		writeError(w, http.StatusForbidden, errors.New("only the creator or payer can modify this expense"))
		return
	}

	var in expenseInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := in.validate(group); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	in.apply(expense)
	if expense.Date == 0 {
		expense.Date = s.now().Unix()
	}

	if err := s.store.UpdateExpense(r.Context(), expense); err != nil {
		writeStoreError(w, err)
		return
	}

	s.recordEvent(r, models.EventExpenseUpdated, group.ID, expense)

	updated, err := s.store.GetExpense(r.Context(), expense.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *ExpenseService) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	expense, group, ok := s.loadExpenseForMember(w, r)
	if !ok {
		return
	}
	if !canModify(userID, expense, group) {
		writeError(w, http.StatusForbidden, errors.New("only the creator or payer can delete this expense"))
		return
	}

	if err := s.store.DeleteExpense(r.Context(), expense.ID); err != nil {
		writeStoreError(w, err)
		return
	}

	s.recordEvent(r, models.EventExpenseDeleted, group.ID, expense)
	slog.Info("expense deleted", "expense_id", expense.ID, "deleted_by", userID)
	writeData(w, http.StatusOK, struct{}{})
}

// loadGroupForMember mirrors the group service helper for group-scoped
// expense routes.
func (s *ExpenseService) loadGroupForMember(w http.ResponseWriter, r *http.Request) (*models.Group, bool) {
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

func (s *ExpenseService) recordEvent(r *http.Request, eventType models.EventType, groupID string, expense *models.Expense) {
	userID := middleware.GetUserID(r.Context())
	actor := userID
	if user, err := s.store.GetUserByID(r.Context(), userID); err == nil && user != nil {
		actor = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}

	s.timeline.Record(models.TimelineEvent{
		UserID:      userID,
		Type:        eventType,
		GroupID:     groupID,
		ExpenseID:   expense.ID,
		Description: timeline.Describe(eventType, actor, expense.Title),
		CreatedAt:   s.now().Unix(),
	})
}
