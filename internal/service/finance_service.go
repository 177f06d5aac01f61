package service

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/litepay/litepay/internal/finance"
	"github.com/litepay/litepay/internal/middleware"
	"github.com/litepay/litepay/internal/models"
	"github.com/litepay/litepay/internal/storage"
)

var summaryComputations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "litepay",
	Subsystem: "finance",
	Name:      "summary_computations_total",
	Help:      "Number of financial summary computations performed.",
})

// FinanceService serves the financial summary: net balances, totals and
// period charts for the requesting user.
type FinanceService struct {
	store storage.Store
	now   func() time.Time
}

// NewFinanceService creates a new finance service.
func NewFinanceService(store storage.Store) *FinanceService {
	return &FinanceService{store: store, now: time.Now}
}

// handleSummary serves GET /api/finances/summary. It fetches the snapshot
// of every expense across the user's groups and runs the engine over it;
// all computation happens here, nothing is stored.
func (s *FinanceService) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	expenses, err := s.store.ListExpensesForUser(r.Context(), userID)
	if err != nil {
		slog.Error("failed to load expense snapshot", "user_id", userID, "error", err)
		writeStoreError(w, err)
		return
	}

	summary := finance.Summarize(expenses, userID, s.now())
	summaryComputations.Inc()

	// Empty lists serialize as [] rather than null.
	if summary.Debts == nil {
		summary.Debts = []models.BalanceEntry{}
	}
	if summary.OwedToYou == nil {
		summary.OwedToYou = []models.BalanceEntry{}
	}
	if summary.RecentExpenses == nil {
		summary.RecentExpenses = []models.Expense{}
	}

	slog.Debug("summary computed",
		"user_id", userID,
		"expenses", len(expenses),
		"debts", len(summary.Debts),
		"owed_to_you", len(summary.OwedToYou),
	)
	writeData(w, http.StatusOK, summary)
}
