package finance

import (
	"sort"
	"time"

	"github.com/litepay/litepay/internal/models"
)

// recentExpenseCount is how many expenses the summary returns, newest first.
const recentExpenseCount = 5

// Summarize computes the complete financial summary for one user over a
// snapshot of expenses (typically every expense in every group the user
// belongs to). The snapshot is not modified.
func Summarize(expenses []models.Expense, viewpoint string, now time.Time) *models.FinancialSummary {
	res := ComputeBalances(expenses, viewpoint)
	owedToYou, debts := PartitionBalances(res, ResolveUsers(expenses))

	totalOwedToYou := sumEntries(owedToYou)
	totalYouOwe := sumEntries(debts)

	return &models.FinancialSummary{
		TotalExpenses:    res.TotalPersonalSpend,
		TotalOwedToYou:   totalOwedToYou,
		TotalYouOwe:      totalYouOwe,
		NetBalance:       totalOwedToYou.Sub(totalYouOwe),
		ExpensesByPeriod: AggregateByPeriod(expenses, viewpoint, now),
		Debts:            debts,
		OwedToYou:        owedToYou,
		RecentExpenses:   recentExpenses(expenses),
	}
}

// ResolveUsers builds an identity index from the display references carried
// by an expense snapshot. Payers win over share holders when both carry a
// reference for the same ID; unresolved references never overwrite resolved
// ones.
func ResolveUsers(expenses []models.Expense) map[string]models.UserRef {
	users := make(map[string]models.UserRef)
	add := func(ref models.UserRef) {
		if ref.ID == "" {
			return
		}
		if existing, ok := users[ref.ID]; ok && existing.Resolved() {
			return
		}
		users[ref.ID] = ref
	}

	for _, expense := range expenses {
		add(expense.PaidBy)
		for _, share := range expense.Shares {
			add(share.User)
		}
	}
	return users
}

// recentExpenses returns the newest expenses by date, most recent first.
// The input slice is left untouched.
func recentExpenses(expenses []models.Expense) []models.Expense {
	recent := make([]models.Expense, len(expenses))
	copy(recent, expenses)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date > recent[j].Date
	})
	if len(recent) > recentExpenseCount {
		recent = recent[:recentExpenseCount]
	}
	return recent
}
