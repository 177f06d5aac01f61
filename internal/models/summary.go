package models

import "github.com/shopspring/decimal"

// PeriodBucket is a fixed calendar-aligned accumulator (one day, month or
// year) used to render spend-over-time charts.
type PeriodBucket struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// PeriodSeries groups the three chart resolutions: days of the current
// month, the trailing 12 months, and the trailing 5 years.
type PeriodSeries struct {
	Daily   []PeriodBucket `json:"daily"`
	Monthly []PeriodBucket `json:"monthly"`
	Yearly  []PeriodBucket `json:"yearly"`
}

// BalanceEntry is one counterparty's net position towards the viewer.
// Amount is always positive; whether it is owed or owing depends on which
// list the entry appears in.
type BalanceEntry struct {
	User   UserRef         `json:"user"`
	Amount decimal.Decimal `json:"amount"`
}

// FinancialSummary is the body of the financial summary response. All signs
// are relative to the requesting user. Computed fresh per request, never
// stored.
type FinancialSummary struct {
	// TotalExpenses is the user's own consumption: the sum of their
	// shares across all expenses, regardless of who paid.
	TotalExpenses decimal.Decimal `json:"totalExpenses"`

	// TotalOwedToYou is the sum of all positive counterparty balances.
	TotalOwedToYou decimal.Decimal `json:"totalOwedToYou"`

	// TotalYouOwe is the sum of all debts (absolute values).
	TotalYouOwe decimal.Decimal `json:"totalYouOwe"`

	// NetBalance is TotalOwedToYou minus TotalYouOwe.
	NetBalance decimal.Decimal `json:"netBalance"`

	// ExpensesByPeriod holds the chart series.
	ExpensesByPeriod PeriodSeries `json:"expensesByPeriod"`

	// Debts lists who the user owes, sorted by amount descending.
	Debts []BalanceEntry `json:"debts"`

	// OwedToYou lists who owes the user, sorted by amount descending.
	OwedToYou []BalanceEntry `json:"owedToYou"`

	// RecentExpenses holds the five most recent expenses by date.
	RecentExpenses []Expense `json:"recentExpenses"`
}
