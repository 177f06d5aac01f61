package models

import "github.com/shopspring/decimal"

// Category classifies an expense for filtering and charts.
type Category string

// Expense categories.
const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryBills         Category = "bills"
	CategoryAccommodation Category = "accommodation"
	CategoryOther         Category = "other"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryShopping,
		CategoryEntertainment, CategoryBills, CategoryAccommodation, CategoryOther:
		return true
	}
	return false
}

// SplitType records how the shares of an expense were derived. It is
// informational: the shares themselves are always stored explicitly.
type SplitType string

// Split types.
const (
	SplitEqual      SplitType = "equal"
	SplitUnequal    SplitType = "unequal"
	SplitPercentage SplitType = "percentage"
)

// Valid reports whether s is a known split type.
func (s SplitType) Valid() bool {
	switch s {
	case SplitEqual, SplitUnequal, SplitPercentage:
		return true
	}
	return false
}

// Share is one participant's allocated portion of an expense.
type Share struct {
	// User references the participant. Populated with display fields
	// when the expense is read; the ID alone when written.
	User UserRef `json:"user"`

	// Amount is this participant's portion of the expense total.
	Amount decimal.Decimal `json:"amount"`
}

// Expense represents a shared cost: one payer fronted the money, and the
// total is divided among the participants listed in Shares.
//
// Invariant enforced at write time: the share amounts sum to Amount within
// 0.01 currency units, and the payer and every share user are members of
// the expense's group. Readers assume this holds and do not re-verify it.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Title is a short description of the expense.
	Title string `json:"title"`

	// Amount is the total cost of the expense.
	Amount decimal.Decimal `json:"amount"`

	// PaidBy references the user who fronted the money.
	PaidBy UserRef `json:"paidBy"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"group"`

	// Category classifies the expense.
	Category Category `json:"category"`

	// SplitType records how the shares were derived.
	SplitType SplitType `json:"splitType"`

	// Date is the Unix timestamp of when the expense occurred. Distinct
	// from CreatedAt: expenses can be logged after the fact.
	Date int64 `json:"date"`

	// Shares lists each participant's portion, one entry per participant.
	Shares []Share `json:"shares"`

	// CreatedBy is the user ID of whoever logged the expense.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is the Unix timestamp when the expense was logged.
	CreatedAt int64 `json:"createdAt"`
}

// Involves reports whether the user paid for the expense or holds a share
// of it. This is the relevance rule for the period charts.
func (e *Expense) Involves(userID string) bool {
	if e.PaidBy.ID == userID {
		return true
	}
	for _, s := range e.Shares {
		if s.User.ID == userID {
			return true
		}
	}
	return false
}
