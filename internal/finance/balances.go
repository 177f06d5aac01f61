// Package finance implements the debt-settlement computation engine: net
// pairwise balances between users, calendar-bucketed spend series, and the
// financial summary that combines them.
//
// Everything in this package is a pure function over a snapshot of expenses
// fetched by the caller. No I/O, no mutation of inputs, no shared state;
// concurrent requests each compute independently.
package finance

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/litepay/litepay/internal/models"
	"github.com/litepay/litepay/internal/money"
)

// BalanceResult holds the outcome of netting a snapshot of expenses from
// one user's viewpoint.
type BalanceResult struct {
	// Balances maps counterparty user ID to the signed net amount.
	// Positive: the counterparty owes the viewpoint user. Negative: the
	// viewpoint user owes the counterparty. The viewpoint user's own ID
	// never appears as a key.
	Balances map[string]decimal.Decimal

	// Counterparties lists the keys of Balances in first-encounter order,
	// so downstream sorting can break ties deterministically.
	Counterparties []string

	// TotalPersonalSpend is the sum of the viewpoint user's own shares
	// across all expenses, regardless of who paid.
	TotalPersonalSpend decimal.Decimal
}

// ComputeBalances nets a snapshot of expenses from the given user's
// viewpoint.
//
// For every share not held by the expense's payer, the share amount moves
// between the viewpoint user and the other party: if the viewpoint user
// holds the share they owe the payer; if they paid, the share holder owes
// them. Pairs not involving the viewpoint user are skipped. Shares the
// payer holds in their own expense are self-payments and net to nothing.
//
// The engine trusts its input: share sums are validated against the expense
// total at write time and are not re-checked here. An imbalanced expense
// simply propagates its imbalance into the result.
func ComputeBalances(expenses []models.Expense, viewpoint string) BalanceResult {
	res := BalanceResult{
		Balances:           make(map[string]decimal.Decimal),
		TotalPersonalSpend: decimal.Zero,
	}

	record := func(counterparty string, delta decimal.Decimal) {
		if _, seen := res.Balances[counterparty]; !seen {
			res.Counterparties = append(res.Counterparties, counterparty)
		}
		res.Balances[counterparty] = res.Balances[counterparty].Add(delta)
	}

	for _, expense := range expenses {
		payer := expense.PaidBy.ID

		for _, share := range expense.Shares {
			if share.User.ID == viewpoint {
				res.TotalPersonalSpend = res.TotalPersonalSpend.Add(share.Amount)
			}

			if share.User.ID == payer {
				continue
			}

			switch viewpoint {
			case share.User.ID:
				// The viewpoint user consumed this share but the
				// counterparty fronted the money.
				record(payer, share.Amount.Neg())
			case payer:
				record(share.User.ID, share.Amount)
			}
		}
	}

	return res
}

// PartitionBalances splits a balance result into credits (counterparties
// who owe the viewpoint user) and debts (counterparties the viewpoint user
// owes), both sorted by amount descending. Amounts in both lists are
// positive. Balances within the settlement tolerance of zero appear in
// neither list.
//
// users maps user IDs to display references; a counterparty whose identity
// cannot be resolved is excluded from both lists (the numeric balance still
// existed, but there is nobody to show it against). Exclusions are logged
// at debug level.
func PartitionBalances(res BalanceResult, users map[string]models.UserRef) (owedToYou, debts []models.BalanceEntry) {
	for _, id := range res.Counterparties {
		balance := res.Balances[id]
		if money.Settled(balance) {
			continue
		}

		ref, ok := users[id]
		if !ok || !ref.Resolved() {
			slog.Debug("dropping unresolvable counterparty from balance lists",
				"user_id", id,
				"balance", balance,
			)
			continue
		}

		if balance.IsPositive() {
			owedToYou = append(owedToYou, models.BalanceEntry{User: ref, Amount: balance})
		} else {
			debts = append(debts, models.BalanceEntry{User: ref, Amount: balance.Abs()})
		}
	}

	sortByAmountDesc(owedToYou)
	sortByAmountDesc(debts)
	return owedToYou, debts
}

// sortByAmountDesc orders entries largest first; ties keep encounter order.
func sortByAmountDesc(entries []models.BalanceEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount.GreaterThan(entries[j].Amount)
	})
}

// sumEntries totals the (positive) amounts of a partition.
func sumEntries(entries []models.BalanceEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
