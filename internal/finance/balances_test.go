package finance

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/litepay/litepay/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ref(id string) models.UserRef {
	return models.UserRef{ID: id, FirstName: id}
}

// expense builds a test expense paid by payer with the given user->amount shares.
func expense(payer string, amount string, shares ...models.Share) models.Expense {
	return models.Expense{
		ID:     payer + "-" + amount,
		Amount: dec(amount),
		PaidBy: ref(payer),
		Shares: shares,
	}
}

func share(user, amount string) models.Share {
	return models.Share{User: ref(user), Amount: dec(amount)}
}

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name          string
		expenses      []models.Expense
		viewpoint     string
		wantBalances  map[string]string
		wantSpend     string
	}{
		{
			name:         "no expenses",
			expenses:     nil,
			viewpoint:    "alice",
			wantBalances: map[string]string{},
			wantSpend:    "0",
		},
		{
			name: "payer viewpoint, equal three-way split",
			expenses: []models.Expense{
				expense("alice", "30", share("alice", "10"), share("bob", "10"), share("carol", "10")),
			},
			viewpoint:    "alice",
			wantBalances: map[string]string{"bob": "10", "carol": "10"},
			wantSpend:    "10",
		},
		{
			name: "participant viewpoint, same expense",
			expenses: []models.Expense{
				expense("alice", "30", share("alice", "10"), share("bob", "10"), share("carol", "10")),
			},
			viewpoint:    "bob",
			wantBalances: map[string]string{"alice": "-10"},
			wantSpend:    "10",
		},
		{
			name: "irrelevant pair is skipped",
			expenses: []models.Expense{
				expense("alice", "20", share("bob", "20")),
			},
			viewpoint:    "carol",
			wantBalances: map[string]string{},
			wantSpend:    "0",
		},
		{
			name: "offsetting expenses net out",
			expenses: []models.Expense{
				expense("alice", "20", share("alice", "10"), share("bob", "10")),
				expense("bob", "20", share("alice", "10"), share("bob", "10")),
			},
			viewpoint:    "alice",
			wantBalances: map[string]string{"bob": "0"},
			wantSpend:    "20",
		},
		{
			name: "personal spend counts shares regardless of payer",
			expenses: []models.Expense{
				expense("alice", "40", share("alice", "25"), share("bob", "15")),
				expense("bob", "10", share("alice", "4"), share("bob", "6")),
			},
			viewpoint:    "alice",
			wantBalances: map[string]string{"bob": "11"},
			wantSpend:    "29",
		},
		{
			name: "uneven split with cent rounding",
			expenses: []models.Expense{
				expense("alice", "10", share("alice", "3.33"), share("bob", "3.33"), share("carol", "3.34")),
			},
			viewpoint:    "carol",
			wantBalances: map[string]string{"alice": "-3.34"},
			wantSpend:    "3.34",
		},
		{
			name: "end-to-end scenario from carol's side",
			expenses: []models.Expense{
				expense("alice", "90", share("alice", "30"), share("bob", "30"), share("carol", "30")),
				expense("bob", "20", share("bob", "10"), share("carol", "10")),
			},
			viewpoint:    "carol",
			wantBalances: map[string]string{"alice": "-30", "bob": "-10"},
			wantSpend:    "40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ComputeBalances(tt.expenses, tt.viewpoint)

			if !res.TotalPersonalSpend.Equal(dec(tt.wantSpend)) {
				t.Errorf("TotalPersonalSpend = %s, want %s", res.TotalPersonalSpend, tt.wantSpend)
			}
			if len(res.Balances) != len(tt.wantBalances) {
				t.Errorf("got %d balances, want %d: %v", len(res.Balances), len(tt.wantBalances), res.Balances)
			}
			for id, want := range tt.wantBalances {
				got, ok := res.Balances[id]
				if !ok {
					t.Errorf("missing balance for %s", id)
					continue
				}
				if !got.Equal(dec(want)) {
					t.Errorf("balance[%s] = %s, want %s", id, got, want)
				}
			}
			if _, ok := res.Balances[tt.viewpoint]; ok {
				t.Errorf("viewpoint user %s must not appear in its own balances", tt.viewpoint)
			}
			if len(res.Counterparties) != len(res.Balances) {
				t.Errorf("counterparty order has %d entries, balances %d", len(res.Counterparties), len(res.Balances))
			}
		})
	}
}

// Swapping the viewpoint between any two users must negate the pairwise balance.
func TestComputeBalances_ZeroSum(t *testing.T) {
	expenses := []models.Expense{
		expense("alice", "90", share("alice", "30"), share("bob", "30"), share("carol", "30")),
		expense("bob", "20", share("bob", "10"), share("carol", "10")),
		expense("carol", "12.50", share("alice", "6.25"), share("carol", "6.25")),
	}
	users := []string{"alice", "bob", "carol"}

	for _, a := range users {
		for _, b := range users {
			if a == b {
				continue
			}
			fromA := ComputeBalances(expenses, a).Balances[b]
			fromB := ComputeBalances(expenses, b).Balances[a]
			if !fromA.Equal(fromB.Neg()) {
				t.Errorf("balance %s->%s = %s, but %s->%s = %s; want negations",
					a, b, fromA, b, a, fromB)
			}
		}
	}
}

// The result must not depend on the order of expenses or shares.
func TestComputeBalances_OrderIndependent(t *testing.T) {
	forward := []models.Expense{
		expense("alice", "90", share("alice", "30"), share("bob", "30"), share("carol", "30")),
		expense("bob", "20", share("bob", "10"), share("carol", "10")),
	}
	reversed := []models.Expense{
		expense("bob", "20", share("carol", "10"), share("bob", "10")),
		expense("alice", "90", share("carol", "30"), share("bob", "30"), share("alice", "30")),
	}

	a := ComputeBalances(forward, "carol")
	b := ComputeBalances(reversed, "carol")

	if !a.TotalPersonalSpend.Equal(b.TotalPersonalSpend) {
		t.Errorf("spend differs by input order: %s vs %s", a.TotalPersonalSpend, b.TotalPersonalSpend)
	}
	for id, want := range a.Balances {
		if got := b.Balances[id]; !got.Equal(want) {
			t.Errorf("balance[%s] differs by input order: %s vs %s", id, want, got)
		}
	}
}

// An expense whose shares do not sum to its amount is upstream's fault; the
// engine still nets whatever is there without failing.
func TestComputeBalances_ImbalancedExpensePropagates(t *testing.T) {
	expenses := []models.Expense{
		// Shares sum to 25 against an amount of 30.
		expense("alice", "30", share("alice", "15"), share("bob", "10")),
	}

	res := ComputeBalances(expenses, "alice")
	if got := res.Balances["bob"]; !got.Equal(dec("10")) {
		t.Errorf("balance[bob] = %s, want 10", got)
	}
}

func TestPartitionBalances(t *testing.T) {
	users := map[string]models.UserRef{
		"bob":   ref("bob"),
		"carol": ref("carol"),
		"dave":  ref("dave"),
	}

	tests := []struct {
		name          string
		balances      map[string]string
		order         []string
		wantOwedToYou []string // user IDs in order
		wantDebts     []string
	}{
		{
			name:          "credits and debts split by sign",
			balances:      map[string]string{"bob": "10", "carol": "-30"},
			order:         []string{"bob", "carol"},
			wantOwedToYou: []string{"bob"},
			wantDebts:     []string{"carol"},
		},
		{
			name:          "sorted descending by magnitude",
			balances:      map[string]string{"bob": "5", "carol": "50", "dave": "20"},
			order:         []string{"bob", "carol", "dave"},
			wantOwedToYou: []string{"carol", "dave", "bob"},
		},
		{
			name:          "ties keep encounter order",
			balances:      map[string]string{"bob": "-10", "carol": "-10", "dave": "-10"},
			order:         []string{"carol", "bob", "dave"},
			wantDebts:     []string{"carol", "bob", "dave"},
		},
		{
			name:     "settled balances dropped from both lists",
			balances: map[string]string{"bob": "0", "carol": "0.009", "dave": "-0.005"},
			order:    []string{"bob", "carol", "dave"},
		},
		{
			name:          "exactly one cent is still a balance",
			balances:      map[string]string{"bob": "0.01"},
			order:         []string{"bob"},
			wantOwedToYou: []string{"bob"},
		},
		{
			name:      "unresolvable counterparty excluded",
			balances:  map[string]string{"ghost": "-40", "bob": "-10"},
			order:     []string{"ghost", "bob"},
			wantDebts: []string{"bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := BalanceResult{Balances: make(map[string]decimal.Decimal), Counterparties: tt.order}
			for id, amount := range tt.balances {
				res.Balances[id] = dec(amount)
			}

			owedToYou, debts := PartitionBalances(res, users)

			checkOrder := func(label string, got []models.BalanceEntry, want []string) {
				if len(got) != len(want) {
					t.Fatalf("%s has %d entries, want %d: %v", label, len(got), len(want), got)
				}
				for i, id := range want {
					if got[i].User.ID != id {
						t.Errorf("%s[%d] = %s, want %s", label, i, got[i].User.ID, id)
					}
					if !got[i].Amount.IsPositive() {
						t.Errorf("%s[%d] amount %s must be positive", label, i, got[i].Amount)
					}
				}
			}
			checkOrder("owedToYou", owedToYou, tt.wantOwedToYou)
			checkOrder("debts", debts, tt.wantDebts)
		})
	}
}
