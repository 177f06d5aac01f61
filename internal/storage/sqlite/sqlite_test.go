package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/litepay/litepay/internal/models"
	"github.com/litepay/litepay/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "litepay-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func mustCreateUser(t *testing.T, store *SQLiteStore, email, firstName, lastName string) *models.User {
	t.Helper()
	user := models.NewUser(email, firstName, lastName, "hashed-password")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser and GetUserByEmail round trip", func(t *testing.T) {
		user := mustCreateUser(t, store, "alice@example.com", "Alice", "Smith")

		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil {
			t.Fatal("Expected user, got nil")
		}
		if got.ID != user.ID {
			t.Errorf("Expected ID %s, got %s", user.ID, got.ID)
		}
		if got.FirstName != "Alice" || got.LastName != "Smith" {
			t.Errorf("Unexpected name: %s %s", got.FirstName, got.LastName)
		}
		if got.PasswordHash != "hashed-password" {
			t.Error("Expected password hash to round trip")
		}
	})

	t.Run("GetUserByEmail returns nil for unknown email", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil user, got %+v", got)
		}
	})

	t.Run("GetUserByID returns nil for unknown ID", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, "no-such-id")
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil user, got %+v", got)
		}
	})

	t.Run("CreateUser rejects duplicate email", func(t *testing.T) {
		mustCreateUser(t, store, "dup@example.com", "First", "One")

		dup := models.NewUser("dup@example.com", "Second", "Two", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected error for duplicate email")
		}
	})
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice@example.com", "Alice", "Smith")
	bob := mustCreateUser(t, store, "bob@example.com", "Bob", "Jones")

	t.Run("CreateGroup generates ID, color and timestamp", func(t *testing.T) {
		group := &models.Group{
			Name:      "Flatmates",
			Members:   []string{alice.ID, bob.ID},
			CreatedBy: alice.ID,
		}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.Color != models.DefaultGroupColor {
			t.Errorf("Expected default color, got %s", group.Color)
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 2 {
			t.Errorf("Expected 2 members, got %d", len(got.Members))
		}
	})

	t.Run("GetGroup returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "no-such-group")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("AddGroupMember is idempotent", func(t *testing.T) {
		group := &models.Group{Name: "Trip", Members: []string{alice.ID}, CreatedBy: alice.ID}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		if err := store.AddGroupMember(ctx, group.ID, bob.ID); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
		if err := store.AddGroupMember(ctx, group.ID, bob.ID); err != nil {
			t.Fatalf("AddGroupMember (repeat) failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 2 {
			t.Errorf("Expected 2 members, got %d", len(got.Members))
		}
	})

	t.Run("RemoveGroupMember and ListGroupsByMember", func(t *testing.T) {
		group := &models.Group{Name: "Dinner Club", Members: []string{alice.ID, bob.ID}, CreatedBy: alice.ID}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		if err := store.RemoveGroupMember(ctx, group.ID, bob.ID); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}

		groups, err := store.ListGroupsByMember(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		for _, g := range groups {
			if g.ID == group.ID {
				t.Error("Expected removed member not to see the group")
			}
		}

		if err := store.RemoveGroupMember(ctx, group.ID, bob.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound removing a non-member, got %v", err)
		}
	})

	t.Run("UpdateGroup changes name and color", func(t *testing.T) {
		group := &models.Group{Name: "Old Name", Members: []string{alice.ID}, CreatedBy: alice.ID}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		group.Name = "New Name"
		group.Color = "#ff0000"
		if err := store.UpdateGroup(ctx, group); err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "New Name" || got.Color != "#ff0000" {
			t.Errorf("Unexpected group after update: %+v", got)
		}
	})

	t.Run("DeleteGroup cascades", func(t *testing.T) {
		group := &models.Group{Name: "Ephemeral", Members: []string{alice.ID}, CreatedBy: alice.ID}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice@example.com", "Alice", "Smith")
	bob := mustCreateUser(t, store, "bob@example.com", "Bob", "Jones")

	group := &models.Group{Name: "Flatmates", Members: []string{alice.ID, bob.ID}, CreatedBy: alice.ID}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	newExpense := func(title string, amount string, date int64) *models.Expense {
		total := decimal.RequireFromString(amount)
		half := total.Div(decimal.NewFromInt(2))
		return &models.Expense{
			Title:     title,
			Amount:    total,
			PaidBy:    models.UserRef{ID: alice.ID},
			GroupID:   group.ID,
			Category:  models.CategoryFood,
			SplitType: models.SplitEqual,
			Date:      date,
			Shares: []models.Share{
				{User: models.UserRef{ID: alice.ID}, Amount: half},
				{User: models.UserRef{ID: bob.ID}, Amount: total.Sub(half)},
			},
			CreatedBy: alice.ID,
		}
	}

	t.Run("CreateExpense and GetExpense round trip with exact amounts", func(t *testing.T) {
		expense := newExpense("Groceries", "33.33", 1700000000)
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("Expected expense ID to be generated")
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(decimal.RequireFromString("33.33")) {
			t.Errorf("Expected amount 33.33, got %s", got.Amount)
		}
		if got.PaidBy.FirstName != "Alice" {
			t.Errorf("Expected payer name to be populated, got %+v", got.PaidBy)
		}
		if len(got.Shares) != 2 {
			t.Fatalf("Expected 2 shares, got %d", len(got.Shares))
		}
		for _, share := range got.Shares {
			if share.User.FirstName == "" {
				t.Errorf("Expected share user name to be populated, got %+v", share.User)
			}
		}
	})

	t.Run("UpdateExpense replaces shares", func(t *testing.T) {
		expense := newExpense("Dinner", "40", 1700000100)
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expense.Title = "Dinner Out"
		expense.Amount = decimal.RequireFromString("50")
		expense.Shares = []models.Share{
			{User: models.UserRef{ID: alice.ID}, Amount: decimal.RequireFromString("50")},
		}
		if err := store.UpdateExpense(ctx, expense); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Title != "Dinner Out" {
			t.Errorf("Expected updated title, got %s", got.Title)
		}
		if len(got.Shares) != 1 {
			t.Errorf("Expected 1 share after update, got %d", len(got.Shares))
		}
	})

	t.Run("DeleteExpense removes the expense", func(t *testing.T) {
		expense := newExpense("Temp", "10", 1700000200)
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("ListExpensesByGroup orders newest first", func(t *testing.T) {
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		for i := 1; i < len(expenses); i++ {
			if expenses[i-1].Date < expenses[i].Date {
				t.Errorf("Expected descending dates, got %d before %d", expenses[i-1].Date, expenses[i].Date)
			}
		}
	})

	t.Run("ListExpensesForUser spans groups and excludes others", func(t *testing.T) {
		carol := mustCreateUser(t, store, "carol@example.com", "Carol", "White")
		other := &models.Group{Name: "Carol Only", Members: []string{carol.ID}, CreatedBy: carol.ID}
		if err := store.CreateGroup(ctx, other); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		solo := &models.Expense{
			Title:     "Solo",
			Amount:    decimal.RequireFromString("5"),
			PaidBy:    models.UserRef{ID: carol.ID},
			GroupID:   other.ID,
			Category:  models.CategoryOther,
			SplitType: models.SplitEqual,
			Date:      1700000300,
			Shares:    []models.Share{{User: models.UserRef{ID: carol.ID}, Amount: decimal.RequireFromString("5")}},
			CreatedBy: carol.ID,
		}
		if err := store.CreateExpense(ctx, solo); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		forBob, err := store.ListExpensesForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListExpensesForUser failed: %v", err)
		}
		for _, e := range forBob {
			if e.GroupID == other.ID {
				t.Error("Expected bob not to see expenses from groups he is not in")
			}
		}

		forCarol, err := store.ListExpensesForUser(ctx, carol.ID)
		if err != nil {
			t.Fatalf("ListExpensesForUser failed: %v", err)
		}
		if len(forCarol) != 1 || forCarol[0].ID != solo.ID {
			t.Errorf("Expected carol to see exactly her expense, got %d expenses", len(forCarol))
		}
	})
}

func TestSQLiteStore_Invitations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice@example.com", "Alice", "Smith")
	bob := mustCreateUser(t, store, "bob@example.com", "Bob", "Jones")

	group := &models.Group{Name: "Flatmates", Members: []string{alice.ID}, CreatedBy: alice.ID}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("CreateInvitation defaults to pending", func(t *testing.T) {
		inv := &models.Invitation{GroupID: group.ID, FromUserID: alice.ID, ToUserID: bob.ID}
		if err := store.CreateInvitation(ctx, inv); err != nil {
			t.Fatalf("CreateInvitation failed: %v", err)
		}
		if inv.ID == "" {
			t.Error("Expected invitation ID to be generated")
		}
		if inv.Status != models.InvitationPending {
			t.Errorf("Expected pending status, got %s", inv.Status)
		}

		got, err := store.GetInvitation(ctx, inv.ID)
		if err != nil {
			t.Fatalf("GetInvitation failed: %v", err)
		}
		if got.ToUserID != bob.ID {
			t.Errorf("Expected recipient %s, got %s", bob.ID, got.ToUserID)
		}
	})

	t.Run("ListInvitationsForUser returns only pending invitations", func(t *testing.T) {
		inv := &models.Invitation{GroupID: group.ID, FromUserID: alice.ID, ToUserID: bob.ID}
		if err := store.CreateInvitation(ctx, inv); err != nil {
			t.Fatalf("CreateInvitation failed: %v", err)
		}

		invs, err := store.ListInvitationsForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListInvitationsForUser failed: %v", err)
		}
		found := false
		for _, i := range invs {
			if i.ID == inv.ID {
				found = true
			}
		}
		if !found {
			t.Error("Expected pending invitation in bob's list")
		}

		if err := store.UpdateInvitationStatus(ctx, inv.ID, models.InvitationAccepted); err != nil {
			t.Fatalf("UpdateInvitationStatus failed: %v", err)
		}

		got, err := store.GetInvitation(ctx, inv.ID)
		if err != nil {
			t.Fatalf("GetInvitation failed: %v", err)
		}
		if got.Status != models.InvitationAccepted {
			t.Errorf("Expected accepted status, got %s", got.Status)
		}

		invs, err = store.ListInvitationsForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListInvitationsForUser failed: %v", err)
		}
		for _, i := range invs {
			if i.ID == inv.ID {
				t.Error("Expected accepted invitation to drop out of the pending list")
			}
		}

		none, err := store.ListInvitationsForUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListInvitationsForUser failed: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("Expected no invitations addressed to alice, got %d", len(none))
		}
	})

	t.Run("UpdateInvitationStatus on unknown ID returns ErrNotFound", func(t *testing.T) {
		err := store.UpdateInvitationStatus(ctx, "no-such-inv", models.InvitationDeclined)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStore_Timeline(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice@example.com", "Alice", "Smith")
	bob := mustCreateUser(t, store, "bob@example.com", "Bob", "Jones")
	carol := mustCreateUser(t, store, "carol@example.com", "Carol", "White")

	group := &models.Group{Name: "Flatmates", Members: []string{alice.ID, bob.ID}, CreatedBy: alice.ID}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	events := []*models.TimelineEvent{
		{UserID: alice.ID, Type: models.EventGroupCreated, GroupID: group.ID, Description: "Alice created Flatmates", CreatedAt: 100},
		{UserID: alice.ID, Type: models.EventExpenseAdded, GroupID: group.ID, Description: "Alice added an expense", CreatedAt: 200},
		{UserID: bob.ID, Type: models.EventExpenseAdded, GroupID: group.ID, Description: "Bob added an expense", CreatedAt: 300},
	}
	for _, event := range events {
		if err := store.SaveTimelineEvent(ctx, event); err != nil {
			t.Fatalf("SaveTimelineEvent failed: %v", err)
		}
		if event.ID == "" {
			t.Error("Expected event ID to be generated")
		}
	}

	t.Run("ListTimelineForUser covers the member's groups, newest first", func(t *testing.T) {
		got, err := store.ListTimelineForUser(ctx, bob.ID, 10)
		if err != nil {
			t.Fatalf("ListTimelineForUser failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("Expected 3 events, got %d", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].CreatedAt < got[i].CreatedAt {
				t.Errorf("Expected descending timestamps, got %d before %d", got[i-1].CreatedAt, got[i].CreatedAt)
			}
		}
	})

	t.Run("ListTimelineForUser honors the limit", func(t *testing.T) {
		got, err := store.ListTimelineForUser(ctx, alice.ID, 2)
		if err != nil {
			t.Fatalf("ListTimelineForUser failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Expected 2 events with limit 2, got %d", len(got))
		}
	})

	t.Run("ListTimelineForUser excludes non-members", func(t *testing.T) {
		got, err := store.ListTimelineForUser(ctx, carol.ID, 10)
		if err != nil {
			t.Fatalf("ListTimelineForUser failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected no events for a non-member, got %d", len(got))
		}
	})
}
