// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/litepay/litepay/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence operations for the application. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Groups
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, groupID string) error
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)
	AddGroupMember(ctx context.Context, groupID, userID string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// Expenses. Reads populate payer and share user references with
	// display fields where the referenced account still exists.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
	ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error)

	// ListExpensesForUser returns every expense in every group the user
	// is a member of: the snapshot the financial summary runs over.
	ListExpensesForUser(ctx context.Context, userID string) ([]models.Expense, error)

	// Invitations
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	GetInvitation(ctx context.Context, invitationID string) (*models.Invitation, error)
	ListInvitationsForUser(ctx context.Context, userID string) ([]*models.Invitation, error)
	UpdateInvitationStatus(ctx context.Context, invitationID string, status models.InvitationStatus) error

	// Timeline
	SaveTimelineEvent(ctx context.Context, event *models.TimelineEvent) error
	ListTimelineForUser(ctx context.Context, userID string, limit int) ([]*models.TimelineEvent, error)

	// Close releases any resources held by the store.
	Close() error
}
