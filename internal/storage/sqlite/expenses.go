package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/litepay/litepay/internal/models"
	"github.com/litepay/litepay/internal/storage"
)

// expenseColumns selects an expense row joined with the payer's identity.
// The LEFT JOIN keeps expenses readable after the payer's account is gone;
// the reference then carries the bare ID.
const expenseColumns = `
	SELECT e.id, e.title, e.amount, e.paid_by, e.group_id, e.category, e.split_type,
	       e.date, e.created_by, e.created_at,
	       COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.profile_image, '')
	FROM expenses e
	LEFT JOIN users u ON u.id = e.paid_by
`

// CreateExpense persists a new expense with its shares.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, title, amount, paid_by, group_id, category, split_type, date, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Title, expense.Amount.String(), expense.PaidBy.ID, expense.GroupID,
		string(expense.Category), string(expense.SplitType), expense.Date, expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertShares(ctx, tx, expense.ID, expense.Shares); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, with payer and share identities
// populated.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx, expenseColumns+" WHERE e.id = ?", expenseID)

	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.attachShares(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}

	return expense, nil
}

// UpdateExpense replaces an expense and its shares.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount = ?, paid_by = ?, category = ?, split_type = ?, date = ?
		 WHERE id = ?`,
		expense.Title, expense.Amount.String(), expense.PaidBy.ID,
		string(expense.Category), string(expense.SplitType), expense.Date, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense shares: %w", err)
	}
	if err := insertShares(ctx, tx, expense.ID, expense.Shares); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense; shares cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	return nil
}

// ListExpensesByGroup retrieves all expenses of a group, newest date first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error) {
	return s.listExpenses(ctx, expenseColumns+" WHERE e.group_id = ? ORDER BY e.date DESC", groupID)
}

// ListExpensesForUser retrieves every expense in every group the user
// belongs to: the snapshot the financial summary runs over.
func (s *SQLiteStore) ListExpensesForUser(ctx context.Context, userID string) ([]models.Expense, error) {
	query := expenseColumns + `
		WHERE e.group_id IN (SELECT group_id FROM group_members WHERE user_id = ?)
		ORDER BY e.date DESC`
	return s.listExpenses(ctx, query, userID)
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.attachShares(ctx, expenses); err != nil {
		return nil, err
	}

	result := make([]models.Expense, len(expenses))
	for i, e := range expenses {
		result[i] = *e
	}
	return result, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var amount, category, splitType string

	err := row.Scan(
		&expense.ID, &expense.Title, &amount, &expense.PaidBy.ID, &expense.GroupID,
		&category, &splitType, &expense.Date, &expense.CreatedBy, &expense.CreatedAt,
		&expense.PaidBy.FirstName, &expense.PaidBy.LastName, &expense.PaidBy.ProfileImage,
	)
	if err != nil {
		return nil, err
	}

	expense.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	expense.Category = models.Category(category)
	expense.SplitType = models.SplitType(splitType)

	return expense, nil
}

// attachShares loads the share lists for the given expenses in one query.
func (s *SQLiteStore) attachShares(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[string]*models.Expense, len(expenses))
	args := make([]any, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		args[i] = e.ID
	}

	query := `
		SELECT es.expense_id, es.user_id, es.amount,
		       COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.profile_image, '')
		FROM expense_shares es
		LEFT JOIN users u ON u.id = es.user_id
		WHERE es.expense_id IN (?` + repeatPlaceholder(len(expenses)-1) + `)
		ORDER BY es.expense_id, es.user_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID, amount string
		var share models.Share
		if err := rows.Scan(&expenseID, &share.User.ID, &amount,
			&share.User.FirstName, &share.User.LastName, &share.User.ProfileImage); err != nil {
			return fmt.Errorf("failed to scan expense share: %w", err)
		}
		share.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("invalid stored share amount %q: %w", amount, err)
		}
		if expense, ok := byID[expenseID]; ok {
			expense.Shares = append(expense.Shares, share)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense shares: %w", err)
	}

	return nil
}

func insertShares(ctx context.Context, tx *sql.Tx, expenseID string, shares []models.Share) error {
	for _, share := range shares {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, user_id, amount) VALUES (?, ?, ?)",
			expenseID, share.User.ID, share.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}
	return nil
}
