package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/litepay/litepay/internal/models"
	"github.com/litepay/litepay/internal/storage"
)

// CreateInvitation persists a new invitation.
func (s *SQLiteStore) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt == 0 {
		inv.CreatedAt = time.Now().Unix()
	}
	if inv.Status == "" {
		inv.Status = models.InvitationPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invitations (id, group_id, from_user_id, to_user_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.GroupID, inv.FromUserID, inv.ToUserID, string(inv.Status), inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}

	return nil
}

// GetInvitation retrieves an invitation by ID.
func (s *SQLiteStore) GetInvitation(ctx context.Context, invitationID string) (*models.Invitation, error) {
	inv := &models.Invitation{}
	var status string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, status, created_at
		 FROM invitations WHERE id = ?`,
		invitationID,
	).Scan(&inv.ID, &inv.GroupID, &inv.FromUserID, &inv.ToUserID, &status, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invitation %s: %w", invitationID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	inv.Status = models.InvitationStatus(status)
	return inv, nil
}

// ListInvitationsForUser retrieves the user's pending invitations, newest first.
func (s *SQLiteStore) ListInvitationsForUser(ctx context.Context, userID string) ([]*models.Invitation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, status, created_at
		 FROM invitations
		 WHERE to_user_id = ? AND status = ?
		 ORDER BY created_at DESC`,
		userID, string(models.InvitationPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*models.Invitation
	for rows.Next() {
		inv := &models.Invitation{}
		var status string
		if err := rows.Scan(&inv.ID, &inv.GroupID, &inv.FromUserID, &inv.ToUserID, &status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		inv.Status = models.InvitationStatus(status)
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitations: %w", err)
	}

	return invitations, nil
}

// UpdateInvitationStatus moves an invitation out of the pending state.
func (s *SQLiteStore) UpdateInvitationStatus(ctx context.Context, invitationID string, status models.InvitationStatus) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE invitations SET status = ? WHERE id = ?",
		string(status), invitationID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invitation %s: %w", invitationID, storage.ErrNotFound)
	}

	return nil
}
