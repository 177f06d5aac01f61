package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/litepay/litepay/internal/models"
)

// SaveTimelineEvent persists an activity-feed event.
func (s *SQLiteStore) SaveTimelineEvent(ctx context.Context, event *models.TimelineEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO timeline_events (id, user_id, type, group_id, expense_id, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, string(event.Type), event.GroupID, event.ExpenseID,
		event.Description, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert timeline event: %w", err)
	}

	return nil
}

// ListTimelineForUser retrieves the newest events across all of the user's
// groups.
func (s *SQLiteStore) ListTimelineForUser(ctx context.Context, userID string, limit int) ([]*models.TimelineEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, type, group_id, expense_id, description, created_at
		 FROM timeline_events
		 WHERE group_id IN (SELECT group_id FROM group_members WHERE user_id = ?)
		 ORDER BY created_at DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline events: %w", err)
	}
	defer rows.Close()

	var events []*models.TimelineEvent
	for rows.Next() {
		event := &models.TimelineEvent{}
		var eventType string
		if err := rows.Scan(&event.ID, &event.UserID, &eventType, &event.GroupID,
			&event.ExpenseID, &event.Description, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan timeline event: %w", err)
		}
		event.Type = models.EventType(eventType)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timeline events: %w", err)
	}

	return events, nil
}
