package models

// EventType identifies what happened in a timeline event.
type EventType string

// Timeline event types.
const (
	EventExpenseAdded       EventType = "expense_added"
	EventExpenseUpdated     EventType = "expense_updated"
	EventExpenseDeleted     EventType = "expense_deleted"
	EventGroupCreated       EventType = "group_created"
	EventMemberAdded        EventType = "member_added"
	EventMemberRemoved      EventType = "member_removed"
	EventInvitationAccepted EventType = "invitation_accepted"
)

// TimelineEvent is one entry in the activity feed. Events are recorded as a
// side effect of writes and queried per user across their groups.
type TimelineEvent struct {
	// ID is the unique identifier for the event (UUID format).
	ID string `json:"id"`

	// UserID is the user whose action produced the event.
	UserID string `json:"user"`

	// Type identifies the action.
	Type EventType `json:"type"`

	// GroupID is the group the event relates to.
	GroupID string `json:"relatedGroup"`

	// ExpenseID is set for expense events, empty otherwise.
	ExpenseID string `json:"relatedExpense,omitempty"`

	// Description is a rendered human-readable summary of the event.
	Description string `json:"description"`

	// CreatedAt is the Unix timestamp when the event was recorded.
	CreatedAt int64 `json:"createdAt"`
}
