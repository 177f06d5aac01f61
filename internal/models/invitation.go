package models

// InvitationStatus is the lifecycle state of a group invitation.
type InvitationStatus string

// Invitation statuses.
const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation is a request for a user to join a group. Created by an
// existing member, addressed by email, resolved to a user at creation time.
type Invitation struct {
	// ID is the unique identifier for the invitation (UUID format).
	ID string `json:"id"`

	// GroupID is the group the recipient is invited to.
	GroupID string `json:"group"`

	// FromUserID is the member who sent the invitation.
	FromUserID string `json:"sender"`

	// ToUserID is the invited user.
	ToUserID string `json:"recipient"`

	// Status is pending until the recipient accepts or declines.
	Status InvitationStatus `json:"status"`

	// CreatedAt is the Unix timestamp when the invitation was sent.
	CreatedAt int64 `json:"createdAt"`
}
