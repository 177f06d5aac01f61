package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login and
	// for addressing group invitations.
	Email string

	// FirstName and LastName form the display name shown in summaries.
	FirstName string
	LastName  string

	// ProfileImage is the avatar URL, if one was uploaded.
	ProfileImage string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, firstName, lastName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UserRef is a display-capable reference to a user, embedded in expenses
// and balance entries so responses can render names without extra lookups.
type UserRef struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Ref returns the display reference for the user.
func (u *User) Ref() UserRef {
	return UserRef{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: u.ProfileImage,
	}
}

// Resolved reports whether the reference carries enough identity to show
// to a user. A bare ID (the referenced account no longer exists) is not
// considered resolved.
func (r UserRef) Resolved() bool {
	return r.ID != "" && r.FirstName != ""
}
