package models

// DefaultGroupColor is assigned when a group is created without a color.
const DefaultGroupColor = "#3b82f6"

// Group represents a set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g. "Flatmates", "Ski Trip").
	Name string `json:"name"`

	// Color is the accent color used when rendering the group.
	Color string `json:"color"`

	// Members is the set of user IDs belonging to this group.
	Members []string `json:"members"`

	// CreatedBy is the user ID of the group's creator. Only the creator
	// may delete the group or remove other members.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// HasMember reports whether the given user belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
