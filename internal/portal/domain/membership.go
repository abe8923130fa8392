package domain

import "time"

// Membership grants a user a role within an organization. Exactly one row
// exists per (organization, user) pair; upserts key on that pair.
type Membership struct {
	OrganizationID string
	UserID         string
	Role           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
