package domain

import "time"

// Profile is the application-visible identity. Its ID is the identity
// provider's account id, never generated locally. OrganizationID is the
// user's single home organization; it must match the membership row for the
// same (user, org) pair.
type Profile struct {
	ID             string
	Email          string
	DisplayName    string
	Role           string
	OrganizationID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
