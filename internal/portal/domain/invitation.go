package domain

import "time"

// Invitation status values. An email may have many invitations historically
// but at most one in pending state.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
)

// Invitation is a durable record of intent to grant an email membership in
// an organization with a role. It is keyed by email while pending; the
// reconciler transitions it to accepted exactly once.
type Invitation struct {
	ID             string
	Email          string
	OrganizationID string
	Role           string
	InvitedBy      string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
