package domain

import "time"

// Organization is the tenant boundary. ID and Code are immutable after
// creation; branding fields are mutable by org admins.
type Organization struct {
	ID           string
	Name         string
	Code         string // unique slug, e.g. "acme"
	LogoURL      string
	SupportEmail string
	SupportPhone string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Branding holds the mutable presentation fields of an organization.
type Branding struct {
	LogoURL      string
	SupportEmail string
	SupportPhone string
}
