// Package portalapi defines the request and response types of the portal's
// HTTP API. It has no dependencies beyond the standard library so clients
// can import it directly.
package portalapi

import "time"

// ErrorResponse is the uniform error envelope for all endpoints.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// InviteRequest asks for one email to be invited into an organization.
type InviteRequest struct {
	Email          string `json:"email"`
	FullName       string `json:"full_name,omitempty"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
}

// InviteResponse reports the outcome of a single invitation.
type InviteResponse struct {
	Email        string `json:"email"`
	Status       string `json:"status"`
	InvitationID string `json:"invitation_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// BulkInviteRequest asks for a batch of invitations.
type BulkInviteRequest struct {
	Invites []InviteRequest `json:"invites"`
}

// BulkInviteResponse reports per-invitation outcomes in input order.
type BulkInviteResponse struct {
	Results []InviteResponse `json:"results"`
}

// ClaimRequest redeems a safe-link token.
type ClaimRequest struct {
	Token string `json:"token"`
}

// ClaimResponse releases the credential URL hidden behind a claimed token.
type ClaimResponse struct {
	TargetURL string `json:"target_url"`
}

// SessionRequest establishes a session from either a PKCE authorization code
// or an access token delivered via the implicit flow. Exactly one of Code
// and AccessToken must be set. IntendedEmail, when present, enables the
// crossover guard.
type SessionRequest struct {
	Code          string `json:"code,omitempty"`
	AccessToken   string `json:"access_token,omitempty"`
	IntendedEmail string `json:"intended_email,omitempty"`
}

// SessionResponse describes the established, reconciled session.
type SessionResponse struct {
	AccountID      string `json:"account_id"`
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
	Provisioned    bool   `json:"provisioned"`
}

// CreateOrganizationRequest registers a new tenant.
type CreateOrganizationRequest struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	LogoURL      string `json:"logo_url,omitempty"`
	SupportEmail string `json:"support_email,omitempty"`
	SupportPhone string `json:"support_phone,omitempty"`
}

// BrandingRequest replaces an organization's presentation fields.
type BrandingRequest struct {
	LogoURL      string `json:"logo_url"`
	SupportEmail string `json:"support_email"`
	SupportPhone string `json:"support_phone"`
}

// OrganizationResponse is the public shape of an organization.
type OrganizationResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	LogoURL      string    `json:"logo_url,omitempty"`
	SupportEmail string    `json:"support_email,omitempty"`
	SupportPhone string    `json:"support_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateModuleRequest adds a training module to the catalog.
type CreateModuleRequest struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

// ModuleResponse is the public shape of a training module.
type ModuleResponse struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

// CompleteModuleRequest records a module completion for the caller.
type CompleteModuleRequest struct {
	Score int `json:"score"`
}

// CompletionResponse is a recorded completion.
type CompletionResponse struct {
	ModuleID    string    `json:"module_id"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
	Identity string `json:"identity,omitempty"`
	Mailer   string `json:"mailer,omitempty"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// MemberProgressResponse summarises one member's completion state.
type MemberProgressResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Completed   int    `json:"completed"`
	Total       int    `json:"total"`
}
