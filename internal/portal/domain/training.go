package domain

import "time"

// Module is a policy training module (slides + quiz) in the catalog.
// Content rendering lives outside this service; only identity and
// completion tracking are modelled here.
type Module struct {
	ID        string
	Slug      string
	Title     string
	Summary   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Completion records that a user finished a module. One row per
// (user, module) pair; re-completion updates score and timestamp.
type Completion struct {
	UserID      string
	ModuleID    string
	Score       int
	CompletedAt time.Time
}
