package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/aaplusconsultants/policytrain/pkg/idx"
)

var (
	ErrModuleNotFound = errors.New("training module not found")
	ErrSlugTaken      = errors.New("module slug already taken")
	ErrInvalidScore   = errors.New("score must be between 0 and 100")
)

// TrainingService manages the module catalog and completion tracking.
type TrainingService struct {
	Store store.Store
}

type CreateModuleRequest struct {
	Slug    string
	Title   string
	Summary string
}

func (s *TrainingService) CreateModule(ctx context.Context, req CreateModuleRequest) (domain.Module, error) {
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	req.Title = strings.TrimSpace(req.Title)
	if !codePattern.MatchString(req.Slug) {
		return domain.Module{}, ErrInvalidCode
	}
	if req.Title == "" {
		return domain.Module{}, errors.New("module title is required")
	}

	m := domain.Module{
		ID:      idx.New().String(),
		Slug:    req.Slug,
		Title:   req.Title,
		Summary: req.Summary,
	}
	if err := s.Store.Modules().CreateModule(ctx, m); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Module{}, ErrSlugTaken
		}
		return domain.Module{}, err
	}
	return s.Store.Modules().GetModuleByID(ctx, m.ID)
}

func (s *TrainingService) ListModules(ctx context.Context) ([]domain.Module, error) {
	return s.Store.Modules().ListModules(ctx)
}

// RecordCompletion upserts the completion row for (user, module).
// Re-completing a module overwrites the previous score and timestamp.
func (s *TrainingService) RecordCompletion(ctx context.Context, userID, moduleID string, score int) (domain.Completion, error) {
	if score < 0 || score > 100 {
		return domain.Completion{}, ErrInvalidScore
	}
	if _, err := s.Store.Modules().GetModuleByID(ctx, moduleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Completion{}, ErrModuleNotFound
		}
		return domain.Completion{}, err
	}

	c := domain.Completion{
		UserID:      userID,
		ModuleID:    moduleID,
		Score:       score,
		CompletedAt: time.Now().UTC(),
	}
	if err := s.Store.Completions().UpsertCompletion(ctx, c); err != nil {
		return domain.Completion{}, err
	}
	return c, nil
}

func (s *TrainingService) UserCompletions(ctx context.Context, userID string) ([]domain.Completion, error) {
	return s.Store.Completions().ListCompletionsByUser(ctx, userID)
}

// MemberProgress summarises one member's completion state across the catalog.
type MemberProgress struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Completed   int    `json:"completed"`
	Total       int    `json:"total"`
}

// OrganizationProgress reports per-member completion counts against the full
// module catalog for every profile homed in the organization.
func (s *TrainingService) OrganizationProgress(ctx context.Context, orgID string) ([]MemberProgress, error) {
	modules, err := s.Store.Modules().ListModules(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.Store.Profiles().ListProfilesByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	completions, err := s.Store.Completions().ListCompletionsByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(profiles))
	for _, c := range completions {
		counts[c.UserID]++
	}

	progress := make([]MemberProgress, 0, len(profiles))
	for _, p := range profiles {
		progress = append(progress, MemberProgress{
			UserID:      p.ID,
			DisplayName: p.DisplayName,
			Email:       p.Email,
			Completed:   counts[p.ID],
			Total:       len(modules),
		})
	}
	return progress, nil
}
