package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/aaplusconsultants/policytrain/pkg/idx"
	"github.com/aaplusconsultants/policytrain/pkg/slogx"
)

var (
	ErrCodeTaken   = errors.New("organization code already taken")
	ErrInvalidCode = errors.New("organization code must be a lowercase slug")
)

var codePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}[a-z0-9]$`)

// OrganizationService manages tenant records and their branding.
type OrganizationService struct {
	Store store.Store
}

type CreateOrganizationRequest struct {
	Name         string
	Code         string
	LogoURL      string
	SupportEmail string
	SupportPhone string
	CreatedBy    string
}

func (s *OrganizationService) Create(ctx context.Context, req CreateOrganizationRequest) (domain.Organization, error) {
	log := slogx.FromContext(ctx)

	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToLower(strings.TrimSpace(req.Code))
	if req.Name == "" {
		return domain.Organization{}, errors.New("organization name is required")
	}
	if !codePattern.MatchString(req.Code) {
		return domain.Organization{}, ErrInvalidCode
	}

	org := domain.Organization{
		ID:           idx.New().String(),
		Name:         req.Name,
		Code:         req.Code,
		LogoURL:      req.LogoURL,
		SupportEmail: req.SupportEmail,
		SupportPhone: req.SupportPhone,
		CreatedBy:    req.CreatedBy,
	}
	if err := s.Store.Organizations().CreateOrganization(ctx, org); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Organization{}, ErrCodeTaken
		}
		return domain.Organization{}, err
	}

	log.Info("organization created",
		slog.String("organization_id", org.ID),
		slog.String("code", org.Code),
	)
	return s.Store.Organizations().GetOrganizationByID(ctx, org.ID)
}

func (s *OrganizationService) Get(ctx context.Context, id string) (domain.Organization, error) {
	return s.Store.Organizations().GetOrganizationByID(ctx, id)
}

func (s *OrganizationService) GetByCode(ctx context.Context, code string) (domain.Organization, error) {
	return s.Store.Organizations().GetOrganizationByCode(ctx, strings.ToLower(code))
}

func (s *OrganizationService) List(ctx context.Context) ([]domain.Organization, error) {
	return s.Store.Organizations().ListOrganizations(ctx)
}

// UpdateBranding replaces the mutable presentation fields of an organization.
func (s *OrganizationService) UpdateBranding(ctx context.Context, orgID string, b domain.Branding) (domain.Organization, error) {
	if err := s.Store.Organizations().UpdateBranding(ctx, orgID, b); err != nil {
		return domain.Organization{}, err
	}
	return s.Store.Organizations().GetOrganizationByID(ctx, orgID)
}
