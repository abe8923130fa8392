package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aaplusconsultants/policytrain/internal/portal/domain"
	"github.com/aaplusconsultants/policytrain/internal/portal/service"
	"github.com/aaplusconsultants/policytrain/internal/portal/store"
	"github.com/aaplusconsultants/policytrain/pkg/httpx"
	"github.com/aaplusconsultants/policytrain/pkg/portalapi"
	"github.com/aaplusconsultants/policytrain/pkg/slogx"
)

type OrgsHandler struct {
	OrganizationService *service.OrganizationService
	TrainingService     *service.TrainingService
}

func orgResponse(o domain.Organization) portalapi.OrganizationResponse {
	return portalapi.OrganizationResponse{
		ID:           o.ID,
		Name:         o.Name,
		Code:         o.Code,
		LogoURL:      o.LogoURL,
		SupportEmail: o.SupportEmail,
		SupportPhone: o.SupportPhone,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// HandleCreate godoc
//
//	@Summary		Create an organization
//	@Description	Register a new tenant organization. Superadmin only.
//	@Tags			Organizations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalapi.CreateOrganizationRequest	true	"Organization"
//	@Success		201		{object}	portalapi.OrganizationResponse		"organization"
//	@Failure		400		{object}	portalapi.ErrorResponse				"error, error_description"
//	@Failure		409		{object}	portalapi.ErrorResponse				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/orgs [post].
func (h *OrgsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req portalapi.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	caller, _ := ProfileFromContext(ctx)
	org, err := h.OrganizationService.Create(ctx, service.CreateOrganizationRequest{
		Name:         req.Name,
		Code:         req.Code,
		LogoURL:      req.LogoURL,
		SupportEmail: req.SupportEmail,
		SupportPhone: req.SupportPhone,
		CreatedBy:    caller.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeTaken):
			httpx.WriteJSON(w, http.StatusConflict, portalapi.ErrorResponse{
				Error:            "conflict",
				ErrorDescription: "Organization code already taken",
			})
		case errors.Is(err, service.ErrInvalidCode):
			httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: err.Error(),
			})
		default:
			log.Error("failed to create organization", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, portalapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to create organization",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, orgResponse(org))
}

// HandleList godoc
//
//	@Summary		List organizations
//	@Description	List all tenant organizations. Superadmin only.
//	@Tags			Organizations
//	@Produce		json
//	@Success		200	{array}	portalapi.OrganizationResponse	"organizations"
//	@Security		BearerAuth
//	@Router			/v1/orgs [get].
func (h *OrgsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgs, err := h.OrganizationService.List(ctx)
	if err != nil {
		log.Error("failed to list organizations", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, portalapi.ErrorResponse{
			Error: "server_error",
		})
		return
	}

	out := make([]portalapi.OrganizationResponse, len(orgs))
	for i, o := range orgs {
		out[i] = orgResponse(o)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary		Get an organization
//	@Description	Fetch one organization, including its branding. Members only.
//	@Tags			Organizations
//	@Produce		json
//	@Param			id	path		string							true	"Organization id"
//	@Success		200	{object}	portalapi.OrganizationResponse	"organization"
//	@Failure		404	{object}	portalapi.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/orgs/{id} [get].
func (h *OrgsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	orgID := r.PathValue("id")

	caller, _ := ProfileFromContext(ctx)
	if caller.Role != domain.RoleSuperadmin && caller.OrganizationID != orgID {
		writeForbiddenOrg(w)
		return
	}

	org, err := h.OrganizationService.Get(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, portalapi.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "Organization not found",
			})
			return
		}
		log.Error("failed to get organization", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, portalapi.ErrorResponse{
			Error: "server_error",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, orgResponse(org))
}

// HandleGetByCode godoc
//
//	@Summary		Get an organization by code
//	@Description	Resolve an organization by its code slug. Public, so the sign-in page can render tenant branding before authentication.
//	@Tags			Organizations
//	@Produce		json
//	@Param			code	path		string							true	"Organization code"
//	@Success		200		{object}	portalapi.OrganizationResponse	"organization"
//	@Failure		404		{object}	portalapi.ErrorResponse			"error, error_description"
//	@Router			/v1/orgs/by-code/{code} [get].
func (h *OrgsHandler) HandleGetByCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	org, err := h.OrganizationService.GetByCode(ctx, r.PathValue("code"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, portalapi.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "Organization not found",
			})
			return
		}
		log.Error("failed to get organization by code", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, portalapi.ErrorResponse{
			Error: "server_error",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, orgResponse(org))
}

// HandleBranding godoc
//
//	@Summary		Update organization branding
//	@Description	Replace the logo and support contact fields of an organization. Org admins and superadmins only.
//	@Tags			Organizations
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Organization id"
//	@Param			request	body		portalapi.BrandingRequest		true	"Branding"
//	@Success		200		{object}	portalapi.OrganizationResponse	"organization"
//	@Failure		400		{object}	portalapi.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	portalapi.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/orgs/{id}/branding [patch].
func (h *OrgsHandler) HandleBranding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	orgID := r.PathValue("id")

	caller, _ := ProfileFromContext(ctx)
	if !canManageOrg(caller, orgID) {
		writeForbiddenOrg(w)
		return
	}

	var req portalapi.BrandingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	org, err := h.OrganizationService.UpdateBranding(ctx, orgID, domain.Branding{
		LogoURL:      req.LogoURL,
		SupportEmail: req.SupportEmail,
		SupportPhone: req.SupportPhone,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, portalapi.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "Organization not found",
			})
			return
		}
		log.Error("failed to update branding", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, portalapi.ErrorResponse{
			Error: "server_error",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, orgResponse(org))
}

// HandleProgress godoc
//
//	@Summary		Organization training progress
//	@Description	Per-member completion counts against the module catalog. Org admins and superadmins only.
//	@Tags			Training
//	@Produce		json
//	@Param			id	path	string							true	"Organization id"
//	@Success		200	{array}	portalapi.MemberProgressResponse	"progress"
//	@Failure		403	{object}	portalapi.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/orgs/{id}/progress [get].
func (h *OrgsHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	orgID := r.PathValue("id")

	caller, _ := ProfileFromContext(ctx)
	if !canManageOrg(caller, orgID) {
		writeForbiddenOrg(w)
		return
	}

	progress, err := h.TrainingService.OrganizationProgress(ctx, orgID)
	if err != nil {
		log.Error("failed to compute organization progress", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, portalapi.ErrorResponse{
			Error: "server_error",
		})
		return
	}

	out := make([]portalapi.MemberProgressResponse, len(progress))
	for i, p := range progress {
		out[i] = portalapi.MemberProgressResponse{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			Email:       p.Email,
			Completed:   p.Completed,
			Total:       p.Total,
		}
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
