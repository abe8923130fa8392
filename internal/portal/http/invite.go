package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aaplusconsultants/policytrain/internal/portal/service"
	"github.com/aaplusconsultants/policytrain/pkg/httpx"
	"github.com/aaplusconsultants/policytrain/pkg/portalapi"
	"github.com/aaplusconsultants/policytrain/pkg/slogx"
)

const maxBulkInvites = 200

type InviteHandler struct {
	InviteService *service.InviteService
}

// HandleSingle godoc
//
//	@Summary		Invite a user
//	@Description	Invite an email address into an organization. New emails receive a safe link to set a password; emails with an existing account are attached directly and notified.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalapi.InviteRequest		true	"Invite request"
//	@Success		200		{object}	portalapi.InviteResponse	"email, status, invitation_id"
//	@Failure		400		{object}	portalapi.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	portalapi.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	portalapi.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	portalapi.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InviteHandler) HandleSingle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req portalapi.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	caller, _ := ProfileFromContext(ctx)
	if !canManageOrg(caller, req.OrganizationID) {
		writeForbiddenOrg(w)
		return
	}

	res, err := h.InviteService.Invite(ctx, service.InviteRequest{
		Email:          req.Email,
		FullName:       req.FullName,
		OrganizationID: req.OrganizationID,
		Role:           req.Role,
		InvitedBy:      caller.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrInvalidRole):
			httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: err.Error(),
			})
		case errors.Is(err, service.ErrOrgNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, portalapi.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "Organization not found",
			})
		default:
			log.Error("failed to process invite", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, portalapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to process invite",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, portalapi.InviteResponse{
		Email:        res.Email,
		Status:       res.Status,
		InvitationID: res.InvitationID,
	})
}

// HandleBulk godoc
//
//	@Summary		Invite a batch of users
//	@Description	Invite up to 200 email addresses into an organization in one call. Each invitation succeeds or fails independently; results preserve input order.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalapi.BulkInviteRequest		true	"Bulk invite request"
//	@Success		200		{object}	portalapi.BulkInviteResponse	"results"
//	@Failure		400		{object}	portalapi.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	portalapi.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	portalapi.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites/bulk [post].
func (h *InviteHandler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req portalapi.BulkInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if len(req.Invites) == 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "invites must not be empty",
		})
		return
	}
	if len(req.Invites) > maxBulkInvites {
		httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "too many invites in one batch",
		})
		return
	}

	caller, _ := ProfileFromContext(ctx)
	reqs := make([]service.InviteRequest, len(req.Invites))
	for i, inv := range req.Invites {
		if !canManageOrg(caller, inv.OrganizationID) {
			writeForbiddenOrg(w)
			return
		}
		reqs[i] = service.InviteRequest{
			Email:          inv.Email,
			FullName:       inv.FullName,
			OrganizationID: inv.OrganizationID,
			Role:           inv.Role,
			InvitedBy:      caller.ID,
		}
	}

	results := h.InviteService.BulkInvite(ctx, reqs)

	out := make([]portalapi.InviteResponse, len(results))
	for i, res := range results {
		out[i] = portalapi.InviteResponse{
			Email:        res.Email,
			Status:       res.Status,
			InvitationID: res.InvitationID,
			Error:        res.Error,
		}
	}
	httpx.WriteJSON(w, http.StatusOK, portalapi.BulkInviteResponse{Results: out})
}
