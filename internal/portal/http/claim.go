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

type ClaimHandler struct {
	SafeLinkService *service.SafeLinkService
}

// ServeHTTP godoc
//
//	@Summary		Claim a safe link
//	@Description	Redeem a single-use safe-link token and receive the credential URL it protects. Each token can be claimed exactly once; a second claim returns 410.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalapi.ClaimRequest	true	"Claim request"
//	@Success		200		{object}	portalapi.ClaimResponse	"target_url"
//	@Failure		400		{object}	portalapi.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	portalapi.ErrorResponse	"error, error_description"
//	@Failure		410		{object}	portalapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	portalapi.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/claim [post].
func (h *ClaimHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req portalapi.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Token == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "token is required",
		})
		return
	}

	targetURL, err := h.SafeLinkService.Claim(ctx, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, portalapi.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "Unknown token",
			})
		case errors.Is(err, service.ErrTokenUsed):
			httpx.WriteJSON(w, http.StatusGone, portalapi.ErrorResponse{
				Error:            "gone",
				ErrorDescription: "This link has already been used",
			})
		case errors.Is(err, service.ErrTokenExpired):
			httpx.WriteJSON(w, http.StatusGone, portalapi.ErrorResponse{
				Error:            "gone",
				ErrorDescription: "This link has expired",
			})
		default:
			log.Error("failed to claim safe link", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, portalapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to claim link",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, portalapi.ClaimResponse{TargetURL: targetURL})
}
