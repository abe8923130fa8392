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

type SessionHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Establish a session
//	@Description	Exchange a PKCE authorization code or verify an implicit-flow access token, then reconcile the identity against the invitation ledger. When intended_email is supplied, a mismatched identity is signed out and rejected with 409.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalapi.SessionRequest	true	"Session request"
//	@Success		200		{object}	portalapi.SessionResponse	"account_id, email, organization_id, role, provisioned"
//	@Failure		400		{object}	portalapi.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	portalapi.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	portalapi.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	portalapi.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	portalapi.ErrorResponse		"error, error_description"
//	@Router			/v1/auth/session [post].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req portalapi.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if (req.Code == "") == (req.AccessToken == "") {
		httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "exactly one of code and access_token is required",
		})
		return
	}

	var (
		sess service.EstablishedSession
		err  error
	)
	if req.Code != "" {
		sess, err = h.SessionService.EstablishFromCode(ctx, req.Code, req.IntendedEmail)
	} else {
		sess, err = h.SessionService.EstablishFromToken(ctx, req.AccessToken, req.IntendedEmail)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCrossover):
			httpx.WriteJSON(w, http.StatusConflict, portalapi.ErrorResponse{
				Error:            "identity_mismatch",
				ErrorDescription: "This invitation was issued to a different email address. The session has been signed out.",
			})
		case errors.Is(err, service.ErrUnaffiliated):
			httpx.WriteJSON(w, http.StatusForbidden, portalapi.ErrorResponse{
				Error:            "unaffiliated",
				ErrorDescription: "No invitation or organization is associated with this account. Contact your administrator.",
			})
		default:
			log.Error("failed to establish session", "err", err)
			httpx.WriteJSON(w, http.StatusUnauthorized, portalapi.ErrorResponse{
				Error:            "invalid_grant",
				ErrorDescription: "Could not establish a session",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, portalapi.SessionResponse{
		AccountID:      sess.AccountID,
		Email:          sess.Email,
		OrganizationID: sess.OrganizationID,
		Role:           sess.Role,
		Provisioned:    sess.Provisioned,
	})
}
