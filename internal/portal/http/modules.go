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

type ModulesHandler struct {
	TrainingService *service.TrainingService
}

// HandleList godoc
//
//	@Summary		List training modules
//	@Description	List the module catalog, ordered by title.
//	@Tags			Training
//	@Produce		json
//	@Success		200	{array}	portalapi.ModuleResponse	"modules"
//	@Security		BearerAuth
//	@Router			/v1/modules [get].
func (h *ModulesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	modules, err := h.TrainingService.ListModules(ctx)
	if err != nil {
		log.Error("failed to list modules", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, portalapi.ErrorResponse{
			Error: "server_error",
		})
		return
	}

	out := make([]portalapi.ModuleResponse, len(modules))
	for i, m := range modules {
		out[i] = portalapi.ModuleResponse{
			ID:      m.ID,
			Slug:    m.Slug,
			Title:   m.Title,
			Summary: m.Summary,
		}
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary		Create a training module
//	@Description	Add a module to the catalog. Superadmin only.
//	@Tags			Training
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalapi.CreateModuleRequest	true	"Module"
//	@Success		201		{object}	portalapi.ModuleResponse		"module"
//	@Failure		400		{object}	portalapi.ErrorResponse			"error, error_description"
//	@Failure		409		{object}	portalapi.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/modules [post].
func (h *ModulesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req portalapi.CreateModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	m, err := h.TrainingService.CreateModule(ctx, service.CreateModuleRequest{
		Slug:    req.Slug,
		Title:   req.Title,
		Summary: req.Summary,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugTaken):
			httpx.WriteJSON(w, http.StatusConflict, portalapi.ErrorResponse{
				Error:            "conflict",
				ErrorDescription: "Module slug already taken",
			})
		case errors.Is(err, service.ErrInvalidCode):
			httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "slug must be a lowercase slug",
			})
		default:
			log.Error("failed to create module", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, portalapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to create module",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, portalapi.ModuleResponse{
		ID:      m.ID,
		Slug:    m.Slug,
		Title:   m.Title,
		Summary: m.Summary,
	})
}

// HandleComplete godoc
//
//	@Summary		Record a module completion
//	@Description	Record that the caller completed a module with a score. Re-completing overwrites the previous score.
//	@Tags			Training
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Module id"
//	@Param			request	body		portalapi.CompleteModuleRequest	true	"Completion"
//	@Success		200		{object}	portalapi.CompletionResponse	"completion"
//	@Failure		400		{object}	portalapi.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	portalapi.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/modules/{id}/complete [post].
func (h *ModulesHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	moduleID := r.PathValue("id")

	var req portalapi.CompleteModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	caller, _ := ProfileFromContext(ctx)
	c, err := h.TrainingService.RecordCompletion(ctx, caller.ID, moduleID, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrModuleNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, portalapi.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "Module not found",
			})
		case errors.Is(err, service.ErrInvalidScore):
			httpx.WriteJSON(w, http.StatusBadRequest, portalapi.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: err.Error(),
			})
		default:
			log.Error("failed to record completion", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, portalapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to record completion",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, portalapi.CompletionResponse{
		ModuleID:    c.ModuleID,
		Score:       c.Score,
		CompletedAt: c.CompletedAt,
	})
}
