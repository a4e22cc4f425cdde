package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paradox1612/shaadi-timeline/internal/auth"
	"github.com/paradox1612/shaadi-timeline/internal/http/httperr"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
	"github.com/paradox1612/shaadi-timeline/internal/permissions"
	"github.com/paradox1612/shaadi-timeline/internal/service"
)

type PolicyHandler struct {
	service *service.PolicyService
}

func NewPolicyHandler(service *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{service: service}
}

// GetPolicy handles GET /v1/weddings/{weddingId}/permissions
func (h *PolicyHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	matrix, err := h.service.GetEffectivePolicy(ctx, weddingID, claims.ActorID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"policy": matrix})
}

// SetPolicy handles PUT /v1/weddings/{weddingId}/permissions
func (h *PolicyHandler) SetPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	var req struct {
		Overrides permissions.Matrix `json:"overrides"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeInvalidFormat, "invalid JSON body")
		return
	}

	matrix, err := h.service.SetPolicyOverride(ctx, weddingID, claims.ActorID, req.Overrides)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"policy": matrix})
}
