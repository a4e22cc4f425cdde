package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paradox1612/shaadi-timeline/internal/auth"
	"github.com/paradox1612/shaadi-timeline/internal/domain"
	"github.com/paradox1612/shaadi-timeline/internal/http/httperr"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
	"github.com/paradox1612/shaadi-timeline/internal/service"
)

type QuoteHandler struct {
	service *service.QuoteService
}

func NewQuoteHandler(service *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// ListQuotes handles GET /v1/weddings/{weddingId}/quotes
func (h *QuoteHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	var vendorID *string
	if v := r.URL.Query().Get("vendorId"); v != "" {
		vendorID = &v
	}

	quotes, err := h.service.ListQuotes(ctx, weddingID, claims.ActorID, vendorID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}
	if quotes == nil {
		quotes = []domain.Quote{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": quotes})
}

// GetQuote handles GET /v1/weddings/{weddingId}/quotes/{quoteId}
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")
	quoteID := chi.URLParam(r, "quoteId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	quote, err := h.service.GetQuote(ctx, weddingID, quoteID, claims.ActorID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// CreateQuote handles POST /v1/weddings/{weddingId}/quotes
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	var req domain.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeInvalidFormat, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeValidationError, err.Error())
		return
	}

	quote, err := h.service.CreateQuote(ctx, weddingID, claims.ActorID, &req)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusCreated, quote)
}

// UpdateQuote handles PATCH /v1/weddings/{weddingId}/quotes/{quoteId}
func (h *QuoteHandler) UpdateQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")
	quoteID := chi.URLParam(r, "quoteId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	var req domain.UpdateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeInvalidFormat, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeValidationError, err.Error())
		return
	}

	quote, err := h.service.UpdateQuote(ctx, weddingID, quoteID, claims.ActorID, &req)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// DeleteQuote handles DELETE /v1/weddings/{weddingId}/quotes/{quoteId}
func (h *QuoteHandler) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")
	quoteID := chi.URLParam(r, "quoteId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	if err := h.service.DeleteQuote(ctx, weddingID, quoteID, claims.ActorID); err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
