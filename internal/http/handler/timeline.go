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

type TimelineHandler struct {
	service *service.TimelineService
}

func NewTimelineHandler(service *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{service: service}
}

// ListEventDays handles GET /v1/weddings/{weddingId}/event-days
func (h *TimelineHandler) ListEventDays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	days, err := h.service.ListEventDays(ctx, weddingID, claims.ActorID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}
	if days == nil {
		days = []domain.EventDay{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": days})
}

// CreateEventDay handles POST /v1/weddings/{weddingId}/event-days
func (h *TimelineHandler) CreateEventDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	var req domain.CreateEventDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeInvalidFormat, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeValidationError, err.Error())
		return
	}

	day, err := h.service.CreateEventDay(ctx, weddingID, claims.ActorID, &req)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusCreated, day)
}

// ListItems handles GET /v1/weddings/{weddingId}/event-days/{eventDayId}/items
func (h *TimelineHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")
	eventDayID := chi.URLParam(r, "eventDayId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	items, err := h.service.ListItems(ctx, weddingID, eventDayID, claims.ActorID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}
	if items == nil {
		items = []domain.TimelineItem{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": items})
}

// CreateItem handles POST /v1/weddings/{weddingId}/timeline-items
func (h *TimelineHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	var req domain.CreateTimelineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeInvalidFormat, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeValidationError, err.Error())
		return
	}

	item, err := h.service.CreateItem(ctx, weddingID, claims.ActorID, &req)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// DeleteItem handles DELETE /v1/weddings/{weddingId}/event-days/{eventDayId}/items/{itemId}
func (h *TimelineHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")
	eventDayID := chi.URLParam(r, "eventDayId")
	itemID := chi.URLParam(r, "itemId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	if err := h.service.DeleteItem(ctx, weddingID, eventDayID, itemID, claims.ActorID); err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ShiftDay handles POST /v1/weddings/{weddingId}/timeline/shift
func (h *TimelineHandler) ShiftDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	var req domain.ShiftDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeInvalidFormat, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeValidationError, err.Error())
		return
	}

	adj, err := h.service.ShiftDay(ctx, weddingID, claims.ActorID, &req)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusCreated, adj)
}

// UndoShift handles POST /v1/weddings/{weddingId}/timeline/shifts/{adjustmentId}/undo
func (h *TimelineHandler) UndoShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")
	adjustmentID := chi.URLParam(r, "adjustmentId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	adj, err := h.service.UndoShift(ctx, weddingID, adjustmentID, claims.ActorID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusOK, adj)
}

// ListAdjustments handles GET /v1/weddings/{weddingId}/event-days/{eventDayId}/shifts
func (h *TimelineHandler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")
	eventDayID := chi.URLParam(r, "eventDayId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	adjustments, err := h.service.ListAdjustments(ctx, weddingID, eventDayID, claims.ActorID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}
	if adjustments == nil {
		adjustments = []domain.TimelineAdjustment{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": adjustments})
}
