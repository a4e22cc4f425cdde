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

type PaymentHandler struct {
	service *service.PaymentService
}

func NewPaymentHandler(service *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// ListPayments handles GET /v1/weddings/{weddingId}/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	payments, err := h.service.ListPayments(ctx, weddingID, claims.ActorID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": payments})
}

// CreatePayment handles POST /v1/weddings/{weddingId}/payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	var req domain.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeInvalidFormat, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		httperr.BadRequest400(w, ctx, httperr.ErrCodeValidationError, err.Error())
		return
	}

	payment, err := h.service.CreatePayment(ctx, weddingID, claims.ActorID, &req)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}

// ApprovePayment handles POST /v1/weddings/{weddingId}/payments/{paymentId}/approve
func (h *PaymentHandler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")
	paymentID := chi.URLParam(r, "paymentId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	payment, err := h.service.ApprovePayment(ctx, weddingID, paymentID, claims.ActorID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusOK, payment)
}

// GetBudgetSummary handles GET /v1/weddings/{weddingId}/budget
func (h *PaymentHandler) GetBudgetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	weddingID := chi.URLParam(r, "weddingId")

	claims, ok := auth.GetClaims(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "authentication required")
		return
	}

	summary, err := h.service.BudgetSummary(ctx, weddingID, claims.ActorID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
