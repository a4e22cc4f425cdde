package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
	"github.com/paradox1612/shaadi-timeline/internal/http/httperr"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
	"github.com/paradox1612/shaadi-timeline/internal/permissions"
	"github.com/paradox1612/shaadi-timeline/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// handleServiceError maps service sentinels onto the JSON error envelope.
// Unmapped errors become a 500 with no internal detail leaked.
func handleServiceError(w http.ResponseWriter, ctx context.Context, log *logger.Logger, err error) {
	var roleErr *permissions.UnknownRoleError
	var capErr *permissions.UnknownCapabilityError
	var aclErr *domain.ACLConflictError

	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		log.Warn(ctx, "member not found in wedding", zap.Error(err))
		httperr.Forbidden403(w, ctx, httperr.ErrCodeForbidden, "not a member of this wedding")
	case errors.Is(err, service.ErrUnauthorized):
		log.Warn(ctx, "unauthorized action", zap.Error(err))
		httperr.Forbidden403(w, ctx, httperr.ErrCodeForbidden, "insufficient permissions for this action")
	case errors.Is(err, service.ErrTaskNotFound):
		httperr.WriteError(w, ctx, http.StatusNotFound, httperr.ErrCodeNotFound, "task not found")
	case errors.Is(err, service.ErrVendorNotFound):
		httperr.WriteError(w, ctx, http.StatusNotFound, httperr.ErrCodeNotFound, "vendor not found")
	case errors.Is(err, service.ErrQuoteNotFound):
		httperr.WriteError(w, ctx, http.StatusNotFound, httperr.ErrCodeNotFound, "quote not found")
	case errors.Is(err, service.ErrPaymentNotFound):
		httperr.WriteError(w, ctx, http.StatusNotFound, httperr.ErrCodeNotFound, "payment not found")
	case errors.Is(err, service.ErrEventDayNotFound):
		httperr.WriteError(w, ctx, http.StatusNotFound, httperr.ErrCodeNotFound, "event day not found")
	case errors.Is(err, service.ErrAdjustmentNotFound):
		httperr.WriteError(w, ctx, http.StatusNotFound, httperr.ErrCodeNotFound, "timeline adjustment not found")
	case errors.Is(err, service.ErrPaymentAlreadyApproved):
		httperr.WriteError(w, ctx, http.StatusConflict, httperr.ErrCodeConflict, "payment already approved")
	case errors.Is(err, service.ErrAdjustmentReverted):
		httperr.WriteError(w, ctx, http.StatusConflict, httperr.ErrCodeConflict, "timeline adjustment already reverted")
	case errors.As(err, &roleErr), errors.As(err, &capErr), errors.As(err, &aclErr):
		httperr.BadRequest400(w, ctx, httperr.ErrCodeValidationError, err.Error())
	default:
		log.Error(ctx, "service error occurred", zap.Error(err))
		httperr.InternalError(w, ctx)
	}
}
