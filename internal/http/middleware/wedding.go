package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/paradox1612/shaadi-timeline/internal/auth"
	"github.com/paradox1612/shaadi-timeline/internal/http/httperr"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const weddingIDKey contextKey = "wedding_id"

var weddingIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,63}$`)

// validateWeddingIDFormat checks that a path wedding id is well formed
// before it reaches any query
func validateWeddingIDFormat(weddingID string) bool {
	return weddingIDPattern.MatchString(weddingID)
}

// WeddingMiddleware validates wedding access and prevents IDOR attacks:
// the wedding id in the URL must match the one signed into the JWT.
func WeddingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.GetLogger(r.Context())

		weddingID := chi.URLParam(r, "weddingId")
		if weddingID == "" {
			log.Warn(r.Context(), "wedding_id not found in path")
			httperr.BadRequest400(w, r.Context(), httperr.ErrCodeMissingParameter, "wedding_id not found in path")
			return
		}

		if !validateWeddingIDFormat(weddingID) {
			log.Warn(r.Context(), "invalid wedding_id format", zap.String("wedding_id", weddingID))
			httperr.BadRequest400(w, r.Context(), httperr.ErrCodeInvalidWeddingID, "invalid wedding_id format")
			return
		}

		// Claims are set by JWTAuthMiddleware
		claims, ok := auth.GetClaims(r.Context())
		if !ok {
			log.Error(r.Context(), "claims not found in context")
			httperr.Unauthorized401(w, r.Context(), httperr.ErrCodeMissingAuthorization, "unauthorized")
			return
		}

		if claims.WeddingID != "" && claims.WeddingID != weddingID {
			log.Warn(r.Context(), "wedding access denied",
				zap.String("jwt_wedding_id", claims.WeddingID),
				zap.String("path_wedding_id", weddingID),
				zap.String("actor_id", claims.ActorID),
			)
			httperr.Forbidden403(w, r.Context(), httperr.ErrCodeWeddingMismatch, "wedding access denied")
			return
		}

		span := trace.SpanFromContext(r.Context())
		span.SetAttributes(attribute.String("wedding_id", weddingID))

		ctx := context.WithValue(r.Context(), weddingIDKey, weddingID)
		ctx = logger.SetWeddingIDInContext(ctx, weddingID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetWeddingID retrieves the validated wedding id from context
func GetWeddingID(ctx context.Context) (string, bool) {
	weddingID, ok := ctx.Value(weddingIDKey).(string)
	return weddingID, ok
}
