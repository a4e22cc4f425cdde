package main

import (
	"context"
	"net/http"
	"time"

	"github.com/paradox1612/shaadi-timeline/internal/auth"
	"github.com/paradox1612/shaadi-timeline/internal/config"
	"github.com/paradox1612/shaadi-timeline/internal/http/handler"
	"github.com/paradox1612/shaadi-timeline/internal/http/middleware"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
	"github.com/paradox1612/shaadi-timeline/internal/ratelimit"
	"github.com/paradox1612/shaadi-timeline/internal/repo"
	"github.com/paradox1612/shaadi-timeline/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// RouterDeps carries everything buildRouter needs to assemble the HTTP surface.
type RouterDeps struct {
	Cfg             *config.Config
	Log             *logger.Logger
	Resolver        *auth.KeyResolver
	IdempotencyRepo *repo.IdempotencyRepo
	RateLimiter     *ratelimit.RedisRateLimiter
	Metrics         *telemetry.Metrics
	Pool            *pgxpool.Pool // readiness check

	// Handlers
	TaskHandler     *handler.TaskHandler
	PolicyHandler   *handler.PolicyHandler
	VendorHandler   *handler.VendorHandler
	QuoteHandler    *handler.QuoteHandler
	PaymentHandler  *handler.PaymentHandler
	TimelineHandler *handler.TimelineHandler
}

// buildRouter assembles the chi router with all middlewares and routes.
func buildRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLoggingMiddleware(deps.Log))
	r.Use(middleware.RecoveryMiddleware(deps.Log))
	r.Use(telemetry.OTelMiddleware(deps.Cfg.OTELServiceName))
	if deps.Metrics != nil {
		r.Use(telemetry.MetricsMiddleware(deps.Metrics))
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.Pool == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ready","note":"pool is nil"}`))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := deps.Pool.Ping(ctx); err != nil {
			deps.Log.Error(ctx, "readiness check failed: database unavailable", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"error","message":"database unavailable"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	// Protected routes with wedding isolation
	r.Route("/v1/weddings/{weddingId}", func(r chi.Router) {
		r.Use(auth.JWTAuthMiddleware(deps.Resolver))
		r.Use(middleware.WeddingMiddleware)
		r.Use(middleware.RateLimitMiddleware(deps.RateLimiter, deps.Cfg.RateLimitPerWeddingPerMin))

		// Tasks
		if deps.TaskHandler != nil {
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", deps.TaskHandler.ListTasks)
				r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Post("/", deps.TaskHandler.CreateTask)
				r.Route("/{taskId}", func(r chi.Router) {
					r.Get("/", deps.TaskHandler.GetTask)
					r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Patch("/", deps.TaskHandler.UpdateTask)
					r.Delete("/", deps.TaskHandler.DeleteTask)
					r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Put("/acl", deps.TaskHandler.UpdateTaskACL)
					r.Route("/comments", func(r chi.Router) {
						r.Get("/", deps.TaskHandler.ListComments)
						r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Post("/", deps.TaskHandler.CreateComment)
					})
				})
			})
		}

		// Permission policy
		if deps.PolicyHandler != nil {
			r.Route("/permissions", func(r chi.Router) {
				r.Get("/", deps.PolicyHandler.GetPolicy)
				r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Put("/", deps.PolicyHandler.SetPolicy)
			})
		}

		// Vendors
		if deps.VendorHandler != nil {
			r.Route("/vendors", func(r chi.Router) {
				r.Get("/", deps.VendorHandler.ListVendors)
				r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Post("/", deps.VendorHandler.CreateVendor)
				r.Route("/{vendorId}", func(r chi.Router) {
					r.Get("/", deps.VendorHandler.GetVendor)
					r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Patch("/", deps.VendorHandler.UpdateVendor)
					r.Delete("/", deps.VendorHandler.DeleteVendor)
				})
			})
		}

		// Quotes
		if deps.QuoteHandler != nil {
			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", deps.QuoteHandler.ListQuotes)
				r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Post("/", deps.QuoteHandler.CreateQuote)
				r.Route("/{quoteId}", func(r chi.Router) {
					r.Get("/", deps.QuoteHandler.GetQuote)
					r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Patch("/", deps.QuoteHandler.UpdateQuote)
					r.Delete("/", deps.QuoteHandler.DeleteQuote)
				})
			})
		}

		// Payments and budget
		if deps.PaymentHandler != nil {
			r.Route("/payments", func(r chi.Router) {
				r.Get("/", deps.PaymentHandler.ListPayments)
				r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Post("/", deps.PaymentHandler.CreatePayment)
				r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Post("/{paymentId}/approve", deps.PaymentHandler.ApprovePayment)
			})
			r.Get("/budget", deps.PaymentHandler.GetBudgetSummary)
		}

		// Timeline
		if deps.TimelineHandler != nil {
			r.Route("/event-days", func(r chi.Router) {
				r.Get("/", deps.TimelineHandler.ListEventDays)
				r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Post("/", deps.TimelineHandler.CreateEventDay)
				r.Route("/{eventDayId}", func(r chi.Router) {
					r.Get("/items", deps.TimelineHandler.ListItems)
					r.Delete("/items/{itemId}", deps.TimelineHandler.DeleteItem)
					r.Get("/shifts", deps.TimelineHandler.ListAdjustments)
				})
			})
			r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Post("/timeline-items", deps.TimelineHandler.CreateItem)
			r.Route("/timeline", func(r chi.Router) {
				r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Post("/shift", deps.TimelineHandler.ShiftDay)
				r.With(middleware.IdempotencyMiddleware(deps.IdempotencyRepo)).Post("/shifts/{adjustmentId}/undo", deps.TimelineHandler.UndoShift)
			})
		}
	})

	return r
}
