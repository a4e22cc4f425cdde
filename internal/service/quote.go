package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
	"github.com/paradox1612/shaadi-timeline/internal/permissions"
	"github.com/paradox1612/shaadi-timeline/internal/repo"
)

var (
	ErrQuoteNotFound = repo.ErrQuoteNotFound
)

const defaultCurrency = "USD"

// QuoteService owns vendor quotes. Vendor logins are always scoped to their
// own vendor profile; everyone else goes through quote.view / quote.manage.
type QuoteService struct {
	actorResolver
	engine    *permissions.Engine
	quoteRepo *repo.QuoteRepository
}

func NewQuoteService(engine *permissions.Engine, quoteRepo *repo.QuoteRepository, weddingRepo *repo.WeddingRepository, log *logger.Logger) *QuoteService {
	return &QuoteService{
		actorResolver: actorResolver{weddings: weddingRepo, log: log, module: "quote"},
		engine:        engine,
		quoteRepo:     quoteRepo,
	}
}

// ListQuotes retrieves quotes, narrowed to the actor's own vendor profile
// for vendor logins.
func (s *QuoteService) ListQuotes(ctx context.Context, weddingID, actorID string, vendorID *string) ([]domain.Quote, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.engine.CanViewQuotes(ctx, actor, weddingID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	if domain.IsVendor(actor.Role) {
		vendorID = actor.VendorProfileID
	}
	return s.quoteRepo.List(ctx, weddingID, vendorID)
}

// GetQuote retrieves a single quote. Vendor logins only reach their own.
func (s *QuoteService) GetQuote(ctx context.Context, weddingID, quoteID, actorID string) (*domain.Quote, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.engine.CanViewQuotes(ctx, actor, weddingID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	quote, err := s.quoteRepo.Get(ctx, weddingID, quoteID)
	if err != nil {
		return nil, err
	}

	if domain.IsVendor(actor.Role) &&
		(actor.VendorProfileID == nil || quote.VendorID != *actor.VendorProfileID) {
		return nil, ErrQuoteNotFound
	}

	return quote, nil
}

// CreateQuote records a quote. Requires quote.manage, except a vendor login
// may file a quote against its own profile.
func (s *QuoteService) CreateQuote(ctx context.Context, weddingID, actorID string, req *domain.CreateQuoteRequest) (*domain.Quote, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	ownQuote := domain.IsVendor(actor.Role) && actor.HasVendorProfile() &&
		*actor.VendorProfileID == req.VendorID
	if !ownQuote {
		allowed, err := s.engine.CanManageQuotes(ctx, actor, weddingID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrUnauthorized
		}
	}

	quote := &domain.Quote{
		ID:          uuid.NewString(),
		WeddingID:   weddingID,
		VendorID:    req.VendorID,
		Title:       req.Title,
		AmountTotal: req.AmountTotal,
		Currency:    defaultCurrency,
		Status:      domain.QuoteStatusDraft,
		Notes:       req.Notes,
		LineItems:   req.LineItems,
	}
	if req.Currency != nil {
		quote.Currency = *req.Currency
	}
	if req.Status != nil {
		quote.Status = *req.Status
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}
	return quote, nil
}

// UpdateQuote applies a partial update. Same gate as CreateQuote.
func (s *QuoteService) UpdateQuote(ctx context.Context, weddingID, quoteID, actorID string, req *domain.UpdateQuoteRequest) (*domain.Quote, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	quote, err := s.quoteRepo.Get(ctx, weddingID, quoteID)
	if err != nil {
		return nil, err
	}

	ownQuote := domain.IsVendor(actor.Role) && actor.HasVendorProfile() &&
		quote.VendorID == *actor.VendorProfileID
	if !ownQuote {
		allowed, err := s.engine.CanManageQuotes(ctx, actor, weddingID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrUnauthorized
		}
	}

	if err := s.quoteRepo.Update(ctx, weddingID, quoteID, req); err != nil {
		return nil, err
	}
	return s.quoteRepo.Get(ctx, weddingID, quoteID)
}

// DeleteQuote removes a quote. Requires quote.manage; vendors cannot delete
// quotes once filed.
func (s *QuoteService) DeleteQuote(ctx context.Context, weddingID, quoteID, actorID string) error {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return err
	}

	allowed, err := s.engine.CanManageQuotes(ctx, actor, weddingID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}

	return s.quoteRepo.Delete(ctx, weddingID, quoteID)
}
