package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
	"github.com/paradox1612/shaadi-timeline/internal/permissions"
	"github.com/paradox1612/shaadi-timeline/internal/repo"
)

var (
	ErrPaymentNotFound        = repo.ErrPaymentNotFound
	ErrPaymentAlreadyApproved = repo.ErrPaymentAlreadyApproved
)

// PaymentService owns the payment ledger and the budget summary. Listing is
// scope-based: the engine decides between the whole ledger and the actor's
// own slice, and a vendor's slice is keyed to their vendor profile.
type PaymentService struct {
	actorResolver
	engine      *permissions.Engine
	paymentRepo *repo.PaymentRepository
	auditRepo   *repo.AuditRepo
}

func NewPaymentService(engine *permissions.Engine, paymentRepo *repo.PaymentRepository, auditRepo *repo.AuditRepo, weddingRepo *repo.WeddingRepository, log *logger.Logger) *PaymentService {
	return &PaymentService{
		actorResolver: actorResolver{weddings: weddingRepo, log: log, module: "payment"},
		engine:        engine,
		paymentRepo:   paymentRepo,
		auditRepo:     auditRepo,
	}
}

// ListPayments retrieves payments within the actor's resolved scope.
func (s *PaymentService) ListPayments(ctx context.Context, weddingID, actorID string) ([]domain.Payment, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	scope, err := s.engine.CanViewPayments(ctx, actor, weddingID)
	if err != nil {
		return nil, err
	}

	switch {
	case scope.ViewAll:
		return s.paymentRepo.List(ctx, weddingID, repo.PaymentListScope{All: true})
	case scope.ViewOwn:
		listScope := repo.PaymentListScope{CreatedBy: &actorID}
		if domain.IsVendor(actor.Role) {
			// Vendors see payments toward them, not payments they recorded.
			listScope = repo.PaymentListScope{VendorID: actor.VendorProfileID}
		}
		return s.paymentRepo.List(ctx, weddingID, listScope)
	default:
		return nil, ErrUnauthorized
	}
}

// CreatePayment records a payment. Requires payment.create.
func (s *PaymentService) CreatePayment(ctx context.Context, weddingID, actorID string, req *domain.CreatePaymentRequest) (*domain.Payment, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.engine.CanCreatePayments(ctx, actor, weddingID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	payment := &domain.Payment{
		ID:              uuid.NewString(),
		WeddingID:       weddingID,
		VendorID:        req.VendorID,
		QuoteID:         req.QuoteID,
		Amount:          req.Amount,
		Currency:        defaultCurrency,
		Method:          domain.PaymentMethodOther,
		Note:            req.Note,
		PaidAt:          time.Now().UTC(),
		CreatedByUserID: actorID,
	}
	if req.Currency != nil {
		payment.Currency = *req.Currency
	}
	if req.Method != nil {
		payment.Method = *req.Method
	}
	if req.PaidAt != nil {
		payment.PaidAt = *req.PaidAt
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return payment, nil
}

// ApprovePayment signs off a payment. Requires payment.approve; every
// approval is audited.
func (s *PaymentService) ApprovePayment(ctx context.Context, weddingID, paymentID, actorID string) (*domain.Payment, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.engine.CanApprovePayments(ctx, actor, weddingID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	if err := s.paymentRepo.Approve(ctx, weddingID, paymentID, actorID); err != nil {
		return nil, err
	}

	_ = s.auditRepo.LogAction(ctx, weddingID, actorID, "payment.approve", "payment", &paymentID, nil)
	return s.paymentRepo.Get(ctx, weddingID, paymentID)
}

// BudgetSummary aggregates the wedding budget. Reserved for actors with the
// full ledger view; an own-payments scope is not enough to total it.
func (s *PaymentService) BudgetSummary(ctx context.Context, weddingID, actorID string) (*domain.BudgetSummary, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	scope, err := s.engine.CanViewPayments(ctx, actor, weddingID)
	if err != nil {
		return nil, err
	}
	if !scope.ViewAll {
		return nil, ErrUnauthorized
	}

	return s.paymentRepo.BudgetSummary(ctx, weddingID, defaultCurrency)
}
