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
	ErrVendorNotFound = repo.ErrVendorNotFound
)

// VendorService owns the vendor directory. Reads are gated by vendor.view,
// writes by vendor.manage; a vendor login may always read its own profile.
type VendorService struct {
	actorResolver
	engine     *permissions.Engine
	vendorRepo *repo.VendorRepository
	auditRepo  *repo.AuditRepo
}

func NewVendorService(engine *permissions.Engine, vendorRepo *repo.VendorRepository, auditRepo *repo.AuditRepo, weddingRepo *repo.WeddingRepository, log *logger.Logger) *VendorService {
	return &VendorService{
		actorResolver: actorResolver{weddings: weddingRepo, log: log, module: "vendor"},
		engine:        engine,
		vendorRepo:    vendorRepo,
		auditRepo:     auditRepo,
	}
}

// ListVendors retrieves the vendor directory. Vendors without vendor.view
// get a list containing only their own profile rather than a 403, matching
// what their dashboard shows.
func (s *VendorService) ListVendors(ctx context.Context, weddingID, actorID string) ([]domain.VendorProfile, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.engine.HasPermission(ctx, actorID, actor.Role, weddingID, permissions.CapVendorView)
	if err != nil {
		return nil, err
	}
	if allowed {
		return s.vendorRepo.List(ctx, weddingID)
	}

	if actor.HasVendorProfile() {
		own, err := s.vendorRepo.Get(ctx, weddingID, *actor.VendorProfileID)
		if err != nil {
			return nil, err
		}
		return []domain.VendorProfile{*own}, nil
	}

	return nil, ErrUnauthorized
}

// GetVendor retrieves a single vendor profile.
func (s *VendorService) GetVendor(ctx context.Context, weddingID, vendorID, actorID string) (*domain.VendorProfile, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	ownProfile := actor.HasVendorProfile() && *actor.VendorProfileID == vendorID
	if !ownProfile {
		allowed, err := s.engine.HasPermission(ctx, actorID, actor.Role, weddingID, permissions.CapVendorView)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrUnauthorized
		}
	}

	return s.vendorRepo.Get(ctx, weddingID, vendorID)
}

// CreateVendor adds a vendor profile. Requires vendor.manage.
func (s *VendorService) CreateVendor(ctx context.Context, weddingID, actorID string, req *domain.CreateVendorRequest) (*domain.VendorProfile, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.engine.HasPermission(ctx, actorID, actor.Role, weddingID, permissions.CapVendorManage)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	vendor := &domain.VendorProfile{
		ID:        uuid.NewString(),
		WeddingID: weddingID,
		Name:      req.Name,
		Category:  req.Category,
		Phone:     req.Phone,
		Email:     req.Email,
		Notes:     req.Notes,
		UserID:    req.UserID,
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}

	_ = s.auditRepo.LogAction(ctx, weddingID, actorID, "vendor.create", "vendor", &vendor.ID, nil)
	return vendor, nil
}

// UpdateVendor applies a partial update. Requires vendor.manage.
func (s *VendorService) UpdateVendor(ctx context.Context, weddingID, vendorID, actorID string, req *domain.UpdateVendorRequest) (*domain.VendorProfile, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.engine.HasPermission(ctx, actorID, actor.Role, weddingID, permissions.CapVendorManage)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	if err := s.vendorRepo.Update(ctx, weddingID, vendorID, req); err != nil {
		return nil, err
	}
	return s.vendorRepo.Get(ctx, weddingID, vendorID)
}

// DeleteVendor removes a vendor profile. Requires vendor.manage.
func (s *VendorService) DeleteVendor(ctx context.Context, weddingID, vendorID, actorID string) error {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return err
	}

	allowed, err := s.engine.HasPermission(ctx, actorID, actor.Role, weddingID, permissions.CapVendorManage)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}

	if err := s.vendorRepo.Delete(ctx, weddingID, vendorID); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, weddingID, actorID, "vendor.delete", "vendor", &vendorID, nil)
	return nil
}
