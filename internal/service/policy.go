package service

import (
	"context"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
	"github.com/paradox1612/shaadi-timeline/internal/permissions"
	"github.com/paradox1612/shaadi-timeline/internal/repo"
)

// PolicyService exposes the permission settings page: read the effective
// matrix, write overrides. Both sides are couple-only; the engine's couple
// bypass means the couple can never lock themselves out with a bad write.
type PolicyService struct {
	actorResolver
	engine    *permissions.Engine
	auditRepo *repo.AuditRepo
}

func NewPolicyService(engine *permissions.Engine, auditRepo *repo.AuditRepo, weddingRepo *repo.WeddingRepository, log *logger.Logger) *PolicyService {
	return &PolicyService{
		actorResolver: actorResolver{weddings: weddingRepo, log: log, module: "policy"},
		engine:        engine,
		auditRepo:     auditRepo,
	}
}

// GetEffectivePolicy returns the merged matrix the settings page renders.
func (s *PolicyService) GetEffectivePolicy(ctx context.Context, weddingID, actorID string) (permissions.Matrix, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}
	if !domain.IsCouple(actor.Role) {
		return nil, ErrUnauthorized
	}

	return s.engine.GetEffectivePolicy(ctx, weddingID)
}

// SetPolicyOverride stores a new override matrix and returns the resulting
// effective matrix.
func (s *PolicyService) SetPolicyOverride(ctx context.Context, weddingID, actorID string, overrides permissions.Matrix) (permissions.Matrix, error) {
	actor, err := s.resolveActor(ctx, actorID, weddingID)
	if err != nil {
		return nil, err
	}
	if !domain.IsCouple(actor.Role) {
		return nil, ErrUnauthorized
	}

	matrix, err := s.engine.SetPolicyOverride(ctx, weddingID, actorID, overrides)
	if err != nil {
		return nil, err
	}

	_ = s.auditRepo.LogAction(ctx, weddingID, actorID, "policy.update", "permission_policy", &weddingID, map[string]interface{}{
		"roles_overridden": len(overrides),
	})

	return matrix, nil
}
