package permissions

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
)

// PolicyStore is the engine's single external dependency: the stored
// per-wedding override record. Get returns nil when no policy exists, which
// is the normal state for most weddings.
type PolicyStore interface {
	Get(ctx context.Context, weddingID string) (*Policy, error)
	Upsert(ctx context.Context, policy *Policy) error
}

// Engine answers every permission question in the system. It holds no
// mutable state of its own; the one policy fetch per decision goes through
// the store, and all decision logic is pure over the resolved grants.
//
// Decisions fail closed: ambiguous input collapses to deny. The only error
// the engine surfaces is a failed policy fetch, which the caller maps to its
// normal storage-failure handling.
type Engine struct {
	policies PolicyStore
	log      *logger.Logger
}

// NewEngine constructs an Engine backed by the given policy store.
func NewEngine(policies PolicyStore, log *logger.Logger) *Engine {
	return &Engine{policies: policies, log: log}
}

// grantsFor resolves the effective grants for one role in one wedding:
// stored overrides merged over the defaults, or the defaults alone when no
// policy exists.
func (e *Engine) grantsFor(ctx context.Context, role domain.Role, weddingID string) (Grants, error) {
	policy, err := e.policies.Get(ctx, weddingID)
	if err != nil {
		return nil, fmt.Errorf("fetch permission policy: %w", err)
	}
	if policy == nil {
		return DefaultGrants(role), nil
	}
	return Merge(policy.Overrides)[role], nil
}

// HasPermission reports whether the actor's role carries the capability in
// this wedding. Couple roles short-circuit to true before any matrix lookup;
// that privileged path is distinct from the table, not a row in it.
//
// actorID does not influence the outcome beyond the couple bypass; it stays
// in the signature for symmetry with the record-level checks.
func (e *Engine) HasPermission(ctx context.Context, actorID string, role domain.Role, weddingID string, c Capability) (bool, error) {
	_ = actorID

	if domain.IsCouple(role) {
		return true, nil
	}

	grants, err := e.grantsFor(ctx, role, weddingID)
	if err != nil {
		return false, err
	}
	return grants.Has(c), nil
}

// CanViewTask decides view access for one task. The task must arrive with
// its ACL sub-lists preloaded; the engine treats them as a consistent
// snapshot and does not re-validate referential integrity.
func (e *Engine) CanViewTask(ctx context.Context, task *domain.Task, actor domain.Actor, weddingID string) (bool, error) {
	grants, err := e.grantsFor(ctx, actor.Role, weddingID)
	if err != nil {
		return false, err
	}
	return canViewTask(task, actor, grants), nil
}

// CanEditTask decides edit access: view first, then edit_any, then the
// edit_assigned path (assignee, watcher, or linked vendor).
func (e *Engine) CanEditTask(ctx context.Context, task *domain.Task, actor domain.Actor, weddingID string) (bool, error) {
	grants, err := e.grantsFor(ctx, actor.Role, weddingID)
	if err != nil {
		return false, err
	}
	return canEditTask(task, actor, grants), nil
}

// CanCommentOnTask decides comment access: view plus task.comment.
func (e *Engine) CanCommentOnTask(ctx context.Context, task *domain.Task, actor domain.Actor, weddingID string) (bool, error) {
	grants, err := e.grantsFor(ctx, actor.Role, weddingID)
	if err != nil {
		return false, err
	}
	return canCommentOnTask(task, actor, grants), nil
}

// BuildTaskFilter compiles the list-query predicate for the actor. It reads
// the same stored policy and the same rule table as CanViewTask; any edit to
// one path is an edit to both.
func (e *Engine) BuildTaskFilter(ctx context.Context, actor domain.Actor, weddingID string) (TaskFilter, error) {
	grants, err := e.grantsFor(ctx, actor.Role, weddingID)
	if err != nil {
		return TaskFilter{}, err
	}
	return BuildTaskFilter(actor, grants), nil
}

// GetEffectivePolicy returns the full merged matrix for a wedding, defaults
// included, for the permission settings page.
func (e *Engine) GetEffectivePolicy(ctx context.Context, weddingID string) (Matrix, error) {
	policy, err := e.policies.Get(ctx, weddingID)
	if err != nil {
		return nil, fmt.Errorf("fetch permission policy: %w", err)
	}
	if policy == nil {
		return Defaults(), nil
	}
	return Merge(policy.Overrides), nil
}

// SetPolicyOverride validates and stores the override record, replacing any
// previous one (last writer wins, full replace; the merge with defaults is
// read-time only). The caller enforces the couple-only role check before
// invoking. Returns the new effective matrix.
func (e *Engine) SetPolicyOverride(ctx context.Context, weddingID, updatedBy string, overrides Matrix) (Matrix, error) {
	if err := ValidateOverrides(overrides); err != nil {
		return nil, err
	}

	policy := &Policy{
		WeddingID: weddingID,
		Overrides: overrides,
		UpdatedBy: updatedBy,
	}
	if err := e.policies.Upsert(ctx, policy); err != nil {
		return nil, fmt.Errorf("store permission policy: %w", err)
	}

	e.log.Info(ctx, "permission policy updated",
		logger.Module("permissions"),
		logger.Action("set_policy"),
		zap.String("wedding_id", weddingID),
		zap.Int("roles_overridden", len(overrides)),
	)
	return Merge(overrides), nil
}
