package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paradox1612/shaadi-timeline/internal/permissions"
)

// PolicyRepository stores per-wedding permission overrides. One row per
// wedding; the overrides column is the sparse role-to-capability matrix as
// JSONB. Absence of a row means the wedding runs on defaults, so Get
// returns nil rather than an error for that case.
type PolicyRepository struct {
	pool *pgxpool.Pool
}

// NewPolicyRepository creates a new PolicyRepository instance.
func NewPolicyRepository(pool *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{pool: pool}
}

// Get retrieves the stored policy for a wedding, nil when none exists.
func (r *PolicyRepository) Get(ctx context.Context, weddingID string) (*permissions.Policy, error) {
	query := `
		SELECT wedding_id, overrides, updated_by, updated_at
		FROM permission_policies
		WHERE wedding_id = $1
	`

	var p permissions.Policy
	var overridesJSON []byte
	err := r.pool.QueryRow(ctx, query, weddingID).Scan(
		&p.WeddingID, &overridesJSON, &p.UpdatedBy, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query permission policy: %w", err)
	}

	if err := json.Unmarshal(overridesJSON, &p.Overrides); err != nil {
		return nil, fmt.Errorf("decode permission overrides: %w", err)
	}

	return &p, nil
}

// Upsert stores the policy, replacing the previous overrides wholesale.
func (r *PolicyRepository) Upsert(ctx context.Context, policy *permissions.Policy) error {
	overridesJSON, err := json.Marshal(policy.Overrides)
	if err != nil {
		return fmt.Errorf("encode permission overrides: %w", err)
	}

	query := `
		INSERT INTO permission_policies (wedding_id, overrides, updated_by, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (wedding_id)
		DO UPDATE SET overrides = EXCLUDED.overrides,
		              updated_by = EXCLUDED.updated_by,
		              updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, policy.WeddingID, overridesJSON, policy.UpdatedBy); err != nil {
		return fmt.Errorf("upsert permission policy: %w", err)
	}

	return nil
}
