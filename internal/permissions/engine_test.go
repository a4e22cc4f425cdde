package permissions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
)

// fakePolicyStore is an in-memory PolicyStore for engine tests.
type fakePolicyStore struct {
	policies map[string]*Policy
	getErr   error
	upserts  int
}

func newFakePolicyStore() *fakePolicyStore {
	return &fakePolicyStore{policies: make(map[string]*Policy)}
}

func (s *fakePolicyStore) Get(_ context.Context, weddingID string) (*Policy, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.policies[weddingID], nil
}

func (s *fakePolicyStore) Upsert(_ context.Context, policy *Policy) error {
	s.upserts++
	s.policies[policy.WeddingID] = policy
	return nil
}

func newTestEngine(t *testing.T, store PolicyStore) *Engine {
	t.Helper()
	log, err := logger.New("test-permissions", "error")
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Sync() })
	return NewEngine(store, log)
}

func TestHasPermission_CoupleBypassesStore(t *testing.T) {
	store := newFakePolicyStore()
	store.getErr = errors.New("database down")
	engine := newTestEngine(t, store)

	for _, role := range []domain.Role{domain.RoleBride, domain.RoleGroom} {
		ok, err := engine.HasPermission(context.Background(), "u-1", role, "w-1", CapPaymentApprove)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestHasPermission_DefaultsWhenNoPolicy(t *testing.T) {
	engine := newTestEngine(t, newFakePolicyStore())
	ctx := context.Background()

	ok, err := engine.HasPermission(ctx, "u-1", domain.RolePlanner, "w-1", CapTaskEditAny)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.HasPermission(ctx, "u-1", domain.RolePlanner, "w-1", CapPaymentApprove)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = engine.HasPermission(ctx, "u-1", domain.RoleVendor, "w-1", CapTaskCreate)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasPermission_OverrideFlipsDefault(t *testing.T) {
	store := newFakePolicyStore()
	store.policies["w-1"] = &Policy{
		WeddingID: "w-1",
		Overrides: Matrix{
			domain.RoleFamilyHelper: {CapTaskAssign: true},
			domain.RolePlanner:      {CapTaskEditAny: false},
		},
	}
	engine := newTestEngine(t, store)
	ctx := context.Background()

	ok, err := engine.HasPermission(ctx, "u-1", domain.RoleFamilyHelper, "w-1", CapTaskAssign)
	require.NoError(t, err)
	assert.True(t, ok, "override grants capability denied by default")

	ok, err = engine.HasPermission(ctx, "u-1", domain.RolePlanner, "w-1", CapTaskEditAny)
	require.NoError(t, err)
	assert.False(t, ok, "override revokes capability granted by default")

	// Capabilities the override does not mention keep their defaults.
	ok, err = engine.HasPermission(ctx, "u-1", domain.RoleFamilyHelper, "w-1", CapTaskCreate)
	require.NoError(t, err)
	assert.True(t, ok)

	// Other weddings are untouched.
	ok, err = engine.HasPermission(ctx, "u-1", domain.RoleFamilyHelper, "w-2", CapTaskAssign)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasPermission_StoreErrorFailsClosed(t *testing.T) {
	store := newFakePolicyStore()
	store.getErr = errors.New("database down")
	engine := newTestEngine(t, store)

	ok, err := engine.HasPermission(context.Background(), "u-1", domain.RolePlanner, "w-1", CapTaskCreate)
	require.Error(t, err)
	assert.False(t, ok)
}

func TestCanViewTask_UsesStoredPolicy(t *testing.T) {
	store := newFakePolicyStore()
	store.policies["w-1"] = &Policy{
		WeddingID: "w-1",
		Overrides: Matrix{domain.RolePlanner: {CapTaskViewPrivate: true}},
	}
	engine := newTestEngine(t, store)
	ctx := context.Background()

	task := baseTask(domain.VisibilityPrivate)
	planner := actorFor(domain.RolePlanner)

	ok, err := engine.CanViewTask(ctx, task, planner, "w-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.CanViewTask(ctx, task, planner, "w-2")
	require.NoError(t, err)
	assert.False(t, ok, "override in w-1 must not leak into w-2")
}

func TestBuildTaskFilter_MatchesEngineCanViewTask(t *testing.T) {
	store := newFakePolicyStore()
	store.policies["w-1"] = &Policy{
		WeddingID: "w-1",
		Overrides: Matrix{domain.RoleBrideParent: {CapTaskViewPrivate: true}},
	}
	engine := newTestEngine(t, store)
	ctx := context.Background()

	actor := actorFor(domain.RoleBrideParent)
	filter, err := engine.BuildTaskFilter(ctx, actor, "w-1")
	require.NoError(t, err)

	for _, task := range equivalenceCorpus(actor.UserID) {
		want, err := engine.CanViewTask(ctx, task, actor, "w-1")
		require.NoError(t, err)
		assert.Equal(t, want, filter.Match(task), "visibility=%s", task.Visibility)
	}
}

func TestGetEffectivePolicy(t *testing.T) {
	store := newFakePolicyStore()
	engine := newTestEngine(t, store)
	ctx := context.Background()

	matrix, err := engine.GetEffectivePolicy(ctx, "w-1")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), matrix, "absent policy resolves to defaults")

	store.policies["w-1"] = &Policy{
		WeddingID: "w-1",
		Overrides: Matrix{domain.RoleGroomParent: {CapPaymentCreate: true}},
	}

	matrix, err = engine.GetEffectivePolicy(ctx, "w-1")
	require.NoError(t, err)
	assert.True(t, matrix[domain.RoleGroomParent].Has(CapPaymentCreate))
	assert.Equal(t, DefaultGrants(domain.RolePlanner), matrix[domain.RolePlanner])
}

func TestSetPolicyOverride(t *testing.T) {
	store := newFakePolicyStore()
	engine := newTestEngine(t, store)
	ctx := context.Background()

	overrides := Matrix{domain.RoleFamilyHelper: {CapVendorView: false}}

	matrix, err := engine.SetPolicyOverride(ctx, "w-1", "u-bride", overrides)
	require.NoError(t, err)
	assert.False(t, matrix[domain.RoleFamilyHelper].Has(CapVendorView))

	// Applying the same overrides again lands on the same effective matrix.
	again, err := engine.SetPolicyOverride(ctx, "w-1", "u-bride", overrides)
	require.NoError(t, err)
	assert.Equal(t, matrix, again)
	assert.Equal(t, 2, store.upserts, "each set is a full replace")

	stored := store.policies["w-1"]
	require.NotNil(t, stored)
	assert.Equal(t, "u-bride", stored.UpdatedBy)
	assert.Equal(t, overrides, stored.Overrides)
}

func TestSetPolicyOverride_FullReplaceNotAccumulate(t *testing.T) {
	store := newFakePolicyStore()
	engine := newTestEngine(t, store)
	ctx := context.Background()

	_, err := engine.SetPolicyOverride(ctx, "w-1", "u-bride",
		Matrix{domain.RoleFamilyHelper: {CapTaskAssign: true}})
	require.NoError(t, err)

	// The second write mentions a different role only; the first override
	// is gone, not merged.
	matrix, err := engine.SetPolicyOverride(ctx, "w-1", "u-bride",
		Matrix{domain.RolePlanner: {CapTaskViewPrivate: true}})
	require.NoError(t, err)
	assert.False(t, matrix[domain.RoleFamilyHelper].Has(CapTaskAssign))
	assert.True(t, matrix[domain.RolePlanner].Has(CapTaskViewPrivate))
}

func TestSetPolicyOverride_RejectsInvalid(t *testing.T) {
	store := newFakePolicyStore()
	engine := newTestEngine(t, store)
	ctx := context.Background()

	_, err := engine.SetPolicyOverride(ctx, "w-1", "u-bride",
		Matrix{domain.Role("CATERER"): {CapTaskCreate: true}})
	var roleErr *UnknownRoleError
	require.ErrorAs(t, err, &roleErr)

	_, err = engine.SetPolicyOverride(ctx, "w-1", "u-bride",
		Matrix{domain.RolePlanner: {Capability("task.explode"): true}})
	var capErr *UnknownCapabilityError
	require.ErrorAs(t, err, &capErr)

	assert.Zero(t, store.upserts, "invalid overrides never reach the store")
	assert.Empty(t, store.policies)
}
