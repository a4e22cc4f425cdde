package permissions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
)

func TestCanViewQuotes(t *testing.T) {
	engine := newTestEngine(t, newFakePolicyStore())
	ctx := context.Background()

	tests := []struct {
		name  string
		actor domain.Actor
		want  bool
	}{
		{"bride", actorFor(domain.RoleBride), true},
		{"planner default", actorFor(domain.RolePlanner), true},
		{"family helper default", actorFor(domain.RoleFamilyHelper), false},
		{"vendor with profile", domain.Actor{UserID: "u-v", Role: domain.RoleVendor, VendorProfileID: strPtr("vp-1")}, true},
		{"vendor without profile", domain.Actor{UserID: "u-v", Role: domain.RoleVendor}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.CanViewQuotes(ctx, tt.actor, "w-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanViewQuotes_VendorProfileBeatsRevokedCapability(t *testing.T) {
	// Revoking quote.view for vendors does not lock a linked vendor out of
	// their own quotes; their access rides the profile link, not the matrix.
	store := newFakePolicyStore()
	store.policies["w-1"] = &Policy{
		WeddingID: "w-1",
		Overrides: Matrix{domain.RoleVendor: {CapQuoteView: false}},
	}
	engine := newTestEngine(t, store)

	vendor := domain.Actor{UserID: "u-v", Role: domain.RoleVendor, VendorProfileID: strPtr("vp-1")}
	got, err := engine.CanViewQuotes(context.Background(), vendor, "w-1")
	require.NoError(t, err)
	assert.True(t, got)

	unlinked := domain.Actor{UserID: "u-v2", Role: domain.RoleVendor}
	got, err = engine.CanViewQuotes(context.Background(), unlinked, "w-1")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCanViewPayments_Defaults(t *testing.T) {
	engine := newTestEngine(t, newFakePolicyStore())
	ctx := context.Background()

	tests := []struct {
		name  string
		actor domain.Actor
		want  PaymentScope
	}{
		{"bride", actorFor(domain.RoleBride), PaymentScope{ViewAll: true, ViewOwn: true}},
		{"planner", actorFor(domain.RolePlanner), PaymentScope{ViewAll: true, ViewOwn: true}},
		{"bride parent", actorFor(domain.RoleBrideParent), PaymentScope{ViewAll: false, ViewOwn: true}},
		{"family helper", actorFor(domain.RoleFamilyHelper), PaymentScope{ViewAll: false, ViewOwn: false}},
		{"vendor with profile", domain.Actor{UserID: "u-v", Role: domain.RoleVendor, VendorProfileID: strPtr("vp-1")}, PaymentScope{ViewAll: false, ViewOwn: true}},
		{"vendor without profile", domain.Actor{UserID: "u-v", Role: domain.RoleVendor}, PaymentScope{ViewAll: false, ViewOwn: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.CanViewPayments(ctx, tt.actor, "w-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanViewPayments_VendorNeverGetsViewAll(t *testing.T) {
	// Even a stored policy that grants payment.view_all to vendors is
	// clamped; only the own-payments axis honors the override.
	store := newFakePolicyStore()
	store.policies["w-1"] = &Policy{
		WeddingID: "w-1",
		Overrides: Matrix{domain.RoleVendor: {CapPaymentViewAll: true}},
	}
	engine := newTestEngine(t, store)

	vendor := domain.Actor{UserID: "u-v", Role: domain.RoleVendor, VendorProfileID: strPtr("vp-1")}
	got, err := engine.CanViewPayments(context.Background(), vendor, "w-1")
	require.NoError(t, err)
	assert.Equal(t, PaymentScope{ViewAll: false, ViewOwn: true}, got)

	// The same override applied to a non-vendor role works normally.
	store.policies["w-1"].Overrides[domain.RoleFamilyHelper] = Grants{CapPaymentViewAll: true}
	scope, err := engine.CanViewPayments(context.Background(), actorFor(domain.RoleFamilyHelper), "w-1")
	require.NoError(t, err)
	assert.True(t, scope.ViewAll)
}

func TestPaymentCapabilityPassthroughs(t *testing.T) {
	engine := newTestEngine(t, newFakePolicyStore())
	ctx := context.Background()

	ok, err := engine.CanCreatePayments(ctx, actorFor(domain.RolePlanner), "w-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.CanApprovePayments(ctx, actorFor(domain.RolePlanner), "w-1")
	require.NoError(t, err)
	assert.False(t, ok, "planners record payments but do not approve them")

	ok, err = engine.CanApprovePayments(ctx, actorFor(domain.RoleGroom), "w-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.CanManageQuotes(ctx, actorFor(domain.RoleBrideParent), "w-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
