package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
)

func TestMerge_NilOverridesEqualsDefaults(t *testing.T) {
	merged := Merge(nil)

	for role, defaults := range defaultMatrix {
		require.Contains(t, merged, role)
		assert.Equal(t, defaults, merged[role])
	}
}

func TestMerge_PerCapabilityNotWholesale(t *testing.T) {
	// Overriding a single PLANNER capability must leave every other
	// PLANNER default untouched.
	merged := Merge(Matrix{
		domain.RolePlanner: {CapTaskAssign: false},
	})

	planner := merged[domain.RolePlanner]
	assert.False(t, planner.Has(CapTaskAssign))

	for c, want := range defaultMatrix[domain.RolePlanner] {
		if c == CapTaskAssign {
			continue
		}
		assert.Equal(t, want, planner.Has(c), "capability %s drifted", c)
	}

	// Untouched roles equal their defaults exactly.
	assert.Equal(t, defaultMatrix[domain.RoleVendor], merged[domain.RoleVendor])
}

func TestMerge_OverrideWinsBothWays(t *testing.T) {
	merged := Merge(Matrix{
		domain.RolePlanner:      {CapTaskViewPrivate: true}, // default false
		domain.RoleFamilyHelper: {CapTaskCreate: false},     // default true
	})

	assert.True(t, merged[domain.RolePlanner].Has(CapTaskViewPrivate))
	assert.False(t, merged[domain.RoleFamilyHelper].Has(CapTaskCreate))
}

func TestMerge_DoesNotMutateDefaults(t *testing.T) {
	merged := Merge(Matrix{domain.RolePlanner: {CapTaskViewPrivate: true}})
	merged[domain.RolePlanner][CapTaskEditAny] = false
	merged[domain.RoleVendor][CapQuoteView] = false

	assert.True(t, defaultMatrix[domain.RolePlanner].Has(CapTaskEditAny))
	assert.True(t, defaultMatrix[domain.RoleVendor].Has(CapQuoteView))
	assert.False(t, defaultMatrix[domain.RolePlanner].Has(CapTaskViewPrivate))
}

func TestMerge_SkipsUnknownStoredCapability(t *testing.T) {
	// Stored policies may carry keys from an older schema; the read-time
	// merge drops them instead of crashing.
	merged := Merge(Matrix{
		domain.RolePlanner: {
			Capability("tasks.view_private"): true, // legacy plural key
			CapTaskViewPrivate:               true,
		},
	})

	grants := merged[domain.RolePlanner]
	assert.True(t, grants.Has(CapTaskViewPrivate))
	_, stored := grants[Capability("tasks.view_private")]
	assert.False(t, stored)
}

func TestGrants_MissingKeyIsFalse(t *testing.T) {
	g := Grants{}
	assert.False(t, g.Has(CapTaskEditAny))
}

func TestValidateOverrides(t *testing.T) {
	assert.NoError(t, ValidateOverrides(nil))
	assert.NoError(t, ValidateOverrides(Matrix{
		domain.RolePlanner: {CapTaskAssign: false},
	}))

	err := ValidateOverrides(Matrix{domain.Role("INTERN"): {CapTaskAssign: true}})
	var roleErr *UnknownRoleError
	require.ErrorAs(t, err, &roleErr)
	assert.Equal(t, domain.Role("INTERN"), roleErr.Role)

	err = ValidateOverrides(Matrix{
		domain.RolePlanner: {Capability("task.delete_any"): true},
	})
	var capErr *UnknownCapabilityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, Capability("task.delete_any"), capErr.Capability)
}

func TestDefaults_EveryRoleCoversEveryCapability(t *testing.T) {
	// The table must carry an explicit value for every (role, capability)
	// pair; absence-means-false is for stored overrides, not defaults.
	for _, role := range domain.AllRoles() {
		grants := DefaultGrants(role)
		for _, c := range AllCapabilities() {
			_, ok := grants[c]
			assert.True(t, ok, "role %s missing default for %s", role, c)
		}
	}
}

func TestDefaults_CoupleRowsAllTrue(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleBride, domain.RoleGroom} {
		for _, c := range AllCapabilities() {
			assert.True(t, DefaultGrants(role).Has(c))
		}
	}
}
