package permissions

import (
	"time"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
)

// Grants maps capabilities to booleans for one role. A missing key means
// false; the merge never invents keys the defaults don't carry.
type Grants map[Capability]bool

// Has reports whether the capability is granted. Missing entries are false,
// the fail-closed default for the whole engine.
func (g Grants) Has(c Capability) bool {
	return g[c]
}

// Matrix maps roles to their grants.
type Matrix map[domain.Role]Grants

// Policy is the per-wedding override record. At most one exists per wedding;
// Overrides is a partial matrix merged over the defaults at read time.
type Policy struct {
	WeddingID string    `json:"weddingId"`
	Overrides Matrix    `json:"overrides"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Merge computes the effective matrix: per-capability override on top of the
// defaults, never per-role wholesale replacement. A wedding that overrides
// only task.assign for PLANNER still sees every other PLANNER default.
//
// overrides may be nil (no policy stored), in which case the result equals
// the default table exactly. The returned matrix is a fresh copy; mutating it
// never touches the defaults.
func Merge(overrides Matrix) Matrix {
	merged := make(Matrix, len(defaultMatrix))
	for role, defaults := range defaultMatrix {
		grants := make(Grants, len(defaults))
		for c, allowed := range defaults {
			grants[c] = allowed
		}
		for c, allowed := range overrides[role] {
			if !c.IsValid() {
				// Stored JSON may predate a capability rename; skip
				// rather than crash.
				continue
			}
			grants[c] = allowed
		}
		merged[role] = grants
	}
	return merged
}

// ValidateOverrides rejects roles and capabilities outside the closed sets.
// Called on the write path so bad overrides never reach storage.
func ValidateOverrides(overrides Matrix) error {
	for role, grants := range overrides {
		if !role.IsValid() {
			return &UnknownRoleError{Role: role}
		}
		for c := range grants {
			if !c.IsValid() {
				return &UnknownCapabilityError{Capability: c}
			}
		}
	}
	return nil
}

// UnknownRoleError reports an override for a role outside the closed enum.
type UnknownRoleError struct {
	Role domain.Role
}

func (e *UnknownRoleError) Error() string {
	return "permissions: unknown role " + string(e.Role)
}

// UnknownCapabilityError reports an override for an undefined capability.
type UnknownCapabilityError struct {
	Capability Capability
}

func (e *UnknownCapabilityError) Error() string {
	return "permissions: unknown capability " + string(e.Capability)
}
