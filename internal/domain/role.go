package domain

// =====================================================
// Wedding Role Constants (Type Safety)
// =====================================================

// Role represents a wedding member role (native PostgreSQL ENUM).
// Schema: public."UserRole" - UPPERCASE values.
type Role string

const (
	// RoleBride and RoleGroom are the couple roles; they bypass the
	// capability matrix entirely.
	RoleBride Role = "BRIDE"
	RoleGroom Role = "GROOM"

	// RolePlanner is the hired wedding planner.
	RolePlanner Role = "PLANNER"

	// RoleBrideParent and RoleGroomParent are the two parent roles.
	RoleBrideParent Role = "BRIDE_PARENT"
	RoleGroomParent Role = "GROOM_PARENT"

	// RoleFamilyHelper is a family member helping with errands.
	RoleFamilyHelper Role = "FAMILY_HELPER"

	// RoleVendor is an external vendor with a linked vendor profile.
	RoleVendor Role = "VENDOR"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the defined constants.
func (r Role) IsValid() bool {
	switch r {
	case RoleBride, RoleGroom, RolePlanner, RoleBrideParent, RoleGroomParent,
		RoleFamilyHelper, RoleVendor:
		return true
	default:
		return false
	}
}

// AllRoles lists every defined role, table order.
func AllRoles() []Role {
	return []Role{
		RoleBride, RoleGroom, RolePlanner, RoleBrideParent, RoleGroomParent,
		RoleFamilyHelper, RoleVendor,
	}
}

// =====================================================
// Role Classifier
// =====================================================
// Pure predicates over a role tag. Every permission decision in
// internal/permissions starts from one of these.

// IsCouple reports whether the role is bride or groom.
func IsCouple(r Role) bool {
	return r == RoleBride || r == RoleGroom
}

// IsInternalTeam reports whether the role belongs to the core planning team.
func IsInternalTeam(r Role) bool {
	return IsCouple(r) || r == RolePlanner
}

// IsParent reports whether the role is one of the two parent roles.
func IsParent(r Role) bool {
	return r == RoleBrideParent || r == RoleGroomParent
}

// IsFamilyHelper reports whether the role is the family helper role.
func IsFamilyHelper(r Role) bool {
	return r == RoleFamilyHelper
}

// IsVendor reports whether the role is the vendor role.
func IsVendor(r Role) bool {
	return r == RoleVendor
}

// IsDashboardRole reports whether the role lands on the main dashboard
// rather than the vendor dashboard.
func IsDashboardRole(r Role) bool {
	switch r {
	case RoleBride, RoleGroom, RolePlanner, RoleBrideParent, RoleGroomParent,
		RoleFamilyHelper:
		return true
	default:
		return false
	}
}

// CanAdjustTimeline reports whether the role may mutate a day's schedule.
// The timeline shift routine consumes this as its only precondition; it does
// not go through the task visibility procedure.
func CanAdjustTimeline(r Role) bool {
	return IsCouple(r) || r == RolePlanner
}
