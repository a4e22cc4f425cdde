package permissions

import "github.com/paradox1612/shaadi-timeline/internal/domain"

// defaultMatrix is the hard-coded capability table. Loaded once, never
// mutated at runtime; per-wedding overrides are merged over it at read time.
//
// The bride and groom rows exist so the settings page can render the full
// table, but HasPermission short-circuits for couple roles before ever
// consulting them.
//
// | Capability          | PLANNER | B_PARENT | G_PARENT | HELPER | VENDOR |
// |---------------------|---------|----------|----------|--------|--------|
// | task.create         | yes     | yes      | yes      | yes    | no     |
// | task.edit_any       | yes     | no       | no       | no     | no     |
// | task.edit_assigned  | yes     | yes      | yes      | yes    | yes    |
// | task.view_private   | no      | no       | no       | no     | no     |
// | task.assign         | yes     | no       | no       | no     | no     |
// | task.comment        | yes     | yes      | yes      | yes    | yes    |
// | vendor.view         | yes     | yes      | yes      | yes    | no     |
// | vendor.manage       | yes     | no       | no       | no     | no     |
// | quote.view          | yes     | yes      | yes      | no     | yes    |
// | quote.manage        | yes     | no       | no       | no     | no     |
// | payment.create      | yes     | no       | no       | no     | no     |
// | payment.approve     | no      | no       | no       | no     | no     |
// | payment.view_all    | yes     | no       | no       | no     | no     |
// | payment.view_own    | yes     | yes      | yes      | no     | yes    |
var defaultMatrix = Matrix{
	domain.RoleBride: {
		CapTaskCreate: true, CapTaskEditAny: true, CapTaskEditAssigned: true,
		CapTaskViewPrivate: true, CapTaskAssign: true, CapTaskComment: true,
		CapVendorView: true, CapVendorManage: true,
		CapQuoteView: true, CapQuoteManage: true,
		CapPaymentCreate: true, CapPaymentApprove: true,
		CapPaymentViewAll: true, CapPaymentViewOwn: true,
	},
	domain.RoleGroom: {
		CapTaskCreate: true, CapTaskEditAny: true, CapTaskEditAssigned: true,
		CapTaskViewPrivate: true, CapTaskAssign: true, CapTaskComment: true,
		CapVendorView: true, CapVendorManage: true,
		CapQuoteView: true, CapQuoteManage: true,
		CapPaymentCreate: true, CapPaymentApprove: true,
		CapPaymentViewAll: true, CapPaymentViewOwn: true,
	},
	domain.RolePlanner: {
		CapTaskCreate: true, CapTaskEditAny: true, CapTaskEditAssigned: true,
		CapTaskViewPrivate: false, // cannot see PRIVATE tasks unless overridden
		CapTaskAssign: true, CapTaskComment: true,
		CapVendorView: true, CapVendorManage: true,
		CapQuoteView: true, CapQuoteManage: true,
		CapPaymentCreate: true,
		CapPaymentApprove: false, // the couple signs off on payments
		CapPaymentViewAll: true, CapPaymentViewOwn: true,
	},
	domain.RoleBrideParent: {
		CapTaskCreate: true, CapTaskEditAny: false, CapTaskEditAssigned: true,
		CapTaskViewPrivate: false, CapTaskAssign: false, CapTaskComment: true,
		CapVendorView: true, CapVendorManage: false,
		CapQuoteView: true, CapQuoteManage: false,
		CapPaymentCreate: false, CapPaymentApprove: false,
		CapPaymentViewAll: false, CapPaymentViewOwn: true,
	},
	domain.RoleGroomParent: {
		CapTaskCreate: true, CapTaskEditAny: false, CapTaskEditAssigned: true,
		CapTaskViewPrivate: false, CapTaskAssign: false, CapTaskComment: true,
		CapVendorView: true, CapVendorManage: false,
		CapQuoteView: true, CapQuoteManage: false,
		CapPaymentCreate: false, CapPaymentApprove: false,
		CapPaymentViewAll: false, CapPaymentViewOwn: true,
	},
	domain.RoleFamilyHelper: {
		CapTaskCreate: true, CapTaskEditAny: false, CapTaskEditAssigned: true,
		CapTaskViewPrivate: false, CapTaskAssign: false, CapTaskComment: true,
		CapVendorView: true, CapVendorManage: false,
		CapQuoteView: false, CapQuoteManage: false,
		CapPaymentCreate: false, CapPaymentApprove: false,
		CapPaymentViewAll: false, CapPaymentViewOwn: false,
	},
	domain.RoleVendor: {
		CapTaskCreate: false, CapTaskEditAny: false, CapTaskEditAssigned: true,
		CapTaskViewPrivate: false, CapTaskAssign: false, CapTaskComment: true,
		CapVendorView: false, // vendors only see their own profile
		CapVendorManage: false,
		CapQuoteView:    true, // scoped to their own quotes by the service
		CapQuoteManage:  false,
		CapPaymentCreate: false, CapPaymentApprove: false,
		CapPaymentViewAll: false, CapPaymentViewOwn: true,
	},
}

// Defaults returns a copy of the default capability table.
func Defaults() Matrix {
	return Merge(nil)
}

// DefaultGrants returns a copy of the default grants for one role.
func DefaultGrants(role domain.Role) Grants {
	defaults := defaultMatrix[role]
	grants := make(Grants, len(defaults))
	for c, allowed := range defaults {
		grants[c] = allowed
	}
	return grants
}
