package permissions

// Capability is a named permission toggle, independent of any single record.
// The set is closed at compile time: use the constants, never raw strings.
type Capability string

const (
	CapTaskCreate       Capability = "task.create"
	CapTaskEditAny      Capability = "task.edit_any"
	CapTaskEditAssigned Capability = "task.edit_assigned"
	CapTaskViewPrivate  Capability = "task.view_private"
	CapTaskAssign       Capability = "task.assign"
	CapTaskComment      Capability = "task.comment"

	CapVendorView   Capability = "vendor.view"
	CapVendorManage Capability = "vendor.manage"

	CapQuoteView   Capability = "quote.view"
	CapQuoteManage Capability = "quote.manage"

	CapPaymentCreate  Capability = "payment.create"
	CapPaymentApprove Capability = "payment.approve"
	CapPaymentViewAll Capability = "payment.view_all"
	CapPaymentViewOwn Capability = "payment.view_own"
)

// AllCapabilities lists every defined capability, grouped by domain.
func AllCapabilities() []Capability {
	return []Capability{
		CapTaskCreate, CapTaskEditAny, CapTaskEditAssigned, CapTaskViewPrivate,
		CapTaskAssign, CapTaskComment,
		CapVendorView, CapVendorManage,
		CapQuoteView, CapQuoteManage,
		CapPaymentCreate, CapPaymentApprove, CapPaymentViewAll, CapPaymentViewOwn,
	}
}

// IsValid checks if the capability is one of the defined constants. Used when
// validating stored policy overrides, which arrive as raw JSON.
func (c Capability) IsValid() bool {
	switch c {
	case CapTaskCreate, CapTaskEditAny, CapTaskEditAssigned, CapTaskViewPrivate,
		CapTaskAssign, CapTaskComment,
		CapVendorView, CapVendorManage,
		CapQuoteView, CapQuoteManage,
		CapPaymentCreate, CapPaymentApprove, CapPaymentViewAll, CapPaymentViewOwn:
		return true
	}
	return false
}

// String returns the string representation of the Capability.
func (c Capability) String() string {
	return string(c)
}
