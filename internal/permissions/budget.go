package permissions

import (
	"context"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
)

// PaymentScope is the two-axis answer to "which payments may this actor
// see": the whole ledger, or only rows tied to them.
type PaymentScope struct {
	ViewAll bool `json:"viewAll"`
	ViewOwn bool `json:"viewOwn"`
}

// CanViewQuotes decides quote read access. A vendor actor with a linked
// profile always passes; the service scopes their results to their own
// vendorId, so this is an own-quotes grant, not a ledger grant.
func (e *Engine) CanViewQuotes(ctx context.Context, actor domain.Actor, weddingID string) (bool, error) {
	if domain.IsVendor(actor.Role) && actor.HasVendorProfile() {
		return true, nil
	}
	return e.HasPermission(ctx, actor.UserID, actor.Role, weddingID, CapQuoteView)
}

// CanManageQuotes is a direct capability passthrough.
func (e *Engine) CanManageQuotes(ctx context.Context, actor domain.Actor, weddingID string) (bool, error) {
	return e.HasPermission(ctx, actor.UserID, actor.Role, weddingID, CapQuoteManage)
}

// CanViewPayments resolves the payment scope from the two view capabilities.
// Vendor actors are forced off ViewAll no matter what the stored policy
// says: a misconfigured view_all override must never expose the global
// ledger to a vendor.
func (e *Engine) CanViewPayments(ctx context.Context, actor domain.Actor, weddingID string) (PaymentScope, error) {
	viewAll, err := e.HasPermission(ctx, actor.UserID, actor.Role, weddingID, CapPaymentViewAll)
	if err != nil {
		return PaymentScope{}, err
	}
	viewOwn, err := e.HasPermission(ctx, actor.UserID, actor.Role, weddingID, CapPaymentViewOwn)
	if err != nil {
		return PaymentScope{}, err
	}

	if domain.IsVendor(actor.Role) {
		return PaymentScope{ViewAll: false, ViewOwn: viewOwn && actor.HasVendorProfile()}, nil
	}
	return PaymentScope{ViewAll: viewAll, ViewOwn: viewOwn}, nil
}

// CanCreatePayments is a direct capability passthrough.
func (e *Engine) CanCreatePayments(ctx context.Context, actor domain.Actor, weddingID string) (bool, error) {
	return e.HasPermission(ctx, actor.UserID, actor.Role, weddingID, CapPaymentCreate)
}

// CanApprovePayments is a direct capability passthrough.
func (e *Engine) CanApprovePayments(ctx context.Context, actor domain.Actor, weddingID string) (bool, error) {
	return e.HasPermission(ctx, actor.UserID, actor.Role, weddingID, CapPaymentApprove)
}
