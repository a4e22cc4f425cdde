package permissions

import "github.com/paradox1612/shaadi-timeline/internal/domain"

// bucketAccess is the single rule table behind both the point check and the
// list filter: for each visibility bucket, the non-couple, non-vendor roles
// the bucket admits. CanViewTask interprets it row by row; BuildTaskFilter
// compiles it into a predicate. Any change here changes both paths at once,
// which is the whole point.
//
// PRIVATE is absent: it is governed by task.view_private and the allow list,
// not by role. Vendor access to VENDORS/EVERYONE_INTERNAL is governed by the
// vendor linkage, handled separately in both interpreters.
var bucketAccess = map[domain.TaskVisibility][]domain.Role{
	domain.VisibilityInternalTeam: {domain.RolePlanner},
	domain.VisibilityParents: {
		domain.RolePlanner, domain.RoleBrideParent, domain.RoleGroomParent,
	},
	domain.VisibilityVendors: {domain.RolePlanner},
	domain.VisibilityEveryoneInternal: {
		domain.RolePlanner, domain.RoleBrideParent, domain.RoleGroomParent,
		domain.RoleFamilyHelper,
	},
}

// vendorBuckets are the visibility values a linked vendor may see at all.
var vendorBuckets = []domain.TaskVisibility{
	domain.VisibilityVendors, domain.VisibilityEveryoneInternal,
}

func bucketAdmits(v domain.TaskVisibility, role domain.Role) bool {
	for _, r := range bucketAccess[v] {
		if r == role {
			return true
		}
	}
	return false
}

// bucketsForRole collects every visibility value the rule table grants the
// role. Used by the filter compiler.
func bucketsForRole(role domain.Role) []domain.TaskVisibility {
	var out []domain.TaskVisibility
	// Fixed iteration order so the compiled SQL is stable.
	for _, v := range []domain.TaskVisibility{
		domain.VisibilityInternalTeam, domain.VisibilityParents,
		domain.VisibilityVendors, domain.VisibilityEveryoneInternal,
	} {
		if bucketAdmits(v, role) {
			out = append(out, v)
		}
	}
	return out
}

func isVendorBucket(v domain.TaskVisibility) bool {
	for _, b := range vendorBuckets {
		if b == v {
			return true
		}
	}
	return false
}

// canViewTask is the point check, pure over an already-resolved grant set.
// The precedence order is load-bearing; reordering these steps changes
// behavior:
//
//  1. explicit block denies, full stop
//  2. couple roles see everything else
//  3. PRIVATE: explicit allow or task.view_private
//  4. vendor actors: vendor linkage on the vendor buckets, explicit allow
//     elsewhere
//  5. remaining roles: the bucket rule table
//  6. unknown visibility: explicit allow only (fail closed)
//
// Note the couple is NOT exempt from step 1: a bride in a task's block list
// does not see it. Kept intentionally, it doubles as a "mute a co-planner"
// switch; see the tests pinning this behavior.
func canViewTask(task *domain.Task, actor domain.Actor, grants Grants) bool {
	if task.IsBlocked(actor.UserID) {
		return false
	}

	if domain.IsCouple(actor.Role) {
		return true
	}

	explicitlyAllowed := task.IsAllowed(actor.UserID)

	if task.Visibility == domain.VisibilityPrivate {
		return explicitlyAllowed || grants.Has(CapTaskViewPrivate)
	}

	if domain.IsVendor(actor.Role) {
		if !isVendorBucket(task.Visibility) {
			return explicitlyAllowed
		}
		return vendorLinked(task, actor) || explicitlyAllowed
	}

	if !task.Visibility.IsValid() {
		return explicitlyAllowed
	}
	return explicitlyAllowed || bucketAdmits(task.Visibility, actor.Role)
}

// vendorLinked reports whether the task points at the acting vendor, either
// through the vendor profile id or through the profile's login account.
func vendorLinked(task *domain.Task, actor domain.Actor) bool {
	if actor.VendorProfileID != nil && task.VendorID != nil &&
		*task.VendorID == *actor.VendorProfileID {
		return true
	}
	return task.VendorUserID != nil && *task.VendorUserID == actor.UserID
}

// canEditTask requires view first, then task.edit_any, then the narrower
// task.edit_assigned path for assignees, watchers and the linked vendor.
func canEditTask(task *domain.Task, actor domain.Actor, grants Grants) bool {
	if !canViewTask(task, actor, grants) {
		return false
	}

	if domain.IsCouple(actor.Role) || grants.Has(CapTaskEditAny) {
		return true
	}

	if !grants.Has(CapTaskEditAssigned) {
		return false
	}

	if task.AssignedToUserID != nil && *task.AssignedToUserID == actor.UserID {
		return true
	}
	if task.IsWatcher(actor.UserID) {
		return true
	}
	if domain.IsVendor(actor.Role) && actor.VendorProfileID != nil &&
		task.VendorID != nil && *task.VendorID == *actor.VendorProfileID {
		return true
	}
	return false
}

// canCommentOnTask requires view plus task.comment.
func canCommentOnTask(task *domain.Task, actor domain.Actor, grants Grants) bool {
	if !canViewTask(task, actor, grants) {
		return false
	}
	return domain.IsCouple(actor.Role) || grants.Has(CapTaskComment)
}
