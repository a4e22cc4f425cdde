package permissions

import (
	"fmt"
	"strings"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
)

// TaskFilter is the list-query twin of canViewTask. It is compiled from the
// same bucketAccess rule table and the same resolved grant set, so applying
// it to every task in a wedding yields exactly the set the point check would
// approve one at a time.
//
// The filter has two renderings: Match evaluates it in memory (the
// equivalence tests run this against canViewTask over a generated corpus),
// and SQL renders it as a WHERE fragment for the task list query. Both read
// the same compiled fields; neither re-derives policy.
type TaskFilter struct {
	actorID string

	// couple filters drop every restriction except the block list.
	couple bool

	// buckets the actor's role is admitted to by the rule table.
	buckets []domain.TaskVisibility

	// includePrivate is set when the resolved grants carry
	// task.view_private.
	includePrivate bool

	// vendor clauses: set only for vendor actors.
	vendor          bool
	vendorProfileID *string
}

// BuildTaskFilter compiles the visibility predicate for one actor. grants
// must be the actor's resolved grants for the wedding, the same set a point
// check would consult.
func BuildTaskFilter(actor domain.Actor, grants Grants) TaskFilter {
	f := TaskFilter{actorID: actor.UserID}

	if domain.IsCouple(actor.Role) {
		f.couple = true
		return f
	}

	f.includePrivate = grants.Has(CapTaskViewPrivate)

	if domain.IsVendor(actor.Role) {
		f.vendor = true
		f.vendorProfileID = actor.VendorProfileID
		return f
	}

	f.buckets = bucketsForRole(actor.Role)
	return f
}

// Match evaluates the compiled filter against one task.
func (f TaskFilter) Match(task *domain.Task) bool {
	if task.IsBlocked(f.actorID) {
		return false
	}
	if f.couple {
		return true
	}
	if task.IsAllowed(f.actorID) {
		return true
	}
	if f.includePrivate && task.Visibility == domain.VisibilityPrivate {
		return true
	}
	if f.vendor {
		if !isVendorBucket(task.Visibility) {
			return false
		}
		if f.vendorProfileID != nil && task.VendorID != nil &&
			*task.VendorID == *f.vendorProfileID {
			return true
		}
		return task.VendorUserID != nil && *task.VendorUserID == f.actorID
	}
	for _, b := range f.buckets {
		if task.Visibility == b {
			return true
		}
	}
	return false
}

// SQL renders the filter as a WHERE fragment over the tasks table aliased t,
// appending placeholders to args. The caller owns the surrounding query and
// the wedding_id scoping.
func (f TaskFilter) SQL(args []interface{}) (string, []interface{}) {
	var sb strings.Builder

	args = append(args, f.actorID)
	actorArg := len(args)

	fmt.Fprintf(&sb, `NOT EXISTS (
		SELECT 1 FROM task_blocked_users bu
		WHERE bu.task_id = t.id AND bu.user_id = $%d
	)`, actorArg)

	if f.couple {
		return sb.String(), args
	}

	clauses := []string{fmt.Sprintf(`EXISTS (
		SELECT 1 FROM task_allowed_users au
		WHERE au.task_id = t.id AND au.user_id = $%d
	)`, actorArg)}

	if f.includePrivate {
		args = append(args, string(domain.VisibilityPrivate))
		clauses = append(clauses, fmt.Sprintf("t.visibility = $%d", len(args)))
	}

	if f.vendor {
		vendorLink := fmt.Sprintf(`EXISTS (
			SELECT 1 FROM vendor_profiles vp
			WHERE vp.id = t.vendor_id AND vp.user_id = $%d
		)`, actorArg)
		if f.vendorProfileID != nil {
			args = append(args, *f.vendorProfileID)
			vendorLink = fmt.Sprintf("(t.vendor_id = $%d OR %s)", len(args), vendorLink)
		}
		args = append(args, visibilityStrings(vendorBuckets))
		clauses = append(clauses, fmt.Sprintf(
			"(t.visibility = ANY($%d) AND %s)", len(args), vendorLink))
	} else if len(f.buckets) > 0 {
		args = append(args, visibilityStrings(f.buckets))
		clauses = append(clauses, fmt.Sprintf("t.visibility = ANY($%d)", len(args)))
	}

	sb.WriteString(" AND (")
	sb.WriteString(strings.Join(clauses, " OR "))
	sb.WriteString(")")
	return sb.String(), args
}

func visibilityStrings(buckets []domain.TaskVisibility) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = string(b)
	}
	return out
}
