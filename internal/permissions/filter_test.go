package permissions

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
)

// equivalenceCorpus generates tasks spanning every visibility value (plus an
// unknown one), every allow/block membership combination for actorID, and
// both matching and non-matching vendor links.
func equivalenceCorpus(actorID string) []*domain.Task {
	visibilities := []domain.TaskVisibility{
		domain.VisibilityPrivate, domain.VisibilityInternalTeam,
		domain.VisibilityParents, domain.VisibilityVendors,
		domain.VisibilityEveryoneInternal,
		domain.TaskVisibility("LEGACY_VALUE"),
	}
	vendorLinks := []struct {
		vendorID     *string
		vendorUserID *string
	}{
		{nil, nil},
		{strPtr("vendor-1"), nil},
		{strPtr("vendor-2"), nil},
		{strPtr("vendor-2"), strPtr(actorID)},
	}

	var corpus []*domain.Task
	i := 0
	for _, v := range visibilities {
		for _, link := range vendorLinks {
			for _, allowed := range []bool{false, true} {
				for _, blocked := range []bool{false, true} {
					i++
					task := &domain.Task{
						ID:              fmt.Sprintf("task-%03d", i),
						WeddingID:       "wed-1",
						Title:           "corpus task",
						Visibility:      v,
						Status:          domain.TaskStatusTodo,
						CreatedByUserID: "user-bride",
						VendorID:        link.vendorID,
						VendorUserID:    link.vendorUserID,
					}
					if allowed {
						task.AllowedUserIDs = []string{actorID}
					}
					if blocked {
						task.BlockedUserIDs = []string{actorID}
					}
					corpus = append(corpus, task)
				}
			}
		}
	}
	return corpus
}

// TestFilterMatchesPointCheck is the invariant the engine lives or dies by:
// for every task and every actor, the compiled list filter admits exactly
// the tasks the point check approves.
func TestFilterMatchesPointCheck(t *testing.T) {
	grantVariants := map[string]func(domain.Role) Grants{
		"defaults": DefaultGrants,
		"view_private_granted": func(r domain.Role) Grants {
			g := DefaultGrants(r)
			g[CapTaskViewPrivate] = true
			return g
		},
		"view_private_revoked": func(r domain.Role) Grants {
			g := DefaultGrants(r)
			g[CapTaskViewPrivate] = false
			return g
		},
		"empty_grants": func(domain.Role) Grants { return Grants{} },
	}

	actors := []domain.Actor{}
	for _, role := range domain.AllRoles() {
		if role == domain.RoleVendor {
			continue
		}
		actors = append(actors, domain.Actor{UserID: "actor-1", Role: role})
	}
	actors = append(actors,
		domain.Actor{UserID: "actor-1", Role: domain.RoleVendor, VendorProfileID: strPtr("vendor-1")},
		domain.Actor{UserID: "actor-1", Role: domain.RoleVendor, VendorProfileID: strPtr("vendor-9")},
		domain.Actor{UserID: "actor-1", Role: domain.RoleVendor}, // no profile
	)

	corpus := equivalenceCorpus("actor-1")
	require.NotEmpty(t, corpus)

	for variant, grantsFn := range grantVariants {
		for _, actor := range actors {
			grants := grantsFn(actor.Role)
			filter := BuildTaskFilter(actor, grants)

			for _, task := range corpus {
				want := canViewTask(task, actor, grants)
				got := filter.Match(task)
				assert.Equal(t, want, got,
					"divergence: grants=%s role=%s profile=%v task=%s vis=%s allowed=%v blocked=%v vendor=%v",
					variant, actor.Role, actor.VendorProfileID, task.ID,
					task.Visibility, task.AllowedUserIDs, task.BlockedUserIDs, task.VendorID)
			}
		}
	}
}

func TestBuildTaskFilter_CoupleOnlyExcludesBlocked(t *testing.T) {
	bride := domain.Actor{UserID: "u-bride", Role: domain.RoleBride}
	filter := BuildTaskFilter(bride, DefaultGrants(domain.RoleBride))

	open := baseTask(domain.VisibilityPrivate)
	assert.True(t, filter.Match(open))

	blocked := baseTask(domain.VisibilityEveryoneInternal)
	blocked.BlockedUserIDs = []string{"u-bride"}
	assert.False(t, filter.Match(blocked))
}

func TestTaskFilter_SQLRendering(t *testing.T) {
	t.Run("couple renders only the block exclusion", func(t *testing.T) {
		f := BuildTaskFilter(domain.Actor{UserID: "u1", Role: domain.RoleGroom}, nil)
		sql, args := f.SQL(nil)

		assert.Contains(t, sql, "task_blocked_users")
		assert.NotContains(t, sql, "task_allowed_users")
		assert.Equal(t, []interface{}{"u1"}, args)
	})

	t.Run("planner renders buckets and allow clause", func(t *testing.T) {
		f := BuildTaskFilter(actorFor(domain.RolePlanner), DefaultGrants(domain.RolePlanner))
		sql, args := f.SQL([]interface{}{"wed-1"})

		assert.Contains(t, sql, "task_blocked_users")
		assert.Contains(t, sql, "task_allowed_users")
		assert.Contains(t, sql, "t.visibility = ANY")
		require.Len(t, args, 3) // wedding id, actor id, bucket array
		assert.ElementsMatch(t,
			[]string{"INTERNAL_TEAM", "PARENTS", "VENDORS", "EVERYONE_INTERNAL"},
			args[2].([]string))
	})

	t.Run("planner with view_private adds the private disjunct", func(t *testing.T) {
		grants := DefaultGrants(domain.RolePlanner)
		grants[CapTaskViewPrivate] = true
		f := BuildTaskFilter(actorFor(domain.RolePlanner), grants)
		sql, args := f.SQL(nil)

		assert.Contains(t, sql, "t.visibility = $")
		assert.Contains(t, args, "PRIVATE")
	})

	t.Run("vendor renders linkage clauses", func(t *testing.T) {
		vendor := domain.Actor{UserID: "u-v", Role: domain.RoleVendor, VendorProfileID: strPtr("vendor-1")}
		f := BuildTaskFilter(vendor, DefaultGrants(domain.RoleVendor))
		sql, args := f.SQL(nil)

		assert.Contains(t, sql, "t.vendor_id = $")
		assert.Contains(t, sql, "vendor_profiles")
		assert.Contains(t, args, "vendor-1")

		var arr []string
		for _, a := range args {
			if v, ok := a.([]string); ok {
				arr = v
			}
		}
		assert.ElementsMatch(t, []string{"VENDORS", "EVERYONE_INTERNAL"}, arr)
	})

	t.Run("placeholders are numbered after existing args", func(t *testing.T) {
		f := BuildTaskFilter(actorFor(domain.RoleFamilyHelper), DefaultGrants(domain.RoleFamilyHelper))
		sql, args := f.SQL([]interface{}{"wed-1", 50})

		assert.Equal(t, "wed-1", args[0])
		assert.Contains(t, sql, "$3") // actor id lands after the two existing args
		assert.False(t, strings.Contains(sql, "$1 "), "must not collide with caller placeholders")
	})
}
