package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
)

func strPtr(s string) *string { return &s }

func baseTask(v domain.TaskVisibility) *domain.Task {
	return &domain.Task{
		ID:              "task-1",
		WeddingID:       "wed-1",
		Title:           "Book the caterer",
		Visibility:      v,
		Status:          domain.TaskStatusTodo,
		CreatedByUserID: "user-bride",
	}
}

func actorFor(role domain.Role) domain.Actor {
	a := domain.Actor{UserID: "user-" + string(role), Role: role}
	if role == domain.RoleVendor {
		a.VendorProfileID = strPtr("vendor-1")
	}
	return a
}

func TestCanViewTask_BlockListDominates(t *testing.T) {
	// A user in both lists is denied: block wins over allow, over couple
	// bypass, over everything.
	for _, role := range domain.AllRoles() {
		actor := actorFor(role)
		task := baseTask(domain.VisibilityEveryoneInternal)
		task.AllowedUserIDs = []string{actor.UserID}
		task.BlockedUserIDs = []string{actor.UserID}

		assert.False(t, canViewTask(task, actor, DefaultGrants(role)),
			"role %s should be denied when blocked", role)
	}
}

func TestCanViewTask_CoupleBypass(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleBride, domain.RoleGroom} {
		actor := actorFor(role)
		for _, v := range []domain.TaskVisibility{
			domain.VisibilityPrivate, domain.VisibilityInternalTeam,
			domain.VisibilityParents, domain.VisibilityVendors,
			domain.VisibilityEveryoneInternal,
		} {
			assert.True(t, canViewTask(baseTask(v), actor, DefaultGrants(role)),
				"%s should see %s tasks", role, v)
		}

		// The documented asymmetry: the couple is not exempt from an
		// explicit block.
		blocked := baseTask(domain.VisibilityEveryoneInternal)
		blocked.BlockedUserIDs = []string{actor.UserID}
		assert.False(t, canViewTask(blocked, actor, DefaultGrants(role)))
	}
}

func TestCanViewTask_PrivateBucket(t *testing.T) {
	task := baseTask(domain.VisibilityPrivate)
	planner := actorFor(domain.RolePlanner)

	// Default: planner cannot see PRIVATE.
	assert.False(t, canViewTask(task, planner, DefaultGrants(domain.RolePlanner)))

	// Explicit allow opens it without any capability.
	allowed := baseTask(domain.VisibilityPrivate)
	allowed.AllowedUserIDs = []string{planner.UserID}
	assert.False(t, canViewTask(task, planner, DefaultGrants(domain.RolePlanner)))
	assert.True(t, canViewTask(allowed, planner, DefaultGrants(domain.RolePlanner)))

	// So does a view_private override.
	grants := DefaultGrants(domain.RolePlanner)
	grants[CapTaskViewPrivate] = true
	assert.True(t, canViewTask(task, planner, grants))
}

func TestCanViewTask_VendorScoping(t *testing.T) {
	task := baseTask(domain.VisibilityVendors)
	task.VendorID = strPtr("vendor-1")

	matching := domain.Actor{UserID: "u-v", Role: domain.RoleVendor, VendorProfileID: strPtr("vendor-1")}
	other := domain.Actor{UserID: "u-v", Role: domain.RoleVendor, VendorProfileID: strPtr("vendor-2")}
	grants := DefaultGrants(domain.RoleVendor)

	assert.True(t, canViewTask(task, matching, grants))
	assert.False(t, canViewTask(task, other, grants))

	// The profile's login account counts as a link even without a
	// matching profile id.
	task.VendorUserID = strPtr("u-v")
	assert.True(t, canViewTask(task, other, grants))
	task.VendorUserID = nil

	// Outside the vendor buckets only an explicit allow helps.
	team := baseTask(domain.VisibilityInternalTeam)
	team.VendorID = strPtr("vendor-1")
	assert.False(t, canViewTask(team, matching, grants))
	team.AllowedUserIDs = []string{"u-v"}
	assert.True(t, canViewTask(team, matching, grants))

	// EVERYONE_INTERNAL behaves like VENDORS for linkage.
	everyone := baseTask(domain.VisibilityEveryoneInternal)
	everyone.VendorID = strPtr("vendor-1")
	assert.True(t, canViewTask(everyone, matching, grants))
	assert.False(t, canViewTask(everyone, other, grants))
}

func TestCanViewTask_BucketRules(t *testing.T) {
	tests := []struct {
		visibility domain.TaskVisibility
		role       domain.Role
		want       bool
	}{
		{domain.VisibilityInternalTeam, domain.RolePlanner, true},
		{domain.VisibilityInternalTeam, domain.RoleBrideParent, false},
		{domain.VisibilityInternalTeam, domain.RoleFamilyHelper, false},
		{domain.VisibilityParents, domain.RolePlanner, true},
		{domain.VisibilityParents, domain.RoleBrideParent, true},
		{domain.VisibilityParents, domain.RoleGroomParent, true},
		{domain.VisibilityParents, domain.RoleFamilyHelper, false},
		{domain.VisibilityVendors, domain.RolePlanner, true},
		{domain.VisibilityVendors, domain.RoleGroomParent, false},
		{domain.VisibilityEveryoneInternal, domain.RolePlanner, true},
		{domain.VisibilityEveryoneInternal, domain.RoleBrideParent, true},
		{domain.VisibilityEveryoneInternal, domain.RoleGroomParent, true},
		{domain.VisibilityEveryoneInternal, domain.RoleFamilyHelper, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.visibility)+"/"+string(tt.role), func(t *testing.T) {
			actor := actorFor(tt.role)
			got := canViewTask(baseTask(tt.visibility), actor, DefaultGrants(tt.role))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanViewTask_UnknownVisibilityFailsClosed(t *testing.T) {
	task := baseTask(domain.TaskVisibility("LEGACY_VALUE"))
	helper := actorFor(domain.RoleFamilyHelper)

	assert.False(t, canViewTask(task, helper, DefaultGrants(domain.RoleFamilyHelper)))

	task.AllowedUserIDs = []string{helper.UserID}
	assert.True(t, canViewTask(task, helper, DefaultGrants(domain.RoleFamilyHelper)))
}

func TestCanEditTask_ImpliesView(t *testing.T) {
	// Every (task, actor, grants) combination that can edit must also be
	// able to view.
	for _, task := range equivalenceCorpus("user-PLANNER") {
		for _, role := range domain.AllRoles() {
			actor := actorFor(role)
			grants := DefaultGrants(role)
			if canEditTask(task, actor, grants) {
				assert.True(t, canViewTask(task, actor, grants),
					"edit without view: role=%s task=%s vis=%s", role, task.ID, task.Visibility)
			}
		}
	}
}

func TestCanEditTask_AssignedPath(t *testing.T) {
	helper := actorFor(domain.RoleFamilyHelper)
	grants := DefaultGrants(domain.RoleFamilyHelper) // edit_assigned, not edit_any

	task := baseTask(domain.VisibilityEveryoneInternal)
	assert.False(t, canEditTask(task, helper, grants), "not assigned, not a watcher")

	task.AssignedToUserID = strPtr(helper.UserID)
	assert.True(t, canEditTask(task, helper, grants))

	task.AssignedToUserID = nil
	task.WatcherUserIDs = []string{helper.UserID}
	assert.True(t, canEditTask(task, helper, grants), "watchers get assignment parity")

	// Without edit_assigned even the assignee is denied.
	bare := Grants{}
	task.AssignedToUserID = strPtr(helper.UserID)
	assert.False(t, canEditTask(task, helper, bare))
}

func TestCanEditTask_EditAnyAndVendor(t *testing.T) {
	planner := actorFor(domain.RolePlanner)
	task := baseTask(domain.VisibilityEveryoneInternal)
	assert.True(t, canEditTask(task, planner, DefaultGrants(domain.RolePlanner)),
		"planner has edit_any by default")

	vendor := domain.Actor{UserID: "u-v", Role: domain.RoleVendor, VendorProfileID: strPtr("vendor-1")}
	vtask := baseTask(domain.VisibilityVendors)
	vtask.VendorID = strPtr("vendor-1")
	assert.True(t, canEditTask(vtask, vendor, DefaultGrants(domain.RoleVendor)),
		"linked vendor edits through edit_assigned")

	vtask.VendorID = strPtr("vendor-9")
	assert.False(t, canEditTask(vtask, vendor, DefaultGrants(domain.RoleVendor)))
}

func TestCanCommentOnTask(t *testing.T) {
	parent := actorFor(domain.RoleBrideParent)
	task := baseTask(domain.VisibilityParents)

	assert.True(t, canCommentOnTask(task, parent, DefaultGrants(domain.RoleBrideParent)))

	muted := DefaultGrants(domain.RoleBrideParent)
	muted[CapTaskComment] = false
	assert.False(t, canCommentOnTask(task, parent, muted))

	// Comment still requires view.
	hidden := baseTask(domain.VisibilityInternalTeam)
	assert.False(t, canCommentOnTask(hidden, parent, DefaultGrants(domain.RoleBrideParent)))
}
