package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// TaskVisibility is the coarse audience bucket on a task (native PostgreSQL
// ENUM). Schema: public."TaskVisibility" - UPPERCASE values.
//
// The bucket sets the default audience; the per-task allow/block lists are
// exceptions to it.
type TaskVisibility string

const (
	// VisibilityPrivate is couple-only unless a role has task.view_private
	// or the user is explicitly allowed.
	VisibilityPrivate TaskVisibility = "PRIVATE"

	// VisibilityInternalTeam is couple + planner.
	VisibilityInternalTeam TaskVisibility = "INTERNAL_TEAM"

	// VisibilityParents adds the two parent roles.
	VisibilityParents TaskVisibility = "PARENTS"

	// VisibilityVendors is couple + planner + the assigned vendor.
	VisibilityVendors TaskVisibility = "VENDORS"

	// VisibilityEveryoneInternal is every non-guest role plus the assigned
	// vendor.
	VisibilityEveryoneInternal TaskVisibility = "EVERYONE_INTERNAL"
)

// IsValid checks if the value is one of the defined buckets.
func (v TaskVisibility) IsValid() bool {
	switch v {
	case VisibilityPrivate, VisibilityInternalTeam, VisibilityParents,
		VisibilityVendors, VisibilityEveryoneInternal:
		return true
	}
	return false
}

// Scan implements sql.Scanner for reading the ENUM from PostgreSQL.
func (v *TaskVisibility) Scan(src interface{}) error {
	if src == nil {
		*v = VisibilityInternalTeam // default
		return nil
	}

	var str string
	switch s := src.(type) {
	case string:
		str = s
	case []byte:
		str = string(s)
	default:
		return fmt.Errorf("cannot scan %T into TaskVisibility", src)
	}

	*v = TaskVisibility(str)
	if !v.IsValid() {
		return fmt.Errorf("invalid TaskVisibility value: %s", str)
	}
	return nil
}

// Value implements driver.Valuer for writing the ENUM to PostgreSQL.
func (v TaskVisibility) Value() (driver.Value, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("invalid TaskVisibility value: %s", string(v))
	}
	return string(v), nil
}

// TaskStatus represents the lifecycle state of a task (native PostgreSQL ENUM).
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// IsValid checks if the value is one of the defined statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusCancelled:
		return true
	}
	return false
}

// Scan implements sql.Scanner for reading the ENUM from PostgreSQL.
func (s *TaskStatus) Scan(src interface{}) error {
	if src == nil {
		*s = TaskStatusTodo // default
		return nil
	}

	var str string
	switch v := src.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into TaskStatus", src)
	}

	*s = TaskStatus(str)
	if !s.IsValid() {
		return fmt.Errorf("invalid TaskStatus value: %s", str)
	}
	return nil
}

// Value implements driver.Valuer for writing the ENUM to PostgreSQL.
func (s TaskStatus) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid TaskStatus value: %s", string(s))
	}
	return string(s), nil
}

// Task is the protected record the visibility engine decides over.
//
// AllowedUserIDs, BlockedUserIDs and WatcherUserIDs are the per-task ACL
// sub-lists, preloaded by the repository before any permission check runs.
// A user in both the allowed and blocked list is denied (block wins).
type Task struct {
	ID        string `json:"id" db:"id"`
	WeddingID string `json:"weddingId" db:"wedding_id"`

	Title       string  `json:"title" db:"title"`
	Description *string `json:"description,omitempty" db:"description"`

	Visibility TaskVisibility `json:"visibility" db:"visibility"`
	Status     TaskStatus     `json:"status" db:"status"`

	// CreatedByUserID is the author; AssignedToUserID drives the
	// edit-assigned path.
	CreatedByUserID  string  `json:"createdByUserId" db:"created_by_user_id"`
	AssignedToUserID *string `json:"assignedToUserId,omitempty" db:"assigned_to_user_id"`

	// VendorID links the task to a vendor profile; VendorUserID is that
	// profile's login account, denormalized onto the task load so vendor
	// visibility can key off either link.
	VendorID     *string `json:"vendorId,omitempty" db:"vendor_id"`
	VendorUserID *string `json:"vendorUserId,omitempty" db:"-"`

	DueDate *time.Time `json:"dueDate,omitempty" db:"due_date"`

	AllowedUserIDs []string `json:"allowedUserIds" db:"-"`
	BlockedUserIDs []string `json:"blockedUserIds" db:"-"`
	WatcherUserIDs []string `json:"watcherUserIds" db:"-"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAllowed reports whether the user is in the explicit allow list.
func (t *Task) IsAllowed(userID string) bool {
	return containsID(t.AllowedUserIDs, userID)
}

// IsBlocked reports whether the user is in the explicit block list.
func (t *Task) IsBlocked(userID string) bool {
	return containsID(t.BlockedUserIDs, userID)
}

// IsWatcher reports whether the user opted in as a watcher.
func (t *Task) IsWatcher(userID string) bool {
	return containsID(t.WatcherUserIDs, userID)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// TaskComment is a comment on a task, gated by task.comment.
type TaskComment struct {
	ID        string    `json:"id" db:"id"`
	TaskID    string    `json:"taskId" db:"task_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateTaskRequest is the DTO for task creation.
// WeddingID is always injected from the path parameter.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=500"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`

	Visibility *TaskVisibility `json:"visibility,omitempty" validate:"omitempty,oneof=PRIVATE INTERNAL_TEAM PARENTS VENDORS EVERYONE_INTERNAL"`
	Status     *TaskStatus     `json:"status,omitempty" validate:"omitempty,oneof=TODO IN_PROGRESS DONE CANCELLED"`

	AssignedToUserID *string `json:"assignedToUserId,omitempty"`
	VendorID         *string `json:"vendorId,omitempty"`

	DueDate *time.Time `json:"dueDate,omitempty"`

	AllowedUserIDs []string `json:"allowedUserIds,omitempty"`
	BlockedUserIDs []string `json:"blockedUserIds,omitempty"`
}

// UpdateTaskRequest is the DTO for partial task updates (PATCH semantics).
// All fields are pointers - nil means do not modify.
//
// The ACL lists are intentionally absent: allow/block mutations go through
// the couple-only :acl endpoint.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`

	Visibility *TaskVisibility `json:"visibility,omitempty" validate:"omitempty,oneof=PRIVATE INTERNAL_TEAM PARENTS VENDORS EVERYONE_INTERNAL"`
	Status     *TaskStatus     `json:"status,omitempty" validate:"omitempty,oneof=TODO IN_PROGRESS DONE CANCELLED"`

	AssignedToUserID *string `json:"assignedToUserId,omitempty"`
	VendorID         *string `json:"vendorId,omitempty"`

	DueDate *time.Time `json:"dueDate,omitempty"`

	// WatcherUserIDs replaces the watcher list when present. Watchers ride
	// the general edit path, unlike allow/block.
	WatcherUserIDs []string `json:"watcherUserIds,omitempty"`
}

// UpdateTaskACLRequest replaces the allow/block lists on a task.
// Couple-only at the service layer.
type UpdateTaskACLRequest struct {
	AllowedUserIDs []string `json:"allowedUserIds"`
	BlockedUserIDs []string `json:"blockedUserIds"`
}

// ListTasksParams are parameters for task listing.
// WeddingID is always required (multi-tenant isolation); the visibility
// filter is attached by the service from the permission engine.
type ListTasksParams struct {
	WeddingID string

	Status     *TaskStatus
	AssignedTo *string
	VendorID   *string

	Query *string

	Limit  int
	Cursor *string
}

// Normalize applies defaults and trims the search query.
func (p *ListTasksParams) Normalize() {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 50
	}
	if p.Query != nil {
		q := strings.TrimSpace(*p.Query)
		if q == "" {
			p.Query = nil
		} else {
			p.Query = &q
		}
	}
}

// TaskListResponse is the paginated task list payload.
type TaskListResponse struct {
	Data []Task `json:"data"`
	Meta struct {
		HasNextPage bool    `json:"hasNextPage"`
		NextCursor  *string `json:"nextCursor,omitempty"`
	} `json:"meta"`
}
