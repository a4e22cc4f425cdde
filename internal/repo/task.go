package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
	"github.com/paradox1612/shaadi-timeline/internal/permissions"
)

var (
	ErrTaskNotFound = errors.New("task not found in wedding")
)

// TaskRepository handles task storage, including the three ACL sub-lists.
// Every read preloads the sub-lists and the task vendor's login id so the
// permission engine sees a complete snapshot.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository instance.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

const taskColumns = `t.id, t.wedding_id, t.title, t.description, t.visibility, t.status,
	       t.created_by_user_id, t.assigned_to_user_id, t.vendor_id, vp.user_id,
	       t.due_date, t.created_at, t.updated_at`

// The list cursor carries the full ORDER BY key. A timestamp alone would
// skip rows sharing a created_at across page boundaries.
func encodeTaskCursor(createdAt time.Time, id string) string {
	return createdAt.Format(time.RFC3339Nano) + "|" + id
}

func decodeTaskCursor(cursor string) (time.Time, string, error) {
	ts, id, ok := strings.Cut(cursor, "|")
	if !ok {
		return time.Time{}, "", fmt.Errorf("invalid cursor format: %q", cursor)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid cursor format: %w", err)
	}
	return createdAt, id, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID, &t.WeddingID, &t.Title, &t.Description, &t.Visibility, &t.Status,
		&t.CreatedByUserID, &t.AssignedToUserID, &t.VendorID, &t.VendorUserID,
		&t.DueDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List retrieves tasks for a wedding with the compiled visibility filter
// applied in the query itself. Rows the actor may not see never leave the
// database.
//
// Multi-tenant isolation enforced by the wedding_id filter; cursor
// pagination on (created_at, id) DESC.
func (r *TaskRepository) List(ctx context.Context, params domain.ListTasksParams, filter permissions.TaskFilter) ([]domain.Task, string, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN vendor_profiles vp ON vp.id = t.vendor_id
		WHERE t.wedding_id = $1
	`
	args := []interface{}{params.WeddingID}

	if params.Status != nil {
		args = append(args, *params.Status)
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}

	if params.AssignedTo != nil {
		args = append(args, *params.AssignedTo)
		query += fmt.Sprintf(" AND t.assigned_to_user_id = $%d", len(args))
	}

	if params.VendorID != nil {
		args = append(args, *params.VendorID)
		query += fmt.Sprintf(" AND t.vendor_id = $%d", len(args))
	}

	if params.Query != nil {
		args = append(args, *params.Query)
		query += fmt.Sprintf(" AND to_tsvector('simple', t.title || ' ' || COALESCE(t.description, '')) @@ plainto_tsquery('simple', $%d)", len(args))
	}

	visibility, args := filter.SQL(args)
	query += " AND " + visibility

	if params.Cursor != nil && *params.Cursor != "" {
		cursorTime, cursorID, err := decodeTaskCursor(*params.Cursor)
		if err != nil {
			return nil, "", err
		}
		args = append(args, cursorTime, cursorID)
		query += fmt.Sprintf(" AND (t.created_at, t.id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, params.Limit+1) // +1 to check if there's a next page
	query += fmt.Sprintf(" ORDER BY t.created_at DESC, t.id DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0, params.Limit)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, "", fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterate tasks: %w", err)
	}

	var nextCursor string
	if len(tasks) > params.Limit {
		tasks = tasks[:params.Limit]
		last := tasks[len(tasks)-1]
		nextCursor = encodeTaskCursor(last.CreatedAt, last.ID)
	}

	if err := r.loadACLs(ctx, tasks); err != nil {
		return nil, "", err
	}

	return tasks, nextCursor, nil
}

// Get retrieves a single task scoped to a wedding, ACL sub-lists included.
// IDOR protection: a task id from another wedding reads as not found.
func (r *TaskRepository) Get(ctx context.Context, weddingID, taskID string) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN vendor_profiles vp ON vp.id = t.vendor_id
		WHERE t.id = $1 AND t.wedding_id = $2
	`

	task, err := scanTask(r.pool.QueryRow(ctx, query, taskID, weddingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("query task: %w", err)
	}

	tasks := []domain.Task{*task}
	if err := r.loadACLs(ctx, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// loadACLs populates the allow, block and watcher lists for a batch of
// tasks in three queries.
func (r *TaskRepository) loadACLs(ctx context.Context, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, len(tasks))
	index := make(map[string]int, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
		index[tasks[i].ID] = i
		tasks[i].AllowedUserIDs = []string{}
		tasks[i].BlockedUserIDs = []string{}
		tasks[i].WatcherUserIDs = []string{}
	}

	load := func(table string, assign func(t *domain.Task, userID string)) error {
		query := fmt.Sprintf(`SELECT task_id, user_id FROM %s WHERE task_id = ANY($1)`, table)
		rows, err := r.pool.Query(ctx, query, ids)
		if err != nil {
			return fmt.Errorf("query %s: %w", table, err)
		}
		defer rows.Close()

		for rows.Next() {
			var taskID, userID string
			if err := rows.Scan(&taskID, &userID); err != nil {
				return fmt.Errorf("scan %s: %w", table, err)
			}
			if i, ok := index[taskID]; ok {
				assign(&tasks[i], userID)
			}
		}
		return rows.Err()
	}

	if err := load("task_allowed_users", func(t *domain.Task, u string) {
		t.AllowedUserIDs = append(t.AllowedUserIDs, u)
	}); err != nil {
		return err
	}
	if err := load("task_blocked_users", func(t *domain.Task, u string) {
		t.BlockedUserIDs = append(t.BlockedUserIDs, u)
	}); err != nil {
		return err
	}
	return load("task_watchers", func(t *domain.Task, u string) {
		t.WatcherUserIDs = append(t.WatcherUserIDs, u)
	})
}

// Create inserts a task and its initial ACL rows in one transaction.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO tasks (id, wedding_id, title, description, visibility, status,
		                   created_by_user_id, assigned_to_user_id, vendor_id, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		task.ID, task.WeddingID, task.Title, task.Description,
		task.Visibility, task.Status,
		task.CreatedByUserID, task.AssignedToUserID, task.VendorID, task.DueDate,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign key violation
			return fmt.Errorf("invalid relationship: %s", pgErr.ConstraintName)
		}
		return fmt.Errorf("insert task: %w", err)
	}

	if err := insertUserList(ctx, tx, "task_allowed_users", task.ID, task.AllowedUserIDs); err != nil {
		return err
	}
	if err := insertUserList(ctx, tx, "task_blocked_users", task.ID, task.BlockedUserIDs); err != nil {
		return err
	}
	if err := insertUserList(ctx, tx, "task_watchers", task.ID, task.WatcherUserIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertUserList(ctx context.Context, tx pgx.Tx, table, taskID string, userIDs []string) error {
	for _, userID := range userIDs {
		query := fmt.Sprintf(
			`INSERT INTO %s (task_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, table)
		if _, err := tx.Exec(ctx, query, taskID, userID); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// Update applies a partial update (PATCH semantics). Watchers, when present,
// replace the whole watcher list; allow/block lists are not touched here.
func (r *TaskRepository) Update(ctx context.Context, weddingID, taskID string, req *domain.UpdateTaskRequest) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE tasks SET updated_at = NOW()`
	args := []interface{}{}

	if req.Title != nil {
		args = append(args, *req.Title)
		query += fmt.Sprintf(", title = $%d", len(args))
	}
	if req.Description != nil {
		args = append(args, *req.Description)
		query += fmt.Sprintf(", description = $%d", len(args))
	}
	if req.Visibility != nil {
		args = append(args, *req.Visibility)
		query += fmt.Sprintf(", visibility = $%d", len(args))
	}
	if req.Status != nil {
		args = append(args, *req.Status)
		query += fmt.Sprintf(", status = $%d", len(args))
	}
	if req.AssignedToUserID != nil {
		args = append(args, *req.AssignedToUserID)
		query += fmt.Sprintf(", assigned_to_user_id = $%d", len(args))
	}
	if req.VendorID != nil {
		args = append(args, *req.VendorID)
		query += fmt.Sprintf(", vendor_id = $%d", len(args))
	}
	if req.DueDate != nil {
		args = append(args, *req.DueDate)
		query += fmt.Sprintf(", due_date = $%d", len(args))
	}

	args = append(args, taskID, weddingID)
	query += fmt.Sprintf(" WHERE id = $%d AND wedding_id = $%d", len(args)-1, len(args))

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	if req.WatcherUserIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM task_watchers WHERE task_id = $1`, taskID); err != nil {
			return fmt.Errorf("clear task watchers: %w", err)
		}
		if err := insertUserList(ctx, tx, "task_watchers", taskID, req.WatcherUserIDs); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ReplaceACL swaps the allow and block lists atomically.
func (r *TaskRepository) ReplaceACL(ctx context.Context, weddingID, taskID string, req *domain.UpdateTaskACLRequest) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the task row first so concurrent ACL swaps serialize, and so a
	// foreign wedding's task id reads as not found.
	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT true FROM tasks WHERE id = $1 AND wedding_id = $2 FOR UPDATE`,
		taskID, weddingID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("lock task: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM task_allowed_users WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("clear task allow list: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM task_blocked_users WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("clear task block list: %w", err)
	}

	if err := insertUserList(ctx, tx, "task_allowed_users", taskID, req.AllowedUserIDs); err != nil {
		return err
	}
	if err := insertUserList(ctx, tx, "task_blocked_users", taskID, req.BlockedUserIDs); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE tasks SET updated_at = NOW() WHERE id = $1`, taskID); err != nil {
		return fmt.Errorf("touch task: %w", err)
	}

	return tx.Commit(ctx)
}

// Delete removes a task; the ACL and comment rows go with it via ON DELETE
// CASCADE.
func (r *TaskRepository) Delete(ctx context.Context, weddingID, taskID string) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND wedding_id = $2`, taskID, weddingID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ListComments retrieves the comments on a task, oldest first.
func (r *TaskRepository) ListComments(ctx context.Context, taskID string) ([]domain.TaskComment, error) {
	query := `
		SELECT id, task_id, user_id, body, created_at
		FROM task_comments
		WHERE task_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("query task comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.TaskComment
	for rows.Next() {
		var c domain.TaskComment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task comments: %w", err)
	}

	return comments, nil
}

// CreateComment inserts a comment.
func (r *TaskRepository) CreateComment(ctx context.Context, comment *domain.TaskComment) error {
	query := `
		INSERT INTO task_comments (id, task_id, user_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		comment.ID, comment.TaskID, comment.UserID, comment.Body,
	).Scan(&comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task comment: %w", err)
	}
	return nil
}
