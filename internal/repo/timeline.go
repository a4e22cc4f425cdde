package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
)

var (
	ErrEventDayNotFound     = errors.New("event day not found in wedding")
	ErrTimelineItemNotFound = errors.New("timeline item not found")
	ErrAdjustmentNotFound   = errors.New("timeline adjustment not found")

	// ErrAdjustmentReverted indicates a second undo of the same shift.
	ErrAdjustmentReverted = errors.New("timeline adjustment already reverted")
)

// TimelineRepository handles event days, their scheduled items, and the
// shift journal. Whole-day shifts and their undos run in one transaction so
// the journal never disagrees with the item times.
type TimelineRepository struct {
	pool *pgxpool.Pool
}

// NewTimelineRepository creates a new TimelineRepository instance.
func NewTimelineRepository(pool *pgxpool.Pool) *TimelineRepository {
	return &TimelineRepository{pool: pool}
}

// ListEventDays retrieves the event days of a wedding in program order.
func (r *TimelineRepository) ListEventDays(ctx context.Context, weddingID string) ([]domain.EventDay, error) {
	query := `
		SELECT id, wedding_id, title, date, created_at, updated_at
		FROM event_days
		WHERE wedding_id = $1
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, weddingID)
	if err != nil {
		return nil, fmt.Errorf("query event days: %w", err)
	}
	defer rows.Close()

	var days []domain.EventDay
	for rows.Next() {
		var d domain.EventDay
		if err := rows.Scan(&d.ID, &d.WeddingID, &d.Title, &d.Date, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan event day: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event days: %w", err)
	}

	return days, nil
}

// GetEventDay retrieves a single event day scoped to a wedding.
func (r *TimelineRepository) GetEventDay(ctx context.Context, weddingID, eventDayID string) (*domain.EventDay, error) {
	query := `
		SELECT id, wedding_id, title, date, created_at, updated_at
		FROM event_days
		WHERE id = $1 AND wedding_id = $2
	`

	var d domain.EventDay
	err := r.pool.QueryRow(ctx, query, eventDayID, weddingID).Scan(
		&d.ID, &d.WeddingID, &d.Title, &d.Date, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventDayNotFound
		}
		return nil, fmt.Errorf("query event day: %w", err)
	}
	return &d, nil
}

// CreateEventDay inserts an event day.
func (r *TimelineRepository) CreateEventDay(ctx context.Context, day *domain.EventDay) error {
	query := `
		INSERT INTO event_days (id, wedding_id, title, date)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		day.ID, day.WeddingID, day.Title, day.Date,
	).Scan(&day.CreatedAt, &day.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert event day: %w", err)
	}
	return nil
}

// ListItems retrieves the timeline items of an event day in start order.
func (r *TimelineRepository) ListItems(ctx context.Context, eventDayID string) ([]domain.TimelineItem, error) {
	query := `
		SELECT id, event_day_id, title, location, vendor_id, start_time, end_time, created_at, updated_at
		FROM timeline_items
		WHERE event_day_id = $1
		ORDER BY start_time ASC
	`

	rows, err := r.pool.Query(ctx, query, eventDayID)
	if err != nil {
		return nil, fmt.Errorf("query timeline items: %w", err)
	}
	defer rows.Close()

	var items []domain.TimelineItem
	for rows.Next() {
		var it domain.TimelineItem
		err := rows.Scan(
			&it.ID, &it.EventDayID, &it.Title, &it.Location, &it.VendorID,
			&it.StartTime, &it.EndTime, &it.CreatedAt, &it.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan timeline item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline items: %w", err)
	}

	return items, nil
}

// CreateItem inserts a timeline item.
func (r *TimelineRepository) CreateItem(ctx context.Context, item *domain.TimelineItem) error {
	query := `
		INSERT INTO timeline_items (id, event_day_id, title, location, vendor_id, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		item.ID, item.EventDayID, item.Title, item.Location, item.VendorID,
		item.StartTime, item.EndTime,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert timeline item: %w", err)
	}
	return nil
}

// DeleteItem removes a timeline item.
func (r *TimelineRepository) DeleteItem(ctx context.Context, eventDayID, itemID string) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM timeline_items WHERE id = $1 AND event_day_id = $2`, itemID, eventDayID)
	if err != nil {
		return fmt.Errorf("delete timeline item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTimelineItemNotFound
	}
	return nil
}

// ShiftDay moves every item of an event day by deltaMinutes and journals
// the shift, all in one transaction. The adjustment record comes back with
// its id set by the caller.
func (r *TimelineRepository) ShiftDay(ctx context.Context, adj *domain.TimelineAdjustment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the day row so concurrent shifts of the same day serialize.
	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT true FROM event_days WHERE id = $1 AND wedding_id = $2 FOR UPDATE`,
		adj.EventDayID, adj.WeddingID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEventDayNotFound
		}
		return fmt.Errorf("lock event day: %w", err)
	}

	if err := shiftItems(ctx, tx, adj.EventDayID, adj.DeltaMinutes); err != nil {
		return err
	}

	journalQuery := `
		INSERT INTO timeline_adjustments (id, wedding_id, event_day_id, delta_minutes, reason, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, journalQuery,
		adj.ID, adj.WeddingID, adj.EventDayID, adj.DeltaMinutes,
		adj.Reason, adj.CreatedByUserID,
	).Scan(&adj.CreatedAt)
	if err != nil {
		return fmt.Errorf("journal timeline shift: %w", err)
	}

	return tx.Commit(ctx)
}

// UndoShift reverts a journaled shift by applying the opposite delta and
// stamping reverted_at. Each adjustment can be undone once.
func (r *TimelineRepository) UndoShift(ctx context.Context, weddingID, adjustmentID string) (*domain.TimelineAdjustment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var adj domain.TimelineAdjustment
	err = tx.QueryRow(ctx, `
		SELECT id, wedding_id, event_day_id, delta_minutes, reason, created_by_user_id, created_at, reverted_at
		FROM timeline_adjustments
		WHERE id = $1 AND wedding_id = $2
		FOR UPDATE
	`, adjustmentID, weddingID).Scan(
		&adj.ID, &adj.WeddingID, &adj.EventDayID, &adj.DeltaMinutes,
		&adj.Reason, &adj.CreatedByUserID, &adj.CreatedAt, &adj.RevertedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdjustmentNotFound
		}
		return nil, fmt.Errorf("query timeline adjustment: %w", err)
	}
	if adj.RevertedAt != nil {
		return nil, ErrAdjustmentReverted
	}

	if err := shiftItems(ctx, tx, adj.EventDayID, -adj.DeltaMinutes); err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		UPDATE timeline_adjustments
		SET reverted_at = NOW()
		WHERE id = $1
		RETURNING reverted_at
	`, adj.ID).Scan(&adj.RevertedAt)
	if err != nil {
		return nil, fmt.Errorf("mark adjustment reverted: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &adj, nil
}

func shiftItems(ctx context.Context, tx pgx.Tx, eventDayID string, deltaMinutes int) error {
	query := `
		UPDATE timeline_items
		SET start_time = start_time + make_interval(mins => $1),
		    end_time   = end_time   + make_interval(mins => $1),
		    updated_at = NOW()
		WHERE event_day_id = $2
	`
	if _, err := tx.Exec(ctx, query, deltaMinutes, eventDayID); err != nil {
		return fmt.Errorf("shift timeline items: %w", err)
	}
	return nil
}

// ListAdjustments retrieves the shift journal of an event day, newest first.
func (r *TimelineRepository) ListAdjustments(ctx context.Context, weddingID, eventDayID string) ([]domain.TimelineAdjustment, error) {
	query := `
		SELECT id, wedding_id, event_day_id, delta_minutes, reason, created_by_user_id, created_at, reverted_at
		FROM timeline_adjustments
		WHERE wedding_id = $1 AND event_day_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, weddingID, eventDayID)
	if err != nil {
		return nil, fmt.Errorf("query timeline adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []domain.TimelineAdjustment
	for rows.Next() {
		var a domain.TimelineAdjustment
		err := rows.Scan(
			&a.ID, &a.WeddingID, &a.EventDayID, &a.DeltaMinutes,
			&a.Reason, &a.CreatedByUserID, &a.CreatedAt, &a.RevertedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan timeline adjustment: %w", err)
		}
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline adjustments: %w", err)
	}

	return adjustments, nil
}
