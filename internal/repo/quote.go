package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
)

var (
	ErrQuoteNotFound = errors.New("quote not found in wedding")
)

// QuoteRepository handles vendor quote storage. Line items live as JSONB on
// the quote row; they are presentation detail, never queried individually.
type QuoteRepository struct {
	pool *pgxpool.Pool
}

// NewQuoteRepository creates a new QuoteRepository instance.
func NewQuoteRepository(pool *pgxpool.Pool) *QuoteRepository {
	return &QuoteRepository{pool: pool}
}

const quoteColumns = `id, wedding_id, vendor_id, title, amount_total, currency, status, notes, line_items, created_at, updated_at`

func scanQuote(row pgx.Row) (*domain.Quote, error) {
	var q domain.Quote
	var lineItemsJSON []byte
	err := row.Scan(
		&q.ID, &q.WeddingID, &q.VendorID, &q.Title,
		&q.AmountTotal, &q.Currency, &q.Status, &q.Notes, &lineItemsJSON,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lineItemsJSON != nil {
		if err := json.Unmarshal(lineItemsJSON, &q.LineItems); err != nil {
			return nil, fmt.Errorf("decode quote line items: %w", err)
		}
	}
	return &q, nil
}

// List retrieves quotes for a wedding. vendorID, when set, scopes the
// result to one vendor; the service passes the actor's own profile id for
// vendor logins.
func (r *QuoteRepository) List(ctx context.Context, weddingID string, vendorID *string) ([]domain.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE wedding_id = $1
	`
	args := []interface{}{weddingID}

	if vendorID != nil {
		args = append(args, *vendorID)
		query += fmt.Sprintf(" AND vendor_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}

// Get retrieves a single quote scoped to a wedding.
func (r *QuoteRepository) Get(ctx context.Context, weddingID, quoteID string) (*domain.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE id = $1 AND wedding_id = $2
	`

	q, err := scanQuote(r.pool.QueryRow(ctx, query, quoteID, weddingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("query quote: %w", err)
	}
	return q, nil
}

// Create inserts a quote.
func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	lineItemsJSON, err := json.Marshal(quote.LineItems)
	if err != nil {
		return fmt.Errorf("encode quote line items: %w", err)
	}

	query := `
		INSERT INTO quotes (id, wedding_id, vendor_id, title, amount_total, currency, status, notes, line_items)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err = r.pool.QueryRow(ctx, query,
		quote.ID, quote.WeddingID, quote.VendorID, quote.Title,
		quote.AmountTotal, quote.Currency, quote.Status, quote.Notes, lineItemsJSON,
	).Scan(&quote.CreatedAt, &quote.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign key violation
			return ErrVendorNotFound
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// Update applies a partial update (PATCH semantics).
func (r *QuoteRepository) Update(ctx context.Context, weddingID, quoteID string, req *domain.UpdateQuoteRequest) error {
	query := `UPDATE quotes SET updated_at = NOW()`
	args := []interface{}{}

	if req.Title != nil {
		args = append(args, *req.Title)
		query += fmt.Sprintf(", title = $%d", len(args))
	}
	if req.AmountTotal != nil {
		args = append(args, *req.AmountTotal)
		query += fmt.Sprintf(", amount_total = $%d", len(args))
	}
	if req.Currency != nil {
		args = append(args, *req.Currency)
		query += fmt.Sprintf(", currency = $%d", len(args))
	}
	if req.Status != nil {
		args = append(args, *req.Status)
		query += fmt.Sprintf(", status = $%d", len(args))
	}
	if req.Notes != nil {
		args = append(args, *req.Notes)
		query += fmt.Sprintf(", notes = $%d", len(args))
	}
	if req.LineItems != nil {
		lineItemsJSON, err := json.Marshal(req.LineItems)
		if err != nil {
			return fmt.Errorf("encode quote line items: %w", err)
		}
		args = append(args, lineItemsJSON)
		query += fmt.Sprintf(", line_items = $%d", len(args))
	}

	args = append(args, quoteID, weddingID)
	query += fmt.Sprintf(" WHERE id = $%d AND wedding_id = $%d", len(args)-1, len(args))

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

// Delete removes a quote.
func (r *QuoteRepository) Delete(ctx context.Context, weddingID, quoteID string) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM quotes WHERE id = $1 AND wedding_id = $2`, quoteID, weddingID)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrQuoteNotFound
	}
	return nil
}
