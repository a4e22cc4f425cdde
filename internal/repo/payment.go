package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paradox1612/shaadi-timeline/internal/domain"
)

var (
	ErrPaymentNotFound = errors.New("payment not found in wedding")

	// ErrPaymentAlreadyApproved indicates a second approval attempt.
	ErrPaymentAlreadyApproved = errors.New("payment already approved")
)

// PaymentRepository handles payment storage and the budget aggregation.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository instance.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, wedding_id, vendor_id, quote_id, amount, currency, method, note, paid_at,
	       created_by_user_id, approved_by, created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID, &p.WeddingID, &p.VendorID, &p.QuoteID,
		&p.Amount, &p.Currency, &p.Method, &p.Note, &p.PaidAt,
		&p.CreatedByUserID, &p.ApprovedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PaymentListScope narrows a payment listing per the actor's resolved
// payment scope. Zero value lists nothing; the service never calls List
// with an empty scope.
type PaymentListScope struct {
	// All lists the whole wedding ledger.
	All bool

	// CreatedBy restricts to payments the user recorded.
	CreatedBy *string

	// VendorID restricts to payments toward the vendor profile.
	VendorID *string
}

// List retrieves payments for a wedding within the given scope, newest
// paid first.
func (r *PaymentRepository) List(ctx context.Context, weddingID string, scope PaymentListScope) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE wedding_id = $1
	`
	args := []interface{}{weddingID}

	if !scope.All {
		var clauses []string
		if scope.CreatedBy != nil {
			args = append(args, *scope.CreatedBy)
			clauses = append(clauses, fmt.Sprintf("created_by_user_id = $%d", len(args)))
		}
		if scope.VendorID != nil {
			args = append(args, *scope.VendorID)
			clauses = append(clauses, fmt.Sprintf("vendor_id = $%d", len(args)))
		}
		if len(clauses) == 0 {
			return []domain.Payment{}, nil
		}
		query += " AND (" + clauses[0]
		for _, c := range clauses[1:] {
			query += " OR " + c
		}
		query += ")"
	}
	query += " ORDER BY paid_at DESC, created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}

	return payments, nil
}

// Get retrieves a single payment scoped to a wedding.
func (r *PaymentRepository) Get(ctx context.Context, weddingID, paymentID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE id = $1 AND wedding_id = $2
	`

	p, err := scanPayment(r.pool.QueryRow(ctx, query, paymentID, weddingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("query payment: %w", err)
	}
	return p, nil
}

// Create inserts a payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, wedding_id, vendor_id, quote_id, amount, currency, method, note, paid_at, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		payment.ID, payment.WeddingID, payment.VendorID, payment.QuoteID,
		payment.Amount, payment.Currency, payment.Method, payment.Note,
		payment.PaidAt, payment.CreatedByUserID,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign key violation
			return fmt.Errorf("invalid relationship: %s", pgErr.ConstraintName)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// Approve stamps the payment with the approver. Approval is one-shot; a
// payment that already carries approved_by reports
// ErrPaymentAlreadyApproved.
func (r *PaymentRepository) Approve(ctx context.Context, weddingID, paymentID, approvedBy string) error {
	query := `
		UPDATE payments
		SET approved_by = $1, updated_at = NOW()
		WHERE id = $2 AND wedding_id = $3 AND approved_by IS NULL
	`

	result, err := r.pool.Exec(ctx, query, approvedBy, paymentID, weddingID)
	if err != nil {
		return fmt.Errorf("approve payment: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Distinguish missing from already approved.
		if _, err := r.Get(ctx, weddingID, paymentID); err != nil {
			return err
		}
		return ErrPaymentAlreadyApproved
	}
	return nil
}

// BudgetSummary aggregates quote and payment totals for a wedding, overall
// and per vendor. Rejected quotes are excluded from the quoted total.
func (r *PaymentRepository) BudgetSummary(ctx context.Context, weddingID, currency string) (*domain.BudgetSummary, error) {
	summary := &domain.BudgetSummary{Currency: currency, ByVendor: []domain.VendorBudgetSummary{}}

	totalsQuery := `
		SELECT
			COALESCE((SELECT SUM(amount_total) FROM quotes
			          WHERE wedding_id = $1 AND status <> 'REJECTED'), 0),
			COALESCE((SELECT SUM(amount) FROM payments WHERE wedding_id = $1), 0),
			COALESCE((SELECT SUM(amount) FROM payments
			          WHERE wedding_id = $1 AND approved_by IS NOT NULL), 0)
	`
	err := r.pool.QueryRow(ctx, totalsQuery, weddingID).Scan(
		&summary.TotalQuoted, &summary.TotalPaid, &summary.TotalApproved,
	)
	if err != nil {
		return nil, fmt.Errorf("query budget totals: %w", err)
	}

	byVendorQuery := `
		SELECT v.id, v.name,
		       COALESCE(q.quoted, 0), COALESCE(p.paid, 0)
		FROM vendor_profiles v
		LEFT JOIN (
			SELECT vendor_id, SUM(amount_total) AS quoted
			FROM quotes
			WHERE wedding_id = $1 AND status <> 'REJECTED'
			GROUP BY vendor_id
		) q ON q.vendor_id = v.id
		LEFT JOIN (
			SELECT vendor_id, SUM(amount) AS paid
			FROM payments
			WHERE wedding_id = $1 AND vendor_id IS NOT NULL
			GROUP BY vendor_id
		) p ON p.vendor_id = v.id
		WHERE v.wedding_id = $1
		ORDER BY v.name ASC
	`
	rows, err := r.pool.Query(ctx, byVendorQuery, weddingID)
	if err != nil {
		return nil, fmt.Errorf("query budget by vendor: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.VendorBudgetSummary
		if err := rows.Scan(&v.VendorID, &v.VendorName, &v.Quoted, &v.Paid); err != nil {
			return nil, fmt.Errorf("scan vendor budget line: %w", err)
		}
		v.Remaining = v.Quoted - v.Paid
		summary.ByVendor = append(summary.ByVendor, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendor budget lines: %w", err)
	}

	return summary, nil
}
