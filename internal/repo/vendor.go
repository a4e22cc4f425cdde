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
	ErrVendorNotFound = errors.New("vendor not found in wedding")

	// ErrVendorUserTaken indicates the login account is already linked to
	// another vendor profile in this wedding.
	ErrVendorUserTaken = errors.New("user already linked to a vendor profile")
)

// VendorRepository handles vendor profile storage.
type VendorRepository struct {
	pool *pgxpool.Pool
}

// NewVendorRepository creates a new VendorRepository instance.
func NewVendorRepository(pool *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{pool: pool}
}

const vendorColumns = `id, wedding_id, name, category, phone, email, notes, user_id, created_at, updated_at`

func scanVendor(row pgx.Row) (*domain.VendorProfile, error) {
	var v domain.VendorProfile
	err := row.Scan(
		&v.ID, &v.WeddingID, &v.Name, &v.Category,
		&v.Phone, &v.Email, &v.Notes, &v.UserID,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List retrieves all vendor profiles for a wedding.
func (r *VendorRepository) List(ctx context.Context, weddingID string) ([]domain.VendorProfile, error) {
	query := `
		SELECT ` + vendorColumns + `
		FROM vendor_profiles
		WHERE wedding_id = $1
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query, weddingID)
	if err != nil {
		return nil, fmt.Errorf("query vendors: %w", err)
	}
	defer rows.Close()

	var vendors []domain.VendorProfile
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendors: %w", err)
	}

	return vendors, nil
}

// Get retrieves a single vendor profile scoped to a wedding.
func (r *VendorRepository) Get(ctx context.Context, weddingID, vendorID string) (*domain.VendorProfile, error) {
	query := `
		SELECT ` + vendorColumns + `
		FROM vendor_profiles
		WHERE id = $1 AND wedding_id = $2
	`

	v, err := scanVendor(r.pool.QueryRow(ctx, query, vendorID, weddingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("query vendor: %w", err)
	}
	return v, nil
}

// Create inserts a vendor profile.
func (r *VendorRepository) Create(ctx context.Context, vendor *domain.VendorProfile) error {
	query := `
		INSERT INTO vendor_profiles (id, wedding_id, name, category, phone, email, notes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		vendor.ID, vendor.WeddingID, vendor.Name, vendor.Category,
		vendor.Phone, vendor.Email, vendor.Notes, vendor.UserID,
	).Scan(&vendor.CreatedAt, &vendor.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return ErrVendorUserTaken
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// Update applies a partial update (PATCH semantics).
func (r *VendorRepository) Update(ctx context.Context, weddingID, vendorID string, req *domain.UpdateVendorRequest) error {
	query := `UPDATE vendor_profiles SET updated_at = NOW()`
	args := []interface{}{}

	if req.Name != nil {
		args = append(args, *req.Name)
		query += fmt.Sprintf(", name = $%d", len(args))
	}
	if req.Category != nil {
		args = append(args, *req.Category)
		query += fmt.Sprintf(", category = $%d", len(args))
	}
	if req.Phone != nil {
		args = append(args, *req.Phone)
		query += fmt.Sprintf(", phone = $%d", len(args))
	}
	if req.Email != nil {
		args = append(args, *req.Email)
		query += fmt.Sprintf(", email = $%d", len(args))
	}
	if req.Notes != nil {
		args = append(args, *req.Notes)
		query += fmt.Sprintf(", notes = $%d", len(args))
	}
	if req.UserID != nil {
		args = append(args, *req.UserID)
		query += fmt.Sprintf(", user_id = $%d", len(args))
	}

	args = append(args, vendorID, weddingID)
	query += fmt.Sprintf(" WHERE id = $%d AND wedding_id = $%d", len(args)-1, len(args))

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrVendorUserTaken
		}
		return fmt.Errorf("update vendor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrVendorNotFound
	}
	return nil
}

// Delete removes a vendor profile. Tasks referencing it keep their row with
// vendor_id nulled out (ON DELETE SET NULL).
func (r *VendorRepository) Delete(ctx context.Context, weddingID, vendorID string) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM vendor_profiles WHERE id = $1 AND wedding_id = $2`, vendorID, weddingID)
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrVendorNotFound
	}
	return nil
}
