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
	// ErrMemberNotFound indicates the user is not a member of the wedding.
	ErrMemberNotFound = errors.New("user is not a member of this wedding")

	// ErrInvalidRole indicates the stored role value is not a known role.
	ErrInvalidRole = errors.New("invalid wedding role")

	// ErrWeddingNotFound indicates the wedding does not exist.
	ErrWeddingNotFound = errors.New("wedding not found")
)

// WeddingRepository handles wedding and membership lookups. Every service
// call starts with GetMemberRole; a user with no membership row gets nothing.
type WeddingRepository struct {
	pool *pgxpool.Pool
}

// NewWeddingRepository creates a new WeddingRepository instance.
func NewWeddingRepository(pool *pgxpool.Pool) *WeddingRepository {
	return &WeddingRepository{pool: pool}
}

// GetMemberRole retrieves the role a user holds in a wedding.
//
// Returns ErrMemberNotFound when the user has no membership row; handlers
// map that to 403. The role value is validated against the known set so a
// corrupted row fails loudly instead of slipping through a permission check.
func (r *WeddingRepository) GetMemberRole(ctx context.Context, userID, weddingID string) (domain.Role, error) {
	query := `
		SELECT role
		FROM wedding_members
		WHERE user_id = $1 AND wedding_id = $2
	`

	var roleName string
	err := r.pool.QueryRow(ctx, query, userID, weddingID).Scan(&roleName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrMemberNotFound
		}
		return "", fmt.Errorf("query wedding member role: %w", err)
	}

	role := domain.Role(roleName)
	if !role.IsValid() {
		return "", fmt.Errorf("role '%s' for user %s in wedding %s: %w", roleName, userID, weddingID, ErrInvalidRole)
	}

	return role, nil
}

// GetActor resolves the full permission context for a user in a wedding:
// their role plus, for vendor logins, the linked vendor profile id.
func (r *WeddingRepository) GetActor(ctx context.Context, userID, weddingID string) (domain.Actor, error) {
	role, err := r.GetMemberRole(ctx, userID, weddingID)
	if err != nil {
		return domain.Actor{}, err
	}

	actor := domain.Actor{UserID: userID, Role: role}
	if !domain.IsVendor(role) {
		return actor, nil
	}

	query := `
		SELECT id
		FROM vendor_profiles
		WHERE wedding_id = $1 AND user_id = $2
	`
	var profileID string
	err = r.pool.QueryRow(ctx, query, weddingID, userID).Scan(&profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Vendor member without a linked profile: valid, just unlinked.
			return actor, nil
		}
		return domain.Actor{}, fmt.Errorf("query vendor profile link: %w", err)
	}

	actor.VendorProfileID = &profileID
	return actor, nil
}

// IsMember checks membership without resolving the role.
func (r *WeddingRepository) IsMember(ctx context.Context, userID, weddingID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM wedding_members
			WHERE user_id = $1 AND wedding_id = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, weddingID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check wedding membership: %w", err)
	}
	return exists, nil
}

// Get retrieves a wedding by id.
func (r *WeddingRepository) Get(ctx context.Context, weddingID string) (*domain.Wedding, error) {
	query := `
		SELECT id, name, event_date, created_at, updated_at
		FROM weddings
		WHERE id = $1
	`

	var w domain.Wedding
	err := r.pool.QueryRow(ctx, query, weddingID).Scan(
		&w.ID, &w.Name, &w.EventDate, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWeddingNotFound
		}
		return nil, fmt.Errorf("query wedding: %w", err)
	}

	return &w, nil
}

// ListMembers retrieves all members of a wedding, couple first.
func (r *WeddingRepository) ListMembers(ctx context.Context, weddingID string) ([]domain.WeddingMember, error) {
	query := `
		SELECT user_id, wedding_id, role, invited_by, created_at, updated_at
		FROM wedding_members
		WHERE wedding_id = $1
		ORDER BY CASE role
			WHEN 'BRIDE' THEN 0 WHEN 'GROOM' THEN 1 WHEN 'PLANNER' THEN 2
			ELSE 3
		END, created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, weddingID)
	if err != nil {
		return nil, fmt.Errorf("query wedding members: %w", err)
	}
	defer rows.Close()

	var members []domain.WeddingMember
	for rows.Next() {
		var m domain.WeddingMember
		if err := rows.Scan(&m.UserID, &m.WeddingID, &m.Role, &m.InvitedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan wedding member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wedding members: %w", err)
	}

	return members, nil
}
