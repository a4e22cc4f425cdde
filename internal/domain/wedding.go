package domain

import (
	"time"
)

// Wedding is the tenant aggregate. Every other record hangs off a wedding id.
type Wedding struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	EventDate time.Time `json:"eventDate" db:"event_date"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// WeddingMember maps a user to a wedding with their assigned role.
// One row per (userId, weddingId); the role is immutable as far as the
// permission engine is concerned.
type WeddingMember struct {
	UserID    string `json:"userId" db:"user_id"`
	WeddingID string `json:"weddingId" db:"wedding_id"`
	Role      Role   `json:"role" db:"role"`

	// InvitedBy is the user who added this member, nil for the seed couple.
	InvitedBy *string `json:"invitedBy,omitempty" db:"invited_by"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Actor is the authenticated context every permission check runs against.
// Supplied by the session layer (JWT claims); VendorProfileID is set only for
// vendor logins that have a linked vendor profile.
type Actor struct {
	UserID          string
	Role            Role
	VendorProfileID *string
}

// HasVendorProfile reports whether the actor is linked to a vendor profile.
func (a Actor) HasVendorProfile() bool {
	return a.VendorProfileID != nil && *a.VendorProfileID != ""
}
