package domain

import "time"

// VendorProfile is a vendor business attached to a wedding. A profile may
// reference exactly one login account (UserID); tasks reference profiles.
type VendorProfile struct {
	ID        string `json:"id" db:"id"`
	WeddingID string `json:"weddingId" db:"wedding_id"`

	Name     string  `json:"name" db:"name"`
	Category string  `json:"category" db:"category"`
	Phone    *string `json:"phone,omitempty" db:"phone"`
	Email    *string `json:"email,omitempty" db:"email"`
	Notes    *string `json:"notes,omitempty" db:"notes"`

	// UserID is the vendor's login account, nil until the vendor accepts
	// their invite.
	UserID *string `json:"userId,omitempty" db:"user_id"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateVendorRequest is the DTO for vendor profile creation.
type CreateVendorRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=200"`
	Category string  `json:"category" validate:"required,min=1,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
	UserID   *string `json:"userId,omitempty"`
}

// UpdateVendorRequest is the DTO for partial vendor updates.
type UpdateVendorRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category *string `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
	UserID   *string `json:"userId,omitempty"`
}
