package domain

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// QuoteStatus represents the lifecycle of a vendor quote (native PostgreSQL ENUM).
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
)

// IsValid checks if the value is one of the defined statuses.
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// Scan implements sql.Scanner for reading the ENUM from PostgreSQL.
func (s *QuoteStatus) Scan(src interface{}) error {
	if src == nil {
		*s = QuoteStatusDraft // default
		return nil
	}

	var str string
	switch v := src.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into QuoteStatus", src)
	}

	*s = QuoteStatus(str)
	if !s.IsValid() {
		return fmt.Errorf("invalid QuoteStatus value: %s", str)
	}
	return nil
}

// Value implements driver.Valuer for writing the ENUM to PostgreSQL.
func (s QuoteStatus) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid QuoteStatus value: %s", string(s))
	}
	return string(s), nil
}

// PaymentMethod records how a payment was made (native PostgreSQL ENUM).
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "CASH"
	PaymentMethodZelle PaymentMethod = "ZELLE"
	PaymentMethodVenmo PaymentMethod = "VENMO"
	PaymentMethodBank  PaymentMethod = "BANK"
	PaymentMethodCard  PaymentMethod = "CARD"
	PaymentMethodOther PaymentMethod = "OTHER"
)

// IsValid checks if the value is one of the defined methods.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodZelle, PaymentMethodVenmo,
		PaymentMethodBank, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// Scan implements sql.Scanner for reading the ENUM from PostgreSQL.
func (m *PaymentMethod) Scan(src interface{}) error {
	if src == nil {
		*m = PaymentMethodOther // default
		return nil
	}

	var str string
	switch v := src.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentMethod", src)
	}

	*m = PaymentMethod(str)
	if !m.IsValid() {
		return fmt.Errorf("invalid PaymentMethod value: %s", str)
	}
	return nil
}

// Value implements driver.Valuer for writing the ENUM to PostgreSQL.
func (m PaymentMethod) Value() (driver.Value, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("invalid PaymentMethod value: %s", string(m))
	}
	return string(m), nil
}

// QuoteLineItem is one line of a quote, stored as JSONB on the quote row.
type QuoteLineItem struct {
	Description string  `json:"description" validate:"required,min=1,max=500"`
	Amount      float64 `json:"amount" validate:"min=0"`
	Quantity    int     `json:"quantity" validate:"min=1"`
}

// Quote is a vendor quote. Amounts are whole currency units, matching the
// spreadsheet-style budget the planners work from.
type Quote struct {
	ID        string `json:"id" db:"id"`
	WeddingID string `json:"weddingId" db:"wedding_id"`
	VendorID  string `json:"vendorId" db:"vendor_id"`

	Title       string          `json:"title" db:"title"`
	AmountTotal float64         `json:"amountTotal" db:"amount_total"`
	Currency    string          `json:"currency" db:"currency"`
	Status      QuoteStatus     `json:"status" db:"status"`
	Notes       *string         `json:"notes,omitempty" db:"notes"`
	LineItems   []QuoteLineItem `json:"lineItems" db:"line_items"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Payment is a payment toward a vendor or quote. ApprovedBy is set when a
// payment.approve holder signs off.
type Payment struct {
	ID        string  `json:"id" db:"id"`
	WeddingID string  `json:"weddingId" db:"wedding_id"`
	VendorID  *string `json:"vendorId,omitempty" db:"vendor_id"`
	QuoteID   *string `json:"quoteId,omitempty" db:"quote_id"`

	Amount   float64       `json:"amount" db:"amount"`
	Currency string        `json:"currency" db:"currency"`
	Method   PaymentMethod `json:"method" db:"method"`
	Note     *string       `json:"note,omitempty" db:"note"`
	PaidAt   time.Time     `json:"paidAt" db:"paid_at"`

	CreatedByUserID string  `json:"createdByUserId" db:"created_by_user_id"`
	ApprovedBy      *string `json:"approvedBy,omitempty" db:"approved_by"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateQuoteRequest is the DTO for quote creation.
type CreateQuoteRequest struct {
	VendorID    string          `json:"vendorId" validate:"required"`
	Title       string          `json:"title" validate:"required,min=1,max=200"`
	AmountTotal float64         `json:"amountTotal" validate:"min=0"`
	Currency    *string         `json:"currency,omitempty" validate:"omitempty,len=3"`
	Notes       *string         `json:"notes,omitempty" validate:"omitempty,max=5000"`
	LineItems   []QuoteLineItem `json:"lineItems,omitempty" validate:"omitempty,dive"`
	Status      *QuoteStatus    `json:"status,omitempty" validate:"omitempty,oneof=DRAFT SENT ACCEPTED REJECTED"`
}

// UpdateQuoteRequest is the DTO for partial quote updates.
type UpdateQuoteRequest struct {
	Title       *string         `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	AmountTotal *float64        `json:"amountTotal,omitempty" validate:"omitempty,min=0"`
	Currency    *string         `json:"currency,omitempty" validate:"omitempty,len=3"`
	Notes       *string         `json:"notes,omitempty" validate:"omitempty,max=5000"`
	LineItems   []QuoteLineItem `json:"lineItems,omitempty" validate:"omitempty,dive"`
	Status      *QuoteStatus    `json:"status,omitempty" validate:"omitempty,oneof=DRAFT SENT ACCEPTED REJECTED"`
}

// CreatePaymentRequest is the DTO for payment creation.
type CreatePaymentRequest struct {
	VendorID *string        `json:"vendorId,omitempty"`
	QuoteID  *string        `json:"quoteId,omitempty"`
	Amount   float64        `json:"amount" validate:"required,gt=0"`
	Currency *string        `json:"currency,omitempty" validate:"omitempty,len=3"`
	Method   *PaymentMethod `json:"method,omitempty" validate:"omitempty,oneof=CASH ZELLE VENMO BANK CARD OTHER"`
	Note     *string        `json:"note,omitempty" validate:"omitempty,max=1000"`
	PaidAt   *time.Time     `json:"paidAt,omitempty"`
}

// BudgetSummary aggregates quotes and payments for the budget page.
type BudgetSummary struct {
	TotalQuoted   float64               `json:"totalQuoted"`
	TotalPaid     float64               `json:"totalPaid"`
	TotalApproved float64               `json:"totalApproved"`
	Currency      string                `json:"currency"`
	ByVendor      []VendorBudgetSummary `json:"byVendor"`
}

// VendorBudgetSummary is the per-vendor budget line.
type VendorBudgetSummary struct {
	VendorID   string  `json:"vendorId"`
	VendorName string  `json:"vendorName"`
	Quoted     float64 `json:"quoted"`
	Paid       float64 `json:"paid"`
	Remaining  float64 `json:"remaining"`
}
