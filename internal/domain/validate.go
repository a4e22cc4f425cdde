package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate sanitizes and validates the CreateTaskRequest.
func (r *CreateTaskRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	return validate.Struct(r)
}

// Validate sanitizes and validates the UpdateTaskRequest.
func (r *UpdateTaskRequest) Validate() error {
	if r.Title != nil {
		trimmed := strings.TrimSpace(*r.Title)
		r.Title = &trimmed
	}
	return validate.Struct(r)
}

// Validate validates the UpdateTaskACLRequest. A user present in both lists
// is rejected up front; block-wins would make the allow entry dead weight.
func (r *UpdateTaskACLRequest) Validate() error {
	blocked := make(map[string]bool, len(r.BlockedUserIDs))
	for _, id := range r.BlockedUserIDs {
		blocked[id] = true
	}
	for _, id := range r.AllowedUserIDs {
		if blocked[id] {
			return &ACLConflictError{UserID: id}
		}
	}
	return validate.Struct(r)
}

// ACLConflictError reports a user listed as both allowed and blocked.
type ACLConflictError struct {
	UserID string
}

func (e *ACLConflictError) Error() string {
	return "user " + e.UserID + " cannot be both allowed and blocked"
}

// Validate sanitizes and validates the CreateVendorRequest.
func (r *CreateVendorRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	return validate.Struct(r)
}

// Validate sanitizes and validates the UpdateVendorRequest.
func (r *UpdateVendorRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	if r.Category != nil {
		trimmed := strings.TrimSpace(*r.Category)
		r.Category = &trimmed
	}
	return validate.Struct(r)
}

// Validate sanitizes and validates the CreateQuoteRequest.
func (r *CreateQuoteRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	return validate.Struct(r)
}

// Validate sanitizes and validates the UpdateQuoteRequest.
func (r *UpdateQuoteRequest) Validate() error {
	if r.Title != nil {
		trimmed := strings.TrimSpace(*r.Title)
		r.Title = &trimmed
	}
	return validate.Struct(r)
}

// Validate validates the CreatePaymentRequest.
func (r *CreatePaymentRequest) Validate() error {
	return validate.Struct(r)
}

// Validate sanitizes and validates the CreateEventDayRequest.
func (r *CreateEventDayRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	return validate.Struct(r)
}

// Validate sanitizes and validates the CreateTimelineItemRequest.
func (r *CreateTimelineItemRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	return validate.Struct(r)
}

// Validate sanitizes and validates the ShiftDayRequest.
func (r *ShiftDayRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	return validate.Struct(r)
}
