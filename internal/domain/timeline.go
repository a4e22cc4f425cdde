package domain

import "time"

// EventDay is one day of the wedding program (mehndi, sangeet, ceremony...).
type EventDay struct {
	ID        string    `json:"id" db:"id"`
	WeddingID string    `json:"weddingId" db:"wedding_id"`
	Title     string    `json:"title" db:"title"`
	Date      time.Time `json:"date" db:"date"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TimelineItem is one scheduled slot within an event day.
type TimelineItem struct {
	ID         string `json:"id" db:"id"`
	EventDayID string `json:"eventDayId" db:"event_day_id"`

	Title    string  `json:"title" db:"title"`
	Location *string `json:"location,omitempty" db:"location"`
	VendorID *string `json:"vendorId,omitempty" db:"vendor_id"`

	StartTime time.Time `json:"startTime" db:"start_time"`
	EndTime   time.Time `json:"endTime" db:"end_time"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TimelineAdjustment journals a whole-day shift so it can be undone.
// Reverted adjustments stay in the journal with RevertedAt set.
type TimelineAdjustment struct {
	ID         string `json:"id" db:"id"`
	WeddingID  string `json:"weddingId" db:"wedding_id"`
	EventDayID string `json:"eventDayId" db:"event_day_id"`

	DeltaMinutes int    `json:"deltaMinutes" db:"delta_minutes"`
	Reason       string `json:"reason" db:"reason"`

	CreatedByUserID string     `json:"createdByUserId" db:"created_by_user_id"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	RevertedAt      *time.Time `json:"revertedAt,omitempty" db:"reverted_at"`
}

// CreateEventDayRequest is the DTO for event day creation.
type CreateEventDayRequest struct {
	Title string    `json:"title" validate:"required,min=1,max=200"`
	Date  time.Time `json:"date" validate:"required"`
}

// CreateTimelineItemRequest is the DTO for timeline item creation.
type CreateTimelineItemRequest struct {
	EventDayID string    `json:"eventDayId" validate:"required"`
	Title      string    `json:"title" validate:"required,min=1,max=200"`
	Location   *string   `json:"location,omitempty" validate:"omitempty,max=300"`
	VendorID   *string   `json:"vendorId,omitempty"`
	StartTime  time.Time `json:"startTime" validate:"required"`
	EndTime    time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
}

// ShiftDayRequest shifts every item of an event day by DeltaMinutes.
type ShiftDayRequest struct {
	EventDayID   string `json:"eventDayId" validate:"required"`
	DeltaMinutes int    `json:"deltaMinutes" validate:"required,ne=0,min=-720,max=720"`
	Reason       string `json:"reason" validate:"required,min=1,max=500"`
}
