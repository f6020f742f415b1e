package schedules

import (
	"time"
)

// Schedule is a calendar entry of one business.
type Schedule struct {
	ID          int64     `json:"id"`
	BusinessID  int64     `json:"businessId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ScheduleForm is the create/update request body.
type ScheduleForm struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	StartsAt    time.Time `json:"startsAt" validate:"required"`
	EndsAt      time.Time `json:"endsAt" validate:"required,gtfield=StartsAt"`
}

// Filters narrows List to entries overlapping [From, To).
type Filters struct {
	From time.Time
	To   time.Time
}
