package models

import "time"

// EventListOrder states the caller's intent for event list ordering.
type EventListOrder string

const (
	// EventOrderUpcoming sorts by scheduled date ascending (soonest first).
	EventOrderUpcoming EventListOrder = "upcoming"
	// EventOrderHistory sorts by scheduled date descending (latest first).
	EventOrderHistory EventListOrder = "history"
)

// Event represents a campus event. Lifecycle status is never stored; it is
// derived from ScheduledAt at read time.
type Event struct {
	ID               string    `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Description      string    `db:"description" json:"description"`
	ScheduledAt      FlexTime  `db:"scheduled_at" json:"scheduled_at"`
	Location         string    `db:"location" json:"location"`
	Capacity         *int      `db:"capacity" json:"capacity,omitempty"`
	EventType        string    `db:"event_type" json:"event_type"`
	RequiresApproval bool      `db:"requires_approval" json:"requires_approval"`
	CreatedBy        string    `db:"created_by" json:"created_by"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// EventWithStats decorates an event with aggregated registration data.
type EventWithStats struct {
	Event
	RegistrationCount int    `db:"registration_count" json:"registration_count"`
	AttendanceCount   int    `db:"attendance_count" json:"attendance_count"`
	IsRegistered      bool   `db:"is_registered" json:"is_registered"`
	Status            string `db:"-" json:"status,omitempty"`
}

// EventFilter restricts event listing.
type EventFilter struct {
	IDs   []string
	Order EventListOrder
	Limit int
	// ViewerID, when set, populates IsRegistered for that user.
	ViewerID string
}

// CategorizedEvents groups events by derived lifecycle status.
type CategorizedEvents struct {
	Ongoing  []EventWithStats `json:"ongoing"`
	Upcoming []EventWithStats `json:"upcoming"`
	Past     []EventWithStats `json:"past"`
}

// EventOverview carries admin listing statistics.
type EventOverview struct {
	TotalEvents        int `json:"total_events"`
	TotalRegistrations int `json:"total_registrations"`
	OngoingCount       int `json:"ongoing_count"`
	UpcomingCount      int `json:"upcoming_count"`
}

// LiveEventStatus reports current attendee counts for today's events.
type LiveEventStatus struct {
	ID               string `db:"id" json:"id"`
	Title            string `db:"title" json:"title"`
	CurrentAttendees int    `db:"current_attendees" json:"current_attendees"`
}
