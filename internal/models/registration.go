package models

import "time"

// RegistrationStatus enumerates the approval workflow states.
type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

// ValidRegistrationStatus reports whether the value is a known workflow state.
func ValidRegistrationStatus(s string) bool {
	switch RegistrationStatus(s) {
	case RegistrationStatusPending, RegistrationStatusApproved, RegistrationStatusRejected:
		return true
	default:
		return false
	}
}

// Registration links one user to one event. At most one registration exists
// per (event, user) pair; its lifetime never exceeds the event's.
type Registration struct {
	ID           string             `db:"id" json:"id"`
	EventID      string             `db:"event_id" json:"event_id"`
	UserID       string             `db:"user_id" json:"user_id"`
	Status       RegistrationStatus `db:"status" json:"status"`
	AdminNotes   *string            `db:"admin_notes" json:"admin_notes,omitempty"`
	Attended     bool               `db:"attended" json:"attended"`
	RegisteredAt time.Time          `db:"registered_at" json:"registered_at"`
}

// RegistrationDetail joins a registration with its attendee identity for
// admin listings.
type RegistrationDetail struct {
	Registration
	Name       string  `db:"name" json:"name"`
	Email      string  `db:"email" json:"email"`
	BatchYear  *int    `db:"batch_year" json:"batch_year,omitempty"`
	Department *string `db:"department" json:"department,omitempty"`
	Company    *string `db:"company" json:"company,omitempty"`
}

// UserRegistration joins a registration with its event for per-user history.
type UserRegistration struct {
	Registration
	EventTitle  string   `db:"title" json:"event_title"`
	ScheduledAt FlexTime `db:"scheduled_at" json:"scheduled_at"`
	Location    string   `db:"location" json:"location"`
}
