package models

import "time"

// MentorshipStatus enumerates request workflow states.
type MentorshipStatus string

const (
	MentorshipPending  MentorshipStatus = "pending"
	MentorshipAccepted MentorshipStatus = "accepted"
	MentorshipRejected MentorshipStatus = "rejected"
)

// MentorshipRequest links a mentee to a prospective mentor.
type MentorshipRequest struct {
	ID        string           `db:"id" json:"id"`
	MentorID  string           `db:"mentor_id" json:"mentor_id"`
	MenteeID  string           `db:"mentee_id" json:"mentee_id"`
	Message   *string          `db:"message" json:"message,omitempty"`
	Status    MentorshipStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// MentorshipRequestDetail decorates a request with the other party's name:
// the mentee's name when listed for a mentor, the mentor's when listed for a
// mentee.
type MentorshipRequestDetail struct {
	MentorshipRequest
	CounterpartName string `db:"counterpart_name" json:"counterpart_name"`
}
