package models

import "time"

// JobType enumerates job posting categories.
type JobType string

const (
	JobFullTime   JobType = "full-time"
	JobPartTime   JobType = "part-time"
	JobInternship JobType = "internship"
	JobContract   JobType = "contract"
)

// ValidJobType reports whether the value is a known job category.
func ValidJobType(s string) bool {
	switch JobType(s) {
	case JobFullTime, JobPartTime, JobInternship, JobContract:
		return true
	default:
		return false
	}
}

// JobPosting is an opening shared on the job board.
type JobPosting struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Company      string    `db:"company" json:"company"`
	Location     string    `db:"location" json:"location"`
	JobType      JobType   `db:"job_type" json:"job_type"`
	Description  string    `db:"description" json:"description"`
	Requirements *string   `db:"requirements" json:"requirements,omitempty"`
	PostedBy     string    `db:"posted_by" json:"posted_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// JobPostingDetail decorates a posting with the poster's profile name.
type JobPostingDetail struct {
	JobPosting
	PostedByName *string `db:"posted_by_name" json:"posted_by_name,omitempty"`
}

// JobFilter restricts job board listings.
type JobFilter struct {
	JobType  string
	Location string
}
