package models

import "time"

// PrivacyLevel controls directory visibility of a profile.
type PrivacyLevel string

const (
	PrivacyPublic  PrivacyLevel = "public"
	PrivacyPrivate PrivacyLevel = "private"
)

// AlumniProfile holds the alumni-facing identity attached to a user account.
type AlumniProfile struct {
	ID                     string       `db:"id" json:"id"`
	UserID                 string       `db:"user_id" json:"user_id"`
	Name                   string       `db:"name" json:"name"`
	BatchYear              *int         `db:"batch_year" json:"batch_year,omitempty"`
	Department             *string      `db:"department" json:"department,omitempty"`
	CurrentJob             *string      `db:"current_job" json:"current_job,omitempty"`
	Company                *string      `db:"company" json:"company,omitempty"`
	Location               *string      `db:"location" json:"location,omitempty"`
	Achievements           *string      `db:"achievements" json:"achievements,omitempty"`
	ProfilePicture         *string      `db:"profile_picture" json:"profile_picture,omitempty"`
	CVFile                 *string      `db:"cv_file" json:"cv_file,omitempty"`
	LinkedinURL            *string      `db:"linkedin_url" json:"linkedin_url,omitempty"`
	PrivacyLevel           PrivacyLevel `db:"privacy_level" json:"privacy_level"`
	AvailableForMentorship bool         `db:"available_for_mentorship" json:"available_for_mentorship"`
	CreatedAt              time.Time    `db:"created_at" json:"created_at"`
}

// ProfileWithEmail decorates a profile with the account email for directory
// and admin views.
type ProfileWithEmail struct {
	AlumniProfile
	Email string `db:"email" json:"email"`
}

// AdminProfileView adds account metadata for the admin profile page.
type AdminProfileView struct {
	ProfileWithEmail
	Verified      bool      `db:"verified" json:"verified"`
	UserCreatedAt time.Time `db:"user_created_at" json:"user_created_at"`
}

// DirectoryFilter restricts the alumni directory search.
type DirectoryFilter struct {
	Search     string
	BatchYear  *int
	Department string
}
