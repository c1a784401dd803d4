package models

import "time"

// NotificationType tags feed entries by origin.
type NotificationType string

const (
	NotificationAnnouncement NotificationType = "announcement"
	NotificationEvent        NotificationType = "event"
	NotificationForum        NotificationType = "forum"
)

// Notification is a single item in the aggregated notification feed.
type Notification struct {
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Time    time.Time        `json:"time"`
}

// NotificationFeed bundles the feed payload.
type NotificationFeed struct {
	Notifications []Notification `json:"notifications"`
	Count         int            `json:"count"`
}

// AdminStats aggregates counters for the admin dashboard.
type AdminStats struct {
	TotalAlumni         int `json:"total_alumni"`
	VerifiedAlumni      int `json:"verified_alumni"`
	PendingVerification int `json:"pending_verification"`
	TotalEvents         int `json:"total_events"`
	TotalPosts          int `json:"total_posts"`
}
