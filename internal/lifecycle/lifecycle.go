// Package lifecycle derives the temporal status of events. The derivation is
// deliberately date-granular: an event scheduled anywhere on today's calendar
// date counts as ongoing regardless of clock time, matching how every listing,
// export and live view categorizes events.
package lifecycle

import (
	"time"

	"github.com/campuslink/alumni-hub-api/internal/models"
)

// Status is the derived lifecycle classification of an event.
type Status string

const (
	StatusOngoing  Status = "ongoing"
	StatusUpcoming Status = "upcoming"
	StatusPast     Status = "past"
	// StatusUnknown marks events whose stored timestamp could not be
	// normalized; callers skip these rather than fail.
	StatusUnknown Status = ""
)

// Classify derives the status of a scheduled time relative to now.
// Same calendar date as now is ongoing, strictly later is upcoming,
// everything else is past. Invalid timestamps yield StatusUnknown.
func Classify(scheduledAt models.FlexTime, now time.Time) Status {
	if !scheduledAt.Valid {
		return StatusUnknown
	}
	sy, sm, sd := scheduledAt.Time.Date()
	ny, nm, nd := now.Date()
	if sy == ny && sm == nm && sd == nd {
		return StatusOngoing
	}
	if scheduledAt.Time.After(now) {
		return StatusUpcoming
	}
	return StatusPast
}

// Categorize splits events into ongoing/upcoming/past buckets, stamping each
// event's Status field. Events with unparseable timestamps are dropped.
func Categorize(events []models.EventWithStats, now time.Time) models.CategorizedEvents {
	out := models.CategorizedEvents{
		Ongoing:  []models.EventWithStats{},
		Upcoming: []models.EventWithStats{},
		Past:     []models.EventWithStats{},
	}
	for _, event := range events {
		status := Classify(event.ScheduledAt, now)
		event.Status = string(status)
		switch status {
		case StatusOngoing:
			out.Ongoing = append(out.Ongoing, event)
		case StatusUpcoming:
			out.Upcoming = append(out.Upcoming, event)
		case StatusPast:
			out.Past = append(out.Past, event)
		}
	}
	return out
}

// Title renders a status for human-facing exports ("Ongoing", "Upcoming",
// "Past").
func (s Status) Title() string {
	switch s {
	case StatusOngoing:
		return "Ongoing"
	case StatusUpcoming:
		return "Upcoming"
	case StatusPast:
		return "Past"
	default:
		return ""
	}
}
