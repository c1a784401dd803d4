package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/alumni-hub-api/internal/models"
)

func TestClassifyDateGranularity(t *testing.T) {
	now := time.Date(2025, 9, 3, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		scheduled time.Time
		want      Status
	}{
		{"earlier today still ongoing", time.Date(2025, 9, 3, 0, 1, 0, 0, time.UTC), StatusOngoing},
		{"later today ongoing", time.Date(2025, 9, 3, 23, 59, 0, 0, time.UTC), StatusOngoing},
		{"tomorrow upcoming", time.Date(2025, 9, 4, 0, 0, 1, 0, time.UTC), StatusUpcoming},
		{"next month upcoming", now.AddDate(0, 1, 0), StatusUpcoming},
		{"yesterday past", time.Date(2025, 9, 2, 23, 59, 59, 0, time.UTC), StatusPast},
		{"last year past", now.AddDate(-1, 0, 0), StatusPast},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(models.NewFlexTime(tc.scheduled), now)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyInvalidTimestamp(t *testing.T) {
	got := Classify(models.FlexTime{}, time.Now())
	assert.Equal(t, StatusUnknown, got)
}

func TestClassifyLegacyFormats(t *testing.T) {
	now := time.Date(2025, 9, 3, 12, 0, 0, 0, time.UTC)

	var iso models.FlexTime
	require.NoError(t, iso.Scan("2025-09-03T08:30:00Z"))
	assert.Equal(t, StatusOngoing, Classify(iso, now))

	var plain models.FlexTime
	require.NoError(t, plain.Scan("2025-10-01 10:00:00"))
	assert.Equal(t, StatusUpcoming, Classify(plain, now))

	var garbage models.FlexTime
	require.NoError(t, garbage.Scan("not-a-date"))
	assert.Equal(t, StatusUnknown, Classify(garbage, now))
}

func TestCategorizeSkipsUnparseable(t *testing.T) {
	now := time.Date(2025, 9, 3, 12, 0, 0, 0, time.UTC)

	events := []models.EventWithStats{
		{Event: models.Event{ID: "e1", ScheduledAt: models.NewFlexTime(now.Add(2 * time.Hour))}},
		{Event: models.Event{ID: "e2", ScheduledAt: models.NewFlexTime(now.AddDate(0, 0, 30))}},
		{Event: models.Event{ID: "e3", ScheduledAt: models.NewFlexTime(now.AddDate(0, 0, -3))}},
		{Event: models.Event{ID: "e4"}}, // invalid timestamp
	}

	got := Categorize(events, now)
	require.Len(t, got.Ongoing, 1)
	require.Len(t, got.Upcoming, 1)
	require.Len(t, got.Past, 1)
	assert.Equal(t, "e1", got.Ongoing[0].ID)
	assert.Equal(t, "ongoing", got.Ongoing[0].Status)
	assert.Equal(t, "e2", got.Upcoming[0].ID)
	assert.Equal(t, "e3", got.Past[0].ID)
}

func TestStatusTitle(t *testing.T) {
	assert.Equal(t, "Ongoing", StatusOngoing.Title())
	assert.Equal(t, "Upcoming", StatusUpcoming.Title())
	assert.Equal(t, "Past", StatusPast.Title())
	assert.Equal(t, "", StatusUnknown.Title())
}
