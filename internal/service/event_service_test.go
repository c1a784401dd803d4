package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
)

type mockEventRepo struct {
	events      map[string]models.EventWithStats
	listed      []models.EventWithStats
	created     []*models.Event
	updated     *models.Event
	rescheduled map[string]time.Time
	deleted     []string
	bulkDeleted []string
}

func (m *mockEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.EventWithStats, error) {
	return m.listed, nil
}

func (m *mockEventRepo) FindByID(ctx context.Context, id string) (*models.EventWithStats, error) {
	if e, ok := m.events[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = "new-event"
	}
	m.created = append(m.created, event)
	return nil
}

func (m *mockEventRepo) Update(ctx context.Context, event *models.Event) error {
	m.updated = event
	return nil
}

func (m *mockEventRepo) UpdateScheduledAt(ctx context.Context, id string, scheduledAt time.Time) error {
	if _, ok := m.events[id]; !ok {
		return sql.ErrNoRows
	}
	if m.rescheduled == nil {
		m.rescheduled = make(map[string]time.Time)
	}
	m.rescheduled[id] = scheduledAt
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return sql.ErrNoRows
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockEventRepo) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	m.bulkDeleted = append(m.bulkDeleted, ids...)
	return int64(len(ids)), nil
}

func (m *mockEventRepo) CountAll(ctx context.Context) (int, error) {
	return len(m.events), nil
}

func (m *mockEventRepo) LiveStatus(ctx context.Context, ids []string) ([]models.LiveEventStatus, error) {
	out := make([]models.LiveEventStatus, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.LiveEventStatus{ID: id})
	}
	return out, nil
}

type mockEventRegistrationRepo struct {
	existing map[string]models.Registration
	created  *models.Registration
	byUser   []models.UserRegistration
}

func (m *mockEventRegistrationRepo) FindByEventAndUser(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	if r, ok := m.existing[eventID+"|"+userID]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEventRegistrationRepo) Create(ctx context.Context, reg *models.Registration) error {
	if reg.ID == "" {
		reg.ID = "new-reg"
	}
	m.created = reg
	return nil
}

func (m *mockEventRegistrationRepo) ListByUser(ctx context.Context, userID string) ([]models.UserRegistration, error) {
	return m.byUser, nil
}

func newEventServiceForTest(events *mockEventRepo, regs *mockEventRegistrationRepo) *EventService {
	return NewEventService(events, regs, nil, nil, EventConfig{PastEventsLimit: 2})
}

func statsEvent(id string, at time.Time, requiresApproval bool) models.EventWithStats {
	return models.EventWithStats{
		Event: models.Event{
			ID:               id,
			Title:            "Event " + id,
			ScheduledAt:      models.NewFlexTime(at),
			Location:         "Hall",
			EventType:        "seminar",
			RequiresApproval: requiresApproval,
		},
	}
}

func TestEventServiceRegisterDefaultsToApproved(t *testing.T) {
	events := &mockEventRepo{events: map[string]models.EventWithStats{
		"evt-1": statsEvent("evt-1", time.Now().Add(48*time.Hour), false),
	}}
	regs := &mockEventRegistrationRepo{}
	svc := newEventServiceForTest(events, regs)

	reg, err := svc.Register(context.Background(), "evt-1", "usr-1")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusApproved, reg.Status)
	assert.NotNil(t, regs.created)
}

func TestEventServiceRegisterPendingWhenApprovalRequired(t *testing.T) {
	events := &mockEventRepo{events: map[string]models.EventWithStats{
		"evt-1": statsEvent("evt-1", time.Now().Add(48*time.Hour), true),
	}}
	regs := &mockEventRegistrationRepo{}
	svc := newEventServiceForTest(events, regs)

	reg, err := svc.Register(context.Background(), "evt-1", "usr-1")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusPending, reg.Status)
}

func TestEventServiceRegisterTwiceReportsExisting(t *testing.T) {
	events := &mockEventRepo{events: map[string]models.EventWithStats{
		"evt-1": statsEvent("evt-1", time.Now().Add(48*time.Hour), false),
	}}
	existing := models.Registration{ID: "reg-1", EventID: "evt-1", UserID: "usr-1", Status: models.RegistrationStatusApproved}
	regs := &mockEventRegistrationRepo{existing: map[string]models.Registration{"evt-1|usr-1": existing}}
	svc := newEventServiceForTest(events, regs)

	reg, err := svc.Register(context.Background(), "evt-1", "usr-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrAlreadyRegistered.Code, appErr.Code)
	require.NotNil(t, reg)
	assert.Equal(t, "reg-1", reg.ID)
	assert.Nil(t, regs.created, "no second row may be written")
}

func TestEventServiceRegisterUnknownEvent(t *testing.T) {
	svc := newEventServiceForTest(&mockEventRepo{}, &mockEventRegistrationRepo{})

	_, err := svc.Register(context.Background(), "missing", "usr-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEventServiceCreateAcceptsZeroCapacity(t *testing.T) {
	events := &mockEventRepo{}
	svc := newEventServiceForTest(events, &mockEventRegistrationRepo{})

	capacity := 0
	created, err := svc.Create(context.Background(), CreateEventRequest{
		Title:       "Walk-in Open House",
		ScheduledAt: time.Now().Add(72 * time.Hour),
		Location:    "Quad",
		EventType:   "meetup",
		Capacity:    &capacity,
	}, "adm-1")
	require.NoError(t, err)
	require.NotNil(t, created.Capacity)
	assert.Equal(t, 0, *created.Capacity)

	negative := -1
	_, err = svc.Create(context.Background(), CreateEventRequest{
		Title:       "Bad Capacity",
		ScheduledAt: time.Now().Add(72 * time.Hour),
		Location:    "Quad",
		EventType:   "meetup",
		Capacity:    &negative,
	}, "adm-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEventServiceBulkDeleteRejectsEmptySelection(t *testing.T) {
	events := &mockEventRepo{}
	svc := newEventServiceForTest(events, &mockEventRegistrationRepo{})

	_, err := svc.BulkDelete(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, events.bulkDeleted)
}

func TestEventServiceDuplicate(t *testing.T) {
	source := statsEvent("evt-1", time.Now().Add(-30*24*time.Hour), true)
	source.Title = "Annual Gala"
	source.RegistrationCount = 12
	events := &mockEventRepo{events: map[string]models.EventWithStats{"evt-1": source}}
	svc := newEventServiceForTest(events, &mockEventRegistrationRepo{})

	before := time.Now().UTC()
	clone, err := svc.Duplicate(context.Background(), "evt-1", "adm-1")
	require.NoError(t, err)
	assert.Equal(t, "Copy of Annual Gala", clone.Title)
	assert.Equal(t, "adm-1", clone.CreatedBy)
	require.True(t, clone.ScheduledAt.Valid)
	assert.WithinDuration(t, before.Add(7*24*time.Hour), clone.ScheduledAt.Time, time.Minute)
	require.Len(t, events.created, 1)
}

func TestEventServiceEndBackdatesSchedule(t *testing.T) {
	events := &mockEventRepo{events: map[string]models.EventWithStats{
		"evt-1": statsEvent("evt-1", time.Now().Add(24*time.Hour), false),
	}}
	svc := newEventServiceForTest(events, &mockEventRegistrationRepo{})

	require.NoError(t, svc.End(context.Background(), "evt-1"))
	rescheduled, ok := events.rescheduled["evt-1"]
	require.True(t, ok)
	assert.True(t, rescheduled.Before(time.Now()))
}

func TestEventServiceEndUnknownEvent(t *testing.T) {
	svc := newEventServiceForTest(&mockEventRepo{}, &mockEventRegistrationRepo{})

	err := svc.End(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEventServiceListCategorizedTrimsHistory(t *testing.T) {
	now := time.Now()
	events := &mockEventRepo{listed: []models.EventWithStats{
		statsEvent("evt-1", now, false),
		statsEvent("evt-2", now.Add(72*time.Hour), false),
		statsEvent("evt-3", now.Add(-24*time.Hour), false),
		statsEvent("evt-4", now.Add(-48*time.Hour), false),
		statsEvent("evt-5", now.Add(-72*time.Hour), false),
	}}
	svc := newEventServiceForTest(events, &mockEventRegistrationRepo{})

	categorized, err := svc.ListCategorized(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, categorized.Ongoing, 1)
	assert.Len(t, categorized.Upcoming, 1)
	assert.Len(t, categorized.Past, 2, "history bucket is capped by config")
}

func TestEventServiceListCategorizedSkipsInvalidTimestamps(t *testing.T) {
	broken := statsEvent("evt-1", time.Now(), false)
	broken.ScheduledAt = models.FlexTime{}
	events := &mockEventRepo{listed: []models.EventWithStats{
		broken,
		statsEvent("evt-2", time.Now().Add(24*time.Hour), false),
	}}
	svc := newEventServiceForTest(events, &mockEventRegistrationRepo{})

	categorized, err := svc.ListCategorized(context.Background(), "")
	require.NoError(t, err)
	total := len(categorized.Ongoing) + len(categorized.Upcoming) + len(categorized.Past)
	assert.Equal(t, 1, total, "unreadable schedules are dropped, not fatal")
}

func TestEventServiceOverviewCountsRegistrations(t *testing.T) {
	now := time.Now()
	a := statsEvent("evt-1", now, false)
	a.RegistrationCount = 3
	b := statsEvent("evt-2", now.Add(48*time.Hour), false)
	b.RegistrationCount = 2
	events := &mockEventRepo{listed: []models.EventWithStats{a, b}}
	svc := newEventServiceForTest(events, &mockEventRegistrationRepo{})

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, overview.TotalEvents)
	assert.Equal(t, 5, overview.TotalRegistrations)
	assert.Equal(t, 1, overview.OngoingCount)
	assert.Equal(t, 1, overview.UpcomingCount)
}
