package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
	"github.com/campuslink/alumni-hub-api/pkg/jobs"
)

type mockNotifAnnouncementRepo struct {
	announcements []models.Announcement
}

func (m *mockNotifAnnouncementRepo) ListActive(ctx context.Context, limit int) ([]models.Announcement, error) {
	return m.announcements, nil
}

type mockNotifEventRepo struct {
	events []models.EventWithStats
}

func (m *mockNotifEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.EventWithStats, error) {
	return m.events, nil
}

type mockNotifForumRepo struct {
	posts []models.ForumPostSummary
}

func (m *mockNotifForumRepo) RecentPosts(ctx context.Context, limit int) ([]models.ForumPostSummary, error) {
	return m.posts, nil
}

type mockNotifRegistrationRepo struct {
	approved []models.UserRegistration
	byID     map[string]models.UserRegistration
}

func (m *mockNotifRegistrationRepo) ListApprovedForEvents(ctx context.Context, eventIDs []string) ([]models.UserRegistration, error) {
	wanted := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = true
	}
	var out []models.UserRegistration
	for _, reg := range m.approved {
		if wanted[reg.EventID] {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (m *mockNotifRegistrationRepo) ListByIDs(ctx context.Context, ids []string) ([]models.UserRegistration, error) {
	var out []models.UserRegistration
	for _, id := range ids {
		if reg, ok := m.byID[id]; ok {
			out = append(out, reg)
		}
	}
	return out, nil
}

func startTestQueue(t *testing.T) *jobs.Queue {
	t.Helper()
	queue := jobs.NewQueue("test-notifications", func(ctx context.Context, job jobs.Job) error {
		return nil
	}, jobs.QueueConfig{Workers: 1, BufferSize: 32})
	queue.Start(context.Background())
	t.Cleanup(queue.Stop)
	return queue
}

func approvedRegistration(id, eventID, userID, title string, at time.Time) models.UserRegistration {
	return models.UserRegistration{
		Registration: models.Registration{
			ID:      id,
			EventID: eventID,
			UserID:  userID,
			Status:  models.RegistrationStatusApproved,
		},
		EventTitle:  title,
		ScheduledAt: models.NewFlexTime(at),
	}
}

func TestNotificationFeedSortsAndCaps(t *testing.T) {
	now := time.Now()
	svc := NewNotificationService(
		&mockNotifAnnouncementRepo{announcements: []models.Announcement{
			{Title: "Homecoming", Content: "Save the date", CreatedAt: now.Add(-time.Hour)},
		}},
		&mockNotifEventRepo{events: []models.EventWithStats{
			{Event: models.Event{ID: "evt-1", Title: "Reunion", Location: "Hall", ScheduledAt: models.NewFlexTime(now.Add(72 * time.Hour))}},
			{Event: models.Event{ID: "evt-2", Title: "Old Gala", ScheduledAt: models.NewFlexTime(now.Add(-72 * time.Hour))}},
		}},
		&mockNotifForumRepo{posts: []models.ForumPostSummary{
			{ForumPost: models.ForumPost{Title: "Hiring thread", Content: "Roles open", CreatedAt: now.Add(-2 * time.Hour)}},
			{ForumPost: models.ForumPost{Title: "Meetup recap", Content: "Photos inside", CreatedAt: now.Add(-3 * time.Hour)}},
		}},
		&mockNotifRegistrationRepo{},
		nil, nil, NotificationConfig{FeedLimit: 3},
	)

	feed, err := svc.Feed(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, feed.Count)
	assert.Equal(t, models.NotificationEvent, feed.Notifications[0].Type, "future event sorts first")
	assert.Equal(t, "Upcoming: Reunion", feed.Notifications[0].Title)
	for _, n := range feed.Notifications {
		assert.NotEqual(t, "Old Gala", n.Title, "past events stay out of the feed")
	}
}

func TestRemindEventsFansOutAcrossEvents(t *testing.T) {
	now := time.Now()
	regs := &mockNotifRegistrationRepo{approved: []models.UserRegistration{
		approvedRegistration("reg-1", "evt-1", "usr-1", "Reunion", now),
		approvedRegistration("reg-2", "evt-1", "usr-2", "Reunion", now),
		approvedRegistration("reg-3", "evt-2", "usr-3", "Gala", now),
	}}
	queue := startTestQueue(t)
	svc := NewNotificationService(&mockNotifAnnouncementRepo{}, &mockNotifEventRepo{}, &mockNotifForumRepo{}, regs, queue, nil, NotificationConfig{})

	queued, err := svc.RemindEvents(context.Background(), []string{"evt-1", "evt-2"})
	require.NoError(t, err)
	assert.Equal(t, 3, queued)

	_, err = svc.RemindEvents(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRemindRegistrationsSkipsUnknownIDs(t *testing.T) {
	now := time.Now()
	regs := &mockNotifRegistrationRepo{byID: map[string]models.UserRegistration{
		"reg-1": approvedRegistration("reg-1", "evt-1", "usr-1", "Reunion", now),
	}}
	queue := startTestQueue(t)
	svc := NewNotificationService(&mockNotifAnnouncementRepo{}, &mockNotifEventRepo{}, &mockNotifForumRepo{}, regs, queue, nil, NotificationConfig{})

	queued, err := svc.RemindRegistrations(context.Background(), []string{"reg-1", "reg-missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, queued)
}

func TestBroadcastEventQueuesApprovedAttendees(t *testing.T) {
	now := time.Now()
	regs := &mockNotifRegistrationRepo{approved: []models.UserRegistration{
		approvedRegistration("reg-1", "evt-1", "usr-1", "Reunion", now),
		approvedRegistration("reg-2", "evt-1", "usr-2", "Reunion", now),
	}}
	queue := startTestQueue(t)
	svc := NewNotificationService(&mockNotifAnnouncementRepo{}, &mockNotifEventRepo{}, &mockNotifForumRepo{}, regs, queue, nil, NotificationConfig{})

	queued, err := svc.BroadcastEvent(context.Background(), "evt-1", "Venue change", "We moved to the annex")
	require.NoError(t, err)
	assert.Equal(t, 2, queued)

	_, err = svc.BroadcastEvent(context.Background(), "evt-1", "", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
