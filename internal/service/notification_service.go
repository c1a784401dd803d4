package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuslink/alumni-hub-api/internal/lifecycle"
	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
	"github.com/campuslink/alumni-hub-api/pkg/jobs"
)

const (
	jobTypeEventReminder = "event_reminder"
	jobTypeBroadcast     = "announcement_broadcast"
	jobTypeEventMessage  = "event_message"
)

type notificationAnnouncementRepository interface {
	ListActive(ctx context.Context, limit int) ([]models.Announcement, error)
}

type notificationEventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.EventWithStats, error)
}

type notificationForumRepository interface {
	RecentPosts(ctx context.Context, limit int) ([]models.ForumPostSummary, error)
}

type notificationRegistrationRepository interface {
	ListApprovedForEvents(ctx context.Context, eventIDs []string) ([]models.UserRegistration, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.UserRegistration, error)
}

// ReminderPayload is the job body for one attendee reminder.
type ReminderPayload struct {
	UserID      string
	EventID     string
	EventTitle  string
	ScheduledAt time.Time
}

// BroadcastPayload is the job body for an announcement broadcast.
type BroadcastPayload struct {
	AnnouncementID string
	Title          string
}

// EventMessagePayload is the job body for a message to one event attendee.
type EventMessagePayload struct {
	UserID  string
	EventID string
	Subject string
	Content string
}

// NotificationConfig tunes feed assembly.
type NotificationConfig struct {
	FeedLimit int
}

// NotificationService assembles the activity feed and dispatches reminder
// jobs onto the background queue.
type NotificationService struct {
	announcements notificationAnnouncementRepository
	events        notificationEventRepository
	forum         notificationForumRepository
	registrations notificationRegistrationRepository
	queue         *jobs.Queue
	logger        *zap.Logger
	config        NotificationConfig
	now           func() time.Time
}

// NewNotificationService constructs the service. The queue may be nil in
// which case reminder dispatch becomes a no-op.
func NewNotificationService(
	announcements notificationAnnouncementRepository,
	events notificationEventRepository,
	forum notificationForumRepository,
	registrations notificationRegistrationRepository,
	queue *jobs.Queue,
	logger *zap.Logger,
	config NotificationConfig,
) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.FeedLimit <= 0 {
		config.FeedLimit = 10
	}
	return &NotificationService{
		announcements: announcements,
		events:        events,
		forum:         forum,
		registrations: registrations,
		queue:         queue,
		logger:        logger,
		config:        config,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Feed assembles the activity feed from active announcements, upcoming
// events and recent forum threads, newest first.
func (s *NotificationService) Feed(ctx context.Context) (*models.NotificationFeed, error) {
	feed := &models.NotificationFeed{Notifications: []models.Notification{}}

	announcements, err := s.announcements.ListActive(ctx, s.config.FeedLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcements")
	}
	for _, ann := range announcements {
		feed.Notifications = append(feed.Notifications, models.Notification{
			Type:    models.NotificationAnnouncement,
			Title:   ann.Title,
			Message: ann.Content,
			Time:    ann.CreatedAt,
		})
	}

	events, err := s.events.List(ctx, models.EventFilter{Order: models.EventOrderUpcoming})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}
	now := s.now()
	for _, event := range events {
		if lifecycle.Classify(event.ScheduledAt, now) != lifecycle.StatusUpcoming {
			continue
		}
		feed.Notifications = append(feed.Notifications, models.Notification{
			Type:    models.NotificationEvent,
			Title:   "Upcoming: " + event.Title,
			Message: event.Location,
			Time:    event.ScheduledAt.Time,
		})
	}

	posts, err := s.forum.RecentPosts(ctx, s.config.FeedLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load forum posts")
	}
	for _, post := range posts {
		feed.Notifications = append(feed.Notifications, models.Notification{
			Type:    models.NotificationForum,
			Title:   post.Title,
			Message: post.Content,
			Time:    post.CreatedAt,
		})
	}

	sort.Slice(feed.Notifications, func(i, j int) bool {
		return feed.Notifications[i].Time.After(feed.Notifications[j].Time)
	})
	if len(feed.Notifications) > s.config.FeedLimit {
		feed.Notifications = feed.Notifications[:s.config.FeedLimit]
	}
	feed.Count = len(feed.Notifications)
	return feed, nil
}

// DispatchEventReminders enqueues one reminder job per approved registration
// of every event happening tomorrow. It returns the number of jobs enqueued.
func (s *NotificationService) DispatchEventReminders(ctx context.Context) (int, error) {
	if s.queue == nil {
		return 0, nil
	}
	events, err := s.events.List(ctx, models.EventFilter{Order: models.EventOrderUpcoming})
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}

	tomorrow := s.now().Add(24 * time.Hour)
	ty, tm, td := tomorrow.Date()
	var dueIDs []string
	for _, event := range events {
		if !event.ScheduledAt.Valid {
			continue
		}
		ey, em, ed := event.ScheduledAt.Time.Date()
		if ey == ty && em == tm && ed == td {
			dueIDs = append(dueIDs, event.ID)
		}
	}
	if len(dueIDs) == 0 {
		return 0, nil
	}

	regs, err := s.registrations.ListApprovedForEvents(ctx, dueIDs)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}
	return s.enqueueReminders(regs), nil
}

// RemindRegistrations enqueues a reminder for each of the given
// registrations, whatever their event. An empty id set is a validation error.
func (s *NotificationService) RemindRegistrations(ctx context.Context, registrationIDs []string) (int, error) {
	if len(registrationIDs) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no registration ids provided")
	}
	if s.queue == nil {
		return 0, nil
	}
	regs, err := s.registrations.ListByIDs(ctx, registrationIDs)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}
	return s.enqueueReminders(regs), nil
}

// RemindEvents enqueues a reminder for every approved registration of the
// given events. An empty id set is a validation error.
func (s *NotificationService) RemindEvents(ctx context.Context, eventIDs []string) (int, error) {
	if len(eventIDs) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no event ids provided")
	}
	if s.queue == nil {
		return 0, nil
	}
	regs, err := s.registrations.ListApprovedForEvents(ctx, eventIDs)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}
	return s.enqueueReminders(regs), nil
}

// BroadcastEvent enqueues a message job for every approved attendee of an
// event. It returns the number of recipients queued.
func (s *NotificationService) BroadcastEvent(ctx context.Context, eventID, subject, content string) (int, error) {
	if subject == "" || content == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "subject and content are required")
	}
	if s.queue == nil {
		return 0, nil
	}
	regs, err := s.registrations.ListApprovedForEvents(ctx, []string{eventID})
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendees")
	}

	queued := 0
	for _, reg := range regs {
		job := jobs.Job{
			ID:   uuid.NewString(),
			Type: jobTypeEventMessage,
			Payload: EventMessagePayload{
				UserID:  reg.UserID,
				EventID: eventID,
				Subject: subject,
				Content: content,
			},
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue event message", zap.String("event_id", eventID), zap.Error(err))
			continue
		}
		queued++
	}
	return queued, nil
}

func (s *NotificationService) enqueueReminders(regs []models.UserRegistration) int {
	enqueued := 0
	for _, reg := range regs {
		job := jobs.Job{
			ID:   uuid.NewString(),
			Type: jobTypeEventReminder,
			Payload: ReminderPayload{
				UserID:      reg.UserID,
				EventID:     reg.EventID,
				EventTitle:  reg.EventTitle,
				ScheduledAt: reg.ScheduledAt.Time,
			},
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue reminder", zap.String("event_id", reg.EventID), zap.Error(err))
			continue
		}
		enqueued++
	}
	return enqueued
}

// BroadcastAnnouncement enqueues a broadcast job for a freshly published
// announcement.
func (s *NotificationService) BroadcastAnnouncement(announcementID, title string) error {
	if s.queue == nil {
		return nil
	}
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobTypeBroadcast,
		Payload: BroadcastPayload{AnnouncementID: announcementID, Title: title},
	}
	if err := s.queue.Enqueue(job); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue broadcast")
	}
	return nil
}

// HandleJob processes queued notification jobs. Delivery is a structured log
// line; the feed itself is assembled on demand.
func (s *NotificationService) HandleJob(ctx context.Context, job jobs.Job) error {
	switch job.Type {
	case jobTypeEventReminder:
		payload, ok := job.Payload.(ReminderPayload)
		if !ok {
			s.logger.Warn("reminder job with unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		s.logger.Info("event reminder delivered",
			zap.String("user_id", payload.UserID),
			zap.String("event_id", payload.EventID),
			zap.String("event_title", payload.EventTitle),
			zap.Time("scheduled_at", payload.ScheduledAt),
		)
	case jobTypeBroadcast:
		payload, ok := job.Payload.(BroadcastPayload)
		if !ok {
			s.logger.Warn("broadcast job with unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		s.logger.Info("announcement broadcast delivered",
			zap.String("announcement_id", payload.AnnouncementID),
			zap.String("title", payload.Title),
		)
	case jobTypeEventMessage:
		payload, ok := job.Payload.(EventMessagePayload)
		if !ok {
			s.logger.Warn("event message job with unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		s.logger.Info("event message delivered",
			zap.String("user_id", payload.UserID),
			zap.String("event_id", payload.EventID),
			zap.String("subject", payload.Subject),
		)
	default:
		s.logger.Warn("unknown notification job type", zap.String("type", job.Type))
	}
	return nil
}
