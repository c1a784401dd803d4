package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuslink/alumni-hub-api/internal/lifecycle"
	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.EventWithStats, error)
	FindByID(ctx context.Context, id string) (*models.EventWithStats, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	UpdateScheduledAt(ctx context.Context, id string, scheduledAt time.Time) error
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (int64, error)
	CountAll(ctx context.Context) (int, error)
	LiveStatus(ctx context.Context, ids []string) ([]models.LiveEventStatus, error)
}

type eventRegistrationRepository interface {
	FindByEventAndUser(ctx context.Context, eventID, userID string) (*models.Registration, error)
	Create(ctx context.Context, reg *models.Registration) error
	ListByUser(ctx context.Context, userID string) ([]models.UserRegistration, error)
}

// EventConfig tunes event listing and lifecycle operations.
type EventConfig struct {
	// PastEventsLimit caps the history bucket in categorized listings.
	PastEventsLimit int
	// DuplicateOffset is how far into the future a duplicated event is
	// scheduled.
	DuplicateOffset time.Duration
	// EndEventBackdate is how far into the past an ended event is moved.
	EndEventBackdate time.Duration
}

// EventService handles event lifecycle and registration workflows.
type EventService struct {
	events        eventRepository
	registrations eventRegistrationRepository
	validator     *validator.Validate
	logger        *zap.Logger
	config        EventConfig
	now           func() time.Time
}

// NewEventService constructs the service.
func NewEventService(events eventRepository, registrations eventRegistrationRepository, validate *validator.Validate, logger *zap.Logger, config EventConfig) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.PastEventsLimit <= 0 {
		config.PastEventsLimit = 10
	}
	if config.DuplicateOffset <= 0 {
		config.DuplicateOffset = 7 * 24 * time.Hour
	}
	if config.EndEventBackdate <= 0 {
		config.EndEventBackdate = time.Hour
	}
	return &EventService{
		events:        events,
		registrations: registrations,
		validator:     validate,
		logger:        logger,
		config:        config,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreateEventRequest describes the create payload.
type CreateEventRequest struct {
	Title            string    `json:"title" validate:"required"`
	Description      string    `json:"description"`
	ScheduledAt      time.Time `json:"scheduled_at" validate:"required"`
	Location         string    `json:"location" validate:"required"`
	Capacity         *int      `json:"capacity" validate:"omitempty,min=0"`
	EventType        string    `json:"event_type" validate:"required"`
	RequiresApproval bool      `json:"requires_approval"`
}

// UpdateEventRequest describes the update payload.
type UpdateEventRequest struct {
	Title            string    `json:"title" validate:"required"`
	Description      string    `json:"description"`
	ScheduledAt      time.Time `json:"scheduled_at" validate:"required"`
	Location         string    `json:"location" validate:"required"`
	Capacity         *int      `json:"capacity" validate:"omitempty,min=0"`
	EventType        string    `json:"event_type" validate:"required"`
	RequiresApproval bool      `json:"requires_approval"`
}

// ListCategorized returns every event grouped by lifecycle status. The past
// bucket is trimmed to the configured history limit, newest first in the
// source ordering. When viewerID is set each event carries the viewer's
// registration state.
func (s *EventService) ListCategorized(ctx context.Context, viewerID string) (*models.CategorizedEvents, error) {
	events, err := s.events.List(ctx, models.EventFilter{Order: models.EventOrderHistory, ViewerID: viewerID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	categorized := lifecycle.Categorize(events, s.now())
	if len(categorized.Past) > s.config.PastEventsLimit {
		categorized.Past = categorized.Past[:s.config.PastEventsLimit]
	}
	return &categorized, nil
}

// ListAll returns every event with statistics and derived status, ordered per
// the request.
func (s *EventService) ListAll(ctx context.Context, order models.EventListOrder, viewerID string) ([]models.EventWithStats, error) {
	events, err := s.events.List(ctx, models.EventFilter{Order: order, ViewerID: viewerID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	now := s.now()
	for i := range events {
		events[i].Status = string(lifecycle.Classify(events[i].ScheduledAt, now))
	}
	return events, nil
}

// Overview aggregates admin dashboard counters over the full event set.
func (s *EventService) Overview(ctx context.Context) (*models.EventOverview, error) {
	events, err := s.events.List(ctx, models.EventFilter{Order: models.EventOrderHistory})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	overview := &models.EventOverview{TotalEvents: len(events)}
	now := s.now()
	for _, event := range events {
		overview.TotalRegistrations += event.RegistrationCount
		switch lifecycle.Classify(event.ScheduledAt, now) {
		case lifecycle.StatusOngoing:
			overview.OngoingCount++
		case lifecycle.StatusUpcoming:
			overview.UpcomingCount++
		}
	}
	return overview, nil
}

// Get returns a single event with statistics and derived status.
func (s *EventService) Get(ctx context.Context, id string, viewerID string) (*models.EventWithStats, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	event.Status = string(lifecycle.Classify(event.ScheduledAt, s.now()))
	if viewerID != "" {
		if _, err := s.registrations.FindByEventAndUser(ctx, id, viewerID); err == nil {
			event.IsRegistered = true
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check registration")
		}
	}
	return event, nil
}

// Create registers a new event.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest, createdBy string) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	event := &models.Event{
		Title:            req.Title,
		Description:      req.Description,
		ScheduledAt:      models.NewFlexTime(req.ScheduledAt),
		Location:         req.Location,
		Capacity:         req.Capacity,
		EventType:        req.EventType,
		RequiresApproval: req.RequiresApproval,
		CreatedBy:        createdBy,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	return event, nil
}

// Update rewrites an event's mutable fields.
func (s *EventService) Update(ctx context.Context, id string, req UpdateEventRequest) (*models.EventWithStats, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	existing, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	existing.Title = req.Title
	existing.Description = req.Description
	existing.ScheduledAt = models.NewFlexTime(req.ScheduledAt)
	existing.Location = req.Location
	existing.Capacity = req.Capacity
	existing.EventType = req.EventType
	existing.RequiresApproval = req.RequiresApproval
	if err := s.events.Update(ctx, &existing.Event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	existing.Status = string(lifecycle.Classify(existing.ScheduledAt, s.now()))
	return existing, nil
}

// Delete removes an event together with its registrations.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	return nil
}

// BulkDelete removes a batch of events and returns how many were deleted.
// An empty id set is rejected rather than treated as a no-op.
func (s *EventService) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no events selected")
	}
	deleted, err := s.events.BulkDelete(ctx, ids)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete events")
	}
	return deleted, nil
}

// Duplicate copies an event into a fresh one scheduled a week out. The copy
// takes a "Copy of" title and starts with no registrations.
func (s *EventService) Duplicate(ctx context.Context, id string, createdBy string) (*models.Event, error) {
	source, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	clone := &models.Event{
		Title:            "Copy of " + source.Title,
		Description:      source.Description,
		ScheduledAt:      models.NewFlexTime(s.now().Add(s.config.DuplicateOffset)),
		Location:         source.Location,
		Capacity:         source.Capacity,
		EventType:        source.EventType,
		RequiresApproval: source.RequiresApproval,
		CreatedBy:        createdBy,
	}
	if err := s.events.Create(ctx, clone); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to duplicate event")
	}
	return clone, nil
}

// End immediately moves an event into the past by backdating its scheduled
// time. The original schedule is not preserved.
func (s *EventService) End(ctx context.Context, id string) error {
	if err := s.events.UpdateScheduledAt(ctx, id, s.now().Add(-s.config.EndEventBackdate)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to end event")
	}
	return nil
}

// Register signs a user up for an event. Registering again for the same
// event reports the existing registration instead of failing. The resulting
// status is pending when the event requires approval, approved otherwise.
func (s *EventService) Register(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	if existing, err := s.registrations.FindByEventAndUser(ctx, eventID, userID); err == nil {
		return existing, appErrors.Clone(appErrors.ErrAlreadyRegistered, "already registered for this event")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check registration")
	}

	status := models.RegistrationStatusApproved
	if event.RequiresApproval {
		status = models.RegistrationStatusPending
	}
	registration := &models.Registration{
		EventID: eventID,
		UserID:  userID,
		Status:  status,
	}
	if err := s.registrations.Create(ctx, registration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create registration")
	}
	return registration, nil
}

// MyRegistrations returns the viewer's registrations with event details and
// derived event status.
func (s *EventService) MyRegistrations(ctx context.Context, userID string) ([]models.UserRegistration, error) {
	regs, err := s.registrations.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}
	return regs, nil
}

// LiveStatus reports attendance counters for events happening today.
func (s *EventService) LiveStatus(ctx context.Context) ([]models.LiveEventStatus, error) {
	events, err := s.events.List(ctx, models.EventFilter{Order: models.EventOrderUpcoming})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	now := s.now()
	var todayIDs []string
	for _, event := range events {
		if lifecycle.Classify(event.ScheduledAt, now) == lifecycle.StatusOngoing {
			todayIDs = append(todayIDs, event.ID)
		}
	}
	if len(todayIDs) == 0 {
		return []models.LiveEventStatus{}, nil
	}
	statuses, err := s.events.LiveStatus(ctx, todayIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load live status")
	}
	return statuses, nil
}
