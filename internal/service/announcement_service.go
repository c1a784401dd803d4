package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
)

type announcementRepository interface {
	ListActive(ctx context.Context, limit int) ([]models.Announcement, error)
	ListAll(ctx context.Context) ([]models.Announcement, error)
	Create(ctx context.Context, ann *models.Announcement) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type announcementBroadcaster interface {
	BroadcastAnnouncement(announcementID, title string) error
}

// AnnouncementService handles admin-published notices.
type AnnouncementService struct {
	repo        announcementRepository
	broadcaster announcementBroadcaster
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAnnouncementService constructs the service. The broadcaster may be nil.
func NewAnnouncementService(repo announcementRepository, broadcaster announcementBroadcaster, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, broadcaster: broadcaster, validator: validate, logger: logger}
}

// CreateAnnouncementRequest describes the create payload.
type CreateAnnouncementRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// ListActive returns announcements visible to members.
func (s *AnnouncementService) ListActive(ctx context.Context) ([]models.Announcement, error) {
	announcements, err := s.repo.ListActive(ctx, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return announcements, nil
}

// ListAll returns every announcement for the admin view.
func (s *AnnouncementService) ListAll(ctx context.Context) ([]models.Announcement, error) {
	announcements, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return announcements, nil
}

// Create publishes a new announcement and fans it out to the notification
// queue.
func (s *AnnouncementService) Create(ctx context.Context, createdBy string, req CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	announcement := &models.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		CreatedBy: createdBy,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	if s.broadcaster != nil {
		if err := s.broadcaster.BroadcastAnnouncement(announcement.ID, announcement.Title); err != nil {
			s.logger.Warn("failed to broadcast announcement", zap.String("announcement_id", announcement.ID), zap.Error(err))
		}
	}
	return announcement, nil
}

// SetActive toggles an announcement's visibility.
func (s *AnnouncementService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	return nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}
