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

type registrationRepository interface {
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	Update(ctx context.Context, reg *models.Registration) error
	Delete(ctx context.Context, id string) error
	BulkUpdateStatus(ctx context.Context, ids []string, status models.RegistrationStatus) (int64, error)
	BulkDelete(ctx context.Context, ids []string) (int64, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.RegistrationDetail, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
}

// RegistrationService handles the admin approval workflow for event
// registrations.
type RegistrationService struct {
	repo      registrationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistrationService constructs the service.
func NewRegistrationService(repo registrationRepository, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{repo: repo, validator: validate, logger: logger}
}

// EditRegistrationRequest describes the admin edit payload.
type EditRegistrationRequest struct {
	Status     string  `json:"status" validate:"required"`
	AdminNotes *string `json:"admin_notes"`
	Attended   bool    `json:"attended"`
}

// ListByEvent returns an event's registrations with attendee details.
func (s *RegistrationService) ListByEvent(ctx context.Context, eventID string) ([]models.RegistrationDetail, error) {
	details, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}
	return details, nil
}

// Edit rewrites a registration's status, notes and attendance.
func (s *RegistrationService) Edit(ctx context.Context, id string, req EditRegistrationRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	if !models.ValidRegistrationStatus(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown registration status")
	}
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	reg.Status = models.RegistrationStatus(req.Status)
	reg.AdminNotes = req.AdminNotes
	reg.Attended = req.Attended
	if err := s.repo.Update(ctx, reg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update registration")
	}
	return reg, nil
}

// UpdateStatus moves a single registration through the approval workflow.
func (s *RegistrationService) UpdateStatus(ctx context.Context, id string, status string) (*models.Registration, error) {
	if !models.ValidRegistrationStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown registration status")
	}
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	reg.Status = models.RegistrationStatus(status)
	if err := s.repo.Update(ctx, reg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update registration")
	}
	return reg, nil
}

// BulkApprove approves a batch of registrations. An empty selection is
// rejected rather than treated as a no-op.
func (s *RegistrationService) BulkApprove(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no registrations selected")
	}
	updated, err := s.repo.BulkUpdateStatus(ctx, ids, models.RegistrationStatusApproved)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve registrations")
	}
	return updated, nil
}

// BulkRemove deletes a batch of registrations. An empty selection is
// rejected rather than treated as a no-op.
func (s *RegistrationService) BulkRemove(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no registrations selected")
	}
	deleted, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove registrations")
	}
	return deleted, nil
}

// Remove deletes a single registration.
func (s *RegistrationService) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove registration")
	}
	return nil
}
