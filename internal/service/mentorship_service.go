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

type mentorshipRepository interface {
	FindPending(ctx context.Context, mentorID, menteeID string) (*models.MentorshipRequest, error)
	FindByID(ctx context.Context, id string) (*models.MentorshipRequest, error)
	Create(ctx context.Context, req *models.MentorshipRequest) error
	UpdateStatus(ctx context.Context, id string, status models.MentorshipStatus) error
	ListForMentor(ctx context.Context, mentorID string) ([]models.MentorshipRequestDetail, error)
	ListForMentee(ctx context.Context, menteeID string) ([]models.MentorshipRequestDetail, error)
}

type mentorProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.AlumniProfile, error)
}

// MentorshipService handles mentorship request workflows.
type MentorshipService struct {
	repo      mentorshipRepository
	profiles  mentorProfileRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMentorshipService constructs the service.
func NewMentorshipService(repo mentorshipRepository, profiles mentorProfileRepository, validate *validator.Validate, logger *zap.Logger) *MentorshipService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentorshipService{repo: repo, profiles: profiles, validator: validate, logger: logger}
}

// RequestMentorshipRequest describes the request payload.
type RequestMentorshipRequest struct {
	MentorID string  `json:"mentor_id" validate:"required"`
	Message  *string `json:"message"`
}

// Request sends a mentorship request to a mentor. Requesting yourself, an
// unavailable mentor, or duplicating a pending request is rejected.
func (s *MentorshipService) Request(ctx context.Context, menteeID string, req RequestMentorshipRequest) (*models.MentorshipRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentorship payload")
	}
	if req.MentorID == menteeID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot request mentorship from yourself")
	}

	mentorProfile, err := s.profiles.FindByUserID(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	if !mentorProfile.AvailableForMentorship {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mentor is not accepting requests")
	}

	if _, err := s.repo.FindPending(ctx, req.MentorID, menteeID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a pending request to this mentor already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing requests")
	}

	request := &models.MentorshipRequest{
		MentorID: req.MentorID,
		MenteeID: menteeID,
		Message:  req.Message,
		Status:   models.MentorshipPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
	}
	return request, nil
}

// Respond lets a mentor accept or reject a pending request addressed to
// them.
func (s *MentorshipService) Respond(ctx context.Context, requestID, mentorID string, accept bool) (*models.MentorshipRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	if request.MentorID != mentorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "request is addressed to another mentor")
	}
	if request.Status != models.MentorshipPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request already resolved")
	}

	status := models.MentorshipRejected
	if accept {
		status = models.MentorshipAccepted
	}
	if err := s.repo.UpdateStatus(ctx, requestID, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update request")
	}
	request.Status = status
	return request, nil
}

// MyRequests returns requests involving the user, both as mentor and as
// mentee.
func (s *MentorshipService) MyRequests(ctx context.Context, userID string) (incoming, outgoing []models.MentorshipRequestDetail, err error) {
	incoming, err = s.repo.ListForMentor(ctx, userID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list incoming requests")
	}
	outgoing, err = s.repo.ListForMentee(ctx, userID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list outgoing requests")
	}
	return incoming, outgoing, nil
}
