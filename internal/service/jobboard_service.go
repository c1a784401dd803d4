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

type jobPostRepository interface {
	List(ctx context.Context, filter models.JobFilter) ([]models.JobPostingDetail, error)
	FindByID(ctx context.Context, id string) (*models.JobPosting, error)
	Create(ctx context.Context, posting *models.JobPosting) error
	Delete(ctx context.Context, id string) error
}

// JobBoardService handles job board postings.
type JobBoardService struct {
	repo      jobPostRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewJobBoardService constructs the service.
func NewJobBoardService(repo jobPostRepository, validate *validator.Validate, logger *zap.Logger) *JobBoardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobBoardService{repo: repo, validator: validate, logger: logger}
}

// CreateJobRequest describes a new posting payload.
type CreateJobRequest struct {
	Title        string  `json:"title" validate:"required"`
	Company      string  `json:"company" validate:"required"`
	Location     string  `json:"location" validate:"required"`
	JobType      string  `json:"job_type" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	Requirements *string `json:"requirements"`
}

// List returns postings matching the filter.
func (s *JobBoardService) List(ctx context.Context, filter models.JobFilter) ([]models.JobPostingDetail, error) {
	if filter.JobType != "" && !models.ValidJobType(filter.JobType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown job type")
	}
	postings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list job postings")
	}
	return postings, nil
}

// Create publishes a new posting.
func (s *JobBoardService) Create(ctx context.Context, postedBy string, req CreateJobRequest) (*models.JobPosting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid job posting payload")
	}
	if !models.ValidJobType(req.JobType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown job type")
	}
	posting := &models.JobPosting{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		JobType:      models.JobType(req.JobType),
		Description:  req.Description,
		Requirements: req.Requirements,
		PostedBy:     postedBy,
	}
	if err := s.repo.Create(ctx, posting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create job posting")
	}
	return posting, nil
}

// Delete removes a posting. Posters may remove their own, admins any.
func (s *JobBoardService) Delete(ctx context.Context, id, requesterID string, requesterRole models.UserRole) error {
	posting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "job posting not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load job posting")
	}
	if requesterRole != models.RoleAdmin && posting.PostedBy != requesterID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete another member's posting")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete job posting")
	}
	return nil
}
