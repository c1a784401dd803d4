package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
)

// linkedinURLPattern accepts only personal LinkedIn profile URLs.
var linkedinURLPattern = regexp.MustCompile(`^https://(www\.)?linkedin\.com/in/[a-zA-Z0-9-]+/?$`)

type profileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.AlumniProfile, error)
	Create(ctx context.Context, profile *models.AlumniProfile) error
	Update(ctx context.Context, profile *models.AlumniProfile) error
	SearchDirectory(ctx context.Context, filter models.DirectoryFilter) ([]models.ProfileWithEmail, error)
	ListForAdmin(ctx context.Context) ([]models.AdminProfileView, error)
	ListMentors(ctx context.Context) ([]models.ProfileWithEmail, error)
	DistinctBatchYears(ctx context.Context) ([]int, error)
	DistinctDepartments(ctx context.Context) ([]string, error)
}

// ProfileService handles alumni profile and directory workflows.
type ProfileService struct {
	repo      profileRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs the service.
func NewProfileService(repo profileRepository, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, validator: validate, logger: logger}
}

// SaveProfileRequest describes the create/update payload.
type SaveProfileRequest struct {
	Name                   string  `json:"name" validate:"required"`
	BatchYear              *int    `json:"batch_year" validate:"omitempty,min=1950,max=2100"`
	Department             *string `json:"department"`
	CurrentJob             *string `json:"current_job"`
	Company                *string `json:"company"`
	Location               *string `json:"location"`
	Achievements           *string `json:"achievements"`
	LinkedinURL            *string `json:"linkedin_url"`
	PrivacyLevel           string  `json:"privacy_level"`
	AvailableForMentorship bool    `json:"available_for_mentorship"`
}

// DirectoryOptions lists the filter values the directory search offers.
type DirectoryOptions struct {
	BatchYears  []int    `json:"batch_years"`
	Departments []string `json:"departments"`
}

// Get returns the profile for a user.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.AlumniProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

// Save creates the user's profile on first call and updates it afterwards.
func (s *ProfileService) Save(ctx context.Context, userID string, req SaveProfileRequest) (*models.AlumniProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	linkedin, err := normalizeLinkedinURL(req.LinkedinURL)
	if err != nil {
		return nil, err
	}
	privacy := models.PrivacyPublic
	if req.PrivacyLevel != "" {
		switch models.PrivacyLevel(req.PrivacyLevel) {
		case models.PrivacyPublic, models.PrivacyPrivate:
			privacy = models.PrivacyLevel(req.PrivacyLevel)
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown privacy level")
		}
	}

	existing, err := s.repo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}

	if existing == nil {
		profile := &models.AlumniProfile{
			UserID:                 userID,
			Name:                   req.Name,
			BatchYear:              req.BatchYear,
			Department:             req.Department,
			CurrentJob:             req.CurrentJob,
			Company:                req.Company,
			Location:               req.Location,
			Achievements:           req.Achievements,
			LinkedinURL:            linkedin,
			PrivacyLevel:           privacy,
			AvailableForMentorship: req.AvailableForMentorship,
		}
		if err := s.repo.Create(ctx, profile); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create profile")
		}
		return profile, nil
	}

	existing.Name = req.Name
	existing.BatchYear = req.BatchYear
	existing.Department = req.Department
	existing.CurrentJob = req.CurrentJob
	existing.Company = req.Company
	existing.Location = req.Location
	existing.Achievements = req.Achievements
	existing.LinkedinURL = linkedin
	existing.PrivacyLevel = privacy
	existing.AvailableForMentorship = req.AvailableForMentorship
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return existing, nil
}

// AttachFiles records uploaded profile picture and CV paths.
func (s *ProfileService) AttachFiles(ctx context.Context, userID string, picturePath, cvPath *string) (*models.AlumniProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	if picturePath != nil {
		profile.ProfilePicture = picturePath
	}
	if cvPath != nil {
		profile.CVFile = cvPath
	}
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return profile, nil
}

// LinkedinSyncResult reports the state of a profile import request.
type LinkedinSyncResult struct {
	ProfileURL string `json:"profile_url"`
	Status     string `json:"status"`
}

// SyncLinkedin checks that a LinkedIn URL is on file and acknowledges the
// import request. The import itself waits on API access.
// TODO: wire the LinkedIn profile API once partner credentials exist.
func (s *ProfileService) SyncLinkedin(ctx context.Context, userID string) (*LinkedinSyncResult, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	if profile.LinkedinURL == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no linkedin_url on profile")
	}
	return &LinkedinSyncResult{ProfileURL: *profile.LinkedinURL, Status: "pending"}, nil
}

// Directory returns public profiles of verified alumni matching the filter.
func (s *ProfileService) Directory(ctx context.Context, filter models.DirectoryFilter) ([]models.ProfileWithEmail, error) {
	profiles, err := s.repo.SearchDirectory(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search directory")
	}
	return profiles, nil
}

// DirectoryFilters returns the distinct batch years and departments the
// directory can filter on.
func (s *ProfileService) DirectoryFilters(ctx context.Context) (*DirectoryOptions, error) {
	years, err := s.repo.DistinctBatchYears(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch years")
	}
	departments, err := s.repo.DistinctDepartments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load departments")
	}
	return &DirectoryOptions{BatchYears: years, Departments: departments}, nil
}

// ListForAdmin returns every profile with account metadata.
func (s *ProfileService) ListForAdmin(ctx context.Context) ([]models.AdminProfileView, error) {
	profiles, err := s.repo.ListForAdmin(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list profiles")
	}
	return profiles, nil
}

// Mentors returns verified public profiles offering mentorship.
func (s *ProfileService) Mentors(ctx context.Context) ([]models.ProfileWithEmail, error) {
	mentors, err := s.repo.ListMentors(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mentors")
	}
	return mentors, nil
}

func normalizeLinkedinURL(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}
	if !linkedinURLPattern.MatchString(trimmed) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "linkedin_url must be a personal profile link like https://linkedin.com/in/username")
	}
	return &trimmed, nil
}
