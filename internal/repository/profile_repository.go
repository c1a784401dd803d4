package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuslink/alumni-hub-api/internal/models"
)

// ProfileRepository provides database access for alumni profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, name, batch_year, department, current_job, company, location, achievements, profile_picture, cv_file, linkedin_url, privacy_level, available_for_mentorship, created_at`

// FindByUserID returns the profile attached to a user account.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.AlumniProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM alumni_profiles WHERE user_id = $1 LIMIT 1`
	var profile models.AlumniProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find profile by user: %w", err)
	}
	return &profile, nil
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.AlumniProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO alumni_profiles (id, user_id, name, batch_year, department, current_job, company, location, achievements, profile_picture, cv_file, linkedin_url, privacy_level, available_for_mentorship, created_at)
VALUES (:id, :user_id, :name, :batch_year, :department, :current_job, :company, :location, :achievements, :profile_picture, :cv_file, :linkedin_url, :privacy_level, :available_for_mentorship, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a profile, keyed by user id.
func (r *ProfileRepository) Update(ctx context.Context, profile *models.AlumniProfile) error {
	const query = `UPDATE alumni_profiles
SET name = :name, batch_year = :batch_year, department = :department, current_job = :current_job,
	company = :company, location = :location, achievements = :achievements, profile_picture = :profile_picture,
	cv_file = :cv_file, linkedin_url = :linkedin_url, privacy_level = :privacy_level,
	available_for_mentorship = :available_for_mentorship
WHERE user_id = :user_id`
	res, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SearchDirectory returns public profiles of verified alumni matching the
// filter, alphabetically by name.
func (r *ProfileRepository) SearchDirectory(ctx context.Context, filter models.DirectoryFilter) ([]models.ProfileWithEmail, error) {
	var b strings.Builder
	args := []interface{}{}

	b.WriteString(`SELECT ap.id, ap.user_id, ap.name, ap.batch_year, ap.department, ap.current_job, ap.company, ap.location, ap.achievements, ap.profile_picture, ap.cv_file, ap.linkedin_url, ap.privacy_level, ap.available_for_mentorship, ap.created_at, u.email
FROM alumni_profiles ap
JOIN users u ON ap.user_id = u.id
WHERE u.verified = TRUE AND ap.privacy_level = 'public'`)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		fmt.Fprintf(&b, ` AND (ap.name ILIKE $%d OR ap.company ILIKE $%d OR ap.current_job ILIKE $%d)`, len(args), len(args), len(args))
	}
	if filter.BatchYear != nil {
		args = append(args, *filter.BatchYear)
		fmt.Fprintf(&b, ` AND ap.batch_year = $%d`, len(args))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		fmt.Fprintf(&b, ` AND ap.department = $%d`, len(args))
	}

	b.WriteString(` ORDER BY ap.name ASC`)

	var profiles []models.ProfileWithEmail
	if err := r.db.SelectContext(ctx, &profiles, b.String(), args...); err != nil {
		return nil, fmt.Errorf("search directory: %w", err)
	}
	return profiles, nil
}

// ListForAdmin returns every profile with account metadata, newest account
// first.
func (r *ProfileRepository) ListForAdmin(ctx context.Context) ([]models.AdminProfileView, error) {
	const query = `SELECT ap.id, ap.user_id, ap.name, ap.batch_year, ap.department, ap.current_job, ap.company, ap.location, ap.achievements, ap.profile_picture, ap.cv_file, ap.linkedin_url, ap.privacy_level, ap.available_for_mentorship, ap.created_at, u.email, u.verified, u.created_at AS user_created_at
FROM alumni_profiles ap
JOIN users u ON ap.user_id = u.id
ORDER BY u.created_at DESC`
	var profiles []models.AdminProfileView
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("list profiles for admin: %w", err)
	}
	return profiles, nil
}

// ListMentors returns public profiles of verified alumni offering mentorship.
func (r *ProfileRepository) ListMentors(ctx context.Context) ([]models.ProfileWithEmail, error) {
	const query = `SELECT ap.id, ap.user_id, ap.name, ap.batch_year, ap.department, ap.current_job, ap.company, ap.location, ap.achievements, ap.profile_picture, ap.cv_file, ap.linkedin_url, ap.privacy_level, ap.available_for_mentorship, ap.created_at, u.email
FROM alumni_profiles ap
JOIN users u ON ap.user_id = u.id
WHERE u.verified = TRUE AND ap.privacy_level = 'public' AND ap.available_for_mentorship = TRUE
ORDER BY ap.name ASC`
	var profiles []models.ProfileWithEmail
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	return profiles, nil
}

// DistinctBatchYears returns the batch years present in the directory,
// ascending.
func (r *ProfileRepository) DistinctBatchYears(ctx context.Context) ([]int, error) {
	const query = `SELECT DISTINCT batch_year FROM alumni_profiles WHERE batch_year IS NOT NULL ORDER BY batch_year ASC`
	var years []int
	if err := r.db.SelectContext(ctx, &years, query); err != nil {
		return nil, fmt.Errorf("distinct batch years: %w", err)
	}
	return years, nil
}

// DistinctDepartments returns the departments present in the directory,
// alphabetically.
func (r *ProfileRepository) DistinctDepartments(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT department FROM alumni_profiles WHERE department IS NOT NULL AND department <> '' ORDER BY department ASC`
	var departments []string
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("distinct departments: %w", err)
	}
	return departments, nil
}
