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

// JobPostRepository provides database access for the job board.
type JobPostRepository struct {
	db *sqlx.DB
}

// NewJobPostRepository creates a new instance of JobPostRepository.
func NewJobPostRepository(db *sqlx.DB) *JobPostRepository {
	return &JobPostRepository{db: db}
}

// List returns postings matching the filter, newest first.
func (r *JobPostRepository) List(ctx context.Context, filter models.JobFilter) ([]models.JobPostingDetail, error) {
	var b strings.Builder
	args := []interface{}{}

	b.WriteString(`SELECT jp.id, jp.title, jp.company, jp.location, jp.job_type, jp.description, jp.requirements, jp.posted_by, jp.created_at,
	ap.name AS posted_by_name
FROM job_postings jp
LEFT JOIN alumni_profiles ap ON jp.posted_by = ap.user_id
WHERE 1=1`)

	if filter.JobType != "" {
		args = append(args, filter.JobType)
		fmt.Fprintf(&b, ` AND jp.job_type = $%d`, len(args))
	}
	if filter.Location != "" {
		args = append(args, "%"+filter.Location+"%")
		fmt.Fprintf(&b, ` AND jp.location ILIKE $%d`, len(args))
	}

	b.WriteString(` ORDER BY jp.created_at DESC`)

	var postings []models.JobPostingDetail
	if err := r.db.SelectContext(ctx, &postings, b.String(), args...); err != nil {
		return nil, fmt.Errorf("list job postings: %w", err)
	}
	return postings, nil
}

// FindByID returns a posting by identifier.
func (r *JobPostRepository) FindByID(ctx context.Context, id string) (*models.JobPosting, error) {
	const query = `SELECT id, title, company, location, job_type, description, requirements, posted_by, created_at
FROM job_postings WHERE id = $1 LIMIT 1`
	var posting models.JobPosting
	if err := r.db.GetContext(ctx, &posting, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find job posting: %w", err)
	}
	return &posting, nil
}

// Create inserts a new posting.
func (r *JobPostRepository) Create(ctx context.Context, posting *models.JobPosting) error {
	if posting.ID == "" {
		posting.ID = uuid.NewString()
	}
	if posting.CreatedAt.IsZero() {
		posting.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO job_postings (id, title, company, location, job_type, description, requirements, posted_by, created_at)
VALUES (:id, :title, :company, :location, :job_type, :description, :requirements, :posted_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, posting); err != nil {
		return fmt.Errorf("create job posting: %w", err)
	}
	return nil
}

// Delete removes a posting.
func (r *JobPostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job posting: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
