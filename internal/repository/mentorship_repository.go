package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuslink/alumni-hub-api/internal/models"
)

// MentorshipRepository provides database access for mentorship requests.
type MentorshipRepository struct {
	db *sqlx.DB
}

// NewMentorshipRepository creates a new instance of MentorshipRepository.
func NewMentorshipRepository(db *sqlx.DB) *MentorshipRepository {
	return &MentorshipRepository{db: db}
}

// FindPending returns a pending request between a mentee and mentor, if one
// exists. Duplicate requests are detected through this lookup.
func (r *MentorshipRepository) FindPending(ctx context.Context, mentorID, menteeID string) (*models.MentorshipRequest, error) {
	const query = `SELECT id, mentor_id, mentee_id, message, status, created_at
FROM mentorship_requests
WHERE mentor_id = $1 AND mentee_id = $2 AND status = $3
LIMIT 1`
	var req models.MentorshipRequest
	if err := r.db.GetContext(ctx, &req, query, mentorID, menteeID, models.MentorshipPending); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find pending mentorship request: %w", err)
	}
	return &req, nil
}

// FindByID returns a request by identifier.
func (r *MentorshipRepository) FindByID(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	const query = `SELECT id, mentor_id, mentee_id, message, status, created_at
FROM mentorship_requests WHERE id = $1 LIMIT 1`
	var req models.MentorshipRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mentorship request: %w", err)
	}
	return &req, nil
}

// Create inserts a new request.
func (r *MentorshipRepository) Create(ctx context.Context, req *models.MentorshipRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO mentorship_requests (id, mentor_id, mentee_id, message, status, created_at)
VALUES (:id, :mentor_id, :mentee_id, :message, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create mentorship request: %w", err)
	}
	return nil
}

// UpdateStatus moves a request through the workflow.
func (r *MentorshipRepository) UpdateStatus(ctx context.Context, id string, status models.MentorshipStatus) error {
	const query = `UPDATE mentorship_requests SET status = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update mentorship status: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListForMentor returns requests addressed to a mentor, newest first.
func (r *MentorshipRepository) ListForMentor(ctx context.Context, mentorID string) ([]models.MentorshipRequestDetail, error) {
	const query = `SELECT mr.id, mr.mentor_id, mr.mentee_id, mr.message, mr.status, mr.created_at,
	COALESCE(ap.name, '') AS counterpart_name
FROM mentorship_requests mr
LEFT JOIN alumni_profiles ap ON mr.mentee_id = ap.user_id
WHERE mr.mentor_id = $1
ORDER BY mr.created_at DESC`
	var requests []models.MentorshipRequestDetail
	if err := r.db.SelectContext(ctx, &requests, query, mentorID); err != nil {
		return nil, fmt.Errorf("list mentorship requests for mentor: %w", err)
	}
	return requests, nil
}

// ListForMentee returns requests a mentee has sent, newest first, with the
// mentor's name.
func (r *MentorshipRepository) ListForMentee(ctx context.Context, menteeID string) ([]models.MentorshipRequestDetail, error) {
	const query = `SELECT mr.id, mr.mentor_id, mr.mentee_id, mr.message, mr.status, mr.created_at,
	COALESCE(ap.name, '') AS counterpart_name
FROM mentorship_requests mr
LEFT JOIN alumni_profiles ap ON mr.mentor_id = ap.user_id
WHERE mr.mentee_id = $1
ORDER BY mr.created_at DESC`
	var requests []models.MentorshipRequestDetail
	if err := r.db.SelectContext(ctx, &requests, query, menteeID); err != nil {
		return nil, fmt.Errorf("list mentorship requests for mentee: %w", err)
	}
	return requests, nil
}
