package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campuslink/alumni-hub-api/internal/models"
)

// RegistrationRepository provides database access for event registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository creates a new instance of RegistrationRepository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// FindByEventAndUser returns the registration a user holds for an event, if
// any. Registering twice is detected through this lookup.
func (r *RegistrationRepository) FindByEventAndUser(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	const query = `SELECT id, event_id, user_id, status, admin_notes, attended, registered_at
FROM event_registrations WHERE event_id = $1 AND user_id = $2 LIMIT 1`
	var reg models.Registration
	if err := r.db.GetContext(ctx, &reg, query, eventID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return &reg, nil
}

// FindByID returns a registration by identifier.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	const query = `SELECT id, event_id, user_id, status, admin_notes, attended, registered_at
FROM event_registrations WHERE id = $1 LIMIT 1`
	var reg models.Registration
	if err := r.db.GetContext(ctx, &reg, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find registration by id: %w", err)
	}
	return &reg, nil
}

// Create inserts a new registration.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	if reg.RegisteredAt.IsZero() {
		reg.RegisteredAt = time.Now().UTC()
	}
	const query = `INSERT INTO event_registrations (id, event_id, user_id, status, admin_notes, attended, registered_at)
VALUES (:id, :event_id, :user_id, :status, :admin_notes, :attended, :registered_at)`
	if _, err := r.db.NamedExecContext(ctx, query, reg); err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// Update rewrites a registration's status, notes and attendance flag.
func (r *RegistrationRepository) Update(ctx context.Context, reg *models.Registration) error {
	const query = `UPDATE event_registrations
SET status = :status, admin_notes = :admin_notes, attended = :attended
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, reg)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a registration.
func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM event_registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// BulkUpdateStatus sets the status for a batch of registrations and returns
// how many rows changed.
func (r *RegistrationRepository) BulkUpdateStatus(ctx context.Context, ids []string, status models.RegistrationStatus) (int64, error) {
	const query = `UPDATE event_registrations SET status = $2 WHERE id = ANY($1)`
	res, err := r.db.ExecContext(ctx, query, pq.Array(ids), status)
	if err != nil {
		return 0, fmt.Errorf("bulk update registration status: %w", err)
	}
	updated, _ := res.RowsAffected()
	return updated, nil
}

// BulkDelete removes a batch of registrations and returns how many rows were
// removed.
func (r *RegistrationRepository) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM event_registrations WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk delete registrations: %w", err)
	}
	deleted, _ := res.RowsAffected()
	return deleted, nil
}

// ListByEvent returns an event's registrations joined with the registrant's
// profile details, newest first.
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]models.RegistrationDetail, error) {
	const query = `SELECT er.id, er.event_id, er.user_id, er.status, er.admin_notes, er.attended, er.registered_at,
	ap.name, u.email, ap.batch_year, ap.department, ap.company
FROM event_registrations er
JOIN users u ON er.user_id = u.id
LEFT JOIN alumni_profiles ap ON er.user_id = ap.user_id
WHERE er.event_id = $1
ORDER BY er.registered_at DESC`
	var details []models.RegistrationDetail
	if err := r.db.SelectContext(ctx, &details, query, eventID); err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	return details, nil
}

// ListByUser returns a user's registrations joined with event details,
// soonest event first.
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]models.UserRegistration, error) {
	const query = `SELECT er.id, er.event_id, er.user_id, er.status, er.admin_notes, er.attended, er.registered_at,
	e.title, e.scheduled_at, e.location
FROM event_registrations er
JOIN events e ON er.event_id = e.id
WHERE er.user_id = $1
ORDER BY e.scheduled_at ASC`
	var regs []models.UserRegistration
	if err := r.db.SelectContext(ctx, &regs, query, userID); err != nil {
		return nil, fmt.Errorf("list user registrations: %w", err)
	}
	return regs, nil
}

// ListApprovedForEvents returns approved registrations for the given events
// with event title and schedule, used to fan out reminders.
func (r *RegistrationRepository) ListApprovedForEvents(ctx context.Context, eventIDs []string) ([]models.UserRegistration, error) {
	const query = `SELECT er.id, er.event_id, er.user_id, er.status, er.admin_notes, er.attended, er.registered_at,
	e.title, e.scheduled_at, e.location
FROM event_registrations er
JOIN events e ON er.event_id = e.id
WHERE er.event_id = ANY($1) AND er.status = $2`
	var regs []models.UserRegistration
	if err := r.db.SelectContext(ctx, &regs, query, pq.Array(eventIDs), models.RegistrationStatusApproved); err != nil {
		return nil, fmt.Errorf("list approved registrations: %w", err)
	}
	return regs, nil
}

// ListByIDs returns the given registrations with event title and schedule.
func (r *RegistrationRepository) ListByIDs(ctx context.Context, ids []string) ([]models.UserRegistration, error) {
	const query = `SELECT er.id, er.event_id, er.user_id, er.status, er.admin_notes, er.attended, er.registered_at,
	e.title, e.scheduled_at, e.location
FROM event_registrations er
JOIN events e ON er.event_id = e.id
WHERE er.id = ANY($1)`
	var regs []models.UserRegistration
	if err := r.db.SelectContext(ctx, &regs, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list registrations by id: %w", err)
	}
	return regs, nil
}

// CountByEvent returns the number of registrations an event holds.
func (r *RegistrationRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM event_registrations WHERE event_id = $1`, eventID); err != nil {
		return 0, fmt.Errorf("count event registrations: %w", err)
	}
	return count, nil
}
