package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campuslink/alumni-hub-api/internal/models"
)

// EventRepository provides database access for community events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// eventStatsColumns is the shared projection for event listings: every event
// carries its registration and attendance counts even when no one signed up,
// hence the LEFT JOIN.
const eventStatsColumns = `e.id, e.title, e.description, e.scheduled_at, e.location, e.capacity, e.event_type, e.requires_approval, e.created_by, e.created_at,
	COUNT(er.id) AS registration_count,
	COUNT(er.id) FILTER (WHERE er.attended) AS attendance_count`

// List returns events with aggregate statistics, honoring the filter's id
// set, ordering and limit. When ViewerID is set each row carries whether that
// viewer holds a registration.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.EventWithStats, error) {
	var b strings.Builder
	args := []interface{}{}

	b.WriteString(`SELECT ` + eventStatsColumns)
	if filter.ViewerID != "" {
		args = append(args, filter.ViewerID)
		fmt.Fprintf(&b, `,
	COUNT(er.id) FILTER (WHERE er.user_id = $%d) > 0 AS is_registered`, len(args))
	}
	b.WriteString(`
FROM events e
LEFT JOIN event_registrations er ON e.id = er.event_id`)

	if len(filter.IDs) > 0 {
		args = append(args, pq.Array(filter.IDs))
		fmt.Fprintf(&b, `
WHERE e.id = ANY($%d)`, len(args))
	}

	b.WriteString(`
GROUP BY e.id`)

	switch filter.Order {
	case models.EventOrderHistory:
		b.WriteString(`
ORDER BY e.scheduled_at DESC`)
	default:
		b.WriteString(`
ORDER BY e.scheduled_at ASC`)
	}

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, `
LIMIT $%d`, len(args))
	}

	var events []models.EventWithStats
	if err := r.db.SelectContext(ctx, &events, b.String(), args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// FindByID returns a single event with its statistics.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.EventWithStats, error) {
	const query = `SELECT ` + eventStatsColumns + `
FROM events e
LEFT JOIN event_registrations er ON e.id = er.event_id
WHERE e.id = $1
GROUP BY e.id`
	var event models.EventWithStats
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	return &event, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO events (id, title, description, scheduled_at, location, capacity, event_type, requires_approval, created_by, created_at)
VALUES (:id, :title, :description, :scheduled_at, :location, :capacity, :event_type, :requires_approval, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of an event.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	const query = `UPDATE events
SET title = :title, description = :description, scheduled_at = :scheduled_at, location = :location,
	capacity = :capacity, event_type = :event_type, requires_approval = :requires_approval
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateScheduledAt rewrites only the event's scheduled time. Ending an event
// backdates it through this path.
func (r *EventRepository) UpdateScheduledAt(ctx context.Context, id string, scheduledAt time.Time) error {
	const query = `UPDATE events SET scheduled_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, scheduledAt)
	if err != nil {
		return fmt.Errorf("update event schedule: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an event and its registrations in one transaction.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete event: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_registrations WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("delete event registrations: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete event: %w", err)
	}
	return nil
}

// BulkDelete removes a batch of events and their registrations in one
// transaction. It returns the number of events actually removed.
func (r *EventRepository) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin bulk delete events: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_registrations WHERE event_id = ANY($1)`, pq.Array(ids)); err != nil {
		return 0, fmt.Errorf("bulk delete registrations: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk delete events: %w", err)
	}
	deleted, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit bulk delete events: %w", err)
	}
	return deleted, nil
}

// CountAll returns the total number of events.
func (r *EventRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM events`); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// LiveStatus returns per-event attendance counters for the given ids.
func (r *EventRepository) LiveStatus(ctx context.Context, ids []string) ([]models.LiveEventStatus, error) {
	const query = `SELECT e.id, e.title, COUNT(er.id) FILTER (WHERE er.attended) AS current_attendees
FROM events e
LEFT JOIN event_registrations er ON e.id = er.event_id
WHERE e.id = ANY($1)
GROUP BY e.id, e.title`
	var statuses []models.LiveEventStatus
	if err := r.db.SelectContext(ctx, &statuses, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("live event status: %w", err)
	}
	return statuses, nil
}
