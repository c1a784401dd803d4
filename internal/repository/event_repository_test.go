package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/alumni-hub-api/internal/models"
)

func newEventRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func eventStatRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "scheduled_at", "location", "capacity",
		"event_type", "requires_approval", "created_by", "created_at",
		"registration_count", "attendance_count",
	})
}

func TestEventRepositoryListIncludesZeroRegistrationEvents(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	rows := eventStatRows().
		AddRow("evt-1", "Career Fair", "Annual fair", time.Now().Add(24*time.Hour), "Main Hall", nil, "workshop", false, "adm-1", time.Now(), 3, 1).
		AddRow("evt-2", "Homecoming", "Reunion night", time.Now().Add(48*time.Hour), "Quad", nil, "reunion", true, "adm-1", time.Now(), 0, 0)
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN event_registrations er ON e.id = er.event_id")).
		WillReturnRows(rows)

	events, err := repo.List(context.Background(), models.EventFilter{Order: models.EventOrderUpcoming})
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, 0, events[1].RegistrationCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListWithViewer(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "scheduled_at", "location", "capacity",
		"event_type", "requires_approval", "created_by", "created_at",
		"registration_count", "attendance_count", "is_registered",
	}).AddRow("evt-1", "Career Fair", "Annual fair", time.Now(), "Main Hall", nil, "workshop", false, "adm-1", time.Now(), 3, 1, true)
	mock.ExpectQuery(regexp.QuoteMeta("AS is_registered")).
		WithArgs("usr-1").
		WillReturnRows(rows)

	events, err := repo.List(context.Background(), models.EventFilter{ViewerID: "usr-1"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.True(t, events[0].IsRegistered)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	event, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.Nil(t, event)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO events")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := &models.Event{
		Title:       "Tech Talk",
		ScheduledAt: models.NewFlexTime(time.Now().Add(72 * time.Hour)),
		Location:    "Auditorium",
		EventType:   "seminar",
		CreatedBy:   "adm-1",
	}
	require.NoError(t, repo.Create(context.Background(), event))
	require.NotEmpty(t, event.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryDeleteCascadesRegistrations(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM event_registrations WHERE event_id = $1")).
		WithArgs("evt-1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id = $1")).
		WithArgs("evt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "evt-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryDeleteMissingRollsBack(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM event_registrations WHERE event_id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryBulkDelete(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM event_registrations WHERE event_id = ANY($1)")).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id = ANY($1)")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	deleted, err := repo.BulkDelete(context.Background(), []string{"evt-1", "evt-2"})
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpdateScheduledAt(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	backdated := time.Now().Add(-time.Hour)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET scheduled_at = $2 WHERE id = $1")).
		WithArgs("evt-1", backdated).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateScheduledAt(context.Background(), "evt-1", backdated))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryScanLegacyTimestampFormats(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	rows := eventStatRows().
		AddRow("evt-1", "Old Gala", "", "2023-05-10 18:00:00", "Hall", nil, "gala", false, "adm-1", time.Now(), 0, 0).
		AddRow("evt-2", "Newer Gala", "", "2024-05-10T18:00:00Z", "Hall", nil, "gala", false, "adm-1", time.Now(), 0, 0).
		AddRow("evt-3", "Broken Gala", "", "not-a-date", "Hall", nil, "gala", false, "adm-1", time.Now(), 0, 0)
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN event_registrations er ON e.id = er.event_id")).
		WillReturnRows(rows)

	events, err := repo.List(context.Background(), models.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.True(t, events[0].ScheduledAt.Valid)
	require.True(t, events[1].ScheduledAt.Valid)
	require.False(t, events[2].ScheduledAt.Valid)
	require.NoError(t, mock.ExpectationsWereMet())
}
