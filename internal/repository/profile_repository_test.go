package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/alumni-hub-api/internal/models"
)

func newProfileRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func directoryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "name", "batch_year", "department", "current_job", "company",
		"location", "achievements", "profile_picture", "cv_file", "linkedin_url",
		"privacy_level", "available_for_mentorship", "created_at", "email",
	})
}

func TestProfileRepositorySearchDirectoryAppliesFilters(t *testing.T) {
	db, mock, cleanup := newProfileRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	rows := directoryRows().
		AddRow("prf-1", "usr-1", "Budi Santoso", 2018, "Computer Science", "Engineer", "Acme Corp", nil, nil, nil, nil, nil, models.PrivacyPublic, true, time.Now(), "budi@example.com")
	mock.ExpectQuery(regexp.QuoteMeta("AND ap.batch_year = $2")).
		WithArgs("%acme%", 2018).
		WillReturnRows(rows)

	year := 2018
	profiles, err := repo.SearchDirectory(context.Background(), models.DirectoryFilter{Search: "acme", BatchYear: &year})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.Equal(t, "budi@example.com", profiles[0].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryListMentors(t *testing.T) {
	db, mock, cleanup := newProfileRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	rows := directoryRows().
		AddRow("prf-1", "usr-1", "Rina Putri", 2019, nil, nil, nil, nil, nil, nil, nil, nil, models.PrivacyPublic, true, time.Now(), "rina@example.com")
	mock.ExpectQuery(regexp.QuoteMeta("ap.available_for_mentorship = TRUE")).
		WillReturnRows(rows)

	mentors, err := repo.ListMentors(context.Background())
	require.NoError(t, err)
	require.Len(t, mentors, 1)
	require.True(t, mentors[0].AvailableForMentorship)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryDistinctBatchYears(t *testing.T) {
	db, mock, cleanup := newProfileRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT batch_year")).
		WillReturnRows(sqlmock.NewRows([]string{"batch_year"}).AddRow(2015).AddRow(2018))

	years, err := repo.DistinctBatchYears(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{2015, 2018}, years)
	require.NoError(t, mock.ExpectationsWereMet())
}
