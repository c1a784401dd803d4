package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/alumni-hub-api/internal/models"
	"github.com/campuslink/alumni-hub-api/pkg/storage"
)

type mockExportEventRepo struct {
	events []models.EventWithStats
}

func (m *mockExportEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.EventWithStats, error) {
	if len(filter.IDs) == 0 {
		return m.events, nil
	}
	wanted := make(map[string]bool, len(filter.IDs))
	for _, id := range filter.IDs {
		wanted[id] = true
	}
	var out []models.EventWithStats
	for _, e := range m.events {
		if wanted[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockExportRegistrationRepo struct {
	details []models.RegistrationDetail
}

func (m *mockExportRegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]models.RegistrationDetail, error) {
	return m.details, nil
}

type memoryStorage struct {
	files map[string][]byte
}

func (m *memoryStorage) Save(filename string, data []byte) (string, error) {
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[filename] = data
	return filename, nil
}

func (m *memoryStorage) Open(filename string) (*os.File, error) { return nil, os.ErrNotExist }

func (m *memoryStorage) Delete(filename string) error { return nil }

func (m *memoryStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) { return nil, nil }

func newExportServiceForTest(events *mockExportEventRepo, regs *mockExportRegistrationRepo, store *memoryStorage) *ExportService {
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(events, regs, store, signer, ExportConfig{APIPrefix: "/api/v1"}, nil, nil, nil)
}

func TestExportEventsCSVColumnsAndFilename(t *testing.T) {
	now := time.Now()
	capacity := 100
	events := &mockExportEventRepo{events: []models.EventWithStats{
		{
			Event: models.Event{
				ID:          "evt-1",
				Title:       "Career Fair",
				Description: "Annual fair",
				ScheduledAt: models.NewFlexTime(now.Add(48 * time.Hour)),
				Location:    "Main Hall",
				Capacity:    &capacity,
				EventType:   "workshop",
			},
			RegistrationCount: 7,
		},
	}}
	store := &memoryStorage{}
	svc := newExportServiceForTest(events, &mockExportRegistrationRepo{}, store)

	result, err := svc.ExportEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^events_export_\d{8}_\d{6}\.csv$`), result.Filename)
	assert.Contains(t, result.URL, "/api/v1/exports/download/")
	assert.NotEmpty(t, result.Token)

	payload, ok := store.files[result.Filename]
	require.True(t, ok)
	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"ID", "Title", "Description", "Date", "Location", "Type", "Registrations", "Status"}, records[0])
	assert.Equal(t, "evt-1", records[1][0])
	assert.Equal(t, "7", records[1][6])
	assert.Equal(t, "Upcoming", records[1][7])
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`), records[1][3])
}

func TestExportEventsIncludesUnreadableTimestamps(t *testing.T) {
	events := &mockExportEventRepo{events: []models.EventWithStats{
		{Event: models.Event{ID: "evt-1", Title: "Broken Gala", Location: "Hall", EventType: "gala"}},
	}}
	store := &memoryStorage{}
	svc := newExportServiceForTest(events, &mockExportRegistrationRepo{}, store)

	result, err := svc.ExportEvents(context.Background(), nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(store.files[result.Filename])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "", records[1][3], "date column stays empty")
	assert.Equal(t, "", records[1][7], "status column stays empty")
}

func TestExportEventsSubsetFilter(t *testing.T) {
	now := time.Now()
	events := &mockExportEventRepo{events: []models.EventWithStats{
		{Event: models.Event{ID: "evt-1", Title: "A", ScheduledAt: models.NewFlexTime(now)}},
		{Event: models.Event{ID: "evt-2", Title: "B", ScheduledAt: models.NewFlexTime(now)}},
	}}
	store := &memoryStorage{}
	svc := newExportServiceForTest(events, &mockExportRegistrationRepo{}, store)

	result, err := svc.ExportEvents(context.Background(), []string{"evt-2"})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(store.files[result.Filename])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "evt-2", records[1][0])
}

func TestExportAttendeesCSV(t *testing.T) {
	batch := 2018
	dept := "Computer Science"
	regs := &mockExportRegistrationRepo{details: []models.RegistrationDetail{
		{
			Registration: models.Registration{
				ID:           "reg-1",
				Status:       models.RegistrationStatusApproved,
				Attended:     true,
				RegisteredAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
			},
			Name:       "Budi Santoso",
			Email:      "budi@example.com",
			BatchYear:  &batch,
			Department: &dept,
		},
	}}
	store := &memoryStorage{}
	svc := newExportServiceForTest(&mockExportEventRepo{}, regs, store)

	result, err := svc.ExportAttendees(context.Background(), "evt-1")
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(store.files[result.Filename])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Name", "Email", "Batch Year", "Department", "Status", "Attended", "Registered At"}, records[0])
	assert.Equal(t, "Budi Santoso", records[1][0])
	assert.Equal(t, "2018", records[1][2])
	assert.Equal(t, "true", records[1][5])
}

func TestExportTokenRoundTrip(t *testing.T) {
	store := &memoryStorage{}
	svc := newExportServiceForTest(&mockExportEventRepo{}, &mockExportRegistrationRepo{}, store)

	result, err := svc.ExportEvents(context.Background(), nil)
	require.NoError(t, err)

	// The filename carries a ".csv" dot, so the signed id must not be the
	// filename itself or parsing falls apart on the dot-joined token.
	require.Len(t, strings.Split(result.Token, "."), 4)

	fileID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, result.RelativePath, relPath)
	assert.NotContains(t, fileID, ".")
}
