package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuslink/alumni-hub-api/internal/lifecycle"
	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
	"github.com/campuslink/alumni-hub-api/pkg/export"
	"github.com/campuslink/alumni-hub-api/pkg/storage"
)

// eventExportHeaders is the fixed column order of the events CSV.
var eventExportHeaders = []string{"ID", "Title", "Description", "Date", "Location", "Type", "Registrations", "Status"}

var attendeeExportHeaders = []string{"Name", "Email", "Batch Year", "Department", "Status", "Attended", "Registered At"}

type exportEventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.EventWithStats, error)
}

type exportRegistrationRepository interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.RegistrationDetail, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	RenderCertificate(attendee, eventTitle string, eventDate time.Time) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	Filename     string
	RelativePath string
	Token        string
	URL          string
	ExpiresAt    time.Time
}

// ExportService renders event data into downloadable CSV and PDF files.
type ExportService struct {
	events        exportEventRepository
	registrations exportRegistrationRepository
	storage       fileStorage
	csv           csvRenderer
	pdf           pdfRenderer
	signer        *storage.SignedURLSigner
	logger        *zap.Logger
	cfg           ExportConfig
	now           func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(events exportEventRepository, registrations exportRegistrationRepository, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		events:        events,
		registrations: registrations,
		storage:       store,
		csv:           csv,
		pdf:           pdf,
		signer:        signer,
		logger:        logger,
		cfg:           cfg,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ExportEvents renders the full event catalog, or the given subset, as CSV.
// Every event appears with its registration count and derived status; events
// with unreadable timestamps export with an empty Date and Status rather than
// aborting the file.
func (s *ExportService) ExportEvents(ctx context.Context, ids []string) (*ExportResult, error) {
	events, err := s.events.List(ctx, models.EventFilter{IDs: ids, Order: models.EventOrderHistory})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events for export")
	}

	now := s.now()
	dataset := export.Dataset{Headers: eventExportHeaders}
	for _, event := range events {
		date := ""
		if event.ScheduledAt.Valid {
			date = event.ScheduledAt.Time.Format("2006-01-02 15:04:05")
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":            event.ID,
			"Title":         event.Title,
			"Description":   event.Description,
			"Date":          date,
			"Location":      event.Location,
			"Type":          event.EventType,
			"Registrations": strconv.Itoa(event.RegistrationCount),
			"Status":        lifecycle.Classify(event.ScheduledAt, now).Title(),
		})
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render events csv")
	}

	filename := fmt.Sprintf("events_export_%s.csv", now.Format("20060102_150405"))
	return s.store(filename, payload)
}

// ExportAttendees renders an event's registration list as CSV.
func (s *ExportService) ExportAttendees(ctx context.Context, eventID string) (*ExportResult, error) {
	details, err := s.registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations for export")
	}

	dataset := export.Dataset{Headers: attendeeExportHeaders}
	for _, reg := range details {
		batch := ""
		if reg.BatchYear != nil {
			batch = strconv.Itoa(*reg.BatchYear)
		}
		department := ""
		if reg.Department != nil {
			department = *reg.Department
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Name":          reg.Name,
			"Email":         reg.Email,
			"Batch Year":    batch,
			"Department":    department,
			"Status":        string(reg.Status),
			"Attended":      strconv.FormatBool(reg.Attended),
			"Registered At": reg.RegisteredAt.Format("2006-01-02 15:04"),
		})
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render attendees csv")
	}

	filename := fmt.Sprintf("attendees_%s_%s.csv", eventID, s.now().Format("20060102_150405"))
	return s.store(filename, payload)
}

// GenerateCertificate renders an attendance certificate PDF for one
// registrant of an event.
func (s *ExportService) GenerateCertificate(ctx context.Context, eventID, attendeeName, eventTitle string, eventDate time.Time) (*ExportResult, error) {
	payload, err := s.pdf.RenderCertificate(attendeeName, eventTitle, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}

	slug := strings.ToLower(strings.ReplaceAll(attendeeName, " ", "_"))
	filename := fmt.Sprintf("certificate_%s_%s.pdf", eventID, slug)
	return s.store(filename, payload)
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (fileID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// OpenFile returns a handle on a previously generated export.
func (s *ExportService) OpenFile(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes generated exports older than the result TTL.
func (s *ExportService) Cleanup() ([]string, error) {
	return s.storage.CleanupOlderThan(s.cfg.ResultTTL)
}

func (s *ExportService) store(filename string, payload []byte) (*ExportResult, error) {
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	// The token id must stay dot-free so the signer can parse it back;
	// filenames carry extensions, so a fresh uuid stands in for them.
	token, expiresAt, err := s.signer.Generate(uuid.NewString(), relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		Filename:     filename,
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download/%s", prefix, token),
		ExpiresAt:    expiresAt,
	}, nil
}
