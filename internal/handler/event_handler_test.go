package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/alumni-hub-api/internal/middleware"
	"github.com/campuslink/alumni-hub-api/internal/models"
	"github.com/campuslink/alumni-hub-api/internal/service"
)

type fakeEventRepo struct {
	events []models.EventWithStats
}

func (f *fakeEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.EventWithStats, error) {
	return f.events, nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id string) (*models.EventWithStats, error) {
	for i := range f.events {
		if f.events[i].ID == id {
			return &f.events[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	event.ID = "evt-new"
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *models.Event) error { return nil }

func (f *fakeEventRepo) UpdateScheduledAt(ctx context.Context, id string, scheduledAt time.Time) error {
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeEventRepo) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	return int64(len(ids)), nil
}

func (f *fakeEventRepo) CountAll(ctx context.Context) (int, error) { return len(f.events), nil }

func (f *fakeEventRepo) LiveStatus(ctx context.Context, ids []string) ([]models.LiveEventStatus, error) {
	return nil, nil
}

type fakeEventRegistrationRepo struct {
	existing map[string]models.Registration
	created  *models.Registration
}

func (f *fakeEventRegistrationRepo) FindByEventAndUser(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	if reg, ok := f.existing[eventID+"/"+userID]; ok {
		return &reg, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEventRegistrationRepo) Create(ctx context.Context, reg *models.Registration) error {
	reg.ID = "reg-new"
	f.created = reg
	return nil
}

func (f *fakeEventRegistrationRepo) ListByUser(ctx context.Context, userID string) ([]models.UserRegistration, error) {
	return nil, nil
}

func newEventHandlerForTest(events []models.EventWithStats, regs *fakeEventRegistrationRepo) *EventHandler {
	svc := service.NewEventService(&fakeEventRepo{events: events}, regs, nil, nil, service.EventConfig{})
	return NewEventHandler(svc)
}

func setClaims(c *gin.Context, userID string, role models.UserRole) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: userID, Role: role})
}

func TestEventHandlerListGroupsByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	future := models.NewFlexTime(time.Now().Add(72 * time.Hour))
	h := newEventHandlerForTest([]models.EventWithStats{
		{Event: models.Event{ID: "evt-1", Title: "Reunion", ScheduledAt: future}},
	}, &fakeEventRegistrationRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/events", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data models.CategorizedEvents `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Upcoming, 1)
	assert.Equal(t, "Reunion", envelope.Data.Upcoming[0].Title)
	assert.Empty(t, envelope.Data.Past)
}

func TestEventHandlerRegisterCreatesRegistration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	regs := &fakeEventRegistrationRepo{}
	h := newEventHandlerForTest([]models.EventWithStats{
		{Event: models.Event{ID: "evt-1", Title: "Reunion"}},
	}, regs)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/events/evt-1/register", nil)
	c.Params = gin.Params{{Key: "id", Value: "evt-1"}}
	setClaims(c, "usr-1", models.RoleAlumni)

	h.Register(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, regs.created)
	assert.Equal(t, models.RegistrationStatusApproved, regs.created.Status)
}

func TestEventHandlerRegisterTwiceReturnsConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	regs := &fakeEventRegistrationRepo{existing: map[string]models.Registration{
		"evt-1/usr-1": {ID: "reg-1", EventID: "evt-1", UserID: "usr-1", Status: models.RegistrationStatusApproved},
	}}
	h := newEventHandlerForTest([]models.EventWithStats{
		{Event: models.Event{ID: "evt-1", Title: "Reunion"}},
	}, regs)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/events/evt-1/register", nil)
	c.Params = gin.Params{{Key: "id", Value: "evt-1"}}
	setClaims(c, "usr-1", models.RoleAlumni)

	h.Register(c)

	require.Equal(t, http.StatusConflict, rec.Code)
	var envelope struct {
		Data  models.Registration    `json:"data"`
		Error map[string]interface{} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "reg-1", envelope.Data.ID)
	assert.Equal(t, "ALREADY_REGISTERED", envelope.Error["code"])
	assert.Nil(t, regs.created)
}

func TestEventHandlerRegisterRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newEventHandlerForTest(nil, &fakeEventRegistrationRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/events/evt-1/register", nil)
	c.Params = gin.Params{{Key: "id", Value: "evt-1"}}

	h.Register(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEventHandlerBulkDeleteRejectsEmptyIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newEventHandlerForTest(nil, &fakeEventRegistrationRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	body := bytes.NewBufferString(`{"ids": []}`)
	c.Request = httptest.NewRequest(http.MethodPost, "/events/bulk-delete", body)
	c.Request.Header.Set("Content-Type", "application/json")

	h.BulkDelete(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
