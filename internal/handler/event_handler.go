package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/alumni-hub-api/internal/models"
	"github.com/campuslink/alumni-hub-api/internal/service"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
	"github.com/campuslink/alumni-hub-api/pkg/response"
)

// EventHandler exposes the event lifecycle endpoints.
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler constructs handler.
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List godoc
// @Summary List events grouped by lifecycle status
// @Description Returns ongoing, upcoming and past events; past is capped to the configured history window
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	viewerID := ""
	if claims := claimsFromContext(c); claims != nil {
		viewerID = claims.UserID
	}
	res, err := h.events.ListCategorized(c.Request.Context(), viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// ListAll godoc
// @Summary List all events without trimming
// @Tags Events
// @Produce json
// @Param order query string false "Sort order: upcoming or history"
// @Success 200 {object} response.Envelope
// @Router /events/all [get]
func (h *EventHandler) ListAll(c *gin.Context) {
	order := models.EventOrderUpcoming
	if c.Query("order") == string(models.EventOrderHistory) {
		order = models.EventOrderHistory
	}
	viewerID := ""
	if claims := claimsFromContext(c); claims != nil {
		viewerID = claims.UserID
	}
	res, err := h.events.ListAll(c.Request.Context(), order, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Overview godoc
// @Summary Event counters for dashboards
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/overview [get]
func (h *EventHandler) Overview(c *gin.Context) {
	res, err := h.events.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// LiveStatus godoc
// @Summary Live registration counters for today's events
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/live [get]
func (h *EventHandler) LiveStatus(c *gin.Context) {
	res, err := h.events.LiveStatus(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Get godoc
// @Summary Event detail
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	viewerID := ""
	if claims := claimsFromContext(c); claims != nil {
		viewerID = claims.UserID
	}
	res, err := h.events.Get(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Create godoc
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body service.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}
	res, err := h.events.Create(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Update godoc
// @Summary Update event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body service.UpdateEventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}
	res, err := h.events.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Delete godoc
// @Summary Delete event and its registrations
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkDelete godoc
// @Summary Delete multiple events
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body map[string][]string true "Event IDs"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events/bulk-delete [post]
func (h *EventHandler) BulkDelete(c *gin.Context) {
	var payload struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk delete payload"))
		return
	}
	deleted, err := h.events.BulkDelete(c.Request.Context(), payload.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": deleted}, nil)
}

// Duplicate godoc
// @Summary Duplicate an event one week out
// @Description Creates a copy of the event scheduled at the configured offset, without registrations
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/duplicate [post]
func (h *EventHandler) Duplicate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	res, err := h.events.Duplicate(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// End godoc
// @Summary End an event immediately
// @Description Backdates the schedule so the event classifies as past
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/end [post]
func (h *EventHandler) End(c *gin.Context) {
	if err := h.events.End(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Register godoc
// @Summary Register for an event
// @Description Idempotent; registering twice returns the existing registration
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events/{id}/register [post]
func (h *EventHandler) Register(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	reg, err := h.events.Register(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		if reg != nil {
			// Existing registration is still returned so the client can
			// show the current status.
			appErr := appErrors.FromError(err)
			c.JSON(appErr.Status, response.Envelope{Data: reg, Error: appErr})
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, reg)
}

// MyRegistrations godoc
// @Summary List the caller's event registrations
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/my-registrations [get]
func (h *EventHandler) MyRegistrations(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	res, err := h.events.MyRegistrations(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
