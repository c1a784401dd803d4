package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/alumni-hub-api/internal/service"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
	"github.com/campuslink/alumni-hub-api/pkg/response"
)

// NotificationHandler exposes the aggregated notification feed.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler constructs handler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Feed godoc
// @Summary Notification feed
// @Description Active announcements, upcoming events and recent forum posts, newest first
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) Feed(c *gin.Context) {
	res, err := h.notifications.Feed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// DispatchReminders godoc
// @Summary Queue reminders for tomorrow's events
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/notifications/reminders [post]
func (h *NotificationHandler) DispatchReminders(c *gin.Context) {
	queued, err := h.notifications.DispatchEventReminders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"queued": queued}, nil)
}

// Remind godoc
// @Summary Queue targeted reminders
// @Description Accepts registration ids, event ids or both
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/notifications/remind [post]
func (h *NotificationHandler) Remind(c *gin.Context) {
	var req struct {
		RegistrationIDs []string `json:"registration_ids"`
		EventIDs        []string `json:"event_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reminder payload"))
		return
	}
	if len(req.RegistrationIDs) == 0 && len(req.EventIDs) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "registration_ids or event_ids required"))
		return
	}

	queued := 0
	if len(req.RegistrationIDs) > 0 {
		n, err := h.notifications.RemindRegistrations(c.Request.Context(), req.RegistrationIDs)
		if err != nil {
			response.Error(c, err)
			return
		}
		queued += n
	}
	if len(req.EventIDs) > 0 {
		n, err := h.notifications.RemindEvents(c.Request.Context(), req.EventIDs)
		if err != nil {
			response.Error(c, err)
			return
		}
		queued += n
	}
	response.JSON(c, http.StatusOK, gin.H{"queued": queued}, nil)
}

// BroadcastEvent godoc
// @Summary Message every approved attendee of an event
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/events/{id}/broadcast [post]
func (h *NotificationHandler) BroadcastEvent(c *gin.Context) {
	var req struct {
		Subject string `json:"subject" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid broadcast payload"))
		return
	}
	queued, err := h.notifications.BroadcastEvent(c.Request.Context(), c.Param("id"), req.Subject, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"queued": queued}, nil)
}
