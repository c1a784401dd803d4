package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/alumni-hub-api/internal/service"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
	"github.com/campuslink/alumni-hub-api/pkg/response"
)

// ExportHandler serves CSV exports, certificates and signed downloads.
type ExportHandler struct {
	exports  *service.ExportService
	events   *service.EventService
	profiles *service.ProfileService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService, events *service.EventService, profiles *service.ProfileService) *ExportHandler {
	return &ExportHandler{exports: exports, events: events, profiles: profiles}
}

// ExportEvents godoc
// @Summary Export events as CSV
// @Description Empty id list exports every event
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body map[string][]string false "Event IDs"
// @Success 200 {object} response.Envelope
// @Router /exports/events [post]
func (h *ExportHandler) ExportEvents(c *gin.Context) {
	var payload struct {
		IDs []string `json:"ids"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
			return
		}
	}
	res, err := h.exports.ExportEvents(c.Request.Context(), payload.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// ExportAttendees godoc
// @Summary Export event attendees as CSV
// @Tags Exports
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/events/{id}/attendees [post]
func (h *ExportHandler) ExportAttendees(c *gin.Context) {
	res, err := h.exports.ExportAttendees(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Certificate godoc
// @Summary Download an attendance certificate
// @Description Only registered attendees can request a certificate for an event
// @Tags Exports
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/certificate [post]
func (h *ExportHandler) Certificate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	event, err := h.events.Get(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !event.IsRegistered {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "not registered for this event"))
		return
	}

	name := claims.Email
	profile, err := h.profiles.Get(c.Request.Context(), claims.UserID)
	if err == nil && profile.Name != "" {
		name = profile.Name
	}

	res, err := h.exports.GenerateCertificate(c.Request.Context(), event.ID, name, event.Title, event.ScheduledAt.Time)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Download godoc
// @Summary Download a generated file by signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	_, relPath, _, err := h.exports.ParseToken(token, false)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token"))
		return
	}
	filename := filepath.Base(relPath)

	file, err := h.exports.OpenFile(relPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export no longer available"))
			return
		}
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	contentType := "application/octet-stream"
	switch filepath.Ext(filename) {
	case ".csv":
		contentType = "text/csv"
	case ".pdf":
		contentType = "application/pdf"
	}

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", contentType)
	http.ServeContent(c.Writer, c.Request, filename, info.ModTime(), file)
}
