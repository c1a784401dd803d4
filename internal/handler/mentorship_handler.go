package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/alumni-hub-api/internal/service"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
	"github.com/campuslink/alumni-hub-api/pkg/response"
)

// MentorshipHandler exposes mentorship request endpoints.
type MentorshipHandler struct {
	mentorship *service.MentorshipService
}

// NewMentorshipHandler constructs handler.
func NewMentorshipHandler(mentorship *service.MentorshipService) *MentorshipHandler {
	return &MentorshipHandler{mentorship: mentorship}
}

// Request godoc
// @Summary Request mentorship from an available mentor
// @Tags Mentorship
// @Accept json
// @Produce json
// @Param payload body service.RequestMentorshipRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /mentorship/requests [post]
func (h *MentorshipHandler) Request(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.RequestMentorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mentorship payload"))
		return
	}
	res, err := h.mentorship.Request(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Respond godoc
// @Summary Accept or reject a mentorship request
// @Description Only the addressed mentor may respond, and only while pending
// @Tags Mentorship
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body map[string]bool true "Accept flag"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /mentorship/requests/{id}/respond [put]
func (h *MentorshipHandler) Respond(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var payload struct {
		Accept *bool `json:"accept" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "accept flag required"))
		return
	}
	res, err := h.mentorship.Respond(c.Request.Context(), c.Param("id"), claims.UserID, *payload.Accept)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// MyRequests godoc
// @Summary Mentorship requests involving the caller
// @Tags Mentorship
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /mentorship/requests [get]
func (h *MentorshipHandler) MyRequests(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	incoming, outgoing, err := h.mentorship.MyRequests(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"incoming": incoming, "outgoing": outgoing}, nil)
}
