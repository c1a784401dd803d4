package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/alumni-hub-api/internal/models"
	"github.com/campuslink/alumni-hub-api/internal/service"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
	"github.com/campuslink/alumni-hub-api/pkg/response"
)

// JobBoardHandler exposes job board endpoints.
type JobBoardHandler struct {
	jobs *service.JobBoardService
}

// NewJobBoardHandler constructs handler.
func NewJobBoardHandler(jobs *service.JobBoardService) *JobBoardHandler {
	return &JobBoardHandler{jobs: jobs}
}

// List godoc
// @Summary List job postings
// @Tags Jobs
// @Produce json
// @Param job_type query string false "Job type filter"
// @Param location query string false "Location filter"
// @Success 200 {object} response.Envelope
// @Router /jobs [get]
func (h *JobBoardHandler) List(c *gin.Context) {
	filter := models.JobFilter{
		JobType:  c.Query("job_type"),
		Location: c.Query("location"),
	}
	res, err := h.jobs.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Create godoc
// @Summary Post a job opening
// @Tags Jobs
// @Accept json
// @Produce json
// @Param payload body service.CreateJobRequest true "Job payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /jobs [post]
func (h *JobBoardHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid job payload"))
		return
	}
	res, err := h.jobs.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Delete godoc
// @Summary Delete a job posting
// @Description Only the poster or an admin may delete a posting
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /jobs/{id} [delete]
func (h *JobBoardHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
