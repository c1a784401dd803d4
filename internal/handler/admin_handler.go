package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/alumni-hub-api/internal/middleware"
	"github.com/campuslink/alumni-hub-api/internal/service"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
	"github.com/campuslink/alumni-hub-api/pkg/response"
)

// AdminHandler exposes alumni verification and dashboard endpoints.
type AdminHandler struct {
	users     *service.UserService
	dashboard *service.DashboardService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(users *service.UserService, dashboard *service.DashboardService) *AdminHandler {
	return &AdminHandler{users: users, dashboard: dashboard}
}

// AddAlumnus godoc
// @Summary Create an alumni account
// @Description Optionally auto-verifies so the account can log in at once
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.AddAlumnusRequest true "Account payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/alumni [post]
func (h *AdminHandler) AddAlumnus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.AddAlumnusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid account payload"))
		return
	}
	res, err := h.users.AddAlumnus(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboard.InvalidateStats(c.Request.Context())
	response.Created(c, res)
}

// VerifyAlumnus godoc
// @Summary Verify an alumni account
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/alumni/{id}/verify [put]
func (h *AdminHandler) VerifyAlumnus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.users.VerifyAlumnus(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	h.dashboard.InvalidateStats(c.Request.Context())
	response.NoContent(c)
}

// RemoveAlumnus godoc
// @Summary Delete an alumni account and its profile
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/alumni/{id} [delete]
func (h *AdminHandler) RemoveAlumnus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.users.RemoveAlumnus(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	h.dashboard.InvalidateStats(c.Request.Context())
	response.NoContent(c)
}

// PendingVerification godoc
// @Summary Alumni accounts awaiting verification
// @Tags Admin
// @Produce json
// @Param limit query int false "Maximum results"
// @Success 200 {object} response.Envelope
// @Router /admin/alumni/pending [get]
func (h *AdminHandler) PendingVerification(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive number"))
			return
		}
		limit = parsed
	}
	res, err := h.users.PendingVerification(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Dashboard godoc
// @Summary Admin dashboard statistics and pending verifications
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	res, cacheHit, err := h.dashboard.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, res, nil, middleware.ExtractMeta(c))
}
