package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/alumni-hub-api/internal/models"
	"github.com/campuslink/alumni-hub-api/internal/service"
	"github.com/campuslink/alumni-hub-api/pkg/config"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
	"github.com/campuslink/alumni-hub-api/pkg/response"
	"github.com/campuslink/alumni-hub-api/pkg/storage"
)

// ProfileHandler exposes profile, directory and upload endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
	uploads  *storage.LocalStorage
	cfg      config.UploadsConfig
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService, uploads *storage.LocalStorage, cfg config.UploadsConfig) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, uploads: uploads, cfg: cfg}
}

// Me godoc
// @Summary Get the caller's profile
// @Tags Profiles
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /profiles/me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	res, err := h.profiles.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Save godoc
// @Summary Create or update the caller's profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param payload body service.SaveProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profiles/me [put]
func (h *ProfileHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}
	res, err := h.profiles.Save(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// SyncLinkedin godoc
// @Summary Request a LinkedIn profile import
// @Tags Profiles
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profiles/me/linkedin-sync [post]
func (h *ProfileHandler) SyncLinkedin(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	res, err := h.profiles.SyncLinkedin(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, res, nil)
}

// Upload godoc
// @Summary Upload profile picture or CV
// @Description Accepts multipart form fields "picture" and/or "cv"
// @Tags Profiles
// @Accept mpfd
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profiles/me/files [post]
func (h *ProfileHandler) Upload(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	picturePath, err := h.storeUpload(c, "picture", "profile_pics", claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	cvPath, err := h.storeUpload(c, "cv", "cv_files", claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if picturePath == nil && cvPath == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "picture or cv file required"))
		return
	}

	res, err := h.profiles.AttachFiles(c.Request.Context(), claims.UserID, picturePath, cvPath)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

func (h *ProfileHandler) storeUpload(c *gin.Context, field, dir, userID string) (*string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		// Absent field is fine; each upload is optional.
		return nil, nil
	}
	if h.cfg.MaxFileSizeBytes > 0 && header.Size > h.cfg.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s exceeds %d bytes", field, h.cfg.MaxFileSizeBytes))
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !h.extensionAllowed(ext) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %q not allowed", ext))
	}

	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	defer file.Close() //nolint:errcheck

	relPath := filepath.Join(dir, userID+ext)
	if _, err := h.uploads.SaveStream(relPath, file); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload")
	}
	return &relPath, nil
}

func (h *ProfileHandler) extensionAllowed(ext string) bool {
	if len(h.cfg.AllowedExtensions) == 0 {
		return true
	}
	for _, allowed := range h.cfg.AllowedExtensions {
		if strings.EqualFold(strings.TrimPrefix(allowed, "."), strings.TrimPrefix(ext, ".")) {
			return true
		}
	}
	return false
}

// Directory godoc
// @Summary Search the alumni directory
// @Description Only verified alumni with public profiles appear
// @Tags Profiles
// @Produce json
// @Param search query string false "Name, company or job search"
// @Param batch_year query int false "Batch year filter"
// @Param department query string false "Department filter"
// @Success 200 {object} response.Envelope
// @Router /directory [get]
func (h *ProfileHandler) Directory(c *gin.Context) {
	filter := models.DirectoryFilter{
		Search:     c.Query("search"),
		Department: c.Query("department"),
	}
	if raw := c.Query("batch_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "batch_year must be a number"))
			return
		}
		filter.BatchYear = &year
	}

	res, err := h.profiles.Directory(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// DirectoryFilters godoc
// @Summary Available directory filter values
// @Tags Profiles
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /directory/filters [get]
func (h *ProfileHandler) DirectoryFilters(c *gin.Context) {
	res, err := h.profiles.DirectoryFilters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Mentors godoc
// @Summary List alumni available for mentorship
// @Tags Mentorship
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /mentorship/mentors [get]
func (h *ProfileHandler) Mentors(c *gin.Context) {
	res, err := h.profiles.Mentors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// ListForAdmin godoc
// @Summary List all alumni profiles with account state
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/alumni [get]
func (h *ProfileHandler) ListForAdmin(c *gin.Context) {
	res, err := h.profiles.ListForAdmin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
