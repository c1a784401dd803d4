package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/alumni-hub-api/internal/service"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
	"github.com/campuslink/alumni-hub-api/pkg/response"
)

// ForumHandler exposes community forum endpoints.
type ForumHandler struct {
	forum *service.ForumService
}

// NewForumHandler constructs handler.
func NewForumHandler(forum *service.ForumService) *ForumHandler {
	return &ForumHandler{forum: forum}
}

// ListPosts godoc
// @Summary List forum posts
// @Tags Forum
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /forum/posts [get]
func (h *ForumHandler) ListPosts(c *gin.Context) {
	res, err := h.forum.ListPosts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// GetThread godoc
// @Summary Post with its comments
// @Tags Forum
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /forum/posts/{id} [get]
func (h *ForumHandler) GetThread(c *gin.Context) {
	res, err := h.forum.GetThread(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// CreatePost godoc
// @Summary Create a forum post
// @Tags Forum
// @Accept json
// @Produce json
// @Param payload body service.CreatePostRequest true "Post payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /forum/posts [post]
func (h *ForumHandler) CreatePost(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid post payload"))
		return
	}
	res, err := h.forum.CreatePost(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// DeletePost godoc
// @Summary Delete a post and its comments
// @Description Only the author or an admin may delete a post
// @Tags Forum
// @Produce json
// @Param id path string true "Post ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /forum/posts/{id} [delete]
func (h *ForumHandler) DeletePost(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.forum.DeletePost(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddComment godoc
// @Summary Comment on a post
// @Tags Forum
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param payload body service.CreateCommentRequest true "Comment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /forum/posts/{id}/comments [post]
func (h *ForumHandler) AddComment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid comment payload"))
		return
	}
	res, err := h.forum.AddComment(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}
