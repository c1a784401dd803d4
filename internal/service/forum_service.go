package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
)

type forumRepository interface {
	ListPosts(ctx context.Context) ([]models.ForumPostSummary, error)
	FindPost(ctx context.Context, id string) (*models.ForumPostSummary, error)
	CreatePost(ctx context.Context, post *models.ForumPost) error
	DeletePost(ctx context.Context, id string) error
	ListComments(ctx context.Context, postID string) ([]models.ForumCommentDetail, error)
	CreateComment(ctx context.Context, comment *models.ForumComment) error
}

// ForumService handles discussion threads and replies.
type ForumService struct {
	repo      forumRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewForumService constructs the service.
func NewForumService(repo forumRepository, validate *validator.Validate, logger *zap.Logger) *ForumService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ForumService{repo: repo, validator: validate, logger: logger}
}

// CreatePostRequest describes a new thread payload.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// CreateCommentRequest describes a reply payload.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// ThreadView bundles a post with its replies.
type ThreadView struct {
	Post     models.ForumPostSummary    `json:"post"`
	Comments []models.ForumCommentDetail `json:"comments"`
}

// ListPosts returns every thread, newest first.
func (s *ForumService) ListPosts(ctx context.Context) ([]models.ForumPostSummary, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list posts")
	}
	return posts, nil
}

// GetThread returns a post together with its replies.
func (s *ForumService) GetThread(ctx context.Context, postID string) (*ThreadView, error) {
	post, err := s.repo.FindPost(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load post")
	}
	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load comments")
	}
	return &ThreadView{Post: *post, Comments: comments}, nil
}

// CreatePost opens a new thread.
func (s *ForumService) CreatePost(ctx context.Context, authorID string, req CreatePostRequest) (*models.ForumPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid post payload")
	}
	post := &models.ForumPost{Title: req.Title, Content: req.Content, AuthorID: authorID}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create post")
	}
	return post, nil
}

// DeletePost removes a thread. Authors may delete their own threads, admins
// may delete any.
func (s *ForumService) DeletePost(ctx context.Context, postID, requesterID string, requesterRole models.UserRole) error {
	post, err := s.repo.FindPost(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load post")
	}
	if requesterRole != models.RoleAdmin && post.AuthorID != requesterID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete another member's post")
	}
	if err := s.repo.DeletePost(ctx, postID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete post")
	}
	return nil
}

// AddComment replies to a thread.
func (s *ForumService) AddComment(ctx context.Context, postID, authorID string, req CreateCommentRequest) (*models.ForumComment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload")
	}
	if _, err := s.repo.FindPost(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load post")
	}
	comment := &models.ForumComment{PostID: postID, AuthorID: authorID, Content: req.Content}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create comment")
	}
	return comment, nil
}
