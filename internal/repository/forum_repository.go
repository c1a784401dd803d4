package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuslink/alumni-hub-api/internal/models"
)

// ForumRepository provides database access for forum posts and comments.
type ForumRepository struct {
	db *sqlx.DB
}

// NewForumRepository creates a new instance of ForumRepository.
func NewForumRepository(db *sqlx.DB) *ForumRepository {
	return &ForumRepository{db: db}
}

// ListPosts returns every thread with author name and comment count, newest
// first.
func (r *ForumRepository) ListPosts(ctx context.Context) ([]models.ForumPostSummary, error) {
	const query = `SELECT fp.id, fp.title, fp.content, fp.author_id, fp.created_at,
	ap.name AS author_name,
	COUNT(fc.id) AS comment_count
FROM forum_posts fp
LEFT JOIN alumni_profiles ap ON fp.author_id = ap.user_id
LEFT JOIN forum_comments fc ON fp.id = fc.post_id
GROUP BY fp.id, ap.name
ORDER BY fp.created_at DESC`
	var posts []models.ForumPostSummary
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("list forum posts: %w", err)
	}
	return posts, nil
}

// FindPost returns a single thread with its author name.
func (r *ForumRepository) FindPost(ctx context.Context, id string) (*models.ForumPostSummary, error) {
	const query = `SELECT fp.id, fp.title, fp.content, fp.author_id, fp.created_at,
	ap.name AS author_name,
	COUNT(fc.id) AS comment_count
FROM forum_posts fp
LEFT JOIN alumni_profiles ap ON fp.author_id = ap.user_id
LEFT JOIN forum_comments fc ON fp.id = fc.post_id
WHERE fp.id = $1
GROUP BY fp.id, ap.name`
	var post models.ForumPostSummary
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find forum post: %w", err)
	}
	return &post, nil
}

// CreatePost inserts a new thread.
func (r *ForumRepository) CreatePost(ctx context.Context, post *models.ForumPost) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO forum_posts (id, title, content, author_id, created_at)
VALUES (:id, :title, :content, :author_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create forum post: %w", err)
	}
	return nil
}

// DeletePost removes a thread and its comments in one transaction.
func (r *ForumRepository) DeletePost(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete forum post: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM forum_comments WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("delete forum comments: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM forum_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete forum post: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete forum post: %w", err)
	}
	return nil
}

// ListComments returns a thread's replies with author names, oldest first.
func (r *ForumRepository) ListComments(ctx context.Context, postID string) ([]models.ForumCommentDetail, error) {
	const query = `SELECT fc.id, fc.post_id, fc.author_id, fc.content, fc.created_at,
	ap.name AS author_name
FROM forum_comments fc
LEFT JOIN alumni_profiles ap ON fc.author_id = ap.user_id
WHERE fc.post_id = $1
ORDER BY fc.created_at ASC`
	var comments []models.ForumCommentDetail
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("list forum comments: %w", err)
	}
	return comments, nil
}

// CreateComment inserts a reply.
func (r *ForumRepository) CreateComment(ctx context.Context, comment *models.ForumComment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO forum_comments (id, post_id, author_id, content, created_at)
VALUES (:id, :post_id, :author_id, :content, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("create forum comment: %w", err)
	}
	return nil
}

// CountPosts returns the total number of threads.
func (r *ForumRepository) CountPosts(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM forum_posts`); err != nil {
		return 0, fmt.Errorf("count forum posts: %w", err)
	}
	return count, nil
}

// RecentPosts returns the latest thread summaries for the notification feed.
func (r *ForumRepository) RecentPosts(ctx context.Context, limit int) ([]models.ForumPostSummary, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT fp.id, fp.title, fp.content, fp.author_id, fp.created_at,
	ap.name AS author_name,
	0 AS comment_count
FROM forum_posts fp
LEFT JOIN alumni_profiles ap ON fp.author_id = ap.user_id
ORDER BY fp.created_at DESC
LIMIT %d`, limit)
	var posts []models.ForumPostSummary
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("recent forum posts: %w", err)
	}
	return posts, nil
}
