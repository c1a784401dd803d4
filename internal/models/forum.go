package models

import "time"

// ForumPost is a discussion thread opener.
type ForumPost struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	AuthorID  string    `db:"author_id" json:"author_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ForumPostSummary decorates a post with author identity and comment volume.
type ForumPostSummary struct {
	ForumPost
	AuthorName   *string `db:"author_name" json:"author_name,omitempty"`
	CommentCount int     `db:"comment_count" json:"comment_count"`
}

// ForumComment is a reply inside a thread.
type ForumComment struct {
	ID        string    `db:"id" json:"id"`
	PostID    string    `db:"post_id" json:"post_id"`
	AuthorID  string    `db:"author_id" json:"author_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ForumCommentDetail decorates a comment with the author's profile name.
type ForumCommentDetail struct {
	ForumComment
	AuthorName *string `db:"author_name" json:"author_name,omitempty"`
}
