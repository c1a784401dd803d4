package models

import "time"

// Message is a private message between two users.
type Message struct {
	ID          string    `db:"id" json:"id"`
	SenderID    string    `db:"sender_id" json:"sender_id"`
	RecipientID string    `db:"recipient_id" json:"recipient_id"`
	Subject     string    `db:"subject" json:"subject"`
	Content     string    `db:"content" json:"content"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// MessageDetail decorates a message with counterpart profile names.
type MessageDetail struct {
	Message
	SenderName    *string `db:"sender_name" json:"sender_name,omitempty"`
	RecipientName *string `db:"recipient_name" json:"recipient_name,omitempty"`
}

// Contact is a user reachable from the compose form.
type Contact struct {
	UserID string `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name"`
	Email  string `db:"email" json:"email"`
}

// Mailbox bundles the inbox view.
type Mailbox struct {
	Inbox       []MessageDetail `json:"inbox"`
	Sent        []MessageDetail `json:"sent"`
	UnreadCount int             `json:"unread_count"`
	Contacts    []Contact       `json:"contacts"`
}
