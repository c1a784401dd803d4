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

type messageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	FindByID(ctx context.Context, id string) (*models.Message, error)
	ListInbox(ctx context.Context, userID string) ([]models.MessageDetail, error)
	ListSent(ctx context.Context, userID string) ([]models.MessageDetail, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	Delete(ctx context.Context, id, participantID string) error
	ListContacts(ctx context.Context, userID string) ([]models.Contact, error)
}

type messageUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// MessageService handles private messaging between members.
type MessageService struct {
	repo      messageRepository
	users     messageUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMessageService constructs the service.
func NewMessageService(repo messageRepository, users messageUserRepository, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{repo: repo, users: users, validator: validate, logger: logger}
}

// SendMessageRequest describes the compose payload.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Content     string `json:"content" validate:"required"`
}

// Mailbox returns the full inbox view for a user.
func (s *MessageService) Mailbox(ctx context.Context, userID string) (*models.Mailbox, error) {
	inbox, err := s.repo.ListInbox(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inbox")
	}
	sent, err := s.repo.ListSent(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sent messages")
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread messages")
	}
	contacts, err := s.repo.ListContacts(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contacts")
	}
	return &models.Mailbox{Inbox: inbox, Sent: sent, UnreadCount: unread, Contacts: contacts}, nil
}

// Send delivers a message to another member. Sending to yourself or to an
// unknown account is rejected.
func (s *MessageService) Send(ctx context.Context, senderID string, req SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}
	if req.RecipientID == senderID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot send a message to yourself")
	}
	if _, err := s.users.FindByID(ctx, req.RecipientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "recipient not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recipient")
	}
	msg := &models.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Subject:     req.Subject,
		Content:     req.Content,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send message")
	}
	return msg, nil
}

// Read returns a message and marks it read when the requester is its
// recipient. Only sender and recipient may read a message.
func (s *MessageService) Read(ctx context.Context, id, requesterID string) (*models.Message, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "message not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load message")
	}
	if msg.SenderID != requesterID && msg.RecipientID != requesterID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "message belongs to another conversation")
	}
	if msg.RecipientID == requesterID && !msg.IsRead {
		if err := s.repo.MarkRead(ctx, id, requesterID); err != nil {
			s.logger.Warn("failed to mark message read", zap.String("message_id", id), zap.Error(err))
		} else {
			msg.IsRead = true
		}
	}
	return msg, nil
}

// Delete removes a message from a conversation the requester takes part in.
func (s *MessageService) Delete(ctx context.Context, id, requesterID string) error {
	if err := s.repo.Delete(ctx, id, requesterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "message not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete message")
	}
	return nil
}
