package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
)

type mockMessageRepo struct {
	messages map[string]*models.Message
}

func newMockMessageRepo(msgs ...*models.Message) *mockMessageRepo {
	repo := &mockMessageRepo{messages: make(map[string]*models.Message)}
	for _, m := range msgs {
		repo.messages[m.ID] = m
	}
	return repo
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = "msg-generated"
	}
	msg.CreatedAt = time.Now()
	m.messages[msg.ID] = msg
	return nil
}

func (m *mockMessageRepo) FindByID(ctx context.Context, id string) (*models.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *msg
	return &copied, nil
}

func (m *mockMessageRepo) ListInbox(ctx context.Context, userID string) ([]models.MessageDetail, error) {
	return nil, nil
}

func (m *mockMessageRepo) ListSent(ctx context.Context, userID string) ([]models.MessageDetail, error) {
	return nil, nil
}

func (m *mockMessageRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, msg := range m.messages {
		if msg.RecipientID == userID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, id, recipientID string) error {
	msg, ok := m.messages[id]
	if !ok || msg.RecipientID != recipientID {
		return sql.ErrNoRows
	}
	msg.IsRead = true
	return nil
}

func (m *mockMessageRepo) Delete(ctx context.Context, id, participantID string) error {
	msg, ok := m.messages[id]
	if !ok || (msg.SenderID != participantID && msg.RecipientID != participantID) {
		return sql.ErrNoRows
	}
	delete(m.messages, id)
	return nil
}

func (m *mockMessageRepo) ListContacts(ctx context.Context, userID string) ([]models.Contact, error) {
	return nil, nil
}

type mockMessageUserRepo struct {
	users map[string]*models.User
}

func (m *mockMessageUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func newMessageServiceForTest(repo *mockMessageRepo) *MessageService {
	users := &mockMessageUserRepo{users: map[string]*models.User{
		"usr-1": {ID: "usr-1"},
		"usr-2": {ID: "usr-2"},
	}}
	return NewMessageService(repo, users, nil, nil)
}

func TestMessageSendRejectsSelfAndUnknownRecipient(t *testing.T) {
	svc := newMessageServiceForTest(newMockMessageRepo())

	_, err := svc.Send(context.Background(), "usr-1", SendMessageRequest{RecipientID: "usr-1", Subject: "hi", Content: "hello"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Send(context.Background(), "usr-1", SendMessageRequest{RecipientID: "usr-missing", Subject: "hi", Content: "hello"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMessageReadMarksOnlyForRecipient(t *testing.T) {
	repo := newMockMessageRepo(&models.Message{ID: "msg-1", SenderID: "usr-1", RecipientID: "usr-2"})
	svc := newMessageServiceForTest(repo)

	msg, err := svc.Read(context.Background(), "msg-1", "usr-1")
	require.NoError(t, err)
	assert.False(t, msg.IsRead, "sender read leaves message unread")

	msg, err = svc.Read(context.Background(), "msg-1", "usr-2")
	require.NoError(t, err)
	assert.True(t, msg.IsRead)

	_, err = svc.Read(context.Background(), "msg-1", "usr-3")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestMessageDeleteRestrictedToParticipants(t *testing.T) {
	repo := newMockMessageRepo(&models.Message{ID: "msg-1", SenderID: "usr-1", RecipientID: "usr-2"})
	svc := newMessageServiceForTest(repo)

	err := svc.Delete(context.Background(), "msg-1", "usr-3")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), "msg-1", "usr-2"))
	_, err = repo.FindByID(context.Background(), "msg-1")
	assert.Error(t, err)
}
