package service

import (
	"context"
	"testing"
	"time"

	"cryptoheaven.app/api/internal/dto"
	"cryptoheaven.app/api/internal/model"
	"cryptoheaven.app/api/internal/repository"
	"cryptoheaven.app/api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type messageFixture struct {
	db            *gorm.DB
	svc           MessageService
	communitySvc  CommunityService
	communityRepo repository.CommunityRepository
	messageRepo   repository.MessageRepository
	notifRepo     repository.NotificationRepository
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()

	db := newTestDB(t)
	communityRepo := repository.NewCommunityRepository(db)
	userRepo := repository.NewUserRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	notifications := NewNotificationService(notifRepo, nil)

	return &messageFixture{
		db:            db,
		svc:           NewMessageService(messageRepo, communityRepo, userRepo, notifications, nil, time.Second),
		communitySvc:  NewCommunityService(communityRepo, userRepo, threadRepo, notifications, nil),
		communityRepo: communityRepo,
		messageRepo:   messageRepo,
		notifRepo:     notifRepo,
	}
}

func (f *messageFixture) createCommunity(t *testing.T, creatorAuthID, externalID string) *dto.CommunityResponse {
	t.Helper()

	resp, err := f.communitySvc.CreateCommunity(context.Background(), creatorAuthID, dto.CreateCommunityRequest{
		ID:       externalID,
		Name:     "Chat " + externalID,
		Username: "chat_" + externalID,
	})
	require.NoError(t, err)
	return resp
}

func TestSendMessageRequiresMembership(t *testing.T) {
	f := newMessageFixture(t)
	creator := createTestUser(t, f.db, "auth_creator", "Creator", "creator")
	outsider := createTestUser(t, f.db, "auth_outsider", "Outsider", "outsider")
	community := f.createCommunity(t, creator.AuthID, "comm_1")

	_, err := f.svc.SendMessage(context.Background(), community.ID, outsider.AuthID, dto.SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	resp, err := f.svc.SendMessage(context.Background(), community.ID, creator.AuthID, dto.SendMessageRequest{Text: "hi"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "hi", resp.Message.Text)
	assert.Equal(t, creator.AuthID, resp.Message.Author.ID)
	assert.Equal(t, community.ID, resp.Message.Community)
}

func TestSendMessageResolvesReplyTarget(t *testing.T) {
	f := newMessageFixture(t)
	creator := createTestUser(t, f.db, "auth_creator", "Creator", "creator")
	community := f.createCommunity(t, creator.AuthID, "comm_1")

	first, err := f.svc.SendMessage(context.Background(), community.ID, creator.AuthID, dto.SendMessageRequest{Text: "original"})
	require.NoError(t, err)

	reply, err := f.svc.SendMessage(context.Background(), community.ID, creator.AuthID, dto.SendMessageRequest{
		Text:      "a reply",
		ReplyToID: first.Message.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reply.Message.ReplyTo)
	assert.Equal(t, first.Message.ID, reply.Message.ReplyTo.ID)
	assert.Equal(t, "original", reply.Message.ReplyTo.Text)
	assert.Equal(t, creator.AuthID, reply.Message.ReplyTo.Author.ID)
}

func TestSendMessageDropsDanglingReplyTarget(t *testing.T) {
	f := newMessageFixture(t)
	creator := createTestUser(t, f.db, "auth_creator", "Creator", "creator")
	community := f.createCommunity(t, creator.AuthID, "comm_1")

	resp, err := f.svc.SendMessage(context.Background(), community.ID, creator.AuthID, dto.SendMessageRequest{
		Text:      "reply to nothing",
		ReplyToID: uuid.NewString(),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Message.ReplyTo)
}

func TestSendMessageDropsCrossCommunityReplyTarget(t *testing.T) {
	f := newMessageFixture(t)
	creator := createTestUser(t, f.db, "auth_creator", "Creator", "creator")
	first := f.createCommunity(t, creator.AuthID, "comm_1")
	second := f.createCommunity(t, creator.AuthID, "comm_2")

	original, err := f.svc.SendMessage(context.Background(), first.ID, creator.AuthID, dto.SendMessageRequest{Text: "elsewhere"})
	require.NoError(t, err)

	resp, err := f.svc.SendMessage(context.Background(), second.ID, creator.AuthID, dto.SendMessageRequest{
		Text:      "cross-community reply",
		ReplyToID: original.Message.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Message.ReplyTo)
}

func TestLikeMessageToggles(t *testing.T) {
	f := newMessageFixture(t)
	creator := createTestUser(t, f.db, "auth_creator", "Creator", "creator")
	liker := createTestUser(t, f.db, "auth_liker", "Liker", "liker")
	community := f.createCommunity(t, creator.AuthID, "comm_1")

	sent, err := f.svc.SendMessage(context.Background(), community.ID, creator.AuthID, dto.SendMessageRequest{Text: "like me"})
	require.NoError(t, err)
	messageID := uuid.MustParse(sent.Message.ID)

	liked, err := f.svc.LikeMessage(context.Background(), messageID, liker.AuthID)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, 1, liked.LikeCount)

	unliked, err := f.svc.LikeMessage(context.Background(), messageID, liker.AuthID)
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.Equal(t, 0, unliked.LikeCount)

	// One like notification for the author, none for the un-like.
	notifications, err := f.notifRepo.FindByUserID(context.Background(), creator.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "like", notifications[0].Type)
}

func TestLikeOwnMessageSkipsNotification(t *testing.T) {
	f := newMessageFixture(t)
	creator := createTestUser(t, f.db, "auth_creator", "Creator", "creator")
	community := f.createCommunity(t, creator.AuthID, "comm_1")

	sent, err := f.svc.SendMessage(context.Background(), community.ID, creator.AuthID, dto.SendMessageRequest{Text: "self like"})
	require.NoError(t, err)

	resp, err := f.svc.LikeMessage(context.Background(), uuid.MustParse(sent.Message.ID), creator.AuthID)
	require.NoError(t, err)
	assert.True(t, resp.Liked)

	notifications, err := f.notifRepo.FindByUserID(context.Background(), creator.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

// Deletion is intentionally not restricted to the author; the client hides
// the control from everyone else.
func TestDeleteMessage(t *testing.T) {
	f := newMessageFixture(t)
	creator := createTestUser(t, f.db, "auth_creator", "Creator", "creator")
	community := f.createCommunity(t, creator.AuthID, "comm_1")

	sent, err := f.svc.SendMessage(context.Background(), community.ID, creator.AuthID, dto.SendMessageRequest{Text: "doomed"})
	require.NoError(t, err)
	messageID := uuid.MustParse(sent.Message.ID)

	require.NoError(t, f.svc.DeleteMessage(context.Background(), messageID))

	err = f.svc.DeleteMessage(context.Background(), messageID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteMessageByNonAuthor(t *testing.T) {
	f := newMessageFixture(t)
	creator := createTestUser(t, f.db, "auth_creator", "Creator", "creator")
	member := createTestUser(t, f.db, "auth_member", "Member", "member")
	community := f.createCommunity(t, creator.AuthID, "comm_1")

	joined, err := f.communitySvc.Join(context.Background(), community.ID, member.AuthID)
	require.NoError(t, err)
	assert.Equal(t, "joined", joined.Status)

	sent, err := f.svc.SendMessage(context.Background(), community.ID, member.AuthID, dto.SendMessageRequest{Text: "hi"})
	require.NoError(t, err)
	messageID := uuid.MustParse(sent.Message.ID)

	// Deletion carries no authorship check, so the creator can remove
	// another member's message.
	require.NoError(t, f.svc.DeleteMessage(context.Background(), messageID))

	feed, err := f.svc.FetchCommunityMessages(context.Background(), community.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestFetchCommunityMessagesAscending(t *testing.T) {
	f := newMessageFixture(t)
	creator := createTestUser(t, f.db, "auth_creator", "Creator", "creator")
	community := f.createCommunity(t, creator.AuthID, "comm_1")

	stored, err := f.communityRepo.FindByExternalID(context.Background(), community.ID)
	require.NoError(t, err)

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	for i, text := range []string{"first", "second", "third"} {
		msg := &model.Message{
			CommunityID: stored.ID,
			AuthorID:    creator.ID,
			Text:        text,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.messageRepo.Create(context.Background(), msg))
	}

	messages, err := f.svc.FetchCommunityMessages(context.Background(), community.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Text)
	assert.Equal(t, "third", messages[2].Text)

	limited, err := f.svc.FetchCommunityMessages(context.Background(), community.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
