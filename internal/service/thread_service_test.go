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

type threadFixture struct {
	db           *gorm.DB
	svc          ThreadService
	communitySvc CommunityService
	threadRepo   repository.ThreadRepository
	notifRepo    repository.NotificationRepository
}

func newThreadFixture(t *testing.T) *threadFixture {
	t.Helper()

	db := newTestDB(t)
	communityRepo := repository.NewCommunityRepository(db)
	userRepo := repository.NewUserRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	notifications := NewNotificationService(notifRepo, nil)

	return &threadFixture{
		db:           db,
		svc:          NewThreadService(threadRepo, communityRepo, userRepo, notifications, nil, nil, time.Second),
		communitySvc: NewCommunityService(communityRepo, userRepo, threadRepo, notifications, nil),
		threadRepo:   threadRepo,
		notifRepo:    notifRepo,
	}
}

func TestCreateThreadPersonalPost(t *testing.T) {
	f := newThreadFixture(t)
	author := createTestUser(t, f.db, "auth_author", "Author", "author")

	resp, err := f.svc.CreateThread(context.Background(), author.AuthID, dto.CreateThreadRequest{Text: "hello world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.Text)
	assert.Equal(t, author.AuthID, resp.Author.ID)
	assert.Nil(t, resp.Community)
	assert.Nil(t, resp.ParentID)
}

func TestCreateThreadInCommunity(t *testing.T) {
	f := newThreadFixture(t)
	author := createTestUser(t, f.db, "auth_author", "Author", "author")
	community, err := f.communitySvc.CreateCommunity(context.Background(), author.AuthID, dto.CreateCommunityRequest{
		ID: "comm_1", Name: "Posts", Username: "posts",
	})
	require.NoError(t, err)

	resp, err := f.svc.CreateThread(context.Background(), author.AuthID, dto.CreateThreadRequest{
		Text:        "community post",
		CommunityID: community.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Community)
	assert.Equal(t, community.ID, resp.Community.ID)
}

func TestCreateThreadUnknownCommunityFallsBackToPersonal(t *testing.T) {
	f := newThreadFixture(t)
	author := createTestUser(t, f.db, "auth_author", "Author", "author")

	resp, err := f.svc.CreateThread(context.Background(), author.AuthID, dto.CreateThreadRequest{
		Text:        "orphan community id",
		CommunityID: "no_such_community",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Community)
}

func TestAddCommentToThread(t *testing.T) {
	f := newThreadFixture(t)
	author := createTestUser(t, f.db, "auth_author", "Author", "author")
	commenter := createTestUser(t, f.db, "auth_commenter", "Commenter", "commenter")

	root, err := f.svc.CreateThread(context.Background(), author.AuthID, dto.CreateThreadRequest{Text: "root"})
	require.NoError(t, err)
	rootID := uuid.MustParse(root.ID)

	comment, err := f.svc.AddCommentToThread(context.Background(), rootID, commenter.AuthID, dto.AddCommentRequest{Text: "nice post"})
	require.NoError(t, err)
	require.NotNil(t, comment.ParentID)
	assert.Equal(t, root.ID, *comment.ParentID)
	assert.Nil(t, comment.Community)

	// The root author hears about the reply.
	notifications, err := f.notifRepo.FindByUserID(context.Background(), author.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "reply", notifications[0].Type)

	_, err = f.svc.AddCommentToThread(context.Background(), uuid.New(), commenter.AuthID, dto.AddCommentRequest{Text: "lost"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFetchThreadByIDIncludesReplyTree(t *testing.T) {
	f := newThreadFixture(t)
	author := createTestUser(t, f.db, "auth_author", "Author", "author")

	root, err := f.svc.CreateThread(context.Background(), author.AuthID, dto.CreateThreadRequest{Text: "root"})
	require.NoError(t, err)
	rootID := uuid.MustParse(root.ID)

	reply, err := f.svc.AddCommentToThread(context.Background(), rootID, author.AuthID, dto.AddCommentRequest{Text: "reply"})
	require.NoError(t, err)
	_, err = f.svc.AddCommentToThread(context.Background(), uuid.MustParse(reply.ID), author.AuthID, dto.AddCommentRequest{Text: "nested"})
	require.NoError(t, err)

	detail, err := f.svc.FetchThreadByID(context.Background(), rootID)
	require.NoError(t, err)
	require.Len(t, detail.Children, 1)
	assert.Equal(t, "reply", detail.Children[0].Text)
	require.Len(t, detail.Children[0].Children, 1)
	assert.Equal(t, "nested", detail.Children[0].Children[0].Text)
}

func TestDeleteThreadCascadesToDescendants(t *testing.T) {
	f := newThreadFixture(t)
	author := createTestUser(t, f.db, "auth_author", "Author", "author")

	root, err := f.svc.CreateThread(context.Background(), author.AuthID, dto.CreateThreadRequest{Text: "root"})
	require.NoError(t, err)
	rootID := uuid.MustParse(root.ID)

	reply, err := f.svc.AddCommentToThread(context.Background(), rootID, author.AuthID, dto.AddCommentRequest{Text: "reply"})
	require.NoError(t, err)
	_, err = f.svc.AddCommentToThread(context.Background(), uuid.MustParse(reply.ID), author.AuthID, dto.AddCommentRequest{Text: "nested"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteThread(context.Background(), rootID))

	var count int64
	require.NoError(t, f.db.Model(&model.Thread{}).Count(&count).Error)
	assert.Zero(t, count)

	err = f.svc.DeleteThread(context.Background(), rootID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLikeThreadToggles(t *testing.T) {
	f := newThreadFixture(t)
	author := createTestUser(t, f.db, "auth_author", "Author", "author")
	liker := createTestUser(t, f.db, "auth_liker", "Liker", "liker")

	root, err := f.svc.CreateThread(context.Background(), author.AuthID, dto.CreateThreadRequest{Text: "root"})
	require.NoError(t, err)
	rootID := uuid.MustParse(root.ID)

	liked, err := f.svc.LikeThread(context.Background(), rootID, liker.AuthID)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, 1, liked.LikeCount)

	detail, err := f.svc.FetchThreadByID(context.Background(), rootID)
	require.NoError(t, err)
	assert.Equal(t, []string{liker.AuthID}, detail.Likes)

	unliked, err := f.svc.LikeThread(context.Background(), rootID, liker.AuthID)
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.Equal(t, 0, unliked.LikeCount)
}

func TestFetchPostsReturnsRootsOnly(t *testing.T) {
	f := newThreadFixture(t)
	author := createTestUser(t, f.db, "auth_author", "Author", "author")

	var lastRoot *dto.ThreadResponse
	for _, text := range []string{"post one", "post two", "post three"} {
		resp, err := f.svc.CreateThread(context.Background(), author.AuthID, dto.CreateThreadRequest{Text: text})
		require.NoError(t, err)
		lastRoot = resp
	}
	_, err := f.svc.AddCommentToThread(context.Background(), uuid.MustParse(lastRoot.ID), author.AuthID, dto.AddCommentRequest{Text: "a comment"})
	require.NoError(t, err)

	page1, err := f.svc.FetchPosts(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, page1.Posts, 2)
	assert.True(t, page1.IsNext)

	page2, err := f.svc.FetchPosts(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Posts, 1)
	assert.False(t, page2.IsNext)

	for _, post := range append(page1.Posts, page2.Posts...) {
		assert.Nil(t, post.ParentID)
	}
}
