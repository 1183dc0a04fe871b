package service

import (
	"context"
	"testing"

	"cryptoheaven.app/api/internal/dto"
	"cryptoheaven.app/api/internal/repository"
	"cryptoheaven.app/api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardUserCreatesThenUpdates(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	created, err := svc.OnboardUser(context.Background(), "auth_1", dto.OnboardUserRequest{
		Name:     "Ada",
		Username: "ada",
		Bio:      "first bio",
	})
	require.NoError(t, err)
	assert.Equal(t, "auth_1", created.ID)
	assert.True(t, created.Onboarded)

	updated, err := svc.OnboardUser(context.Background(), "auth_1", dto.OnboardUserRequest{
		Name:     "Ada L",
		Username: "ada",
		Bio:      "second bio",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada L", updated.Name)
	assert.Equal(t, "second bio", updated.Bio)

	fetched, err := svc.GetUser(context.Background(), "auth_1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L", fetched.Name)
}

func TestOnboardUserUsernameConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))

	_, err := svc.OnboardUser(context.Background(), "auth_1", dto.OnboardUserRequest{
		Name: "Ada", Username: "ada",
	})
	require.NoError(t, err)

	_, err = svc.OnboardUser(context.Background(), "auth_2", dto.OnboardUserRequest{
		Name: "Impostor", Username: "ada",
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestGetUserCommunities(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	userSvc := NewUserService(userRepo)
	communitySvc := NewCommunityService(communityRepo, userRepo, threadRepo, nil, nil)

	creator := createTestUser(t, db, "auth_creator", "Creator", "creator")
	member := createTestUser(t, db, "auth_member", "Member", "member")

	community, err := communitySvc.CreateCommunity(context.Background(), creator.AuthID, dto.CreateCommunityRequest{
		ID: "comm_1", Name: "Heaven", Username: "heaven",
	})
	require.NoError(t, err)

	_, err = communitySvc.Join(context.Background(), community.ID, member.AuthID)
	require.NoError(t, err)

	communities, err := userSvc.GetUserCommunities(context.Background(), member.AuthID)
	require.NoError(t, err)
	require.Len(t, communities, 1)
	assert.Equal(t, "comm_1", communities[0].ID)

	_, err = userSvc.GetUserCommunities(context.Background(), "auth_missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
