package service

import (
	"context"
	"errors"
	"fmt"

	"cryptoheaven.app/api/internal/dto"
	"cryptoheaven.app/api/internal/model"
	"cryptoheaven.app/api/internal/repository"
	"cryptoheaven.app/api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	OnboardUser(ctx context.Context, authID string, req dto.OnboardUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, authID string) (*dto.UserResponse, error)
	GetUserCommunities(ctx context.Context, authID string) ([]dto.CommunitySummary, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// OnboardUser upserts the profile row for an externally authenticated user.
func (s *userService) OnboardUser(ctx context.Context, authID string, req dto.OnboardUserRequest) (*dto.UserResponse, error) {
	existing, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil && existing.AuthID != authID {
		return nil, fmt.Errorf("%w: username already taken", apperror.ErrConflict)
	}

	user, err := s.userRepo.FindByAuthID(ctx, authID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		user = &model.User{AuthID: authID}
	}

	user.Name = req.Name
	user.Username = req.Username
	user.ImageURL = req.Image
	user.Bio = req.Bio
	user.Onboarded = true

	if user.ID == uuid.Nil {
		err = s.userRepo.Create(ctx, user)
	} else {
		err = s.userRepo.Update(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return toUserResponse(user), nil
}

func (s *userService) GetUser(ctx context.Context, authID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return toUserResponse(user), nil
}

func (s *userService) GetUserCommunities(ctx context.Context, authID string) ([]dto.CommunitySummary, error) {
	user, err := s.userRepo.FindByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	communities, err := s.userRepo.FindCommunities(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch communities: %w", err)
	}

	out := make([]dto.CommunitySummary, 0, len(communities))
	for i := range communities {
		out = append(out, *toCommunitySummary(&communities[i]))
	}
	return out, nil
}

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.AuthID,
		Name:      u.Name,
		Username:  u.Username,
		Image:     u.ImageURL,
		Bio:       u.Bio,
		Onboarded: u.Onboarded,
	}
}
