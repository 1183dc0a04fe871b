package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cryptoheaven.app/api/internal/dto"
	"cryptoheaven.app/api/internal/model"
	"cryptoheaven.app/api/internal/repository"
	"cryptoheaven.app/api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultMessagePageSize = 50

type MessageService interface {
	SendMessage(ctx context.Context, communityExternalID, authorAuthID string, req dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	LikeMessage(ctx context.Context, messageID uuid.UUID, userAuthID string) (*dto.LikeResponse, error)
	DeleteMessage(ctx context.Context, messageID uuid.UUID) error
	FetchCommunityMessages(ctx context.Context, communityExternalID string, pageSize int) ([]dto.MessageResponse, error)
}

type messageService struct {
	messageRepo   repository.MessageRepository
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	notifications NotificationService
	redisClient   *redis.Client
	rateLimit     time.Duration
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
	notifications NotificationService,
	redisClient *redis.Client,
	rateLimit time.Duration,
) MessageService {
	return &messageService{
		messageRepo:   messageRepo,
		communityRepo: communityRepo,
		userRepo:      userRepo,
		notifications: notifications,
		redisClient:   redisClient,
		rateLimit:     rateLimit,
	}
}

func (s *messageService) SendMessage(ctx context.Context, communityExternalID, authorAuthID string, req dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	author, err := s.userRepo.FindByAuthID(ctx, authorAuthID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch author: %w", err)
	}

	community, err := s.communityRepo.FindByExternalID(ctx, communityExternalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: community not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch community: %w", err)
	}

	isMember, err := s.communityRepo.IsMember(ctx, community.ID, author.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, fmt.Errorf("%w: only members can send messages", apperror.ErrForbidden)
	}

	ok, err := CheckAndSetRateLimit(ctx, s.redisClient, author.ID, "send_message", s.rateLimit)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, rateLimitError(ctx, s.redisClient, author.ID, "send_message", s.rateLimit)
	}

	message := &model.Message{
		CommunityID: community.ID,
		AuthorID:    author.ID,
		Text:        req.Text,
	}
	if req.Image != "" {
		message.ImageURL = &req.Image
	}

	// A reply target that does not resolve, or that lives in another
	// community, is dropped rather than rejected.
	if req.ReplyToID != "" {
		if replyToID, err := uuid.Parse(req.ReplyToID); err == nil {
			replyTo, err := s.messageRepo.FindByID(ctx, replyToID)
			if err == nil && replyTo.CommunityID == community.ID {
				message.ReplyToID = &replyTo.ID
				message.ReplyTo = replyTo
			}
		}
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		// Release the cooldown; the send never happened.
		_ = ClearRateLimit(ctx, s.redisClient, author.ID, "send_message")
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	message.Author = *author
	message.Community = *community
	return &dto.SendMessageResponse{
		Success: true,
		Message: *toMessageResponse(message, community.ExternalID),
	}, nil
}

func (s *messageService) LikeMessage(ctx context.Context, messageID uuid.UUID, userAuthID string) (*dto.LikeResponse, error) {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: message not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}

	user, err := s.userRepo.FindByAuthID(ctx, userAuthID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	liked, err := s.messageRepo.HasLike(ctx, message.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check like: %w", err)
	}

	if liked {
		err = s.messageRepo.RemoveLike(ctx, message.ID, user.ID)
	} else {
		err = s.messageRepo.AddLike(ctx, message.ID, user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	count, err := s.messageRepo.CountLikes(ctx, message.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	if !liked && s.notifications != nil && message.AuthorID != user.ID {
		_ = s.notifications.CreateNotification(ctx, &model.Notification{
			UserID:     message.AuthorID,
			ActorID:    user.ID,
			EntityID:   message.ID.String(),
			EntityType: "message",
			Type:       "like",
			Message:    fmt.Sprintf("%s liked your message", user.Name),
		})
	}

	return &dto.LikeResponse{Liked: !liked, LikeCount: int(count)}, nil
}

// DeleteMessage deletes by id without an authorship check; the web client
// only shows the delete control to the author. Server-side enforcement is
// a known gap carried over from the original contract.
func (s *messageService) DeleteMessage(ctx context.Context, messageID uuid.UUID) error {
	if _, err := s.messageRepo.FindByID(ctx, messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: message not found", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to fetch message: %w", err)
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (s *messageService) FetchCommunityMessages(ctx context.Context, communityExternalID string, pageSize int) ([]dto.MessageResponse, error) {
	if pageSize <= 0 {
		pageSize = defaultMessagePageSize
	}

	community, err := s.communityRepo.FindByExternalID(ctx, communityExternalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: community not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch community: %w", err)
	}

	messages, err := s.messageRepo.FindByCommunity(ctx, community.ID, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, *toMessageResponse(message, community.ExternalID))
	}
	return responses, nil
}

func toMessageResponse(m *model.Message, communityExternalID string) *dto.MessageResponse {
	resp := &dto.MessageResponse{
		ID:        m.ID.String(),
		Text:      m.Text,
		Image:     m.ImageURL,
		Author:    toUserSummary(&m.Author),
		Community: communityExternalID,
		Likes:     authIDs(m.Likes),
		CreatedAt: formatTime(m.CreatedAt),
	}
	if m.ReplyTo != nil {
		resp.ReplyTo = &dto.ReplyPreview{
			ID:   m.ReplyTo.ID.String(),
			Text: m.ReplyTo.Text,
			Author: &dto.ReplyPreviewAuthor{
				ID:   m.ReplyTo.Author.AuthID,
				Name: m.ReplyTo.Author.Name,
			},
		}
	}
	return resp
}
