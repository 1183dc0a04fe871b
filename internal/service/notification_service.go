package service

import (
	"context"
	"encoding/json"
	"fmt"

	"cryptoheaven.app/api/internal/dto"
	"cryptoheaven.app/api/internal/model"
	"cryptoheaven.app/api/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultNotificationPageSize = 20

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotifications(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.Notification, *dto.PaginationMeta, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *model.Notification) error {
	// 1. Save to DB
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// 2. Publish to Redis if Redis is available
	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", notification.UserID.String())

		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, channel, payload)
		}
	}

	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.Notification, *dto.PaginationMeta, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultNotificationPageSize
	}
	offset := (page - 1) * pageSize

	notifications, err := s.repo.FindByUserID(ctx, userID, pageSize, offset)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	meta := &dto.PaginationMeta{
		CurrentPage: page,
		TotalItems:  total,
		PageSize:    pageSize,
		IsNext:      total > int64(offset+len(notifications)),
	}
	return notifications, meta, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
