package repository

import (
	"context"

	"cryptoheaven.app/api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	FindByCommunity(ctx context.Context, communityID uuid.UUID, limit int) ([]*model.Message, error)

	HasLike(ctx context.Context, messageID, userID uuid.UUID) (bool, error)
	AddLike(ctx context.Context, messageID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, messageID, userID uuid.UUID) error
	CountLikes(ctx context.Context, messageID uuid.UUID) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Message{ID: id}).Association("Likes").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Message{}, "id = ?", id).Error
	})
}

func (r *messageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	var message model.Message
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Likes").
		Preload("ReplyTo.Author").
		Where("id = ?", id).
		First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) FindByCommunity(ctx context.Context, communityID uuid.UUID, limit int) ([]*model.Message, error) {
	var messages []*model.Message
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Likes").
		Preload("ReplyTo.Author").
		Where("community_id = ?", communityID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) HasLike(ctx context.Context, messageID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("message_likes").
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *messageRepository) AddLike(ctx context.Context, messageID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Message{ID: messageID}).
		Association("Likes").
		Append(&model.User{ID: userID})
}

func (r *messageRepository) RemoveLike(ctx context.Context, messageID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Message{ID: messageID}).
		Association("Likes").
		Delete(&model.User{ID: userID})
}

func (r *messageRepository) CountLikes(ctx context.Context, messageID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("message_likes").
		Where("message_id = ?", messageID).
		Count(&count).Error
	return count, err
}
