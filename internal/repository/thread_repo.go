package repository

import (
	"context"

	"cryptoheaven.app/api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ThreadRepository interface {
	Create(ctx context.Context, thread *model.Thread) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Thread, error)
	FindRoots(ctx context.Context, offset, limit int) ([]*model.Thread, int64, error)

	// FindChildIDs returns the direct children of the given threads;
	// callers expand the frontier level by level instead of recursing.
	FindChildIDs(ctx context.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error)
	FindIDsByCommunity(ctx context.Context, communityID uuid.UUID) ([]uuid.UUID, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error

	HasLike(ctx context.Context, threadID, userID uuid.UUID) (bool, error)
	AddLike(ctx context.Context, threadID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, threadID, userID uuid.UUID) error
	CountLikes(ctx context.Context, threadID uuid.UUID) (int64, error)
}

type threadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) Create(ctx context.Context, thread *model.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *threadRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Community").
		Preload("Likes").
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Children.Author").
		Preload("Children.Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Children.Children.Author").
		Where("id = ?", id).
		First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) FindRoots(ctx context.Context, offset, limit int) ([]*model.Thread, int64, error) {
	var threads []*model.Thread
	var total int64

	query := r.db.WithContext(ctx).Where("parent_id IS NULL")

	if err := query.Model(&model.Thread{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Preload("Community").
		Preload("Likes").
		Preload("Children.Author").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&threads).Error; err != nil {
		return nil, 0, err
	}

	return threads, total, nil
}

func (r *threadRepository) FindChildIDs(ctx context.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.Thread{}).
		Where("parent_id IN ?", parentIDs).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *threadRepository) FindIDsByCommunity(ctx context.Context, communityID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.Thread{}).
		Where("community_id = ?", communityID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *threadRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM thread_likes WHERE thread_id IN ?", ids).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.Thread{}).Error
	})
}

func (r *threadRepository) HasLike(ctx context.Context, threadID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("thread_likes").
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *threadRepository) AddLike(ctx context.Context, threadID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Thread{ID: threadID}).
		Association("Likes").
		Append(&model.User{ID: userID})
}

func (r *threadRepository) RemoveLike(ctx context.Context, threadID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Thread{ID: threadID}).
		Association("Likes").
		Delete(&model.User{ID: userID})
}

func (r *threadRepository) CountLikes(ctx context.Context, threadID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("thread_likes").
		Where("thread_id = ?", threadID).
		Count(&count).Error
	return count, err
}
