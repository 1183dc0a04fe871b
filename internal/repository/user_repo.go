package repository

import (
	"context"

	"cryptoheaven.app/api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByAuthID(ctx context.Context, authID string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindCommunities(ctx context.Context, userID uuid.UUID) ([]model.Community, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByAuthID(ctx context.Context, authID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("auth_id = ?", authID).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindCommunities(ctx context.Context, userID uuid.UUID) ([]model.Community, error) {
	var communities []model.Community
	err := r.db.WithContext(ctx).
		Model(&model.User{ID: userID}).
		Association("Communities").
		Find(&communities)
	if err != nil {
		return nil, err
	}
	return communities, nil
}
