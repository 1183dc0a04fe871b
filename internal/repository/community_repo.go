package repository

import (
	"context"

	"cryptoheaven.app/api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommunityRepository interface {
	Create(ctx context.Context, community *model.Community) error
	Update(ctx context.Context, community *model.Community) error
	Delete(ctx context.Context, community *model.Community) error
	FindByExternalID(ctx context.Context, externalID string) (*model.Community, error)
	FindByUsername(ctx context.Context, username string) (*model.Community, error)
	FindAll(ctx context.Context, search, sortBy string, offset, limit int) ([]*model.Community, int64, error)

	AddMember(ctx context.Context, communityID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, communityID, userID uuid.UUID) error
	AddAdmin(ctx context.Context, communityID, userID uuid.UUID) error
	AddJoinRequest(ctx context.Context, communityID, userID uuid.UUID) error
	RemoveJoinRequest(ctx context.Context, communityID, userID uuid.UUID) error
	// PromoteRequest moves a pending request into members in one transaction.
	PromoteRequest(ctx context.Context, communityID, userID uuid.UUID) error

	IsMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
	IsAdmin(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
	HasJoinRequest(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
}

type communityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) Create(ctx context.Context, community *model.Community) error {
	return r.db.WithContext(ctx).Create(community).Error
}

func (r *communityRepository) Update(ctx context.Context, community *model.Community) error {
	return r.db.WithContext(ctx).
		Model(community).
		Select("Name", "Username", "ImageURL").
		Updates(community).Error
}

func (r *communityRepository) Delete(ctx context.Context, community *model.Community) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM message_likes WHERE message_id IN (SELECT id FROM messages WHERE community_id = ?)",
			community.ID,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id = ?", community.ID).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		for _, assoc := range []string{"Members", "Admins", "JoinRequests"} {
			if err := tx.Model(community).Association(assoc).Clear(); err != nil {
				return err
			}
		}
		return tx.Delete(community).Error
	})
}

func (r *communityRepository) FindByExternalID(ctx context.Context, externalID string) (*model.Community, error) {
	var community model.Community
	if err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("Members").
		Preload("Admins").
		Preload("JoinRequests").
		Where("external_id = ?", externalID).
		First(&community).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) FindByUsername(ctx context.Context, username string) (*model.Community, error) {
	var community model.Community
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&community).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) FindAll(ctx context.Context, search, sortBy string, offset, limit int) ([]*model.Community, int64, error) {
	var communities []*model.Community
	var total int64

	query := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("Members")

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR username ILIKE ?", pattern, pattern)
	}

	if err := query.Model(&model.Community{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if sortBy == "asc" {
		query = query.Order("created_at ASC")
	} else {
		query = query.Order("created_at DESC")
	}

	if err := query.Offset(offset).Limit(limit).Find(&communities).Error; err != nil {
		return nil, 0, err
	}

	return communities, total, nil
}

// Join-row writes go through the association API: appends are no-ops when
// the row already exists, which is what keeps join/approve idempotent.

func (r *communityRepository) AddMember(ctx context.Context, communityID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Community{ID: communityID}).
		Association("Members").
		Append(&model.User{ID: userID})
}

func (r *communityRepository) RemoveMember(ctx context.Context, communityID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Community{ID: communityID}).
		Association("Members").
		Delete(&model.User{ID: userID})
}

func (r *communityRepository) AddAdmin(ctx context.Context, communityID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Community{ID: communityID}).
		Association("Admins").
		Append(&model.User{ID: userID})
}

func (r *communityRepository) AddJoinRequest(ctx context.Context, communityID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Community{ID: communityID}).
		Association("JoinRequests").
		Append(&model.User{ID: userID})
}

func (r *communityRepository) RemoveJoinRequest(ctx context.Context, communityID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Community{ID: communityID}).
		Association("JoinRequests").
		Delete(&model.User{ID: userID})
}

func (r *communityRepository) PromoteRequest(ctx context.Context, communityID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Community{ID: communityID}).
			Association("JoinRequests").
			Delete(&model.User{ID: userID}); err != nil {
			return err
		}
		return tx.Model(&model.Community{ID: communityID}).
			Association("Members").
			Append(&model.User{ID: userID})
	})
}

func (r *communityRepository) IsMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	return r.existsInJoinTable(ctx, "community_members", communityID, userID)
}

func (r *communityRepository) IsAdmin(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	return r.existsInJoinTable(ctx, "community_admins", communityID, userID)
}

func (r *communityRepository) HasJoinRequest(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	return r.existsInJoinTable(ctx, "community_join_requests", communityID, userID)
}

func (r *communityRepository) existsInJoinTable(ctx context.Context, table string, communityID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(table).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
