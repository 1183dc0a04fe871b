package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Community membership lives in three join tables: community_members,
// community_admins and community_join_requests. A user must never sit in
// members and join_requests at the same time; the community service keeps
// that invariant, the schema does not.
type Community struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	ExternalID string    `gorm:"size:64;uniqueIndex;not null" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Username   string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	ImageURL   string    `gorm:"type:text" json:"image"`
	Bio        string    `gorm:"type:text" json:"bio"`
	IsPrivate  bool      `gorm:"default:false" json:"is_private"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"-"`
	CreatedBy   User      `gorm:"constraint:OnDelete:CASCADE" json:"created_by"`

	Members      []User `gorm:"many2many:community_members" json:"members,omitempty"`
	Admins       []User `gorm:"many2many:community_admins" json:"admins,omitempty"`
	JoinRequests []User `gorm:"many2many:community_join_requests" json:"join_requests,omitempty"`

	Threads []Thread `gorm:"foreignKey:CommunityID" json:"threads,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Community) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
