package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Thread is a post or a reply. ParentID is assigned once at creation and
// never mutated, so the reply graph is a forest rooted at parent-less rows.
type Thread struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Author   User      `gorm:"constraint:OnDelete:CASCADE" json:"author"`

	// Nil community means a personal post.
	CommunityID *uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Community   *Community `gorm:"constraint:OnDelete:CASCADE" json:"community,omitempty"`

	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Children []Thread   `gorm:"foreignKey:ParentID" json:"children,omitempty"`

	Text string `gorm:"type:text;not null" json:"text"`

	Likes []User `gorm:"many2many:thread_likes" json:"likes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (t *Thread) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}
