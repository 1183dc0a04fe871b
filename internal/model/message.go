package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one entry of a community chat feed. Append-only: nothing is
// ever updated after creation except the likes join table.
type Message struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CommunityID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Community   Community `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	AuthorID uuid.UUID `gorm:"type:uuid;not null" json:"-"`
	Author   User      `gorm:"constraint:OnDelete:CASCADE" json:"author"`

	Text     string  `gorm:"type:text" json:"text"`
	ImageURL *string `gorm:"type:text" json:"image,omitempty"`

	// Single-level quoted reference; only rendered one level deep.
	ReplyToID *uuid.UUID `gorm:"type:uuid" json:"reply_to_id,omitempty"`
	ReplyTo   *Message   `gorm:"foreignKey:ReplyToID;constraint:OnDelete:SET NULL" json:"reply_to,omitempty"`

	Likes []User `gorm:"many2many:message_likes" json:"likes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}
