package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mirrors an account managed by the external identity provider.
// AuthID is the provider's id and the only identifier exposed on the API.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	AuthID    string    `gorm:"size:64;uniqueIndex;not null" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	ImageURL  string    `gorm:"type:text" json:"image"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	Onboarded bool      `gorm:"default:false" json:"onboarded"`

	// Read side of community_members; the membership rows are owned by Community.
	Communities []Community `gorm:"many2many:community_members" json:"communities,omitempty"`
	Threads     []Thread    `gorm:"foreignKey:AuthorID" json:"threads,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID, err = uuid.NewV7()
	}
	return
}
