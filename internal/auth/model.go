package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User maps an external auth-provider identity to an internal account.
// A row is created on first authenticated access; later updates only
// touch the display name, avatar and banner.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;not null" json:"-"`
	Name       string    `gorm:"not null" json:"name"`
	ImageURL   string    `gorm:"not null" json:"imageUrl"`
	BannerURL  *string   `json:"bannerUrl,omitempty"`
	BannerKey  *string   `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BeforeCreate hook for User model
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
