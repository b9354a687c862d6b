package comment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidorahq/vidora/backend/internal/auth"
	"github.com/vidorahq/vidora/backend/internal/video"
)

// Comment is a flattened two-level thread entry. Top-level comments
// carry neither parent nor root. Replies always carry both: RootID is
// the top-level ancestor the reply renders under, ParentID is the
// comment the author actually answered, which may itself be a reply.
type Comment struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Content string    `gorm:"not null" json:"content"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User   auth.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	VideoID uuid.UUID   `gorm:"type:uuid;not null;index" json:"videoId"`
	Video   video.Video `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parentId"`
	Parent   *Comment   `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`

	RootID *uuid.UUID `gorm:"type:uuid;index" json:"rootId"`
	Root   *Comment   `gorm:"foreignKey:RootID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
