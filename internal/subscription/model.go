package subscription

import (
	"time"

	"github.com/google/uuid"

	"github.com/vidorahq/vidora/backend/internal/auth"
)

// Subscription links a viewer to a creator they follow. The composite
// key makes subscribing twice a no-op.
type Subscription struct {
	ViewerID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"viewerId"`
	CreatorID uuid.UUID `gorm:"type:uuid;primaryKey" json:"creatorId"`

	Viewer  auth.User `gorm:"foreignKey:ViewerID;constraint:OnDelete:CASCADE" json:"-"`
	Creator auth.User `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
