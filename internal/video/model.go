package video

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidorahq/vidora/backend/internal/auth"
	"github.com/vidorahq/vidora/backend/internal/category"
)

// Visibility controls who can see a video in public listings.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Processing states reported by the transcode provider.
const (
	StatusWaiting   = "waiting"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusErrored   = "errored"
)

// Video is the central content record. Upload, asset and playback ids
// tie the row to the transcode provider; they stay nil until the
// matching provider step has happened.
type Video struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string     `gorm:"not null" json:"title"`
	Description  *string    `json:"description"`
	UploadID     *string    `gorm:"uniqueIndex" json:"uploadId"`
	AssetID      *string    `gorm:"uniqueIndex" json:"assetId"`
	PlaybackID   *string    `gorm:"uniqueIndex" json:"playbackId"`
	Status       string     `gorm:"not null;default:'waiting'" json:"status"`
	ThumbnailURL *string    `json:"thumbnailUrl"`
	ThumbnailKey *string    `json:"-"`
	PreviewURL   *string    `json:"previewUrl"`
	PreviewKey   *string    `json:"-"`
	Duration     int64      `gorm:"not null;default:0" json:"duration"`
	Visibility   Visibility `gorm:"not null;default:'private'" json:"visibility"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User   auth.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CategoryID *uuid.UUID         `gorm:"type:uuid;index" json:"categoryId"`
	Category   *category.Category `gorm:"constraint:OnDelete:SET NULL" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// View records that a user has watched a video. The composite key makes
// repeat views of the same video by the same user no-ops.
type View struct {
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	VideoID uuid.UUID `gorm:"type:uuid;primaryKey" json:"videoId"`

	User  auth.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Video Video     `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (View) TableName() string {
	return "video_views"
}
