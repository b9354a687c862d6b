package playlist

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidorahq/vidora/backend/internal/auth"
	"github.com/vidorahq/vidora/backend/internal/video"
)

// Playlist is a user-owned, ordered-by-recency collection of videos.
type Playlist struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"not null" json:"name"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User   auth.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PlaylistVideo is the membership row linking a video into a playlist.
type PlaylistVideo struct {
	PlaylistID uuid.UUID `gorm:"type:uuid;primaryKey" json:"playlistId"`
	VideoID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"videoId"`

	Playlist Playlist    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Video    video.Video `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}
