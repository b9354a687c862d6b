package reaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/vidorahq/vidora/backend/internal/auth"
	"github.com/vidorahq/vidora/backend/internal/comment"
	"github.com/vidorahq/vidora/backend/internal/video"
)

// Type is the polarity of a reaction.
type Type string

const (
	TypeLike    Type = "like"
	TypeDislike Type = "dislike"
)

// Valid reports whether t is a recognised reaction type.
func (t Type) Valid() bool {
	return t == TypeLike || t == TypeDislike
}

// VideoReaction holds one user's current reaction to a video. The
// composite key guarantees at most one row per (user, video); flipping
// polarity updates the row in place.
type VideoReaction struct {
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	VideoID uuid.UUID `gorm:"type:uuid;primaryKey" json:"videoId"`
	Type    Type      `gorm:"not null" json:"type"`

	User  auth.User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Video video.Video `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (VideoReaction) TableName() string {
	return "video_reactions"
}

// CommentReaction holds one user's current reaction to a comment.
type CommentReaction struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	CommentID uuid.UUID `gorm:"type:uuid;primaryKey" json:"commentId"`
	Type      Type      `gorm:"not null" json:"type"`

	User    auth.User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Comment comment.Comment `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CommentReaction) TableName() string {
	return "comment_reactions"
}
