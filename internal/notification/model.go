package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidorahq/vidora/backend/internal/auth"
	"github.com/vidorahq/vidora/backend/internal/comment"
	"github.com/vidorahq/vidora/backend/internal/video"
)

// Notification kinds. Each kind fixes which references the row must
// carry: likes and comments on a video reference the video, anything
// about a comment references both the comment and its video.
const (
	TypeVideoLike    = "video_like"
	TypeVideoComment = "video_comment"
	TypeCommentLike  = "comment_like"
	TypeCommentReply = "comment_reply"
)

// Notification tells a recipient that someone acted on their content.
// Rows disappear with whichever side of the interaction goes away:
// sender, recipient, video or comment.
type Notification struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Type string    `gorm:"not null" json:"type"`

	SenderID uuid.UUID `gorm:"type:uuid;not null" json:"senderId"`
	Sender   auth.User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`

	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipientId"`
	Recipient   auth.User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`

	VideoID *uuid.UUID   `gorm:"type:uuid" json:"videoId"`
	Video   *video.Video `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CommentID *uuid.UUID       `gorm:"type:uuid" json:"commentId"`
	Comment   *comment.Comment `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Read bool `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
