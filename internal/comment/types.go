package comment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier is the notification surface the comment service depends on.
// Notify stores the notification inside the caller's transaction and
// returns its id, or uuid.Nil when the notification was suppressed.
// Publish emits the stored notification to live listeners and must only
// be called after the surrounding transaction has committed.
type Notifier interface {
	Notify(ctx context.Context, tx *gorm.DB, kind string, senderID, recipientID uuid.UUID, videoID, commentID *uuid.UUID) (uuid.UUID, error)
	Publish(recipientID, notificationID uuid.UUID)
}

// Notification kinds this package raises.
const (
	kindVideoComment = "video_comment"
	kindCommentReply = "comment_reply"
)

// UserSummary is the slim author projection attached to listed
// comments.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL string    `json:"imageUrl"`
}

// Item is a comment enriched with everything a thread row renders.
// ReplyCount is populated for top-level comments only; ParentUser for
// replies only.
type Item struct {
	Comment
	User           UserSummary  `json:"user"`
	ParentUser     *UserSummary `json:"parentUser"`
	ReplyCount     int64        `json:"replyCount"`
	LikeCount      int64        `json:"likeCount"`
	DislikeCount   int64        `json:"dislikeCount"`
	ViewerReaction *string      `json:"viewerReaction"`
}

// Page is the wire shape of a comment listing. TotalCount counts every
// comment on the video regardless of the page's thread level.
type Page struct {
	Items      []Item `json:"items"`
	TotalCount int64  `json:"totalCount"`
	NextCursor string `json:"nextCursor"`
}

// CreateRequest is the body for posting a comment or a reply.
type CreateRequest struct {
	VideoID  uuid.UUID  `json:"videoId" binding:"required"`
	ParentID *uuid.UUID `json:"parentId"`
	Content  string     `json:"content" binding:"required"`
}
