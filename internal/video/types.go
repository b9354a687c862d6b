package video

import (
	"github.com/google/uuid"

	"github.com/vidorahq/vidora/backend/internal/pagination"
)

// UserSummary is the slim author projection attached to listed videos.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL string    `json:"imageUrl"`
}

// Owner extends the author projection with the subscription facts the
// watch page shows next to the channel name.
type Owner struct {
	UserSummary
	SubscriberCount  int64 `json:"subscriberCount"`
	ViewerSubscribed bool  `json:"viewerSubscribed"`
}

// ListItem is a video row enriched with the aggregates every listing
// renders.
type ListItem struct {
	Video
	User         UserSummary `json:"user"`
	ViewCount    int64       `json:"viewCount"`
	LikeCount    int64       `json:"likeCount"`
	DislikeCount int64       `json:"dislikeCount"`
}

// Detail is the watch-page projection: the enriched video plus the
// viewer's own reaction, if any.
type Detail struct {
	Video
	User           Owner   `json:"user"`
	ViewCount      int64   `json:"viewCount"`
	LikeCount      int64   `json:"likeCount"`
	DislikeCount   int64   `json:"dislikeCount"`
	ViewerReaction *string `json:"viewerReaction"`
}

// CreateResult pairs the draft video with the direct-upload URL the
// client streams the file to.
type CreateResult struct {
	Video     Video  `json:"video"`
	UploadURL string `json:"uploadUrl"`
}

// UpdateRequest carries the editable fields; nil fields are left
// untouched.
type UpdateRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	CategoryID  *uuid.UUID  `json:"categoryId"`
	Visibility  *Visibility `json:"visibility"`
}

// ListParams filters a timestamp-ordered listing. OwnerID together
// with IncludePrivate serves the studio view; Query matches titles and
// descriptions.
type ListParams struct {
	CategoryID     *uuid.UUID
	OwnerID        *uuid.UUID
	Query          string
	IncludePrivate bool
	Cursor         *pagination.TimeCursor
	Limit          int
}

// Page is the wire shape of every video listing.
type Page struct {
	Items      []ListItem `json:"items"`
	NextCursor string     `json:"nextCursor"`
}
