package notification

import "github.com/google/uuid"

// SenderSummary is the slim sender projection shown in the inbox.
type SenderSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL string    `json:"imageUrl"`
}

// VideoRef points the inbox row at the video it is about.
type VideoRef struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
}

// CommentRef points the inbox row at the comment it is about.
type CommentRef struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
}

// Item is a notification enriched for rendering.
type Item struct {
	Notification
	Sender  SenderSummary `json:"sender"`
	Video   *VideoRef     `json:"video"`
	Comment *CommentRef   `json:"comment"`
}

// Page is the wire shape of the inbox listing.
type Page struct {
	Items      []Item `json:"items"`
	NextCursor string `json:"nextCursor"`
}
