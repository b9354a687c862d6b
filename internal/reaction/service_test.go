package reaction_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/comment"
	"github.com/vidorahq/vidora/backend/internal/notification"
	"github.com/vidorahq/vidora/backend/internal/reaction"
	"github.com/vidorahq/vidora/backend/testhelper"
)

func newTestService(t *testing.T) (*reaction.Service, *gorm.DB) {
	t.Helper()
	db := testhelper.SetupTestDB(t)
	log := testhelper.NewTestLogger(t)
	notifier := notification.NewService(db, log, notification.NewEmitter(), testhelper.Paging())
	return reaction.NewService(db, log, notifier), db
}

func countNotifications(t *testing.T, db *gorm.DB, recipientID uuid.UUID, kind string) int64 {
	t.Helper()
	var count int64
	err := db.Model(&notification.Notification{}).
		Where("recipient_id = ? AND type = ?", recipientID, kind).
		Count(&count).Error
	if err != nil {
		t.Fatalf("failed to count notifications: %v", err)
	}
	return count
}

func TestToggleVideoLifecycle(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner := testhelper.CreateUser(t, db, "owner")
	viewer := testhelper.CreateUser(t, db, "viewer")
	vid := testhelper.CreateVideo(t, db, owner, "first")

	// Absent -> like stores the reaction and notifies the owner.
	result, err := svc.ToggleVideo(ctx, viewer.ID, vid.ID, reaction.TypeLike)
	if err != nil {
		t.Fatalf("ToggleVideo failed: %v", err)
	}
	if result.Reaction == nil || *result.Reaction != reaction.TypeLike {
		t.Errorf("expected like result, got %v", result.Reaction)
	}
	if got := countNotifications(t, db, owner.ID, "video_like"); got != 1 {
		t.Errorf("expected 1 like notification, got %d", got)
	}

	// Like -> like clears the reaction without touching notifications.
	result, err = svc.ToggleVideo(ctx, viewer.ID, vid.ID, reaction.TypeLike)
	if err != nil {
		t.Fatalf("ToggleVideo failed: %v", err)
	}
	if result.Reaction != nil {
		t.Errorf("expected cleared reaction, got %v", *result.Reaction)
	}
	var rows int64
	db.Model(&reaction.VideoReaction{}).Where("user_id = ? AND video_id = ?", viewer.ID, vid.ID).Count(&rows)
	if rows != 0 {
		t.Errorf("expected no reaction row after clearing, got %d", rows)
	}
	if got := countNotifications(t, db, owner.ID, "video_like"); got != 1 {
		t.Errorf("clearing a like must not change notifications, got %d", got)
	}

	// Absent -> dislike stays silent.
	result, err = svc.ToggleVideo(ctx, viewer.ID, vid.ID, reaction.TypeDislike)
	if err != nil {
		t.Fatalf("ToggleVideo failed: %v", err)
	}
	if result.Reaction == nil || *result.Reaction != reaction.TypeDislike {
		t.Errorf("expected dislike result, got %v", result.Reaction)
	}
	if got := countNotifications(t, db, owner.ID, "video_like"); got != 1 {
		t.Errorf("dislike must not notify, got %d notifications", got)
	}

	// Dislike -> like flips in place and notifies again.
	result, err = svc.ToggleVideo(ctx, viewer.ID, vid.ID, reaction.TypeLike)
	if err != nil {
		t.Fatalf("ToggleVideo failed: %v", err)
	}
	if result.Reaction == nil || *result.Reaction != reaction.TypeLike {
		t.Errorf("expected like result after flip, got %v", result.Reaction)
	}
	db.Model(&reaction.VideoReaction{}).Where("user_id = ? AND video_id = ?", viewer.ID, vid.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("flip must keep a single row, got %d", rows)
	}
	if got := countNotifications(t, db, owner.ID, "video_like"); got != 2 {
		t.Errorf("expected 2 like notifications after flip, got %d", got)
	}
}

func TestToggleVideoSelfLikeStaysSilent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner := testhelper.CreateUser(t, db, "owner")
	vid := testhelper.CreateVideo(t, db, owner, "mine")

	result, err := svc.ToggleVideo(ctx, owner.ID, vid.ID, reaction.TypeLike)
	if err != nil {
		t.Fatalf("ToggleVideo failed: %v", err)
	}
	if result.Reaction == nil || *result.Reaction != reaction.TypeLike {
		t.Errorf("self-like must still store the reaction, got %v", result.Reaction)
	}
	if got := countNotifications(t, db, owner.ID, "video_like"); got != 0 {
		t.Errorf("self-like must not notify, got %d", got)
	}
}

func TestToggleVideoErrors(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	viewer := testhelper.CreateUser(t, db, "viewer")

	if _, err := svc.ToggleVideo(ctx, viewer.ID, uuid.New(), reaction.TypeLike); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("expected not-found for missing video, got %v", err)
	}

	owner := testhelper.CreateUser(t, db, "owner")
	vid := testhelper.CreateVideo(t, db, owner, "first")
	if _, err := svc.ToggleVideo(ctx, viewer.ID, vid.ID, reaction.Type("love")); !apperr.Is(err, apperr.CodeBadRequest) {
		t.Errorf("expected bad-request for unknown type, got %v", err)
	}
}

func TestToggleComment(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner := testhelper.CreateUser(t, db, "owner")
	author := testhelper.CreateUser(t, db, "author")
	viewer := testhelper.CreateUser(t, db, "viewer")
	vid := testhelper.CreateVideo(t, db, owner, "first")

	c := comment.Comment{Content: "nice video", UserID: author.ID, VideoID: vid.ID}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	result, err := svc.ToggleComment(ctx, viewer.ID, c.ID, reaction.TypeLike)
	if err != nil {
		t.Fatalf("ToggleComment failed: %v", err)
	}
	if result.Reaction == nil || *result.Reaction != reaction.TypeLike {
		t.Errorf("expected like result, got %v", result.Reaction)
	}
	if got := countNotifications(t, db, author.ID, "comment_like"); got != 1 {
		t.Errorf("expected comment author to be notified, got %d", got)
	}
	if got := countNotifications(t, db, owner.ID, "comment_like"); got != 0 {
		t.Errorf("video owner must not be notified for comment likes, got %d", got)
	}

	// Same type clears it again.
	result, err = svc.ToggleComment(ctx, viewer.ID, c.ID, reaction.TypeLike)
	if err != nil {
		t.Fatalf("ToggleComment failed: %v", err)
	}
	if result.Reaction != nil {
		t.Errorf("expected cleared reaction, got %v", *result.Reaction)
	}

	if _, err := svc.ToggleComment(ctx, viewer.ID, uuid.New(), reaction.TypeLike); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("expected not-found for missing comment, got %v", err)
	}
}
