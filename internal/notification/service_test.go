package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/notification"
	"github.com/vidorahq/vidora/backend/internal/pagination"
	"github.com/vidorahq/vidora/backend/testhelper"
)

func newTestService(t *testing.T) (*notification.Service, *gorm.DB) {
	t.Helper()
	db := testhelper.SetupTestDB(t)
	log := testhelper.NewTestLogger(t)
	return notification.NewService(db, log, notification.NewEmitter(), testhelper.Paging()), db
}

func TestNotifyGuardsAndValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner := testhelper.CreateUser(t, db, "owner")
	fan := testhelper.CreateUser(t, db, "fan")
	vid := testhelper.CreateVideo(t, db, owner, "first")

	// Self-directed notifications are dropped, not stored.
	id, err := svc.Notify(ctx, nil, notification.TypeVideoLike, owner.ID, owner.ID, &vid.ID, nil)
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if id != uuid.Nil {
		t.Errorf("self-notification must be suppressed, got id %s", id)
	}
	var count int64
	db.Model(&notification.Notification{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no stored rows, got %d", count)
	}

	// Unknown kinds and missing references are rejected before the
	// guard, so call sites learn about their bug even on self-actions.
	if _, err := svc.Notify(ctx, nil, "video_star", fan.ID, owner.ID, &vid.ID, nil); !apperr.Is(err, apperr.CodeBadRequest) {
		t.Errorf("expected bad-request for unknown kind, got %v", err)
	}
	if _, err := svc.Notify(ctx, nil, notification.TypeVideoLike, fan.ID, owner.ID, nil, nil); !apperr.Is(err, apperr.CodeBadRequest) {
		t.Errorf("expected bad-request for missing video ref, got %v", err)
	}
	if _, err := svc.Notify(ctx, nil, notification.TypeCommentLike, fan.ID, owner.ID, &vid.ID, nil); !apperr.Is(err, apperr.CodeBadRequest) {
		t.Errorf("expected bad-request for missing comment ref, got %v", err)
	}

	// A well-formed notification lands.
	id, err = svc.Notify(ctx, nil, notification.TypeVideoLike, fan.ID, owner.ID, &vid.ID, nil)
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected a stored notification id")
	}
}

func TestListAndReadFlow(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner := testhelper.CreateUser(t, db, "owner")
	fan := testhelper.CreateUser(t, db, "fan")
	vid := testhelper.CreateVideo(t, db, owner, "first")

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		id, err := svc.Notify(ctx, nil, notification.TypeVideoLike, fan.ID, owner.ID, &vid.ID, nil)
		if err != nil {
			t.Fatalf("Notify failed: %v", err)
		}
		ids = append(ids, id)
	}

	page, err := svc.List(ctx, owner.ID, nil, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(page.Items))
	}
	first := page.Items[0]
	if first.Sender.Name != "fan" {
		t.Errorf("expected sender fan, got %q", first.Sender.Name)
	}
	if first.Video == nil || first.Video.Title != "first" {
		t.Errorf("expected video reference on the item")
	}

	// The sender sees nothing in their own inbox.
	fanPage, err := svc.List(ctx, fan.ID, nil, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(fanPage.Items) != 0 {
		t.Errorf("sender's inbox must be empty, got %d", len(fanPage.Items))
	}

	unread, err := svc.UnreadCount(ctx, owner.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if unread != 3 {
		t.Errorf("expected 3 unread, got %d", unread)
	}

	if err := svc.MarkRead(ctx, owner.ID, ids[0]); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if unread, _ = svc.UnreadCount(ctx, owner.ID); unread != 2 {
		t.Errorf("expected 2 unread after MarkRead, got %d", unread)
	}

	// Only the recipient can touch a notification.
	if err := svc.MarkRead(ctx, fan.ID, ids[1]); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("expected not-found for foreign notification, got %v", err)
	}

	if err := svc.MarkAllRead(ctx, owner.ID); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if unread, _ = svc.UnreadCount(ctx, owner.ID); unread != 0 {
		t.Errorf("expected 0 unread after MarkAllRead, got %d", unread)
	}

	if err := svc.Remove(ctx, owner.ID, ids[2]); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := svc.Remove(ctx, owner.ID, ids[2]); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("expected not-found for removed notification, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner := testhelper.CreateUser(t, db, "owner")
	fan := testhelper.CreateUser(t, db, "fan")
	vid := testhelper.CreateVideo(t, db, owner, "first")

	for i := 0; i < 3; i++ {
		if _, err := svc.Notify(ctx, nil, notification.TypeVideoLike, fan.ID, owner.ID, &vid.ID, nil); err != nil {
			t.Fatalf("Notify failed: %v", err)
		}
	}

	page1, err := svc.List(ctx, owner.ID, nil, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page1.Items) != 2 || page1.NextCursor == "" {
		t.Fatalf("expected 2 items and a cursor, got %d items cursor=%q", len(page1.Items), page1.NextCursor)
	}

	cursor, err := pagination.DecodeTime(page1.NextCursor)
	if err != nil {
		t.Fatalf("failed to decode cursor: %v", err)
	}
	page2, err := svc.List(ctx, owner.ID, cursor, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page2.Items) != 1 || page2.NextCursor != "" {
		t.Errorf("expected final page with 1 item, got %d items cursor=%q", len(page2.Items), page2.NextCursor)
	}
}

func TestEmitterDelivery(t *testing.T) {
	emitter := notification.NewEmitter()
	recipient := uuid.New()

	events, cancel := emitter.Subscribe(recipient)
	defer cancel()

	event := notification.Event{NotificationID: uuid.New(), RecipientID: recipient}
	emitter.Publish(event)

	select {
	case got := <-events:
		if got.NotificationID != event.NotificationID {
			t.Errorf("expected event %v, got %v", event, got)
		}
	case <-time.After(time.Second):
		t.Fatal("expected an event to be delivered")
	}

	// Events for someone else never reach this subscriber.
	emitter.Publish(notification.Event{NotificationID: uuid.New(), RecipientID: uuid.New()})
	select {
	case e := <-events:
		t.Errorf("unexpected event for other recipient: %v", e)
	case <-time.After(50 * time.Millisecond):
	}

	// After cancel the channel closes and no more events arrive.
	cancel()
	if _, ok := <-events; ok {
		t.Error("expected closed channel after cancel")
	}
}
