package subscription_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/pagination"
	"github.com/vidorahq/vidora/backend/internal/subscription"
	"github.com/vidorahq/vidora/backend/testhelper"
)

func TestSubscribeLifecycle(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := subscription.NewService(db, testhelper.NewTestLogger(t), testhelper.Paging())
	ctx := context.Background()

	viewer := testhelper.CreateUser(t, db, "viewer")
	creator := testhelper.CreateUser(t, db, "creator")

	if err := svc.Subscribe(ctx, viewer.ID, creator.ID); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	// Subscribing twice stays a single row.
	if err := svc.Subscribe(ctx, viewer.ID, creator.ID); err != nil {
		t.Fatalf("repeat Subscribe failed: %v", err)
	}

	var count int64
	db.Model(&subscription.Subscription{}).Where("creator_id = ?", creator.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 subscription row, got %d", count)
	}

	if err := svc.Unsubscribe(ctx, viewer.ID, creator.ID); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	db.Model(&subscription.Subscription{}).Where("creator_id = ?", creator.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected no subscription rows, got %d", count)
	}

	// Unfollowing again is a no-op.
	if err := svc.Unsubscribe(ctx, viewer.ID, creator.ID); err != nil {
		t.Errorf("repeat Unsubscribe must be a no-op, got %v", err)
	}
}

func TestSubscribeGuards(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := subscription.NewService(db, testhelper.NewTestLogger(t), testhelper.Paging())
	ctx := context.Background()

	viewer := testhelper.CreateUser(t, db, "viewer")

	if err := svc.Subscribe(ctx, viewer.ID, viewer.ID); !apperr.Is(err, apperr.CodeBadRequest) {
		t.Errorf("self-subscription must be rejected, got %v", err)
	}
	if err := svc.Subscribe(ctx, viewer.ID, uuid.New()); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("expected not-found for a missing creator, got %v", err)
	}
}

func TestListWithCounts(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := subscription.NewService(db, testhelper.NewTestLogger(t), testhelper.Paging())
	ctx := context.Background()

	viewer := testhelper.CreateUser(t, db, "viewer")
	rival := testhelper.CreateUser(t, db, "rival")
	creator := testhelper.CreateUser(t, db, "creator")

	if err := svc.Subscribe(ctx, viewer.ID, creator.ID); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := svc.Subscribe(ctx, rival.ID, creator.ID); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	page, err := svc.List(ctx, viewer.ID, nil, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 followed creator, got %d", len(page.Items))
	}
	item := page.Items[0]
	if item.Creator.ID != creator.ID || item.Creator.Name != "creator" {
		t.Errorf("unexpected creator projection: %+v", item.Creator)
	}
	if item.Creator.SubscriberCount != 2 {
		t.Errorf("expected 2 subscribers, got %d", item.Creator.SubscriberCount)
	}
	if page.NextCursor != "" {
		t.Errorf("expected no cursor on a complete page, got %q", page.NextCursor)
	}
}

func TestListPagination(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := subscription.NewService(db, testhelper.NewTestLogger(t), testhelper.Paging())
	ctx := context.Background()

	viewer := testhelper.CreateUser(t, db, "viewer")
	for i := 0; i < 3; i++ {
		creator := testhelper.CreateUser(t, db, fmt.Sprintf("creator-%d", i))
		if err := svc.Subscribe(ctx, viewer.ID, creator.ID); err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
	}

	page1, err := svc.List(ctx, viewer.ID, nil, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page1.Items) != 2 || page1.NextCursor == "" {
		t.Fatalf("expected 2 items and a cursor, got %d items", len(page1.Items))
	}

	cursor, err := pagination.DecodeTime(page1.NextCursor)
	if err != nil {
		t.Fatalf("failed to decode cursor: %v", err)
	}
	page2, err := svc.List(ctx, viewer.ID, cursor, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page2.Items) != 1 || page2.NextCursor != "" {
		t.Errorf("expected a final page of 1, got %d items cursor=%q", len(page2.Items), page2.NextCursor)
	}

	seen := map[uuid.UUID]bool{}
	for _, item := range append(page1.Items, page2.Items...) {
		if seen[item.CreatorID] {
			t.Errorf("creator %s appeared twice across pages", item.CreatorID)
		}
		seen[item.CreatorID] = true
	}
}
