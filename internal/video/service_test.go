package video_test

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/category"
	"github.com/vidorahq/vidora/backend/internal/reaction"
	"github.com/vidorahq/vidora/backend/internal/subscription"
	"github.com/vidorahq/vidora/backend/internal/transcode"
	"github.com/vidorahq/vidora/backend/internal/video"
	"github.com/vidorahq/vidora/backend/internal/workflow"
	"github.com/vidorahq/vidora/backend/testhelper"
)

type fakeProvider struct {
	uploads map[string]*transcode.Upload
	assets  map[string]*transcode.Asset
	created int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		uploads: make(map[string]*transcode.Upload),
		assets:  make(map[string]*transcode.Asset),
	}
}

func (f *fakeProvider) CreateUpload(ctx context.Context, passthrough string) (*transcode.Upload, error) {
	f.created++
	upload := &transcode.Upload{
		ID:  fmt.Sprintf("upload-%d", f.created),
		URL: fmt.Sprintf("https://uploads.example.com/%d", f.created),
	}
	f.uploads[upload.ID] = upload
	return upload, nil
}

func (f *fakeProvider) GetUpload(ctx context.Context, uploadID string) (*transcode.Upload, error) {
	upload, ok := f.uploads[uploadID]
	if !ok {
		return nil, fmt.Errorf("upload %s not found", uploadID)
	}
	return upload, nil
}

func (f *fakeProvider) GetAsset(ctx context.Context, assetID string) (*transcode.Asset, error) {
	asset, ok := f.assets[assetID]
	if !ok {
		return nil, fmt.Errorf("asset %s not found", assetID)
	}
	return asset, nil
}

func (f *fakeProvider) ThumbnailURL(playbackID string) string {
	return "https://img.example.com/" + playbackID + "/thumbnail.jpg"
}

func (f *fakeProvider) PreviewURL(playbackID string) string {
	return "https://img.example.com/" + playbackID + "/animated.gif"
}

type fakeStore struct {
	removed []string
}

func (f *fakeStore) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	return "https://files.example.com/" + key, nil
}

func (f *fakeStore) RemoveObject(ctx context.Context, key string) error {
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeStore) URL(key string) string {
	return "https://files.example.com/" + key
}

type fakeWorkflows struct {
	paths  []string
	inputs []map[string]string
}

func (f *fakeWorkflows) TriggerRun(ctx context.Context, path string, input map[string]string) (*workflow.Trigger, error) {
	f.paths = append(f.paths, path)
	f.inputs = append(f.inputs, input)
	return &workflow.Trigger{RunID: fmt.Sprintf("run-%d", len(f.paths))}, nil
}

type fixture struct {
	svc       *video.Service
	db        *gorm.DB
	provider  *fakeProvider
	store     *fakeStore
	workflows *fakeWorkflows
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelper.SetupTestDB(t)
	log := testhelper.NewTestLogger(t)
	provider := newFakeProvider()
	store := &fakeStore{}
	workflows := &fakeWorkflows{}
	svc := video.NewService(db, log, provider, store, workflows, testhelper.Paging())
	return &fixture{svc: svc, db: db, provider: provider, store: store, workflows: workflows}
}

func TestCreateDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelper.CreateUser(t, f.db, "owner")

	result, err := f.svc.Create(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if result.Video.Title != "Untitled" {
		t.Errorf("expected draft title Untitled, got %q", result.Video.Title)
	}
	if result.Video.Visibility != video.VisibilityPrivate {
		t.Errorf("drafts must start private, got %s", result.Video.Visibility)
	}
	if result.Video.UploadID == nil || *result.Video.UploadID == "" {
		t.Error("draft must reference its upload")
	}
	if result.UploadURL == "" {
		t.Error("expected a direct-upload URL")
	}
}

func TestUpdateOwnershipAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelper.CreateUser(t, f.db, "owner")
	stranger := testhelper.CreateUser(t, f.db, "stranger")
	vid := testhelper.CreateVideo(t, f.db, owner, "first")

	title := "renamed"
	if _, err := f.svc.Update(ctx, stranger.ID, vid.ID, video.UpdateRequest{Title: &title}); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("foreign video must look missing, got %v", err)
	}

	updated, err := f.svc.Update(ctx, owner.ID, vid.ID, video.UpdateRequest{Title: &title})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "renamed" {
		t.Errorf("expected renamed title, got %q", updated.Title)
	}

	empty := "   "
	if _, err := f.svc.Update(ctx, owner.ID, vid.ID, video.UpdateRequest{Title: &empty}); !apperr.Is(err, apperr.CodeBadRequest) {
		t.Errorf("expected bad-request for blank title, got %v", err)
	}

	bad := video.Visibility("unlisted")
	if _, err := f.svc.Update(ctx, owner.ID, vid.ID, video.UpdateRequest{Visibility: &bad}); !apperr.Is(err, apperr.CodeBadRequest) {
		t.Errorf("expected bad-request for unknown visibility, got %v", err)
	}

	missing := uuid.New()
	if _, err := f.svc.Update(ctx, owner.ID, vid.ID, video.UpdateRequest{CategoryID: &missing}); !apperr.Is(err, apperr.CodeBadRequest) {
		t.Errorf("expected bad-request for unknown category, got %v", err)
	}

	cat := category.Category{Name: "Music", Description: "music"}
	if err := f.db.Create(&cat).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	if _, err := f.svc.Update(ctx, owner.ID, vid.ID, video.UpdateRequest{CategoryID: &cat.ID}); err != nil {
		t.Fatalf("Update with category failed: %v", err)
	}
}

func TestGetOneVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelper.CreateUser(t, f.db, "owner")
	viewer := testhelper.CreateUser(t, f.db, "viewer")

	private := video.Video{Title: "secret", Status: video.StatusReady, Visibility: video.VisibilityPrivate, UserID: owner.ID}
	if err := f.db.Create(&private).Error; err != nil {
		t.Fatalf("failed to create video: %v", err)
	}

	if _, err := f.svc.GetOne(ctx, private.ID, nil); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("anonymous viewer must not see private videos, got %v", err)
	}
	if _, err := f.svc.GetOne(ctx, private.ID, &viewer.ID); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("other users must not see private videos, got %v", err)
	}
	if _, err := f.svc.GetOne(ctx, private.ID, &owner.ID); err != nil {
		t.Errorf("owner must see their private video, got %v", err)
	}
}

func TestGetOneEnrichment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelper.CreateUser(t, f.db, "owner")
	viewer := testhelper.CreateUser(t, f.db, "viewer")
	fan := testhelper.CreateUser(t, f.db, "fan")
	vid := testhelper.CreateVideo(t, f.db, owner, "first")

	for _, u := range []uuid.UUID{viewer.ID, fan.ID} {
		if err := f.db.Create(&video.View{UserID: u, VideoID: vid.ID}).Error; err != nil {
			t.Fatalf("failed to create view: %v", err)
		}
	}
	if err := f.db.Create(&reaction.VideoReaction{UserID: viewer.ID, VideoID: vid.ID, Type: reaction.TypeLike}).Error; err != nil {
		t.Fatalf("failed to create reaction: %v", err)
	}
	if err := f.db.Create(&subscription.Subscription{ViewerID: fan.ID, CreatorID: owner.ID}).Error; err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}

	detail, err := f.svc.GetOne(ctx, vid.ID, &viewer.ID)
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if detail.ViewCount != 2 {
		t.Errorf("expected 2 views, got %d", detail.ViewCount)
	}
	if detail.LikeCount != 1 || detail.DislikeCount != 0 {
		t.Errorf("expected 1 like 0 dislikes, got %d/%d", detail.LikeCount, detail.DislikeCount)
	}
	if detail.ViewerReaction == nil || *detail.ViewerReaction != "like" {
		t.Errorf("expected viewer reaction like, got %v", detail.ViewerReaction)
	}
	if detail.User.SubscriberCount != 1 {
		t.Errorf("expected 1 subscriber, got %d", detail.User.SubscriberCount)
	}
	if detail.User.ViewerSubscribed {
		t.Error("viewer is not subscribed")
	}

	fanDetail, err := f.svc.GetOne(ctx, vid.ID, &fan.ID)
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if !fanDetail.User.ViewerSubscribed {
		t.Error("fan should read as subscribed")
	}
}

func TestGetManyPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelper.CreateUser(t, f.db, "owner")

	for _, title := range []string{"one", "two", "three"} {
		testhelper.CreateVideo(t, f.db, owner, title)
	}

	items, next, err := f.svc.GetMany(ctx, video.ListParams{Limit: 2})
	if err != nil {
		t.Fatalf("GetMany failed: %v", err)
	}
	if len(items) != 2 || next == nil {
		t.Fatalf("expected 2 items and a cursor, got %d items cursor=%v", len(items), next)
	}

	rest, last, err := f.svc.GetMany(ctx, video.ListParams{Limit: 2, Cursor: next})
	if err != nil {
		t.Fatalf("GetMany failed: %v", err)
	}
	if len(rest) != 1 || last != nil {
		t.Errorf("expected final page with 1 item, got %d items cursor=%v", len(rest), last)
	}

	seen := map[uuid.UUID]bool{}
	for _, item := range append(items, rest...) {
		if seen[item.ID] {
			t.Errorf("video %s appeared twice across pages", item.ID)
		}
		seen[item.ID] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected all 3 videos across pages, got %d", len(seen))
	}
}

func TestGetManyFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelper.CreateUser(t, f.db, "owner")

	cat := category.Category{Name: "Gaming", Description: "games"}
	if err := f.db.Create(&cat).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	tagged := testhelper.CreateVideo(t, f.db, owner, "speedrun")
	if err := f.db.Model(tagged).Update("category_id", cat.ID).Error; err != nil {
		t.Fatalf("failed to tag video: %v", err)
	}
	testhelper.CreateVideo(t, f.db, owner, "cooking show")

	draft := video.Video{Title: "draft", Visibility: video.VisibilityPrivate, UserID: owner.ID}
	if err := f.db.Create(&draft).Error; err != nil {
		t.Fatalf("failed to create draft: %v", err)
	}

	// Category filter.
	items, _, err := f.svc.GetMany(ctx, video.ListParams{CategoryID: &cat.ID})
	if err != nil {
		t.Fatalf("GetMany failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != tagged.ID {
		t.Errorf("expected only the tagged video, got %d items", len(items))
	}

	// Public listings hide drafts.
	items, _, err = f.svc.GetMany(ctx, video.ListParams{})
	if err != nil {
		t.Fatalf("GetMany failed: %v", err)
	}
	for _, item := range items {
		if item.Visibility == video.VisibilityPrivate {
			t.Errorf("private video %s leaked into the public listing", item.ID)
		}
	}

	// The studio view shows them.
	items, _, err = f.svc.GetMany(ctx, video.ListParams{OwnerID: &owner.ID, IncludePrivate: true})
	if err != nil {
		t.Fatalf("GetMany failed: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("expected 3 studio items, got %d", len(items))
	}

	// Substring search is case-insensitive.
	items, _, err = f.svc.GetMany(ctx, video.ListParams{Query: "COOKING"})
	if err != nil {
		t.Fatalf("GetMany failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "cooking show" {
		t.Errorf("expected the cooking video, got %d items", len(items))
	}
}

func TestGetTrendingOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelper.CreateUser(t, f.db, "owner")

	cold := testhelper.CreateVideo(t, f.db, owner, "cold")
	warm := testhelper.CreateVideo(t, f.db, owner, "warm")
	hot := testhelper.CreateVideo(t, f.db, owner, "hot")

	for i := 0; i < 3; i++ {
		u := testhelper.CreateUser(t, f.db, fmt.Sprintf("viewer-%d", i))
		targets := []uuid.UUID{hot.ID}
		if i < 2 {
			targets = append(targets, warm.ID)
		}
		for _, id := range targets {
			if err := f.db.Create(&video.View{UserID: u.ID, VideoID: id}).Error; err != nil {
				t.Fatalf("failed to create view: %v", err)
			}
		}
	}

	items, _, err := f.svc.GetTrending(ctx, nil, 10)
	if err != nil {
		t.Fatalf("GetTrending failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != hot.ID || items[1].ID != warm.ID || items[2].ID != cold.ID {
		t.Errorf("expected hot, warm, cold order, got %s %s %s", items[0].Title, items[1].Title, items[2].Title)
	}

	// Count-keyed cursor resumes after the first row.
	page1, next, err := f.svc.GetTrending(ctx, nil, 1)
	if err != nil {
		t.Fatalf("GetTrending failed: %v", err)
	}
	if len(page1) != 1 || next == nil {
		t.Fatalf("expected 1 item and a cursor")
	}
	page2, _, err := f.svc.GetTrending(ctx, next, 10)
	if err != nil {
		t.Fatalf("GetTrending failed: %v", err)
	}
	if len(page2) != 2 || page2[0].ID != warm.ID {
		t.Errorf("expected the remaining 2 items starting at warm, got %d", len(page2))
	}
}

func TestGetSubscribedFeed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := testhelper.CreateUser(t, f.db, "creator")
	other := testhelper.CreateUser(t, f.db, "other")
	fan := testhelper.CreateUser(t, f.db, "fan")

	followed := testhelper.CreateVideo(t, f.db, creator, "followed")
	testhelper.CreateVideo(t, f.db, other, "unfollowed")

	if err := f.db.Create(&subscription.Subscription{ViewerID: fan.ID, CreatorID: creator.ID}).Error; err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}

	items, _, err := f.svc.GetSubscribed(ctx, fan.ID, nil, 10)
	if err != nil {
		t.Fatalf("GetSubscribed failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != followed.ID {
		t.Errorf("expected only the followed creator's video, got %d items", len(items))
	}
}

func TestRevalidateSyncsProviderState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelper.CreateUser(t, f.db, "owner")

	result, err := f.svc.Create(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	vid := result.Video

	// Upload still waiting: nothing changes.
	revalidated, err := f.svc.Revalidate(ctx, owner.ID, vid.ID)
	if err != nil {
		t.Fatalf("Revalidate failed: %v", err)
	}
	if revalidated.Status != video.StatusWaiting {
		t.Errorf("expected waiting status, got %s", revalidated.Status)
	}

	// Provider finished processing.
	f.provider.uploads[*vid.UploadID].AssetID = "asset-1"
	f.provider.assets["asset-1"] = &transcode.Asset{
		ID:         "asset-1",
		Status:     video.StatusReady,
		PlaybackID: "play-1",
		DurationMs: 90000,
	}

	if _, err = f.svc.Revalidate(ctx, owner.ID, vid.ID); err != nil {
		t.Fatalf("Revalidate failed: %v", err)
	}

	var stored video.Video
	if err := f.db.First(&stored, "id = ?", vid.ID).Error; err != nil {
		t.Fatalf("failed to reload video: %v", err)
	}
	if stored.Status != video.StatusReady {
		t.Errorf("expected ready status, got %s", stored.Status)
	}
	if stored.PlaybackID == nil || *stored.PlaybackID != "play-1" {
		t.Errorf("expected playback id play-1, got %v", stored.PlaybackID)
	}
	if stored.Duration != 90000 {
		t.Errorf("expected duration 90000, got %d", stored.Duration)
	}
	if stored.ThumbnailURL == nil || *stored.ThumbnailURL != f.provider.ThumbnailURL("play-1") {
		t.Errorf("expected provider thumbnail, got %v", stored.ThumbnailURL)
	}

	// A video that never had an upload cannot be revalidated.
	bare := testhelper.CreateVideo(t, f.db, owner, "bare")
	if _, err := f.svc.Revalidate(ctx, owner.ID, bare.ID); !apperr.Is(err, apperr.CodeBadRequest) {
		t.Errorf("expected bad-request without an upload, got %v", err)
	}
}

func TestRestoreThumbnail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelper.CreateUser(t, f.db, "owner")

	key := "thumbnails/custom"
	url := "https://files.example.com/" + key
	playback := "play-9"
	vid := video.Video{
		Title:        "custom thumb",
		Visibility:   video.VisibilityPublic,
		UserID:       owner.ID,
		ThumbnailKey: &key,
		ThumbnailURL: &url,
		PlaybackID:   &playback,
	}
	if err := f.db.Create(&vid).Error; err != nil {
		t.Fatalf("failed to create video: %v", err)
	}

	if _, err := f.svc.RestoreThumbnail(ctx, owner.ID, vid.ID); err != nil {
		t.Fatalf("RestoreThumbnail failed: %v", err)
	}
	if len(f.store.removed) != 1 || f.store.removed[0] != key {
		t.Errorf("expected the custom thumbnail object to be removed, got %v", f.store.removed)
	}

	var stored video.Video
	if err := f.db.First(&stored, "id = ?", vid.ID).Error; err != nil {
		t.Fatalf("failed to reload video: %v", err)
	}
	if stored.ThumbnailKey != nil {
		t.Error("thumbnail key must be cleared")
	}
	if stored.ThumbnailURL == nil || *stored.ThumbnailURL != f.provider.ThumbnailURL(playback) {
		t.Errorf("expected provider thumbnail, got %v", stored.ThumbnailURL)
	}
}

func TestGenerateWorkflows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelper.CreateUser(t, f.db, "owner")
	stranger := testhelper.CreateUser(t, f.db, "stranger")
	vid := testhelper.CreateVideo(t, f.db, owner, "first")

	runID, err := f.svc.GenerateTitle(ctx, owner.ID, vid.ID)
	if err != nil {
		t.Fatalf("GenerateTitle failed: %v", err)
	}
	if runID == "" {
		t.Error("expected a workflow run id")
	}
	if len(f.workflows.paths) != 1 || f.workflows.paths[0] != "/workflows/title" {
		t.Errorf("expected title workflow trigger, got %v", f.workflows.paths)
	}

	if _, err := f.svc.GenerateThumbnail(ctx, owner.ID, vid.ID, "short"); !apperr.Is(err, apperr.CodeBadRequest) {
		t.Errorf("expected bad-request for short prompt, got %v", err)
	}
	if _, err := f.svc.GenerateThumbnail(ctx, owner.ID, vid.ID, "a neon cityscape at night"); err != nil {
		t.Fatalf("GenerateThumbnail failed: %v", err)
	}
	last := f.workflows.inputs[len(f.workflows.inputs)-1]
	if last["prompt"] != "a neon cityscape at night" {
		t.Errorf("expected prompt in workflow input, got %v", last)
	}

	if _, err := f.svc.GenerateTitle(ctx, stranger.ID, vid.ID); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("foreign video must look missing, got %v", err)
	}
}

func TestCreateViewIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelper.CreateUser(t, f.db, "owner")
	viewer := testhelper.CreateUser(t, f.db, "viewer")
	vid := testhelper.CreateVideo(t, f.db, owner, "first")

	if err := f.svc.CreateView(ctx, viewer.ID, vid.ID); err != nil {
		t.Fatalf("CreateView failed: %v", err)
	}
	if err := f.svc.CreateView(ctx, viewer.ID, vid.ID); err != nil {
		t.Fatalf("repeat CreateView failed: %v", err)
	}

	var count int64
	f.db.Model(&video.View{}).Where("video_id = ?", vid.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected a single view row, got %d", count)
	}

	if err := f.svc.CreateView(ctx, viewer.ID, uuid.New()); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("expected not-found for missing video, got %v", err)
	}
}

func TestRemoveDeletesRowAndAssets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testhelper.CreateUser(t, f.db, "owner")
	viewer := testhelper.CreateUser(t, f.db, "viewer")

	key := "thumbnails/t1"
	vid := video.Video{Title: "doomed", Visibility: video.VisibilityPublic, UserID: owner.ID, ThumbnailKey: &key}
	if err := f.db.Create(&vid).Error; err != nil {
		t.Fatalf("failed to create video: %v", err)
	}
	if err := f.db.Create(&video.View{UserID: viewer.ID, VideoID: vid.ID}).Error; err != nil {
		t.Fatalf("failed to create view: %v", err)
	}

	if err := f.svc.Remove(ctx, viewer.ID, vid.ID); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("foreign video must look missing, got %v", err)
	}

	if err := f.svc.Remove(ctx, owner.ID, vid.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(f.store.removed) != 1 || f.store.removed[0] != key {
		t.Errorf("expected stored thumbnail removal, got %v", f.store.removed)
	}

	var count int64
	f.db.Model(&video.View{}).Where("video_id = ?", vid.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected views to cascade, got %d", count)
	}
}
