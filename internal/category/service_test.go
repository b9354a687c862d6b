package category_test

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"

	"github.com/vidorahq/vidora/backend/internal/category"
	"github.com/vidorahq/vidora/backend/testhelper"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := category.NewService(db, testhelper.NewTestLogger(t))
	ctx := context.Background()

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	var first int64
	db.Model(&category.Category{}).Count(&first)
	if first == 0 {
		t.Fatal("seed inserted no categories")
	}

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("repeat Seed failed: %v", err)
	}
	var second int64
	db.Model(&category.Category{}).Count(&second)
	if second != first {
		t.Errorf("repeat seed changed the count: %d -> %d", first, second)
	}
}

func TestListOrder(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := category.NewService(db, testhelper.NewTestLogger(t))
	ctx := context.Background()

	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	categories, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("categories not sorted by name: %v", names)
	}
}

func TestExists(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	svc := category.NewService(db, testhelper.NewTestLogger(t))
	ctx := context.Background()

	c := category.Category{Name: "Music", Description: "music"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	ok, err := svc.Exists(ctx, c.ID.String())
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Error("expected the category to exist")
	}

	ok, err = svc.Exists(ctx, uuid.New().String())
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Error("expected a random id to be absent")
	}
}
