package database

import (
	"testing"
	"time"

	"github.com/teerapat-l/presswire/app/storage"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func samplePost(id string, order int) Post {
	now := time.Date(2025, time.October, 22, 10, 0, 0, 0, time.UTC)
	return Post{
		ID:             id,
		Title:          "Post " + id,
		Content:        "Body of " + id,
		ContentStorage: storage.TierInline,
		Tags:           []string{"DBD", "ข่าวประชาสัมพันธ์"},
		SourceName:     "dbd-press",
		SourceURL:      "https://www.example.go.th/news/" + id,
		OriginalDate:   "22 ตุลาคม 2568",
		ReadingTime:    1,
		AutoFetched:    true,
		FetchOrder:     order,
		FetchedAt:      &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestInsertAndGetPost(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	post := samplePost("a", 1)
	if err := repo.InsertPost(post); err != nil {
		t.Fatalf("Failed to insert post: %v", err)
	}

	got, err := repo.GetPost("a")
	if err != nil {
		t.Fatalf("Failed to get post: %v", err)
	}
	if got == nil {
		t.Fatal("Expected post, got nil")
	}
	if got.Title != post.Title || got.SourceURL != post.SourceURL {
		t.Errorf("Round trip mismatch: %+v", got)
	}
	if got.ContentStorage != storage.TierInline {
		t.Errorf("Expected inline tier, got %s", got.ContentStorage)
	}
	if len(got.Tags) != 2 || got.Tags[1] != "ข่าวประชาสัมพันธ์" {
		t.Errorf("Tags did not survive the round trip: %v", got.Tags)
	}
	if !got.CreatedAt.Equal(post.CreatedAt) {
		t.Errorf("Expected created_at %v, got %v", post.CreatedAt, got.CreatedAt)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	got, err := repo.GetPost("missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing post, got %+v", got)
	}
}

func TestExistsBySourceURL(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	if err := repo.InsertPost(samplePost("a", 1)); err != nil {
		t.Fatalf("Failed to insert post: %v", err)
	}

	exists, err := repo.ExistsBySourceURL("https://www.example.go.th/news/a")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !exists {
		t.Error("Expected existing source URL to be reported")
	}

	exists, err = repo.ExistsBySourceURL("https://www.example.go.th/news/other")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if exists {
		t.Error("Expected unknown source URL to be absent")
	}
}

func TestMaxFetchOrder(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	order, err := repo.MaxFetchOrder()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if order != 0 {
		t.Errorf("Expected 0 on empty table, got %d", order)
	}

	for i, id := range []string{"a", "b", "c"} {
		if err := repo.InsertPost(samplePost(id, i+1)); err != nil {
			t.Fatalf("Failed to insert post %s: %v", id, err)
		}
	}

	// Manual posts do not participate in the ingestion sequence
	manual := samplePost("m", 99)
	manual.AutoFetched = false
	if err := repo.InsertPost(manual); err != nil {
		t.Fatalf("Failed to insert manual post: %v", err)
	}

	order, err = repo.MaxFetchOrder()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if order != 3 {
		t.Errorf("Expected max fetch order 3, got %d", order)
	}
}

func TestGetPosts_OrderAndPaging(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	for i, id := range []string{"a", "b", "c"} {
		if err := repo.InsertPost(samplePost(id, i+1)); err != nil {
			t.Fatalf("Failed to insert post %s: %v", id, err)
		}
	}

	posts, err := repo.GetPosts(2, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != "c" || posts[1].ID != "b" {
		t.Errorf("Expected newest-first order, got %s, %s", posts[0].ID, posts[1].ID)
	}

	posts, err = repo.GetPosts(2, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "a" {
		t.Errorf("Expected the last page to hold post a, got %+v", posts)
	}
}

func TestGetPostStats(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	total, autoFetched, manual, err := repo.GetPostStats()
	if err != nil {
		t.Fatalf("Unexpected error on empty table: %v", err)
	}
	if total != 0 || autoFetched != 0 || manual != 0 {
		t.Errorf("Expected zero stats, got %d/%d/%d", total, autoFetched, manual)
	}

	if err := repo.InsertPost(samplePost("a", 1)); err != nil {
		t.Fatalf("Failed to insert post: %v", err)
	}
	manualPost := samplePost("m", 0)
	manualPost.AutoFetched = false
	if err := repo.InsertPost(manualPost); err != nil {
		t.Fatalf("Failed to insert manual post: %v", err)
	}

	total, autoFetched, manual, err = repo.GetPostStats()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if total != 2 || autoFetched != 1 || manual != 1 {
		t.Errorf("Expected 2/1/1, got %d/%d/%d", total, autoFetched, manual)
	}
}

func TestInsertPost_DuplicateIDRejected(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	if err := repo.InsertPost(samplePost("a", 1)); err != nil {
		t.Fatalf("Failed to insert post: %v", err)
	}
	if err := repo.InsertPost(samplePost("a", 2)); err == nil {
		t.Error("Expected primary key violation on duplicate id")
	}
}
