package repositories

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"parley/internal/platform/models"
)

func setupTenantStore(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE comments (
		id TEXT PRIMARY KEY,
		story_id TEXT NOT NULL,
		author_id TEXT NOT NULL,
		status TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE comment_revisions (
		id TEXT PRIMARY KEY,
		comment_id TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE stories (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		metadata TEXT
	);
	CREATE TABLE authors (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT
	);
	CREATE TABLE deliveries (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		channel TEXT NOT NULL,
		channel_name TEXT,
		hook_url TEXT NOT NULL,
		comment_id TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func TestCommentRepository_UpsertAndGet(t *testing.T) {
	db := setupTenantStore(t)
	repo := NewCommentRepository(db)

	comment := &models.Comment{
		ID:       "c1",
		StoryID:  "s1",
		AuthorID: "a1",
		Status:   "NONE",
		Revisions: []models.Revision{
			{ID: "r1", Body: "first", CreatedAt: 100},
			{ID: "r2", Body: "second", CreatedAt: 200},
		},
	}
	if err := repo.Upsert(comment); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	fetched, err := repo.GetByID("c1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("Expected comment")
	}
	if len(fetched.Revisions) != 2 {
		t.Fatalf("Expected 2 revisions, got %d", len(fetched.Revisions))
	}
	if fetched.LatestRevision() != "second" {
		t.Errorf("Expected latest revision 'second', got %q", fetched.LatestRevision())
	}

	// Upsert again with a status change; must not duplicate revisions.
	comment.Status = "APPROVED"
	if err := repo.Upsert(comment); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}
	fetched, _ = repo.GetByID("c1")
	if fetched.Status != "APPROVED" {
		t.Errorf("Expected updated status, got %q", fetched.Status)
	}
	if len(fetched.Revisions) != 2 {
		t.Errorf("Expected 2 revisions after re-upsert, got %d", len(fetched.Revisions))
	}
}

func TestCommentRepository_GetMissing(t *testing.T) {
	db := setupTenantStore(t)
	repo := NewCommentRepository(db)

	comment, err := repo.GetByID("missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if comment != nil {
		t.Errorf("Expected nil, got %+v", comment)
	}
}

func TestStoryRepository_MetadataRoundTrip(t *testing.T) {
	db := setupTenantStore(t)
	repo := NewStoryRepository(db)

	story := &models.Story{
		ID:       "s1",
		URL:      "https://news.example.com/story",
		Metadata: &models.StoryMetadata{Title: "Big Story"},
	}
	if err := repo.Upsert(story); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	fetched, err := repo.GetByID("s1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Metadata == nil {
		t.Fatalf("Expected story with metadata, got %+v", fetched)
	}
	if fetched.Metadata.Title != "Big Story" {
		t.Errorf("Expected metadata title, got %q", fetched.Metadata.Title)
	}
}

func TestStoryRepository_NoMetadata(t *testing.T) {
	db := setupTenantStore(t)
	repo := NewStoryRepository(db)

	if err := repo.Upsert(&models.Story{ID: "s1", URL: "https://example.com"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	fetched, err := repo.GetByID("s1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Metadata != nil {
		t.Errorf("Expected nil metadata, got %+v", fetched.Metadata)
	}
	if fetched.Title() != "" {
		t.Errorf("Expected empty title, got %q", fetched.Title())
	}
}

func TestDeliveryRepository_CreateListPrune(t *testing.T) {
	db := setupTenantStore(t)
	repo := NewDeliveryRepository(db)

	old := &models.Delivery{
		TenantID:  "tnt_1",
		Channel:   "COMMENT_FEATURED",
		HookURL:   "https://hooks.example.com/a",
		CommentID: "c1",
		Status:    models.DeliveryStatusDelivered,
		CreatedAt: 100,
	}
	recent := &models.Delivery{
		TenantID:  "tnt_1",
		Channel:   "COMMENT_ENTERED_MODERATION_QUEUE",
		HookURL:   "https://hooks.example.com/b",
		CommentID: "c2",
		Status:    models.DeliveryStatusFailed,
		Error:     "connection refused",
		CreatedAt: 200,
	}
	if err := repo.Create(old); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(recent); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deliveries, err := repo.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(deliveries) != 2 {
		t.Fatalf("Expected 2 deliveries, got %d", len(deliveries))
	}
	if deliveries[0].CommentID != "c2" {
		t.Errorf("Expected newest first, got %+v", deliveries[0])
	}
	if deliveries[0].Error != "connection refused" {
		t.Errorf("Expected error text, got %q", deliveries[0].Error)
	}

	pruned, err := repo.PruneBefore(150)
	if err != nil {
		t.Fatalf("PruneBefore failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("Expected 1 pruned row, got %d", pruned)
	}

	counts, err := repo.CountByStatus()
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	if counts[models.DeliveryStatusFailed] != 1 || counts[models.DeliveryStatusDelivered] != 0 {
		t.Errorf("Unexpected counts: %+v", counts)
	}
}
