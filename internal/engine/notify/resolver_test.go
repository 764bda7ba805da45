package notify

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupStoreDB(t *testing.T) *sql.DB {
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
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func TestStoreResolver_NotFound(t *testing.T) {
	db := setupStoreDB(t)
	resolver := NewStoreResolver(db, time.Minute, 0)

	comment, err := resolver.Comment(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if comment != nil {
		t.Errorf("Expected nil for missing comment, got %+v", comment)
	}
}

func TestStoreResolver_CachesFoundEntities(t *testing.T) {
	db := setupStoreDB(t)
	if _, err := db.Exec(`INSERT INTO authors (id, username) VALUES ('a1', 'jane')`); err != nil {
		t.Fatalf("Failed to seed author: %v", err)
	}

	resolver := NewStoreResolver(db, time.Minute, 0)

	author, err := resolver.Author(context.Background(), "a1")
	if err != nil || author == nil {
		t.Fatalf("First lookup failed: %v %v", author, err)
	}

	// Remove the row; within the TTL the cached copy still resolves.
	if _, err := db.Exec(`DELETE FROM authors WHERE id = 'a1'`); err != nil {
		t.Fatalf("Failed to delete author: %v", err)
	}

	cached, err := resolver.Author(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Cached lookup failed: %v", err)
	}
	if cached == nil || cached.Username != "jane" {
		t.Errorf("Expected cached author, got %+v", cached)
	}
}

func TestStoreResolver_DoesNotCacheMisses(t *testing.T) {
	db := setupStoreDB(t)
	resolver := NewStoreResolver(db, time.Minute, 0)

	if a, _ := resolver.Author(context.Background(), "a1"); a != nil {
		t.Fatalf("Expected miss, got %+v", a)
	}

	if _, err := db.Exec(`INSERT INTO authors (id, username) VALUES ('a1', 'jane')`); err != nil {
		t.Fatalf("Failed to seed author: %v", err)
	}

	author, err := resolver.Author(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if author == nil {
		t.Error("Expected the author to be found after insert")
	}
}

func TestStoreResolver_CommentWithRevisions(t *testing.T) {
	db := setupStoreDB(t)
	seed := `
	INSERT INTO comments (id, story_id, author_id, status, created_at) VALUES ('c1', 's1', 'a1', 'APPROVED', 100);
	INSERT INTO comment_revisions (id, comment_id, body, created_at) VALUES ('r1', 'c1', 'first', 100);
	INSERT INTO comment_revisions (id, comment_id, body, created_at) VALUES ('r2', 'c1', 'second', 200);
	`
	if _, err := db.Exec(seed); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	resolver := NewStoreResolver(db, time.Minute, 0)
	comment, err := resolver.Comment(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if comment == nil {
		t.Fatal("Expected comment")
	}
	if got := comment.LatestRevision(); got != "second" {
		t.Errorf("Expected latest revision 'second', got %q", got)
	}
}
