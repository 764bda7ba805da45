package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"parley/internal/platform/models"
)

// Entity repositories work against a tenant's entity store. Lookups return
// (nil, nil) when the row is absent so callers can treat missing entities as
// a benign race rather than an error.

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Upsert(comment *models.Comment) error {
	if comment.CreatedAt == 0 {
		comment.CreatedAt = time.Now().Unix()
	}

	_, err := r.db.Exec(`
		INSERT INTO comments (id, story_id, author_id, status, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET story_id = excluded.story_id, author_id = excluded.author_id, status = excluded.status
	`, comment.ID, comment.StoryID, comment.AuthorID, comment.Status, comment.CreatedAt)
	if err != nil {
		return err
	}

	for _, rev := range comment.Revisions {
		if rev.ID == "" {
			rev.ID = "rev_" + uuid.New().String()
		}
		if rev.CreatedAt == 0 {
			rev.CreatedAt = time.Now().Unix()
		}
		_, err := r.db.Exec(`
			INSERT INTO comment_revisions (id, comment_id, body, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET body = excluded.body
		`, rev.ID, comment.ID, rev.Body, rev.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *CommentRepository) GetByID(id string) (*models.Comment, error) {
	c := &models.Comment{}
	err := r.db.QueryRow(`
		SELECT id, story_id, author_id, status, created_at FROM comments WHERE id = ?
	`, id).Scan(&c.ID, &c.StoryID, &c.AuthorID, &c.Status, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT id, body, created_at FROM comment_revisions WHERE comment_id = ? ORDER BY created_at, id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rev models.Revision
		if err := rows.Scan(&rev.ID, &rev.Body, &rev.CreatedAt); err != nil {
			return nil, err
		}
		c.Revisions = append(c.Revisions, rev)
	}
	return c, rows.Err()
}

func (r *CommentRepository) Delete(id string) error {
	if _, err := r.db.Exec(`DELETE FROM comment_revisions WHERE comment_id = ?`, id); err != nil {
		return err
	}
	_, err := r.db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	return err
}

type StoryRepository struct {
	db *sql.DB
}

func NewStoryRepository(db *sql.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

func (r *StoryRepository) Upsert(story *models.Story) error {
	var metaJSON interface{}
	if story.Metadata != nil {
		b, err := json.Marshal(story.Metadata)
		if err != nil {
			return err
		}
		metaJSON = string(b)
	}

	_, err := r.db.Exec(`
		INSERT INTO stories (id, url, metadata)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET url = excluded.url, metadata = excluded.metadata
	`, story.ID, story.URL, metaJSON)
	return err
}

func (r *StoryRepository) GetByID(id string) (*models.Story, error) {
	s := &models.Story{}
	var metaStr sql.NullString

	err := r.db.QueryRow(`SELECT id, url, metadata FROM stories WHERE id = ?`, id).
		Scan(&s.ID, &s.URL, &metaStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if metaStr.Valid && metaStr.String != "" {
		var meta models.StoryMetadata
		if err := json.Unmarshal([]byte(metaStr.String), &meta); err == nil {
			s.Metadata = &meta
		}
	}
	return s, nil
}

type AuthorRepository struct {
	db *sql.DB
}

func NewAuthorRepository(db *sql.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

func (r *AuthorRepository) Upsert(author *models.Author) error {
	_, err := r.db.Exec(`
		INSERT INTO authors (id, username, email)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET username = excluded.username, email = excluded.email
	`, author.ID, author.Username, author.Email)
	return err
}

func (r *AuthorRepository) GetByID(id string) (*models.Author, error) {
	a := &models.Author{}
	var email sql.NullString

	err := r.db.QueryRow(`SELECT id, username, email FROM authors WHERE id = ?`, id).
		Scan(&a.ID, &a.Username, &email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if email.Valid {
		a.Email = email.String
	}
	return a, nil
}
