package notify

import (
	"context"
	"database/sql"
	"time"

	"parley/internal/platform/models"
	"parley/internal/platform/repositories"
)

// EntityResolver is the dispatcher's full view of the entity store: three
// point lookups that return (nil, nil) when the entity does not exist.
// Absence is a benign race (the comment may have been deleted between event
// emission and delivery), not a failure.
type EntityResolver interface {
	Comment(ctx context.Context, id string) (*models.Comment, error)
	Story(ctx context.Context, id string) (*models.Story, error)
	Author(ctx context.Context, id string) (*models.Author, error)
}

// StoreResolver resolves entities from a tenant store through a TTL cache,
// so several matched channels for the same event share one store round trip.
type StoreResolver struct {
	comments *repositories.CommentRepository
	stories  *repositories.StoryRepository
	authors  *repositories.AuthorRepository
	cache    *entityCache
}

func NewStoreResolver(db *sql.DB, ttl time.Duration, maxEntries int) *StoreResolver {
	return &StoreResolver{
		comments: repositories.NewCommentRepository(db),
		stories:  repositories.NewStoryRepository(db),
		authors:  repositories.NewAuthorRepository(db),
		cache:    newEntityCache(ttl, maxEntries),
	}
}

func (r *StoreResolver) Comment(ctx context.Context, id string) (*models.Comment, error) {
	if v, ok := r.cache.get("comment:" + id); ok {
		return v.(*models.Comment), nil
	}
	comment, err := r.comments.GetByID(id)
	if err != nil || comment == nil {
		return nil, err
	}
	r.cache.set("comment:"+id, comment)
	return comment, nil
}

func (r *StoreResolver) Story(ctx context.Context, id string) (*models.Story, error) {
	if v, ok := r.cache.get("story:" + id); ok {
		return v.(*models.Story), nil
	}
	story, err := r.stories.GetByID(id)
	if err != nil || story == nil {
		return nil, err
	}
	r.cache.set("story:"+id, story)
	return story, nil
}

func (r *StoreResolver) Author(ctx context.Context, id string) (*models.Author, error) {
	if v, ok := r.cache.get("author:" + id); ok {
		return v.(*models.Author), nil
	}
	author, err := r.authors.GetByID(id)
	if err != nil || author == nil {
		return nil, err
	}
	r.cache.set("author:"+id, author)
	return author, nil
}
