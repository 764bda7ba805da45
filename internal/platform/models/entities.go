package models

// Read-only projections of the moderation platform's entities, synced into
// the tenant store so notifications can be composed without calling back
// into the main platform.

type Comment struct {
	ID        string     `json:"id"`
	StoryID   string     `json:"story_id"`
	AuthorID  string     `json:"author_id"`
	Status    string     `json:"status"`
	Revisions []Revision `json:"revisions"`
	CreatedAt int64      `json:"created_at"`
}

// LatestRevision returns the newest revision body, or "" for a comment with
// no edit history.
func (c *Comment) LatestRevision() string {
	if len(c.Revisions) == 0 {
		return ""
	}
	return c.Revisions[len(c.Revisions)-1].Body
}

type Revision struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"created_at"`
}

type Story struct {
	ID       string         `json:"id"`
	URL      string         `json:"url"`
	Metadata *StoryMetadata `json:"metadata,omitempty"` // JSON column in DB
}

type StoryMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Title returns the scraped title, or "" when metadata is absent.
func (s *Story) Title() string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata.Title
}

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
