package notify

import (
	"fmt"
	"strings"

	"parley/internal/platform/models"
)

// Message is a composed notification ready for delivery.
type Message struct {
	Title      string
	Body       string
	AuthorName string
	StoryURL   string
	StoryTitle string
}

// Format composes the outbound message from resolved entities. The body is
// the comment's latest revision with literal <br> markup turned into real
// newlines; a story without scraped metadata yields an empty title.
func Format(comment *models.Comment, story *models.Story, author *models.Author) Message {
	storyTitle := story.Title()
	body := strings.ReplaceAll(comment.LatestRevision(), "<br>", "\n")

	return Message{
		Title:      fmt.Sprintf("%s commented on: %s", author.Username, storyTitle),
		Body:       body,
		AuthorName: author.Username,
		StoryURL:   story.URL,
		StoryTitle: storyTitle,
	}
}
