package notify

import (
	"context"
	"errors"
	"testing"

	"parley/internal/engine/events"
	"parley/internal/platform/models"
)

type fakeResolver struct {
	comments map[string]*models.Comment
	stories  map[string]*models.Story
	authors  map[string]*models.Author
	err      error
}

func (r *fakeResolver) Comment(ctx context.Context, id string) (*models.Comment, error) {
	return r.comments[id], r.err
}

func (r *fakeResolver) Story(ctx context.Context, id string) (*models.Story, error) {
	return r.stories[id], r.err
}

func (r *fakeResolver) Author(ctx context.Context, id string) (*models.Author, error) {
	return r.authors[id], r.err
}

type sentMessage struct {
	hookURL string
	msg     Message
}

type fakeTransport struct {
	sent    []sentMessage
	failFor map[string]error // hookURL -> error
}

func (t *fakeTransport) Send(ctx context.Context, hookURL string, msg Message) error {
	t.sent = append(t.sent, sentMessage{hookURL: hookURL, msg: msg})
	if t.failFor != nil {
		return t.failFor[hookURL]
	}
	return nil
}

func testResolver() *fakeResolver {
	return &fakeResolver{
		comments: map[string]*models.Comment{
			"c1": {
				ID:       "c1",
				StoryID:  "s1",
				AuthorID: "a1",
				Revisions: []models.Revision{
					{ID: "r1", Body: "hello<br>world"},
				},
			},
		},
		stories: map[string]*models.Story{
			"s1": {ID: "s1", URL: "https://news.example.com/story", Metadata: &models.StoryMetadata{Title: "Big Story"}},
		},
		authors: map[string]*models.Author{
			"a1": {ID: "a1", Username: "jane"},
		},
	}
}

func testTenant(channels ...models.SlackChannel) *models.Tenant {
	return &models.Tenant{
		ID:    "tnt_1",
		Slug:  "example",
		Slack: &models.SlackConfig{Channels: channels},
	}
}

func enabledChannel(name, url string, triggers models.Triggers) models.SlackChannel {
	return models.SlackChannel{Name: name, Enabled: true, HookURL: url, Triggers: &triggers}
}

func TestDispatch_NoConfigIsNoop(t *testing.T) {
	transport := &fakeTransport{}

	for _, tenant := range []*models.Tenant{
		{ID: "tnt_1"},
		{ID: "tnt_1", Slack: &models.SlackConfig{}},
	} {
		dispatch := NewDispatcher(tenant, testResolver(), transport, nil)
		dispatch(context.Background(), events.ChannelCommentFeatured, events.CommentFeatured{ID: "c1"})
	}

	if len(transport.sent) != 0 {
		t.Errorf("Expected zero deliveries, got %d", len(transport.sent))
	}
}

func TestDispatch_ReportedFiresOnce(t *testing.T) {
	transport := &fakeTransport{}
	tenant := testTenant(
		enabledChannel("mods", "https://hooks.example.com/mods", models.Triggers{ReportedComments: true}),
	)

	dispatch := NewDispatcher(tenant, testResolver(), transport, nil)
	dispatch(context.Background(), events.ChannelCommentEnteredModerationQueue,
		events.CommentEnteredModerationQueue{ID: "c1", Queue: events.QueueReported})

	if len(transport.sent) != 1 {
		t.Fatalf("Expected exactly one delivery, got %d", len(transport.sent))
	}
	if transport.sent[0].hookURL != "https://hooks.example.com/mods" {
		t.Errorf("Delivered to wrong URL: %s", transport.sent[0].hookURL)
	}
	if transport.sent[0].msg.Title != "jane commented on: Big Story" {
		t.Errorf("Unexpected message title: %q", transport.sent[0].msg.Title)
	}
	if transport.sent[0].msg.Body != "hello\nworld" {
		t.Errorf("Unexpected message body: %q", transport.sent[0].msg.Body)
	}
}

func TestDispatch_PendingOptInIgnoresReported(t *testing.T) {
	transport := &fakeTransport{}
	tenant := testTenant(
		enabledChannel("pending", "https://hooks.example.com/p", models.Triggers{PendingComments: true}),
	)

	dispatch := NewDispatcher(tenant, testResolver(), transport, nil)
	dispatch(context.Background(), events.ChannelCommentEnteredModerationQueue,
		events.CommentEnteredModerationQueue{ID: "c1", Queue: events.QueueReported})

	if len(transport.sent) != 0 {
		t.Errorf("Expected no delivery, got %d", len(transport.sent))
	}
}

func TestDispatch_AllCommentsFiresOnFeatured(t *testing.T) {
	transport := &fakeTransport{}
	tenant := testTenant(
		enabledChannel("everything", "https://hooks.example.com/all", models.Triggers{AllComments: true}),
		enabledChannel("pending", "https://hooks.example.com/p", models.Triggers{PendingComments: true}),
	)

	dispatch := NewDispatcher(tenant, testResolver(), transport, nil)
	dispatch(context.Background(), events.ChannelCommentFeatured, events.CommentFeatured{ID: "c1"})

	if len(transport.sent) != 1 {
		t.Fatalf("Expected one delivery, got %d", len(transport.sent))
	}
	if transport.sent[0].hookURL != "https://hooks.example.com/all" {
		t.Errorf("Delivered to wrong URL: %s", transport.sent[0].hookURL)
	}
}

func TestDispatch_UnclassifiedChannelNeverFires(t *testing.T) {
	transport := &fakeTransport{}
	tenant := testTenant(
		enabledChannel("everything", "https://hooks.example.com/all", models.Triggers{
			AllComments: true, ReportedComments: true, PendingComments: true, FeaturedComments: true,
		}),
	)

	dispatch := NewDispatcher(tenant, testResolver(), transport, nil)
	dispatch(context.Background(), events.ChannelCommentCreated, events.CommentCreated{ID: "c1"})

	if len(transport.sent) != 0 {
		t.Errorf("Expected no delivery for unclassified channel, got %d", len(transport.sent))
	}
}

// A disabled or incomplete channel halts the remaining list. This pins down
// legacy behavior that later channels silently depend on; see DESIGN.md.
func TestDispatch_DisabledChannelStopsList(t *testing.T) {
	transport := &fakeTransport{}
	tenant := testTenant(
		models.SlackChannel{Name: "off", Enabled: false, HookURL: "https://hooks.example.com/off", Triggers: &models.Triggers{AllComments: true}},
		enabledChannel("on", "https://hooks.example.com/on", models.Triggers{AllComments: true}),
	)

	dispatch := NewDispatcher(tenant, testResolver(), transport, nil)
	dispatch(context.Background(), events.ChannelCommentFeatured, events.CommentFeatured{ID: "c1"})

	if len(transport.sent) != 0 {
		t.Errorf("Expected the disabled channel to stop the list, got %d deliveries", len(transport.sent))
	}
}

func TestDispatch_MissingTriggersStopsList(t *testing.T) {
	transport := &fakeTransport{}
	tenant := testTenant(
		models.SlackChannel{Name: "broken", Enabled: true, HookURL: "https://hooks.example.com/broken"},
		enabledChannel("on", "https://hooks.example.com/on", models.Triggers{AllComments: true}),
	)

	dispatch := NewDispatcher(tenant, testResolver(), transport, nil)
	dispatch(context.Background(), events.ChannelCommentFeatured, events.CommentFeatured{ID: "c1"})

	if len(transport.sent) != 0 {
		t.Errorf("Expected the misconfigured channel to stop the list, got %d deliveries", len(transport.sent))
	}
}

func TestDispatch_MissingAuthorAbandonsSilently(t *testing.T) {
	resolver := testResolver()
	delete(resolver.authors, "a1")

	transport := &fakeTransport{}
	tenant := testTenant(
		enabledChannel("mods", "https://hooks.example.com/mods", models.Triggers{AllComments: true}),
	)

	dispatch := NewDispatcher(tenant, resolver, transport, nil)
	dispatch(context.Background(), events.ChannelCommentFeatured, events.CommentFeatured{ID: "c1"})

	if len(transport.sent) != 0 {
		t.Errorf("Expected no delivery when the author is gone, got %d", len(transport.sent))
	}
}

func TestDispatch_MissingCommentAbandonsSilently(t *testing.T) {
	transport := &fakeTransport{}
	tenant := testTenant(
		enabledChannel("mods", "https://hooks.example.com/mods", models.Triggers{AllComments: true}),
	)

	dispatch := NewDispatcher(tenant, testResolver(), transport, nil)
	dispatch(context.Background(), events.ChannelCommentFeatured, events.CommentFeatured{ID: "gone"})

	if len(transport.sent) != 0 {
		t.Errorf("Expected no delivery for a deleted comment, got %d", len(transport.sent))
	}
}

func TestDispatch_TransportFailureDoesNotBlockLaterChannels(t *testing.T) {
	transport := &fakeTransport{
		failFor: map[string]error{
			"https://hooks.example.com/first": errors.New("connection refused"),
		},
	}
	tenant := testTenant(
		enabledChannel("first", "https://hooks.example.com/first", models.Triggers{AllComments: true}),
		enabledChannel("second", "https://hooks.example.com/second", models.Triggers{FeaturedComments: true}),
	)

	dispatch := NewDispatcher(tenant, testResolver(), transport, nil)
	dispatch(context.Background(), events.ChannelCommentFeatured, events.CommentFeatured{ID: "c1"})

	if len(transport.sent) != 2 {
		t.Fatalf("Expected both channels attempted, got %d", len(transport.sent))
	}
	if transport.sent[1].hookURL != "https://hooks.example.com/second" {
		t.Errorf("Second channel not attempted: %+v", transport.sent)
	}
}

type panickingResolver struct{}

func (panickingResolver) Comment(ctx context.Context, id string) (*models.Comment, error) {
	panic("store connection lost")
}

func (panickingResolver) Story(ctx context.Context, id string) (*models.Story, error) {
	panic("store connection lost")
}

func (panickingResolver) Author(ctx context.Context, id string) (*models.Author, error) {
	panic("store connection lost")
}

type panickingTransport struct{}

func (panickingTransport) Send(ctx context.Context, hookURL string, msg Message) error {
	panic("hook client broke")
}

func TestDispatch_ResolverPanicDoesNotPropagate(t *testing.T) {
	transport := &fakeTransport{}
	tenant := testTenant(
		enabledChannel("mods", "https://hooks.example.com/mods", models.Triggers{AllComments: true}),
	)

	dispatch := NewDispatcher(tenant, panickingResolver{}, transport, nil)
	dispatch(context.Background(), events.ChannelCommentFeatured, events.CommentFeatured{ID: "c1"})

	if len(transport.sent) != 0 {
		t.Errorf("Expected no delivery after resolver panic, got %d", len(transport.sent))
	}
}

func TestDispatch_TransportPanicDoesNotPropagate(t *testing.T) {
	tenant := testTenant(
		enabledChannel("mods", "https://hooks.example.com/mods", models.Triggers{AllComments: true}),
	)

	dispatch := NewDispatcher(tenant, testResolver(), panickingTransport{}, nil)
	dispatch(context.Background(), events.ChannelCommentFeatured, events.CommentFeatured{ID: "c1"})
}

func TestDispatch_ResolverErrorDoesNotPropagate(t *testing.T) {
	resolver := testResolver()
	resolver.err = errors.New("store unavailable")

	transport := &fakeTransport{}
	tenant := testTenant(
		enabledChannel("mods", "https://hooks.example.com/mods", models.Triggers{AllComments: true}),
	)

	// Must not panic or surface the error; it is logged at the boundary.
	dispatch := NewDispatcher(tenant, resolver, transport, nil)
	dispatch(context.Background(), events.ChannelCommentFeatured, events.CommentFeatured{ID: "c1"})

	if len(transport.sent) != 0 {
		t.Errorf("Expected no delivery on resolver error, got %d", len(transport.sent))
	}
}
