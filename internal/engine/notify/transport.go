package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Transport sends one composed message to one webhook URL.
type Transport interface {
	Send(ctx context.Context, hookURL string, msg Message) error
}

// StatusPolicy decides whether a completed HTTP exchange counts as a
// delivery failure. It is the single place where response-status handling
// can be tightened.
type StatusPolicy func(resp *http.Response) error

// IgnoreStatus accepts any response. This matches the legacy behavior: a
// request that made it onto the wire is treated as delivered even when the
// hook answered with an error status.
func IgnoreStatus(*http.Response) error { return nil }

// StrictStatus treats any non-2xx response as a delivery failure.
func StrictStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

type slackField struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type    string       `json:"type"`
	BlockID string       `json:"block_id"`
	Fields  []slackField `json:"fields"`
}

type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

// SlackTransport posts messages in Slack's incoming-webhook format. It makes
// exactly one attempt per send; retry is a caller decision.
type SlackTransport struct {
	client *http.Client
	policy StatusPolicy
}

func NewSlackTransport(timeout time.Duration, policy StatusPolicy) *SlackTransport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if policy == nil {
		policy = IgnoreStatus
	}
	return &SlackTransport{
		client: &http.Client{Timeout: timeout},
		policy: policy,
	}
}

func (t *SlackTransport) Send(ctx context.Context, hookURL string, msg Message) error {
	doc := slackMessage{
		Text: msg.Title,
		Blocks: []slackBlock{
			{
				Type:    "section",
				BlockID: "section000",
				Fields: []slackField{
					{
						Type: "mrkdwn",
						Text: fmt.Sprintf("%s commented on: <%s|%s> \n %s", msg.AuthorName, msg.StoryURL, msg.StoryTitle, msg.Body),
					},
				},
			},
		},
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return t.policy(resp)
}
