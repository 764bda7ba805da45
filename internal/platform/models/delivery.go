package models

const (
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusFailed    = "failed"
)

// Delivery is one attempted Slack notification, recorded in the tenant store
// for operator visibility. A "delivered" row only means the request was
// written to the wire; the hook's response status is not consulted.
type Delivery struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	Channel     string `json:"channel"` // event channel, not Slack channel
	ChannelName string `json:"channel_name"`
	HookURL     string `json:"hook_url"`
	CommentID   string `json:"comment_id"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}
