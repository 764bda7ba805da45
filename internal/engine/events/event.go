package events

import (
	"encoding/json"
	"fmt"
)

// Channel identifies the category of moderation event pushed by the
// platform's subscription layer.
type Channel string

const (
	ChannelCommentCreated                Channel = "COMMENT_CREATED"
	ChannelCommentEnteredModerationQueue Channel = "COMMENT_ENTERED_MODERATION_QUEUE"
	ChannelCommentLeftModerationQueue    Channel = "COMMENT_LEFT_MODERATION_QUEUE"
	ChannelCommentFeatured               Channel = "COMMENT_FEATURED"
	ChannelCommentReleased               Channel = "COMMENT_RELEASED"
	ChannelCommentReplyCreated           Channel = "COMMENT_REPLY_CREATED"
	ChannelCommentStatusUpdated          Channel = "COMMENT_STATUS_UPDATED"
)

// Queue is the moderation queue a comment entered.
type Queue string

const (
	QueueReported Queue = "REPORTED"
	QueuePending  Queue = "PENDING"
)

// Payload is the tagged union of per-channel event payloads. Every variant
// carries the subject comment's id.
type Payload interface {
	CommentID() string
}

type CommentCreated struct {
	ID string `json:"commentID"`
}

func (p CommentCreated) CommentID() string { return p.ID }

type CommentEnteredModerationQueue struct {
	ID    string `json:"commentID"`
	Queue Queue  `json:"queue"`
}

func (p CommentEnteredModerationQueue) CommentID() string { return p.ID }

type CommentLeftModerationQueue struct {
	ID    string `json:"commentID"`
	Queue Queue  `json:"queue"`
}

func (p CommentLeftModerationQueue) CommentID() string { return p.ID }

type CommentFeatured struct {
	ID string `json:"commentID"`
}

func (p CommentFeatured) CommentID() string { return p.ID }

type CommentReleased struct {
	ID string `json:"commentID"`
}

func (p CommentReleased) CommentID() string { return p.ID }

type CommentReplyCreated struct {
	ID       string `json:"commentID"`
	ParentID string `json:"parentID,omitempty"`
}

func (p CommentReplyCreated) CommentID() string { return p.ID }

type CommentStatusUpdated struct {
	ID     string `json:"commentID"`
	Status string `json:"status,omitempty"`
}

func (p CommentStatusUpdated) CommentID() string { return p.ID }

// ParsePayload decodes a raw ingest body into the channel's payload variant.
func ParsePayload(channel Channel, raw json.RawMessage) (Payload, error) {
	var (
		p   Payload
		err error
	)

	switch channel {
	case ChannelCommentCreated:
		var v CommentCreated
		err = json.Unmarshal(raw, &v)
		p = v
	case ChannelCommentEnteredModerationQueue:
		var v CommentEnteredModerationQueue
		err = json.Unmarshal(raw, &v)
		p = v
	case ChannelCommentLeftModerationQueue:
		var v CommentLeftModerationQueue
		err = json.Unmarshal(raw, &v)
		p = v
	case ChannelCommentFeatured:
		var v CommentFeatured
		err = json.Unmarshal(raw, &v)
		p = v
	case ChannelCommentReleased:
		var v CommentReleased
		err = json.Unmarshal(raw, &v)
		p = v
	case ChannelCommentReplyCreated:
		var v CommentReplyCreated
		err = json.Unmarshal(raw, &v)
		p = v
	case ChannelCommentStatusUpdated:
		var v CommentStatusUpdated
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		return nil, fmt.Errorf("unknown channel %q", channel)
	}

	if err != nil {
		return nil, err
	}
	if p.CommentID() == "" {
		return nil, fmt.Errorf("payload for channel %q missing commentID", channel)
	}
	return p, nil
}
