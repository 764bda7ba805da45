package events

// Flags are the derived notification categories for one event. The flags are
// independent: an event entering the reported queue sets both
// EnteredModeration and Reported.
type Flags struct {
	EnteredModeration bool
	Reported          bool
	Pending           bool
	Featured          bool
}

// Any reports whether the event was classified into at least one category.
func (f Flags) Any() bool {
	return f.EnteredModeration || f.Reported || f.Pending || f.Featured
}

// Classify maps a (channel, payload) pair to its category flags. It is a
// pure function of its inputs.
//
// Only two channels classify: COMMENT_ENTERED_MODERATION_QUEUE (for the
// REPORTED and PENDING queues) and COMMENT_FEATURED. Created, released,
// reply and status-update events intentionally classify to nothing and so
// never trigger a notification under the current rule set.
func Classify(channel Channel, payload Payload) Flags {
	var f Flags

	switch channel {
	case ChannelCommentEnteredModerationQueue:
		p, ok := payload.(CommentEnteredModerationQueue)
		if !ok {
			return f
		}
		switch p.Queue {
		case QueueReported:
			f.EnteredModeration = true
			f.Reported = true
		case QueuePending:
			f.EnteredModeration = true
			f.Pending = true
		}
	case ChannelCommentFeatured:
		f.Featured = true
	}

	return f
}
