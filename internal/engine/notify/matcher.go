package notify

import (
	"parley/internal/engine/events"
	"parley/internal/platform/models"
)

// Match decides whether a classified event should fire for one channel's
// trigger configuration. AllComments is an umbrella match for any classified
// category and wins first; the remaining triggers are single-category
// opt-ins checked in a fixed order. At most one rule fires, so a channel is
// delivered to at most once per event.
func Match(t models.Triggers, f events.Flags) bool {
	switch {
	case t.AllComments && (f.Reported || f.Pending || f.Featured || f.EnteredModeration):
		return true
	case t.ReportedComments && f.Reported:
		return true
	case t.PendingComments && f.Pending:
		return true
	case t.FeaturedComments && f.Featured:
		return true
	}
	return false
}
