package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"parley/internal/engine/events"
	"parley/internal/pkg/metrics"
	"parley/internal/platform/models"
	"parley/internal/platform/repositories"
)

// DispatchFunc is the per-tenant entry point. It never returns an error and
// never panics: every failure inside the pipeline becomes a log entry, so
// the event producer is isolated from notification trouble.
type DispatchFunc func(ctx context.Context, channel events.Channel, payload events.Payload)

// NewDispatcher builds the dispatch function for one tenant snapshot. A
// tenant without Slack configuration, or with an empty channel list, gets a
// no-op that performs zero network calls.
//
// deliveries may be nil to skip the audit trail (tests, dry runs).
func NewDispatcher(tenant *models.Tenant, resolver EntityResolver, transport Transport, deliveries *repositories.DeliveryRepository) DispatchFunc {
	if tenant.Slack == nil || len(tenant.Slack.Channels) == 0 {
		return func(context.Context, events.Channel, events.Payload) {}
	}

	d := &dispatcher{
		tenant:     tenant,
		channels:   tenant.Slack.Channels,
		resolver:   resolver,
		transport:  transport,
		deliveries: deliveries,
	}
	return d.dispatch
}

type dispatcher struct {
	tenant     *models.Tenant
	channels   []models.SlackChannel
	resolver   EntityResolver
	transport  Transport
	deliveries *repositories.DeliveryRepository
}

func (d *dispatcher) dispatch(ctx context.Context, channel events.Channel, payload events.Payload) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("tenant_id", d.tenant.ID).
				Str("channel", string(channel)).
				Interface("payload", payload).
				Msg("comment notification pipeline panicked")
		}
	}()

	if err := d.run(ctx, channel, payload); err != nil {
		log.Error().Err(err).
			Str("tenant_id", d.tenant.ID).
			Str("channel", string(channel)).
			Interface("payload", payload).
			Msg("could not handle comment notification")
	}
}

func (d *dispatcher) run(ctx context.Context, channel events.Channel, payload events.Payload) error {
	if payload == nil {
		return nil
	}

	// Classified once per event; trigger matching below reuses the flags for
	// every configured channel.
	flags := events.Classify(channel, payload)
	commentID := payload.CommentID()

	for _, ch := range d.channels {
		if !ch.Enabled || ch.HookURL == "" || ch.Triggers == nil {
			// A disabled or incomplete channel stops the whole remaining
			// list, not just this entry. Deliberate reproduction of the
			// legacy publisher; see DESIGN.md before changing this to a
			// per-channel skip.
			return nil
		}

		if !Match(*ch.Triggers, flags) {
			continue
		}

		if err := d.deliver(ctx, ch, channel, commentID); err != nil {
			return err
		}
	}

	return nil
}

// deliver resolves the entities for one matched channel and sends the
// message. A missing comment, story or author abandons the delivery
// silently. Transport failures are logged and recorded but do not stop later
// channels; only store errors propagate.
func (d *dispatcher) deliver(ctx context.Context, ch models.SlackChannel, channel events.Channel, commentID string) error {
	comment, err := d.resolver.Comment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return nil
	}

	story, err := d.resolver.Story(ctx, comment.StoryID)
	if err != nil {
		return err
	}
	if story == nil {
		return nil
	}

	author, err := d.resolver.Author(ctx, comment.AuthorID)
	if err != nil {
		return err
	}
	if author == nil {
		return nil
	}

	msg := Format(comment, story, author)

	start := time.Now()
	sendErr := d.transport.Send(ctx, ch.HookURL, msg)
	latency := float64(time.Since(start).Milliseconds())

	status := models.DeliveryStatusDelivered
	if sendErr != nil {
		status = models.DeliveryStatusFailed
		log.Error().Err(sendErr).
			Str("tenant_id", d.tenant.ID).
			Str("channel", string(channel)).
			Str("slack_channel", ch.Name).
			Str("comment_id", commentID).
			Msg("slack delivery failed")
	}

	metrics.Deliveries.WithLabelValues(string(channel), status).Inc()
	metrics.DeliveryLatency.WithLabelValues(string(channel), status).Observe(latency)

	if d.deliveries != nil {
		record := &models.Delivery{
			TenantID:    d.tenant.ID,
			Channel:     string(channel),
			ChannelName: ch.Name,
			HookURL:     ch.HookURL,
			CommentID:   commentID,
			Status:      status,
		}
		if sendErr != nil {
			record.Error = sendErr.Error()
		}
		if err := d.deliveries.Create(record); err != nil {
			log.Error().Err(err).
				Str("tenant_id", d.tenant.ID).
				Msg("failed to record delivery")
		}
	}

	return nil
}
