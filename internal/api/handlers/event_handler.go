package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	apiContext "parley/internal/api/context"
	"parley/internal/engine/events"
	"parley/internal/engine/notify"
	"parley/internal/pkg/errors"
	"parley/internal/pkg/metrics"
	"parley/internal/platform/database"
	"parley/internal/platform/repositories"
)

// EventHandler ingests domain events from the moderation platform and hands
// them to the tenant's dispatcher. Ingest succeeds as long as the envelope
// parses; delivery failures surface in logs and the delivery audit trail,
// never in the response.
type EventHandler struct {
	transport       notify.Transport
	entityTTL       time.Duration
	cacheMaxEntries int

	mu        sync.Mutex
	resolvers map[string]notify.EntityResolver // keyed by tenant id
}

func NewEventHandler(transport notify.Transport, entityTTL time.Duration, cacheMaxEntries int) *EventHandler {
	return &EventHandler{
		transport:       transport,
		entityTTL:       entityTTL,
		cacheMaxEntries: cacheMaxEntries,
		resolvers:       make(map[string]notify.EntityResolver),
	}
}

// resolverFor reuses one cached resolver per tenant so matched channels and
// back-to-back events share entity lookups.
func (h *EventHandler) resolverFor(storeCtx *database.StoreContext) notify.EntityResolver {
	h.mu.Lock()
	defer h.mu.Unlock()

	if r, ok := h.resolvers[storeCtx.Tenant.ID]; ok {
		return r
	}
	r := notify.NewStoreResolver(storeCtx.DB, h.entityTTL, h.cacheMaxEntries)
	h.resolvers[storeCtx.Tenant.ID] = r
	return r
}

type eventEnvelope struct {
	Channel events.Channel  `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

func (h *EventHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	storeCtx := r.Context().Value(apiContext.Tenant).(*database.StoreContext)

	var env eventEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	payload, err := events.ParsePayload(env.Channel, env.Payload)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	metrics.EventsIngested.WithLabelValues(string(env.Channel)).Inc()

	deliveries := repositories.NewDeliveryRepository(storeCtx.DB)
	dispatch := notify.NewDispatcher(storeCtx.Tenant, h.resolverFor(storeCtx), h.transport, deliveries)
	dispatch(r.Context(), env.Channel, payload)

	w.WriteHeader(http.StatusAccepted)
}
