package handlers

import (
	"encoding/json"
	"net/http"

	apiContext "parley/internal/api/context"
	"parley/internal/engine/notify"
	"parley/internal/pkg/errors"
	"parley/internal/platform/audit"
	"parley/internal/platform/database"
	"parley/internal/platform/models"
	"parley/internal/platform/repositories"
)

// SlackHandler manages a tenant's notification channel configuration.
type SlackHandler struct {
	tenantRepo *repositories.TenantRepository
	transport  notify.Transport
	audit      *audit.Logger
}

func NewSlackHandler(tenantRepo *repositories.TenantRepository, transport notify.Transport, auditLogger *audit.Logger) *SlackHandler {
	return &SlackHandler{tenantRepo: tenantRepo, transport: transport, audit: auditLogger}
}

func (h *SlackHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	storeCtx := r.Context().Value(apiContext.Tenant).(*database.StoreContext)

	cfg := storeCtx.Tenant.Slack
	if cfg == nil {
		cfg = &models.SlackConfig{Channels: []models.SlackChannel{}}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

func (h *SlackHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	storeCtx := r.Context().Value(apiContext.Tenant).(*database.StoreContext)

	var cfg models.SlackConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	for i, ch := range cfg.Channels {
		if ch.Enabled && ch.HookURL == "" {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Enabled channel missing hookURL", map[string]interface{}{"index": i})
			return
		}
	}

	if err := h.tenantRepo.UpdateSlackConfig(storeCtx.Tenant.ID, &cfg); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to save configuration", nil)
		return
	}

	h.audit.Log(r.Context(), "slack_config.update", "tenant", storeCtx.Tenant.ID, map[string]interface{}{
		"channels": len(cfg.Channels),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&cfg)
}

// TestChannel sends a plain test message through the real transport so an
// administrator can verify a hook URL before enabling it.
func (h *SlackHandler) TestChannel(w http.ResponseWriter, r *http.Request) {
	storeCtx := r.Context().Value(apiContext.Tenant).(*database.StoreContext)

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if storeCtx.Tenant.Slack == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "No Slack configuration", nil)
		return
	}

	var target *models.SlackChannel
	for i := range storeCtx.Tenant.Slack.Channels {
		if storeCtx.Tenant.Slack.Channels[i].Name == req.Name {
			target = &storeCtx.Tenant.Slack.Channels[i]
			break
		}
	}
	if target == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Channel not found", nil)
		return
	}
	if target.HookURL == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Channel has no hookURL", nil)
		return
	}

	msg := notify.Message{
		Title:      "parley test message",
		Body:       "If you can read this, the channel is wired up.",
		AuthorName: "parley",
		StoryTitle: "configuration test",
	}
	if err := h.transport.Send(r.Context(), target.HookURL, msg); err != nil {
		errors.WriteError(w, http.StatusBadGateway, errors.ErrCodeInternal, "Test delivery failed", map[string]interface{}{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
