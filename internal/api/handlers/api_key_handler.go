package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "parley/internal/api/context"
	"parley/internal/pkg/errors"
	"parley/internal/platform/auth"
	"parley/internal/platform/database"
	"parley/internal/platform/models"
	"parley/internal/platform/repositories"
)

type APIKeyHandler struct {
	keyRepo *repositories.APIKeyRepository
}

func NewAPIKeyHandler(keyRepo *repositories.APIKeyRepository) *APIKeyHandler {
	return &APIKeyHandler{keyRepo: keyRepo}
}

func (h *APIKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	storeCtx := r.Context().Value(apiContext.Tenant).(*database.StoreContext)

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "API key requires a name", nil)
		return
	}

	plaintext, hash, prefix, err := auth.GenerateAPIKey()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate key", nil)
		return
	}

	key := &models.APIKey{
		TenantID:  storeCtx.Tenant.ID,
		Name:      req.Name,
		KeyHash:   hash,
		KeyPrefix: prefix,
	}
	if err := h.keyRepo.Create(key); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to save key", nil)
		return
	}

	// The plaintext key is returned exactly once.
	resp := struct {
		*models.APIKey
		Key string `json:"key"`
	}{APIKey: key, Key: plaintext}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *APIKeyHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	id := params.ByName("key_id")

	if err := h.keyRepo.Revoke(id); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to revoke key", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
