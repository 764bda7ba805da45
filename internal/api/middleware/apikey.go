package middleware

import (
	"context"
	"net/http"
	"time"

	apiContext "parley/internal/api/context"
	"parley/internal/pkg/errors"
	"parley/internal/platform/auth"
	"parley/internal/platform/database"
	"parley/internal/platform/repositories"
)

// APIKeyMiddleware authenticates machine callers (the event producer and
// entity sync) by tenant API key and attaches the tenant store context.
type APIKeyMiddleware struct {
	keyRepo    *repositories.APIKeyRepository
	tenantRepo *repositories.TenantRepository
	storePool  *database.StorePool
}

func NewAPIKeyMiddleware(keyRepo *repositories.APIKeyRepository, tenantRepo *repositories.TenantRepository, storePool *database.StorePool) *APIKeyMiddleware {
	return &APIKeyMiddleware{keyRepo: keyRepo, tenantRepo: tenantRepo, storePool: storePool}
}

func (m *APIKeyMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-API-Key")
		if raw == "" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing API key", nil)
			return
		}

		key, err := m.keyRepo.GetByHash(auth.HashAPIKey(raw))
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to look up API key", nil)
			return
		}
		if key == nil || key.RevokedAt != nil {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid API key", nil)
			return
		}
		if key.ExpiresAt != nil && *key.ExpiresAt < time.Now().Unix() {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Expired API key", nil)
			return
		}

		tenant, err := m.tenantRepo.GetByID(key.TenantID)
		if err != nil || tenant == nil {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Unknown tenant for API key", nil)
			return
		}

		db, err := m.storePool.Get(tenant.ID, tenant.StorePath)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to open tenant store", nil)
			return
		}

		m.keyRepo.TouchLastUsed(key.ID)

		ctx := context.WithValue(r.Context(), apiContext.APIKey, key)
		ctx = context.WithValue(ctx, apiContext.Tenant, &database.StoreContext{Tenant: tenant, DB: db})
		next(w, r.WithContext(ctx))
	}
}
