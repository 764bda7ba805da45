package middleware

import (
	"context"
	"net/http"

	apiContext "parley/internal/api/context"
	"parley/internal/pkg/errors"
	"parley/internal/platform/auth"
	"parley/internal/platform/database"
	"parley/internal/platform/repositories"
)

// TenantMiddleware resolves the tenant named by the request claims and
// attaches the tenant row plus its entity store handle to the context.
type TenantMiddleware struct {
	tenantRepo *repositories.TenantRepository
	storePool  *database.StorePool
}

func NewTenantMiddleware(tenantRepo *repositories.TenantRepository, storePool *database.StorePool) *TenantMiddleware {
	return &TenantMiddleware{tenantRepo: tenantRepo, storePool: storePool}
}

func (m *TenantMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims)
		if !ok || claims.TenantID == "" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing tenant claim", nil)
			return
		}

		tenant, err := m.tenantRepo.GetByID(claims.TenantID)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to resolve tenant", nil)
			return
		}
		if tenant == nil {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Tenant not found", nil)
			return
		}

		db, err := m.storePool.Get(tenant.ID, tenant.StorePath)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to open tenant store", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Tenant, &database.StoreContext{Tenant: tenant, DB: db})
		next(w, r.WithContext(ctx))
	}
}
