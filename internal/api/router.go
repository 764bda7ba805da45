package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "parley/internal/api/context"
	"parley/internal/api/handlers"
	"parley/internal/api/middleware"
	"parley/internal/pkg/errors"
	"parley/internal/platform/auth"
)

type Dependencies struct {
	AuthHandler      *handlers.AuthHandler
	TenantHandler    *handlers.TenantHandler
	SlackHandler     *handlers.SlackHandler
	EventHandler     *handlers.EventHandler
	EntitiesHandler  *handlers.EntitiesHandler
	DeliveryHandler  *handlers.DeliveryHandler
	APIKeyHandler    *handlers.APIKeyHandler
	HealthHandler    *handlers.HealthHandler
	MetricsHandler   *handlers.MetricsHandler
	AuthMiddleware   *middleware.AuthMiddleware
	TenantMiddleware *middleware.TenantMiddleware
	APIKeyMiddleware *middleware.APIKeyMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	// Operational endpoints
	router.GET("/healthz", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	// Authentication
	router.POST("/api/v1/auth/login", wrap(deps.AuthHandler.Login))
	router.POST("/api/v1/auth/refresh", wrap(deps.AuthHandler.Refresh))

	// Tenant provisioning
	router.POST("/api/v1/tenants", wrap(deps.TenantHandler.Create))

	authMid := deps.AuthMiddleware
	tenantMid := deps.TenantMiddleware
	keyMid := deps.APIKeyMiddleware

	// Slack channel configuration (admin UI)
	router.GET("/api/v1/slack/config",
		chain(deps.SlackHandler.GetConfig, authMid.Handle, tenantMid.Handle))
	router.PUT("/api/v1/slack/config",
		chain(deps.SlackHandler.UpdateConfig, authMid.Handle, tenantMid.Handle, requireRole("admin")))
	router.POST("/api/v1/slack/channels/test",
		chain(deps.SlackHandler.TestChannel, authMid.Handle, tenantMid.Handle, requireRole("admin")))

	// Delivery audit trail
	router.GET("/api/v1/deliveries",
		chain(deps.DeliveryHandler.List, authMid.Handle, tenantMid.Handle))

	// API key management
	router.POST("/api/v1/keys",
		chain(deps.APIKeyHandler.Create, authMid.Handle, tenantMid.Handle, requireRole("admin")))
	router.DELETE("/api/v1/keys/:key_id",
		chain(deps.APIKeyHandler.Revoke, authMid.Handle, tenantMid.Handle, requireRole("admin")))

	// Machine endpoints: event ingest and entity sync
	router.POST("/api/v1/events",
		chain(deps.EventHandler.Ingest, keyMid.Handle))
	router.PUT("/api/v1/entities/comments/:comment_id",
		chain(deps.EntitiesHandler.UpsertComment, keyMid.Handle))
	router.PUT("/api/v1/entities/stories/:story_id",
		chain(deps.EntitiesHandler.UpsertStory, keyMid.Handle))
	router.PUT("/api/v1/entities/authors/:author_id",
		chain(deps.EntitiesHandler.UpsertAuthor, keyMid.Handle))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func requireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
				return
			}

			next(w, r)
		}
	}
}
