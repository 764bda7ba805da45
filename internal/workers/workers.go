package workers

import (
	"time"

	"github.com/rs/zerolog/log"
	"parley/internal/platform/database"
	"parley/internal/platform/repositories"
)

// Runner walks every tenant store for periodic maintenance.
type Runner struct {
	tenantRepo *repositories.TenantRepository
	storePool  *database.StorePool
	retention  time.Duration
}

func NewRunner(tenantRepo *repositories.TenantRepository, storePool *database.StorePool, retention time.Duration) *Runner {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &Runner{tenantRepo: tenantRepo, storePool: storePool, retention: retention}
}

// PruneDeliveries removes delivery rows older than the retention window from
// every tenant store.
func (r *Runner) PruneDeliveries() {
	tenants, err := r.tenantRepo.List()
	if err != nil {
		log.Error().Err(err).Msg("prune: failed to list tenants")
		return
	}

	cutoff := time.Now().Add(-r.retention).Unix()
	for _, tenant := range tenants {
		db, err := r.storePool.Get(tenant.ID, tenant.StorePath)
		if err != nil {
			log.Error().Err(err).Str("tenant_id", tenant.ID).Msg("prune: failed to open tenant store")
			continue
		}

		pruned, err := repositories.NewDeliveryRepository(db).PruneBefore(cutoff)
		if err != nil {
			log.Error().Err(err).Str("tenant_id", tenant.ID).Msg("prune: failed to prune deliveries")
			continue
		}
		if pruned > 0 {
			log.Info().Str("tenant_id", tenant.ID).Int64("pruned", pruned).Msg("pruned old deliveries")
		}
	}
}

// ReportDeliveryCounts logs per-tenant delivery outcome totals, giving
// operators a periodic signal without querying every store by hand.
func (r *Runner) ReportDeliveryCounts() {
	tenants, err := r.tenantRepo.List()
	if err != nil {
		log.Error().Err(err).Msg("report: failed to list tenants")
		return
	}

	for _, tenant := range tenants {
		db, err := r.storePool.Get(tenant.ID, tenant.StorePath)
		if err != nil {
			continue
		}

		counts, err := repositories.NewDeliveryRepository(db).CountByStatus()
		if err != nil || len(counts) == 0 {
			continue
		}

		log.Info().
			Str("tenant_id", tenant.ID).
			Int("delivered", counts["delivered"]).
			Int("failed", counts["failed"]).
			Msg("delivery totals")
	}
}
