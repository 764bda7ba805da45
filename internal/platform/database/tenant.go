package database

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"parley/internal/platform/config"
	"parley/internal/platform/models"
)

// StoreContext carries the resolved tenant and its entity store handle
// through a request.
type StoreContext struct {
	Tenant *models.Tenant
	DB     *sql.DB
}

// StorePool hands out one sqlite connection pool per tenant entity store.
type StorePool struct {
	pools  map[string]*sql.DB
	mu     sync.RWMutex
	config config.TenantDBConfig
}

func NewStorePool(cfg config.TenantDBConfig) *StorePool {
	return &StorePool{
		pools:  make(map[string]*sql.DB),
		config: cfg,
	}
}

func (p *StorePool) Get(tenantID string, storePath string) (*sql.DB, error) {
	p.mu.RLock()
	if db, exists := p.pools[tenantID]; exists {
		p.mu.RUnlock()
		return db, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if db, exists := p.pools[tenantID]; exists {
		return db, nil
	}

	dsn := fmt.Sprintf("%s?cache=shared&mode=rwc", storePath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(p.config.MaxConnectionsPerTenant)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	p.pools[tenantID] = db
	return db, nil
}

func (p *StorePool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, db := range p.pools {
		db.Close()
	}
	p.pools = make(map[string]*sql.DB)
}
