package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"parley/internal/platform/models"
)

type TenantRepository struct {
	db *sql.DB
}

func NewTenantRepository(db *sql.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) Create(tenant *models.Tenant) error {
	if tenant.ID == "" {
		tenant.ID = "tnt_" + uuid.New().String()
	}
	tenant.CreatedAt = time.Now().Unix()
	tenant.UpdatedAt = tenant.CreatedAt

	slackJSON, err := marshalSlack(tenant.Slack)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tenants (id, slug, name, domain, store_path, slack, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, tenant.ID, tenant.Slug, tenant.Name, tenant.Domain, tenant.StorePath, slackJSON, tenant.CreatedAt, tenant.UpdatedAt)
	return err
}

func (r *TenantRepository) GetByID(id string) (*models.Tenant, error) {
	row := r.db.QueryRow(`
		SELECT id, slug, name, domain, store_path, slack, created_at, updated_at, deleted_at
		FROM tenants WHERE id = ?
	`, id)
	return scanTenant(row)
}

func (r *TenantRepository) GetBySlug(slug string) (*models.Tenant, error) {
	row := r.db.QueryRow(`
		SELECT id, slug, name, domain, store_path, slack, created_at, updated_at, deleted_at
		FROM tenants WHERE slug = ?
	`, slug)
	return scanTenant(row)
}

func (r *TenantRepository) List() ([]*models.Tenant, error) {
	rows, err := r.db.Query(`
		SELECT id, slug, name, domain, store_path, slack, created_at, updated_at, deleted_at
		FROM tenants WHERE deleted_at IS NULL ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *TenantRepository) UpdateSlackConfig(id string, cfg *models.SlackConfig) error {
	slackJSON, err := marshalSlack(cfg)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE tenants SET slack = ?, updated_at = ? WHERE id = ?`, slackJSON, time.Now().Unix(), id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTenant(row rowScanner) (*models.Tenant, error) {
	t := &models.Tenant{}
	var slackStr sql.NullString

	err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.Domain, &t.StorePath, &slackStr, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if slackStr.Valid && slackStr.String != "" {
		var cfg models.SlackConfig
		if err := json.Unmarshal([]byte(slackStr.String), &cfg); err == nil {
			t.Slack = &cfg
		}
	}

	return t, nil
}

func marshalSlack(cfg *models.SlackConfig) (interface{}, error) {
	if cfg == nil {
		return nil, nil
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
