package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"parley/internal/platform/models"
)

type DeliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) Create(d *models.Delivery) error {
	if d.ID == "" {
		d.ID = "dlv_" + uuid.New().String()
	}
	if d.CreatedAt == 0 {
		d.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO deliveries (id, tenant_id, channel, channel_name, hook_url, comment_id, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, d.ID, d.TenantID, d.Channel, d.ChannelName, d.HookURL, d.CommentID, d.Status, d.Error, d.CreatedAt)
	return err
}

func (r *DeliveryRepository) ListRecent(limit int) ([]*models.Delivery, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, tenant_id, channel, channel_name, hook_url, comment_id, status, error, created_at
		FROM deliveries ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*models.Delivery
	for rows.Next() {
		d := &models.Delivery{}
		var errStr sql.NullString
		if err := rows.Scan(&d.ID, &d.TenantID, &d.Channel, &d.ChannelName, &d.HookURL, &d.CommentID, &d.Status, &errStr, &d.CreatedAt); err != nil {
			return nil, err
		}
		if errStr.Valid {
			d.Error = errStr.String
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

func (r *DeliveryRepository) CountByStatus() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM deliveries GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *DeliveryRepository) PruneBefore(cutoff int64) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM deliveries WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
