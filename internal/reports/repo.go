package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// settledStatuses are the transaction states that count as realized sales.
var settledStatuses = []string{"completed", "approved"}

// Repository computes sales aggregates with raw SQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reports repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Totals returns the order count and revenue over the window.
func (r *Repository) Totals(ctx context.Context, from, to time.Time) (int, decimal.Decimal, error) {
	var row struct {
		Orders  int             `gorm:"column:orders"`
		Revenue decimal.Decimal `gorm:"column:revenue"`
	}
	err := r.db.WithContext(ctx).Raw(`
SELECT COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue
FROM transactions
WHERE status IN ? AND created_at >= ? AND created_at < ?`,
		settledStatuses, from, to,
	).Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	return row.Orders, row.Revenue, nil
}

// Daily returns per-day order counts and revenue over the window.
func (r *Repository) Daily(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	var rows []DailySales
	err := r.db.WithContext(ctx).Raw(`
SELECT DATE(created_at) AS day, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue
FROM transactions
WHERE status IN ? AND created_at >= ? AND created_at < ?
GROUP BY DATE(created_at)
ORDER BY day`,
		settledStatuses, from, to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopItems ranks items by units sold over the window.
func (r *Repository) TopItems(ctx context.Context, from, to time.Time, limit int) ([]TopItem, error) {
	var rows []TopItem
	err := r.db.WithContext(ctx).Raw(`
SELECT i.id AS item_id, i.name AS name, SUM(d.qty) AS qty_sold, COALESCE(SUM(d.subtotal), 0) AS revenue
FROM transaction_details d
JOIN transactions t ON t.id = d.transaction_id
JOIN items i ON i.id = d.item_id
WHERE t.status IN ? AND t.created_at >= ? AND t.created_at < ?
GROUP BY i.id, i.name
ORDER BY qty_sold DESC, revenue DESC
LIMIT ?`,
		settledStatuses, from, to, limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
