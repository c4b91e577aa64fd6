package reports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  photo_url TEXT,
  stock_qty INTEGER NOT NULL DEFAULT 0,
  unit_price TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending_approval',
  tags TEXT,
  mitra_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_amount TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  customer_name TEXT,
  customer_location TEXT,
  notes TEXT,
  rejection_reason TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS transaction_details (
  id TEXT PRIMARY KEY,
  transaction_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  subtotal TEXT NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedSale(t *testing.T, db *gorm.DB, item *models.Item, status enums.TransactionStatus, qty int, at time.Time) {
	t.Helper()
	subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	trx := &models.Transaction{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		TotalAmount: subtotal,
		Status:      status,
		CreatedAt:   at,
		Details: []models.TransactionDetail{
			{ID: uuid.New(), ItemID: item.ID, Qty: qty, UnitPrice: item.UnitPrice, Subtotal: subtotal},
		},
	}
	require.NoError(t, db.Create(trx).Error)
}

func seedReportItem(t *testing.T, db *gorm.DB, name string, price int64) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:        uuid.New(),
		Name:      name,
		StockQty:  100,
		UnitPrice: decimal.NewFromInt(price),
		Status:    enums.ItemStatusAvailable,
		MitraID:   uuid.New(),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestSalesAggregation(t *testing.T) {
	db := setupReportsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	nasi := seedReportItem(t, db, "Nasi Goreng", 15000)
	teh := seedReportItem(t, db, "Es Teh Manis", 5000)

	day1 := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 11, 12, 0, 0, 0, time.UTC)

	seedSale(t, db, nasi, enums.TransactionStatusCompleted, 2, day1)
	seedSale(t, db, teh, enums.TransactionStatusApproved, 3, day1.Add(2*time.Hour))
	seedSale(t, db, nasi, enums.TransactionStatusCompleted, 1, day2)
	// Unsettled rows stay out of every aggregate.
	seedSale(t, db, nasi, enums.TransactionStatusPending, 5, day1)
	seedSale(t, db, teh, enums.TransactionStatusRejected, 5, day2)

	from := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)

	orders, revenue, err := repo.Totals(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 3, orders)
	// 2*15000 + 3*5000 + 1*15000
	assert.True(t, revenue.Equal(decimal.NewFromInt(60000)), "revenue = %s", revenue)

	daily, err := repo.Daily(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, "2026-08-10", daily[0].Day)
	assert.Equal(t, 2, daily[0].Orders)
	assert.True(t, daily[0].Revenue.Equal(decimal.NewFromInt(45000)))
	assert.Equal(t, "2026-08-11", daily[1].Day)
	assert.Equal(t, 1, daily[1].Orders)

	top, err := repo.TopItems(ctx, from, to, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, teh.ID, top[0].ItemID)
	assert.Equal(t, 3, top[0].QtySold)
	assert.Equal(t, nasi.ID, top[1].ItemID)
	assert.True(t, top[1].Revenue.Equal(decimal.NewFromInt(45000)))

	// Limit trims the ranking.
	top, err = repo.TopItems(ctx, from, to, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Es Teh Manis", top[0].Name)
}

func TestSalesAggregationWindowBounds(t *testing.T) {
	db := setupReportsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	nasi := seedReportItem(t, db, "Nasi Goreng", 15000)
	inside := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	outside := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	seedSale(t, db, nasi, enums.TransactionStatusCompleted, 1, inside)
	seedSale(t, db, nasi, enums.TransactionStatusCompleted, 1, outside)

	from := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)

	// DateTo is exclusive; the sale at exactly `to` is out.
	orders, _, err := repo.Totals(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, orders)
}

func TestSalesAggregationEmptyWindow(t *testing.T) {
	db := setupReportsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	orders, revenue, err := repo.Totals(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 0, orders)
	assert.True(t, revenue.Equal(decimal.Zero), fmt.Sprintf("revenue = %s", revenue))

	daily, err := repo.Daily(ctx, from, to)
	require.NoError(t, err)
	assert.Empty(t, daily)
}
