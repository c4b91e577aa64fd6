package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailySales is one day of settled revenue.
type DailySales struct {
	Day     string          `gorm:"column:day" json:"day"`
	Orders  int             `gorm:"column:orders" json:"orders"`
	Revenue decimal.Decimal `gorm:"column:revenue" json:"revenue"`
}

// TopItem ranks an item by units sold within the reporting window.
type TopItem struct {
	ItemID  uuid.UUID       `gorm:"column:item_id" json:"item_id"`
	Name    string          `gorm:"column:name" json:"name"`
	QtySold int             `gorm:"column:qty_sold" json:"qty_sold"`
	Revenue decimal.Decimal `gorm:"column:revenue" json:"revenue"`
}

// SalesReport is the dashboard payload for a date range.
type SalesReport struct {
	DateFrom     time.Time       `json:"date_from"`
	DateTo       time.Time       `json:"date_to"`
	TotalOrders  int             `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Daily        []DailySales    `json:"daily"`
	TopItems     []TopItem       `json:"top_items"`
}

// Query bounds the report. DateTo is exclusive.
type Query struct {
	DateFrom *time.Time
	DateTo   *time.Time
	TopLimit int
}
