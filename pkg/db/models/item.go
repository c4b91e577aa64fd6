package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/kantinhub/kantin-backend/pkg/enums"
)

// Item represents a catalog entry owned by a supplier (mitra).
//
// StockQty is never written directly by order flows; every decrement goes
// through the guarded conditional update in the catalog repository so the
// quantity cannot go negative under concurrent orders.
type Item struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string           `gorm:"column:name;not null" json:"name"`
	PhotoURL  *string          `gorm:"column:photo_url" json:"photo_url,omitempty"`
	StockQty  int              `gorm:"column:stock_qty;not null;default:0" json:"stock_qty"`
	UnitPrice decimal.Decimal  `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	Status    enums.ItemStatus `gorm:"column:status;type:text;not null;default:'pending_approval'" json:"status"`
	Tags      pq.StringArray   `gorm:"column:tags;type:text[]" json:"tags,omitempty"`
	MitraID   uuid.UUID        `gorm:"column:mitra_id;type:uuid;not null" json:"mitra_id"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
