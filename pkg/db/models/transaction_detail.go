package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionDetail captures one line of a transaction with the unit price
// snapshotted at order time. Subtotal is fixed at creation.
type TransactionDetail struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransactionID uuid.UUID       `gorm:"column:transaction_id;type:uuid;not null" json:"transaction_id"`
	ItemID        uuid.UUID       `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	Qty           int             `gorm:"column:qty;not null" json:"qty"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null" json:"subtotal"`
	Item          *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
