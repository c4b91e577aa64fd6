package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kantinhub/kantin-backend/pkg/enums"
)

// Transaction represents an order placed by a cashier or an end user.
//
// TotalAmount equals the sum of all detail subtotals at creation time and is
// never recomputed. Status only moves through the transitions enforced by the
// approval workflow.
type Transaction struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID               `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	TotalAmount      decimal.Decimal         `gorm:"column:total_amount;type:numeric(14,2);not null" json:"total_amount"`
	Status           enums.TransactionStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	CustomerName     *string                 `gorm:"column:customer_name" json:"customer_name,omitempty"`
	CustomerLocation *string                 `gorm:"column:customer_location" json:"customer_location,omitempty"`
	Notes            *string                 `gorm:"column:notes" json:"notes,omitempty"`
	RejectionReason  *string                 `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	User             *User                   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Details          []TransactionDetail     `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
