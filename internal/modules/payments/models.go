package payments

import (
	"time"

	"gorm.io/datatypes"
)

// Transaction is the authoritative record of one charged order. Created
// exactly once after a successful gateway charge; afterwards only its status
// moves (notifications or an explicit status pull). Never deleted.
type Transaction struct {
	ID             string         `gorm:"type:char(36);primaryKey" json:"-"`
	OrderID        string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_transactions_order_id" json:"order_id"`
	Amount         int64          `gorm:"not null" json:"amount"`
	PaymentType    string         `gorm:"type:varchar(32);not null" json:"payment_type"`
	PaymentDetails datatypes.JSON `gorm:"type:json" json:"payment_details"`
	Status         Status         `gorm:"type:varchar(32);not null" json:"status"`
	CreatedAt      time.Time      `gorm:"type:datetime(3);not null;index:ix_transactions_created_at" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"type:datetime(3);not null" json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }
