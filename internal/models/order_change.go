package models

import "time"

// OrderChange audit record for a product swap on an order line
type OrderChange struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	OrderID        uint      `gorm:"index;not null" json:"order_id"`
	OrderLineID    uint      `gorm:"index;not null" json:"order_line_id"`
	OldProductCode string    `gorm:"not null" json:"old_product_code"`
	NewProductCode string    `gorm:"not null" json:"new_product_code"`
	Reason         string    `gorm:"type:varchar(50);not null" json:"reason"`
	ConfirmedBy    string    `gorm:"type:varchar(100)" json:"confirmed_by"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName table name
func (OrderChange) TableName() string {
	return "order_changes"
}
