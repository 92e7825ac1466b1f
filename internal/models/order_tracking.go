package models

import "time"

// OrderTracking append-only order status trail
type OrderTracking struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	OrderID    uint      `gorm:"index;not null" json:"order_id"`
	FromStatus string    `gorm:"type:varchar(40)" json:"from_status"` // empty on the initial entry
	ToStatus   string    `gorm:"type:varchar(40);not null" json:"to_status"`
	Actor      string    `gorm:"type:varchar(100)" json:"actor"`
	Notes      string    `gorm:"type:varchar(500)" json:"notes,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName table name
func (OrderTracking) TableName() string {
	return "order_tracking"
}
