package models

import "time"

// OrderSubstitute customer-approved substitute per order line
type OrderSubstitute struct {
	ID                    uint      `gorm:"primarykey" json:"id"`
	OrderID               uint      `gorm:"index;not null" json:"order_id"`
	OrderLineID           uint      `gorm:"index;not null" json:"order_line_id"`
	SubstituteProductCode string    `gorm:"not null" json:"substitute_product_code"`
	Priority              int       `gorm:"not null" json:"priority"` // 1 preferred over 2
	IsUsed                bool      `gorm:"not null;default:false;index" json:"is_used"`
	CreatedAt             time.Time `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName table name
func (OrderSubstitute) TableName() string {
	return "order_substitutes"
}
