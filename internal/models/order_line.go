package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderLine order line table
type OrderLine struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	OrderID      uint           `gorm:"index;not null" json:"order_id"`
	ProductCode  string         `gorm:"index;not null" json:"product_code"` // current product, rewritten on substitution
	OrderedQty   int            `gorm:"not null" json:"ordered_qty"`
	DeliveredQty int            `gorm:"not null;default:0" json:"delivered_qty"`
	ItemPriority string         `gorm:"type:varchar(20);not null;default:'FLEXIBLE'" json:"item_priority"`
	LineStatus   string         `gorm:"type:varchar(20);not null;default:'OK'" json:"line_status"`
	RiskScore    *float64       `json:"risk_score,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Substitutes []OrderSubstitute `gorm:"foreignKey:OrderLineID" json:"substitutes,omitempty"`
}

// TableName table name
func (OrderLine) TableName() string {
	return "order_lines"
}
