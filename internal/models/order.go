package models

import (
	"time"

	"gorm.io/gorm"
)

// Order fulfillment order table
type Order struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	OrderNo             string         `gorm:"uniqueIndex;not null" json:"order_no"` // business id, ORD-XXXXXXXX
	CustomerID          uint           `gorm:"index;not null" json:"customer_id"`
	Status              string         `gorm:"index;not null" json:"status"`
	DeliveryDate        string         `gorm:"type:varchar(10);not null" json:"delivery_date"` // YYYY-MM-DD
	DeliveryWindowStart string         `gorm:"type:varchar(5)" json:"delivery_window_start"`   // HH:MM
	DeliveryWindowEnd   string         `gorm:"type:varchar(5)" json:"delivery_window_end"`     // HH:MM
	Plant               string         `gorm:"type:varchar(10);not null;default:'P01'" json:"plant"`
	StorageLocation     string         `gorm:"type:varchar(10);not null;default:'WH01'" json:"storage_location"`
	Currency            string         `gorm:"type:varchar(10);not null;default:'EUR'" json:"currency"`
	OverallRiskScore    *float64       `json:"overall_risk_score,omitempty"`
	CancelledAt         *time.Time     `gorm:"index" json:"cancelled_at,omitempty"`
	DeliveredAt         *time.Time     `gorm:"index" json:"delivered_at,omitempty"`
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Lines    []OrderLine `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

// TableName table name
func (Order) TableName() string {
	return "orders"
}
