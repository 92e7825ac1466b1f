package models

import "time"

// InvoiceItem invoice line table
type InvoiceItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	InvoiceID   uint      `gorm:"index;not null" json:"invoice_id"`
	ProductCode string    `gorm:"index" json:"product_code"`
	Description string    `gorm:"type:varchar(300)" json:"description"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // signed on MODIFICATION invoices
	TotalPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName table name
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
