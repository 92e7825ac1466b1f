package models

import (
	"time"

	"gorm.io/gorm"
)

// Invoice invoice header table
type Invoice struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	InvoiceNo   string         `gorm:"uniqueIndex;not null" json:"invoice_no"` // business id, INV-XXXXXXXX
	OrderID     *uint          `gorm:"index" json:"order_id,omitempty"`
	ClaimID     *uint          `gorm:"index" json:"claim_id,omitempty"`
	InvoiceType string         `gorm:"type:varchar(20);index;not null" json:"invoice_type"` // ORDER / REFUND / MODIFICATION
	Status      string         `gorm:"type:varchar(20);index;not null" json:"status"`
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	TaxAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`
	Currency    string         `gorm:"type:varchar(10);not null;default:'EUR'" json:"currency"`
	Notes       string         `gorm:"type:varchar(500)" json:"notes,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// TableName table name
func (Invoice) TableName() string {
	return "invoices"
}
