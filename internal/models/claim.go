package models

import (
	"time"

	"gorm.io/gorm"
)

// Claim post-delivery claim table
type Claim struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	ClaimNo         string         `gorm:"uniqueIndex;not null" json:"claim_no"` // business id, CLM-XXXXXXXX
	OrderID         uint           `gorm:"index;not null" json:"order_id"`
	CustomerID      uint           `gorm:"index;not null" json:"customer_id"`
	ClaimType       string         `gorm:"type:varchar(30);index;not null" json:"claim_type"`
	Status          string         `gorm:"type:varchar(20);index;not null" json:"status"`
	Description     string         `gorm:"type:varchar(1000)" json:"description"`
	CreditAmount    *Money         `gorm:"type:decimal(20,2)" json:"credit_amount,omitempty"`
	Currency        string         `gorm:"type:varchar(10);not null;default:'EUR'" json:"currency"`
	HandledBy       string         `gorm:"type:varchar(100)" json:"handled_by,omitempty"`
	RejectionReason string         `gorm:"type:varchar(500)" json:"rejection_reason,omitempty"`
	ResolvedAt      *time.Time     `gorm:"index" json:"resolved_at,omitempty"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Order       *Order           `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Lines       []ClaimLine      `gorm:"foreignKey:ClaimID" json:"lines,omitempty"`
	Attachments []ClaimAttachment `gorm:"foreignKey:ClaimID" json:"attachments,omitempty"`
	Processing  *ClaimProcessing `gorm:"foreignKey:ClaimID" json:"processing,omitempty"`
}

// TableName table name
func (Claim) TableName() string {
	return "claims"
}
