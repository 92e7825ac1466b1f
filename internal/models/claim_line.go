package models

import "time"

// ClaimLine affected product line within a claim
type ClaimLine struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ClaimID     uint      `gorm:"index;not null" json:"claim_id"`
	ProductCode string    `gorm:"index" json:"product_code"`
	Quantity    int       `gorm:"not null;default:1" json:"quantity"`
	Issue       string    `gorm:"type:varchar(500)" json:"issue"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName table name
func (ClaimLine) TableName() string {
	return "claim_lines"
}
