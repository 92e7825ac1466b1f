package models

import "time"

// Message append-only communication log bound to an order or a claim
type Message struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	OrderID    *uint     `gorm:"index" json:"order_id,omitempty"`
	ClaimID    *uint     `gorm:"index" json:"claim_id,omitempty"`
	SenderType string    `gorm:"type:varchar(20);index;not null" json:"sender_type"` // customer / admin / ai
	SenderName string    `gorm:"type:varchar(100)" json:"sender_name,omitempty"`
	Content    string    `gorm:"type:varchar(2000);not null" json:"content"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName table name
func (Message) TableName() string {
	return "messages"
}
