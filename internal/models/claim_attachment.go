package models

import "time"

// ClaimAttachment uploaded evidence file for a claim
type ClaimAttachment struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ClaimID     uint      `gorm:"index;not null" json:"claim_id"`
	FileName    string    `gorm:"type:varchar(300);not null" json:"file_name"`
	FilePath    string    `gorm:"type:varchar(500);not null" json:"file_path"`
	ContentType string    `gorm:"type:varchar(100)" json:"content_type"`
	SizeBytes   int64     `gorm:"not null;default:0" json:"size_bytes"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName table name
func (ClaimAttachment) TableName() string {
	return "claim_attachments"
}
