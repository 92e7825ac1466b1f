package models

import "time"

// ClaimProcessing AI triage record, one per claim
type ClaimProcessing struct {
	ID                   uint       `gorm:"primarykey" json:"id"`
	ClaimID              uint       `gorm:"uniqueIndex;not null" json:"claim_id"`
	AIProcessed          bool       `gorm:"column:ai_processed;not null;default:false" json:"ai_processed"`
	AIConfidence         float64    `gorm:"column:ai_confidence;not null;default:0" json:"ai_confidence"`
	AIResultJSON         JSON       `gorm:"column:ai_result_json;type:json" json:"ai_result"`
	RequiresManualReview bool       `gorm:"not null;default:false;index" json:"requires_manual_review"`
	ReviewedBy           string     `gorm:"type:varchar(100)" json:"reviewed_by,omitempty"`
	ReviewedAt           *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt            time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TableName table name
func (ClaimProcessing) TableName() string {
	return "claim_processing"
}
