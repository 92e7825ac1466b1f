package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer store customer table
type Customer struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Code      string         `gorm:"uniqueIndex;not null" json:"code"`       // external customer code
	Name      string         `gorm:"type:varchar(200);not null" json:"name"` // store name
	Email     string         `gorm:"index" json:"email,omitempty"`
	City      string         `gorm:"type:varchar(100)" json:"city,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName table name
func (Customer) TableName() string {
	return "customers"
}
