package models

import (
	"time"

	"gorm.io/gorm"
)

// Product catalog table
type Product struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Code            string         `gorm:"uniqueIndex;not null" json:"code"` // warehouse product code
	Name            string         `gorm:"type:varchar(200);not null" json:"name"`
	Category        string         `gorm:"type:varchar(100);index" json:"category"`
	Unit            string         `gorm:"type:varchar(20)" json:"unit"` // kg / pcs / box
	Price           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Currency        string         `gorm:"type:varchar(10);not null;default:'EUR'" json:"currency"`
	TemperatureZone string         `gorm:"type:varchar(20)" json:"temperature_zone"` // ambient / chilled / frozen
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName table name
func (Product) TableName() string {
	return "products"
}
