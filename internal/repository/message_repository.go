package repository

import (
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"

	"gorm.io/gorm"
)

// MessageRepository append-only message log access
type MessageRepository interface {
	Append(message *models.Message) error
	ListByOrder(orderID uint) ([]models.Message, error)
	ListByClaim(claimID uint) ([]models.Message, error)
	WithTx(tx *gorm.DB) *GormMessageRepository
}

// GormMessageRepository GORM implementation
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates the message repository.
func NewMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormMessageRepository) WithTx(tx *gorm.DB) *GormMessageRepository {
	if tx == nil {
		return r
	}
	return &GormMessageRepository{db: tx}
}

// Append stores a message. Messages are never updated or deleted.
func (r *GormMessageRepository) Append(message *models.Message) error {
	return r.db.Create(message).Error
}

// ListByOrder returns the message log of an order, oldest first.
func (r *GormMessageRepository) ListByOrder(orderID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// ListByClaim returns the message log of a claim, oldest first.
func (r *GormMessageRepository) ListByClaim(claimID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.Where("claim_id = ?", claimID).Order("id asc").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
