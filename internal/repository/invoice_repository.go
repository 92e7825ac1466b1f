package repository

import (
	"errors"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"

	"gorm.io/gorm"
)

// InvoiceRepository invoice data access interface
type InvoiceRepository interface {
	Create(invoice *models.Invoice, items []models.InvoiceItem) error
	GetByID(id uint) (*models.Invoice, error)
	GetByInvoiceNo(invoiceNo string) (*models.Invoice, error)
	GetActiveOrderInvoice(orderID uint) (*models.Invoice, error)
	GetActiveRefundInvoice(claimID uint) (*models.Invoice, error)
	ListByOrder(orderID uint) ([]models.Invoice, error)
	ListByClaim(claimID uint) ([]models.Invoice, error)
	ListActiveByOrder(orderID uint) ([]models.Invoice, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	ReplaceItems(invoiceID uint, items []models.InvoiceItem) error
	WithTx(tx *gorm.DB) *GormInvoiceRepository
}

// GormInvoiceRepository GORM implementation
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates the invoice repository.
func NewInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormInvoiceRepository) WithTx(tx *gorm.DB) *GormInvoiceRepository {
	if tx == nil {
		return r
	}
	return &GormInvoiceRepository{db: tx}
}

// Create creates an invoice header together with its items.
func (r *GormInvoiceRepository) Create(invoice *models.Invoice, items []models.InvoiceItem) error {
	if err := r.db.Create(invoice).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].InvoiceID = invoice.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
		invoice.Items = items
	}
	return nil
}

// GetByID loads an invoice with its items.
func (r *GormInvoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.Preload("Items").First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// GetByInvoiceNo loads an invoice by its business number.
func (r *GormInvoiceRepository) GetByInvoiceNo(invoiceNo string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.Preload("Items").Where("invoice_no = ?", invoiceNo).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// GetActiveOrderInvoice returns the non-cancelled ORDER invoice of an order.
func (r *GormInvoiceRepository) GetActiveOrderInvoice(orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Preload("Items").
		Where("order_id = ? AND invoice_type = ? AND status <> ?",
			orderID, constants.InvoiceTypeOrder, constants.InvoiceStatusCancelled).
		Order("id desc").
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// GetActiveRefundInvoice returns the non-cancelled REFUND invoice of a claim.
func (r *GormInvoiceRepository) GetActiveRefundInvoice(claimID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Preload("Items").
		Where("claim_id = ? AND invoice_type = ? AND status <> ?",
			claimID, constants.InvoiceTypeRefund, constants.InvoiceStatusCancelled).
		Order("id desc").
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// ListByOrder returns all invoices of an order, oldest first.
func (r *GormInvoiceRepository) ListByOrder(orderID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.db.Preload("Items").Where("order_id = ?", orderID).Order("id asc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// ListByClaim returns all invoices of a claim, oldest first.
func (r *GormInvoiceRepository) ListByClaim(claimID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.db.Preload("Items").Where("claim_id = ?", claimID).Order("id asc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// ListActiveByOrder returns the non-cancelled invoices of an order.
func (r *GormInvoiceRepository) ListActiveByOrder(orderID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.
		Where("order_id = ? AND status <> ?", orderID, constants.InvoiceStatusCancelled).
		Order("id asc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// UpdateFields updates invoice header columns.
func (r *GormInvoiceRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Invoice{}).Where("id = ?", id).Updates(updates).Error
}

// ReplaceItems replaces every item of an invoice.
func (r *GormInvoiceRepository) ReplaceItems(invoiceID uint, items []models.InvoiceItem) error {
	if err := r.db.Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].InvoiceID = invoiceID
		items[i].ID = 0
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}
