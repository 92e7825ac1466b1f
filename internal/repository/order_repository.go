package repository

import (
	"errors"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"

	"gorm.io/gorm"
)

// OrderRepository order data access interface
type OrderRepository interface {
	Create(order *models.Order, lines []models.OrderLine) error
	CreateSubstitutes(subs []models.OrderSubstitute) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	GetLineByID(id uint) (*models.OrderLine, error)
	UpdateLine(id uint, updates map[string]interface{}) error
	FirstUnusedSubstitute(orderLineID uint) (*models.OrderSubstitute, error)
	MarkSubstituteUsed(id uint) error
	AppendTracking(entry *models.OrderTracking) error
	ListTracking(orderID uint) ([]models.OrderTracking, error)
	AppendChange(change *models.OrderChange) error
	ListChanges(orderID uint) ([]models.OrderChange, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM implementation
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates the order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func (r *GormOrderRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.Preload("Customer").Preload("Lines").Preload("Lines.Substitutes")
}

// Create creates an order together with its lines.
func (r *GormOrderRepository) Create(order *models.Order, lines []models.OrderLine) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].OrderID = order.ID
	}
	if len(lines) > 0 {
		if err := r.db.Create(&lines).Error; err != nil {
			return err
		}
		order.Lines = lines
	}
	return nil
}

// CreateSubstitutes stores substitute options for order lines.
func (r *GormOrderRepository) CreateSubstitutes(subs []models.OrderSubstitute) error {
	if len(subs) == 0 {
		return nil
	}
	return r.db.Create(&subs).Error
}

// GetByID loads an order with its lines.
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withDetails(r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo loads an order by its business number.
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.withDetails(r.db).Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List lists orders matching the filter.
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})

	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := r.withDetails(query).Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus updates the order status plus extra columns.
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// GetLineByID loads a single order line with its substitutes.
func (r *GormOrderRepository) GetLineByID(id uint) (*models.OrderLine, error) {
	var line models.OrderLine
	if err := r.db.Preload("Substitutes").First(&line, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

// UpdateLine updates columns of an order line.
func (r *GormOrderRepository) UpdateLine(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.OrderLine{}).Where("id = ?", id).Updates(updates).Error
}

// FirstUnusedSubstitute returns the unused substitute with the lowest
// priority value for a line, or nil when none is left.
func (r *GormOrderRepository) FirstUnusedSubstitute(orderLineID uint) (*models.OrderSubstitute, error) {
	var sub models.OrderSubstitute
	err := r.db.
		Where("order_line_id = ? AND is_used = ?", orderLineID, false).
		Order("priority asc, id asc").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// MarkSubstituteUsed flags a substitute as consumed.
func (r *GormOrderRepository) MarkSubstituteUsed(id uint) error {
	return r.db.Model(&models.OrderSubstitute{}).Where("id = ?", id).Update("is_used", true).Error
}

// AppendTracking appends a status trail entry.
func (r *GormOrderRepository) AppendTracking(entry *models.OrderTracking) error {
	return r.db.Create(entry).Error
}

// ListTracking returns the status trail of an order, oldest first.
func (r *GormOrderRepository) ListTracking(orderID uint) ([]models.OrderTracking, error) {
	var entries []models.OrderTracking
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// AppendChange records a product swap audit entry.
func (r *GormOrderRepository) AppendChange(change *models.OrderChange) error {
	return r.db.Create(change).Error
}

// ListChanges returns the swap audit trail of an order.
func (r *GormOrderRepository) ListChanges(orderID uint) ([]models.OrderChange, error) {
	var changes []models.OrderChange
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}
