package repository

import (
	"errors"
	"strings"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"

	"gorm.io/gorm"
)

// ProductRepository product catalog access interface
type ProductRepository interface {
	Create(product *models.Product) error
	GetByCode(code string) (*models.Product, error)
	GetByCodes(codes []string) (map[string]models.Product, error)
	List(filter ProductListFilter) ([]models.Product, int64, error)
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository GORM implementation
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates the product repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Create stores a product.
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// GetByCode loads a product by warehouse code.
func (r *GormProductRepository) GetByCode(code string) (*models.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var product models.Product
	if err := r.db.Where("code = ?", code).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByCodes loads products keyed by warehouse code.
func (r *GormProductRepository) GetByCodes(codes []string) (map[string]models.Product, error) {
	result := make(map[string]models.Product, len(codes))
	if len(codes) == 0 {
		return result, nil
	}
	var products []models.Product
	if err := r.db.Where("code IN ?", codes).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.Code] = p
	}
	return result, nil
}

// List lists products matching the filter.
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product
	query := r.db.Model(&models.Product{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", pattern, pattern)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("code asc").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
