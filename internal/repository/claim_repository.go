package repository

import (
	"errors"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"

	"gorm.io/gorm"
)

// ClaimRepository claim data access interface
type ClaimRepository interface {
	Create(claim *models.Claim, lines []models.ClaimLine, attachments []models.ClaimAttachment, processing *models.ClaimProcessing) error
	GetByID(id uint) (*models.Claim, error)
	GetByClaimNo(claimNo string) (*models.Claim, error)
	List(filter ClaimListFilter) ([]models.Claim, int64, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	UpdateProcessing(claimID uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormClaimRepository
}

// GormClaimRepository GORM implementation
type GormClaimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates the claim repository.
func NewClaimRepository(db *gorm.DB) *GormClaimRepository {
	return &GormClaimRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormClaimRepository) WithTx(tx *gorm.DB) *GormClaimRepository {
	if tx == nil {
		return r
	}
	return &GormClaimRepository{db: tx}
}

func (r *GormClaimRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.Preload("Lines").Preload("Attachments").Preload("Processing").Preload("Order")
}

// Create creates a claim with its lines, attachments and processing record.
func (r *GormClaimRepository) Create(claim *models.Claim, lines []models.ClaimLine, attachments []models.ClaimAttachment, processing *models.ClaimProcessing) error {
	if err := r.db.Create(claim).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].ClaimID = claim.ID
	}
	if len(lines) > 0 {
		if err := r.db.Create(&lines).Error; err != nil {
			return err
		}
		claim.Lines = lines
	}
	for i := range attachments {
		attachments[i].ClaimID = claim.ID
	}
	if len(attachments) > 0 {
		if err := r.db.Create(&attachments).Error; err != nil {
			return err
		}
		claim.Attachments = attachments
	}
	if processing != nil {
		processing.ClaimID = claim.ID
		if err := r.db.Create(processing).Error; err != nil {
			return err
		}
		claim.Processing = processing
	}
	return nil
}

// GetByID loads a claim with its children.
func (r *GormClaimRepository) GetByID(id uint) (*models.Claim, error) {
	var claim models.Claim
	if err := r.withDetails(r.db).First(&claim, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

// GetByClaimNo loads a claim by its business number.
func (r *GormClaimRepository) GetByClaimNo(claimNo string) (*models.Claim, error) {
	var claim models.Claim
	if err := r.withDetails(r.db).Where("claim_no = ?", claimNo).First(&claim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

// List lists claims matching the filter.
func (r *GormClaimRepository) List(filter ClaimListFilter) ([]models.Claim, int64, error) {
	var claims []models.Claim
	query := r.db.Model(&models.Claim{})

	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ClaimType != "" {
		query = query.Where("claim_type = ?", filter.ClaimType)
	}
	if filter.ManualReviewOnly {
		query = query.Where("id IN (?)", r.db.Model(&models.ClaimProcessing{}).
			Select("claim_id").
			Where("requires_manual_review = ?", true))
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
	if err := r.withDetails(query).Order("id desc").Find(&claims).Error; err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

// UpdateFields updates claim columns.
func (r *GormClaimRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Claim{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateProcessing updates the processing record of a claim.
func (r *GormClaimRepository) UpdateProcessing(claimID uint, updates map[string]interface{}) error {
	return r.db.Model(&models.ClaimProcessing{}).Where("claim_id = ?", claimID).Updates(updates).Error
}
