package service

import (
	"fmt"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/logger"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"

	"gorm.io/gorm"
)

// SubstitutionResult outcome of a resolved shortage.
type SubstitutionResult struct {
	Order               *models.Order       `json:"order"`
	UsedSubstituteCode  string              `json:"used_substitute_code"`
	ReplacedProductCode string              `json:"replaced_product_code"`
	Invoice             *models.Invoice     `json:"invoice"`
	ModificationInvoice *models.Invoice     `json:"modification_invoice,omitempty"`
	Change              *models.OrderChange `json:"change"`
}

// SubstitutionService resolves line shortages against the customer's
// pre-approved substitute list.
type SubstitutionService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	messageRepo    repository.MessageRepository
	invoiceService *InvoiceService
}

// NewSubstitutionService creates the substitution service.
func NewSubstitutionService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	messageRepo repository.MessageRepository,
	invoiceService *InvoiceService,
) *SubstitutionService {
	return &SubstitutionService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		messageRepo:    messageRepo,
		invoiceService: invoiceService,
	}
}

// Resolve replaces the product on one shorted line with its best unused
// substitute. The swap, its audit entry, the substitute consumption, the
// regenerated ORDER invoice and the MODIFICATION invoice are committed in a
// single transaction.
func (s *SubstitutionService) Resolve(orderNo string, lineID uint, actor string) (*SubstitutionResult, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusDelivered || order.Status == constants.OrderStatusCancelled {
		return nil, ErrOrderStateInvalid
	}

	line, err := s.orderRepo.GetLineByID(lineID)
	if err != nil {
		return nil, err
	}
	if line == nil || line.OrderID != order.ID {
		return nil, ErrOrderLineNotFound
	}

	sub, err := s.orderRepo.FirstUnusedSubstitute(line.ID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoSubstituteAvailable
	}

	oldProduct, err := s.productRepo.GetByCode(line.ProductCode)
	if err != nil {
		return nil, err
	}
	if oldProduct == nil {
		return nil, ErrProductNotFound
	}
	newProduct, err := s.productRepo.GetByCode(sub.SubstituteProductCode)
	if err != nil {
		return nil, err
	}
	if newProduct == nil {
		return nil, ErrProductNotFound
	}

	result := &SubstitutionResult{
		UsedSubstituteCode:  newProduct.Code,
		ReplacedProductCode: oldProduct.Code,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		messageRepo := s.messageRepo.WithTx(tx)

		change := &models.OrderChange{
			OrderID:        order.ID,
			OrderLineID:    line.ID,
			OldProductCode: oldProduct.Code,
			NewProductCode: newProduct.Code,
			Reason:         constants.OrderChangeReasonShortage,
			ConfirmedBy:    actor,
		}
		if err := orderRepo.AppendChange(change); err != nil {
			return err
		}
		result.Change = change

		if err := orderRepo.UpdateLine(line.ID, map[string]interface{}{
			"product_code": newProduct.Code,
			"line_status":  constants.LineStatusReplaced,
		}); err != nil {
			return err
		}
		if err := orderRepo.MarkSubstituteUsed(sub.ID); err != nil {
			return err
		}

		lines := make([]models.OrderLine, len(order.Lines))
		copy(lines, order.Lines)
		for i := range lines {
			if lines[i].ID == line.ID {
				lines[i].ProductCode = newProduct.Code
				lines[i].LineStatus = constants.LineStatusReplaced
			}
		}

		invoice, err := s.invoiceService.RegenerateOrderInvoice(tx, order, lines, noteProductReplaced)
		if err != nil {
			return err
		}
		result.Invoice = invoice

		modInvoice, err := s.invoiceService.IssueModification(tx, order, line, oldProduct, newProduct)
		if err != nil {
			return err
		}
		result.ModificationInvoice = modInvoice

		return messageRepo.Append(&models.Message{
			OrderID:    &order.ID,
			SenderType: constants.SenderTypeAdmin,
			SenderName: actor,
			Content: fmt.Sprintf("Product %s on order %s was replaced with %s due to a shortage.",
				oldProduct.Code, order.OrderNo, newProduct.Code),
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("shortage resolved by substitution",
		"order_no", order.OrderNo,
		"line_id", line.ID,
		"old_product", oldProduct.Code,
		"new_product", newProduct.Code)

	order, err = s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}
	result.Order = order
	return result, nil
}
