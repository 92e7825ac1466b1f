package service

import (
	"fmt"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VAT rate applied on top of invoice totals. Totals are tax-exclusive.
var vatRate = decimal.NewFromFloat(0.24)

// Flat compensation rule for claims: 10% of the order gross, floored at 1.00.
var (
	claimCreditRate  = decimal.NewFromFloat(0.10)
	claimCreditFloor = decimal.NewFromInt(1)
)

// Note suffixes appended when an invoice is voided.
const (
	noteOrderCancelled    = "Cancelled due to order cancellation"
	noteProductReplaced   = "Replaced due to product substitution"
	noteClaimRejected     = "Cancelled due to claim rejection"
	noteClaimCompensation = "Compensation for claim"
)

// InvoiceService owns the invoice ledger: one active ORDER invoice per
// order, plus REFUND and MODIFICATION invoices layered on top.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	productRepo repository.ProductRepository
}

// NewInvoiceService creates the invoice service.
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, productRepo repository.ProductRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo, productRepo: productRepo}
}

// OpenOrderInvoice creates the ORDER invoice for the given lines inside tx.
// Fails when the order already has a non-cancelled ORDER invoice.
func (s *InvoiceService) OpenOrderInvoice(tx *gorm.DB, order *models.Order, lines []models.OrderLine) (*models.Invoice, error) {
	invoiceRepo := s.invoiceRepo.WithTx(tx)

	existing, err := invoiceRepo.GetActiveOrderInvoice(order.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrOrderInvoiceActive
	}

	items, total, err := s.buildOrderItems(tx, lines)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		InvoiceNo:   newBusinessNo(constants.InvoiceNoPrefix),
		OrderID:     &order.ID,
		InvoiceType: constants.InvoiceTypeOrder,
		Status:      constants.InvoiceStatusPending,
		TotalAmount: models.NewMoneyFromDecimal(total),
		TaxAmount:   models.NewMoneyFromDecimal(total.Mul(vatRate)),
		Currency:    order.Currency,
	}
	if err := invoiceRepo.Create(invoice, items); err != nil {
		return nil, err
	}
	return invoice, nil
}

// RegenerateOrderInvoice voids the active ORDER invoice with the given note
// and opens a fresh one priced from the current lines.
func (s *InvoiceService) RegenerateOrderInvoice(tx *gorm.DB, order *models.Order, lines []models.OrderLine, note string) (*models.Invoice, error) {
	invoiceRepo := s.invoiceRepo.WithTx(tx)

	active, err := invoiceRepo.GetActiveOrderInvoice(order.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		updates := map[string]interface{}{
			"status": constants.InvoiceStatusCancelled,
			"notes":  appendNote(active.Notes, note),
		}
		if err := invoiceRepo.UpdateFields(active.ID, updates); err != nil {
			return nil, err
		}
	}
	return s.OpenOrderInvoice(tx, order, lines)
}

// IssueModification creates a MODIFICATION invoice for a product swap on one
// line. The header total carries the magnitude of the price difference while
// the item keeps its sign.
func (s *InvoiceService) IssueModification(tx *gorm.DB, order *models.Order, line *models.OrderLine, oldProduct, newProduct *models.Product) (*models.Invoice, error) {
	invoiceRepo := s.invoiceRepo.WithTx(tx)

	qty := decimal.NewFromInt(int64(line.OrderedQty))
	unitDiff := newProduct.Price.Decimal.Sub(oldProduct.Price.Decimal)
	totalDiff := unitDiff.Mul(qty)
	if totalDiff.IsZero() {
		return nil, nil
	}
	magnitude := totalDiff.Abs()

	invoice := &models.Invoice{
		InvoiceNo:   newBusinessNo(constants.InvoiceNoPrefix),
		OrderID:     &order.ID,
		InvoiceType: constants.InvoiceTypeModification,
		Status:      constants.InvoiceStatusPending,
		TotalAmount: models.NewMoneyFromDecimal(magnitude),
		TaxAmount:   models.NewMoneyFromDecimal(magnitude.Mul(vatRate)),
		Currency:    order.Currency,
		Notes:       fmt.Sprintf("Price adjustment: %s replaced with %s", oldProduct.Code, newProduct.Code),
	}
	items := []models.InvoiceItem{
		{
			ProductCode: newProduct.Code,
			Description: fmt.Sprintf("Price difference %s -> %s", oldProduct.Code, newProduct.Code),
			Quantity:    line.OrderedQty,
			UnitPrice:   models.NewMoneyFromDecimal(unitDiff),
			TotalPrice:  models.NewMoneyFromDecimal(totalDiff),
		},
	}
	if err := invoiceRepo.Create(invoice, items); err != nil {
		return nil, err
	}
	return invoice, nil
}

// IssueRefund creates or updates the REFUND invoice of a claim. Repeated
// calls never produce a second active refund for the same claim.
func (s *InvoiceService) IssueRefund(tx *gorm.DB, claim *models.Claim, amount decimal.Decimal) (*models.Invoice, error) {
	invoiceRepo := s.invoiceRepo.WithTx(tx)

	if amount.LessThan(claimCreditFloor) {
		amount = claimCreditFloor
	}
	amount = amount.Round(2)

	item := models.InvoiceItem{
		Description: fmt.Sprintf("%s %s", noteClaimCompensation, claim.ClaimNo),
		Quantity:    1,
		UnitPrice:   models.NewMoneyFromDecimal(amount),
		TotalPrice:  models.NewMoneyFromDecimal(amount),
	}

	existing, err := invoiceRepo.GetActiveRefundInvoice(claim.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		updates := map[string]interface{}{
			"total_amount": models.NewMoneyFromDecimal(amount),
			"tax_amount":   models.NewMoneyFromDecimal(decimal.Zero),
		}
		if err := invoiceRepo.UpdateFields(existing.ID, updates); err != nil {
			return nil, err
		}
		if err := invoiceRepo.ReplaceItems(existing.ID, []models.InvoiceItem{item}); err != nil {
			return nil, err
		}
		return invoiceRepo.GetByID(existing.ID)
	}

	invoice := &models.Invoice{
		InvoiceNo:   newBusinessNo(constants.InvoiceNoPrefix),
		OrderID:     &claim.OrderID,
		ClaimID:     &claim.ID,
		InvoiceType: constants.InvoiceTypeRefund,
		Status:      constants.InvoiceStatusPending,
		TotalAmount: models.NewMoneyFromDecimal(amount),
		TaxAmount:   models.NewMoneyFromDecimal(decimal.Zero),
		Currency:    claim.Currency,
		Notes:       fmt.Sprintf("%s %s", noteClaimCompensation, claim.ClaimNo),
	}
	if err := invoiceRepo.Create(invoice, []models.InvoiceItem{item}); err != nil {
		return nil, err
	}
	return invoice, nil
}

// CancelAllForOrder voids every non-cancelled invoice of an order.
func (s *InvoiceService) CancelAllForOrder(tx *gorm.DB, orderID uint, note string) error {
	invoiceRepo := s.invoiceRepo.WithTx(tx)

	invoices, err := invoiceRepo.ListActiveByOrder(orderID)
	if err != nil {
		return err
	}
	for _, invoice := range invoices {
		updates := map[string]interface{}{
			"status": constants.InvoiceStatusCancelled,
			"notes":  appendNote(invoice.Notes, note),
		}
		if err := invoiceRepo.UpdateFields(invoice.ID, updates); err != nil {
			return err
		}
	}
	return nil
}

// CancelRefundForClaim voids the active REFUND invoice of a claim, if any.
func (s *InvoiceService) CancelRefundForClaim(tx *gorm.DB, claimID uint, note string) error {
	invoiceRepo := s.invoiceRepo.WithTx(tx)

	existing, err := invoiceRepo.GetActiveRefundInvoice(claimID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	updates := map[string]interface{}{
		"status": constants.InvoiceStatusCancelled,
		"notes":  appendNote(existing.Notes, note),
	}
	return invoiceRepo.UpdateFields(existing.ID, updates)
}

// GetByInvoiceNo loads an invoice by business number.
func (s *InvoiceService) GetByInvoiceNo(invoiceNo string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByInvoiceNo(invoiceNo)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

// ListByOrder returns every invoice issued for an order.
func (s *InvoiceService) ListByOrder(orderID uint) ([]models.Invoice, error) {
	return s.invoiceRepo.ListByOrder(orderID)
}

// ListByClaim returns every invoice issued for a claim.
func (s *InvoiceService) ListByClaim(claimID uint) ([]models.Invoice, error) {
	return s.invoiceRepo.ListByClaim(claimID)
}

// Verify checks the header total against the item sum. MODIFICATION items
// carry signed amounts, so the comparison uses the absolute sum.
func (s *InvoiceService) Verify(invoice *models.Invoice) error {
	sum := decimal.Zero
	for _, item := range invoice.Items {
		sum = sum.Add(item.TotalPrice.Decimal)
	}
	if invoice.InvoiceType == constants.InvoiceTypeModification {
		sum = sum.Abs()
	}
	if !invoice.TotalAmount.Decimal.Round(2).Equal(sum.Round(2)) {
		return ErrInvoiceAmountMismatch
	}
	return nil
}

// DefaultClaimCredit computes the flat compensation for a claim's order:
// 10% of the summed ordered quantities times current catalog prices,
// floored at 1.00.
func (s *InvoiceService) DefaultClaimCredit(tx *gorm.DB, lines []models.OrderLine) (decimal.Decimal, error) {
	productRepo := s.productRepo.WithTx(tx)

	codes := make([]string, 0, len(lines))
	for _, line := range lines {
		codes = append(codes, line.ProductCode)
	}
	products, err := productRepo.GetByCodes(codes)
	if err != nil {
		return decimal.Zero, err
	}

	gross := decimal.Zero
	for _, line := range lines {
		product, ok := products[line.ProductCode]
		if !ok {
			return decimal.Zero, ErrProductNotFound
		}
		gross = gross.Add(product.Price.Decimal.Mul(decimal.NewFromInt(int64(line.OrderedQty))))
	}

	credit := gross.Mul(claimCreditRate).Round(2)
	if credit.LessThan(claimCreditFloor) {
		credit = claimCreditFloor
	}
	return credit, nil
}

// buildOrderItems prices the order lines from the product catalog.
func (s *InvoiceService) buildOrderItems(tx *gorm.DB, lines []models.OrderLine) ([]models.InvoiceItem, decimal.Decimal, error) {
	productRepo := s.productRepo.WithTx(tx)

	codes := make([]string, 0, len(lines))
	for _, line := range lines {
		codes = append(codes, line.ProductCode)
	}
	products, err := productRepo.GetByCodes(codes)
	if err != nil {
		return nil, decimal.Zero, err
	}

	items := make([]models.InvoiceItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		product, ok := products[line.ProductCode]
		if !ok {
			return nil, decimal.Zero, ErrProductNotFound
		}
		lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(line.OrderedQty)))
		items = append(items, models.InvoiceItem{
			ProductCode: product.Code,
			Description: product.Name,
			Quantity:    line.OrderedQty,
			UnitPrice:   product.Price,
			TotalPrice:  models.NewMoneyFromDecimal(lineTotal),
		})
		total = total.Add(lineTotal)
	}
	return items, total, nil
}

// appendNote appends a note segment with the " | " separator.
func appendNote(existing, note string) string {
	if note == "" {
		return existing
	}
	if existing == "" {
		return note
	}
	return existing + " | " + note
}
