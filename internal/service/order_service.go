package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/logger"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"

	"gorm.io/gorm"
)

// allowedTransitions order status state machine. Delivered and cancelled are
// terminal; cancellation is reachable from every non-terminal state.
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPlaced: {
		constants.OrderStatusUnderRisk:       true,
		constants.OrderStatusWaitingCustomer: true,
		constants.OrderStatusPicking:         true,
		constants.OrderStatusCancelled:       true,
	},
	constants.OrderStatusUnderRisk: {
		constants.OrderStatusWaitingCustomer: true,
		constants.OrderStatusPicking:         true,
		constants.OrderStatusCancelled:       true,
	},
	constants.OrderStatusWaitingCustomer: {
		constants.OrderStatusPicking:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusPicking: {
		constants.OrderStatusDelivering: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusDelivering: {
		constants.OrderStatusDelivered: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusDelivered: {},
	constants.OrderStatusCancelled: {},
}

var validItemPriorities = map[string]bool{
	constants.LinePriorityCritical:  true,
	constants.LinePriorityImportant: true,
	constants.LinePriorityFlexible:  true,
}

// SubstitutePreference one allowed replacement for an order line.
type SubstitutePreference struct {
	ProductCode string
	Priority    int
}

// PlaceOrderLine one requested line on a new order.
type PlaceOrderLine struct {
	ProductCode  string
	Quantity     int
	ItemPriority string
	Substitutes  []SubstitutePreference
}

// PlaceOrderInput input for order placement.
type PlaceOrderInput struct {
	CustomerID          uint
	DeliveryDate        string
	DeliveryWindowStart string
	DeliveryWindowEnd   string
	Lines               []PlaceOrderLine
	Actor               string
}

// OrderService drives the order lifecycle from placement to a terminal state.
type OrderService struct {
	orderRepo      repository.OrderRepository
	customerRepo   repository.CustomerRepository
	productRepo    repository.ProductRepository
	messageRepo    repository.MessageRepository
	invoiceService *InvoiceService
}

// NewOrderService creates the order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	messageRepo repository.MessageRepository,
	invoiceService *InvoiceService,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		customerRepo:   customerRepo,
		productRepo:    productRepo,
		messageRepo:    messageRepo,
		invoiceService: invoiceService,
	}
}

// PlaceOrder validates the request and creates the order, its lines,
// substitute preferences, the first tracking entry and the ORDER invoice in
// one transaction.
func (s *OrderService) PlaceOrder(input PlaceOrderInput) (*models.Order, error) {
	customer, err := s.customerRepo.GetByID(input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	if err := validateDeliverySchedule(input.DeliveryDate, input.DeliveryWindowStart, input.DeliveryWindowEnd); err != nil {
		return nil, err
	}
	if err := s.validateLines(input.Lines); err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNo:             newBusinessNo(constants.OrderNoPrefix),
		CustomerID:          customer.ID,
		Status:              constants.OrderStatusPlaced,
		DeliveryDate:        input.DeliveryDate,
		DeliveryWindowStart: input.DeliveryWindowStart,
		DeliveryWindowEnd:   input.DeliveryWindowEnd,
		Plant:               constants.DefaultPlant,
		StorageLocation:     constants.DefaultStorageLocation,
		Currency:            constants.SiteCurrencyDefault,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		lines := make([]models.OrderLine, 0, len(input.Lines))
		for _, in := range input.Lines {
			priority := in.ItemPriority
			if priority == "" {
				priority = constants.LinePriorityFlexible
			}
			lines = append(lines, models.OrderLine{
				ProductCode:  in.ProductCode,
				OrderedQty:   in.Quantity,
				ItemPriority: priority,
				LineStatus:   constants.LineStatusOK,
			})
		}
		if err := orderRepo.Create(order, lines); err != nil {
			return err
		}

		subs := make([]models.OrderSubstitute, 0)
		for i, in := range input.Lines {
			for _, pref := range in.Substitutes {
				subs = append(subs, models.OrderSubstitute{
					OrderID:               order.ID,
					OrderLineID:           order.Lines[i].ID,
					SubstituteProductCode: pref.ProductCode,
					Priority:              pref.Priority,
				})
			}
		}
		if err := orderRepo.CreateSubstitutes(subs); err != nil {
			return err
		}

		if err := orderRepo.AppendTracking(&models.OrderTracking{
			OrderID:  order.ID,
			ToStatus: constants.OrderStatusPlaced,
			Actor:    input.Actor,
		}); err != nil {
			return err
		}

		if _, err := s.invoiceService.OpenOrderInvoice(tx, order, order.Lines); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order placed", "order_no", order.OrderNo, "customer_id", order.CustomerID)
	return s.orderRepo.GetByID(order.ID)
}

// UpdateStatus moves an order along the state machine, appends a tracking
// entry and runs the side effects of the target state.
func (s *OrderService) UpdateStatus(orderNo, target, actor, notes string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	allowed, known := allowedTransitions[order.Status]
	if known && len(allowed) == 0 {
		return nil, ErrOrderStateInvalid
	}
	if !allowed[target] {
		return nil, ErrOrderTransitionInvalid
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		messageRepo := s.messageRepo.WithTx(tx)

		updates := map[string]interface{}{}
		now := time.Now()
		switch target {
		case constants.OrderStatusCancelled:
			updates["cancelled_at"] = &now
		case constants.OrderStatusDelivered:
			updates["delivered_at"] = &now
		}
		if err := orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
			return err
		}

		if err := orderRepo.AppendTracking(&models.OrderTracking{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   target,
			Actor:      actor,
			Notes:      notes,
		}); err != nil {
			return err
		}

		switch target {
		case constants.OrderStatusCancelled:
			if err := s.invoiceService.CancelAllForOrder(tx, order.ID, noteOrderCancelled); err != nil {
				return err
			}
			if err := messageRepo.Append(&models.Message{
				OrderID:    &order.ID,
				SenderType: constants.SenderTypeAdmin,
				SenderName: actor,
				Content:    fmt.Sprintf("Order %s was cancelled and all open invoices were voided.", order.OrderNo),
			}); err != nil {
				return err
			}
		case constants.OrderStatusWaitingCustomer:
			if err := messageRepo.Append(&models.Message{
				OrderID:    &order.ID,
				SenderType: constants.SenderTypeAdmin,
				SenderName: actor,
				Content:    fmt.Sprintf("Order %s needs your attention: please review the proposed changes.", order.OrderNo),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order status updated",
		"order_no", order.OrderNo, "from", order.Status, "to", target, "actor", actor)
	return s.orderRepo.GetByID(order.ID)
}

// Cancel moves an order to cancelled, voiding its invoices.
func (s *OrderService) Cancel(orderNo, actor, reason string) (*models.Order, error) {
	return s.UpdateStatus(orderNo, constants.OrderStatusCancelled, actor, reason)
}

// GetByOrderNo loads an order by business number.
func (s *OrderService) GetByOrderNo(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List lists orders for the given filter.
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// Tracking returns the status trail of an order.
func (s *OrderService) Tracking(orderNo string) ([]models.OrderTracking, error) {
	order, err := s.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.ListTracking(order.ID)
}

// Changes returns the product swap audit trail of an order.
func (s *OrderService) Changes(orderNo string) ([]models.OrderChange, error) {
	order, err := s.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.ListChanges(order.ID)
}

// validateDeliverySchedule checks the date is strictly in the future and the
// window is a valid HH:MM pair with start before end.
func validateDeliverySchedule(date, start, end string) error {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ErrDeliveryDateInvalid
	}
	today, _ := time.Parse("2006-01-02", time.Now().Format("2006-01-02"))
	if !d.After(today) {
		return ErrDeliveryDateInvalid
	}

	st, err := time.Parse("15:04", start)
	if err != nil {
		return ErrDeliveryWindowInvalid
	}
	en, err := time.Parse("15:04", end)
	if err != nil {
		return ErrDeliveryWindowInvalid
	}
	if !st.Before(en) {
		return ErrDeliveryWindowInvalid
	}
	return nil
}

// validateLines checks quantities, priorities, substitute preferences and
// product existence for every requested line.
func (s *OrderService) validateLines(lines []PlaceOrderLine) error {
	if len(lines) == 0 {
		return ErrOrderLineInvalid
	}

	codes := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.ProductCode) == "" || line.Quantity <= 0 {
			return ErrOrderLineInvalid
		}
		if line.ItemPriority != "" && !validItemPriorities[line.ItemPriority] {
			return ErrOrderLineInvalid
		}
		if len(line.Substitutes) > 2 {
			return ErrSubstituteInvalid
		}
		seen := map[int]bool{}
		for _, pref := range line.Substitutes {
			if pref.Priority != constants.SubstitutePriorityPrimary && pref.Priority != constants.SubstitutePrioritySecondary {
				return ErrSubstituteInvalid
			}
			if seen[pref.Priority] {
				return ErrSubstituteInvalid
			}
			seen[pref.Priority] = true
			if strings.TrimSpace(pref.ProductCode) == "" {
				return ErrSubstituteInvalid
			}
			codes = append(codes, pref.ProductCode)
		}
		codes = append(codes, line.ProductCode)
	}

	products, err := s.productRepo.GetByCodes(codes)
	if err != nil {
		return err
	}
	for _, code := range codes {
		if _, ok := products[code]; !ok {
			return ErrProductNotFound
		}
	}
	return nil
}
