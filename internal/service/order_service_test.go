package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderSubstitute{},
		&models.OrderChange{},
		&models.OrderTracking{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Message{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	invoiceSvc := NewInvoiceService(repository.NewInvoiceRepository(db), repository.NewProductRepository(db))
	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewProductRepository(db),
		repository.NewMessageRepository(db),
		invoiceSvc,
	)
	return svc, db
}

func seedOrderCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()
	customer := &models.Customer{Code: "CUST-1001", Name: "Ravintola Aurora", City: "Helsinki"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return customer
}

func seedOrderProduct(t *testing.T, db *gorm.DB, code, price string) {
	t.Helper()
	product := models.Product{
		Code:     code,
		Name:     "Product " + code,
		Unit:     "pcs",
		Price:    models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		Currency: "EUR",
		IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func validPlaceOrderInput(customerID uint) PlaceOrderInput {
	return PlaceOrderInput{
		CustomerID:          customerID,
		DeliveryDate:        futureDate(3),
		DeliveryWindowStart: "08:00",
		DeliveryWindowEnd:   "12:00",
		Lines: []PlaceOrderLine{
			{
				ProductCode:  "MILK-1L",
				Quantity:     10,
				ItemPriority: constants.LinePriorityCritical,
				Substitutes: []SubstitutePreference{
					{ProductCode: "MILK-1L-LACTOFREE", Priority: constants.SubstitutePriorityPrimary},
				},
			},
		},
		Actor: "customer",
	}
}

func TestPlaceOrderCreatesInvoiceAndTracking(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := seedOrderCustomer(t, db)
	seedOrderProduct(t, db, "MILK-1L", "1.50")
	seedOrderProduct(t, db, "MILK-1L-LACTOFREE", "2.00")

	order, err := svc.PlaceOrder(validPlaceOrderInput(customer.ID))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPlaced {
		t.Fatalf("status want placed got %s", order.Status)
	}
	if !strings.HasPrefix(order.OrderNo, "ORD-") {
		t.Fatalf("order_no should carry the ORD prefix, got %s", order.OrderNo)
	}
	if order.Plant != constants.DefaultPlant || order.StorageLocation != constants.DefaultStorageLocation {
		t.Fatalf("defaults missing: plant=%s storage=%s", order.Plant, order.StorageLocation)
	}
	if len(order.Lines) != 1 || len(order.Lines[0].Substitutes) != 1 {
		t.Fatalf("expected one line with one substitute, got %+v", order.Lines)
	}

	var invoice models.Invoice
	if err := db.Where("order_id = ? AND invoice_type = ?", order.ID, constants.InvoiceTypeOrder).
		First(&invoice).Error; err != nil {
		t.Fatalf("order invoice missing: %v", err)
	}
	if !invoice.TotalAmount.Decimal.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("invoice total want 15.00 got %s", invoice.TotalAmount.Decimal)
	}

	tracking, err := svc.Tracking(order.OrderNo)
	if err != nil {
		t.Fatalf("load tracking failed: %v", err)
	}
	if len(tracking) != 1 || tracking[0].ToStatus != constants.OrderStatusPlaced {
		t.Fatalf("expected one placed tracking entry, got %+v", tracking)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := seedOrderCustomer(t, db)
	seedOrderProduct(t, db, "MILK-1L", "1.50")
	seedOrderProduct(t, db, "MILK-1L-LACTOFREE", "2.00")

	cases := []struct {
		name    string
		mutate  func(*PlaceOrderInput)
		wantErr error
	}{
		{
			name:    "unknown customer",
			mutate:  func(in *PlaceOrderInput) { in.CustomerID = 999 },
			wantErr: ErrCustomerNotFound,
		},
		{
			name:    "past delivery date",
			mutate:  func(in *PlaceOrderInput) { in.DeliveryDate = "2020-01-01" },
			wantErr: ErrDeliveryDateInvalid,
		},
		{
			name:    "today is not allowed",
			mutate:  func(in *PlaceOrderInput) { in.DeliveryDate = time.Now().Format("2006-01-02") },
			wantErr: ErrDeliveryDateInvalid,
		},
		{
			name:    "window start after end",
			mutate:  func(in *PlaceOrderInput) { in.DeliveryWindowStart = "14:00"; in.DeliveryWindowEnd = "10:00" },
			wantErr: ErrDeliveryWindowInvalid,
		},
		{
			name:    "zero quantity",
			mutate:  func(in *PlaceOrderInput) { in.Lines[0].Quantity = 0 },
			wantErr: ErrOrderLineInvalid,
		},
		{
			name:    "unknown priority",
			mutate:  func(in *PlaceOrderInput) { in.Lines[0].ItemPriority = "URGENT" },
			wantErr: ErrOrderLineInvalid,
		},
		{
			name: "too many substitutes",
			mutate: func(in *PlaceOrderInput) {
				in.Lines[0].Substitutes = []SubstitutePreference{
					{ProductCode: "A", Priority: 1},
					{ProductCode: "B", Priority: 2},
					{ProductCode: "C", Priority: 1},
				}
			},
			wantErr: ErrSubstituteInvalid,
		},
		{
			name: "duplicate substitute priority",
			mutate: func(in *PlaceOrderInput) {
				in.Lines[0].Substitutes = []SubstitutePreference{
					{ProductCode: "MILK-1L-LACTOFREE", Priority: 1},
					{ProductCode: "MILK-1L", Priority: 1},
				}
			},
			wantErr: ErrSubstituteInvalid,
		},
		{
			name:    "unknown product",
			mutate:  func(in *PlaceOrderInput) { in.Lines[0].ProductCode = "NOPE" },
			wantErr: ErrProductNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validPlaceOrderInput(customer.ID)
			tc.mutate(&input)
			if _, err := svc.PlaceOrder(input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := seedOrderCustomer(t, db)
	seedOrderProduct(t, db, "MILK-1L", "1.50")
	seedOrderProduct(t, db, "MILK-1L-LACTOFREE", "2.00")

	order, err := svc.PlaceOrder(validPlaceOrderInput(customer.ID))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	// placed cannot jump straight to delivered.
	if _, err := svc.UpdateStatus(order.OrderNo, constants.OrderStatusDelivered, "admin", ""); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("want ErrOrderTransitionInvalid got %v", err)
	}

	for _, status := range []string{
		constants.OrderStatusPicking,
		constants.OrderStatusDelivering,
		constants.OrderStatusDelivered,
	} {
		if _, err := svc.UpdateStatus(order.OrderNo, status, "admin", ""); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}

	delivered, err := svc.GetByOrderNo(order.OrderNo)
	if err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if delivered.DeliveredAt == nil {
		t.Fatalf("delivered_at should be stamped")
	}

	// Terminal states accept nothing further.
	if _, err := svc.UpdateStatus(order.OrderNo, constants.OrderStatusCancelled, "admin", ""); !errors.Is(err, ErrOrderStateInvalid) {
		t.Fatalf("want ErrOrderStateInvalid got %v", err)
	}

	tracking, err := svc.Tracking(order.OrderNo)
	if err != nil {
		t.Fatalf("load tracking failed: %v", err)
	}
	if len(tracking) != 4 {
		t.Fatalf("tracking entries want 4 got %d", len(tracking))
	}
}

func TestCancelVoidsInvoicesAndNotifies(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := seedOrderCustomer(t, db)
	seedOrderProduct(t, db, "MILK-1L", "1.50")
	seedOrderProduct(t, db, "MILK-1L-LACTOFREE", "2.00")

	order, err := svc.PlaceOrder(validPlaceOrderInput(customer.ID))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	cancelled, err := svc.Cancel(order.OrderNo, "admin", "customer request")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Fatalf("cancelled_at should be stamped")
	}

	var invoice models.Invoice
	if err := db.Where("order_id = ?", order.ID).First(&invoice).Error; err != nil {
		t.Fatalf("load invoice failed: %v", err)
	}
	if invoice.Status != constants.InvoiceStatusCancelled {
		t.Fatalf("invoice status want cancelled got %s", invoice.Status)
	}
	if !strings.HasSuffix(invoice.Notes, noteOrderCancelled) {
		t.Fatalf("invoice note should end with %q, got %q", noteOrderCancelled, invoice.Notes)
	}

	var messages []models.Message
	if err := db.Where("order_id = ?", order.ID).Find(&messages).Error; err != nil {
		t.Fatalf("load messages failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("cancel should post one message, got %d", len(messages))
	}
}
