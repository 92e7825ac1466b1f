package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/ai/riskmodel"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakePredictor struct {
	result  *riskmodel.BatchResult
	err     error
	lastIn  []riskmodel.OrderInput
	batches int
}

func (f *fakePredictor) Predict(ctx context.Context, input riskmodel.OrderInput) (*riskmodel.Prediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.result.Predictions[0], nil
}

func (f *fakePredictor) PredictBatch(ctx context.Context, inputs []riskmodel.OrderInput) (*riskmodel.BatchResult, error) {
	f.batches++
	f.lastIn = inputs
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func setupRiskServiceTest(t *testing.T, predictor riskmodel.Client) (*RiskService, *OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:risk_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	orderSvc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewProductRepository(db),
		repository.NewMessageRepository(db),
		invoiceSvc,
	)
	riskSvc := NewRiskService(repository.NewOrderRepository(db), predictor)
	return riskSvc, orderSvc, db
}

func placeRiskOrder(t *testing.T, orderSvc *OrderService, db *gorm.DB) *models.Order {
	t.Helper()
	customer := &models.Customer{Code: "CUST-4001", Name: "Ravintola Aurora", City: "Helsinki"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	for code, price := range map[string]string{
		"MILK-1L":  "1.50",
		"RYE-LOAF": "2.80",
	} {
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

	order, err := orderSvc.PlaceOrder(PlaceOrderInput{
		CustomerID:          customer.ID,
		DeliveryDate:        time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		DeliveryWindowStart: "08:00",
		DeliveryWindowEnd:   "12:00",
		Lines: []PlaceOrderLine{
			{ProductCode: "MILK-1L", Quantity: 10},
			{ProductCode: "RYE-LOAF", Quantity: 5},
		},
		Actor: "customer",
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	return order
}

func prediction(code string, probability float64) riskmodel.Prediction {
	flag := 0
	if probability >= 0.5 {
		flag = 1
	}
	return riskmodel.Prediction{
		ProductCode:         code,
		CustomerNumber:      "CUST-4001",
		ShortageProbability: probability,
		ShortageFlag:        flag,
		ThresholdUsed:       0.5,
	}
}

func batchResult(predictions ...riskmodel.Prediction) *riskmodel.BatchResult {
	result := &riskmodel.BatchResult{
		Predictions: predictions,
		TotalOrders: len(predictions),
	}
	for _, p := range predictions {
		if p.ShortageFlag == 1 {
			result.HighRiskCount++
		}
	}
	return result
}

func TestAssessOrderFlagsHighRisk(t *testing.T) {
	fake := &fakePredictor{result: batchResult(
		prediction("MILK-1L", 0.2),
		prediction("RYE-LOAF", 0.7),
	)}
	riskSvc, orderSvc, db := setupRiskServiceTest(t, fake)
	order := placeRiskOrder(t, orderSvc, db)

	assessment, err := riskSvc.AssessOrder(context.Background(), order.OrderNo, "admin")
	if err != nil {
		t.Fatalf("assess failed: %v", err)
	}
	if fake.batches != 1 || len(fake.lastIn) != 2 {
		t.Fatalf("expected one batch with 2 lines, got %d/%d", fake.batches, len(fake.lastIn))
	}
	first := fake.lastIn[0]
	if first.CustomerNumber != "CUST-4001" {
		t.Fatalf("inputs should carry the customer number, got %q", first.CustomerNumber)
	}
	if first.OrderCreatedDate == "" || first.RequestedDeliveryDate == "" {
		t.Fatalf("inputs should carry both dates: %+v", first)
	}
	if first.Plant != constants.DefaultPlant || first.StorageLocation != constants.DefaultStorageLocation {
		t.Fatalf("inputs should carry the logistics defaults: %+v", first)
	}
	if first.OrderQty != 10 {
		t.Fatalf("order qty want 10 got %d", first.OrderQty)
	}

	// Overall risk is the worst line.
	if assessment.OverallRisk != 0.7 {
		t.Fatalf("overall risk want 0.7 got %f", assessment.OverallRisk)
	}
	if assessment.HighRiskCount != 1 {
		t.Fatalf("high risk count want 1 got %d", assessment.HighRiskCount)
	}
	if assessment.Order.Status != constants.OrderStatusUnderRisk {
		t.Fatalf("status want under_risk got %s", assessment.Order.Status)
	}
	if assessment.Order.OverallRiskScore == nil || *assessment.Order.OverallRiskScore != 0.7 {
		t.Fatalf("overall_risk_score not stored: %+v", assessment.Order.OverallRiskScore)
	}
	if assessment.Order.Lines[1].RiskScore == nil || *assessment.Order.Lines[1].RiskScore != 0.7 {
		t.Fatalf("line risk score not stored: %+v", assessment.Order.Lines[1].RiskScore)
	}

	var tracking []models.OrderTracking
	if err := db.Where("order_id = ?", order.ID).Order("id").Find(&tracking).Error; err != nil {
		t.Fatalf("load tracking failed: %v", err)
	}
	last := tracking[len(tracking)-1]
	if last.FromStatus != constants.OrderStatusPlaced || last.ToStatus != constants.OrderStatusUnderRisk {
		t.Fatalf("tracking should record the risk flip, got %+v", last)
	}
}

func TestAssessOrderMatchesPredictionsByProduct(t *testing.T) {
	// Predictions come back in the opposite order of the submitted lines.
	fake := &fakePredictor{result: batchResult(
		prediction("RYE-LOAF", 0.7),
		prediction("MILK-1L", 0.2),
	)}
	riskSvc, orderSvc, db := setupRiskServiceTest(t, fake)
	order := placeRiskOrder(t, orderSvc, db)

	assessment, err := riskSvc.AssessOrder(context.Background(), order.OrderNo, "admin")
	if err != nil {
		t.Fatalf("assess failed: %v", err)
	}

	byProduct := map[string]*float64{}
	for _, line := range assessment.Order.Lines {
		byProduct[line.ProductCode] = line.RiskScore
	}
	if byProduct["MILK-1L"] == nil || *byProduct["MILK-1L"] != 0.2 {
		t.Fatalf("MILK-1L score want 0.2 got %+v", byProduct["MILK-1L"])
	}
	if byProduct["RYE-LOAF"] == nil || *byProduct["RYE-LOAF"] != 0.7 {
		t.Fatalf("RYE-LOAF score want 0.7 got %+v", byProduct["RYE-LOAF"])
	}
}

func TestAssessOrderBelowThresholdKeepsStatus(t *testing.T) {
	fake := &fakePredictor{result: batchResult(
		prediction("MILK-1L", 0.1),
		prediction("RYE-LOAF", 0.3),
	)}
	riskSvc, orderSvc, db := setupRiskServiceTest(t, fake)
	order := placeRiskOrder(t, orderSvc, db)

	assessment, err := riskSvc.AssessOrder(context.Background(), order.OrderNo, "admin")
	if err != nil {
		t.Fatalf("assess failed: %v", err)
	}
	if assessment.Order.Status != constants.OrderStatusPlaced {
		t.Fatalf("status want placed got %s", assessment.Order.Status)
	}
	if assessment.Order.OverallRiskScore == nil || *assessment.Order.OverallRiskScore != 0.3 {
		t.Fatalf("overall_risk_score want 0.3 got %+v", assessment.Order.OverallRiskScore)
	}
}

func TestAssessOrderDoesNotFlagMidFulfilment(t *testing.T) {
	fake := &fakePredictor{result: batchResult(
		prediction("MILK-1L", 0.9),
		prediction("RYE-LOAF", 0.9),
	)}
	riskSvc, orderSvc, db := setupRiskServiceTest(t, fake)
	order := placeRiskOrder(t, orderSvc, db)

	if _, err := orderSvc.UpdateStatus(order.OrderNo, constants.OrderStatusPicking, "admin", ""); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	// Scores persist but only placed orders flip to under_risk.
	assessment, err := riskSvc.AssessOrder(context.Background(), order.OrderNo, "admin")
	if err != nil {
		t.Fatalf("assess failed: %v", err)
	}
	if assessment.Order.Status != constants.OrderStatusPicking {
		t.Fatalf("status want picking got %s", assessment.Order.Status)
	}
	if assessment.Order.OverallRiskScore == nil || *assessment.Order.OverallRiskScore != 0.9 {
		t.Fatalf("overall_risk_score want 0.9 got %+v", assessment.Order.OverallRiskScore)
	}
}

func TestAssessOrderRejectsTerminalOrder(t *testing.T) {
	riskSvc, orderSvc, db := setupRiskServiceTest(t, &fakePredictor{result: batchResult(
		prediction("MILK-1L", 0.1),
		prediction("RYE-LOAF", 0.1),
	)})
	order := placeRiskOrder(t, orderSvc, db)

	if _, err := orderSvc.Cancel(order.OrderNo, "admin", ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := riskSvc.AssessOrder(context.Background(), order.OrderNo, "admin"); !errors.Is(err, ErrOrderStateInvalid) {
		t.Fatalf("want ErrOrderStateInvalid got %v", err)
	}
}

func TestAssessOrderWrapsPredictorFailure(t *testing.T) {
	fake := &fakePredictor{err: errors.New("connection refused")}
	riskSvc, orderSvc, db := setupRiskServiceTest(t, fake)
	order := placeRiskOrder(t, orderSvc, db)

	if _, err := riskSvc.AssessOrder(context.Background(), order.OrderNo, "admin"); !errors.Is(err, ErrExternalServiceFailure) {
		t.Fatalf("want ErrExternalServiceFailure got %v", err)
	}

	// Nothing persisted on failure.
	reloaded := &models.Order{}
	if err := db.First(reloaded, order.ID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if reloaded.OverallRiskScore != nil {
		t.Fatalf("score should not be stored on failure, got %+v", reloaded.OverallRiskScore)
	}
}

func TestAssessOrderUnknownOrder(t *testing.T) {
	riskSvc, _, _ := setupRiskServiceTest(t, &fakePredictor{result: batchResult(prediction("MILK-1L", 0.1))})

	if _, err := riskSvc.AssessOrder(context.Background(), "ORD-MISSING", "admin"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}

func TestBuildRiskInputsValidation(t *testing.T) {
	customer := &models.Customer{Code: "CUST-4001"}

	if _, err := buildRiskInputs(&models.Order{DeliveryDate: "2026-09-01", Customer: customer}); !errors.Is(err, ErrRiskInputInvalid) {
		t.Fatalf("empty lines: want ErrRiskInputInvalid got %v", err)
	}
	if _, err := buildRiskInputs(&models.Order{
		DeliveryDate: "2026-09-01",
		Lines:        []models.OrderLine{{ProductCode: "MILK-1L", OrderedQty: 1}},
	}); !errors.Is(err, ErrRiskInputInvalid) {
		t.Fatalf("missing customer: want ErrRiskInputInvalid got %v", err)
	}
	if _, err := buildRiskInputs(&models.Order{
		DeliveryDate: "not-a-date",
		Customer:     customer,
		Lines:        []models.OrderLine{{ProductCode: "MILK-1L", OrderedQty: 1}},
	}); !errors.Is(err, ErrRiskInputInvalid) {
		t.Fatalf("bad date: want ErrRiskInputInvalid got %v", err)
	}
	if _, err := buildRiskInputs(&models.Order{
		DeliveryDate: "2026-09-01",
		Customer:     customer,
		Lines:        []models.OrderLine{{ProductCode: "", OrderedQty: 1}},
	}); !errors.Is(err, ErrRiskInputInvalid) {
		t.Fatalf("empty product: want ErrRiskInputInvalid got %v", err)
	}
}
