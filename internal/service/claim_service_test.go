package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/ai/adjudicator"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/queue"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeAdjudicator struct {
	decision *adjudicator.Decision
	err      error
	lastReq  adjudicator.Request
	calls    int
}

func (f *fakeAdjudicator) Adjudicate(ctx context.Context, req adjudicator.Request) (*adjudicator.Decision, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.decision, nil
}

type fakeTriageQueue struct {
	payloads []queue.ClaimTriagePayload
	err      error
}

func (f *fakeTriageQueue) EnqueueClaimTriage(payload queue.ClaimTriagePayload) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func setupClaimServiceTest(t *testing.T, adj adjudicator.Client) (*ClaimService, *OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:claim_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
		&models.Claim{},
		&models.ClaimLine{},
		&models.ClaimAttachment{},
		&models.ClaimProcessing{},
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
	queueClient, _ := queue.NewClient(nil)
	claimSvc := NewClaimService(
		repository.NewClaimRepository(db),
		repository.NewOrderRepository(db),
		repository.NewMessageRepository(db),
		invoiceSvc,
		queueClient,
		adj,
	)
	return claimSvc, orderSvc, db
}

// placeDeliveredOrder walks a 10x1.50 order to delivered so claims can be
// filed against it.
func placeDeliveredOrder(t *testing.T, orderSvc *OrderService, db *gorm.DB) *models.Order {
	t.Helper()
	customer := &models.Customer{Code: "CUST-3001", Name: "Kahvila Satama", City: "Turku"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	product := models.Product{
		Code:     "MILK-1L",
		Name:     "Whole Milk 1L",
		Unit:     "pcs",
		Price:    models.NewMoneyFromDecimal(decimal.RequireFromString("1.50")),
		Currency: "EUR",
		IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	order, err := orderSvc.PlaceOrder(PlaceOrderInput{
		CustomerID:          customer.ID,
		DeliveryDate:        time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		DeliveryWindowStart: "08:00",
		DeliveryWindowEnd:   "12:00",
		Lines: []PlaceOrderLine{
			{ProductCode: "MILK-1L", Quantity: 10, ItemPriority: constants.LinePriorityCritical},
		},
		Actor: "customer",
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	for _, status := range []string{
		constants.OrderStatusPicking,
		constants.OrderStatusDelivering,
		constants.OrderStatusDelivered,
	} {
		if _, err := orderSvc.UpdateStatus(order.OrderNo, status, "admin", ""); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}
	delivered, err := orderSvc.GetByOrderNo(order.OrderNo)
	if err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	return delivered
}

func fileClaim(t *testing.T, claimSvc *ClaimService, orderNo string) *models.Claim {
	t.Helper()
	claim, err := claimSvc.Intake(ClaimIntakeInput{
		OrderNo:     orderNo,
		ClaimType:   constants.ClaimTypeDamagedItem,
		Description: "Two cartons arrived crushed",
		ProductCode: "MILK-1L",
		Quantity:    2,
		Actor:       "customer",
	})
	if err != nil {
		t.Fatalf("intake failed: %v", err)
	}
	return claim
}

// resetClaimToOpen rewinds a claim so the triage path can be exercised
// without a live queue.
func resetClaimToOpen(t *testing.T, db *gorm.DB, claimID uint) {
	t.Helper()
	if err := db.Model(&models.Claim{}).Where("id = ?", claimID).
		Update("status", constants.ClaimStatusOpen).Error; err != nil {
		t.Fatalf("reset claim failed: %v", err)
	}
}

func TestIntakeValidation(t *testing.T) {
	claimSvc, orderSvc, db := setupClaimServiceTest(t, &fakeAdjudicator{})
	order := placeDeliveredOrder(t, orderSvc, db)

	if _, err := claimSvc.Intake(ClaimIntakeInput{
		OrderNo: order.OrderNo, ClaimType: "LOST_IN_SPACE", Description: "x",
	}); !errors.Is(err, ErrClaimTypeInvalid) {
		t.Fatalf("want ErrClaimTypeInvalid got %v", err)
	}
	if _, err := claimSvc.Intake(ClaimIntakeInput{
		OrderNo: order.OrderNo, ClaimType: constants.ClaimTypeMissingItem, Description: "  ",
	}); !errors.Is(err, ErrClaimReasonRequired) {
		t.Fatalf("want ErrClaimReasonRequired got %v", err)
	}
	if _, err := claimSvc.Intake(ClaimIntakeInput{
		OrderNo: "ORD-MISSING", ClaimType: constants.ClaimTypeMissingItem, Description: "x",
	}); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}

func TestIntakeRequiresDeliveredOrder(t *testing.T) {
	claimSvc, orderSvc, db := setupClaimServiceTest(t, &fakeAdjudicator{})
	order := placeDeliveredOrder(t, orderSvc, db)

	// A second order that never reaches delivered.
	pending, err := orderSvc.PlaceOrder(PlaceOrderInput{
		CustomerID:          order.CustomerID,
		DeliveryDate:        time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
		DeliveryWindowStart: "08:00",
		DeliveryWindowEnd:   "12:00",
		Lines: []PlaceOrderLine{
			{ProductCode: "MILK-1L", Quantity: 1},
		},
		Actor: "customer",
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if _, err := claimSvc.Intake(ClaimIntakeInput{
		OrderNo:     pending.OrderNo,
		ClaimType:   constants.ClaimTypeMissingItem,
		Description: "missing",
	}); !errors.Is(err, ErrClaimOrderNotDelivered) {
		t.Fatalf("want ErrClaimOrderNotDelivered got %v", err)
	}
}

func TestIntakeWithoutQueueRoutesToManualReview(t *testing.T) {
	claimSvc, orderSvc, db := setupClaimServiceTest(t, &fakeAdjudicator{})
	order := placeDeliveredOrder(t, orderSvc, db)

	claim := fileClaim(t, claimSvc, order.OrderNo)
	if claim.Status != constants.ClaimStatusManualReview {
		t.Fatalf("status want manual_review got %s", claim.Status)
	}
	if !strings.HasPrefix(claim.ClaimNo, "CLM-") {
		t.Fatalf("claim_no should carry the CLM prefix, got %s", claim.ClaimNo)
	}
	if claim.Processing == nil {
		t.Fatalf("processing record missing")
	}
	if claim.Processing.AIProcessed {
		t.Fatalf("ai_processed should stay false without triage")
	}
	if !claim.Processing.RequiresManualReview {
		t.Fatalf("requires_manual_review should be set")
	}
	if claim.Processing.AIConfidence != 0 {
		t.Fatalf("ai_confidence want 0 got %f", claim.Processing.AIConfidence)
	}

	var messages []models.Message
	if err := db.Where("claim_id = ?", claim.ID).Find(&messages).Error; err != nil {
		t.Fatalf("load messages failed: %v", err)
	}
	if len(messages) != 1 || messages[0].SenderType != constants.SenderTypeCustomer {
		t.Fatalf("intake should post one customer message, got %+v", messages)
	}
}

func TestTriageApproveIssuesRefund(t *testing.T) {
	credit := 3.75
	fake := &fakeAdjudicator{decision: &adjudicator.Decision{
		Decision:     adjudicator.DecisionApprove,
		Confidence:   0.92,
		Summary:      "Damage visible on the attached photos",
		CreditAmount: &credit,
	}}
	claimSvc, orderSvc, db := setupClaimServiceTest(t, fake)
	order := placeDeliveredOrder(t, orderSvc, db)
	claim := fileClaim(t, claimSvc, order.OrderNo)
	resetClaimToOpen(t, db, claim.ID)

	if err := claimSvc.Triage(context.Background(), claim.ID); err != nil {
		t.Fatalf("triage failed: %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("adjudicator calls want 1 got %d", fake.calls)
	}
	if fake.lastReq.ClaimNo != claim.ClaimNo || fake.lastReq.OrderNo != order.OrderNo {
		t.Fatalf("adjudication request incomplete: %+v", fake.lastReq)
	}

	updated, err := claimSvc.GetByClaimNo(claim.ClaimNo)
	if err != nil {
		t.Fatalf("load claim failed: %v", err)
	}
	if updated.Status != constants.ClaimStatusApproved {
		t.Fatalf("status want approved got %s", updated.Status)
	}
	if updated.HandledBy != constants.ClaimHandlerAIAgent {
		t.Fatalf("handled_by want AI_AGENT got %s", updated.HandledBy)
	}
	if updated.CreditAmount == nil || !updated.CreditAmount.Decimal.Equal(decimal.RequireFromString("3.75")) {
		t.Fatalf("credit want 3.75 got %+v", updated.CreditAmount)
	}
	if !updated.Processing.AIProcessed || updated.Processing.AIConfidence != 0.92 {
		t.Fatalf("processing not stamped: %+v", updated.Processing)
	}

	var refund models.Invoice
	if err := db.Where("claim_id = ? AND invoice_type = ?", claim.ID, constants.InvoiceTypeRefund).
		First(&refund).Error; err != nil {
		t.Fatalf("refund invoice missing: %v", err)
	}
	if !refund.TotalAmount.Decimal.Equal(decimal.RequireFromString("3.75")) {
		t.Fatalf("refund total want 3.75 got %s", refund.TotalAmount.Decimal)
	}

	var aiMessages int64
	if err := db.Model(&models.Message{}).
		Where("claim_id = ? AND sender_type = ?", claim.ID, constants.SenderTypeAI).
		Count(&aiMessages).Error; err != nil {
		t.Fatalf("count messages failed: %v", err)
	}
	if aiMessages != 1 {
		t.Fatalf("approval should post one AI message, got %d", aiMessages)
	}
}

func TestTriageRejectStoresReason(t *testing.T) {
	fake := &fakeAdjudicator{decision: &adjudicator.Decision{
		Decision:   adjudicator.DecisionReject,
		Confidence: 0.88,
		Summary:    "Photos show intact packaging",
	}}
	claimSvc, orderSvc, db := setupClaimServiceTest(t, fake)
	order := placeDeliveredOrder(t, orderSvc, db)
	claim := fileClaim(t, claimSvc, order.OrderNo)
	resetClaimToOpen(t, db, claim.ID)

	if err := claimSvc.Triage(context.Background(), claim.ID); err != nil {
		t.Fatalf("triage failed: %v", err)
	}

	updated, err := claimSvc.GetByClaimNo(claim.ClaimNo)
	if err != nil {
		t.Fatalf("load claim failed: %v", err)
	}
	if updated.Status != constants.ClaimStatusRejected {
		t.Fatalf("status want rejected got %s", updated.Status)
	}
	if updated.RejectionReason != "Photos show intact packaging" {
		t.Fatalf("rejection reason not stored: %q", updated.RejectionReason)
	}
}

func TestTriageManualEscalation(t *testing.T) {
	fake := &fakeAdjudicator{decision: &adjudicator.Decision{
		Decision:   adjudicator.DecisionManualReview,
		Confidence: 0.41,
		Summary:    "Evidence inconclusive",
	}}
	claimSvc, orderSvc, db := setupClaimServiceTest(t, fake)
	order := placeDeliveredOrder(t, orderSvc, db)
	claim := fileClaim(t, claimSvc, order.OrderNo)
	resetClaimToOpen(t, db, claim.ID)

	if err := claimSvc.Triage(context.Background(), claim.ID); err != nil {
		t.Fatalf("triage failed: %v", err)
	}

	updated, err := claimSvc.GetByClaimNo(claim.ClaimNo)
	if err != nil {
		t.Fatalf("load claim failed: %v", err)
	}
	if updated.Status != constants.ClaimStatusManualReview {
		t.Fatalf("status want manual_review got %s", updated.Status)
	}
	if !updated.Processing.AIProcessed || !updated.Processing.RequiresManualReview {
		t.Fatalf("escalation should keep the AI verdict: %+v", updated.Processing)
	}
}

func TestTriageFailureFallsBackToManualReview(t *testing.T) {
	fake := &fakeAdjudicator{err: errors.New("model timeout")}
	claimSvc, orderSvc, db := setupClaimServiceTest(t, fake)
	order := placeDeliveredOrder(t, orderSvc, db)
	claim := fileClaim(t, claimSvc, order.OrderNo)
	resetClaimToOpen(t, db, claim.ID)

	if err := claimSvc.Triage(context.Background(), claim.ID); err != nil {
		t.Fatalf("fallback should not surface the model error, got %v", err)
	}

	updated, err := claimSvc.GetByClaimNo(claim.ClaimNo)
	if err != nil {
		t.Fatalf("load claim failed: %v", err)
	}
	if updated.Status != constants.ClaimStatusManualReview {
		t.Fatalf("status want manual_review got %s", updated.Status)
	}
	if updated.Processing.AIProcessed {
		t.Fatalf("ai_processed should be false on fallback")
	}
	if updated.Processing.AIConfidence != 0 {
		t.Fatalf("ai_confidence want 0 got %f", updated.Processing.AIConfidence)
	}
}

func TestTriageSkipsSettledClaims(t *testing.T) {
	claimSvc, orderSvc, db := setupClaimServiceTest(t, &fakeAdjudicator{})
	order := placeDeliveredOrder(t, orderSvc, db)
	claim := fileClaim(t, claimSvc, order.OrderNo)

	// Intake already routed it to manual review.
	if err := claimSvc.Triage(context.Background(), claim.ID); !errors.Is(err, ErrClaimStateInvalid) {
		t.Fatalf("want ErrClaimStateInvalid got %v", err)
	}
	if err := claimSvc.Triage(context.Background(), claim.ID+999); !errors.Is(err, ErrClaimNotFound) {
		t.Fatalf("want ErrClaimNotFound got %v", err)
	}
}

func TestApproveUsesDefaultCredit(t *testing.T) {
	claimSvc, orderSvc, db := setupClaimServiceTest(t, &fakeAdjudicator{})
	order := placeDeliveredOrder(t, orderSvc, db)
	claim := fileClaim(t, claimSvc, order.OrderNo)

	// 10 x 1.50 gross, 10% compensation.
	approved, err := claimSvc.Approve(claim.ClaimNo, "reviewer-1", nil)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != constants.ClaimStatusApproved {
		t.Fatalf("status want approved got %s", approved.Status)
	}
	if approved.CreditAmount == nil || !approved.CreditAmount.Decimal.Equal(decimal.RequireFromString("1.50")) {
		t.Fatalf("credit want 1.50 got %+v", approved.CreditAmount)
	}
	if approved.HandledBy != "reviewer-1" {
		t.Fatalf("handled_by want reviewer-1 got %s", approved.HandledBy)
	}
	if approved.Processing.ReviewedBy != "reviewer-1" || approved.Processing.ReviewedAt == nil {
		t.Fatalf("review stamp missing: %+v", approved.Processing)
	}

	var refund models.Invoice
	if err := db.Where("claim_id = ? AND invoice_type = ?", claim.ID, constants.InvoiceTypeRefund).
		First(&refund).Error; err != nil {
		t.Fatalf("refund invoice missing: %v", err)
	}
	if !refund.TotalAmount.Decimal.Equal(decimal.RequireFromString("1.50")) {
		t.Fatalf("refund total want 1.50 got %s", refund.TotalAmount.Decimal)
	}
}

func TestApproveRejectsNonPositiveAmount(t *testing.T) {
	claimSvc, orderSvc, db := setupClaimServiceTest(t, &fakeAdjudicator{})
	order := placeDeliveredOrder(t, orderSvc, db)
	claim := fileClaim(t, claimSvc, order.OrderNo)

	zero := decimal.Zero
	if _, err := claimSvc.Approve(claim.ClaimNo, "reviewer-1", &zero); !errors.Is(err, ErrRefundAmountInvalid) {
		t.Fatalf("want ErrRefundAmountInvalid got %v", err)
	}
}

func TestRejectVoidsEarlierRefund(t *testing.T) {
	claimSvc, orderSvc, db := setupClaimServiceTest(t, &fakeAdjudicator{})
	order := placeDeliveredOrder(t, orderSvc, db)
	claim := fileClaim(t, claimSvc, order.OrderNo)

	if _, err := claimSvc.Approve(claim.ClaimNo, "reviewer-1", nil); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := claimSvc.Reject(claim.ClaimNo, "reviewer-1", ""); !errors.Is(err, ErrClaimReasonRequired) {
		t.Fatalf("want ErrClaimReasonRequired got %v", err)
	}

	rejected, err := claimSvc.Reject(claim.ClaimNo, "reviewer-2", "No evidence of damage")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != constants.ClaimStatusRejected {
		t.Fatalf("status want rejected got %s", rejected.Status)
	}
	if rejected.CreditAmount != nil {
		t.Fatalf("credit should be cleared on rejection, got %+v", rejected.CreditAmount)
	}

	var refund models.Invoice
	if err := db.Where("claim_id = ? AND invoice_type = ?", claim.ID, constants.InvoiceTypeRefund).
		First(&refund).Error; err != nil {
		t.Fatalf("refund invoice missing: %v", err)
	}
	if refund.Status != constants.InvoiceStatusCancelled {
		t.Fatalf("refund status want cancelled got %s", refund.Status)
	}
	if !strings.HasSuffix(refund.Notes, noteClaimRejected) {
		t.Fatalf("refund note should end with %q, got %q", noteClaimRejected, refund.Notes)
	}
}

func TestIntakeMovesClaimToAIProcessing(t *testing.T) {
	_, orderSvc, db := setupClaimServiceTest(t, &fakeAdjudicator{})
	order := placeDeliveredOrder(t, orderSvc, db)

	enq := &fakeTriageQueue{}
	claimSvc := NewClaimService(
		repository.NewClaimRepository(db),
		repository.NewOrderRepository(db),
		repository.NewMessageRepository(db),
		NewInvoiceService(repository.NewInvoiceRepository(db), repository.NewProductRepository(db)),
		enq,
		&fakeAdjudicator{},
	)

	claim := fileClaim(t, claimSvc, order.OrderNo)
	if claim.Status != constants.ClaimStatusAIProcessing {
		t.Fatalf("status right after intake want ai_processing got %s", claim.Status)
	}
	if len(enq.payloads) != 1 || enq.payloads[0].ClaimNo != claim.ClaimNo {
		t.Fatalf("one triage task should be enqueued, got %+v", enq.payloads)
	}
	if claim.Processing == nil || claim.Processing.AIProcessed {
		t.Fatalf("processing should exist and be untouched: %+v", claim.Processing)
	}
}

func TestConcurrentApprovesKeepSingleRefund(t *testing.T) {
	claimSvc, orderSvc, db := setupClaimServiceTest(t, &fakeAdjudicator{})
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	order := placeDeliveredOrder(t, orderSvc, db)
	claim := fileClaim(t, claimSvc, order.OrderNo)

	amounts := []string{"2.00", "3.00"}
	var wg sync.WaitGroup
	for _, raw := range amounts {
		wg.Add(1)
		go func(raw string) {
			defer wg.Done()
			amount := decimal.RequireFromString(raw)
			if _, err := claimSvc.Approve(claim.ClaimNo, "reviewer-1", &amount); err != nil {
				t.Errorf("approve %s failed: %v", raw, err)
			}
		}(raw)
	}
	wg.Wait()

	var refunds []models.Invoice
	if err := db.Where("claim_id = ? AND invoice_type = ?", claim.ID, constants.InvoiceTypeRefund).
		Find(&refunds).Error; err != nil {
		t.Fatalf("load refunds failed: %v", err)
	}
	if len(refunds) != 1 {
		t.Fatalf("refund invoices want 1 got %d", len(refunds))
	}

	// Last writer wins and claim and refund stay consistent.
	updated, err := claimSvc.GetByClaimNo(claim.ClaimNo)
	if err != nil {
		t.Fatalf("load claim failed: %v", err)
	}
	if updated.CreditAmount == nil || !updated.CreditAmount.Decimal.Equal(refunds[0].TotalAmount.Decimal) {
		t.Fatalf("credit %+v does not match refund %s", updated.CreditAmount, refunds[0].TotalAmount.Decimal)
	}
	won := refunds[0].TotalAmount.Decimal
	if !won.Equal(decimal.RequireFromString("2.00")) && !won.Equal(decimal.RequireFromString("3.00")) {
		t.Fatalf("refund amount should be one of the submitted values, got %s", won)
	}
}

func TestResolveRequiresDecision(t *testing.T) {
	claimSvc, orderSvc, db := setupClaimServiceTest(t, &fakeAdjudicator{})
	order := placeDeliveredOrder(t, orderSvc, db)
	claim := fileClaim(t, claimSvc, order.OrderNo)

	// Still in manual review, no verdict yet.
	if _, err := claimSvc.Resolve(claim.ClaimNo, "reviewer-1"); !errors.Is(err, ErrClaimStateInvalid) {
		t.Fatalf("want ErrClaimStateInvalid got %v", err)
	}

	if _, err := claimSvc.Approve(claim.ClaimNo, "reviewer-1", nil); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	resolved, err := claimSvc.Resolve(claim.ClaimNo, "reviewer-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Status != constants.ClaimStatusResolved {
		t.Fatalf("status want resolved got %s", resolved.Status)
	}
	if resolved.ResolvedAt == nil {
		t.Fatalf("resolved_at should be stamped")
	}

	// Resolved claims accept no further review verbs.
	if _, err := claimSvc.Approve(claim.ClaimNo, "reviewer-1", nil); !errors.Is(err, ErrClaimStateInvalid) {
		t.Fatalf("want ErrClaimStateInvalid got %v", err)
	}
}
