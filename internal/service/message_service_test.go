package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupMessageServiceTest(t *testing.T) (*MessageService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:message_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Order{},
		&models.OrderLine{},
		&models.Claim{},
		&models.ClaimLine{},
		&models.ClaimAttachment{},
		&models.ClaimProcessing{},
		&models.Message{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewMessageService(
		repository.NewMessageRepository(db),
		repository.NewOrderRepository(db),
		repository.NewClaimRepository(db),
	)
	return svc, db
}

func TestPostToOrderAppendsInOrder(t *testing.T) {
	svc, db := setupMessageServiceTest(t)
	order := &models.Order{
		OrderNo:    "ORD-AAAA1111",
		CustomerID: 1,
		Status:     constants.OrderStatusPlaced,
		Currency:   "EUR",
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.PostToOrder(order.OrderNo, constants.SenderTypeCustomer, "customer", "Where is my delivery?"); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if _, err := svc.PostToOrder(order.OrderNo, constants.SenderTypeAdmin, "admin", "Out for delivery this morning."); err != nil {
		t.Fatalf("post failed: %v", err)
	}

	messages, err := svc.ListForOrder(order.OrderNo)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("messages want 2 got %d", len(messages))
	}
	if messages[0].SenderType != constants.SenderTypeCustomer || messages[1].SenderType != constants.SenderTypeAdmin {
		t.Fatalf("messages should come back oldest first: %+v", messages)
	}
}

func TestPostToClaimValidation(t *testing.T) {
	svc, db := setupMessageServiceTest(t)
	claim := &models.Claim{
		ClaimNo:    "CLM-BBBB2222",
		OrderID:    1,
		CustomerID: 1,
		ClaimType:  constants.ClaimTypeMissingItem,
		Status:     constants.ClaimStatusOpen,
		Currency:   "EUR",
	}
	if err := db.Create(claim).Error; err != nil {
		t.Fatalf("create claim failed: %v", err)
	}

	if _, err := svc.PostToClaim(claim.ClaimNo, constants.SenderTypeCustomer, "customer", "   "); !errors.Is(err, ErrMessageContentEmpty) {
		t.Fatalf("want ErrMessageContentEmpty got %v", err)
	}
	if _, err := svc.PostToClaim("CLM-MISSING", constants.SenderTypeCustomer, "customer", "hello"); !errors.Is(err, ErrClaimNotFound) {
		t.Fatalf("want ErrClaimNotFound got %v", err)
	}
	if _, err := svc.ListForOrder("ORD-MISSING"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}

	message, err := svc.PostToClaim(claim.ClaimNo, constants.SenderTypeAdmin, "admin", "We are reviewing the photos.")
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if message.ID == 0 || message.ClaimID == nil || *message.ClaimID != claim.ID {
		t.Fatalf("message not linked to the claim: %+v", message)
	}

	messages, err := svc.ListForClaim(claim.ClaimNo)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("messages want 1 got %d", len(messages))
	}
}
