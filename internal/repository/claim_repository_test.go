package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupClaimRepositoryTest(t *testing.T) (*GormClaimRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:claim_repository_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Claim{},
		&models.ClaimLine{},
		&models.ClaimAttachment{},
		&models.ClaimProcessing{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewClaimRepository(db), db
}

// The processing columns are addressed by name in map updates, so the model
// must map its AI-prefixed fields to snake_case explicitly.
func TestUpdateProcessingWritesAIColumns(t *testing.T) {
	repo, _ := setupClaimRepositoryTest(t)

	claim := &models.Claim{
		ClaimNo:    "CLM-CCCC3333",
		OrderID:    1,
		CustomerID: 1,
		ClaimType:  constants.ClaimTypeMissingItem,
		Status:     constants.ClaimStatusAIProcessing,
		Currency:   "EUR",
	}
	if err := repo.Create(claim, nil, nil, &models.ClaimProcessing{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.UpdateProcessing(claim.ID, map[string]interface{}{
		"ai_processed":           true,
		"ai_confidence":          0.87,
		"requires_manual_review": true,
		"ai_result_json": models.JSON{
			"decision": constants.AdjudicationManualReview,
			"summary":  "needs a second look",
		},
	}); err != nil {
		t.Fatalf("update processing failed: %v", err)
	}

	loaded, err := repo.GetByID(claim.ID)
	if err != nil {
		t.Fatalf("load claim failed: %v", err)
	}
	if loaded.Processing == nil {
		t.Fatalf("processing record missing")
	}
	if !loaded.Processing.AIProcessed {
		t.Fatalf("ai_processed not persisted")
	}
	if loaded.Processing.AIConfidence != 0.87 {
		t.Fatalf("ai_confidence want 0.87 got %f", loaded.Processing.AIConfidence)
	}
	if !loaded.Processing.RequiresManualReview {
		t.Fatalf("requires_manual_review not persisted")
	}
	if loaded.Processing.AIResultJSON["summary"] != "needs a second look" {
		t.Fatalf("ai_result_json not persisted: %+v", loaded.Processing.AIResultJSON)
	}
}
