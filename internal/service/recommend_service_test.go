package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/ai/recommender"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeRecommender struct {
	results   []recommender.Result
	err       error
	lastQuery string
	lastLimit int
}

func (f *fakeRecommender) Search(ctx context.Context, query string, limit int) ([]recommender.Result, error) {
	f.lastQuery = query
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func setupRecommendServiceTest(t *testing.T, rec recommender.Client) (*RecommendService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:recommend_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewRecommendService(rec, repository.NewProductRepository(db))
	return svc, db
}

func seedRecommendProduct(t *testing.T, db *gorm.DB, code string) {
	t.Helper()
	product := models.Product{
		Code:     code,
		Name:     "Product " + code,
		Unit:     "pcs",
		Price:    models.NewMoneyFromDecimal(decimal.RequireFromString("1.50")),
		Currency: "EUR",
		IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
}

func TestSearchProductsJoinsCatalog(t *testing.T) {
	fake := &fakeRecommender{results: []recommender.Result{
		{ProductCode: "OAT-BREAD", Name: "Oat Bread", Score: 0.93},
		{ProductCode: "DISCONTINUED-1", Name: "Gone", Score: 0.80},
		{ProductCode: "RYE-BREAD", Name: "Rye Bread", Score: 0.71},
	}}
	svc, db := setupRecommendServiceTest(t, fake)
	seedRecommendProduct(t, db, "OAT-BREAD")
	seedRecommendProduct(t, db, "RYE-BREAD")

	recommendations, err := svc.SearchProducts(context.Background(), "  bread for breakfast ", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if fake.lastQuery != "bread for breakfast" {
		t.Fatalf("query should be trimmed, got %q", fake.lastQuery)
	}
	if fake.lastLimit != 5 {
		t.Fatalf("limit want 5 got %d", fake.lastLimit)
	}

	// Codes unknown to the catalog are dropped, order and scores preserved.
	if len(recommendations) != 2 {
		t.Fatalf("recommendations want 2 got %d", len(recommendations))
	}
	if recommendations[0].Product.Code != "OAT-BREAD" || recommendations[0].Score != 0.93 {
		t.Fatalf("first recommendation wrong: %+v", recommendations[0])
	}
	if recommendations[1].Product.Code != "RYE-BREAD" || recommendations[1].Score != 0.71 {
		t.Fatalf("second recommendation wrong: %+v", recommendations[1])
	}
}

func TestSearchProductsDefaultsLimit(t *testing.T) {
	fake := &fakeRecommender{}
	svc, _ := setupRecommendServiceTest(t, fake)

	recommendations, err := svc.SearchProducts(context.Background(), "milk", 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if fake.lastLimit != defaultRecommendLimit {
		t.Fatalf("limit want %d got %d", defaultRecommendLimit, fake.lastLimit)
	}
	// No matches is a valid, empty outcome.
	if recommendations == nil || len(recommendations) != 0 {
		t.Fatalf("want empty slice got %+v", recommendations)
	}
}

func TestSearchProductsRequiresQuery(t *testing.T) {
	svc, _ := setupRecommendServiceTest(t, &fakeRecommender{})

	if _, err := svc.SearchProducts(context.Background(), "   ", 5); !errors.Is(err, ErrRecommendQueryRequired) {
		t.Fatalf("want ErrRecommendQueryRequired got %v", err)
	}
}

func TestSearchProductsWrapsModelFailure(t *testing.T) {
	svc, _ := setupRecommendServiceTest(t, &fakeRecommender{err: errors.New("model down")})

	if _, err := svc.SearchProducts(context.Background(), "milk", 5); !errors.Is(err, ErrExternalServiceFailure) {
		t.Fatalf("want ErrExternalServiceFailure got %v", err)
	}
}
