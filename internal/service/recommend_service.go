package service

import (
	"context"
	"strings"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/ai/recommender"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/logger"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"
)

const defaultRecommendLimit = 10

// ProductRecommendation one catalog product with its relevance score.
type ProductRecommendation struct {
	Product models.Product `json:"product"`
	Score   float64        `json:"score"`
}

// RecommendService maps free-text queries to catalog products through the
// external recommendation model.
type RecommendService struct {
	recommender recommender.Client
	productRepo repository.ProductRepository
}

// NewRecommendService creates the recommendation service.
func NewRecommendService(rec recommender.Client, productRepo repository.ProductRepository) *RecommendService {
	return &RecommendService{recommender: rec, productRepo: productRepo}
}

// SearchProducts asks the model for matches and joins them against the
// catalog. Codes the catalog no longer knows are dropped; an empty list is a
// valid outcome.
func (s *RecommendService) SearchProducts(ctx context.Context, query string, limit int) ([]ProductRecommendation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrRecommendQueryRequired
	}
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	results, err := s.recommender.Search(ctx, query, limit)
	if err != nil {
		logger.Warnw("product recommendation failed", "query", query, "error", err)
		return nil, ErrExternalServiceFailure
	}
	if len(results) == 0 {
		return []ProductRecommendation{}, nil
	}

	codes := make([]string, 0, len(results))
	for _, r := range results {
		codes = append(codes, r.ProductCode)
	}
	products, err := s.productRepo.GetByCodes(codes)
	if err != nil {
		return nil, err
	}

	recommendations := make([]ProductRecommendation, 0, len(results))
	for _, r := range results {
		product, ok := products[r.ProductCode]
		if !ok {
			continue
		}
		recommendations = append(recommendations, ProductRecommendation{Product: product, Score: r.Score})
	}
	return recommendations, nil
}

// ListProducts lists catalog products without the model.
func (s *RecommendService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}
