package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/ai/riskmodel"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/constants"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/logger"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/repository"

	"gorm.io/gorm"
)

// riskFlagThreshold above which a placed order is moved to under_risk.
const riskFlagThreshold = 0.5

// RiskAssessment outcome of scoring one order.
type RiskAssessment struct {
	Order         *models.Order          `json:"order"`
	OverallRisk   float64                `json:"overall_risk"`
	HighRiskCount int                    `json:"high_risk_count"`
	Predictions   []riskmodel.Prediction `json:"predictions"`
}

// RiskService scores orders for shortage risk through the external model
// and persists the line and order level scores.
type RiskService struct {
	orderRepo repository.OrderRepository
	predictor riskmodel.Client
}

// NewRiskService creates the risk service.
func NewRiskService(orderRepo repository.OrderRepository, predictor riskmodel.Client) *RiskService {
	return &RiskService{orderRepo: orderRepo, predictor: predictor}
}

// AssessOrder submits every line of an order as one batch, stores the
// returned scores and flags placed orders whose worst line crosses the
// threshold.
func (s *RiskService) AssessOrder(ctx context.Context, orderNo, actor string) (*RiskAssessment, error) {
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

	inputs, err := buildRiskInputs(order)
	if err != nil {
		return nil, err
	}

	result, err := s.predictor.PredictBatch(ctx, inputs)
	if err != nil {
		logger.Warnw("risk prediction failed", "order_no", order.OrderNo, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExternalServiceFailure, err)
	}

	overall := 0.0
	scores := make(map[string]float64, len(result.Predictions))
	for _, p := range result.Predictions {
		if p.ShortageProbability > overall {
			overall = p.ShortageProbability
		}
		scores[p.ProductCode] = p.ShortageProbability
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		// The model may return predictions in any order; apply by product.
		for _, line := range order.Lines {
			probability, ok := scores[line.ProductCode]
			if !ok {
				continue
			}
			score := probability
			if err := orderRepo.UpdateLine(line.ID, map[string]interface{}{
				"risk_score": &score,
			}); err != nil {
				return err
			}
		}

		if order.Status == constants.OrderStatusPlaced && overall >= riskFlagThreshold {
			if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusUnderRisk, map[string]interface{}{
				"overall_risk_score": &overall,
			}); err != nil {
				return err
			}
			return orderRepo.AppendTracking(&models.OrderTracking{
				OrderID:    order.ID,
				FromStatus: constants.OrderStatusPlaced,
				ToStatus:   constants.OrderStatusUnderRisk,
				Actor:      actor,
				Notes:      fmt.Sprintf("Shortage risk %.2f crossed the %.2f threshold.", overall, riskFlagThreshold),
			})
		}
		return orderRepo.UpdateStatus(order.ID, order.Status, map[string]interface{}{
			"overall_risk_score": &overall,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order risk assessed",
		"order_no", order.OrderNo, "overall_risk", overall, "high_risk_count", result.HighRiskCount)

	order, err = s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}
	return &RiskAssessment{
		Order:         order,
		OverallRisk:   overall,
		HighRiskCount: result.HighRiskCount,
		Predictions:   result.Predictions,
	}, nil
}

// buildRiskInputs validates the order lines before they leave the system.
func buildRiskInputs(order *models.Order) ([]riskmodel.OrderInput, error) {
	if len(order.Lines) == 0 || order.Customer == nil {
		return nil, ErrRiskInputInvalid
	}
	if _, err := time.Parse("2006-01-02", order.DeliveryDate); err != nil {
		return nil, ErrRiskInputInvalid
	}
	createdDate := order.CreatedAt.Format("2006-01-02")

	inputs := make([]riskmodel.OrderInput, 0, len(order.Lines))
	for _, line := range order.Lines {
		if line.ProductCode == "" || line.OrderedQty <= 0 {
			return nil, ErrRiskInputInvalid
		}
		inputs = append(inputs, riskmodel.OrderInput{
			ProductCode:           line.ProductCode,
			CustomerNumber:        order.Customer.Code,
			Plant:                 order.Plant,
			StorageLocation:       order.StorageLocation,
			OrderQty:              line.OrderedQty,
			OrderCreatedDate:      createdDate,
			RequestedDeliveryDate: order.DeliveryDate,
		})
	}
	return inputs, nil
}
