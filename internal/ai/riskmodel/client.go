// Package riskmodel calls the external shortage risk prediction model.
package riskmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OrderInput one order line submitted for scoring.
type OrderInput struct {
	ProductCode           string `json:"product_code"`
	CustomerNumber        string `json:"customer_number"`
	Plant                 string `json:"plant"`
	StorageLocation       string `json:"storage_location"`
	OrderQty              int    `json:"order_qty"`
	OrderCreatedDate      string `json:"order_created_date"`
	RequestedDeliveryDate string `json:"requested_delivery_date"`
}

// Prediction the score for one submitted line.
type Prediction struct {
	ProductCode         string  `json:"product_code"`
	CustomerNumber      string  `json:"customer_number"`
	ShortageProbability float64 `json:"shortage_probability"`
	ShortageFlag        int     `json:"shortage_flag_pred"`
	ThresholdUsed       float64 `json:"threshold_used"`
}

// BatchResult the model's answer for a batch submission.
type BatchResult struct {
	Predictions   []Prediction `json:"predictions"`
	TotalOrders   int          `json:"total_orders"`
	HighRiskCount int          `json:"high_risk_count"`
}

// Client scores orders for shortage risk.
type Client interface {
	Predict(ctx context.Context, input OrderInput) (*Prediction, error)
	PredictBatch(ctx context.Context, inputs []OrderInput) (*BatchResult, error)
}

// HTTPClient talks to the risk model over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a risk model client.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Predict scores a single line.
func (c *HTTPClient) Predict(ctx context.Context, input OrderInput) (*Prediction, error) {
	var prediction Prediction
	if err := c.post(ctx, "/predict", input, &prediction); err != nil {
		return nil, err
	}
	if err := validatePrediction(&prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}

// PredictBatch scores a batch and checks the response is complete: one
// prediction per input, consistent counters, probabilities in [0, 1].
func (c *HTTPClient) PredictBatch(ctx context.Context, inputs []OrderInput) (*BatchResult, error) {
	var result BatchResult
	if err := c.post(ctx, "/predict/batch", map[string]interface{}{"orders": inputs}, &result); err != nil {
		return nil, err
	}
	if len(result.Predictions) != len(inputs) {
		return nil, fmt.Errorf("riskmodel: got %d predictions for %d inputs", len(result.Predictions), len(inputs))
	}
	if result.TotalOrders != len(inputs) {
		return nil, fmt.Errorf("riskmodel: total_orders %d does not match %d inputs", result.TotalOrders, len(inputs))
	}
	if result.HighRiskCount < 0 || result.HighRiskCount > len(inputs) {
		return nil, fmt.Errorf("riskmodel: high_risk_count %d out of range", result.HighRiskCount)
	}
	for i := range result.Predictions {
		if err := validatePrediction(&result.Predictions[i]); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("riskmodel: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("riskmodel: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("riskmodel: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("riskmodel: unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("riskmodel: decode response: %w", err)
	}
	return nil
}

func validatePrediction(p *Prediction) error {
	if p.ShortageProbability < 0 || p.ShortageProbability > 1 {
		return fmt.Errorf("riskmodel: probability %v out of range", p.ShortageProbability)
	}
	return nil
}
