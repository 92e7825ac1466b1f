// Package adjudicator calls the external claim adjudication model.
package adjudicator

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

// Decision values returned by the model.
const (
	DecisionApprove      = "approved"
	DecisionReject       = "rejected"
	DecisionManualReview = "manual_review_needed"
)

// Line one claimed order line sent as evidence.
type Line struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
	Issue       string `json:"issue,omitempty"`
}

// Image photographic evidence, base64-encoded.
type Image struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	DataBase64  string `json:"data_base64"`
}

// Request the evidence bundle for one claim.
type Request struct {
	ClaimNo     string  `json:"claim_no"`
	ClaimType   string  `json:"claim_type"`
	OrderNo     string  `json:"order_no"`
	Description string  `json:"description"`
	Lines       []Line  `json:"lines"`
	Images      []Image `json:"images,omitempty"`
}

// Decision the model's verdict on a claim.
type Decision struct {
	Decision     string   `json:"decision"`
	Confidence   float64  `json:"confidence"`
	Summary      string   `json:"summary"`
	CreditAmount *float64 `json:"credit_amount,omitempty"`
}

// Client decides claims from their evidence.
type Client interface {
	Adjudicate(ctx context.Context, req Request) (*Decision, error)
}

// HTTPClient talks to the adjudication model over HTTP.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates an adjudicator client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Adjudicate posts the claim evidence and validates the verdict. Any
// malformed response is an error so callers can fall back deterministically.
func (c *HTTPClient) Adjudicate(ctx context.Context, req Request) (*Decision, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("adjudicator: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/adjudicate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("adjudicator: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("adjudicator: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("adjudicator: unexpected status %d: %s", resp.StatusCode, string(raw))
	}

	var decision Decision
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return nil, fmt.Errorf("adjudicator: decode response: %w", err)
	}
	if err := validateDecision(&decision); err != nil {
		return nil, err
	}
	return &decision, nil
}

func validateDecision(d *Decision) error {
	switch d.Decision {
	case DecisionApprove, DecisionReject, DecisionManualReview:
	default:
		return fmt.Errorf("adjudicator: unknown decision %q", d.Decision)
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("adjudicator: confidence %v out of range", d.Confidence)
	}
	if d.CreditAmount != nil && *d.CreditAmount < 0 {
		return fmt.Errorf("adjudicator: negative credit amount %v", *d.CreditAmount)
	}
	return nil
}
