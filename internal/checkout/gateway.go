// Package checkout completes the order in progress: it settles the staged
// amount against the hosted payment gateway, consumes the applied coupon,
// and hands the completed order to the archive pipeline.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ConfirmRequest is what the hosted gateway expects to capture a payment.
type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

type ConfirmResult struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"totalAmount"`
	Status     string `json:"status"`
	ApprovedAt string `json:"approvedAt"`
}

type CancelRequest struct {
	PaymentKey   string `json:"paymentKey"`
	CancelReason string `json:"cancelReason"`
	CancelAmount int64  `json:"cancelAmount,omitempty"` // 0 cancels the full amount
}

type CancelResult struct {
	PaymentKey string `json:"paymentKey"`
	Status     string `json:"status"`
}

// PaymentGateway is the boundary with the hosted payment provider. Auth,
// capture and cancellation semantics all live on the provider's side.
type PaymentGateway interface {
	Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error)
	Cancel(ctx context.Context, req CancelRequest) (*CancelResult, error)
}

// gatewayError is a rejection from the provider (declined card, stale
// payment key). Recoverable from the member's point of view.
type gatewayError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *gatewayError) Error() string {
	return fmt.Sprintf("payment gateway rejected request: %s (%s)", e.Message, e.Code)
}

func NewHTTPGateway(baseURL, secretKey string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// HTTPGateway talks to the provider's hosted REST API with a secret key.
type HTTPGateway struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func (g *HTTPGateway) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	var result ConfirmResult
	if err := g.post(ctx, "/v1/payments/confirm", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTPGateway) Cancel(ctx context.Context, req CancelRequest) (*CancelResult, error) {
	var result CancelResult
	path := fmt.Sprintf("/v1/payments/%s/cancel", req.PaymentKey)
	if err := g.post(ctx, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, body, result interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal gateway request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build gateway request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(g.secretKey, "")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		gwErr := &gatewayError{}
		if err := json.NewDecoder(resp.Body).Decode(gwErr); err != nil {
			return fmt.Errorf("gateway returned status %d", resp.StatusCode)
		}
		return gwErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode gateway response failed: %w", err)
	}
	return nil
}
