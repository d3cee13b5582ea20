package ups

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/ratebridge/pkg/transport"
)

// MockTransport is an in-memory transport.Client serving canned UPS responses.
// Token requests are recognised by their Basic authorization header.
type MockTransport struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnToken func(ctx context.Context, req *transport.Request) (*transport.Response, error)
	OnRate  func(ctx context.Context, req *transport.Request) (*transport.Response, error)

	tokenCalls atomic.Int64
	rateCalls  atomic.Int64

	mu       sync.Mutex
	requests []*transport.Request
}

// NewMockTransport creates a new mock transport with default behavior.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Do implements transport.Client.
func (m *MockTransport) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	isToken := strings.HasPrefix(req.Header.Get("Authorization"), "Basic ")
	if isToken {
		m.tokenCalls.Add(1)
	} else {
		m.rateCalls.Add(1)
	}

	if m.SimulateLatency > 0 {
		select {
		case <-time.After(m.SimulateLatency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.SimulateErrors {
		return transport.NewJSONResponse(http.StatusServiceUnavailable, map[string]any{
			"response": map[string]any{
				"errors": []map[string]string{{"code": "MOCK_ERROR", "message": "Simulated API error"}},
			},
		}), nil
	}

	if isToken {
		if m.OnToken != nil {
			return m.OnToken(ctx, req)
		}
		return transport.NewJSONResponse(http.StatusOK, map[string]any{
			"access_token": "mock-token-" + uuid.New().String()[:8],
			"token_type":   "Bearer",
			"expires_in":   "14399",
		}), nil
	}

	if m.OnRate != nil {
		return m.OnRate(ctx, req)
	}
	return m.defaultRate(req), nil
}

func (m *MockTransport) defaultRate(req *transport.Request) *transport.Response {
	var payload RateRequestPayload
	if err := json.Unmarshal(req.Body, &payload); err != nil {
		return transport.NewJSONResponse(http.StatusBadRequest, map[string]any{
			"response": map[string]any{
				"errors": []map[string]string{{"code": "111100", "message": "Invalid request body"}},
			},
		})
	}

	shipments := []RatedShipment{
		mockShipment("03", "UPS Ground", "15.82", "5"),
		mockShipment("02", "UPS 2nd Day Air", "29.95", "2"),
		mockShipment("01", "UPS Next Day Air", "55.10", "1"),
	}
	if svc := payload.RateRequest.Shipment.Service; svc != nil {
		filtered := shipments[:0]
		for _, s := range shipments {
			if s.Service.Code == svc.Code {
				filtered = append(filtered, s)
			}
		}
		shipments = filtered
	}

	return transport.NewJSONResponse(http.StatusOK, RateResponseEnvelope{
		RateResponse: RateResponseBody{
			Response: &ResponseInfo{
				TransactionReference: payload.RateRequest.Request.TransactionReference,
			},
			RatedShipment: shipments,
		},
	})
}

func mockShipment(code, name, amount, days string) RatedShipment {
	return RatedShipment{
		Service:            ServiceInfo{Code: code, Description: name},
		TotalCharges:       Charges{CurrencyCode: "USD", MonetaryValue: amount},
		BillingWeight:      &BillingWeight{UnitOfMeasurement: &CodeDescription{Code: "LBS"}, Weight: "3.0"},
		GuaranteedDelivery: &GuaranteedDelivery{BusinessDaysInTransit: days},
	}
}

// TokenCalls returns the number of token requests received.
func (m *MockTransport) TokenCalls() int {
	return int(m.tokenCalls.Load())
}

// RateCalls returns the number of rate requests received.
func (m *MockTransport) RateCalls() int {
	return int(m.rateCalls.Load())
}

// Requests returns a copy of every request received, in arrival order.
func (m *MockTransport) Requests() []*transport.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*transport.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

var _ transport.Client = (*MockTransport)(nil)
