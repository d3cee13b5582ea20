// Package mock provides a mock shipper implementation for testing.
package mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/tournevent/ratebridge/pkg/shipper"
)

// Client is a mock shipper for testing.
type Client struct {
	name string

	// Err, when set, is returned from every GetRates call.
	Err error
	// OnGetRates overrides the canned response.
	OnGetRates func(ctx context.Context, req *shipper.RateRequest) (*shipper.RateResponse, error)
}

// New creates a new mock shipper.
func New(name string) *Client {
	return &Client{name: name}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return c.name
}

// GetRates returns mock shipping quotes.
func (c *Client) GetRates(ctx context.Context, req *shipper.RateRequest) (*shipper.RateResponse, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if c.OnGetRates != nil {
		return c.OnGetRates(ctx, req)
	}
	if err := shipper.ValidateRateRequest(req, c.name); err != nil {
		return nil, err
	}

	requestID := req.ShipmentID
	if requestID == "" {
		requestID = c.name + "-" + uuid.New().String()[:8]
	}
	groundDays, expressDays := 5, 2

	return &shipper.RateResponse{
		RequestID: requestID,
		Quotes: []shipper.RateQuote{
			{
				Carrier:               c.name,
				ServiceLevel:          shipper.ServiceGround,
				ServiceName:           c.name + " Ground",
				TotalCharge:           shipper.Money{Currency: "USD", Amount: 15.82},
				EstimatedDeliveryDays: &groundDays,
			},
			{
				Carrier:               c.name,
				ServiceLevel:          shipper.ServiceTwoDayAir,
				ServiceName:           c.name + " 2nd Day Air",
				TotalCharge:           shipper.Money{Currency: "USD", Amount: 29.95},
				EstimatedDeliveryDays: &expressDays,
			},
		},
	}, nil
}

var _ shipper.Shipper = (*Client)(nil)
