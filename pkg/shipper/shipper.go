// Package shipper provides an abstraction layer for shipping carriers.
package shipper

import (
	"context"
)

// Shipper defines the interface that all shipping carriers must implement.
type Shipper interface {
	// Name returns the carrier identifier (e.g., "UPS").
	Name() string

	// GetRates returns normalized shipping rate quotes for a shipment.
	// Every failure is a *CarrierError.
	GetRates(ctx context.Context, req *RateRequest) (*RateResponse, error)
}
