package ups_test

import (
	"sync"
	"time"

	"github.com/tournevent/ratebridge/pkg/shipper"
	"github.com/tournevent/ratebridge/pkg/shipper/ups"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var testConfig = ups.Config{
	BaseURL:       "https://wwwcie.ups.com",
	ClientID:      "client-id",
	ClientSecret:  "client-secret",
	AccountNumber: "A1B2C3",
}

func newTestClient(mock *ups.MockTransport, opts ...ups.Option) *ups.Client {
	logger := otelzap.New(zap.NewNop())
	return ups.NewWithTransport(testConfig, mock, logger, nil, opts...)
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sampleRequest() *shipper.RateRequest {
	return &shipper.RateRequest{
		ShipmentID: "order-1001",
		Origin: shipper.Address{
			Name:              "Warehouse",
			AddressLines:      []string{"100 Peachtree St"},
			City:              "Atlanta",
			StateProvinceCode: "GA",
			PostalCode:        "30303",
			CountryCode:       "US",
		},
		Destination: shipper.Address{
			Name:              "Customer",
			AddressLines:      []string{"1 Market St", "Suite 200"},
			City:              "San Francisco",
			StateProvinceCode: "CA",
			PostalCode:        "94105",
			CountryCode:       "US",
		},
		Parcels: []shipper.Parcel{
			{
				Weight:     3,
				WeightUnit: shipper.WeightLBS,
				Dimensions: shipper.Dimensions{Length: 10, Width: 8, Height: 4.5, Unit: shipper.DimensionIN},
			},
		},
	}
}
