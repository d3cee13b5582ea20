package mock_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/ratebridge/pkg/shipper"
	"github.com/tournevent/ratebridge/pkg/shipper/mock"
)

func request() *shipper.RateRequest {
	addr := shipper.Address{AddressLines: []string{"1 Main St"}, City: "Atlanta", PostalCode: "30303", CountryCode: "US"}
	return &shipper.RateRequest{
		Origin:      addr,
		Destination: addr,
		Parcels: []shipper.Parcel{{
			Weight: 1, WeightUnit: shipper.WeightLBS,
			Dimensions: shipper.Dimensions{Length: 1, Width: 1, Height: 1, Unit: shipper.DimensionIN},
		}},
	}
}

func TestClient_GetRates(t *testing.T) {
	client := mock.New("UPS")

	resp, err := client.GetRates(context.Background(), request())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.RequestID, "UPS-"))
	require.Len(t, resp.Quotes, 2)
	assert.Nil(t, shipper.Validate(resp))
}

func TestClient_GetRates_Err(t *testing.T) {
	client := mock.New("UPS")
	client.Err = errors.New("boom")

	_, err := client.GetRates(context.Background(), request())
	assert.EqualError(t, err, "boom")
}

func TestClient_GetRates_Validation(t *testing.T) {
	client := mock.New("UPS")

	_, err := client.GetRates(context.Background(), &shipper.RateRequest{})
	assert.ErrorIs(t, err, shipper.ErrValidation)
}
