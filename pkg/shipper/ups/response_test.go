package ups_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/ratebridge/pkg/shipper"
	"github.com/tournevent/ratebridge/pkg/shipper/ups"
)

func decodeEnvelope(t *testing.T, raw string) *ups.RateResponseEnvelope {
	t.Helper()
	var env ups.RateResponseEnvelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	return &env
}

func TestNormalizeRateResponse_Shop(t *testing.T) {
	env := decodeEnvelope(t, `{
		"RateResponse": {
			"Response": {"TransactionReference": {"CustomerContext": "order-1001"}},
			"RatedShipment": [
				{
					"Service": {"Code": "03", "Description": "UPS Ground"},
					"TotalCharges": {"CurrencyCode": "USD", "MonetaryValue": "12.34"},
					"BillingWeight": {"UnitOfMeasurement": {"Code": "LBS"}, "Weight": "3.0"},
					"GuaranteedDelivery": {"BusinessDaysInTransit": "5"}
				},
				{
					"Service": {"Code": "01"},
					"TotalCharges": {"CurrencyCode": "USD", "MonetaryValue": "55.10"},
					"GuaranteedDelivery": {"BusinessDaysInTransit": "1"}
				}
			]
		}
	}`)

	resp, err := ups.NormalizeRateResponse(env)
	require.NoError(t, err)

	assert.Equal(t, "order-1001", resp.RequestID)
	require.Len(t, resp.Quotes, 2)

	ground := resp.Quotes[0]
	assert.Equal(t, "UPS", ground.Carrier)
	assert.Equal(t, shipper.ServiceGround, ground.ServiceLevel)
	assert.Equal(t, "UPS Ground", ground.ServiceName)
	assert.Equal(t, shipper.Money{Currency: "USD", Amount: 12.34}, ground.TotalCharge)
	assert.Equal(t, "03", ground.RawServiceCode)
	require.NotNil(t, ground.BillingWeight)
	assert.InDelta(t, 3.0, *ground.BillingWeight, 1e-9)
	require.NotNil(t, ground.EstimatedDeliveryDays)
	assert.Equal(t, 5, *ground.EstimatedDeliveryDays)

	next := resp.Quotes[1]
	assert.Equal(t, shipper.ServiceNextDayAir, next.ServiceLevel)
	assert.InDelta(t, 55.10, next.TotalCharge.Amount, 1e-9)
	assert.Nil(t, next.BillingWeight)
	require.NotNil(t, next.EstimatedDeliveryDays)
	assert.Equal(t, 1, *next.EstimatedDeliveryDays)
}

func TestNormalizeRateResponse_SingleObject(t *testing.T) {
	env := decodeEnvelope(t, `{
		"RateResponse": {
			"RatedShipment": {
				"Service": {"Code": "02"},
				"TotalCharges": {"CurrencyCode": "USD", "MonetaryValue": "29.95"}
			}
		}
	}`)

	resp, err := ups.NormalizeRateResponse(env)
	require.NoError(t, err)

	assert.Empty(t, resp.RequestID)
	require.Len(t, resp.Quotes, 1)
	assert.Equal(t, shipper.ServiceTwoDayAir, resp.Quotes[0].ServiceLevel)
	assert.Nil(t, resp.Quotes[0].EstimatedDeliveryDays)
}

func TestNormalizeRateResponse_UnknownServiceCode(t *testing.T) {
	env := decodeEnvelope(t, `{
		"RateResponse": {
			"RatedShipment": [{
				"Service": {"Code": "14", "Description": "UPS Next Day Air Early"},
				"TotalCharges": {"CurrencyCode": "USD", "MonetaryValue": "89.00"}
			}]
		}
	}`)

	resp, err := ups.NormalizeRateResponse(env)
	require.NoError(t, err)
	assert.Equal(t, shipper.ServiceLevel("14"), resp.Quotes[0].ServiceLevel)
	assert.Equal(t, "14", resp.Quotes[0].RawServiceCode)
}

func TestNormalizeRateResponse_NoShipments(t *testing.T) {
	for _, raw := range []string{
		`{"RateResponse": {"RatedShipment": []}}`,
		`{"RateResponse": {"RatedShipment": null}}`,
		`{"RateResponse": {}}`,
	} {
		_, err := ups.NormalizeRateResponse(decodeEnvelope(t, raw))
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, shipper.ErrMalformedResponse)

		var carrierErr *shipper.CarrierError
		require.ErrorAs(t, err, &carrierErr)
		assert.Equal(t, "no rates returned", carrierErr.Message)
	}
}

func TestNormalizeRateResponse_InvalidMonetaryValue(t *testing.T) {
	env := decodeEnvelope(t, `{
		"RateResponse": {
			"RatedShipment": [{
				"Service": {"Code": "03"},
				"TotalCharges": {"CurrencyCode": "USD", "MonetaryValue": "N/A"}
			}]
		}
	}`)

	_, err := ups.NormalizeRateResponse(env)
	require.Error(t, err)

	var carrierErr *shipper.CarrierError
	require.ErrorAs(t, err, &carrierErr)
	assert.Equal(t, shipper.KindMalformedResponse, carrierErr.Kind)
	assert.Equal(t, "N/A", carrierErr.Metadata[shipper.MetaValue])
	assert.False(t, carrierErr.Retryable)
}

func TestNormalizeRateResponse_OptionalFieldsDropped(t *testing.T) {
	env := decodeEnvelope(t, `{
		"RateResponse": {
			"RatedShipment": [{
				"Service": {"Code": "03"},
				"TotalCharges": {"CurrencyCode": "USD", "MonetaryValue": "12.34"},
				"BillingWeight": {"Weight": "heavy"},
				"GuaranteedDelivery": {"BusinessDaysInTransit": "2.5"}
			}]
		}
	}`)

	resp, err := ups.NormalizeRateResponse(env)
	require.NoError(t, err)
	assert.Nil(t, resp.Quotes[0].BillingWeight)
	assert.Nil(t, resp.Quotes[0].EstimatedDeliveryDays)
}

func TestNormalizeRateResponse_NegativeChargeFailsValidation(t *testing.T) {
	env := decodeEnvelope(t, `{
		"RateResponse": {
			"RatedShipment": [{
				"Service": {"Code": "03"},
				"TotalCharges": {"CurrencyCode": "USD", "MonetaryValue": "-1.00"}
			}]
		}
	}`)

	_, err := ups.NormalizeRateResponse(env)
	require.Error(t, err)
	assert.ErrorIs(t, err, shipper.ErrMalformedResponse)

	var carrierErr *shipper.CarrierError
	require.ErrorAs(t, err, &carrierErr)
	assert.Contains(t, carrierErr.Metadata, shipper.MetaIssues)
}
