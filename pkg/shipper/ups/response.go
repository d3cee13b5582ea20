package ups

import (
	"math"
	"strconv"
	"strings"

	"github.com/tournevent/ratebridge/pkg/shipper"
)

// NormalizeRateResponse maps a schema-valid UPS rate response onto the
// carrier-agnostic RateResponse. Unknown service codes are passed through as
// the service level. Only the total charge is mandatory; unparsable optional
// fields are dropped.
func NormalizeRateResponse(payload *RateResponseEnvelope) (*shipper.RateResponse, error) {
	shipments := payload.RateResponse.RatedShipment
	if len(shipments) == 0 {
		return nil, shipper.NewCarrierError(shipper.KindMalformedResponse, carrierName, opRate,
			"no rates returned")
	}

	quotes := make([]shipper.RateQuote, 0, len(shipments))
	for _, s := range shipments {
		amount, ok := parseDecimal(s.TotalCharges.MonetaryValue)
		if !ok {
			return nil, shipper.NewCarrierError(shipper.KindMalformedResponse, carrierName, opRate,
				"UPS returned invalid monetary value").
				WithMetadata(shipper.MetaValue, s.TotalCharges.MonetaryValue)
		}

		level, _ := ServiceLevelOf(s.Service.Code)
		quote := shipper.RateQuote{
			Carrier:        carrierName,
			ServiceLevel:   level,
			ServiceName:    s.Service.Description,
			TotalCharge:    shipper.Money{Currency: s.TotalCharges.CurrencyCode, Amount: amount},
			RawServiceCode: s.Service.Code,
		}
		if s.BillingWeight != nil {
			if w, ok := parseDecimal(s.BillingWeight.Weight); ok {
				quote.BillingWeight = &w
			}
		}
		if s.GuaranteedDelivery != nil {
			if days, ok := parseWhole(s.GuaranteedDelivery.BusinessDaysInTransit); ok {
				quote.EstimatedDeliveryDays = &days
			}
		}
		quotes = append(quotes, quote)
	}

	resp := &shipper.RateResponse{
		RequestID: customerContext(payload.RateResponse.Response),
		Quotes:    quotes,
	}

	if issues := shipper.Validate(resp); issues != nil {
		return nil, shipper.NewCarrierError(shipper.KindMalformedResponse, carrierName, opRate,
			"normalized response failed validation").
			WithMetadata(shipper.MetaIssues, issues)
	}
	return resp, nil
}

func customerContext(info *ResponseInfo) string {
	if info == nil || info.TransactionReference == nil {
		return ""
	}
	return info.TransactionReference.CustomerContext
}

// parseDecimal parses a finite decimal number.
func parseDecimal(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseWhole parses a whole number such as "3" or "3.0".
func parseWhole(raw string) (int, bool) {
	v, ok := parseDecimal(raw)
	if !ok || v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
		return 0, false
	}
	return int(v), true
}
