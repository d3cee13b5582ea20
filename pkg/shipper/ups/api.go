package ups

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tournevent/ratebridge/pkg/shipper"
	"github.com/tournevent/ratebridge/pkg/transport"
)

// ============================================================================
// OAuth token endpoint (POST /security/v1/oauth/token)
// ============================================================================

// TokenResponse is the client-credentials grant response.
type TokenResponse struct {
	AccessToken string  `json:"access_token" validate:"required"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   Seconds `json:"expires_in" validate:"gt=0"`
}

// Seconds is a whole number of seconds. UPS sends expires_in both as a JSON
// number and as a numeric string; anything else decodes to 0 and fails validation.
type Seconds int64

// UnmarshalJSON implements json.Unmarshaler.
func (s *Seconds) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(strings.Trim(string(bytes.TrimSpace(data)), `"`))
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		*s = 0
		return nil
	}
	*s = Seconds(f)
	return nil
}

// ============================================================================
// Rating endpoint request (POST /api/rating/{version}/{Rate|Shop})
// ============================================================================

// RateRequestPayload is the UPS Rating API request document.
type RateRequestPayload struct {
	RateRequest RateRequestBody `json:"RateRequest"`
}

// RateRequestBody wraps the request options and the shipment.
type RateRequestBody struct {
	Request  RequestInfo `json:"Request"`
	Shipment Shipment    `json:"Shipment"`
}

// RequestInfo selects rate mode and carries the correlation id.
type RequestInfo struct {
	RequestOption        string                `json:"RequestOption"` // "Rate" or "Shop"
	TransactionReference *TransactionReference `json:"TransactionReference,omitempty"`
}

// TransactionReference is echoed by UPS in the response.
type TransactionReference struct {
	CustomerContext string `json:"CustomerContext,omitempty"`
}

// Shipment describes the parties and packages to rate.
type Shipment struct {
	Shipper               Party            `json:"Shipper"`
	ShipTo                Party            `json:"ShipTo"`
	ShipFrom              Party            `json:"ShipFrom"`
	Service               *CodeDescription `json:"Service,omitempty"`
	Package               []Package        `json:"Package"`
	ShipmentRatingOptions *RatingOptions   `json:"ShipmentRatingOptions,omitempty"`
}

// Party is a shipper, recipient or ship-from location.
type Party struct {
	Name          string  `json:"Name,omitempty"`
	ShipperNumber string  `json:"ShipperNumber,omitempty"`
	Address       Address `json:"Address"`
}

// Address is the UPS address shape.
type Address struct {
	AddressLine       []string `json:"AddressLine"`
	City              string   `json:"City"`
	StateProvinceCode string   `json:"StateProvinceCode,omitempty"`
	PostalCode        string   `json:"PostalCode"`
	CountryCode       string   `json:"CountryCode"`
}

// CodeDescription is the ubiquitous UPS {Code, Description} pair.
type CodeDescription struct {
	Code        string `json:"Code"`
	Description string `json:"Description,omitempty"`
}

// Package is a single rated package.
type Package struct {
	PackagingType CodeDescription `json:"PackagingType"`
	Dimensions    Dimensions      `json:"Dimensions"`
	PackageWeight PackageWeight   `json:"PackageWeight"`
}

// Dimensions are serialized as decimal strings with a unit code.
type Dimensions struct {
	UnitOfMeasurement CodeDescription `json:"UnitOfMeasurement"` // "IN" or "CM"
	Length            string          `json:"Length"`
	Width             string          `json:"Width"`
	Height            string          `json:"Height"`
}

// PackageWeight is serialized as a decimal string with a unit code.
type PackageWeight struct {
	UnitOfMeasurement CodeDescription `json:"UnitOfMeasurement"` // "LBS" or "KGS"
	Weight            string          `json:"Weight"`
}

// RatingOptions requests negotiated (contract) rates.
type RatingOptions struct {
	NegotiatedRatesIndicator string `json:"NegotiatedRatesIndicator"`
}

// ============================================================================
// Rating endpoint response
// ============================================================================

// RateResponseEnvelope is the UPS Rating API response document.
type RateResponseEnvelope struct {
	RateResponse RateResponseBody `json:"RateResponse"`
}

// RateResponseBody holds the rated shipments.
type RateResponseBody struct {
	Response      *ResponseInfo  `json:"Response,omitempty"`
	RatedShipment RatedShipments `json:"RatedShipment" validate:"dive"`
}

// ResponseInfo carries the echoed transaction reference.
type ResponseInfo struct {
	TransactionReference *TransactionReference `json:"TransactionReference,omitempty"`
}

// RatedShipments accepts both a single rated shipment object and an array.
type RatedShipments []RatedShipment

// UnmarshalJSON implements json.Unmarshaler.
func (r *RatedShipments) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*r = nil
		return nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var many []RatedShipment
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*r = many
		return nil
	default:
		var one RatedShipment
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return err
		}
		*r = RatedShipments{one}
		return nil
	}
}

// RatedShipment is one quoted service.
type RatedShipment struct {
	Service            ServiceInfo         `json:"Service"`
	TotalCharges       Charges             `json:"TotalCharges"`
	BillingWeight      *BillingWeight      `json:"BillingWeight,omitempty"`
	GuaranteedDelivery *GuaranteedDelivery `json:"GuaranteedDelivery,omitempty"`
}

// ServiceInfo names the rated service.
type ServiceInfo struct {
	Code        string `json:"Code" validate:"required"`
	Description string `json:"Description,omitempty"`
}

// Charges is a monetary value as UPS sends it (decimal string).
type Charges struct {
	CurrencyCode  string `json:"CurrencyCode" validate:"len=3"`
	MonetaryValue string `json:"MonetaryValue" validate:"required"`
}

// BillingWeight is the weight UPS billed for.
type BillingWeight struct {
	UnitOfMeasurement *CodeDescription `json:"UnitOfMeasurement,omitempty"`
	Weight            string           `json:"Weight" validate:"required"`
}

// GuaranteedDelivery carries the transit estimate.
type GuaranteedDelivery struct {
	BusinessDaysInTransit string `json:"BusinessDaysInTransit,omitempty"`
	DeliveryByTime        string `json:"DeliveryByTime,omitempty"`
}

// ============================================================================
// Error body
// ============================================================================

// APIError is the UPS error document returned with 4xx/5xx responses.
type APIError struct {
	Response struct {
		Errors []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"response"`
}

// parseAPIError extracts the first UPS error code and message, if any.
func parseAPIError(resp *transport.Response) (code, message string) {
	var apiErr APIError
	if err := resp.JSON(&apiErr); err != nil || len(apiErr.Response.Errors) == 0 {
		return "", ""
	}
	first := apiErr.Response.Errors[0]
	return first.Code, first.Message
}

// withUpstream decorates err with the UPS error code and message from resp.
func withUpstream(err *shipper.CarrierError, resp *transport.Response) *shipper.CarrierError {
	code, message := parseAPIError(resp)
	if code != "" {
		err.WithUpstreamCode(code)
	}
	if message != "" {
		err.WithMetadata(shipper.MetaUpstreamMessage, message)
	}
	return err
}

// decodeJSON decodes and schema-validates an upstream body. Syntax errors are
// returned raw for the classifier; schema violations become MalformedResponse.
func decodeJSON(resp *transport.Response, v any, operation, message string) error {
	if err := resp.JSON(v); err != nil {
		return err
	}
	if issues := shipper.Validate(v); issues != nil {
		return shipper.NewCarrierError(shipper.KindMalformedResponse, carrierName, operation, message).
			WithMetadata(shipper.MetaIssues, issues)
	}
	return nil
}
