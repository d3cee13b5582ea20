package shipper

import (
	"time"
)

// CarrierName identifies a shipping carrier.
type CarrierName string

const (
	CarrierUPS   CarrierName = "UPS"
	CarrierFedEx CarrierName = "FEDEX"
	CarrierUSPS  CarrierName = "USPS"
	CarrierDHL   CarrierName = "DHL"
)

// ServiceLevel is a carrier-independent shipping tier.
//
// Quotes for carrier services outside the known tiers carry the raw carrier
// service code as their ServiceLevel.
type ServiceLevel string

const (
	ServiceGround     ServiceLevel = "ground"
	ServiceTwoDayAir  ServiceLevel = "two_day_air"
	ServiceNextDayAir ServiceLevel = "next_day_air"
)

// ServiceLevels returns every known service level.
func ServiceLevels() []ServiceLevel {
	return []ServiceLevel{ServiceGround, ServiceTwoDayAir, ServiceNextDayAir}
}

// Known reports whether the level is one of the abstract tiers.
func (s ServiceLevel) Known() bool {
	switch s {
	case ServiceGround, ServiceTwoDayAir, ServiceNextDayAir:
		return true
	default:
		return false
	}
}

// WeightUnit represents weight measurement unit.
type WeightUnit string

const (
	WeightLBS WeightUnit = "LBS"
	WeightKGS WeightUnit = "KGS"
)

// DimensionUnit represents dimension measurement unit.
type DimensionUnit string

const (
	DimensionIN DimensionUnit = "IN"
	DimensionCM DimensionUnit = "CM"
)

// Address represents a shipping address.
type Address struct {
	Name              string   `json:"name,omitempty" validate:"omitempty,max=100"`
	CompanyName       string   `json:"companyName,omitempty" validate:"omitempty,max=100"`
	AddressLines      []string `json:"addressLines" validate:"min=1,max=3,dive,required,max=35"`
	City              string   `json:"city" validate:"required,max=30"`
	StateProvinceCode string   `json:"stateProvinceCode,omitempty" validate:"omitempty,max=5"` // e.g., "GA", "ON"
	PostalCode        string   `json:"postalCode" validate:"required,max=12"`
	CountryCode       string   `json:"countryCode" validate:"len=2,alpha"` // ISO 3166-1 alpha-2
}

// Dimensions of a parcel.
type Dimensions struct {
	Length float64       `json:"length" validate:"gt=0"`
	Width  float64       `json:"width" validate:"gt=0"`
	Height float64       `json:"height" validate:"gt=0"`
	Unit   DimensionUnit `json:"unit" validate:"oneof=IN CM"`
}

// Parcel represents a package to be rated.
type Parcel struct {
	Weight     float64    `json:"weight" validate:"gt=0"`
	WeightUnit WeightUnit `json:"weightUnit" validate:"oneof=LBS KGS"`
	Dimensions Dimensions `json:"dimensions"`
}

// Money represents a monetary amount.
type Money struct {
	Currency string  `json:"currency" validate:"len=3"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

// RateRequest is a carrier-agnostic request for shipping rates.
type RateRequest struct {
	// ShipmentID is an optional correlation id echoed back by the carrier.
	ShipmentID   string       `json:"shipmentId,omitempty" validate:"omitempty,max=64"`
	Origin       Address      `json:"origin"`
	Destination  Address      `json:"destination"`
	Parcels      []Parcel     `json:"parcels" validate:"min=1,dive"`
	ServiceLevel ServiceLevel `json:"serviceLevel,omitempty" validate:"omitempty,oneof=ground two_day_air next_day_air"`
	ShipDate     *time.Time   `json:"shipDate,omitempty"`
}

// RateQuote is one quoted price and service combination.
type RateQuote struct {
	Carrier               string       `json:"carrier" validate:"required"`
	ServiceLevel          ServiceLevel `json:"serviceLevel" validate:"required"`
	ServiceName           string       `json:"serviceName,omitempty"`
	TotalCharge           Money        `json:"totalCharge"`
	BillingWeight         *float64     `json:"billingWeight,omitempty" validate:"omitempty,gt=0"`
	EstimatedDeliveryDays *int         `json:"estimatedDeliveryDays,omitempty" validate:"omitempty,gte=0"`
	RawServiceCode        string       `json:"rawServiceCode,omitempty"`
}

// RateResponse is the normalized result of a rate request.
type RateResponse struct {
	RequestID string      `json:"requestId,omitempty"`
	Quotes    []RateQuote `json:"quotes" validate:"min=1,dive"`
}
