package ups

import (
	"fmt"
	"strconv"

	"github.com/tournevent/ratebridge/pkg/shipper"
)

const (
	requestOptionRate = "Rate"
	requestOptionShop = "Shop"

	packagingCustomerSupplied = "02"
	negotiatedRatesOn         = "Y"
)

// BuildRatePayload maps a validated RateRequest onto the UPS Rating API
// document. It performs no I/O; the same inputs always produce the same payload.
func BuildRatePayload(req *shipper.RateRequest, accountNumber string) (*RateRequestPayload, error) {
	info := RequestInfo{RequestOption: requestOptionShop}
	if req.ShipmentID != "" {
		info.TransactionReference = &TransactionReference{CustomerContext: req.ShipmentID}
	}

	var service *CodeDescription
	if req.ServiceLevel != "" {
		code, ok := ServiceCode(req.ServiceLevel)
		if !ok {
			return nil, shipper.NewCarrierError(shipper.KindValidation, carrierName, opRate,
				fmt.Sprintf("unsupported service level %q", req.ServiceLevel))
		}
		info.RequestOption = requestOptionRate
		service = &CodeDescription{Code: code, Description: ServiceName(req.ServiceLevel)}
	}

	return &RateRequestPayload{
		RateRequest: RateRequestBody{
			Request: info,
			Shipment: Shipment{
				Shipper: Party{
					Name:          req.Origin.Name,
					ShipperNumber: accountNumber,
					Address:       addressToAPI(req.Origin),
				},
				ShipTo: Party{
					Name:    req.Destination.Name,
					Address: addressToAPI(req.Destination),
				},
				ShipFrom: Party{
					Name:    req.Origin.Name,
					Address: addressToAPI(req.Origin),
				},
				Service: service,
				Package: parcelsToAPI(req.Parcels),
				ShipmentRatingOptions: &RatingOptions{
					NegotiatedRatesIndicator: negotiatedRatesOn,
				},
			},
		},
	}, nil
}

func addressToAPI(addr shipper.Address) Address {
	lines := make([]string, len(addr.AddressLines))
	copy(lines, addr.AddressLines)
	return Address{
		AddressLine:       lines,
		City:              addr.City,
		StateProvinceCode: addr.StateProvinceCode,
		PostalCode:        addr.PostalCode,
		CountryCode:       addr.CountryCode,
	}
}

func parcelsToAPI(parcels []shipper.Parcel) []Package {
	result := make([]Package, len(parcels))
	for i, p := range parcels {
		result[i] = Package{
			PackagingType: CodeDescription{Code: packagingCustomerSupplied},
			Dimensions: Dimensions{
				UnitOfMeasurement: CodeDescription{Code: string(p.Dimensions.Unit)},
				Length:            formatDecimal(p.Dimensions.Length),
				Width:             formatDecimal(p.Dimensions.Width),
				Height:            formatDecimal(p.Dimensions.Height),
			},
			PackageWeight: PackageWeight{
				UnitOfMeasurement: CodeDescription{Code: string(p.WeightUnit)},
				Weight:            formatDecimal(p.Weight),
			},
		}
	}
	return result
}

// formatDecimal renders the shortest decimal string that round-trips, e.g. 3 -> "3", 2.5 -> "2.5".
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
