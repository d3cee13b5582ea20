package graphql

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

const schemaSDL = `
type Query {
  health: String!
  carriers: [String!]!
  serviceLevels: [String!]!
  rates(carrier: String!, input: RateRequestInput!): RateResponse
}

input AddressInput {
  name: String
  companyName: String
  addressLines: [String!]!
  city: String!
  stateProvinceCode: String
  postalCode: String!
  countryCode: String!
}

input DimensionsInput {
  length: Float!
  width: Float!
  height: Float!
  unit: String!
}

input ParcelInput {
  weight: Float!
  weightUnit: String!
  dimensions: DimensionsInput!
}

input RateRequestInput {
  shipmentId: String
  origin: AddressInput!
  destination: AddressInput!
  parcels: [ParcelInput!]!
  serviceLevel: String
}

type Money {
  currency: String!
  amount: Float!
}

type RateQuote {
  carrier: String!
  serviceLevel: String!
  serviceName: String
  totalCharge: Money!
  billingWeight: Float
  estimatedDeliveryDays: Int
  rawServiceCode: String
}

type RateResponse {
  requestId: String
  quotes: [RateQuote!]!
}
`

// Schema is the parsed service schema.
var Schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSDL})
