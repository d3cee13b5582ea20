package graphql

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tournevent/ratebridge/pkg/shipper"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// rateRequestFromInput converts a coerced RateRequestInput argument. The
// input field names are the JSON names of shipper.RateRequest.
func rateRequestFromInput(input any) (*shipper.RateRequest, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encoding input: %w", err)
	}
	var req shipper.RateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}
	return &req, nil
}

// project renders v as JSON-shaped data restricted to the selection set.
func project(v any, set ast.SelectionSet) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return selectFields(generic, set), nil
}

func selectFields(v any, set ast.SelectionSet) any {
	if len(set) == 0 {
		return v
	}
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = selectFields(item, set)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(set))
		for _, field := range collectFields(set) {
			if field.Name == "__typename" {
				out[field.Alias] = field.ObjectDefinition.Name
				continue
			}
			// Absent optional fields are null.
			out[field.Alias] = selectFields(val[field.Name], field.SelectionSet)
		}
		return out
	default:
		return v
	}
}

// toGraphQLError maps a resolver error onto a GraphQL error for field.
// Carrier errors expose their kind, retry guidance and status as extensions.
func toGraphQLError(err error, field *ast.Field) *gqlerror.Error {
	gqlErr := &gqlerror.Error{
		Message: err.Error(),
		Path:    ast.Path{ast.PathName(field.Alias)},
	}
	if field.Position != nil {
		gqlErr.Locations = []gqlerror.Location{{Line: field.Position.Line, Column: field.Position.Column}}
	}

	var carrierErr *shipper.CarrierError
	if errors.As(err, &carrierErr) {
		gqlErr.Message = carrierErr.Message
		gqlErr.Extensions = map[string]any{
			"kind":      string(carrierErr.Kind),
			"retryable": carrierErr.Retryable,
			"carrier":   carrierErr.Carrier,
		}
		if carrierErr.StatusCode != 0 {
			gqlErr.Extensions["status"] = carrierErr.StatusCode
		}
		if carrierErr.UpstreamCode != "" {
			gqlErr.Extensions["upstreamCode"] = carrierErr.UpstreamCode
		}
		if issues, ok := carrierErr.Metadata[shipper.MetaIssues].(shipper.Issues); ok {
			gqlErr.Extensions["issues"] = issues
		}
	}
	return gqlErr
}
