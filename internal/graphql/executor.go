package graphql

import (
	"context"
	"errors"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is a GraphQL-over-HTTP response body.
type Response struct {
	Data   map[string]any `json:"data,omitempty"`
	Errors gqlerror.List  `json:"errors,omitempty"`
}

// Execute parses, validates and runs a query against the resolver.
// Document and variable errors are reported with a nil Data; resolver
// errors null the failing field and are listed alongside the data.
func (r *Resolver) Execute(ctx context.Context, req Request) *Response {
	doc, errs := gqlparser.LoadQuery(Schema, req.Query)
	if len(errs) > 0 {
		return &Response{Errors: errs}
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("operation %q not found", req.OperationName)}}
	}
	if op.Operation != ast.Query {
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("%s operations are not supported", op.Operation)}}
	}

	vars, verr := validator.VariableValues(Schema, op, req.Variables)
	if verr != nil {
		var gqlErr *gqlerror.Error
		if !errors.As(verr, &gqlErr) {
			gqlErr = gqlerror.Errorf("%s", verr.Error())
		}
		return &Response{Errors: gqlerror.List{gqlErr}}
	}

	resp := &Response{Data: make(map[string]any)}
	for _, field := range collectFields(op.SelectionSet) {
		value, err := r.resolveField(ctx, field, vars)
		if err != nil {
			resp.Data[field.Alias] = nil
			resp.Errors = append(resp.Errors, toGraphQLError(err, field))
			continue
		}
		resp.Data[field.Alias] = value
	}
	return resp
}

func (r *Resolver) resolveField(ctx context.Context, field *ast.Field, vars map[string]any) (any, error) {
	switch field.Name {
	case "__typename":
		return field.ObjectDefinition.Name, nil
	case "health":
		return r.Health(ctx), nil
	case "carriers":
		return r.Carriers(ctx), nil
	case "serviceLevels":
		return r.ServiceLevels(ctx), nil
	case "rates":
		args := field.ArgumentMap(vars)
		carrier, _ := args["carrier"].(string)
		req, err := rateRequestFromInput(args["input"])
		if err != nil {
			return nil, err
		}
		resp, err := r.Rates(ctx, carrier, req)
		if err != nil {
			return nil, err
		}
		return project(resp, field.SelectionSet)
	default:
		return nil, gqlerror.Errorf("field %q is not implemented", field.Name)
	}
}

// collectFields flattens fragments into the list of fields to resolve.
func collectFields(set ast.SelectionSet) []*ast.Field {
	var fields []*ast.Field
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			fields = append(fields, s)
		case *ast.InlineFragment:
			fields = append(fields, collectFields(s.SelectionSet)...)
		case *ast.FragmentSpread:
			if s.Definition != nil {
				fields = append(fields, collectFields(s.Definition.SelectionSet)...)
			}
		}
	}
	return fields
}
