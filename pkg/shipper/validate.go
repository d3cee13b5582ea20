package shipper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so issues line up with the wire documents.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Issue is a single structural validation failure.
type Issue struct {
	Path  string `json:"path"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
	Value any    `json:"value,omitempty"`
}

// String renders the issue for log lines and error messages.
func (i Issue) String() string {
	if i.Param != "" {
		return fmt.Sprintf("%s: failed %s=%s", i.Path, i.Rule, i.Param)
	}
	return fmt.Sprintf("%s: failed %s", i.Path, i.Rule)
}

// Issues is the list of validation failures for one value.
type Issues []Issue

// Error implements the error interface.
func (is Issues) Error() string {
	parts := make([]string, len(is))
	for i, issue := range is {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

// Validate checks v against its struct tags and returns the issue list,
// or nil when v is valid.
func Validate(v any) Issues {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Issues{{Path: "", Rule: err.Error()}}
	}

	issues := make(Issues, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{
			Path:  trimRoot(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return issues
}

// trimRoot drops the leading struct type name from a validator namespace.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// ValidateRateRequest checks the RateRequest invariants and returns a
// ValidationError carrying the issue list on failure.
func ValidateRateRequest(req *RateRequest, carrier string) error {
	if req == nil {
		return NewCarrierError(KindValidation, carrier, "rate", "rate request is required")
	}
	if issues := Validate(req); issues != nil {
		return NewCarrierError(KindValidation, carrier, "rate", "rate request validation failed").
			WithMetadata(MetaIssues, issues)
	}
	return nil
}
