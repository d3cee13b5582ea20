package graphql

import (
	"context"
	"time"

	"github.com/tournevent/ratebridge/internal/telemetry"
	"github.com/tournevent/ratebridge/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Resolver is the root resolver for the GraphQL schema.
// It holds dependencies needed by all resolvers.
type Resolver struct {
	Registry *shipper.Registry
	Logger   *otelzap.Logger
	Metrics  *telemetry.Metrics
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(registry *shipper.Registry, logger *otelzap.Logger, metrics *telemetry.Metrics) *Resolver {
	return &Resolver{
		Registry: registry,
		Logger:   logger,
		Metrics:  metrics,
	}
}

// Health reports liveness.
func (r *Resolver) Health(ctx context.Context) string {
	return "ok"
}

// Carriers lists the registered carrier names.
func (r *Resolver) Carriers(ctx context.Context) []string {
	return r.Registry.Names()
}

// ServiceLevels lists the abstract service tiers.
func (r *Resolver) ServiceLevels(ctx context.Context) []string {
	levels := shipper.ServiceLevels()
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}
	return out
}

// Rates quotes a shipment with one carrier.
func (r *Resolver) Rates(ctx context.Context, carrier string, req *shipper.RateRequest) (*shipper.RateResponse, error) {
	start := time.Now()
	resp, err := r.Registry.GetRates(ctx, carrier, req)
	duration := time.Since(start).Seconds()

	if err != nil {
		kind := string(shipper.KindOf(err))
		r.Metrics.RecordRequest("rates", carrier, "error", duration)
		r.Metrics.RecordError(carrier, kind)
		r.Logger.Ctx(ctx).Warn("Rate request failed",
			zap.String("carrier", carrier),
			zap.String("kind", kind),
			zap.Bool("retryable", shipper.IsRetryable(err)),
		)
		return nil, err
	}

	r.Metrics.RecordRequest("rates", carrier, "success", duration)
	r.Logger.Ctx(ctx).Info("Rates served",
		zap.String("carrier", carrier),
		zap.String("request_id", resp.RequestID),
		zap.Int("quote_count", len(resp.Quotes)),
	)
	return resp, nil
}
