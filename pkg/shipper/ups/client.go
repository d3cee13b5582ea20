// Package ups provides integration with the UPS Rating API.
package ups

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/ratebridge/pkg/shipper"
	"github.com/tournevent/ratebridge/pkg/transport"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	carrierName = string(shipper.CarrierUPS)

	opOAuth = "oauth"
	opRate  = "rate"

	defaultTokenPath = "/security/v1/oauth/token"
	defaultRatePath  = "/api/rating/v2409/Rate"
	defaultTimeout   = 10 * time.Second

	transactionSource = "ratebridge"
	tracerName        = "github.com/tournevent/ratebridge/pkg/shipper/ups"
)

// Config holds UPS configuration.
type Config struct {
	BaseURL       string        `validate:"required,url"`
	ClientID      string        `validate:"required"`
	ClientSecret  string        `validate:"required"`
	AccountNumber string        `validate:"required"`
	TokenPath     string        `validate:"required,startswith=/"`
	RatePath      string        `validate:"required,startswith=/"`
	Timeout       time.Duration `validate:"gt=0"`
	UseMock       bool          // When true, uses the mock transport
}

func (c Config) withDefaults() Config {
	if c.TokenPath == "" {
		c.TokenPath = defaultTokenPath
	}
	if c.RatePath == "" {
		c.RatePath = defaultRatePath
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// Validate reports missing or invalid settings as a ConfigError.
func (c Config) Validate() error {
	if issues := shipper.Validate(c.withDefaults()); issues != nil {
		return shipper.NewCarrierError(shipper.KindConfig, carrierName, "config", "invalid UPS configuration").
			WithMetadata(shipper.MetaIssues, issues)
	}
	return nil
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Client is the UPS shipper client.
// It implements the shipper.Shipper interface on top of a transport.Client.
type Client struct {
	config    Config
	transport transport.Client
	tokens    *TokenManager
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new UPS client.
// If cfg.UseMock is true, it uses a mock transport serving canned responses.
// Otherwise, it validates cfg and uses the real HTTP transport.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer, opts ...Option) (*Client, error) {
	var tr transport.Client

	if cfg.UseMock {
		tr = NewMockTransport()
	} else {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		tr = transport.NewHTTPClient(transport.HTTPClientConfig{
			Timeout: cfg.withDefaults().Timeout,
		})
	}

	return NewWithTransport(cfg, tr, logger, tracer, opts...), nil
}

// NewWithTransport creates a new UPS client with a custom transport.
// This is useful for injecting mock transports in tests.
func NewWithTransport(cfg Config, tr transport.Client, logger *otelzap.Logger, tracer trace.Tracer, opts ...Option) *Client {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	cfg = cfg.withDefaults()
	return &Client{
		config:    cfg,
		transport: tr,
		tokens:    NewTokenManager(cfg, tr, logger, o.now),
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// Tokens returns the client's token manager.
func (c *Client) Tokens() *TokenManager {
	return c.tokens
}

// GetRates returns normalized shipping quotes from UPS.
func (c *Client) GetRates(ctx context.Context, req *shipper.RateRequest) (_ *shipper.RateResponse, err error) {
	ctx, span := c.tracer.Start(ctx, "ups.GetRates")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(shipper.KindOf(err)))
		}
		span.End()
	}()

	if err := shipper.ValidateRateRequest(req, carrierName); err != nil {
		c.logger.Ctx(ctx).Warn("UPS rate request rejected", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("ups.parcel_count", len(req.Parcels)),
		attribute.String("ups.service_level", string(req.ServiceLevel)),
	)
	c.logger.Ctx(ctx).Info("Getting UPS rates",
		zap.String("shipment_id", req.ShipmentID),
		zap.String("origin_postal", req.Origin.PostalCode),
		zap.String("destination_postal", req.Destination.PostalCode),
		zap.Int("parcel_count", len(req.Parcels)),
	)

	resp, err := c.getRates(ctx, req)
	if err != nil {
		carrierErr := shipper.Classify(err, "failed to retrieve UPS rates", opRate, carrierName)
		c.logger.Ctx(ctx).Error("UPS rate request failed",
			zap.String("kind", string(carrierErr.Kind)),
			zap.Int("status", carrierErr.StatusCode),
			zap.Bool("retryable", carrierErr.Retryable),
			zap.Error(carrierErr),
		)
		return nil, carrierErr
	}

	span.SetAttributes(attribute.Int("ups.quote_count", len(resp.Quotes)))
	return resp, nil
}

func (c *Client) getRates(ctx context.Context, req *shipper.RateRequest) (*shipper.RateResponse, error) {
	payload, err := BuildRatePayload(req, c.config.AccountNumber)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rate request: %w", err)
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	header := make(http.Header)
	header.Set("Authorization", "Bearer "+token)
	header.Set("Content-Type", "application/json")
	header.Set("transId", uuid.New().String())
	header.Set("transactionSrc", transactionSource)

	resp, err := c.transport.Do(ctx, &transport.Request{
		Method:  http.MethodPost,
		URL:     c.config.BaseURL + c.config.RatePath,
		Header:  header,
		Body:    body,
		Timeout: c.config.Timeout,
	})
	if err != nil {
		return nil, err
	}

	if err := checkRateStatus(resp); err != nil {
		return nil, err
	}

	var envelope RateResponseEnvelope
	if err := decodeJSON(resp, &envelope, opRate, "UPS rate response was malformed"); err != nil {
		return nil, err
	}
	return NormalizeRateResponse(&envelope)
}

// checkRateStatus triages a rate response status into the error taxonomy.
func checkRateStatus(resp *transport.Response) error {
	status := resp.StatusCode
	var err *shipper.CarrierError
	switch {
	case status == http.StatusUnauthorized:
		err = shipper.NewCarrierError(shipper.KindAuth, carrierName, opRate, "UPS authentication failed").
			WithRetryable(false)
	case status == http.StatusTooManyRequests:
		err = shipper.NewCarrierError(shipper.KindRateLimit, carrierName, opRate, "UPS rate limit exceeded").
			WithRetryable(true)
	case status >= http.StatusInternalServerError:
		err = shipper.NewCarrierError(shipper.KindUpstreamHTTP, carrierName, opRate, "UPS server error").
			WithRetryable(true)
	case status >= http.StatusBadRequest:
		err = shipper.NewCarrierError(shipper.KindUpstreamHTTP, carrierName, opRate, "UPS request rejected").
			WithRetryable(false)
	default:
		return nil
	}
	return withUpstream(err.WithStatusCode(status), resp)
}

var _ shipper.Shipper = (*Client)(nil)
