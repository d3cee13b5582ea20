package main

import (
	"context"

	"github.com/tournevent/ratebridge/internal/config"
	"github.com/tournevent/ratebridge/internal/telemetry"
	"github.com/tournevent/ratebridge/pkg/shipper"
	"github.com/tournevent/ratebridge/pkg/shipper/ups"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(cfg *config.Config) (*otelzap.Logger, error) {
	return telemetry.NewLogger(cfg.LogLevel, cfg.LogFile)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version, cfg.Attributes()...)
	return shutdown, err
}

func initShipperRegistry(cfg *config.Config, logger *otelzap.Logger) (*shipper.Registry, error) {
	registry := shipper.NewRegistry()

	// Carriers share the global provider, which is a no-op unless initTracer installed one.
	tracer := otel.GetTracerProvider().Tracer(cfg.ServiceName)

	// Register enabled carriers
	if cfg.UPSEnabled {
		client, err := ups.New(cfg.UPS(), logger, tracer)
		if err != nil {
			return nil, err
		}
		registry.Register(client)
		logger.Info("Registered carrier",
			zap.String("carrier", client.Name()),
			zap.Bool("mock", cfg.UPSUseMock),
		)
	}

	return registry, nil
}
