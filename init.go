package main

import (
	"context"

	"github.com/farmaborsa/cargo/internal/config"
	"github.com/farmaborsa/cargo/internal/telemetry"
	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/farmaborsa/cargo/pkg/cargo/aras"
	"github.com/farmaborsa/cargo/pkg/cargo/mng"
	"github.com/farmaborsa/cargo/pkg/cargo/navlungo"
	"github.com/farmaborsa/cargo/pkg/cargo/ptt"
	"github.com/farmaborsa/cargo/pkg/cargo/yurtici"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}

	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

// initGateway wires every enabled carrier into the registry and wraps it
// in the gateway.
func initGateway(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *cargo.Gateway {
	registry := cargo.NewRegistry()

	if cfg.ArasEnabled {
		registry.Register(aras.New(aras.Config{
			Username:     cfg.ArasUsername,
			Password:     cfg.ArasPassword,
			CustomerCode: cfg.ArasCustomerCode,
			EndpointURL:  cfg.ArasEndpointURL,
			UseMock:      cfg.ArasUseMock,
		}, logger, tracer))
	}

	if cfg.MNGEnabled {
		registry.Register(mng.New(mng.Config{
			CustomerNo:  cfg.MNGCustomerNo,
			Username:    cfg.MNGUsername,
			Password:    cfg.MNGPassword,
			EndpointURL: cfg.MNGEndpointURL,
			UseMock:     cfg.MNGUseMock,
		}, logger, tracer))
	}

	if cfg.PTTEnabled {
		registry.Register(ptt.New(ptt.Config{
			CustomerID:         cfg.PTTCustomerID,
			Username:           cfg.PTTUsername,
			Password:           cfg.PTTPassword,
			EndpointURL:        cfg.PTTEndpointURL,
			InsecureSkipVerify: cfg.PTTInsecureSkipVerify,
			UseMock:            cfg.PTTUseMock,
		}, logger, tracer))
	}

	if cfg.YurticiEnabled {
		registry.Register(yurtici.New(yurtici.Config{
			Username:    cfg.YurticiUsername,
			Password:    cfg.YurticiPassword,
			EndpointURL: cfg.YurticiEndpointURL,
			Language:    cfg.YurticiLanguage,
			UseMock:     cfg.YurticiUseMock,
		}, logger, tracer))
	}

	if cfg.NavlungoEnabled {
		registry.Register(navlungo.New(navlungo.Config{
			Username: cfg.NavlungoUsername,
			Password: cfg.NavlungoPassword,
			BaseURL:  cfg.NavlungoBaseURL,
			UseMock:  cfg.NavlungoUseMock,
		}, logger, tracer))
	}

	return cargo.NewGateway(registry, logger)
}
