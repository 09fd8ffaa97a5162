// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Aras Kargo
	ArasUsername     string `envconfig:"ARAS_USERNAME"`
	ArasPassword     string `envconfig:"ARAS_PASSWORD"`
	ArasCustomerCode string `envconfig:"ARAS_CUSTOMER_CODE"`
	ArasEndpointURL  string `envconfig:"ARAS_ENDPOINT_URL" default:"https://customerws.araskargo.com.tr/arascargoservice.asmx"`
	ArasEnabled      bool   `envconfig:"ARAS_ENABLED" default:"true"`
	ArasUseMock      bool   `envconfig:"ARAS_USE_MOCK" default:"false"`

	// MNG Kargo
	MNGCustomerNo  string `envconfig:"MNG_CUSTOMER_NO"`
	MNGUsername    string `envconfig:"MNG_USERNAME"`
	MNGPassword    string `envconfig:"MNG_PASSWORD"`
	MNGEndpointURL string `envconfig:"MNG_ENDPOINT_URL" default:"https://service.mngkargo.com.tr/tservis/siparisislemleri.asmx"`
	MNGEnabled     bool   `envconfig:"MNG_ENABLED" default:"true"`
	MNGUseMock     bool   `envconfig:"MNG_USE_MOCK" default:"false"`

	// PTT Kargo
	PTTCustomerID         string `envconfig:"PTT_CUSTOMER_ID"`
	PTTUsername           string `envconfig:"PTT_USERNAME"`
	PTTPassword           string `envconfig:"PTT_PASSWORD"`
	PTTEndpointURL        string `envconfig:"PTT_ENDPOINT_URL" default:"https://pttws.ptt.gov.tr/PttVerileriDuzeltmeServis/services"`
	PTTInsecureSkipVerify bool   `envconfig:"PTT_INSECURE_SKIP_VERIFY" default:"false"`
	PTTEnabled            bool   `envconfig:"PTT_ENABLED" default:"true"`
	PTTUseMock            bool   `envconfig:"PTT_USE_MOCK" default:"false"`

	// Yurtici Kargo
	YurticiUsername    string `envconfig:"YURTICI_USERNAME"`
	YurticiPassword    string `envconfig:"YURTICI_PASSWORD"`
	YurticiEndpointURL string `envconfig:"YURTICI_ENDPOINT_URL" default:"https://webservices.yurticikargo.com/KOPSWebServices/ShippingOrderDispatcherServices"`
	YurticiLanguage    string `envconfig:"YURTICI_LANGUAGE" default:"TR"`
	YurticiEnabled     bool   `envconfig:"YURTICI_ENABLED" default:"true"`
	YurticiUseMock     bool   `envconfig:"YURTICI_USE_MOCK" default:"false"`

	// Navlungo
	NavlungoUsername string `envconfig:"NAVLUNGO_USERNAME"`
	NavlungoPassword string `envconfig:"NAVLUNGO_PASSWORD"`
	NavlungoBaseURL  string `envconfig:"NAVLUNGO_BASE_URL" default:"https://api.navlungo.com"`
	NavlungoEnabled  bool   `envconfig:"NAVLUNGO_ENABLED" default:"true"`
	NavlungoUseMock  bool   `envconfig:"NAVLUNGO_USE_MOCK" default:"false"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://jaeger-collector.observability.svc.cluster.local:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"farmaborsa-cargo"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables. A .env file in
// the working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("aras.enabled", c.ArasEnabled),
		attribute.Bool("mng.enabled", c.MNGEnabled),
		attribute.Bool("ptt.enabled", c.PTTEnabled),
		attribute.Bool("yurtici.enabled", c.YurticiEnabled),
		attribute.Bool("navlungo.enabled", c.NavlungoEnabled),
	}
}
