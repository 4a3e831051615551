package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/logging"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/order"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/storage/sqlcatalog"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/telemetry"
)

// Config aggregates runtime configuration grouped by concern.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"storefront-order-simulator"`
	Version     string `env:"SERVICE_VERSION" envDefault:"dev"`

	HTTP       HTTPConfig                `envPrefix:"HTTP_"`
	GRPC       GRPCConfig                `envPrefix:"GRPC_"`
	Restate    RestateConfig             `envPrefix:"RESTATE_"`
	Kafka      KafkaConfig               `envPrefix:"KAFKA_"`
	Database   sqlcatalog.DatabaseConfig `envPrefix:"DATABASE_"`
	Simulation SimulationConfig          `envPrefix:"SIMULATION_"`
	Telemetry  telemetry.Config
	Log        logging.Config
}

type HTTPConfig struct {
	Addr            string        `env:"LISTEN_ADDR" envDefault:":3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	AllowedOrigin   string        `env:"ALLOWED_ORIGIN" envDefault:"*"`
}

type GRPCConfig struct {
	Addr string `env:"LISTEN_ADDR" envDefault:":9090"`
}

type RestateConfig struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":9081"`
}

// KafkaConfig enables the audit feed when Brokers is non-empty.
type KafkaConfig struct {
	Brokers    []string `env:"BROKERS" envSeparator:","`
	Topic      string   `env:"TOPIC" envDefault:"orders.simulated.v1"`
	AuditGroup string   `env:"AUDIT_GROUP" envDefault:"storefront-simulator-audit"`
}

type SimulationConfig struct {
	PaymentBaseURL  string        `env:"PAYMENT_BASE_URL" envDefault:"https://mock.app-pay.dev/pay"`
	FailureRate     float64       `env:"FAILURE_RATE" envDefault:"0"`
	CreatedDelay    time.Duration `env:"CREATED_DELAY" envDefault:"600ms"`
	RedirectDelay   time.Duration `env:"REDIRECT_DELAY" envDefault:"900ms"`
	ProcessingDelay time.Duration `env:"PROCESSING_DELAY" envDefault:"1s"`
	WebhookDelay    time.Duration `env:"WEBHOOK_DELAY" envDefault:"800ms"`
}

// Delays converts the configured waits into timeline delays.
func (s SimulationConfig) Delays() order.Delays {
	return order.Delays{
		Created:    s.CreatedDelay,
		Redirect:   s.RedirectDelay,
		Processing: s.ProcessingDelay,
		Webhook:    s.WebhookDelay,
	}
}

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.Simulation.FailureRate < 0 || cfg.Simulation.FailureRate > 1 {
		return Config{}, fmt.Errorf("config.Load: SIMULATION_FAILURE_RATE must be within [0,1], got %v", cfg.Simulation.FailureRate)
	}
	switch cfg.Database.Driver {
	case "", sqlcatalog.DriverPostgres, sqlcatalog.DriverSQLite:
	default:
		return Config{}, fmt.Errorf("config.Load: unsupported DATABASE_DRIVER %q", cfg.Database.Driver)
	}
	return cfg, nil
}
