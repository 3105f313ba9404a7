// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Broker kinds.
const (
	BrokerDefault = "default"
	BrokerSync    = "sync"
	BrokerCaptcha = "captcha"
)

// Config is the root configuration of the server.
type Config struct {
	Addr           string        `env:"AUTHFLOW_ADDR" envDefault:":8080"`
	Environment    string        `env:"AUTHFLOW_ENV" envDefault:"development"`
	LogLevel       string        `env:"AUTHFLOW_LOG_LEVEL" envDefault:"info"`
	RequestTimeout time.Duration `env:"AUTHFLOW_REQUEST_TIMEOUT" envDefault:"15s"`
	// TrustedProxies lists the CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string `env:"AUTHFLOW_TRUSTED_PROXIES" envSeparator:","`

	Registry   RegistryConfig   `envPrefix:"AUTHFLOW_REGISTRY_"`
	Auth       AuthConfig       `envPrefix:"AUTHFLOW_AUTH_"`
	Redis      RedisConfig      `envPrefix:"AUTHFLOW_REDIS_"`
	Kafka      KafkaConfig      `envPrefix:"AUTHFLOW_KAFKA_"`
	Broker     BrokerConfig     `envPrefix:"AUTHFLOW_BROKER_"`
	Experiment ExperimentConfig `envPrefix:"AUTHFLOW_EXPERIMENT_"`
	Scope      ScopeConfig      `envPrefix:"AUTHFLOW_SCOPE_"`

	// VerificationContextTTL bounds how long a persisted OAuth context
	// waits for its verification link.
	VerificationContextTTL time.Duration `env:"AUTHFLOW_VERIFICATION_CONTEXT_TTL" envDefault:"1h"`
}

// RegistryConfig selects the client registry. StaticFile wins over URL.
type RegistryConfig struct {
	URL              string        `env:"URL"`
	StaticFile       string        `env:"STATIC_FILE"`
	Timeout          time.Duration `env:"TIMEOUT" envDefault:"5s"`
	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	FailureThreshold int           `env:"FAILURE_THRESHOLD" envDefault:"5"`
	SuccessThreshold int           `env:"SUCCESS_THRESHOLD" envDefault:"2"`
}

type AuthConfig struct {
	URL     string        `env:"URL" envDefault:"http://localhost:9000"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// RedisConfig configures the shared redis client. An empty URL selects the
// in-memory stores.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig configures the telemetry sink. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers        string `env:"BROKERS"`
	TelemetryTopic string `env:"TELEMETRY_TOPIC" envDefault:"authflow.telemetry"`
	Acks           string `env:"ACKS" envDefault:"1"`
}

type BrokerConfig struct {
	Kind             string `env:"KIND" envDefault:"default"`
	CaptchaVerifyURL string `env:"CAPTCHA_VERIFY_URL"`
	CaptchaSecret    string `env:"CAPTCHA_SECRET"`
}

// ExperimentConfig sizes the verification experiment groups in percent.
type ExperimentConfig struct {
	CodePercent int `env:"CODE_PERCENT" envDefault:"0"`
	LinkPercent int `env:"LINK_PERCENT" envDefault:"0"`
}

// ScopeConfig overrides the scope policy. An empty allow-list keeps the default.
type ScopeConfig struct {
	UntrustedAllowed []string `env:"UNTRUSTED_ALLOWED" envSeparator:" "`
	MaxScopes        int      `env:"MAX_SCOPES"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c Config) Validate() error {
	switch c.Broker.Kind {
	case BrokerDefault, BrokerSync:
	case BrokerCaptcha:
		if c.Broker.CaptchaVerifyURL == "" || c.Broker.CaptchaSecret == "" {
			return fmt.Errorf("captcha broker requires AUTHFLOW_BROKER_CAPTCHA_VERIFY_URL and AUTHFLOW_BROKER_CAPTCHA_SECRET")
		}
	default:
		return fmt.Errorf("unknown broker kind %q", c.Broker.Kind)
	}
	if c.Registry.URL == "" && c.Registry.StaticFile == "" {
		return fmt.Errorf("one of AUTHFLOW_REGISTRY_URL or AUTHFLOW_REGISTRY_STATIC_FILE is required")
	}
	e := c.Experiment
	if e.CodePercent < 0 || e.LinkPercent < 0 || e.CodePercent+e.LinkPercent > 100 {
		return fmt.Errorf("experiment percentages must be non-negative and sum to at most 100")
	}
	if c.VerificationContextTTL <= 0 {
		return fmt.Errorf("verification context ttl must be positive")
	}
	return nil
}
