package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for mosqcat.
// All configuration is loaded from YAML and can be overridden by
// environment variables; command-line flags override both.
type Config struct {
	Broker  BrokerConfig  `yaml:"broker"`
	Session SessionConfig `yaml:"session"`
	Auth    AuthConfig    `yaml:"auth"`
	TLS     TLSConfig     `yaml:"tls"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// BrokerConfig contains broker connection settings.
type BrokerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Keepalive is the PING interval in seconds.
	Keepalive int `yaml:"keepalive"`

	// BindAddress pins the local network interface. Empty lets the
	// operating system choose.
	BindAddress string `yaml:"bind_address"`
}

// SessionConfig contains MQTT session settings.
type SessionConfig struct {
	// ClientID identifies the session to the broker. Empty asks the
	// engine to generate one.
	ClientID string `yaml:"client_id"`

	// CleanSession discards broker-side session state on connect.
	CleanSession bool `yaml:"clean_session"`

	// ProtocolVersion selects the MQTT revision: 3 (v3.1), 4 (v3.1.1)
	// or 5 (v5). Zero keeps the engine default.
	ProtocolVersion int `yaml:"protocol_version"`
}

// AuthConfig contains broker authentication credentials.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CAFile   string `yaml:"ca_file"`
	CAPath   string `yaml:"ca_path"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`

	// Insecure disables hostname verification. Test brokers only.
	Insecure bool `yaml:"insecure"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig contains the optional Prometheus endpoint settings.
type MetricsConfig struct {
	// Listen is the address to serve /metrics on, e.g. ":9641".
	// Empty disables the endpoint.
	Listen string `yaml:"listen"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern MOSQCAT_KEY, for example
// MOSQCAT_HOST or MOSQCAT_PASSWORD.
//
// A missing file is not an error: mosqcat runs fine on defaults plus
// flags. Any other read failure, a parse failure, or a validation
// failure is reported.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config with sensible defaults: a local broker on the
// conventional port, clean session, engine-assigned client ID.
func Default() *Config {
	return &Config{
		Broker: BrokerConfig{
			Host:      "localhost",
			Port:      1883,
			Keepalive: 60,
		},
		Session: SessionConfig{
			CleanSession: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables follow the pattern MOSQCAT_KEY.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MOSQCAT_HOST"); v != "" {
		cfg.Broker.Host = v
	}
	if v := os.Getenv("MOSQCAT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Broker.Port = port
		}
	}
	if v := os.Getenv("MOSQCAT_CLIENT_ID"); v != "" {
		cfg.Session.ClientID = v
	}
	if v := os.Getenv("MOSQCAT_USERNAME"); v != "" {
		cfg.Auth.Username = v
	}
	if v := os.Getenv("MOSQCAT_PASSWORD"); v != "" {
		cfg.Auth.Password = v
	}
	if v := os.Getenv("MOSQCAT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Broker.Host == "" {
		errs = append(errs, "broker.host is required")
	}
	if c.Broker.Port < 1 || c.Broker.Port > 65535 {
		errs = append(errs, "broker.port must be between 1 and 65535")
	}
	if c.Broker.Keepalive < 0 {
		errs = append(errs, "broker.keepalive cannot be negative")
	}

	switch c.Session.ProtocolVersion {
	case 0, 3, 4, 5:
	default:
		errs = append(errs, "session.protocol_version must be 3, 4 or 5")
	}

	if c.TLS.Enabled && c.TLS.CAFile == "" && c.TLS.CAPath == "" {
		errs = append(errs, "tls.ca_file or tls.ca_path is required when TLS is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
