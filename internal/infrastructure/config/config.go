package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for sunflow.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Fronius  FroniusConfig  `yaml:"fronius"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Collect  CollectConfig  `yaml:"collect"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// FroniusConfig contains datamanager connection settings and the device
// ids each category queries.
type FroniusConfig struct {
	Host       string        `yaml:"host"`
	Port       int           `yaml:"port"`
	Timeout    time.Duration `yaml:"timeout"`
	InverterID int           `yaml:"inverter_id"`
	MeterID    int           `yaml:"meter_id"`
	StorageID  int           `yaml:"storage_id"`
	OhmPilotID int           `yaml:"ohmpilot_id"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// CollectConfig contains collection cycle settings.
type CollectConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// MQTTConfig contains settings for the optional live telemetry feed.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains status server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// A missing config file is not an error: a pure-environment deployment
// (container with SUNFLOW_* variables) needs no file at all. Any other
// read failure is reported.
//
// Environment variables follow the pattern: SUNFLOW_SECTION_KEY
// For example: SUNFLOW_FRONIUS_HOST, SUNFLOW_INFLUXDB_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be parsed or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file, if one exists
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults plus environment only
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Fronius: FroniusConfig{
			Port:       80,
			Timeout:    10 * time.Second,
			InverterID: 1,
			MeterID:    0,
			StorageID:  0,
			OhmPilotID: 0,
		},
		Collect: CollectConfig{
			Interval: 15 * time.Second,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "sunflow",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		API: APIConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    9090,
			Timeouts: APITimeoutConfig{
				Read:  5,
				Write: 10,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SUNFLOW_SECTION_KEY.
// Numeric overrides that fail to parse are ignored; validation reports on
// the resulting configuration.
func applyEnvOverrides(cfg *Config) {
	// Fronius
	if v := os.Getenv("SUNFLOW_FRONIUS_HOST"); v != "" {
		cfg.Fronius.Host = v
	}
	if v := os.Getenv("SUNFLOW_FRONIUS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Fronius.Port = port
		}
	}
	if v := os.Getenv("SUNFLOW_FRONIUS_INVERTER_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.Fronius.InverterID = id
		}
	}

	// InfluxDB
	if v := os.Getenv("SUNFLOW_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("SUNFLOW_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("SUNFLOW_INFLUXDB_ORG"); v != "" {
		cfg.InfluxDB.Org = v
	}
	if v := os.Getenv("SUNFLOW_INFLUXDB_BUCKET"); v != "" {
		cfg.InfluxDB.Bucket = v
	}

	// Collect
	if v := os.Getenv("SUNFLOW_COLLECT_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Collect.Interval = d
		}
	}

	// MQTT
	if v := os.Getenv("SUNFLOW_MQTT_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.MQTT.Enabled = enabled
		}
	}
	if v := os.Getenv("SUNFLOW_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SUNFLOW_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SUNFLOW_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("SUNFLOW_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// Logging
	if v := os.Getenv("SUNFLOW_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SUNFLOW_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate checks the configuration for errors.
//
// The destination bucket is deliberately not required here: the collector
// checks it at the start of every cycle and reports its absence as a
// cycle-level error rather than refusing to start.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Fronius validation. Host shape (IPv4) is enforced by the device
	// client on connect; only presence and ranges are checked here.
	if c.Fronius.Host == "" {
		errs = append(errs, "fronius.host is required (set SUNFLOW_FRONIUS_HOST environment variable)")
	}
	if c.Fronius.Port < 1 || c.Fronius.Port > 65535 {
		errs = append(errs, "fronius.port must be between 1 and 65535")
	}
	if c.Fronius.Timeout <= 0 {
		errs = append(errs, "fronius.timeout must be positive")
	}
	for _, id := range []struct {
		name  string
		value int
	}{
		{"fronius.inverter_id", c.Fronius.InverterID},
		{"fronius.meter_id", c.Fronius.MeterID},
		{"fronius.storage_id", c.Fronius.StorageID},
		{"fronius.ohmpilot_id", c.Fronius.OhmPilotID},
	} {
		if id.value < 0 || id.value > 99 {
			errs = append(errs, id.name+" must be between 0 and 99")
		}
	}

	// InfluxDB validation. These three construct the sink client at
	// startup, so their absence is fatal.
	if c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required (set SUNFLOW_INFLUXDB_URL environment variable)")
	}
	if c.InfluxDB.Token == "" {
		errs = append(errs, "influxdb.token is required (set SUNFLOW_INFLUXDB_TOKEN environment variable)")
	}
	if c.InfluxDB.Org == "" {
		errs = append(errs, "influxdb.org is required (set SUNFLOW_INFLUXDB_ORG environment variable)")
	}

	// Collect validation
	if c.Collect.Interval < time.Second {
		errs = append(errs, "collect.interval must be at least 1s")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && (c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535) {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}

	// API validation
	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c APIConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c APIConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c APIConfig) GetIdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}
