package corvid

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrReadConfigurationFailure = errors.New("corvid: failed to read configuration file")
	ErrLoadConfigurationFailure = errors.New("corvid: failed to parse configuration file")
)

const PermissionWrite = 0o600

// Config is the on-disk shape of corvid's runtime configuration, loaded
// from YAML by LoadConfig. LoadConfig applies no environment overrides;
// LoadDotEnv only loads a .env file into the process environment.
type Config struct {
	Token          string `yaml:"token"`
	ShardID        int32  `yaml:"shard_id"`
	ShardCount     int32  `yaml:"shard_count"`
	Intents        int64  `yaml:"intents"`
	LargeThreshold int32  `yaml:"large_threshold"`
	Compress       bool   `yaml:"compress,omitempty"`

	GatewayURL string `yaml:"gateway_url,omitempty"`
	RESTURL    string `yaml:"rest_url,omitempty"`

	Metrics MetricsConfig `yaml:"metrics"`
	NATS    NATSConfig    `yaml:"nats"`
	Redis   RedisConfig   `yaml:"redis"`

	HeartbeatJitter float64 `yaml:"heartbeat_jitter,omitempty"`
}

// MetricsConfig controls the optional Prometheus/ops HTTP surface.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
}

// NATSConfig controls optional event fanout to an external NATS cluster.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// RedisConfig controls the optional shared rate-limit coordination store.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// DefaultConfig returns sane defaults for fields a caller is likely to
// leave unset.
func DefaultConfig() Config {
	return Config{
		LargeThreshold:  50,
		HeartbeatJitter: 0.8,
	}
}

// LoadDotEnv loads environment variables from a .env file at path,
// silently doing nothing if the file does not exist. It's intended to run
// once at process start, before LoadConfig, so ${VAR}-style overrides
// (applied by the caller, not by this package) can see the values.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("corvid: failed to load .env: %w", err)
	}

	return nil
}

// LoadConfig reads and parses the YAML configuration file at path.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		return cfg, ErrReadConfigurationFailure
	}

	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrLoadConfigurationFailure, err)
	}

	if cfg.Token == "" {
		return cfg, fmt.Errorf("configuration has no token: %w", ErrLoadConfigurationFailure)
	}

	return cfg, nil
}

// SaveConfig writes cfg back out as YAML.
func SaveConfig(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("corvid: failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(path, data, PermissionWrite); err != nil {
		return fmt.Errorf("corvid: failed to write configuration: %w", err)
	}

	return nil
}

// heartbeatJitter returns a fraction in (0, 1] to scale the first
// heartbeat delay by, defaulting to 0.8 per Discord's documented
// guidance.
func heartbeatJitter(cfg Config) float64 {
	if cfg.HeartbeatJitter <= 0 || cfg.HeartbeatJitter > 1 {
		return 0.8
	}

	return cfg.HeartbeatJitter
}

// clampLargeThreshold restricts v to Discord's accepted Identify
// large_threshold range of [50,250].
func clampLargeThreshold(v int32) int32 {
	switch {
	case v < 50:
		return 50
	case v > 250:
		return 250
	default:
		return v
	}
}
