// Package config loads pdnsq's static configuration: default backend
// selection, logging, and HTTP transport tunables. Precedence (highest to
// lowest): CLI flags (bound directly in cmd/pdnsq), environment variables
// (PDNSQ_* via viper, plus the literal DNSDB_* names for drop-in
// compatibility with existing pDNS deployments), the config file, then
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is pdnsq's static configuration.
type Config struct {
	// DefaultBackend names the backend profile used when -u is not given.
	DefaultBackend string `mapstructure:"default_backend" yaml:"default_backend"`

	// Backends maps a profile name to its connection settings.
	Backends map[string]BackendConfig `mapstructure:"backends" validate:"dive" yaml:"backends"`

	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Transport controls HTTP client tunables shared by every query.
	Transport TransportConfig `mapstructure:"transport" yaml:"transport"`

	// Presentation holds default output preferences, overridable by flags.
	Presentation PresentationConfig `mapstructure:"presentation" yaml:"presentation"`
}

// BackendConfig is one named pDNS backend profile.
type BackendConfig struct {
	Kind   string `mapstructure:"kind" validate:"required,oneof=saf cof" yaml:"kind"`
	Server string `mapstructure:"server" validate:"required,url" yaml:"server"`
	APIKey string `mapstructure:"apikey" yaml:"apikey,omitempty"`
}

// LoggingConfig controls logging behavior, mirroring the teacher's
// LoggingConfig shape.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TransportConfig tunes the shared HTTP client.
type TransportConfig struct {
	Timeout            time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxInFlight        int64         `mapstructure:"max_in_flight" validate:"omitempty,gt=0" yaml:"max_in_flight"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	IPVersion          int           `mapstructure:"ip_version" validate:"omitempty,oneof=4 6" yaml:"ip_version"`
}

// PresentationConfig holds default presenter/sort preferences.
type PresentationConfig struct {
	Mode      string `mapstructure:"mode" validate:"omitempty,oneof=text json csv minimal" yaml:"mode"`
	ISOTime   bool   `mapstructure:"iso_time" yaml:"iso_time"`
	TimeStyle string `mapstructure:"time_format" yaml:"time_format,omitempty"`
}

// Load loads configuration from file, environment, and defaults. configPath
// empty uses the default XDG location.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if !found {
		return cfg, nil
	}

	if err := v.Unmarshal(cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns pdnsq's built-in defaults before any file/env
// overlay is applied.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "INFO", Format: "text", Output: "stderr"},
		Transport: TransportConfig{
			Timeout:     30 * time.Second,
			MaxInFlight: 32,
		},
		Presentation: PresentationConfig{Mode: "text"},
		Backends:     map[string]BackendConfig{},
	}
}

// Validate runs struct-level validation over the merged config.
func Validate(cfg *Config) error {
	return validator.New().Struct(cfg)
}

// SaveConfig writes cfg to path as YAML, creating parent directories and
// restricting permissions since backend profiles may carry API keys.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: creating directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("PDNSQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	v.AddConfigPath(configDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("config: reading file: %w", err)
	}
	return true, nil
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pdnsq")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "pdnsq")
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// EnvOverride resolves one of the literal DNSDB_* environment variables
// pdnsq honors unprefixed for drop-in compatibility, falling back to a
// PDNSQ_-prefixed name, then to fallback.
func EnvOverride(dnsdbName, pdnsqName, fallback string) string {
	if v := os.Getenv(dnsdbName); v != "" {
		return v
	}
	if v := os.Getenv(pdnsqName); v != "" {
		return v
	}
	return fallback
}
