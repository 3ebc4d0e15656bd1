// Package config loads hub settings from defaults, an optional config file
// and MYHUB_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// MYHUB_SERVER_PORT for server.port.
const EnvPrefix = "MYHUB"

// Registry backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the full hub configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Address is the listen address for the HTTP server.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type RegistryConfig struct {
	Backend string `mapstructure:"backend"`
	// Path is the registry file for the file backend and the database
	// file for sqlite.
	Path string `mapstructure:"path"`
	Seed bool   `mapstructure:"seed"`
}

type DiscoveryConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	MDNS    MDNSConfig    `mapstructure:"mdns"`
	ZWave   ZWaveConfig   `mapstructure:"zwave"`
}

type MDNSConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Service string        `mapstructure:"service"`
	Domain  string        `mapstructure:"domain"`
	Window  time.Duration `mapstructure:"window"`
}

// ZWaveConfig points at a Z-Wave JS server. An empty Server disables the
// source and the mock is used instead.
type ZWaveConfig struct {
	Server string `mapstructure:"server"`
}

type TelemetryConfig struct {
	ScanCap       int `mapstructure:"scan_cap"`
	OnboardingCap int `mapstructure:"onboarding_cap"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)

	v.SetDefault("registry.backend", BackendFile)
	v.SetDefault("registry.path", filepath.Join(defaultDataDir(), "devices.json"))
	v.SetDefault("registry.seed", true)

	v.SetDefault("discovery.timeout", 5*time.Second)
	v.SetDefault("discovery.mdns.enabled", true)
	v.SetDefault("discovery.mdns.service", "_shelly._tcp")
	v.SetDefault("discovery.mdns.domain", "local.")
	v.SetDefault("discovery.mdns.window", 3*time.Second)
	v.SetDefault("discovery.zwave.server", "")

	v.SetDefault("telemetry.scan_cap", 50)
	v.SetDefault("telemetry.onboarding_cap", 100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.file", "")
}

// New returns a viper instance with defaults and environment binding. A
// non-empty path, or MYHUB_CONFIG, names a config file to read.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

// Load reads the configuration. See New for the lookup order.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// Decode unmarshals and validates a populated viper instance.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that decoding cannot.
func (c *Config) Validate() error {
	var errs []error
	switch c.Registry.Backend {
	case BackendFile, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("registry.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Registry.Backend))
	}
	if c.Registry.Path == "" {
		errs = append(errs, errors.New("registry.path is required"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Discovery.Timeout <= 0 {
		errs = append(errs, errors.New("discovery.timeout must be positive"))
	}
	if c.Discovery.MDNS.Enabled && c.Discovery.MDNS.Window >= c.Discovery.Timeout {
		errs = append(errs, errors.New("discovery.mdns.window must be shorter than discovery.timeout"))
	}
	if c.Telemetry.ScanCap < 1 || c.Telemetry.OnboardingCap < 1 {
		errs = append(errs, errors.New("telemetry caps must be at least 1"))
	}
	return errors.Join(errs...)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "myhub")
}
