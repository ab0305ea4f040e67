package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor WALLET_CONFIG is given.
const DefaultPath = "config/config.yml"

// Environment variables read by the loader.
const (
	EnvConfigPath = "WALLET_CONFIG"
	EnvLogLevel   = "WALLET_LOG_LEVEL"
	EnvLogFormat  = "WALLET_LOG_FORMAT"
	EnvServerPort = "WALLET_SERVER_PORT"
	EnvPrivateKey = "WALLET_PRIVATE_KEY"
)

// ServerConfig holds the REST server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// RPCConfig holds settings shared by every chain backend.
type RPCConfig struct {
	CallTimeoutMs int64   `yaml:"callTimeoutMs"`
	RateLimit     float64 `yaml:"rateLimit"`
	BurstLimit    int     `yaml:"burstLimit"`
}

// NetworkOverride replaces the default endpoint of a built-in network.
type NetworkOverride struct {
	RPCURL string `yaml:"rpcURL"`
}

// CustomNetworkConfig describes an extra EVM network.
type CustomNetworkConfig struct {
	Name    string `yaml:"name"`
	ChainID uint64 `yaml:"chainID"`
	RPCURL  string `yaml:"rpcURL"`
}

// CacheConfig holds the read cache settings. A zero TTL disables caching for that call.
type CacheConfig struct {
	Enabled                bool `yaml:"enabled"`
	BalanceTTLSeconds      int  `yaml:"balanceTTLSeconds"`
	BlockNumberTTLSeconds  int  `yaml:"blockNumberTTLSeconds"`
	CleanupIntervalSeconds int  `yaml:"cleanupIntervalSeconds"`
}

// PortfolioConfig holds configuration for the PortfolioService.
type PortfolioConfig struct {
	MaxConcurrentRequests int    `yaml:"maxConcurrentRequests"`
	WalletsFile           string `yaml:"walletsFile"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server         ServerConfig               `yaml:"server"`
	Logging        LoggingConfig              `yaml:"logging"`
	RPC            RPCConfig                  `yaml:"rpc"`
	Networks       map[string]NetworkOverride `yaml:"networks"`
	CustomNetworks []CustomNetworkConfig      `yaml:"customNetworks"`
	Cache          CacheConfig                `yaml:"cache"`
	Portfolio      PortfolioConfig            `yaml:"portfolio"`
	Swagger        SwaggerConfig              `yaml:"swagger"`
}

// RPCCallTimeout returns the per-call timeout as a duration.
func (c *Config) RPCCallTimeout() time.Duration {
	return time.Duration(c.RPC.CallTimeoutMs) * time.Millisecond
}

// ResolvePath picks the config path: explicit flag, then WALLET_CONFIG, then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return DefaultPath
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the YAML configuration file from path. A missing file is not an
// error: the defaults are returned instead.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logrus.Warnf("Config file %s not found, using defaults", path)
	case err != nil:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		logrus.Errorf("Invalid configuration in %s: %v", path, err)
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		cfg.Server.Port = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Debugf("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.RPC.CallTimeoutMs <= 0 {
		cfg.RPC.CallTimeoutMs = 10000
		logrus.Debugf("RPC.CallTimeoutMs not set, defaulting to %d ms", cfg.RPC.CallTimeoutMs)
	}
	if cfg.RPC.RateLimit < 0 {
		cfg.RPC.RateLimit = 0
	}
	if cfg.RPC.BurstLimit <= 0 {
		cfg.RPC.BurstLimit = 1
	}

	if cfg.Cache.CleanupIntervalSeconds <= 0 {
		cfg.Cache.CleanupIntervalSeconds = 60
	}

	if cfg.Portfolio.MaxConcurrentRequests <= 0 {
		cfg.Portfolio.MaxConcurrentRequests = 10
		logrus.Debugf("Portfolio.MaxConcurrentRequests not set, defaulting to %d", cfg.Portfolio.MaxConcurrentRequests)
	}

	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "docs/swagger.yaml"
	}

	if cfg.Networks == nil {
		cfg.Networks = map[string]NetworkOverride{}
	}
}

func validate(cfg *Config) error {
	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", cfg.Logging.Format)
	}

	seen := make(map[string]bool, len(cfg.CustomNetworks))
	for i, n := range cfg.CustomNetworks {
		if strings.TrimSpace(n.Name) == "" {
			return fmt.Errorf("customNetworks[%d]: name is required", i)
		}
		if n.ChainID == 0 {
			return fmt.Errorf("customNetworks[%d] (%s): chainID is required", i, n.Name)
		}
		if n.RPCURL == "" {
			return fmt.Errorf("customNetworks[%d] (%s): rpcURL is required", i, n.Name)
		}
		key := strings.ToLower(n.Name)
		if seen[key] {
			return fmt.Errorf("customNetworks[%d]: duplicate name %q", i, n.Name)
		}
		seen[key] = true
	}
	return nil
}
