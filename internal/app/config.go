package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/gateway-core/internal/adapters/out/docker"
	"github.com/bnema/gateway-core/internal/adapters/out/registry"
	"github.com/bnema/gateway-core/internal/domain"
	"github.com/bnema/gateway-core/internal/usecase/gateway"
)

// Config holds the application configuration.
type Config struct {
	DataDir string `mapstructure:"data_dir"`

	Engine struct {
		Socket      string        `mapstructure:"socket"`
		NetworkName string        `mapstructure:"network_name"`
		Subnet      string        `mapstructure:"subnet"`
		IPRange     string        `mapstructure:"ip_range"`
		Gateway     string        `mapstructure:"gateway"`
		CallTimeout time.Duration `mapstructure:"call_timeout"`
	} `mapstructure:"engine"`

	Registry struct {
		Scheme        string        `mapstructure:"scheme"`
		Host          string        `mapstructure:"host"`
		API           string        `mapstructure:"api"`
		ComponentID   string        `mapstructure:"component_id"`
		RetryInterval time.Duration `mapstructure:"retry_interval"`
		Timeout       time.Duration `mapstructure:"timeout"`
	} `mapstructure:"registry"`

	Gateway struct {
		Whitelist string `mapstructure:"whitelist"` // semicolon separated container names
	} `mapstructure:"gateway"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   struct {
			Enabled    bool   `mapstructure:"enabled"`
			Path       string `mapstructure:"path"`
			MaxSize    int    `mapstructure:"max_size"`
			MaxBackups int    `mapstructure:"max_backups"`
			MaxAge     int    `mapstructure:"max_age"`
		} `mapstructure:"file"`
	} `mapstructure:"logging"`
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// initConfig loads configuration from file and environment.
func initConfig(configPath string) (*viper.Viper, Config, error) {
	v := viper.New()
	if err := loadConfig(v, configPath); err != nil {
		return nil, Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, Config{}, err
	}

	return v, cfg, nil
}

// loadConfig loads configuration from file and sets defaults.
func loadConfig(v *viper.Viper, configPath string) error {
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("engine.socket", "unix:///var/run/docker.sock")
	v.SetDefault("engine.network_name", "gateway-network")
	v.SetDefault("engine.subnet", "10.20.0.0/16")
	v.SetDefault("engine.ip_range", "10.20.0.0/24")
	v.SetDefault("engine.gateway", "10.20.0.1")
	v.SetDefault("engine.call_timeout", "0s")
	v.SetDefault("registry.scheme", "http")
	v.SetDefault("registry.host", "")
	v.SetDefault("registry.api", "components")
	v.SetDefault("registry.component_id", "")
	v.SetDefault("registry.retry_interval", "10s")
	v.SetDefault("registry.timeout", "30s")
	v.SetDefault("gateway.whitelist", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.path", "") // defaults to {data_dir}/logs/gc.log when empty
	v.SetDefault("logging.file.max_size", 100)
	v.SetDefault("logging.file.max_backups", 14)
	v.SetDefault("logging.file.max_age", 28)

	ConfigureViper(v, configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("GC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return nil
}

// Validate rejects configurations the gateway cannot run with.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Registry.Host) == "" {
		errs = append(errs, errors.New("registry.host is required"))
	}
	if strings.TrimSpace(c.Registry.ComponentID) == "" {
		errs = append(errs, errors.New("registry.component_id is required"))
	}
	if c.Registry.Scheme != "http" && c.Registry.Scheme != "https" {
		errs = append(errs, fmt.Errorf("registry.scheme must be http or https, got %q", c.Registry.Scheme))
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if c.Registry.RetryInterval < 0 {
		errs = append(errs, errors.New("registry.retry_interval must not be negative"))
	}
	if c.Engine.CallTimeout < 0 {
		errs = append(errs, errors.New("engine.call_timeout must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Whitelist returns the container names allowed to reach the engine socket.
func (c Config) Whitelist() []string {
	var names []string
	for _, name := range strings.Split(c.Gateway.Whitelist, ";") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// LogFilePath returns the configured log file path or the default under data_dir.
func (c Config) LogFilePath() string {
	if c.Logging.File.Path != "" {
		return c.Logging.File.Path
	}
	dataDir := c.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	return filepath.Join(dataDir, "logs", "gc.log")
}

// DockerConfig builds the engine adapter settings.
func (c Config) DockerConfig() docker.Config {
	return docker.Config{
		Socket: c.Engine.Socket,
		Network: domain.NetworkConfig{
			Name:    c.Engine.NetworkName,
			Subnet:  c.Engine.Subnet,
			IPRange: c.Engine.IPRange,
			Gateway: c.Engine.Gateway,
		},
		Whitelist:   c.Whitelist(),
		CallTimeout: c.Engine.CallTimeout,
	}
}

// RegistryConfig builds the registry client settings.
func (c Config) RegistryConfig() registry.Config {
	return registry.Config{
		Scheme:      c.Registry.Scheme,
		Host:        c.Registry.Host,
		API:         c.Registry.API,
		ComponentID: c.Registry.ComponentID,
	}
}

// GatewayConfig builds the reconciliation settings.
func (c Config) GatewayConfig() gateway.Config {
	return gateway.Config{
		ComponentID:   c.Registry.ComponentID,
		RetryInterval: c.Registry.RetryInterval,
	}
}
