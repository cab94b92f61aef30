package config

import (
	"log/slog"
	"net"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type MonitorConfig struct {
	Interval      string  `mapstructure:"interval"`
	ProbeTimeout  string  `mapstructure:"probe_timeout"`
	MaxConcurrent int     `mapstructure:"max_concurrent"`
	SlowLatencyMS float64 `mapstructure:"slow_latency_ms"`
	HostsFile     string  `mapstructure:"hosts_file"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Logging LoggingConfig `mapstructure:"logging"`
}

func Load() (*Config, error) {
	viper.SetDefault("server.environment", EnvDev)
	viper.SetDefault("server.address", ":30500")
	viper.SetDefault("monitor.interval", "30s")
	viper.SetDefault("monitor.probe_timeout", "3s")
	viper.SetDefault("monitor.max_concurrent", 30)
	viper.SetDefault("monitor.slow_latency_ms", 50.0)
	viper.SetDefault("monitor.hosts_file", "hosts.yaml")
	viper.SetDefault("logging.level", LogLevelInfo)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Info("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Monitor,
			validation.Required,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MonitorConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MonitorConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.Interval,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&mc.ProbeTimeout,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&mc.MaxConcurrent,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&mc.SlowLatencyMS,
						validation.Required,
						validation.Min(0.0),
					),
					validation.Field(&mc.HostsFile,
						validation.Required,
					),
				)
			}),
		),
	)
}

// IntervalDuration returns the parsed monitor interval. Validate must have
// accepted the config before calling this.
func (c *Config) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Monitor.Interval)
	return d
}

// ProbeTimeoutDuration returns the parsed per-probe timeout.
func (c *Config) ProbeTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Monitor.ProbeTimeout)
	return d
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	return nil
}
