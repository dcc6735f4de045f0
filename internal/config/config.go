package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	ModeDebug      = "debug"
	ModeRelease    = "release"
	ModeProduction = "production"

	BackpressureKick = "kick"
	BackpressureDrop = "drop"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	StaticPath     string        `mapstructure:"static_path"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	Secret         string        `mapstructure:"secret"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	TimeFormat     string        `mapstructure:"time_format"`
	LogLevel       string        `mapstructure:"log_level"`
	Backpressure   string        `mapstructure:"backpressure"`
}

// Production reports whether cross-origin websocket upgrades are refused.
func (c *Config) Production() bool { return c.Mode == ModeProduction }

// Origins is the cross-origin whitelist in effect; empty in production.
func (c *Config) Origins() []string {
	if c.Production() {
		return nil
	}
	return c.AllowedOrigins
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.PingPeriod <= 0 {
		errs = append(errs, errors.New("ping_period must be positive"))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, errors.New("send_buffer must be positive"))
	}
	if c.ReadLimit <= 0 {
		errs = append(errs, errors.New("read_limit must be positive"))
	}
	if !slices.Contains([]string{BackpressureKick, BackpressureDrop}, c.Backpressure) {
		errs = append(errs, fmt.Errorf("unknown backpressure policy %q", c.Backpressure))
	}
	return errors.Join(errs...)
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", ModeRelease)
	v.SetDefault("port", 5000)
	v.SetDefault("static_path", "./public")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("secret", "relay-dev-secret")
	v.SetDefault("allowed_origins", []string{"http://localhost:5500", "http://127.0.0.1:5500"})
	v.SetDefault("time_format", "3:04:05 PM")
	v.SetDefault("log_level", "info")
	v.SetDefault("backpressure", BackpressureKick)

	v.SetEnvPrefix("relay")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("port", "RELAY_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("bind port env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("static", cfg.StaticPath).
		Strs("origins", cfg.Origins()).
		Msg("config ready")
	return &cfg, nil
}
