// Package config loads server configuration.
//
// Precedence, lowest first: defaults, YAML config file, LEAVEDESK_* env
// variables, command-line flags bound by the caller. Nested keys use "_" in
// env names: smtp.host is LEAVEDESK_SMTP_HOST.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of configuration environment variables.
const EnvPrefix = "LEAVEDESK"

// SMTP configures outgoing mail. An empty Host disables email.
type SMTP struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	TLS      bool   `mapstructure:"tls"`
}

// Config is the server configuration.
type Config struct {
	Port            int      `mapstructure:"port"`
	DB              string   `mapstructure:"db"`
	JWTSecret       string   `mapstructure:"jwt_secret"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
	LogLevel        string   `mapstructure:"log_level"`
	LogFormat       string   `mapstructure:"log_format"`
	HolidaysFile    string   `mapstructure:"holidays_file"`
	ManagementEmail string   `mapstructure:"management_email"`
	StaticDir       string   `mapstructure:"static_dir"`
	Demo            bool     `mapstructure:"demo"`
	SMTP            SMTP     `mapstructure:"smtp"`
}

// New returns a viper instance with defaults and env binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", 8080)
	v.SetDefault("db", "leavedesk.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("holidays_file", "")
	v.SetDefault("management_email", "")
	v.SetDefault("static_dir", "")
	v.SetDefault("demo", false)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "no-reply@leavedesk.local")
	v.SetDefault("smtp.tls", true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file into v and decodes the result.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.DB == "" {
		errs = append(errs, errors.New("db is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required (LEAVEDESK_JWT_SECRET)"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// Logger builds the process logger writing to w.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch c.LogFormat {
	case "console", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json", "":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format: %s", c.LogFormat)
}
