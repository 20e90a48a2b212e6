// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type Config struct {
	Port               int      `yaml:"port" validate:"gt=0,lte=65535"`
	DatabaseURL        string   `yaml:"database_url" validate:"required"`
	DatabaseType       string   `yaml:"database_type" validate:"oneof=postgres sqlite"`
	AttendanceURL      string   `yaml:"attendance_url"`
	EventFilter        string   `yaml:"event_filter" validate:"required"`
	SessionSecret      string   `yaml:"session_secret" validate:"required,min=16"`
	CORSOrigins        []string `yaml:"cors_origins" validate:"dive,required"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute" validate:"gte=0"`
	LogLevel           string   `yaml:"log_level" validate:"oneof=debug info warn error"`
	ConfigFile         string   `yaml:"-"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Port:               3318,
		DatabaseType:       "sqlite",
		EventFilter:        "%",
		CORSOrigins:        []string{"*"},
		RateLimitPerMinute: 60,
		LogLevel:           "info",
	}
}

// ParseFlags builds the configuration from, in decreasing precedence,
// flags, environment variables, the YAML config file and Defaults.
func ParseFlags(args []string) (Config, error) {
	var (
		flags      Config
		configFile string
		cors       string
	)

	fs := flag.NewFlagSet("craque", flag.ContinueOnError)

	fs.StringVar(&configFile, "c", "", "YAML config file")

	// Network config (can be CLI args or env)
	fs.IntVar(&flags.Port, "p", 0, "Server port")
	fs.StringVar(&flags.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&flags.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&flags.AttendanceURL, "attendance-url", "", "Ticketing database URL")
	fs.StringVar(&flags.EventFilter, "event-filter", "", "LIKE pattern for event short names")
	fs.StringVar(&cors, "cors", "", "Comma separated allowed origins")
	fs.IntVar(&flags.RateLimitPerMinute, "rate-limit", -1, "Requests per minute per client (0 disables)")
	fs.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&flags.SessionSecret, "session-secret", "", "Session token secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		if err := loadFile(configFile, &cfg); err != nil {
			return Config{}, err
		}
		cfg.ConfigFile = configFile
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	// CLI flags win
	if flags.Port != 0 {
		cfg.Port = flags.Port
	}
	setString(&cfg.DatabaseURL, flags.DatabaseURL)
	setString(&cfg.DatabaseType, flags.DatabaseType)
	setString(&cfg.AttendanceURL, flags.AttendanceURL)
	setString(&cfg.EventFilter, flags.EventFilter)
	setString(&cfg.SessionSecret, flags.SessionSecret)
	setString(&cfg.LogLevel, flags.LogLevel)
	if cors != "" {
		cfg.CORSOrigins = splitList(cors)
	}
	if flags.RateLimitPerMinute >= 0 {
		cfg.RateLimitPerMinute = flags.RateLimitPerMinute
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET required")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return errors.New("invalid PORT env variable")
		}
		cfg.Port = port
	}
	if s := os.Getenv("RATE_LIMIT_PER_MINUTE"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("invalid RATE_LIMIT_PER_MINUTE env variable")
		}
		cfg.RateLimitPerMinute = n
	}

	setString(&cfg.DatabaseURL, os.Getenv("DATABASE_URL"))
	setString(&cfg.DatabaseType, os.Getenv("DATABASE_TYPE"))
	setString(&cfg.AttendanceURL, os.Getenv("ATTENDANCE_URL"))
	setString(&cfg.EventFilter, os.Getenv("EVENT_FILTER"))
	setString(&cfg.SessionSecret, os.Getenv("SESSION_SECRET"))
	setString(&cfg.LogLevel, os.Getenv("LOG_LEVEL"))
	if s := os.Getenv("CORS_ORIGINS"); s != "" {
		cfg.CORSOrigins = splitList(s)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
