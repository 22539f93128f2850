// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/danielhkuo/hibah-admin/models"
)

// Config keys, shared by flags, the config file and HIBAH_* env variables
const (
	KeyPort          = "port"
	KeyAPIBaseURL    = "api-base-url"
	KeyAPITimeout    = "api-timeout"
	KeyCacheTTL      = "cache-ttl" // 0 or negative turns the query cache off
	KeySessionSecret = "session-secret"
	KeyConfirmSalt   = "confirm-salt"
	KeyConfirmTTL    = "confirm-ttl"
	KeyIPHashSalt    = "ip-hash-salt"
	KeyLoginURL      = "login-url"
	KeyAuditBackend  = "audit-backend"
	KeyAuditDSN      = "audit-dsn"
	KeyLogLevel      = "log-level"
	KeyLogFormat     = "log-format"
	KeyRubric        = "rubric"
)

// EnvPrefix prefixes every environment variable, e.g. HIBAH_API_BASE_URL.
const EnvPrefix = "HIBAH"

type Config struct {
	Port          int
	APIBaseURL    string
	APITimeout    time.Duration
	CacheTTL      time.Duration
	SessionSecret string
	ConfirmSalt   string
	ConfirmTTL    time.Duration
	IPHashSalt    string
	LoginURL      string
	AuditBackend  string
	AuditDSN      string
	LogLevel      string
	LogFormat     string

	// Rubric is nil unless the config file overrides the default rubric
	Rubric []models.RubricCriterion
}

type rubricEntry struct {
	ID     string  `mapstructure:"id"`
	Label  string  `mapstructure:"label"`
	Weight float64 `mapstructure:"weight"`
}

// SetDefaults registers defaults, the env prefix and key replacer on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, 3318)
	v.SetDefault(KeyAPITimeout, 15*time.Second)
	v.SetDefault(KeyCacheTTL, 30*time.Second)
	v.SetDefault(KeyConfirmTTL, 5*time.Minute)
	v.SetDefault(KeyAuditBackend, "sqlite")
	v.SetDefault(KeyAuditDSN, "hibah-audit.db")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// FromViper reads and validates the config. Secrets have no defaults.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:          v.GetInt(KeyPort),
		APIBaseURL:    strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIBaseURL)), "/"),
		APITimeout:    v.GetDuration(KeyAPITimeout),
		CacheTTL:      v.GetDuration(KeyCacheTTL),
		SessionSecret: v.GetString(KeySessionSecret),
		ConfirmSalt:   v.GetString(KeyConfirmSalt),
		ConfirmTTL:    v.GetDuration(KeyConfirmTTL),
		IPHashSalt:    v.GetString(KeyIPHashSalt),
		LoginURL:      v.GetString(KeyLoginURL),
		AuditBackend:  strings.ToLower(v.GetString(KeyAuditBackend)),
		AuditDSN:      v.GetString(KeyAuditDSN),
		LogLevel:      strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:     strings.ToLower(v.GetString(KeyLogFormat)),
	}

	if v.IsSet(KeyRubric) {
		var entries []rubricEntry
		if err := v.UnmarshalKey(KeyRubric, &entries); err != nil {
			return Config{}, fmt.Errorf("invalid rubric: %w", err)
		}
		for _, e := range entries {
			cfg.Rubric = append(cfg.Rubric, models.RubricCriterion{ID: e.ID, Label: e.Label, Weight: e.Weight})
		}
	}

	// apiclient reads a zero TTL as "use the default"
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = -1
	}
	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = cfg.ConfirmSalt
	}
	if cfg.LoginURL == "" && cfg.APIBaseURL != "" {
		cfg.LoginURL = cfg.APIBaseURL + "/login"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first missing or malformed setting.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.APIBaseURL == "" {
		return errors.New("HIBAH_API_BASE_URL required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", c.APIBaseURL)
	}
	if c.SessionSecret == "" {
		return errors.New("HIBAH_SESSION_SECRET required")
	}
	if c.ConfirmSalt == "" {
		return errors.New("HIBAH_CONFIRM_SALT required")
	}
	if c.APITimeout <= 0 {
		return errors.New("api timeout must be positive")
	}
	switch c.AuditBackend {
	case "sqlite", "postgres", "postgresql", "mysql", "none":
	default:
		return fmt.Errorf("unsupported audit backend %q", c.AuditBackend)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unsupported log level %q", s)
	}
	return level, nil
}

// Logger builds the slog logger selected by LogFormat and LogLevel.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
