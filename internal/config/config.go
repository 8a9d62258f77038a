package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/claesbert/PlexAmpCliStatus/internal/ui"
)

// Config holds plexamp-status runtime configuration loaded from TOML.
type Config struct {
	Server ServerConfig `toml:"server"`
	Poll   PollConfig   `toml:"poll"`
	UI     UIConfig     `toml:"ui"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig describes the media server being polled.
type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port" validate:"min=1,max=65535"`
	Scheme    string `toml:"scheme" validate:"oneof=http https"`
	Token     string `toml:"token" validate:"required"`
	TokenEnv  string `toml:"token_env"`
	Format    string `toml:"format" validate:"oneof=xml json"`
	TimeoutMs int    `toml:"timeout_ms" validate:"min=100"`
	Discover  bool   `toml:"discover"`
}

// PollConfig holds refresh loop settings.
type PollConfig struct {
	IntervalSecs int `toml:"interval_secs" validate:"min=1,max=3600"`
}

type UIConfig struct {
	Theme        string `toml:"theme"`
	NoColor      bool   `toml:"no_color"`
	BarWidth     int    `toml:"bar_width" validate:"min=10,max=200"`
	DeviceFilter string `toml:"device_filter"`
	// Artwork shows cover art in the TUI from startup.
	Artwork bool `toml:"artwork"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level      string `toml:"level" validate:"oneof=debug info warn error"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" validate:"min=1"`
	// MaxBackups and MaxAgeDays are nil when unset; 0 keeps everything.
	MaxBackups *int `toml:"max_backups" validate:"omitempty,min=0"`
	MaxAgeDays *int `toml:"max_age_days" validate:"omitempty,min=0"`
}

// Backups returns how many rotated files lumberjack keeps (0 means all).
func (l LogConfig) Backups() int {
	if l.MaxBackups == nil {
		return 0
	}
	return *l.MaxBackups
}

// AgeDays returns how long rotated files are kept (0 means forever).
func (l LogConfig) AgeDays() int {
	if l.MaxAgeDays == nil {
		return 0
	}
	return *l.MaxAgeDays
}

// Load reads configuration from disk, then applies .env and environment
// overrides. If path is empty, a default OS-specific location is used and a
// missing file there is not an error.
func Load(path string) (*Config, string, error) {
	cfgPath := path
	if cfgPath == "" {
		var err error
		cfgPath, err = defaultPath()
		if err != nil {
			return nil, "", fmt.Errorf("resolve config path: %w", err)
		}
	}

	var cfg Config
	data, err := os.ReadFile(cfgPath)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, cfgPath, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && path == "":
		// env-only setup
	default:
		return nil, cfgPath, fmt.Errorf("read config: %w", err)
	}

	// .env never overrides variables already present in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, cfgPath, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, cfgPath, err
	}
	applyDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return nil, cfgPath, err
	}
	return &cfg, cfgPath, nil
}

func defaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	name := "plexamp-status"
	if runtime.GOOS == "windows" {
		name = "PlexAmpStatus"
	}
	return filepath.Join(dir, name, "config.toml"), nil
}

// applyEnv overlays PLEX_* variables onto cfg. lookup is os.LookupEnv outside tests.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("PLEX_HOST"); ok && v != "" {
		cfg.Server.Host = v
	}
	if v, ok := lookup("PLEX_PORT"); ok && v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PLEX_PORT %q is not a port number", v)
		}
		cfg.Server.Port = port
	}
	if v, ok := lookup("PLEX_SCHEME"); ok && v != "" {
		cfg.Server.Scheme = strings.ToLower(v)
	}
	if v, ok := lookup("PLEX_TOKEN"); ok && v != "" {
		cfg.Server.Token = v
	}
	if cfg.Server.TokenEnv != "" && cfg.Server.Token == "" {
		if v, ok := lookup(cfg.Server.TokenEnv); ok {
			cfg.Server.Token = v
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 32400
	}
	if cfg.Server.Scheme == "" {
		cfg.Server.Scheme = "http"
	}
	if cfg.Server.Format == "" {
		cfg.Server.Format = "xml"
	}
	cfg.Server.Format = strings.ToLower(cfg.Server.Format)
	if cfg.Server.TimeoutMs == 0 {
		cfg.Server.TimeoutMs = 8000
	}
	if cfg.Poll.IntervalSecs == 0 {
		cfg.Poll.IntervalSecs = 10
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = "rainbow"
	}
	if cfg.UI.BarWidth == 0 {
		cfg.UI.BarWidth = 40
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 5
	}
	if cfg.Log.MaxBackups == nil {
		cfg.Log.MaxBackups = intPtr(3)
	}
	if cfg.Log.MaxAgeDays == nil {
		cfg.Log.MaxAgeDays = intPtr(14)
	}
}

func intPtr(v int) *int { return &v }

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate performs struct-tag and semantic validation of cfg.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config %s: failed %q%s", tomlKey(fe.Namespace()), fe.Tag(), paramSuffix(fe.Param()))
		}
		return fmt.Errorf("validate config: %w", err)
	}
	if cfg.Server.Host == "" && !cfg.Server.Discover {
		return errors.New("config server.host is required (or set server.discover = true)")
	}
	if strings.ContainsAny(cfg.Server.Host, "/?#") {
		return fmt.Errorf("config server.host %q must be a bare host name or address", cfg.Server.Host)
	}
	if _, port, err := net.SplitHostPort(cfg.Server.Host); err == nil {
		return fmt.Errorf("config server.host %q must not carry a port; set server.port = %s instead", cfg.Server.Host, port)
	}
	if strings.HasPrefix(cfg.Server.Host, "[") {
		return fmt.Errorf("config server.host %q must not be bracketed", cfg.Server.Host)
	}
	if !ui.ValidTheme(cfg.UI.Theme) {
		return fmt.Errorf("config ui.theme %q is unknown (available: %s)", cfg.UI.Theme, strings.Join(ui.ThemeNames(), ", "))
	}
	return nil
}

// tomlKey turns a validator namespace like "Config.Server.TimeoutMs" into "server.timeout_ms".
func tomlKey(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func paramSuffix(p string) string {
	if p == "" {
		return ""
	}
	return " (" + p + ")"
}

// SessionsURL returns the full active-sessions URL including the access token.
func (c Config) SessionsURL() string {
	u := url.URL{
		Scheme:   c.Server.Scheme,
		Host:     net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port)),
		Path:     "/status/sessions",
		RawQuery: url.Values{"X-Plex-Token": {c.Server.Token}}.Encode(),
	}
	return u.String()
}

// Interval returns the delay between refresh cycles.
func (c Config) Interval() time.Duration {
	return time.Duration(c.Poll.IntervalSecs) * time.Second
}

// Timeout returns the per-request network timeout.
func (c Config) Timeout() time.Duration {
	d := time.Duration(c.Server.TimeoutMs) * time.Millisecond
	if d == 0 {
		d = 8 * time.Second
	}
	return d
}
