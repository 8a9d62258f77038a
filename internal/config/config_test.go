package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		Server: ServerConfig{Host: "192.168.1.20", Token: "secret"},
	}
	applyDefaults(&cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.Server.Host = "" },
			wantErr: "server.host",
		},
		{
			name: "missing host with discovery",
			mutate: func(c *Config) {
				c.Server.Host = ""
				c.Server.Discover = true
			},
		},
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.Server.Token = "" },
			wantErr: "server.token",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "unknown format",
			mutate:  func(c *Config) { c.Server.Format = "yaml" },
			wantErr: "server.format",
		},
		{
			name:    "interval too small",
			mutate:  func(c *Config) { c.Poll.IntervalSecs = -1 },
			wantErr: "poll.interval_secs",
		},
		{
			name:    "bar too narrow",
			mutate:  func(c *Config) { c.UI.BarWidth = 3 },
			wantErr: "ui.bar_width",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.UI.Theme = "sepia" },
			wantErr: "ui.theme",
		},
		{
			name:    "host with path",
			mutate:  func(c *Config) { c.Server.Host = "plex.local/status" },
			wantErr: "bare host",
		},
		{
			name:    "host with port",
			mutate:  func(c *Config) { c.Server.Host = "192.168.1.2:32400" },
			wantErr: "server.port = 32400",
		},
		{
			name:    "bracketed host",
			mutate:  func(c *Config) { c.Server.Host = "[::1]" },
			wantErr: "bracketed",
		},
		{
			name:   "bare ipv6 host",
			mutate: func(c *Config) { c.Server.Host = "fe80::1" },
		},
		{
			name:    "negative backups",
			mutate:  func(c *Config) { c.Log.MaxBackups = intPtr(-1) },
			wantErr: "log.max_backups",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	if cfg.Server.Port != 32400 {
		t.Errorf("Port = %d, want 32400", cfg.Server.Port)
	}
	if cfg.Server.Format != "xml" {
		t.Errorf("Format = %q, want xml", cfg.Server.Format)
	}
	if cfg.Interval() != 10*time.Second {
		t.Errorf("Interval() = %v, want 10s", cfg.Interval())
	}
	if cfg.Timeout() != 8*time.Second {
		t.Errorf("Timeout() = %v, want 8s", cfg.Timeout())
	}
	if cfg.UI.BarWidth != 40 {
		t.Errorf("BarWidth = %d, want 40", cfg.UI.BarWidth)
	}
	if cfg.Log.Backups() != 3 || cfg.Log.AgeDays() != 14 {
		t.Errorf("Backups() = %d, AgeDays() = %d, want 3 and 14", cfg.Log.Backups(), cfg.Log.AgeDays())
	}
}

func TestApplyDefaultsKeepsExplicitZero(t *testing.T) {
	cfg := Config{Log: LogConfig{MaxBackups: intPtr(0), MaxAgeDays: intPtr(0)}}
	applyDefaults(&cfg)
	if cfg.Log.Backups() != 0 || cfg.Log.AgeDays() != 0 {
		t.Errorf("Backups() = %d, AgeDays() = %d, want 0 and 0", cfg.Log.Backups(), cfg.Log.AgeDays())
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PLEX_HOST":  "plex.lan",
		"PLEX_PORT":  "32401",
		"PLEX_TOKEN": "from-env",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Config{Server: ServerConfig{Host: "file-host", Token: "file-token"}}
	if err := applyEnv(&cfg, lookup); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}

	if cfg.Server.Host != "plex.lan" {
		t.Errorf("Host = %q, want plex.lan", cfg.Server.Host)
	}
	if cfg.Server.Port != 32401 {
		t.Errorf("Port = %d, want 32401", cfg.Server.Port)
	}
	if cfg.Server.Token != "from-env" {
		t.Errorf("Token = %q, want from-env", cfg.Server.Token)
	}
}

func TestApplyEnvTokenEnv(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "MY_PLEX_TOKEN" {
			return "indirect", true
		}
		return "", false
	}
	cfg := Config{Server: ServerConfig{TokenEnv: "MY_PLEX_TOKEN"}}
	if err := applyEnv(&cfg, lookup); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}
	if cfg.Server.Token != "indirect" {
		t.Errorf("Token = %q, want indirect", cfg.Server.Token)
	}
}

func TestApplyEnvBadPort(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "PLEX_PORT" {
			return "plex", true
		}
		return "", false
	}
	cfg := Config{Server: ServerConfig{Port: 32400}}
	err := applyEnv(&cfg, lookup)
	if err == nil || !strings.Contains(err.Error(), "PLEX_PORT") {
		t.Errorf("applyEnv() error = %v, want PLEX_PORT error", err)
	}
}

func TestSessionsURL(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Token = "abc&def"

	got := cfg.SessionsURL()
	want := "http://192.168.1.20:32400/status/sessions?X-Plex-Token=abc%26def"
	if got != want {
		t.Errorf("SessionsURL() = %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	for _, k := range []string{"PLEX_HOST", "PLEX_PORT", "PLEX_TOKEN", "PLEX_SCHEME"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[server]
host = "10.0.0.5"
token = "tok"
format = "JSON"

[poll]
interval_secs = 3

[ui]
theme = "nord"
device_filter = "living"
artwork = true

[log]
max_backups = 0
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Server.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Server.Format)
	}
	if cfg.Interval() != 3*time.Second {
		t.Errorf("Interval() = %v, want 3s", cfg.Interval())
	}
	if cfg.UI.DeviceFilter != "living" {
		t.Errorf("DeviceFilter = %q, want living", cfg.UI.DeviceFilter)
	}
	if !cfg.UI.Artwork {
		t.Error("Artwork = false, want true")
	}
	if cfg.Log.Backups() != 0 {
		t.Errorf("Backups() = %d, want 0", cfg.Log.Backups())
	}
	if cfg.Log.AgeDays() != 14 {
		t.Errorf("AgeDays() = %d, want 14", cfg.Log.AgeDays())
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("Load() error = nil, want read error")
	}
}

func TestTomlKey(t *testing.T) {
	tests := map[string]string{
		"Config.Server.TimeoutMs":  "server.timeout_ms",
		"Config.Log.MaxSizeMB":     "log.max_size_mb",
		"Config.Poll.IntervalSecs": "poll.interval_secs",
	}
	for in, want := range tests {
		if got := tomlKey(in); got != want {
			t.Errorf("tomlKey(%q) = %q, want %q", in, got, want)
		}
	}
}
