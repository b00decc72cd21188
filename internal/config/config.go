package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the controller connection and the local runtime settings.
type Config struct {
	Host           string
	Port           int
	Scheme         string
	Username       string
	Password       string
	Personality    string
	Keepalive      time.Duration
	RequestTimeout time.Duration
	Refresh        time.Duration
	LogLevel       string
	LogFile        string
	LogJSON        bool
	LogMaxSizeMB   int
	LogMaxBackups  int
	LogCompress    bool
}

const (
	defaultConfigPath     = "~/.config/gantry/config.toml"
	defaultLogFile        = "~/.local/state/gantry/gantry.log"
	defaultScheme         = "http"
	defaultUsername       = "admin"
	defaultPersonality    = "designer"
	defaultKeepalive      = 270 * time.Second
	defaultRequestTimeout = 10 * time.Second
	defaultRefresh        = 5 * time.Second
	defaultLogLevel       = "info"
	defaultLogMaxSizeMB   = 10
	defaultLogMaxBackups  = 3

	// PasswordEnv overrides the password from the config file.
	PasswordEnv = "GANTRY_PASSWORD"
)

var personalities = map[string]bool{
	"generic":  true,
	"designer": true,
	"expert":   true,
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Scheme:         defaultScheme,
		Username:       defaultUsername,
		Personality:    defaultPersonality,
		Keepalive:      defaultKeepalive,
		RequestTimeout: defaultRequestTimeout,
		Refresh:        defaultRefresh,
		LogLevel:       defaultLogLevel,
		LogFile:        mustExpand(defaultLogFile),
		LogMaxSizeMB:   defaultLogMaxSizeMB,
		LogMaxBackups:  defaultLogMaxBackups,
	}
}

// Load locates and parses the gantry config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Host                  string `toml:"host"`
		Port                  int    `toml:"port"`
		Scheme                string `toml:"scheme"`
		Username              string `toml:"username"`
		Password              string `toml:"password"`
		Personality           string `toml:"personality"`
		KeepaliveSeconds      *int   `toml:"keepalive_seconds"`
		RequestTimeoutSeconds *int   `toml:"request_timeout_seconds"`
		RefreshSeconds        *int   `toml:"refresh_seconds"`
		LogLevel              string `toml:"log_level"`
		LogFile               string `toml:"log_file"`
		LogJSON               bool   `toml:"log_json"`
		LogMaxSizeMB          int    `toml:"log_max_size_mb"`
		LogMaxBackups         int    `toml:"log_max_backups"`
		LogCompress           bool   `toml:"log_compress"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Host = strings.TrimSpace(raw.Host)
	cfg.Port = raw.Port
	cfg.Password = raw.Password
	if v := strings.TrimSpace(raw.Scheme); v != "" {
		cfg.Scheme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(raw.Personality); v != "" {
		cfg.Personality = strings.ToLower(v)
	}
	if raw.KeepaliveSeconds != nil && *raw.KeepaliveSeconds > 0 {
		cfg.Keepalive = time.Duration(*raw.KeepaliveSeconds) * time.Second
	}
	if raw.RequestTimeoutSeconds != nil && *raw.RequestTimeoutSeconds >= 0 {
		cfg.RequestTimeout = time.Duration(*raw.RequestTimeoutSeconds) * time.Second
	}
	if raw.RefreshSeconds != nil && *raw.RefreshSeconds > 0 {
		cfg.Refresh = time.Duration(*raw.RefreshSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	cfg.LogJSON = raw.LogJSON
	cfg.LogCompress = raw.LogCompress
	if raw.LogMaxSizeMB > 0 {
		cfg.LogMaxSizeMB = raw.LogMaxSizeMB
	}
	if raw.LogMaxBackups > 0 {
		cfg.LogMaxBackups = raw.LogMaxBackups
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields that are not forwarded to the controller. The
// host itself is checked when the session authenticates.
func (c Config) Validate() error {
	if !personalities[c.Personality] {
		return fmt.Errorf("personality %q: want generic, designer or expert", c.Personality)
	}
	if c.Scheme != "http" && c.Scheme != "https" {
		return fmt.Errorf("scheme %q: want http or https", c.Scheme)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func (c *Config) applyEnv() {
	if pw, ok := os.LookupEnv(PasswordEnv); ok {
		c.Password = pw
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
