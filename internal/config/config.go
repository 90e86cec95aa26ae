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

// Config holds the settings Folio reads at startup.
type Config struct {
	APIURL          string
	APIToken        string
	RequestTimeout  time.Duration
	RefreshInterval time.Duration // zero disables background refresh
	PocketStatus    string
	LogLevel        string
	LogDir          string
}

// Environment variables that take precedence over the file.
const (
	EnvAPIURL   = "FOLIO_API_URL"
	EnvAPIToken = "FOLIO_API_TOKEN"
)

const (
	defaultConfigPath      = "~/.config/folio/config.toml"
	defaultLogDir          = "~/.local/state/folio"
	defaultAPIURL          = "http://localhost:8000"
	defaultRequestTimeout  = 10 * time.Second
	defaultRefreshInterval = time.Minute
	defaultPocketStatus    = "unread"
	defaultLogLevel        = "info"
	logFileName            = "folio.log"
)

var pocketStatuses = map[string]struct{}{
	"unread":  {},
	"archive": {},
	"all":     {},
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:          defaultAPIURL,
		RequestTimeout:  defaultRequestTimeout,
		RefreshInterval: defaultRefreshInterval,
		PocketStatus:    defaultPocketStatus,
		LogLevel:        defaultLogLevel,
		LogDir:          mustExpand(defaultLogDir),
	}
}

// Load reads the config at path, falling back to defaults when the file is
// missing. Environment overrides are applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
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
		APIURL          string `toml:"api_url"`
		APIToken        string `toml:"api_token"`
		RequestTimeout  string `toml:"request_timeout"`
		RefreshInterval string `toml:"refresh_interval"`
		PocketStatus    string `toml:"pocket_status"`
		LogLevel        string `toml:"log_level"`
		LogDir          string `toml:"log_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	cfg.APIToken = strings.TrimSpace(raw.APIToken)

	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("parse config: request_timeout %q must be a positive duration", v)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.RefreshInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("parse config: refresh_interval %q must be a duration", v)
		}
		cfg.RefreshInterval = d
	}
	if v := strings.ToLower(strings.TrimSpace(raw.PocketStatus)); v != "" {
		if _, ok := pocketStatuses[v]; !ok {
			return Config{}, fmt.Errorf("parse config: pocket_status %q must be unread, archive or all", v)
		}
		cfg.PocketStatus = v
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// LogPath returns the path of Folio's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIToken)); v != "" {
		cfg.APIToken = v
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
