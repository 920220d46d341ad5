package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	DefaultServerURL        = "ws://127.0.0.1:8080"
	DefaultSendRate         = 5.0
	DefaultSendBurst        = 10
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultLogLevel         = "info"
)

// ErrUnsupportedScheme is returned for server URLs that are not ws, wss, http or https.
var ErrUnsupportedScheme = errors.New("unsupported server URL scheme")

// ClientConfig defines the parameters the TUI client needs.
type ClientConfig struct {
	ServerURL        string
	Username         string
	DBPath           string
	LogPath          string
	LogLevel         string
	LogPretty        bool
	AvatarBaseURL    string
	SendRate         float64
	SendBurst        int
	HandshakeTimeout time.Duration
}

// withDefaults fills every unset field.
func (cfg ClientConfig) withDefaults() ClientConfig {
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogPath()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.SendRate <= 0 {
		cfg.SendRate = DefaultSendRate
	}
	if cfg.SendBurst <= 0 {
		cfg.SendBurst = DefaultSendBurst
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	return cfg
}

// DefaultDataDir returns the per-user directory for the preferences database
// and the log file.
func DefaultDataDir() string {
	if env := os.Getenv("SMILECHAT_DATA_DIR"); env != "" {
		return env
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "smilechat")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "SmileChat")
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "SmileChat")
		}
		return filepath.Join(home, ".local", "share", "smilechat")
	}
	return filepath.Join(".", ".smilechat")
}

// DefaultDBPath returns a per-user data path for the bundled SQLite file.
func DefaultDBPath() string {
	if env := os.Getenv("SMILECHAT_DB_PATH"); env != "" {
		return env
	}
	return filepath.Join(DefaultDataDir(), "smilechat.db")
}

// DefaultLogPath returns where the client writes its log. The terminal is
// owned by the TUI, so logs never go to stderr.
func DefaultLogPath() string {
	if env := os.Getenv("SMILECHAT_LOG"); env != "" {
		return env
	}
	return filepath.Join(DefaultDataDir(), "smilechat.log")
}

// NormalizeServerURL maps http and https to ws and wss and rejects any other
// scheme. A bare host:port is treated as ws.
func NormalizeServerURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("server URL is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "ws://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse server URL: %w", err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "ws", "http":
		parsed.Scheme = "ws"
	case "wss", "https":
		parsed.Scheme = "wss"
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("server URL %q has no host", raw)
	}
	return parsed.String(), nil
}
