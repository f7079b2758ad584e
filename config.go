// File: config.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// ServerConfig holds deployment settings. The challenge constants
// themselves are compiled in.
type ServerConfig struct {
	Addr       string `json:"addr"`
	StaticDir  string `json:"staticDir"`
	SessionTTL string `json:"sessionTTL"` // time.ParseDuration syntax
	Locale     string `json:"locale"`
	LogFile    string `json:"logFile"` // empty logs to stderr

	ttl time.Duration
}

// 会话至少保留一秒
const minSessionTTL = time.Second

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:       ":28416",
		StaticDir:  "./static",
		SessionTTL: "15m",
		Locale:     "en",
	}
}

// LoadServerConfig reads path over the defaults. A missing file is not
// an error. PORT, when set, overrides the listen address.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := defaultServerConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}

	cfg.ttl, err = time.ParseDuration(cfg.SessionTTL)
	if err != nil {
		return cfg, fmt.Errorf("sessionTTL: %w", err)
	}
	if cfg.ttl < minSessionTTL {
		return cfg, fmt.Errorf("sessionTTL must be at least %s, got %s", minSessionTTL, cfg.SessionTTL)
	}
	return cfg, nil
}

// TTL is how long an idle session is kept.
func (c ServerConfig) TTL() time.Duration {
	return c.ttl
}
