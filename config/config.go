// Package config loads wifiswitch settings from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wifiswitch/wifictl"
)

// Config holds the settings for one run of the switcher.
type Config struct {
	Interface     string
	StoreDir      string
	PassEntry     string
	LookupTimeout time.Duration
	JoinPath      string
	ExtraPath     string
	DebugLog      string
}

// ClientOptions maps the configuration onto wifictl.Options.
func (c *Config) ClientOptions() wifictl.Options {
	return wifictl.Options{
		Interface:     c.Interface,
		StoreDir:      c.StoreDir,
		PassEntry:     c.PassEntry,
		LookupTimeout: c.LookupTimeout,
		JoinPath:      c.JoinPath,
		ExtraPath:     c.ExtraPath,
	}
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional: WIFISWITCH_INTERFACE (en0), WIFISWITCH_STORE_DIR
// ($HOME/.password-store), WIFISWITCH_PASS_ENTRY (wifi), WIFISWITCH_LOOKUP_TIMEOUT (2s),
// WIFISWITCH_JOIN_PATH (/usr/sbin), WIFISWITCH_EXTRA_PATH (/opt/homebrew/bin) and
// WIFISWITCH_DEBUG_LOG (unset disables the debug log).
func Load() (*Config, error) {
	iface := wifictl.DefaultInterface
	if v := strings.TrimSpace(os.Getenv("WIFISWITCH_INTERFACE")); v != "" {
		iface = v
	}

	storeDir := strings.TrimSpace(os.Getenv("WIFISWITCH_STORE_DIR"))
	if storeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("WIFISWITCH_STORE_DIR is unset and home directory is unknown: %w", err)
		}
		storeDir = filepath.Join(home, ".password-store")
	}

	passEntry := wifictl.DefaultPassEntry
	if v := strings.TrimSpace(os.Getenv("WIFISWITCH_PASS_ENTRY")); v != "" {
		passEntry = v
	}

	lookupTimeout := wifictl.DefaultLookupTimeout
	if v, ok := os.LookupEnv("WIFISWITCH_LOOKUP_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("WIFISWITCH_LOOKUP_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("WIFISWITCH_LOOKUP_TIMEOUT must be positive, got %s", parsed)
		}
		lookupTimeout = parsed
	}

	joinPath := wifictl.DefaultJoinPath
	if v := os.Getenv("WIFISWITCH_JOIN_PATH"); v != "" {
		joinPath = v
	}

	extraPath := wifictl.DefaultExtraPath
	if v := os.Getenv("WIFISWITCH_EXTRA_PATH"); v != "" {
		extraPath = v
	}

	return &Config{
		Interface:     iface,
		StoreDir:      storeDir,
		PassEntry:     passEntry,
		LookupTimeout: lookupTimeout,
		JoinPath:      joinPath,
		ExtraPath:     extraPath,
		DebugLog:      os.Getenv("WIFISWITCH_DEBUG_LOG"),
	}, nil
}
