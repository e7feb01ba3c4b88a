// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for tripdesk.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.tripdesk/config.toml
//   - ~/.tripdesk/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/tripdesk-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete tripdesk configuration.
//
// Credentials never live here: the bearer token and cached profile are
// managed by internal/auth under separate encrypted storage.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// API endpoint configuration
	API APIConfig `toml:"api" json:"api"`

	// Session (idle timeout) configuration
	Session SessionConfig `toml:"session" json:"session"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Local storage (drafts, lookup cache) configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// App lock (TOTP gate) configuration
	Lock LockConfig `toml:"lock" json:"lock"`

	// Notification polling configuration
	Notify NotifyConfig `toml:"notify" json:"notify"`
}

// APIConfig contains backend endpoint configuration.
type APIConfig struct {
	// BaseURL is the travel API base URL, including the /api prefix.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerSecond is the client-side rate limit applied to all
	// outbound requests. The backend is shared; be polite.
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	// RequestBurst is the rate limiter burst size.
	RequestBurst int `toml:"request_burst" json:"request_burst"`
}

// SessionConfig contains idle-session timeout configuration.
type SessionConfig struct {
	// TimeoutMinutes is the idle duration after which the session expires
	// and stored credentials are cleared.
	TimeoutMinutes int `toml:"timeout_minutes" json:"timeout_minutes"`
	// WarningMinutes is how long before expiry the warning overlay appears.
	// Must be shorter than TimeoutMinutes.
	WarningMinutes int `toml:"warning_minutes" json:"warning_minutes"`
	// AutosaveEnabled enables periodic saving of in-progress request drafts.
	AutosaveEnabled bool `toml:"autosave_enabled" json:"autosave_enabled"`
	// AutosaveIntervalSecs is how often dirty drafts are persisted.
	AutosaveIntervalSecs int `toml:"autosave_interval_secs" json:"autosave_interval_secs"`

	// TimeoutSecs is the legacy timeout key from 0.1.x config files.
	// Deprecated: superseded by timeout_minutes; migrated on load.
	TimeoutSecs int `toml:"timeout_secs,omitempty" json:"timeout_secs,omitempty"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// DateFormat is the Go reference layout used to render dates in tables
	// and detail views (e.g. "2006-01-02").
	DateFormat string `toml:"date_format" json:"date_format"`
	// PageSize is the default number of rows per table page.
	PageSize int `toml:"page_size" json:"page_size"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// StorageConfig contains local storage configuration.
type StorageConfig struct {
	// Dir is the data directory. Empty means ~/.tripdesk.
	Dir string `toml:"dir" json:"dir"`
	// CacheStaleHours is the age in hours after which the lookup cache
	// (departments, projects, users) counts as stale for 'tripdesk doctor'.
	CacheStaleHours int `toml:"cache_stale_hours" json:"cache_stale_hours"`
	// MaxDrafts is the maximum number of saved drafts before the oldest
	// are pruned.
	MaxDrafts int `toml:"max_drafts" json:"max_drafts"`
}

// LockConfig contains app-lock (TOTP) configuration.
type LockConfig struct {
	// Enabled requires a TOTP code before unlocking stored credentials.
	// Enrollment happens via 'tripdesk lock enable'.
	Enabled bool `toml:"enabled" json:"enabled"`
}

// NotifyConfig contains notification polling configuration.
type NotifyConfig struct {
	// Enabled controls whether the status poller runs at all.
	Enabled bool `toml:"enabled" json:"enabled"`
	// PollIntervalSecs is how often the poller fetches the request list.
	PollIntervalSecs int `toml:"poll_interval_secs" json:"poll_interval_secs"`
}

// =============================================================================
// DURATION ACCESSORS
// =============================================================================

// Timeout returns the idle session timeout as a duration.
func (s SessionConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMinutes) * time.Minute
}

// Warning returns the pre-expiry warning lead time as a duration.
func (s SessionConfig) Warning() time.Duration {
	return time.Duration(s.WarningMinutes) * time.Minute
}

// AutosaveInterval returns the draft auto-save interval as a duration.
func (s SessionConfig) AutosaveInterval() time.Duration {
	return time.Duration(s.AutosaveIntervalSecs) * time.Second
}

// Timeout returns the per-request API timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// PollInterval returns the notification poll interval as a duration.
func (n NotifyConfig) PollInterval() time.Duration {
	return time.Duration(n.PollIntervalSecs) * time.Second
}

// DataDir resolves the data directory, defaulting to ~/.tripdesk.
func (s StorageConfig) DataDir() (string, error) {
	if s.Dir != "" {
		return s.Dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tripdesk"), nil
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:           "http://localhost:5088/api",
			TimeoutSecs:       30,
			RequestsPerSecond: 10,
			RequestBurst:      20,
		},

		Session: SessionConfig{
			TimeoutMinutes:       30, // idle expiry
			WarningMinutes:       5,  // overlay appears 5 min before expiry
			AutosaveEnabled:      true,
			AutosaveIntervalSecs: 30,
		},

		UI: UIConfig{
			Theme:       "dark",
			DateFormat:  "2006-01-02",
			PageSize:    25,
			CompactMode: false,
		},

		Storage: StorageConfig{
			Dir:             "", // resolved to ~/.tripdesk
			CacheStaleHours: 24,
			MaxDrafts:       50,
		},

		Lock: LockConfig{
			Enabled: false,
		},

		Notify: NotifyConfig{
			Enabled:          true,
			PollIntervalSecs: 60,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the tripdesk configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tripdesk"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err // File doesn't exist or not accessible
	}

	// Check current permissions
	mode := info.Mode().Perm()

	// If permissions are too permissive (anything other than 0600), fix them
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
// CONFIG: Comprehensive validation ensures safe configuration
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				cfg.ApplyEnvOverrides()
				// Apply migration, defaults, and validation
				if err := cfg.Migrate(); err != nil {
					return nil, fmt.Errorf("config migration failed: %w", err)
				}
				cfg.SetDefaults()
				if err := cfg.Validate(); err != nil {
					return nil, fmt.Errorf("invalid config: %w", err)
				}
				return cfg, nil
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				cfg.ApplyEnvOverrides()
				// Apply migration, defaults, and validation
				if err := cfg.Migrate(); err != nil {
					return nil, fmt.Errorf("config migration failed: %w", err)
				}
				cfg.SetDefaults()
				if err := cfg.Validate(); err != nil {
					return nil, fmt.Errorf("invalid config: %w", err)
				}
				return cfg, nil
			}
		}
	}

	// Apply environment overrides to defaults
	cfg.ApplyEnvOverrides()

	// Apply migration, defaults, and validation for default config
	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	// SECURITY: Check and fix file permissions if needed
	if err := ensureSecurePermissions(path); err != nil {
		// Log warning but don't fail - permissions might not be fixable on all systems
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	_, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
// SECURITY: Checks and fixes file permissions on load.
func LoadJSON(cfg *Config, path string) error {
	// SECURITY: Check and fix file permissions if needed
	if err := ensureSecurePermissions(path); err != nil {
		// Log warning but don't fail - permissions might not be fixable on all systems
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
// CONFIG: Comprehensive validation ensures safe configuration
func LoadFromPath(path string) (*Config, error) {
	// Start from defaults so sections omitted from the file (including
	// booleans, which fillDefaults cannot distinguish) keep their defaults.
	cfg := Default()

	// Determine file type and load accordingly
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	// Apply environment overrides
	cfg.ApplyEnvOverrides()

	// Apply migration, defaults, and validation
	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	// General
	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// API
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.API.RequestsPerSecond == 0 {
		cfg.API.RequestsPerSecond = defaults.API.RequestsPerSecond
	}
	if cfg.API.RequestBurst == 0 {
		cfg.API.RequestBurst = defaults.API.RequestBurst
	}

	// Session
	if cfg.Session.TimeoutMinutes == 0 && cfg.Session.TimeoutSecs == 0 {
		cfg.Session.TimeoutMinutes = defaults.Session.TimeoutMinutes
	}
	if cfg.Session.WarningMinutes == 0 {
		cfg.Session.WarningMinutes = defaults.Session.WarningMinutes
	}
	if cfg.Session.AutosaveIntervalSecs == 0 {
		cfg.Session.AutosaveIntervalSecs = defaults.Session.AutosaveIntervalSecs
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.DateFormat == "" {
		cfg.UI.DateFormat = defaults.UI.DateFormat
	}
	if cfg.UI.PageSize == 0 {
		cfg.UI.PageSize = defaults.UI.PageSize
	}

	// Storage
	if cfg.Storage.CacheStaleHours == 0 {
		cfg.Storage.CacheStaleHours = defaults.Storage.CacheStaleHours
	}
	if cfg.Storage.MaxDrafts == 0 {
		cfg.Storage.MaxDrafts = defaults.Storage.MaxDrafts
	}

	// Notify
	if cfg.Notify.PollIntervalSecs == 0 {
		cfg.Notify.PollIntervalSecs = defaults.Notify.PollIntervalSecs
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// SECURITY: Create file with restrictive permissions (0600 = owner read/write only)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// SECURITY: Ensure permissions are correct even if file already existed
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	// Write header comment
	fmt.Fprintln(file, "# tripdesk configuration file")
	fmt.Fprintln(file, "# Generated by tripdesk - edit with care")
	fmt.Fprintln(file, "#")
	fmt.Fprintln(file, "# Documentation: https://github.com/jeranaias/tripdesk-tui")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	// SECURITY: Write with restrictive permissions (0600 = owner read/write only)
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// CONFIG: Comprehensive validation ensures safe configuration

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
// CONFIG: Comprehensive validation ensures safe configuration
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// API Settings Validation
	// ==========================================================================

	// Validate base URL
	if c.API.BaseURL == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: "must be set",
		})
	} else {
		u, err := url.Parse(c.API.BaseURL)
		switch {
		case err != nil:
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		case u.Scheme != "http" && u.Scheme != "https":
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("unsupported scheme '%s', must be http or https", u.Scheme),
			})
		case u.Host == "":
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: "missing host",
			})
		}
	}

	// Validate request timeout
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be 1-300 seconds, got %d", c.API.TimeoutSecs),
		})
	}

	// Validate rate limit
	// RELIABILITY: The backend is shared; an unbounded client can starve it.
	if c.API.RequestsPerSecond <= 0 || c.API.RequestsPerSecond > 100 {
		errs = append(errs, ValidationError{
			Field:   "api.requests_per_second",
			Message: fmt.Sprintf("must be greater than 0 and at most 100, got %g", c.API.RequestsPerSecond),
		})
	}
	if c.API.RequestBurst < 1 || c.API.RequestBurst > 100 {
		errs = append(errs, ValidationError{
			Field:   "api.request_burst",
			Message: fmt.Sprintf("must be 1-100, got %d", c.API.RequestBurst),
		})
	}

	// ==========================================================================
	// Session Settings Validation
	// ==========================================================================

	// Validate session timeout
	// SECURITY: Sessions must expire; a zero timeout would leave credentials
	// live on unattended terminals indefinitely.
	if c.Session.TimeoutMinutes < 5 || c.Session.TimeoutMinutes > 480 {
		errs = append(errs, ValidationError{
			Field:   "session.timeout_minutes",
			Message: fmt.Sprintf("must be 5-480 minutes, got %d", c.Session.TimeoutMinutes),
		})
	}

	// Validate warning lead time
	if c.Session.WarningMinutes < 1 {
		errs = append(errs, ValidationError{
			Field:   "session.warning_minutes",
			Message: fmt.Sprintf("must be at least 1 minute, got %d", c.Session.WarningMinutes),
		})
	} else if c.Session.WarningMinutes >= c.Session.TimeoutMinutes {
		errs = append(errs, ValidationError{
			Field:   "session.warning_minutes",
			Message: fmt.Sprintf("must be shorter than timeout_minutes (%d), got %d", c.Session.TimeoutMinutes, c.Session.WarningMinutes),
		})
	}

	// Validate auto-save interval
	if c.Session.AutosaveIntervalSecs < 5 || c.Session.AutosaveIntervalSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "session.autosave_interval_secs",
			Message: fmt.Sprintf("must be 5-600 seconds, got %d", c.Session.AutosaveIntervalSecs),
		})
	}

	// ==========================================================================
	// UI Settings Validation
	// ==========================================================================

	// Validate UI theme
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	// Validate date format
	if c.UI.DateFormat == "" {
		errs = append(errs, ValidationError{
			Field:   "ui.date_format",
			Message: "must be set (Go reference layout, e.g. 2006-01-02)",
		})
	}

	// Validate page size
	if c.UI.PageSize < 1 || c.UI.PageSize > 200 {
		errs = append(errs, ValidationError{
			Field:   "ui.page_size",
			Message: fmt.Sprintf("must be 1-200, got %d", c.UI.PageSize),
		})
	}

	// ==========================================================================
	// Storage Settings Validation
	// ==========================================================================

	if c.Storage.CacheStaleHours < 0 || c.Storage.CacheStaleHours > 720 {
		errs = append(errs, ValidationError{
			Field:   "storage.cache_stale_hours",
			Message: fmt.Sprintf("must be 0-720 hours, got %d", c.Storage.CacheStaleHours),
		})
	}

	if c.Storage.MaxDrafts < 1 || c.Storage.MaxDrafts > 500 {
		errs = append(errs, ValidationError{
			Field:   "storage.max_drafts",
			Message: fmt.Sprintf("must be 1-500, got %d", c.Storage.MaxDrafts),
		})
	}

	// ==========================================================================
	// Notify Settings Validation
	// ==========================================================================

	// RELIABILITY: Polling under 10s hammers the shared backend for no benefit.
	if c.Notify.PollIntervalSecs < 10 || c.Notify.PollIntervalSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "notify.poll_interval_secs",
			Message: fmt.Sprintf("must be 10-3600 seconds, got %d", c.Notify.PollIntervalSecs),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value configuration fields.
// CONFIG: Comprehensive validation ensures safe configuration
func (c *Config) SetDefaults() {
	defaults := Default()

	// General defaults
	if c.Version == "" {
		c.Version = defaults.Version
	}

	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.API.RequestsPerSecond == 0 {
		c.API.RequestsPerSecond = defaults.API.RequestsPerSecond
	}
	if c.API.RequestBurst == 0 {
		c.API.RequestBurst = defaults.API.RequestBurst
	}

	// Session defaults
	// SECURITY: Idle timeout cannot be 0 (disabled); credentials must expire.
	if c.Session.TimeoutMinutes == 0 {
		c.Session.TimeoutMinutes = defaults.Session.TimeoutMinutes
	}
	if c.Session.WarningMinutes == 0 {
		c.Session.WarningMinutes = defaults.Session.WarningMinutes
	}
	if c.Session.AutosaveIntervalSecs == 0 {
		c.Session.AutosaveIntervalSecs = defaults.Session.AutosaveIntervalSecs
	}

	// UI defaults
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.DateFormat == "" {
		c.UI.DateFormat = defaults.UI.DateFormat
	}
	if c.UI.PageSize == 0 {
		c.UI.PageSize = defaults.UI.PageSize
	}

	// Storage defaults
	if c.Storage.CacheStaleHours == 0 {
		c.Storage.CacheStaleHours = defaults.Storage.CacheStaleHours
	}
	if c.Storage.MaxDrafts == 0 {
		c.Storage.MaxDrafts = defaults.Storage.MaxDrafts
	}

	// Notify defaults
	if c.Notify.PollIntervalSecs == 0 {
		c.Notify.PollIntervalSecs = defaults.Notify.PollIntervalSecs
	}
}

// Migrate handles migration from old configuration formats to new ones.
// CONFIG: Comprehensive validation ensures safe configuration
func (c *Config) Migrate() error {
	// Handle legacy session.timeout_secs key (0.1.x stored seconds).
	// 0.1.x files never carry timeout_minutes, so the legacy key wins when
	// present; it is cleared after conversion so the next save drops it.
	if c.Session.TimeoutSecs > 0 {
		minutes := c.Session.TimeoutSecs / 60
		if minutes < 1 {
			minutes = 1
		}
		c.Session.TimeoutMinutes = minutes
		c.Session.TimeoutSecs = 0
	}

	// Handle "default" theme migration (deprecated, now aliased to "dark")
	if strings.ToLower(c.UI.Theme) == "default" {
		c.UI.Theme = "dark"
	}

	// Normalize base URL: trailing slashes break path joining
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")

	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// A .env file in the working directory is loaded first (values already set
// in the environment win, per godotenv semantics).
//
// Supported environment variables:
//   - TRIPDESK_API_URL: overrides api.base_url
//   - TRIPDESK_API_TIMEOUT_SECS: overrides api.timeout_secs
//   - TRIPDESK_SESSION_TIMEOUT_MINUTES: overrides session.timeout_minutes
//   - TRIPDESK_SESSION_WARNING_MINUTES: overrides session.warning_minutes
//   - TRIPDESK_THEME: overrides ui.theme
//   - TRIPDESK_DATE_FORMAT: overrides ui.date_format
//   - TRIPDESK_PAGE_SIZE: overrides ui.page_size
//   - TRIPDESK_DATA_DIR: overrides storage.dir
//   - TRIPDESK_NOTIFY_INTERVAL_SECS: overrides notify.poll_interval_secs
//   - TRIPDESK_NO_NOTIFY: set to "1" or "true" to disable the poller
//   - TRIPDESK_LOCK: set to "1" or "true" to require the TOTP app lock
func (c *Config) ApplyEnvOverrides() {
	// Load .env if present; a missing file is not an error.
	_ = godotenv.Load()

	// TRIPDESK_API_URL
	if apiURL := os.Getenv("TRIPDESK_API_URL"); apiURL != "" {
		c.API.BaseURL = apiURL
	}

	// TRIPDESK_API_TIMEOUT_SECS
	if secs := os.Getenv("TRIPDESK_API_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			c.API.TimeoutSecs = n
		}
	}

	// TRIPDESK_SESSION_TIMEOUT_MINUTES
	if mins := os.Getenv("TRIPDESK_SESSION_TIMEOUT_MINUTES"); mins != "" {
		if n, err := strconv.Atoi(mins); err == nil && n > 0 {
			c.Session.TimeoutMinutes = n
		}
	}

	// TRIPDESK_SESSION_WARNING_MINUTES
	if mins := os.Getenv("TRIPDESK_SESSION_WARNING_MINUTES"); mins != "" {
		if n, err := strconv.Atoi(mins); err == nil && n > 0 {
			c.Session.WarningMinutes = n
		}
	}

	// TRIPDESK_THEME
	if theme := os.Getenv("TRIPDESK_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	// TRIPDESK_DATE_FORMAT
	if layout := os.Getenv("TRIPDESK_DATE_FORMAT"); layout != "" {
		c.UI.DateFormat = layout
	}

	// TRIPDESK_PAGE_SIZE
	if size := os.Getenv("TRIPDESK_PAGE_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			c.UI.PageSize = n
		}
	}

	// TRIPDESK_DATA_DIR
	if dir := os.Getenv("TRIPDESK_DATA_DIR"); dir != "" {
		c.Storage.Dir = dir
	}

	// TRIPDESK_NOTIFY_INTERVAL_SECS
	if secs := os.Getenv("TRIPDESK_NOTIFY_INTERVAL_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			c.Notify.PollIntervalSecs = n
		}
	}

	// TRIPDESK_NO_NOTIFY
	if noNotify := os.Getenv("TRIPDESK_NO_NOTIFY"); noNotify != "" {
		if noNotify == "1" || strings.ToLower(noNotify) == "true" {
			c.Notify.Enabled = false
		}
	}

	// TRIPDESK_LOCK
	if lock := os.Getenv("TRIPDESK_LOCK"); lock != "" {
		c.Lock.Enabled = lock == "1" || strings.ToLower(lock) == "true"
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		// Normalize the part name
		fieldName := normalizeFieldName(part)

		// Find the field
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		// If this is the last part, return the value
		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		// Otherwise, navigate into the struct
		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		// Normalize the part name
		fieldName := normalizeFieldName(part)

		// Find the field
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		// If this is the last part, set the value
		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		// Otherwise, navigate into the struct
		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	// Remove underscores and capitalize following letters
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	// Handle string input with type conversion
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	// Direct assignment for matching types
	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	// Type conversion for compatible types
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"api.base_url",
		"api.timeout_secs",
		"api.requests_per_second",
		"api.request_burst",
		"session.timeout_minutes",
		"session.warning_minutes",
		"session.autosave_enabled",
		"session.autosave_interval_secs",
		"ui.theme",
		"ui.date_format",
		"ui.page_size",
		"ui.compact_mode",
		"storage.dir",
		"storage.cache_stale_hours",
		"storage.max_drafts",
		"lock.enabled",
		"notify.enabled",
		"notify.poll_interval_secs",
	}
}

// Merge merges another config into this one, overwriting only non-zero values.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// General
	if other.Version != "" {
		c.Version = other.Version
	}

	// API
	if other.API.BaseURL != "" {
		c.API.BaseURL = other.API.BaseURL
	}
	if other.API.TimeoutSecs != 0 {
		c.API.TimeoutSecs = other.API.TimeoutSecs
	}
	if other.API.RequestsPerSecond != 0 {
		c.API.RequestsPerSecond = other.API.RequestsPerSecond
	}
	if other.API.RequestBurst != 0 {
		c.API.RequestBurst = other.API.RequestBurst
	}

	// Session
	if other.Session.TimeoutMinutes != 0 {
		c.Session.TimeoutMinutes = other.Session.TimeoutMinutes
	}
	if other.Session.WarningMinutes != 0 {
		c.Session.WarningMinutes = other.Session.WarningMinutes
	}
	if other.Session.AutosaveEnabled {
		c.Session.AutosaveEnabled = true
	}
	if other.Session.AutosaveIntervalSecs != 0 {
		c.Session.AutosaveIntervalSecs = other.Session.AutosaveIntervalSecs
	}

	// UI
	if other.UI.Theme != "" {
		c.UI.Theme = other.UI.Theme
	}
	if other.UI.DateFormat != "" {
		c.UI.DateFormat = other.UI.DateFormat
	}
	if other.UI.PageSize != 0 {
		c.UI.PageSize = other.UI.PageSize
	}
	if other.UI.CompactMode {
		c.UI.CompactMode = true
	}

	// Storage
	if other.Storage.Dir != "" {
		c.Storage.Dir = other.Storage.Dir
	}
	if other.Storage.CacheStaleHours != 0 {
		c.Storage.CacheStaleHours = other.Storage.CacheStaleHours
	}
	if other.Storage.MaxDrafts != 0 {
		c.Storage.MaxDrafts = other.Storage.MaxDrafts
	}

	// Lock
	if other.Lock.Enabled {
		c.Lock.Enabled = true
	}

	// Notify
	if other.Notify.Enabled {
		c.Notify.Enabled = true
	}
	if other.Notify.PollIntervalSecs != 0 {
		c.Notify.PollIntervalSecs = other.Notify.PollIntervalSecs
	}
}

// Clone creates a deep copy of the configuration.
// All fields are value types, so a struct copy is a full copy; keep
// callers going through Clone so that stays true if reference fields
// are ever added.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
// Nothing in the config is secret (credentials live in internal/auth),
// so no redaction is needed.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c.Clone(), "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	// Use sync.Once to ensure initialization happens exactly once
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
