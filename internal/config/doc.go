// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for tripdesk.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Backend endpoint, timeout, and rate limit settings
//   - SessionConfig: Idle timeout and draft auto-save settings
//   - StorageConfig: Draft and lookup-cache storage settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (TRIPDESK_*), with .env support
//   - ~/.tripdesk/config.toml
//   - ~/.tripdesk/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	baseURL := cfg.API.BaseURL
//	timeout := cfg.Session.Timeout()
//
// A Watcher can reload the file on change so a long-running TUI picks up
// edits without restarting.
package config
