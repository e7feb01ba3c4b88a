// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"runtime"
	"strings"
	"sync"
)

// =============================================================================
// ERROR CATEGORIES
// =============================================================================

// ErrorCategory represents the type of error for better organization and display.
type ErrorCategory string

const (
	// CategoryNetwork represents connectivity errors reaching the backend
	CategoryNetwork ErrorCategory = "Network"
	// CategoryAuth represents sign-in, session, and passcode errors
	CategoryAuth ErrorCategory = "Auth"
	// CategoryRole represents role-based authorization refusals
	CategoryRole ErrorCategory = "Role"
	// CategoryValidation represents field validation rejections
	CategoryValidation ErrorCategory = "Validation"
	// CategoryNotFound represents missing resources
	CategoryNotFound ErrorCategory = "Not Found"
	// CategoryConflict represents state conflicts (already decided, already booked)
	CategoryConflict ErrorCategory = "Conflict"
	// CategoryConfig represents configuration and local file errors
	CategoryConfig ErrorCategory = "Config"
	// CategoryParse represents payload parsing and format errors
	CategoryParse ErrorCategory = "Parse"
	// CategoryTimeout represents timeout errors
	CategoryTimeout ErrorCategory = "Timeout"
	// CategoryUnknown represents unclassified errors
	CategoryUnknown ErrorCategory = "Error"
)

// =============================================================================
// ERROR PATTERN MATCHER
// =============================================================================

// ErrorPattern defines a pattern to match against error strings and provide suggestions.
type ErrorPattern struct {
	// Keywords to match in the error message (case-insensitive, any match triggers)
	Keywords []string

	// Category classifies the error type
	Category ErrorCategory

	// Title for the error display
	Title string

	// Suggestions to help resolve the error
	Suggestions []string

	// DocsURL links to documentation for complex errors (optional)
	DocsURL string

	// LogHint tells users what to look for in logs (optional)
	LogHint string
}

// ErrorPatternMatcher analyzes error strings and provides smart suggestions.
type ErrorPatternMatcher struct {
	mu       sync.RWMutex
	patterns []ErrorPattern
}

// Singleton instance for default pattern matcher
var (
	defaultMatcher     *ErrorPatternMatcher
	defaultMatcherOnce sync.Once
)

// GetDefaultMatcher returns the singleton pattern matcher instance.
// This is thread-safe and avoids re-creating the matcher on every error.
func GetDefaultMatcher() *ErrorPatternMatcher {
	defaultMatcherOnce.Do(func() {
		defaultMatcher = NewErrorPatternMatcher()
	})
	return defaultMatcher
}

// NewErrorPatternMatcher creates a new error pattern matcher with default patterns.
func NewErrorPatternMatcher() *ErrorPatternMatcher {
	matcher := &ErrorPatternMatcher{
		patterns: make([]ErrorPattern, 0),
	}

	// Register default patterns
	matcher.registerDefaultPatterns()

	return matcher
}

// registerDefaultPatterns registers common error patterns with actionable suggestions.
// IMPORTANT: Patterns are registered from MOST SPECIFIC to LEAST SPECIFIC.
// The first matching pattern wins, so specific patterns must come before general ones.
func (m *ErrorPatternMatcher) registerDefaultPatterns() {
	// =========================================================================
	// MOST SPECIFIC PATTERNS FIRST
	// =========================================================================

	// App lock / passcode errors (before general auth errors)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"totp", "passcode", "app is locked", "unlock code",
			"invalid code", "code rejected",
		},
		Category: CategoryAuth,
		Title:    "Passcode Required",
		Suggestions: []string{
			"Enter the 6-digit code from your authenticator app",
			"Codes rotate every 30 seconds - wait for a fresh one",
			"A skewed clock invalidates codes: tripdesk doctor checks it",
		},
		DocsURL: "https://tripdesk.dev/docs/security/app-lock",
		LogHint: "Check for passcode validation attempts",
	})

	// Expired session (before general auth errors)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"session expired", "token expired", "signed out",
			"401", "unauthorized", "invalid token",
		},
		Category: CategoryAuth,
		Title:    "Session Expired",
		Suggestions: []string{
			"Sign in again: tripdesk login",
			"Stored tokens are cleared on expiry",
			"Session length is set by the backend, not the client",
		},
		DocsURL: "https://tripdesk.dev/docs/troubleshooting/sessions",
		LogHint: "Look for 401 responses near the failure",
	})

	// Bad credentials
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"invalid credentials", "authentication failed",
			"bad email or password", "wrong password", "login failed",
		},
		Category: CategoryAuth,
		Title:    "Sign-In Failed",
		Suggestions: []string{
			"Check the email address spelling",
			"Passwords are case-sensitive",
			"Ask an administrator if the account is active",
		},
		DocsURL: "https://tripdesk.dev/docs/troubleshooting/sign-in",
		LogHint: "Check which account the attempt used",
	})

	// Role refusals
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"forbidden", "403", "role does not allow",
			"not permitted", "requires manager", "requires travel admin",
		},
		Category: CategoryRole,
		Title:    "Not Allowed",
		Suggestions: []string{
			"Approvals need the manager role; booking needs travel admin",
			"Check who you are signed in as: tripdesk whoami",
			"Managers can only decide requests routed to them",
		},
		DocsURL: "https://tripdesk.dev/docs/roles",
		LogHint: "Check the acting role on the rejected call",
	})

	// State conflicts (before validation - "already decided" is not a field error)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"already decided", "already booked", "already cancelled",
			"not pending", "409", "conflict",
		},
		Category: CategoryConflict,
		Title:    "Request Already Decided",
		Suggestions: []string{
			"Another approver may have acted first",
			"Refresh the request: tripdesk request show <id>",
			"Only pending requests can be approved or rejected",
		},
		DocsURL: "https://tripdesk.dev/docs/workflow",
		LogHint: "Compare the status before and after the call",
	})

	// Validation rejections
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"validation failed", "unprocessable", "422",
			"invalid field", "required field",
		},
		Category: CategoryValidation,
		Title:    "Validation Failed",
		Suggestions: []string{
			"Dates are YYYY-MM-DD and return must not precede departure",
			"Estimated cost must be a positive amount",
			"Origin, destination, and purpose are required",
		},
		DocsURL: "https://tripdesk.dev/docs/requests/fields",
		LogHint: "The response lists the rejected fields",
	})

	// Missing resources. Deliberately narrow: "file not found" is a local
	// problem and must fall through to the file patterns below.
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"404", "no such request", "request not found", "does not exist",
		},
		Category: CategoryNotFound,
		Title:    "Not Found",
		Suggestions: []string{
			"The request may have been cancelled or purged",
			"Refresh the list: tripdesk requests",
			"Check the request id for typos",
		},
		DocsURL: "https://tripdesk.dev/docs/troubleshooting/not-found",
		LogHint: "Check the exact path that returned 404",
	})

	// Request timeouts (before general network errors)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"request timeout", "operation timed out",
			"context deadline exceeded",
		},
		Category: CategoryTimeout,
		Title:    "Request Timeout",
		Suggestions: []string{
			"Try again - the backend may be temporarily busy",
			"Check backend health: tripdesk doctor",
			"Raise timeout_seconds in the config for slow links",
		},
		DocsURL: "https://tripdesk.dev/docs/troubleshooting/timeouts",
		LogHint: "Look for the timeout duration and response times",
	})

	// Rate limiting
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"rate limit", "too many requests", "429",
			"throttled", "rate exceeded",
		},
		Category: CategoryNetwork,
		Title:    "Rate Limit Exceeded",
		Suggestions: []string{
			"Wait a moment and retry",
			"Lower the notifier poll frequency (notify.interval_seconds)",
			"Avoid running several clients against one account",
		},
		DocsURL: "https://tripdesk.dev/docs/troubleshooting/rate-limits",
		LogHint: "Check request frequency around the failure",
	})

	// TLS problems
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"x509", "certificate", "tls handshake",
		},
		Category: CategoryNetwork,
		Title:    "TLS Error",
		Suggestions: []string{
			"Check the backend URL scheme is https where expected",
			"Corporate proxies can rewrite certificates",
			"Verify the CA bundle on this machine is current",
		},
		DocsURL: "https://tripdesk.dev/docs/troubleshooting/tls",
		LogHint: "The handshake error names the failing certificate",
	})

	// Local file permissions (token store enforces 0600)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"permission denied", "access denied", "eacces",
			"must be 0600",
		},
		Category:    CategoryConfig,
		Title:       "File Permission Error",
		Suggestions: getPlatformSpecificPermissionSuggestions(),
		DocsURL:     "https://tripdesk.dev/docs/security/token-store",
		LogHint:     "Check which path under ~/.tripdesk was refused",
	})

	// Local file missing
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"file not found", "no such file", "enoent",
			"cannot find file",
		},
		Category: CategoryConfig,
		Title:    "File Not Found",
		Suggestions: []string{
			"Rebuild the offline cache: tripdesk sync",
			"Check the export path exists and is writable",
			"tripdesk doctor reports the data directory layout",
		},
		DocsURL: "https://tripdesk.dev/docs/troubleshooting/data-dir",
		LogHint: "Check the full path being accessed",
	})

	// =========================================================================
	// MEDIUM SPECIFICITY PATTERNS
	// =========================================================================

	// Configuration errors
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"invalid config", "missing config", "parse config",
			"configuration error", "unknown key",
		},
		Category: CategoryConfig,
		Title:    "Configuration Error",
		Suggestions: []string{
			"Check the effective settings: tripdesk config show",
			"Values can be overridden per key: tripdesk config set",
			"Remove ~/.tripdesk/config.toml to regenerate defaults",
		},
		DocsURL: "https://tripdesk.dev/docs/configuration",
		LogHint: "Check the config file path and validation errors",
	})

	// JSON/Parse errors
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"unmarshal", "parse error",
			"invalid json", "syntax error",
		},
		Category: CategoryParse,
		Title:    "Parse Error",
		Suggestions: []string{
			"The backend may be returning an error page, not JSON",
			"Check the backend URL points at the API root",
			"Inspect the raw payload with the detail screen's inspector",
		},
		DocsURL: "https://tripdesk.dev/docs/troubleshooting/parse-errors",
		LogHint: "The first bytes of the response show what came back",
	})

	// =========================================================================
	// GENERAL/FALLBACK PATTERNS (LEAST SPECIFIC - LAST)
	// =========================================================================

	// General network/connection errors (fallback - must be LAST)
	// NOTE: Does NOT include "timeout" - that's handled by Request Timeout above
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"connection refused", "connect: connection refused",
			"dial tcp", "no such host", "network unreachable",
			"connection reset", "broken pipe",
			"cannot connect", "failed to connect",
		},
		Category: CategoryNetwork,
		Title:    "Backend Unreachable",
		Suggestions: []string{
			"Check the backend URL: tripdesk config show",
			"Verify VPN or proxy settings",
			"Cached requests stay browsable while offline",
		},
		DocsURL: "https://tripdesk.dev/docs/troubleshooting/network",
		LogHint: "Look for 'connection refused' or 'dial tcp' errors",
	})
}

// AddPattern adds a custom error pattern to the matcher.
// This allows extending the pattern matcher with application-specific patterns.
// Thread-safe.
func (m *ErrorPatternMatcher) AddPattern(pattern ErrorPattern) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = append(m.patterns, pattern)
}

// Match analyzes an error string and returns an ErrorDisplay with smart suggestions.
// Returns nil if no pattern matches. Thread-safe.
func (m *ErrorPatternMatcher) Match(errMsg string) *ErrorDisplay {
	if errMsg == "" {
		return nil
	}

	errLower := strings.ToLower(errMsg)

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Try each pattern in order (most specific first)
	for _, pattern := range m.patterns {
		if m.matchesPattern(errLower, pattern) {
			// Create enhanced error display with all details
			display := NewEnhancedError(pattern, errMsg)
			return &display
		}
	}

	// No pattern matched - return generic error
	return nil
}

// MatchOrDefault analyzes an error string and returns an ErrorDisplay with smart suggestions.
// If no pattern matches, returns a generic error display with the given title and message.
func (m *ErrorPatternMatcher) MatchOrDefault(title, errMsg string) ErrorDisplay {
	if matched := m.Match(errMsg); matched != nil {
		return *matched
	}

	// No pattern matched - return default error
	return NewError(title, errMsg)
}

// matchesPattern checks if an error message matches a pattern's keywords.
func (m *ErrorPatternMatcher) matchesPattern(errMsg string, pattern ErrorPattern) bool {
	for _, keyword := range pattern.Keywords {
		if strings.Contains(errMsg, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// =============================================================================
// PLATFORM-SPECIFIC HELPERS
// =============================================================================

// getPlatformSpecificPermissionSuggestions returns permission suggestions based on the OS.
// SECURITY: the token store refuses credential files looser than 0600.
func getPlatformSpecificPermissionSuggestions() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			"Check permissions on %USERPROFILE%\\.tripdesk in Properties > Security",
			"Credential files are DPAPI-protected per user account",
			"Sign in again to regenerate a refused credential file",
		}
	case "darwin": // macOS
		return []string{
			"Check permissions: ls -la ~/.tripdesk",
			"Tighten a refused credential file: chmod 600 <file>",
			"Sign in again to regenerate a deleted credential file",
		}
	default: // Linux and others
		return []string{
			"Check permissions: ls -la ~/.tripdesk",
			"Tighten a refused credential file: chmod 600 <file>",
			"The directory itself must be 0700: chmod 700 ~/.tripdesk",
		}
	}
}

// =============================================================================
// SMART ERROR CREATION
// =============================================================================

// SmartError creates an error display with auto-detected pattern matching.
// This is the recommended way to create errors with intelligent suggestions.
func SmartError(title, message string) ErrorDisplay {
	matcher := GetDefaultMatcher()
	return matcher.MatchOrDefault(title, message)
}

// SmartErrorFromError creates an error display from a Go error with pattern matching.
func SmartErrorFromError(title string, err error) ErrorDisplay {
	if err == nil {
		return NewError(title, "Unknown error")
	}
	return SmartError(title, err.Error())
}
