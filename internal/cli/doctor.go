// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Doctor command implementation for tripdesk.
//
// CLI: Comprehensive help and examples for all commands
//
// Command: doctor
// Short:   Run environment health checks and diagnostics
//
// Examples:
//   tripdesk doctor                Run all health checks
//   tripdesk doctor --json         Health check results in JSON
//
// Health Checks Performed:
//   1. Config Valid     - Validates the configuration file
//   2. Data Directory   - Checks ~/.tripdesk exists and is writable
//   3. Credentials      - Checks login state and session expiry
//   4. Token Store      - Verifies the stored token decrypts cleanly
//   5. API Reachable    - Pings the backend and measures latency
//   6. Lookup Cache     - Checks reference data freshness
//   7. App Lock         - Checks lock config matches enrollment
//   8. Terminal         - Reports TTY and color capability
//
// Status Symbols:
//   [OK]     Pass  - Check successful
//   [!!]     Warn  - Non-critical issue detected
//   [FAIL]   Fail  - Critical issue detected
//
// Flags:
//   --json              Output in JSON format
//
// Exit Codes:
//   0   All checks passed
//   1   One or more checks failed
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tripdesk-tui/internal/auth"
	"github.com/jeranaias/tripdesk-tui/internal/config"
)

// =============================================================================
// DOCTOR STYLES
// =============================================================================

var (
	// Doctor title style
	doctorTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")). // Cyan
				MarginBottom(1)

	// Check pass style (green)
	checkPassStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	// Check warn style (yellow)
	checkWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	// Check fail style (red)
	checkFailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	// Check message style
	checkMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	// Fix suggestion style
	fixStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true).
			PaddingLeft(2)

	// Summary style
	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// =============================================================================
// HEALTH CHECK TYPES
// =============================================================================

// CheckStatus represents the status of a health check.
type CheckStatus int

const (
	// CheckPass indicates the check passed successfully.
	CheckPass CheckStatus = iota
	// CheckWarn indicates the check passed with warnings.
	CheckWarn
	// CheckFail indicates the check failed.
	CheckFail
)

// String returns the string representation of the check status.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "Pass"
	case CheckWarn:
		return "Warn"
	case CheckFail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// Symbol returns the rendered status marker.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckPass:
		return checkPassStyle.Render("[OK]")
	case CheckWarn:
		return checkWarnStyle.Render("[!!]")
	case CheckFail:
		return checkFailStyle.Render("[FAIL]")
	default:
		return "?"
	}
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string // Suggested fix command or instruction
}

// Render returns a formatted string representation of the health check.
func (c *HealthCheck) Render() string {
	result := fmt.Sprintf("%s %s", c.Status.Symbol(), checkMsgStyle.Render(c.Message))
	if c.Status != CheckPass && c.Fix != "" {
		result += "\n" + fixStyle.Render("-> "+c.Fix)
	}
	return result
}

// =============================================================================
// HANDLE DOCTOR
// =============================================================================

// HandleDoctor handles the "doctor" command.
// Runs every check and reports; the command never prompts, so it is safe
// in cron jobs and shell startup scripts.
func HandleDoctor(args Args) error {
	checks := runAllChecks(args)

	passed := 0
	warned := 0
	failed := 0
	for _, check := range checks {
		switch check.Status {
		case CheckPass:
			passed++
		case CheckWarn:
			warned++
		case CheckFail:
			failed++
		}
	}

	if args.JSON {
		return handleDoctorJSON(checks, passed, warned, failed)
	}

	separator := strings.Repeat("=", 41)
	fmt.Println()
	fmt.Println(doctorTitleStyle.Render("tripdesk Doctor"))
	fmt.Println(DimStyle.Render(separator))
	fmt.Println()

	for _, check := range checks {
		fmt.Println(check.Render())
	}

	fmt.Println()
	fmt.Println(DimStyle.Render(strings.Repeat("-", 41)))

	summaryParts := []string{
		fmt.Sprintf("%d passed", passed),
	}
	if warned > 0 {
		summaryParts = append(summaryParts, checkWarnStyle.Render(fmt.Sprintf("%d warning", warned)))
	}
	if failed > 0 {
		summaryParts = append(summaryParts, checkFailStyle.Render(fmt.Sprintf("%d failed", failed)))
	}

	fmt.Println(summaryStyle.Render(strings.Join(summaryParts, ", ")))
	fmt.Println()

	if failed > 0 {
		return fmt.Errorf("%d health check(s) failed", failed)
	}

	return nil
}

// handleDoctorJSON outputs doctor results in JSON format.
func handleDoctorJSON(checks []*HealthCheck, passed, warned, failed int) error {
	jsonChecks := make([]DoctorCheck, 0, len(checks))
	for _, check := range checks {
		status := "pass"
		switch check.Status {
		case CheckWarn:
			status = "warn"
		case CheckFail:
			status = "fail"
		}

		jsonChecks = append(jsonChecks, DoctorCheck{
			Name:    check.Name,
			Status:  status,
			Message: check.Message,
			Fix:     check.Fix,
		})
	}

	data := DoctorData{
		Checks: jsonChecks,
		Summary: DoctorSummary{
			Passed:  passed,
			Warned:  warned,
			Failed:  failed,
			Healthy: failed == 0,
		},
	}

	resp := NewJSONResponse("doctor", data)

	// If there are failures, mark as unsuccessful but still output data
	if failed > 0 {
		errMsg := fmt.Sprintf("%d health check(s) failed", failed)
		resp.Success = false
		resp.Error = &errMsg
	}

	return resp.Print()
}

// =============================================================================
// HEALTH CHECK FUNCTIONS
// =============================================================================

// runAllChecks runs all health checks and returns the results.
func runAllChecks(args Args) []*HealthCheck {
	cfg := config.Global().Clone()
	if args.BaseURL != "" {
		cfg.API.BaseURL = args.BaseURL
	}

	var checks []*HealthCheck

	// 1. Check config valid
	checks = append(checks, checkConfigValid(cfg))

	// 2. Check data directory writable
	checks = append(checks, checkDataDirectory(cfg))

	// 3. Check credentials
	checks = append(checks, checkCredentials(cfg))

	// 4. Check token store
	checks = append(checks, checkTokenStore(cfg))

	// 5. Check API reachable
	checks = append(checks, checkAPIReachable(cfg))

	// 6. Check lookup cache
	checks = append(checks, checkLookupCache(cfg))

	// 7. Check app lock consistency
	checks = append(checks, checkAppLock(cfg))

	// 8. Check terminal capabilities
	checks = append(checks, checkTerminal())

	return checks
}

// checkConfigValid checks if the configuration file is valid.
func checkConfigValid(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{
		Name: "Config Valid",
	}

	configPath, err := config.ConfigPathTOML()
	if err != nil {
		check.Status = CheckWarn
		check.Message = "Could not determine config path"
		return check
	}

	if err := cfg.Validate(); err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Config invalid: %s", err)
		check.Fix = fmt.Sprintf("Edit %s or remove it to restore defaults", configPath)
		return check
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		check.Status = CheckPass
		check.Message = "Config valid (using defaults)"
		return check
	}

	check.Status = CheckPass
	check.Message = "Config valid"
	return check
}

// checkDataDirectory checks if the data directory exists and is writable.
func checkDataDirectory(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{
		Name: "Data Directory",
	}

	dataDir, err := cfg.Storage.DataDir()
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Could not determine data directory: %s", err)
		return check
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Could not create data directory: %s", err)
		check.Fix = fmt.Sprintf("Create manually: mkdir -p %s", dataDir)
		return check
	}

	// Try to write a test file
	testFile := filepath.Join(dataDir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0600); err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Data directory not writable: %s", err)
		check.Fix = fmt.Sprintf("Check permissions: chmod 700 %s", dataDir)
		return check
	}
	os.Remove(testFile)

	check.Status = CheckPass
	check.Message = fmt.Sprintf("Data directory writable (%s)", dataDir)
	return check
}

// checkCredentials checks the login state and session expiry.
func checkCredentials(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{
		Name: "Credentials",
	}

	dataDir, err := cfg.Storage.DataDir()
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Could not determine data directory: %s", err)
		return check
	}

	store := auth.NewStore(dataDir)
	user, err := store.User()
	if err != nil || user == nil {
		check.Status = CheckWarn
		check.Message = "Not logged in"
		check.Fix = "Run: tripdesk login"
		return check
	}

	expiry, err := store.TokenExpiry()
	if err != nil {
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Logged in as %s, but token expiry unreadable", user.Email)
		check.Fix = "Run: tripdesk logout, then tripdesk login"
		return check
	}

	if time.Now().After(expiry) {
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Session for %s expired %s ago", user.Email, formatDurationShort(time.Since(expiry)))
		check.Fix = "Run: tripdesk login"
		return check
	}

	check.Status = CheckPass
	check.Message = fmt.Sprintf("Logged in as %s (session valid for %s)", user.Email, formatDurationShort(time.Until(expiry)))
	return check
}

// checkTokenStore verifies the stored session token decrypts cleanly.
// The token cipher is keyed independently of the TOTP app lock, so this
// check never prompts for a code.
func checkTokenStore(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{
		Name: "Token Store",
	}

	dataDir, err := cfg.Storage.DataDir()
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Could not determine data directory: %s", err)
		return check
	}

	store := auth.NewStore(dataDir)
	token, err := store.Token()
	if err != nil {
		if errors.Is(err, auth.ErrNoCredentials) {
			check.Status = CheckPass
			check.Message = "No session token stored"
			return check
		}
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Token store unreadable: %s", err)
		check.Fix = "Run: tripdesk logout, then tripdesk login"
		return check
	}

	check.Status = CheckPass
	check.Message = fmt.Sprintf("Session token decrypts cleanly (%s)", maskToken(token))
	return check
}

// checkAPIReachable pings the backend health endpoint and measures latency.
func checkAPIReachable(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{
		Name: "API Reachable",
	}

	gw, _, _, err := newClient(&Args{BaseURL: cfg.API.BaseURL})
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Could not build API client: %s", err)
		return check
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := gw.Health(ctx); err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Backend unreachable at %s", cfg.API.BaseURL)
		check.Fix = "Check the URL: tripdesk config get api.base_url"
		return check
	}
	latency := time.Since(start)

	check.Status = CheckPass
	check.Message = fmt.Sprintf("Backend reachable (%s, %dms)", cfg.API.BaseURL, latency.Milliseconds())
	if latency > 2*time.Second {
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Backend slow (%s, %dms)", cfg.API.BaseURL, latency.Milliseconds())
	}
	return check
}

// checkLookupCache checks reference data presence and freshness.
func checkLookupCache(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{
		Name: "Lookup Cache",
	}

	cache, err := openLookupCache(cfg)
	if err != nil {
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Could not open lookup cache: %s", err)
		check.Fix = "Run: tripdesk sync"
		return check
	}
	defer cache.Close()

	counts, err := cache.Counts()
	if err != nil {
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Lookup cache unreadable: %s", err)
		check.Fix = "Run: tripdesk sync"
		return check
	}

	total := counts.Departments + counts.Projects + counts.Users
	if total == 0 {
		check.Status = CheckWarn
		check.Message = "Lookup cache empty (department and project names will not resolve)"
		check.Fix = "Run: tripdesk sync"
		return check
	}

	maxAge := time.Duration(cfg.Storage.CacheStaleHours) * time.Hour
	if cache.Stale(maxAge) {
		synced, _ := cache.LastSynced()
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Lookup cache stale (last synced %s)", formatTimestamp(synced))
		check.Fix = "Run: tripdesk sync"
		return check
	}

	check.Status = CheckPass
	check.Message = fmt.Sprintf("Lookup cache fresh (%d departments, %d projects, %d users)",
		counts.Departments, counts.Projects, counts.Users)
	return check
}

// checkAppLock checks that the lock config matches TOTP enrollment.
func checkAppLock(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{
		Name: "App Lock",
	}

	dataDir, err := cfg.Storage.DataDir()
	if err != nil {
		check.Status = CheckWarn
		check.Message = "Could not determine data directory"
		return check
	}

	lock := auth.NewAppLock(auth.NewStore(dataDir))
	enrolled := lock.Enabled()

	switch {
	case cfg.Lock.Enabled && !enrolled:
		check.Status = CheckWarn
		check.Message = "App lock enabled in config but no authenticator enrolled"
		check.Fix = "Run: tripdesk lock enable"
	case !cfg.Lock.Enabled && enrolled:
		check.Status = CheckPass
		check.Message = "App lock enrolled but switched off"
	case cfg.Lock.Enabled && enrolled:
		check.Status = CheckPass
		check.Message = "App lock active"
	default:
		check.Status = CheckPass
		check.Message = "App lock off"
	}
	return check
}

// checkTerminal reports TTY and color capability.
func checkTerminal() *HealthCheck {
	check := &HealthCheck{
		Name: "Terminal",
	}

	caps := DetectTerminalCapabilities()

	if !caps.StdoutTTY {
		check.Status = CheckWarn
		check.Message = "Stdout is not a terminal (dashboard and wizard unavailable)"
		return check
	}

	colorNote := "color"
	if !caps.Colors {
		colorNote = "no color"
	}

	check.Status = CheckPass
	check.Message = fmt.Sprintf("Terminal ready (%dx%d, %s)", caps.Width, caps.Height, colorNote)
	return check
}
