// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - Standardized JSON output for scripting/automation.
//
// CLI: Every command supports --json so tripdesk can sit inside shell
// pipelines and cron jobs. The envelope is identical across commands;
// only the data payload varies.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// =============================================================================
// JSON RESPONSE ENVELOPE
// =============================================================================

// JSONResponse is the standard envelope for all JSON output.
type JSONResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *string     `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
	Command   string      `json:"command"`
}

// NewJSONResponse creates a successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates an error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errMsg := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errMsg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// OutputJSON handles JSON output for a command. If jsonMode is false the
// handler runs and its human-facing output stands; if true, the handler's
// data (or error) is wrapped in the standard envelope.
//
// Returns the handler's error either way so exit codes stay accurate.
func OutputJSON(jsonMode bool, command string, handler func() (interface{}, error)) error {
	data, err := handler()

	if !jsonMode {
		return err
	}

	var response *JSONResponse
	if err != nil {
		response = NewJSONErrorResponse(command, err)
	} else {
		response = NewJSONResponse(command, data)
	}

	if printErr := response.Print(); printErr != nil {
		return fmt.Errorf("failed to output JSON: %w", printErr)
	}

	return err
}

// StderrPrint prints to stderr (for progress messages that must not
// pollute JSON stdout).
func StderrPrint(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// StderrPrintln prints a line to stderr.
func StderrPrintln(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
}

// =============================================================================
// COMMAND DATA PAYLOADS
// =============================================================================

// VersionData is the payload for the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// WhoamiData is the payload for the whoami command.
type WhoamiData struct {
	LoggedIn     bool   `json:"logged_in"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role,omitempty"`
	UserID       int    `json:"user_id,omitempty"`
	Department   string `json:"department,omitempty"`
	TokenExpiry  string `json:"token_expiry,omitempty"`
	TokenExpired bool   `json:"token_expired,omitempty"`
	APIBaseURL   string `json:"api_base_url,omitempty"`
}

// LoginData is the payload for the login command.
type LoginData struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	UserID int    `json:"user_id"`
}

// PageMeta describes the visible window of a paged listing.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalRows  int `json:"total_rows"`
	From       int `json:"from"`
	To         int `json:"to"`
}

// RequestListData is the payload for the requests command.
type RequestListData struct {
	Requests   interface{} `json:"requests"`
	Pagination PageMeta    `json:"pagination"`
	Filter     string      `json:"filter,omitempty"`
	Search     string      `json:"search,omitempty"`
	SortKey    string      `json:"sort_key,omitempty"`
	Exported   string      `json:"exported,omitempty"`
}

// DecisionData is the payload for approve/reject.
type DecisionData struct {
	RequestID int    `json:"request_id"`
	Status    string `json:"status"`
	Note      string `json:"note,omitempty"`
}

// BookingData is the payload for the book command.
type BookingData struct {
	RequestID int     `json:"request_id"`
	TicketRef string  `json:"ticket_ref"`
	FinalCost float64 `json:"final_cost"`
	Status    string  `json:"status"`
}

// SyncData is the payload for the sync command.
type SyncData struct {
	Departments int    `json:"departments"`
	Projects    int    `json:"projects"`
	Users       int    `json:"users"`
	UsersSkipped bool  `json:"users_skipped,omitempty"`
	SyncedAt    string `json:"synced_at"`
	Duration    string `json:"duration"`
}

// LookupsData is the payload for the lookups command.
type LookupsData struct {
	Departments int    `json:"departments"`
	Projects    int    `json:"projects"`
	Users       int    `json:"users"`
	LastSynced  string `json:"last_synced,omitempty"`
	Stale       bool   `json:"stale"`
	Items       interface{} `json:"items,omitempty"`
}

// DraftListData is the payload for the drafts command.
type DraftListData struct {
	Drafts interface{} `json:"drafts"`
	Count  int         `json:"count"`
}

// =============================================================================
// DOCTOR DATA
// =============================================================================

// DoctorCheck is one health check result.
type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "pass", "warn", "fail"
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// DoctorSummary aggregates check results.
type DoctorSummary struct {
	Passed  int  `json:"passed"`
	Warned  int  `json:"warned"`
	Failed  int  `json:"failed"`
	Healthy bool `json:"healthy"`
}

// DoctorData is the payload for the doctor command.
type DoctorData struct {
	Checks  []DoctorCheck `json:"checks"`
	Summary DoctorSummary `json:"summary"`
}
