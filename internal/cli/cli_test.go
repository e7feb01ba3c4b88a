// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution.
//
// This test file covers argument parsing, command routing, exit code
// mapping, and the small formatting helpers the commands share.
package cli

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/tripdesk-tui/internal/api"
	"github.com/jeranaias/tripdesk-tui/internal/auth"
	"github.com/jeranaias/tripdesk-tui/internal/storage"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"show", "--page-size", "50"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("page-size") != "50" {
					t.Errorf("Flag(page-size) = %q, want %q", p.Flag("page-size"), "50")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"show", "--status=pending"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("status") != "pending" {
					t.Errorf("Flag(status) = %q, want %q", p.Flag("status"), "pending")
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"delete", "draft_a1b2", "--confirm"},
			wantSub: "delete",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("confirm") {
					t.Error("BoolFlag(confirm) should be true")
				}
				if p.Positional(1) != "draft_a1b2" {
					t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "draft_a1b2")
				}
			},
		},
		{
			name:    "multiple positional args",
			args:    []string{"reject", "42", "over", "department", "budget"},
			wantSub: "reject",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 5 {
					t.Errorf("PositionalCount() = %d, want 5", p.PositionalCount())
				}
				joined := strings.Join(p.PositionalFrom(2), " ")
				if joined != "over department budget" {
					t.Errorf("PositionalFrom(2) joined = %q, want %q", joined, "over department budget")
				}
			},
		},
		{
			name:    "mixed flags and positional",
			args:    []string{"book", "--ticket", "TK-991", "42"},
			wantSub: "book",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("ticket") != "TK-991" {
					t.Errorf("Flag(ticket) = %q, want %q", p.Flag("ticket"), "TK-991")
				}
				// Positional should be: book, 42
				if p.Positional(1) != "42" {
					t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "42")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			if parser.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", parser.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, parser)
			}
		})
	}
}

func TestArgParser_FlagIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		flagName   string
		defaultVal int
		want       int
	}{
		{
			name:       "flag present",
			args:       []string{"cmd", "--page", "10"},
			flagName:   "page",
			defaultVal: 1,
			want:       10,
		},
		{
			name:       "flag missing uses default",
			args:       []string{"cmd"},
			flagName:   "page",
			defaultVal: 1,
			want:       1,
		},
		{
			name:       "invalid int uses default",
			args:       []string{"cmd", "--page", "abc"},
			flagName:   "page",
			defaultVal: 1,
			want:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			got := parser.FlagIntOrDefault(tt.flagName, tt.defaultVal)
			if got != tt.want {
				t.Errorf("FlagIntOrDefault(%q, %d) = %d, want %d", tt.flagName, tt.defaultVal, got, tt.want)
			}
		})
	}
}

func TestArgParser_HasFlag(t *testing.T) {
	parser := NewArgParser([]string{"cmd", "--confirm", "--page-size", "50"})

	if !parser.HasFlag("confirm") {
		t.Error("HasFlag(confirm) should be true")
	}
	if !parser.HasFlag("page-size") {
		t.Error("HasFlag(page-size) should be true")
	}
	if parser.HasFlag("nonexistent") {
		t.Error("HasFlag(nonexistent) should be false")
	}
}

// =============================================================================
// COMMAND ROUTING TESTS (cli.go)
// =============================================================================

// TestParseArgs_Routing tests the full parse path: global flags, command
// selection, and per-command flag parsing.
func TestParseArgs_Routing(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantCommand Command
		validate    func(*testing.T, Args)
	}{
		{
			name:        "no args starts TUI",
			args:        []string{},
			wantCommand: CmdTUI,
		},
		{
			name:        "login with email",
			args:        []string{"login", "--email", "dana@example.com"},
			wantCommand: CmdLogin,
			validate: func(t *testing.T, a Args) {
				if a.Email != "dana@example.com" {
					t.Errorf("Email = %q, want %q", a.Email, "dana@example.com")
				}
			},
		},
		{
			name:        "requests with filters",
			args:        []string{"requests", "--status", "pending", "--sort", "cost", "--desc", "--page", "2", "--page-size", "10"},
			wantCommand: CmdRequests,
			validate: func(t *testing.T, a Args) {
				if a.Status != "pending" {
					t.Errorf("Status = %q, want %q", a.Status, "pending")
				}
				if a.SortKey != "cost" {
					t.Errorf("SortKey = %q, want %q", a.SortKey, "cost")
				}
				if !a.SortDesc {
					t.Error("SortDesc should be true")
				}
				if a.Page != 2 || a.PageSize != 10 {
					t.Errorf("Page/PageSize = %d/%d, want 2/10", a.Page, a.PageSize)
				}
			},
		},
		{
			name:        "requests with search and export",
			args:        []string{"requests", "--search=chicago", "--export", "trips.csv"},
			wantCommand: CmdRequests,
			validate: func(t *testing.T, a Args) {
				if a.SearchTerm != "chicago" {
					t.Errorf("SearchTerm = %q, want %q", a.SearchTerm, "chicago")
				}
				if a.ExportPath != "trips.csv" {
					t.Errorf("ExportPath = %q, want %q", a.ExportPath, "trips.csv")
				}
			},
		},
		{
			name:        "bare request ID is shorthand for show",
			args:        []string{"request", "42"},
			wantCommand: CmdRequest,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "show" {
					t.Errorf("Subcommand = %q, want %q", a.Subcommand, "show")
				}
				if a.RequestID != 42 {
					t.Errorf("RequestID = %d, want 42", a.RequestID)
				}
			},
		},
		{
			name:        "request new",
			args:        []string{"request", "new"},
			wantCommand: CmdRequest,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "new" {
					t.Errorf("Subcommand = %q, want %q", a.Subcommand, "new")
				}
			},
		},
		{
			name:        "request submit with draft",
			args:        []string{"request", "submit", "--draft", "draft_a1b2"},
			wantCommand: CmdRequest,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "submit" {
					t.Errorf("Subcommand = %q, want %q", a.Subcommand, "submit")
				}
				if a.DraftID != "draft_a1b2" {
					t.Errorf("DraftID = %q, want %q", a.DraftID, "draft_a1b2")
				}
			},
		},
		{
			name:        "approve with note",
			args:        []string{"approve", "42", "--note", "within budget"},
			wantCommand: CmdApprove,
			validate: func(t *testing.T, a Args) {
				if a.RequestID != 42 {
					t.Errorf("RequestID = %d, want 42", a.RequestID)
				}
				if a.Note != "within budget" {
					t.Errorf("Note = %q, want %q", a.Note, "within budget")
				}
			},
		},
		{
			name:        "reject alias deny",
			args:        []string{"deny", "17"},
			wantCommand: CmdReject,
			validate: func(t *testing.T, a Args) {
				if a.RequestID != 17 {
					t.Errorf("RequestID = %d, want 17", a.RequestID)
				}
			},
		},
		{
			name:        "book with ticket and cost",
			args:        []string{"book", "42", "--ticket", "TK-991", "--cost", "815.50"},
			wantCommand: CmdBook,
			validate: func(t *testing.T, a Args) {
				if a.RequestID != 42 {
					t.Errorf("RequestID = %d, want 42", a.RequestID)
				}
				if a.TicketRef != "TK-991" {
					t.Errorf("TicketRef = %q, want %q", a.TicketRef, "TK-991")
				}
				if a.CostStr != "815.50" {
					t.Errorf("CostStr = %q, want %q", a.CostStr, "815.50")
				}
			},
		},
		{
			name:        "drafts subcommand keeps raw args",
			args:        []string{"drafts", "show", "2"},
			wantCommand: CmdDrafts,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "show" {
					t.Errorf("Subcommand = %q, want %q", a.Subcommand, "show")
				}
				if len(a.Raw) != 2 || a.Raw[1] != "2" {
					t.Errorf("Raw = %v, want [show 2]", a.Raw)
				}
			},
		},
		{
			name:        "sync alias refresh",
			args:        []string{"refresh"},
			wantCommand: CmdSync,
		},
		{
			name:        "lookups entity",
			args:        []string{"lookups", "departments"},
			wantCommand: CmdLookups,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "departments" {
					t.Errorf("Subcommand = %q, want %q", a.Subcommand, "departments")
				}
			},
		},
		{
			name:        "lock enable",
			args:        []string{"lock", "enable"},
			wantCommand: CmdLock,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "enable" {
					t.Errorf("Subcommand = %q, want %q", a.Subcommand, "enable")
				}
			},
		},
		{
			name:        "config set key value",
			args:        []string{"config", "set", "ui.page_size", "50"},
			wantCommand: CmdConfig,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "set" {
					t.Errorf("Subcommand = %q, want %q", a.Subcommand, "set")
				}
				if a.ConfigKey != "ui.page_size" {
					t.Errorf("ConfigKey = %q, want %q", a.ConfigKey, "ui.page_size")
				}
				if a.ConfigVal != "50" {
					t.Errorf("ConfigVal = %q, want %q", a.ConfigVal, "50")
				}
			},
		},
		{
			name:        "bare config defaults to show",
			args:        []string{"config"},
			wantCommand: CmdConfig,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "show" {
					t.Errorf("Subcommand = %q, want %q", a.Subcommand, "show")
				}
			},
		},
		{
			name:        "global json flag before command",
			args:        []string{"--json", "whoami"},
			wantCommand: CmdWhoami,
			validate: func(t *testing.T, a Args) {
				if !a.JSON {
					t.Error("JSON should be true")
				}
			},
		},
		{
			name:        "api override",
			args:        []string{"requests", "--api", "http://localhost:9090"},
			wantCommand: CmdRequests,
			validate: func(t *testing.T, a Args) {
				if a.BaseURL != "http://localhost:9090" {
					t.Errorf("BaseURL = %q, want %q", a.BaseURL, "http://localhost:9090")
				}
			},
		},
		{
			name:        "doctor command",
			args:        []string{"doctor"},
			wantCommand: CmdDoctor,
		},
		{
			name:        "version flag",
			args:        []string{"--version"},
			wantCommand: CmdVersion,
		},
		{
			name:        "help command",
			args:        []string{"help"},
			wantCommand: CmdHelp,
		},
		{
			name:        "unknown command keeps input for suggestions",
			args:        []string{"frobnicate"},
			wantCommand: CmdUnknown,
			validate: func(t *testing.T, a Args) {
				if len(a.Raw) == 0 || a.Raw[0] != "frobnicate" {
					t.Errorf("Raw = %v, want [frobnicate]", a.Raw)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.args)

			if cmd != tt.wantCommand {
				t.Errorf("Command = %v, want %v", cmd, tt.wantCommand)
			}

			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

// =============================================================================
// EXIT CODE TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitGeneralError},
		{"validation error", NewValidationError("status", "bogus", "unknown status"), ExitUsageError},
		{"permission error", NewPermissionError("deciding requests", "employee", "manager"), ExitPermissionError},
		{"not found error", NewNotFoundError("request", "42"), ExitNotFoundError},
		{"unauthorized sentinel", api.ErrUnauthorized, ExitAuthError},
		{"forbidden sentinel", api.ErrForbidden, ExitPermissionError},
		{"api not found sentinel", api.ErrNotFound, ExitNotFoundError},
		{"api validation sentinel", api.ErrValidation, ExitUsageError},
		{"network sentinel", api.ErrNetwork, ExitNetworkError},
		{"server sentinel", api.ErrServer, ExitGeneralError},
		{"deadline exceeded", context.DeadlineExceeded, ExitTimeoutError},
		{"no credentials", auth.ErrNoCredentials, ExitAuthError},
		{"draft not found", storage.ErrDraftNotFound, ExitNotFoundError},
		{"wrapped sentinel", WrapError(api.ErrUnauthorized, "fetching requests"), ExitAuthError},
		{"config by message", errors.New("invalid config value"), ExitConfigError},
		{"network by message", errors.New("dial tcp: connection refused"), ExitNetworkError},
		{"timeout by message", errors.New("request timed out"), ExitTimeoutError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetExitCode(tt.err)
			if got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestPermissionError_Message(t *testing.T) {
	err := NewPermissionError("recording bookings", "employee", "traveladmin or administrator")
	msg := err.Error()

	if !strings.Contains(msg, "permission denied") {
		t.Errorf("message %q should contain %q", msg, "permission denied")
	}
	if !strings.Contains(msg, "employee") {
		t.Errorf("message %q should name the caller's role", msg)
	}
	if !strings.Contains(msg, "traveladmin") {
		t.Errorf("message %q should name the required role", msg)
	}
}

// =============================================================================
// COMMAND SUGGESTION TESTS (suggest.go)
// =============================================================================

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"logn", "login"},
		{"requets", "requests"},
		{"aprove", "approve"},
		{"syn", "sync"},
		{"lgoin", "login"},
		{"doctor", "doctor"},
		{"xyzzy", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SuggestCommand(tt.input)
			if got != tt.want {
				t.Errorf("SuggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"same", "same", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"book", "books", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			got := levenshteinDistance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// =============================================================================
// PARSE BOOL STRING TESTS
// =============================================================================

func TestParseBoolString(t *testing.T) {
	trueValues := []string{"true", "TRUE", "True", "yes", "YES", "y", "Y", "1", "on", "ON"}
	falseValues := []string{"false", "FALSE", "False", "no", "NO", "n", "N", "0", "off", "OFF"}

	for _, v := range trueValues {
		t.Run("true_"+v, func(t *testing.T) {
			got, err := ParseBoolString(v)
			if err != nil {
				t.Errorf("ParseBoolString(%q) error = %v", v, err)
			}
			if !got {
				t.Errorf("ParseBoolString(%q) = false, want true", v)
			}
		})
	}

	for _, v := range falseValues {
		t.Run("false_"+v, func(t *testing.T) {
			got, err := ParseBoolString(v)
			if err != nil {
				t.Errorf("ParseBoolString(%q) error = %v", v, err)
			}
			if got {
				t.Errorf("ParseBoolString(%q) = true, want false", v)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseBoolString("maybe")
		if err == nil {
			t.Error("ParseBoolString(maybe) should error")
		}
	})
}

// =============================================================================
// PARSE INT WITH VALIDATION TESTS
// =============================================================================

func TestParseIntWithValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		field   string
		want    int
		wantErr bool
	}{
		{"valid positive", "42", "request ID", 42, false},
		{"valid one", "1", "request ID", 1, false},
		{"zero is invalid", "0", "request ID", 0, true},
		{"negative is invalid", "-5", "request ID", 0, true},
		{"empty is invalid", "", "request ID", 0, true},
		{"non-numeric is invalid", "abc", "request ID", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntWithValidation(tt.input, tt.field)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseIntWithValidation(%q, %q) error = %v, wantErr %v", tt.input, tt.field, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseIntWithValidation(%q, %q) = %d, want %d", tt.input, tt.field, got, tt.want)
			}
		})
	}
}

// =============================================================================
// SORT KEY AND EXPORT FORMAT TESTS (requests_cmd.go)
// =============================================================================

func TestResolveSortKey(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"id", "id", false},
		{"requester", "userName", false},
		{"destination", "destination", false},
		{"departure", "departureDate", false},
		{"departureDate", "departureDate", false},
		{"cost", "estimatedCost", false},
		{"COST", "estimatedCost", false},
		{"status", "status", false},
		{"bogus", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := resolveSortKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("resolveSortKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("resolveSortKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExportFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"trips.csv", "csv", false},
		{"trips.json", "json", false},
		{"trips.md", "md", false},
		{"trips.markdown", "markdown", false},
		{"trips", "csv", false}, // no extension defaults to CSV
		{"trips.xlsx", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := exportFormatFor(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("exportFormatFor(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("exportFormatFor(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// =============================================================================
// FORMATTING HELPER TESTS (helpers.go)
// =============================================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{2 * time.Minute, "2m"},
		{2*time.Minute + 30*time.Second, "2m 30s"},
		{3 * time.Hour, "3h"},
		{2*time.Hour + 15*time.Minute, "2h 15m"},
		{26 * time.Hour, "1d 2h"},
		{48 * time.Hour, "2d"},
		{-90 * time.Second, "1m 30s"}, // sign dropped; callers say "ago" or "for"
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatDuration(tt.d)
			if got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestFormatDurationShort(t *testing.T) {
	got := formatDurationShort(2*time.Hour + 15*time.Minute)
	if got != "2h15m" {
		t.Errorf("formatDurationShort = %q, want %q", got, "2h15m")
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"", "****"},
		{"short", "****"},
		{"12345678", "****"},
		{"abcdefghijkl", "abcd...ijkl"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := maskToken(tt.token)
			if got != tt.want {
				t.Errorf("maskToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

// =============================================================================
// OUTPUT PATH VALIDATION TESTS
// =============================================================================

func TestValidateOutputPath(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"empty path", "", true},
		{"file in temp dir", filepath.Join(tmpDir, "trips.csv"), false},
		{"system directory", "/etc/trips.csv", true},
		{"missing parent", filepath.Join(tmpDir, "nope", "trips.csv"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

// =============================================================================
// EDGE CASES
// =============================================================================

func TestArgParser_EmptyArgs(t *testing.T) {
	parser := NewArgParser([]string{})
	if parser.Subcommand() != "" {
		t.Errorf("Subcommand() = %q, want empty", parser.Subcommand())
	}
	if parser.PositionalCount() != 0 {
		t.Errorf("PositionalCount() = %d, want 0", parser.PositionalCount())
	}
}

func TestArgParser_OnlyFlags(t *testing.T) {
	parser := NewArgParser([]string{"--confirm", "--json"})
	if parser.Subcommand() != "" {
		t.Errorf("Subcommand() = %q, want empty", parser.Subcommand())
	}
	if !parser.BoolFlag("confirm") {
		t.Error("BoolFlag(confirm) should be true")
	}
	if !parser.BoolFlag("json") {
		t.Error("BoolFlag(json) should be true")
	}
}

func TestArgParser_FlagOrDefault(t *testing.T) {
	parser := NewArgParser([]string{"cmd", "--present", "value"})

	if parser.FlagOrDefault("present", "default") != "value" {
		t.Error("FlagOrDefault should return actual value when present")
	}
	if parser.FlagOrDefault("missing", "default") != "default" {
		t.Error("FlagOrDefault should return default when missing")
	}
}

// =============================================================================
// BENCHMARKS
// =============================================================================

func BenchmarkArgParser_Simple(b *testing.B) {
	args := []string{"show", "42"}
	for i := 0; i < b.N; i++ {
		NewArgParser(args)
	}
}

func BenchmarkArgParser_Complex(b *testing.B) {
	args := []string{"requests", "--status", "pending", "--sort", "cost", "--desc", "--page", "2", "--page-size", "25", "--export", "trips.csv"}
	for i := 0; i < b.N; i++ {
		NewArgParser(args)
	}
}

func BenchmarkSuggestCommand(b *testing.B) {
	for i := 0; i < b.N; i++ {
		SuggestCommand("requets")
	}
}
