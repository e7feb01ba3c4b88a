// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for tripdesk.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdWhoami
	CmdRequests
	CmdRequest
	CmdApprove
	CmdReject
	CmdBook
	CmdDrafts
	CmdSync
	CmdLookups
	CmdPolicy
	CmdLock
	CmdConfig
	CmdDoctor
	CmdVersion
	CmdHelp
	CmdUnknown
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool   // Output in JSON format
	BaseURL string // --api overrides the configured backend URL

	// Command-specific
	Email      string  // login --email
	RequestID  int     // request show / approve / reject / book
	Note       string  // approve/reject --note
	TicketRef  string  // book --ticket
	CostStr    string  // book --cost (parsed by the handler)
	DraftID    string  // request submit --draft
	Status     string  // requests --status
	SearchTerm string  // requests --search
	SortKey    string  // requests --sort
	SortDesc   bool    // requests --desc
	Page       int     // requests --page
	PageSize   int     // requests --page-size
	ExportPath string  // requests --export
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options (e.g., --format)
	Options map[string]string
}

const usageText = `tripdesk - terminal client for company travel requests

Tripdesk talks to the corporate travel API from your terminal.

It provides:
  - An interactive dashboard (TUI) for browsing and acting on requests
  - A scriptable CLI surface with stable exit codes and --json output
  - Local request drafts that never leave your machine until submitted
  - An offline lookup cache for departments, projects, and users

Usage:
  tripdesk                        Start the TUI dashboard (default)
  tripdesk login [--email E]      Sign in and store a session token
  tripdesk logout                 Clear the stored token and profile
  tripdesk whoami                 Show who you are signed in as
  tripdesk requests [flags]       List travel requests
  tripdesk request <subcommand>   Show, create, or submit a request
  tripdesk approve ID [--note T]  Approve a pending request (managers)
  tripdesk reject ID [--note T]   Reject a pending request (managers)
  tripdesk book ID [flags]        Record a booking (travel admins)
  tripdesk drafts [subcommand]    Manage local request drafts
  tripdesk sync                   Refresh the local lookup cache
  tripdesk lookups [subcommand]   Read the local lookup cache
  tripdesk policy                 Show the company travel policy
  tripdesk lock [subcommand]      TOTP app lock for stored credentials
  tripdesk config [subcommand]    Configuration
  tripdesk doctor                 Environment diagnostics
  tripdesk version                Show version information
  tripdesk help                   Show this help

Request Listing:
  tripdesk requests                       List requests visible to your role
    --status S                            Filter: pending|approved|rejected|booked|cancelled
    --search TERM                         Match TERM anywhere in a request
    --sort KEY                            Sort by column key (id, destination, ...)
    --desc                                Sort descending
    --page N                              Page number (default: 1)
    --page-size N                         Rows per page (default: from config)
    --export FILE                         Write the full filtered set as CSV
    --json                                Machine-readable output

Single Requests:
  tripdesk request show ID                Full request detail
  tripdesk request new                    Interactive wizard; saves a draft on abort
  tripdesk request submit [--draft ID]    Submit a saved draft (default: newest)

Decisions and Booking:
  tripdesk approve 42 --note "ok"         Approve request 42
  tripdesk reject 42 --note "too costly"  Reject request 42
  tripdesk book 42 --ticket TK-1 --cost 815.50
                                          Record the booking for request 42

Local Drafts:
  tripdesk drafts                         List saved drafts (newest first)
  tripdesk drafts show <id|N>             Show a draft by ID or list index
  tripdesk drafts delete <id> [--confirm] Delete one draft
  tripdesk drafts clear [--confirm]       Delete every draft

Lookup Cache:
  tripdesk sync                           Pull departments/projects/users into SQLite
  tripdesk lookups                        Cache summary (counts, last sync)
  tripdesk lookups departments            List cached departments
  tripdesk lookups projects               List cached projects
  tripdesk lookups users                  List cached users

App Lock (TOTP):
  tripdesk lock enable                    Enroll and require a 6-digit code
  tripdesk lock disable                   Remove the app lock
  tripdesk lock status                    Show lock state

Configuration:
  tripdesk config show                    Show effective configuration
  tripdesk config get KEY                 Read one key (dot notation: api.base_url)
  tripdesk config set KEY VALUE           Write one key
  tripdesk config list                    List all keys and values
  tripdesk config path                    Print the config file path

Global Flags:
  --json          Structured JSON output (scripting, CI)
  --api URL       Override the configured backend base URL
  -q, --quiet     Suppress non-essential output
  --verbose       More detail where available

Environment:
  TRIPDESK_API_BASE_URL   Backend base URL
  TRIPDESK_SESSION_TIMEOUT_MINUTES
                          Idle session timeout for the TUI
  NO_COLOR                Disable colored output (https://no-color.org/)

Exit Codes:
  0  success        3  configuration error   6  permission denied
  1  general error  4  authentication error  7  not found
  2  usage error    5  network error         8  timeout

Examples:
  tripdesk login --email dana@example.com
  tripdesk requests --status pending --sort departureDate
  tripdesk requests --search chicago --export trips.csv
  tripdesk request show 42 --json
  tripdesk approve 42 --note "within budget"
  tripdesk sync && tripdesk lookups projects
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Print(usageText)
}

// Parse parses command-line arguments and returns the command to execute.
// The first non-flag argument selects the command; global flags may appear
// anywhere. With no arguments the TUI starts.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list (without the program name).
// Split out from Parse for testability.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui", "dashboard":
		return CmdTUI, parsedArgs

	case "login":
		parseLoginArgs(&parsedArgs, remaining)
		return CmdLogin, parsedArgs

	case "logout":
		return CmdLogout, parsedArgs

	case "whoami", "me":
		return CmdWhoami, parsedArgs

	case "requests", "list", "ls":
		parseRequestsArgs(&parsedArgs, remaining)
		return CmdRequests, parsedArgs

	case "request", "req":
		parseRequestArgs(&parsedArgs, remaining)
		return CmdRequest, parsedArgs

	case "approve":
		parseDecisionArgs(&parsedArgs, remaining)
		return CmdApprove, parsedArgs

	case "reject", "deny":
		parseDecisionArgs(&parsedArgs, remaining)
		return CmdReject, parsedArgs

	case "book":
		parseBookArgs(&parsedArgs, remaining)
		return CmdBook, parsedArgs

	case "drafts", "draft":
		// Argument parsing is done in drafts_cmd.go HandleDrafts
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdDrafts, parsedArgs

	case "sync", "refresh":
		return CmdSync, parsedArgs

	case "lookups", "lookup":
		// Argument parsing is done in sync_cmd.go HandleLookups
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdLookups, parsedArgs

	case "policy":
		return CmdPolicy, parsedArgs

	case "lock":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdLock, parsedArgs

	case "config", "cfg":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "doctor":
		return CmdDoctor, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command: keep it in Raw so HandleUnknown can suggest
		// a correction.
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{
		Options: make(map[string]string),
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--api":
			if i+1 < len(args) {
				i++
				parsedArgs.BaseURL = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--api=") {
				parsedArgs.BaseURL = strings.TrimPrefix(arg, "--api=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseLoginArgs parses login command specific arguments.
func parseLoginArgs(args *Args, remaining []string) {
	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-e", "--email", "--user":
			if i+1 < len(remaining) {
				i++
				args.Email = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--email=") {
				args.Email = strings.TrimPrefix(arg, "--email=")
			}
		}
		i++
	}
}

// parseRequestsArgs parses requests command specific arguments.
func parseRequestsArgs(args *Args, remaining []string) {
	args.Page = 1

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-s", "--status":
			if i+1 < len(remaining) {
				i++
				args.Status = remaining[i]
			}
		case "--search":
			if i+1 < len(remaining) {
				i++
				args.SearchTerm = remaining[i]
			}
		case "--sort":
			if i+1 < len(remaining) {
				i++
				args.SortKey = remaining[i]
			}
		case "--desc", "--descending":
			args.SortDesc = true
		case "--page":
			if i+1 < len(remaining) {
				i++
				if n, err := strconv.Atoi(remaining[i]); err == nil && n > 0 {
					args.Page = n
				}
			}
		case "--page-size":
			if i+1 < len(remaining) {
				i++
				if n, err := strconv.Atoi(remaining[i]); err == nil && n > 0 {
					args.PageSize = n
				}
			}
		case "-o", "--export", "--output":
			if i+1 < len(remaining) {
				i++
				args.ExportPath = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--status="):
				args.Status = strings.TrimPrefix(arg, "--status=")
			case strings.HasPrefix(arg, "--search="):
				args.SearchTerm = strings.TrimPrefix(arg, "--search=")
			case strings.HasPrefix(arg, "--sort="):
				args.SortKey = strings.TrimPrefix(arg, "--sort=")
			case strings.HasPrefix(arg, "--page="):
				if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--page=")); err == nil && n > 0 {
					args.Page = n
				}
			case strings.HasPrefix(arg, "--page-size="):
				if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--page-size=")); err == nil && n > 0 {
					args.PageSize = n
				}
			case strings.HasPrefix(arg, "--export="):
				args.ExportPath = strings.TrimPrefix(arg, "--export=")
			}
		}
		i++
	}
}

// parseRequestArgs parses request command specific arguments.
// "request 42" is shorthand for "request show 42".
func parseRequestArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		return
	}

	first := remaining[0]
	if id, err := strconv.Atoi(first); err == nil {
		args.Subcommand = "show"
		args.RequestID = id
		remaining = remaining[1:]
	} else {
		args.Subcommand = strings.ToLower(first)
		remaining = remaining[1:]
	}

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "--draft", "-d":
			if i+1 < len(remaining) {
				i++
				args.DraftID = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--draft=") {
				args.DraftID = strings.TrimPrefix(arg, "--draft=")
			} else if id, err := strconv.Atoi(arg); err == nil && args.RequestID == 0 {
				args.RequestID = id
			}
		}
		i++
	}
}

// parseDecisionArgs parses approve/reject command arguments.
func parseDecisionArgs(args *Args, remaining []string) {
	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-n", "--note", "--comment":
			if i+1 < len(remaining) {
				i++
				args.Note = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--note=") {
				args.Note = strings.TrimPrefix(arg, "--note=")
			} else if id, err := strconv.Atoi(arg); err == nil && args.RequestID == 0 {
				args.RequestID = id
			}
		}
		i++
	}
}

// parseBookArgs parses book command arguments.
func parseBookArgs(args *Args, remaining []string) {
	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-t", "--ticket":
			if i+1 < len(remaining) {
				i++
				args.TicketRef = remaining[i]
			}
		case "-c", "--cost":
			if i+1 < len(remaining) {
				i++
				args.CostStr = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--ticket=") {
				args.TicketRef = strings.TrimPrefix(arg, "--ticket=")
			} else if strings.HasPrefix(arg, "--cost=") {
				args.CostStr = strings.TrimPrefix(arg, "--cost=")
			} else if id, err := strconv.Atoi(arg); err == nil && args.RequestID == 0 {
				args.RequestID = id
			}
		}
		i++
	}
}

// parseConfigArgs parses config command arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "show"
		return
	}

	args.Subcommand = strings.ToLower(remaining[0])
	remaining = remaining[1:]

	var positional []string
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
		}
	}

	if len(positional) > 0 {
		args.ConfigKey = positional[0]
	}
	if len(positional) > 1 {
		// "config set ui.theme light" -- everything after the key is the value
		args.ConfigVal = strings.Join(positional[1:], " ")
	}
}

// =============================================================================
// VERSION / HELP / UNKNOWN
// =============================================================================

// HandleVersion prints version information.
func HandleVersion(args Args) error {
	return OutputJSON(args.JSON, "version", func() (interface{}, error) {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}

		if !args.JSON {
			fmt.Printf("tripdesk %s\n", Version)
			if args.Verbose {
				fmt.Printf("  commit:   %s\n", GitCommit)
				fmt.Printf("  built:    %s\n", BuildDate)
				fmt.Printf("  go:       %s\n", data.GoVersion)
				fmt.Printf("  platform: %s\n", data.Platform)
			}
		}
		return data, nil
	})
}

// HandleHelp prints usage information.
func HandleHelp(args Args) error {
	PrintUsage()
	return nil
}

// HandleUnknown reports an unrecognized command, suggesting a correction
// when the input is close to a real one.
func HandleUnknown(args Args) error {
	input := ""
	if len(args.Raw) > 0 {
		input = args.Raw[0]
	}

	reason := "unrecognized command"
	if suggestion := SuggestCommand(input); suggestion != "" {
		reason += fmt.Sprintf("; did you mean %q?", suggestion)
	}
	return NewValidationErrorWithExample("command", input, reason, "tripdesk help")
}
