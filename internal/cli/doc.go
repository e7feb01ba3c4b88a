// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for tripdesk.
//
// This package implements all CLI commands for the tripdesk TUI application,
// covering the full travel-request workflow: authentication, browsing and
// filtering requests, the new-request wizard, approval decisions, booking,
// reference-data sync, and local draft management.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//   - JSONResponse: Envelope for machine-readable output
//
// # Usage
//
// Parse and execute commands:
//
//	args := cli.ParseArgs(os.Args[1:])
//	switch args.Cmd {
//	case cli.CmdLogin:
//	    return cli.HandleLogin(args)
//	case cli.CmdRequests:
//	    return cli.HandleRequests(args)
//	// ... other commands
//	}
//
// # Commands Overview
//
// Core Commands:
//   - requests: List, filter, sort, and export travel requests
//   - request: Show a request, or create one through the wizard
//   - approve/reject: Decide pending requests (managers)
//   - book: Record booking details (travel admins)
//   - drafts: Manage locally saved request drafts
//
// Supporting Commands:
//   - login/logout/whoami: Session management
//   - sync/lookups: Reference data cache
//   - lock: Optional TOTP app lock
//   - policy: Travel policy viewer
//   - config: Configuration management
//   - doctor: Environment diagnostics
//
// All commands support --json flag for scripting.
package cli
