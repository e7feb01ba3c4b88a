// tripdesk - a terminal client for the travel-request management backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tripdesk-tui/internal/api"
	"github.com/jeranaias/tripdesk-tui/internal/auth"
	"github.com/jeranaias/tripdesk-tui/internal/cli"
	"github.com/jeranaias/tripdesk-tui/internal/config"
	"github.com/jeranaias/tripdesk-tui/internal/session"
	"github.com/jeranaias/tripdesk-tui/internal/storage"
	"github.com/jeranaias/tripdesk-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdLogin:
		exitOnError(cli.HandleLogin(args), args)
	case cli.CmdLogout:
		exitOnError(cli.HandleLogout(args), args)
	case cli.CmdWhoami:
		exitOnError(cli.HandleWhoami(args), args)
	case cli.CmdRequests:
		exitOnError(cli.HandleRequests(args), args)
	case cli.CmdRequest:
		exitOnError(cli.HandleRequest(args), args)
	case cli.CmdApprove:
		exitOnError(cli.HandleApprove(args), args)
	case cli.CmdReject:
		exitOnError(cli.HandleReject(args), args)
	case cli.CmdBook:
		exitOnError(cli.HandleBook(args), args)
	case cli.CmdDrafts:
		exitOnError(cli.HandleDrafts(args), args)
	case cli.CmdSync:
		exitOnError(cli.HandleSync(args), args)
	case cli.CmdLookups:
		exitOnError(cli.HandleLookups(args), args)
	case cli.CmdPolicy:
		exitOnError(cli.HandlePolicy(args), args)
	case cli.CmdLock:
		exitOnError(cli.HandleLock(args), args)
	case cli.CmdConfig:
		exitOnError(cli.HandleConfig(args), args)
	case cli.CmdDoctor:
		exitOnError(cli.HandleDoctor(args), args)
	case cli.CmdVersion:
		exitOnError(cli.HandleVersion(args), args)
	case cli.CmdHelp:
		exitOnError(cli.HandleHelp(args), args)
	default:
		exitOnError(cli.HandleUnknown(args), args)
	}
}

// exitOnError renders a command error in the CLI's error model and
// exits with its mapped code.
func exitOnError(err error, args cli.Args) {
	if err == nil {
		return
	}
	cli.HandleErrorAndExit(err, args.JSON)
}

// runTUI wires the long-lived collaborators and hands them to the root
// bubbletea model.
func runTUI(args cli.Args) {
	cfg := config.Global().Clone()
	if args.BaseURL != "" {
		cfg.API.BaseURL = args.BaseURL
	}

	dataDir, err := cfg.Storage.DataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not resolve data directory: %v\n", err)
		os.Exit(1)
	}

	store := auth.NewStore(dataDir)

	sessionMgr := session.NewManager(session.Config{
		Timeout:          cfg.Session.Timeout(),
		WarningBefore:    cfg.Session.Warning(),
		AutoSaveEnabled:  cfg.Session.AutosaveEnabled,
		AutoSaveInterval: cfg.Session.AutosaveInterval(),
	})

	// Successful responses feed the idle timers; a 401 stops them (the
	// root model notices cleared credentials and lands on sign-in).
	gateway := api.NewGateway(cfg.API.BaseURL, store).
		WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.RequestBurst).
		WithActivityFunc(sessionMgr.RecordActivity).
		WithSessionExpiredFunc(sessionMgr.Stop)

	drafts, err := storage.NewDraftStoreWithDir(filepath.Join(dataDir, "drafts"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open draft store: %v\n", err)
		os.Exit(1)
	}
	drafts.MaxDrafts = cfg.Storage.MaxDrafts

	root := app.New(app.Deps{
		Config:  cfg,
		Gateway: gateway,
		Store:   store,
		Session: sessionMgr,
		Drafts:  drafts,
	})

	p := tea.NewProgram(
		root,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
