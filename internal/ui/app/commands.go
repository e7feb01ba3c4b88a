// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go - Async gateway calls as tea.Cmd values plus the messages
// they resolve to. All network work happens here; screens only consume
// the results.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tripdesk-tui/internal/api"
	"github.com/jeranaias/tripdesk-tui/internal/model"
	"github.com/jeranaias/tripdesk-tui/internal/notify"
	"github.com/jeranaias/tripdesk-tui/internal/table"
)

// requestTimeout bounds a single TUI-initiated gateway call. Slightly
// generous compared to the CLI because the user can keep working while
// a fetch spins.
const requestTimeout = 30 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// loginDoneMsg resolves a successful login.
type loginDoneMsg struct {
	User *model.User
}

// requestsLoadedMsg carries a fresh role-scoped request listing.
type requestsLoadedMsg struct {
	Requests []model.TravelRequest
}

// requestLoadedMsg carries one request's detail.
type requestLoadedMsg struct {
	Request *model.TravelRequest
}

// actionDoneMsg resolves a mutation (create, decision, booking). The
// updated request rides along so the detail screen can refresh in place.
type actionDoneMsg struct {
	Label   string
	Request *model.TravelRequest
}

// policyLoadedMsg carries the policy document, server or bundled.
type policyLoadedMsg struct {
	Doc *api.PolicyDoc
}

// exportDoneMsg resolves a CSV export with the written path.
type exportDoneMsg struct {
	Path string
	Rows int
}

// apiFailureMsg is any gateway call that did not resolve. Op names the
// attempt for the toast; the error is the normalized *api.APIError.
type apiFailureMsg struct {
	Op  string
	Err error
}

// pollerEventMsg wraps one notifier event for the toast stack.
type pollerEventMsg struct {
	Event notify.Event
}

// pollerClosedMsg indicates the notifier channel drained after Stop.
type pollerClosedMsg struct{}

// =============================================================================
// COMMANDS
// =============================================================================

func loginCmd(gw *api.Gateway, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		user, err := gw.Login(ctx, email, password)
		if err != nil {
			return apiFailureMsg{Op: "login", Err: err}
		}
		return loginDoneMsg{User: user}
	}
}

// fetchRequestsCmd fetches the listing through the given role-scoped
// fetcher (the same one the notifier polls with).
func fetchRequestsCmd(fetch notify.Fetcher) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		reqs, err := fetch(ctx)
		if err != nil {
			return apiFailureMsg{Op: "load requests", Err: err}
		}
		return requestsLoadedMsg{Requests: reqs}
	}
}

func fetchRequestCmd(gw *api.Gateway, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		req, err := gw.Request(ctx, id)
		if err != nil {
			return apiFailureMsg{Op: fmt.Sprintf("load request #%d", id), Err: err}
		}
		return requestLoadedMsg{Request: req}
	}
}

func createRequestCmd(gw *api.Gateway, input model.NewRequestInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		req, err := gw.CreateRequest(ctx, input)
		if err != nil {
			return apiFailureMsg{Op: "submit request", Err: err}
		}
		return actionDoneMsg{Label: "Request submitted", Request: req}
	}
}

func decisionCmd(gw *api.Gateway, id int, approve bool, note string) tea.Cmd {
	label := "Request rejected"
	if approve {
		label = "Request approved"
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		req, err := gw.SubmitDecision(ctx, id, approve, note)
		if err != nil {
			return apiFailureMsg{Op: "submit decision", Err: err}
		}
		return actionDoneMsg{Label: label, Request: req}
	}
}

func bookingCmd(gw *api.Gateway, id int, ticketRef string, finalCost float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		req, err := gw.RecordBooking(ctx, id, ticketRef, finalCost)
		if err != nil {
			return apiFailureMsg{Op: "record booking", Err: err}
		}
		return actionDoneMsg{Label: "Booking recorded", Request: req}
	}
}

// fetchPolicyCmd fetches the policy; unreachable backends fall back to
// the bundled document so the screen always has content.
func fetchPolicyCmd(gw *api.Gateway) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		doc, err := gw.Policy(ctx)
		if err != nil {
			if errors.Is(err, api.ErrNetwork) || errors.Is(err, api.ErrServer) {
				return policyLoadedMsg{Doc: nil}
			}
			return apiFailureMsg{Op: "load policy", Err: err}
		}
		return policyLoadedMsg{Doc: doc}
	}
}

// exportCmd writes the engine's current filtered/sorted view to a
// timestamped CSV in the working directory.
func exportCmd(engine *table.Engine) tea.Cmd {
	return func() tea.Msg {
		name := fmt.Sprintf("tripdesk_requests_%s.csv", time.Now().Format("2006-01-02_150405"))
		path, err := filepath.Abs(name)
		if err != nil {
			path = name
		}

		f, err := os.Create(path)
		if err != nil {
			return apiFailureMsg{Op: "export", Err: err}
		}
		defer f.Close()

		if err := engine.ExportCSV(f); err != nil {
			return apiFailureMsg{Op: "export", Err: err}
		}
		return exportDoneMsg{Path: path, Rows: len(engine.Filtered())}
	}
}

// listenPollerCmd blocks on the notifier channel and re-arms itself
// after every event, the bubbletea idiom for consuming a channel.
func listenPollerCmd(p *notify.Poller) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-p.Events()
		if !ok {
			return pollerClosedMsg{}
		}
		return pollerEventMsg{Event: event}
	}
}
