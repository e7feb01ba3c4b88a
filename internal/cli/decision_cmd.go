// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// decision_cmd.go - Manager decisions (approve/reject) and travel-admin
// booking.
package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// APPROVE / REJECT
// =============================================================================

// HandleApprove approves a pending request.
func HandleApprove(args Args) error {
	return handleDecision(args, true)
}

// HandleReject rejects a pending request.
func HandleReject(args Args) error {
	return handleDecision(args, false)
}

func handleDecision(args Args, approve bool) error {
	command := "approve"
	if !approve {
		command = "reject"
	}

	if args.RequestID <= 0 {
		return ErrMissingArgument("request id", fmt.Sprintf("tripdesk %s 42", command))
	}

	gw, store, cfg, err := newClient(&args)
	if err != nil {
		return err
	}
	if err := requireLogin(store); err != nil {
		return err
	}
	if err := unlockAppLock(cfg, store); err != nil {
		return err
	}

	// Client-side role gate for a clear message; the server enforces the
	// real rule and still answers 403 for anything this check misses.
	if !store.CanApprove() {
		return NewPermissionError("deciding requests",
			store.Role().String(), "manager or administrator")
	}

	ctx, cancel := commandContext(cfg)
	defer cancel()

	return OutputJSON(args.JSON, command, func() (interface{}, error) {
		req, err := gw.SubmitDecision(ctx, args.RequestID, approve, args.Note)
		if err != nil {
			return nil, err
		}

		data := DecisionData{
			RequestID: req.ID,
			Status:    req.Status.String(),
			Note:      args.Note,
		}

		if !args.JSON {
			fmt.Println()
			verb := "approved"
			style := SuccessStyle
			if !approve {
				verb = "rejected"
				style = WarningStyle
			}
			fmt.Printf("%s Request #%d %s\n", style.Render("[OK]"), req.ID, verb)
			if args.Note != "" {
				fmt.Println(DimStyle.Render("  Note: " + args.Note))
			}
			if req.UserName != "" {
				fmt.Println(DimStyle.Render(fmt.Sprintf("  %s, %s",
					req.UserName, req.Route())))
			}
			fmt.Println()
		}

		return data, nil
	})
}

// =============================================================================
// BOOK
// =============================================================================

// HandleBook records ticket reference and final cost for an approved
// request. Missing values are prompted for interactively.
func HandleBook(args Args) error {
	if args.RequestID <= 0 {
		return ErrMissingArgument("request id",
			"tripdesk book 42 --ticket TK-1 --cost 815.50")
	}

	gw, store, cfg, err := newClient(&args)
	if err != nil {
		return err
	}
	if err := requireLogin(store); err != nil {
		return err
	}
	if err := unlockAppLock(cfg, store); err != nil {
		return err
	}

	if !store.CanBook() {
		return NewPermissionError("recording bookings",
			store.Role().String(), "traveladmin or administrator")
	}

	ticket := strings.TrimSpace(args.TicketRef)
	if ticket == "" {
		if args.JSON || !CanPrompt() {
			return ErrMissingArgument("ticket",
				"tripdesk book 42 --ticket TK-1 --cost 815.50")
		}
		ticket, err = promptInput("Ticket reference: ")
		if err != nil {
			return WrapError(err, "could not read ticket reference")
		}
		if ticket == "" {
			return NewValidationError("ticket", "", "ticket reference cannot be empty")
		}
	}

	costStr := strings.TrimSpace(args.CostStr)
	if costStr == "" {
		if args.JSON || !CanPrompt() {
			return ErrMissingArgument("cost",
				"tripdesk book 42 --ticket TK-1 --cost 815.50")
		}
		costStr, err = promptInput("Final cost: ")
		if err != nil {
			return WrapError(err, "could not read final cost")
		}
	}

	cost, err := strconv.ParseFloat(costStr, 64)
	if err != nil {
		return ErrInvalidFormat("cost", costStr, "a number like 815.50")
	}
	if cost < 0 {
		return NewValidationError("cost", costStr, "cost cannot be negative")
	}

	ctx, cancel := commandContext(cfg)
	defer cancel()

	return OutputJSON(args.JSON, "book", func() (interface{}, error) {
		req, err := gw.RecordBooking(ctx, args.RequestID, ticket, cost)
		if err != nil {
			return nil, err
		}

		data := BookingData{
			RequestID: req.ID,
			TicketRef: ticket,
			FinalCost: cost,
			Status:    req.Status.String(),
		}

		if !args.JSON {
			fmt.Println()
			fmt.Printf("%s Request #%d booked\n", SuccessStyle.Render("[OK]"), req.ID)
			fmt.Println(DimStyle.Render(fmt.Sprintf("  Ticket %s, final cost %.2f", ticket, cost)))
			fmt.Println()
		}

		return data, nil
	})
}
