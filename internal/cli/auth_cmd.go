// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, logout, and whoami commands.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/tripdesk-tui/internal/auth"
)

// =============================================================================
// LOGIN
// =============================================================================

// HandleLogin authenticates against the backend and stores the session
// token locally. The app lock gates login because a successful login
// replaces the stored credentials.
func HandleLogin(args Args) error {
	gw, store, cfg, err := newClient(&args)
	if err != nil {
		return err
	}

	if err := unlockAppLock(cfg, store); err != nil {
		return err
	}

	email := strings.TrimSpace(args.Email)
	if email == "" {
		if args.JSON || !CanPrompt() {
			return ErrMissingArgument("email", "tripdesk login --email dana@example.com")
		}
		email, err = promptInput("Email: ")
		if err != nil {
			return WrapError(err, "could not read email")
		}
		email = strings.TrimSpace(email)
		if email == "" {
			return NewValidationError("email", "", "email cannot be empty")
		}
	}

	// SECURITY: Password comes from the terminal (or piped stdin for
	// scripting), never from argv where it would land in shell history
	// and the process table.
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return NewValidationError("password", "", "password cannot be empty")
	}

	ctx, cancel := commandContext(cfg)
	defer cancel()

	return OutputJSON(args.JSON, "login", func() (interface{}, error) {
		user, err := gw.Login(ctx, email, password)
		if err != nil {
			return nil, err
		}

		data := LoginData{
			Email:  user.Email,
			Name:   user.DisplayName(),
			Role:   user.Role.String(),
			UserID: user.ID,
		}

		if !args.JSON {
			fmt.Println()
			fmt.Printf("%s Logged in as %s (%s)\n",
				SuccessStyle.Render("[OK]"),
				user.DisplayName(),
				user.Role.String())

			if !args.Quiet {
				if expiry, err := store.TokenExpiry(); err == nil && !expiry.IsZero() {
					fmt.Println(DimStyle.Render(fmt.Sprintf("  Session valid until %s",
						formatTimestamp(expiry))))
				}
			}
			fmt.Println()
		}

		return data, nil
	})
}

// =============================================================================
// LOGOUT
// =============================================================================

// HandleLogout discards the stored session. Deliberately not gated by
// the app lock: destroying a session should never require unlocking it.
func HandleLogout(args Args) error {
	gw, store, _, err := newClient(&args)
	if err != nil {
		return err
	}

	return OutputJSON(args.JSON, "logout", func() (interface{}, error) {
		wasLoggedIn := store.LoggedIn()
		name := store.DisplayName()

		if err := gw.Logout(); err != nil {
			return nil, err
		}

		data := map[string]interface{}{
			"was_logged_in": wasLoggedIn,
		}

		if !args.JSON {
			fmt.Println()
			if wasLoggedIn {
				if name != "" {
					fmt.Printf("%s Logged out %s\n", SuccessStyle.Render("[OK]"), name)
				} else {
					fmt.Printf("%s Logged out\n", SuccessStyle.Render("[OK]"))
				}
			} else {
				fmt.Println(DimStyle.Render("Not logged in, nothing to do."))
			}
			fmt.Println()
		}

		return data, nil
	})
}

// =============================================================================
// WHOAMI
// =============================================================================

// HandleWhoami shows the stored identity without network calls. Not
// gated by the app lock: everything shown here sits unencrypted in the
// profile file anyway.
func HandleWhoami(args Args) error {
	_, store, cfg, err := newClient(&args)
	if err != nil {
		return err
	}

	return OutputJSON(args.JSON, "whoami", func() (interface{}, error) {
		if !store.LoggedIn() {
			data := WhoamiData{
				LoggedIn:   false,
				APIBaseURL: cfg.API.BaseURL,
			}
			if !args.JSON {
				fmt.Println()
				fmt.Println(DimStyle.Render("Not logged in. Run 'tripdesk login' to sign in."))
				fmt.Println()
			}
			return data, nil
		}

		user, err := store.User()
		if err != nil && err != auth.ErrNoUser {
			return nil, err
		}

		data := WhoamiData{
			LoggedIn:   true,
			APIBaseURL: cfg.API.BaseURL,
		}
		if user != nil {
			data.Email = user.Email
			data.Name = user.DisplayName()
			data.Role = user.Role.String()
			data.UserID = user.ID
			data.Department = user.DepartmentName
		}

		expiry, expErr := store.TokenExpiry()
		if expErr == nil && !expiry.IsZero() {
			data.TokenExpiry = expiry.UTC().Format(time.RFC3339)
			data.TokenExpired = time.Now().After(expiry)
		}

		if !args.JSON {
			fmt.Println()
			fmt.Println(TitleStyle.Render("Current Session"))
			fmt.Println()
			if user != nil {
				fmt.Println(RenderLabel("Name", user.DisplayName()))
				fmt.Println(RenderLabel("Email", user.Email))
				fmt.Println(RenderLabel("Role", user.Role.String()))
				if user.DepartmentName != "" {
					fmt.Println(RenderLabel("Department", user.DepartmentName))
				}
			}
			fmt.Println(RenderLabel("Server", cfg.API.BaseURL))

			if expErr == nil && !expiry.IsZero() {
				if data.TokenExpired {
					fmt.Println(RenderLabel("Session",
						ErrorStyle.Render("expired "+formatDuration(time.Since(expiry))+" ago")))
				} else {
					fmt.Println(RenderLabel("Session",
						fmt.Sprintf("valid for %s (until %s)",
							formatDuration(time.Until(expiry)),
							formatTimestamp(expiry))))
				}
			}
			fmt.Println()
		}

		return data, nil
	})
}
