// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// lock_cmd.go - TOTP app lock management (enable, disable, status).
package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/tripdesk-tui/internal/auth"
	"github.com/jeranaias/tripdesk-tui/internal/config"
)

// HandleLock routes the lock subcommands.
func HandleLock(args Args) error {
	switch args.Subcommand {
	case "", "status":
		return handleLockStatus(args)
	case "enable", "on":
		return handleLockEnable(args)
	case "disable", "off":
		return handleLockDisable(args)
	default:
		return ErrUnsupportedValue("subcommand", args.Subcommand,
			[]string{"enable", "disable", "status"})
	}
}

// =============================================================================
// STATUS
// =============================================================================

func handleLockStatus(args Args) error {
	_, store, cfg, err := newClient(&args)
	if err != nil {
		return err
	}

	lock := auth.NewAppLock(store)

	return OutputJSON(args.JSON, "lock status", func() (interface{}, error) {
		enrolled := lock.Enabled()
		cooldown := lock.CooldownRemaining()

		data := map[string]interface{}{
			"enabled":  cfg.Lock.Enabled && enrolled,
			"enrolled": enrolled,
			"config":   cfg.Lock.Enabled,
		}
		if cooldown > 0 {
			data["cooldown_remaining"] = cooldown.String()
		}

		if !args.JSON {
			fmt.Println()
			fmt.Println(TitleStyle.Render("App Lock"))
			fmt.Println()
			switch {
			case enrolled && cfg.Lock.Enabled:
				fmt.Println(RenderLabel("Status", SuccessStyle.Render("enabled")))
			case enrolled && !cfg.Lock.Enabled:
				fmt.Println(RenderLabel("Status", WarningStyle.Render("enrolled but disabled in config")))
				fmt.Println(DimStyle.Render("  Enable with: tripdesk config set lock.enabled true"))
			default:
				fmt.Println(RenderLabel("Status", DimStyle.Render("not enabled")))
				fmt.Println(DimStyle.Render("  Set it up with: tripdesk lock enable"))
			}
			if cooldown > 0 {
				fmt.Println(RenderLabel("Cooldown", WarningStyle.Render(
					fmt.Sprintf("locked for %s after failed attempts", formatDurationShort(cooldown)))))
			}
			fmt.Println()
		}

		return data, nil
	})
}

// =============================================================================
// ENABLE
// =============================================================================

func handleLockEnable(args Args) error {
	if args.JSON {
		return NewValidationError("lock enable", "",
			"enrollment is interactive; JSON mode is not supported")
	}
	if err := RequiresTTY("app lock enrollment", ""); err != nil {
		return err
	}

	_, store, _, err := newClient(&args)
	if err != nil {
		return err
	}

	lock := auth.NewAppLock(store)

	if lock.Enabled() {
		parser := NewArgParser(args.Raw)
		if err := RequireConfirmation(
			"Replace the existing app lock enrollment (old codes stop working)",
			ConfirmationOptions{ConfirmFlag: parser.BoolFlag("confirm")},
		); err != nil {
			return err
		}
	}

	account := "tripdesk"
	if user, uerr := store.User(); uerr == nil && user.Email != "" {
		account = user.Email
	}

	enr, err := lock.Enroll(account)
	if err != nil {
		return WrapError(err, "could not enroll app lock")
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("App Lock Enrollment"))
	fmt.Println()
	fmt.Println("Add this account to your authenticator app (scan or enter manually):")
	fmt.Println()
	fmt.Println("  " + AccentStyle.Render(enr.URL))
	fmt.Println()
	fmt.Println(RenderLabel("Secret", enr.Secret))
	fmt.Println()

	// One correct code proves the authenticator is set up before the
	// lock starts gating commands.
	verified := false
	for attempt := 1; attempt <= maxUnlockPrompts; attempt++ {
		code, err := promptInput("Enter a code from your app to confirm: ")
		if err != nil {
			break
		}
		ok, verr := lock.Verify(strings.TrimSpace(code))
		if verr != nil {
			fmt.Println(ErrorStyle.Render("  " + verr.Error()))
			break
		}
		if ok {
			verified = true
			break
		}
		if attempt < maxUnlockPrompts {
			fmt.Println(WarningStyle.Render("  Incorrect code, try again."))
		}
	}

	if !verified {
		// Roll the enrollment back rather than locking the user out with
		// a secret they never captured.
		lock.Disable()
		return fmt.Errorf("enrollment not confirmed: app lock remains off")
	}

	live := config.Global()
	live.Lock.Enabled = true
	if err := config.Save(live); err != nil {
		return WrapError(err, "enrolled, but could not update the config file")
	}

	fmt.Println()
	fmt.Printf("%s App lock enabled\n", SuccessStyle.Render("[OK]"))
	fmt.Println(DimStyle.Render("  Commands that use your session will ask for a code."))
	fmt.Println()
	return nil
}

// =============================================================================
// DISABLE
// =============================================================================

func handleLockDisable(args Args) error {
	if args.JSON {
		return NewValidationError("lock disable", "",
			"disabling requires an interactive code check; JSON mode is not supported")
	}

	_, store, _, err := newClient(&args)
	if err != nil {
		return err
	}

	lock := auth.NewAppLock(store)

	if !lock.Enabled() {
		fmt.Println(DimStyle.Render("App lock is not enabled, nothing to do."))
		return nil
	}

	if remaining := lock.CooldownRemaining(); remaining > 0 {
		return fmt.Errorf("app lock is cooling down after failed attempts: retry in %s",
			formatDurationShort(remaining))
	}

	if err := RequiresTTY("app lock verification", ""); err != nil {
		return err
	}

	// SECURITY: Disabling requires a current code so a walk-up cannot
	// simply switch the lock off.
	verified := false
	for attempt := 1; attempt <= maxUnlockPrompts; attempt++ {
		code, err := promptInput("Enter a code to disable the lock: ")
		if err != nil {
			break
		}
		ok, verr := lock.Verify(strings.TrimSpace(code))
		if verr != nil {
			return verr
		}
		if ok {
			verified = true
			break
		}
		if attempt < maxUnlockPrompts {
			fmt.Println(WarningStyle.Render("  Incorrect code, try again."))
		}
	}
	if !verified {
		return fmt.Errorf("app lock verification failed after %d attempts", maxUnlockPrompts)
	}

	if err := lock.Disable(); err != nil {
		return WrapError(err, "could not remove app lock state")
	}

	live := config.Global()
	live.Lock.Enabled = false
	if err := config.Save(live); err != nil {
		return WrapError(err, "lock removed, but could not update the config file")
	}

	fmt.Println()
	fmt.Printf("%s App lock disabled\n", SuccessStyle.Render("[OK]"))
	fmt.Println()
	return nil
}
