// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the bubbletea root model for the tripdesk TUI.
//
// One Model owns the routed screens (login, requests table, request
// detail, new-request form, policy viewer) and the chrome shared by all
// of them: header, status bar, toast stack, and the session timeout
// overlay. Screens are plain structs updated by the root; only the root
// talks to the gateway, the session manager, and the notifier, so
// screen code stays free of lifecycle concerns.
package app
