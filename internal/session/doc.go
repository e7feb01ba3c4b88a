// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks user activity and expires idle sessions.
//
// A Manager runs the Inactive -> Active -> Warning -> Expired machine on
// timer pairs that re-arm on every recorded activity. Observers register
// for the warning and timeout transitions and get a disposer back; the
// bubbletea integration surfaces the same transitions as messages.
//
// # Key Types
//
//   - Manager: the idle-timeout state machine
//   - TimeoutWarningMsg: bubbletea message, fired once per idle period
//   - TimeoutMsg: bubbletea message for forced logout
//
// # Usage
//
//	mgr := session.NewManager(session.DefaultConfig())
//	mgr.Start()
//	defer mgr.Stop()
//
//	undo := mgr.OnTimeout(func() { /* clear credentials, navigate */ })
//	defer undo()
//
//	mgr.RecordActivity() // on every key press and API response
//
// Calling RecordActivity in rapid succession is safe: timers are
// disarmed before re-arming, so exactly one pair is ever live.
package session
