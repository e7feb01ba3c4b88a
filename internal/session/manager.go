// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides idle-timeout session management for the
// tripdesk client: a small state machine that warns before expiry and
// forces logout side effects through registered observers.
package session

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tripdesk-tui/internal/util"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// State is the lifecycle position of the session.
type State int

const (
	// StateInactive means no session is running (before Start, after Stop).
	StateInactive State = iota
	// StateActive means timers are armed and the user is within the idle budget.
	StateActive
	// StateWarning means the warning threshold was crossed; timers still run.
	StateWarning
	// StateExpired means the idle timeout elapsed and timeout observers fired.
	StateExpired
)

// String returns the display string for the state.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "Inactive"
	case StateActive:
		return "Active"
	case StateWarning:
		return "Warning"
	case StateExpired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager tracks user activity and expires idle sessions. Transitions:
// Start moves Inactive to Active; crossing timeout-warning idle moves
// Active to Warning; reaching the timeout moves Warning to Expired;
// RecordActivity moves any state back to Active and re-arms the timers.
//
// The manager never touches stored credentials itself. Logout side
// effects (clearing the token store, navigating to login) belong to
// timeout observers the application wires in.
type Manager struct {
	mu sync.Mutex

	// Session tracking
	state        State
	sessionID    string
	startTime    time.Time
	lastActivity time.Time

	// Timeout configuration
	timeout       time.Duration
	warningBefore time.Duration

	// Armed timers. gen invalidates in-flight fires from a superseded
	// arming, so rapid RecordActivity calls leave exactly one live pair.
	gen          uint64
	warningTimer *time.Timer
	expiryTimer  *time.Timer

	// Observer registries; ids hand out disposers.
	nextObserverID   int
	warningObservers map[int]func(remaining time.Duration)
	timeoutObservers map[int]func()

	// UI notification flags: HandleTick emits each transition message once
	// per idle period.
	warnNotified   bool
	expireNotified bool

	// Auto-save of in-progress edits (draft persistence)
	autoSaveEnabled  bool
	autoSaveInterval time.Duration
	lastAutoSave     time.Time
	isDirty          bool
	onAutoSave       func() error
	autoSaveStop     chan struct{}
}

// Config holds configuration for the session manager.
type Config struct {
	// Timeout is the idle duration after which the session expires.
	Timeout time.Duration

	// WarningBefore is how long before expiry the warning fires.
	WarningBefore time.Duration

	// AutoSaveEnabled enables periodic saving of dirty draft state.
	AutoSaveEnabled bool

	// AutoSaveInterval is how often dirty state is saved.
	AutoSaveInterval time.Duration
}

// DefaultConfig returns the default session configuration: a 30 minute
// idle timeout with a warning 5 minutes before expiry.
func DefaultConfig() Config {
	return Config{
		Timeout:          30 * time.Minute,
		WarningBefore:    5 * time.Minute,
		AutoSaveEnabled:  true,
		AutoSaveInterval: 30 * time.Second,
	}
}

// NewManager creates a session manager in the Inactive state. Call Start
// after login to arm the timers.
func NewManager(cfg Config) *Manager {
	now := time.Now()
	return &Manager{
		state:            StateInactive,
		sessionID:        generateSessionID(),
		startTime:        now,
		lastActivity:     now,
		timeout:          cfg.Timeout,
		warningBefore:    cfg.WarningBefore,
		warningObservers: make(map[int]func(time.Duration)),
		timeoutObservers: make(map[int]func()),
		autoSaveEnabled:  cfg.AutoSaveEnabled,
		autoSaveInterval: cfg.AutoSaveInterval,
		lastAutoSave:     now,
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Start begins the session: Inactive moves to Active, both timers arm,
// and the auto-save loop starts. Starting an already started manager is
// a no-op.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.state != StateInactive {
		m.mu.Unlock()
		return
	}
	now := time.Now()
	m.state = StateActive
	m.sessionID = generateSessionID()
	m.startTime = now
	m.lastActivity = now
	m.lastAutoSave = now
	m.warnNotified = false
	m.expireNotified = false
	m.armTimersLocked()
	stop := make(chan struct{})
	m.autoSaveStop = stop
	m.mu.Unlock()

	go m.autoSaveLoop(stop)
}

// Stop ends the session: all pending timers are cancelled unconditionally
// and the manager returns to Inactive. Stopping twice is a no-op. Stop
// does not clear stored credentials; an explicit logout action owns that.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.state == StateInactive {
		m.mu.Unlock()
		return
	}
	m.state = StateInactive
	m.disarmTimersLocked()
	stop := m.autoSaveStop
	m.autoSaveStop = nil
	m.mu.Unlock()

	if stop != nil {
		close(stop)
	}
}

// Running reports whether the manager is between Start and Stop.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != StateInactive
}

// =============================================================================
// SESSION STATE QUERIES
// =============================================================================

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SessionID returns the current session ID.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// StartTime returns when the session started.
func (m *Manager) StartTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startTime
}

// Duration returns how long the session has been active.
func (m *Manager) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.startTime)
}

// IdleTime returns how long since last activity.
func (m *Manager) IdleTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastActivity)
}

// RemainingTime returns time until session timeout.
func (m *Manager) RemainingTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	remaining := m.timeout - time.Since(m.lastActivity)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired returns true if the session has timed out.
func (m *Manager) IsExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateExpired
}

// InWarning returns true while the warning threshold is crossed.
func (m *Manager) InWarning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateWarning
}

// =============================================================================
// ACTIVITY TRACKING
// =============================================================================

// RecordActivity resets the idle clock. From any state, Expired included,
// the manager returns to Active and both timers re-arm; outstanding
// timers are cancelled first, so calling this in rapid succession leaves
// exactly one live timer pair and fires no duplicate callbacks.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = time.Now()
	m.warnNotified = false
	m.expireNotified = false
	m.state = StateActive
	m.armTimersLocked()
}

// MarkDirty indicates the session has unsaved draft changes.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = true
}

// MarkClean indicates draft changes have been saved.
func (m *Manager) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = false
	m.lastAutoSave = time.Now()
}

// IsDirty returns whether the session has unsaved draft changes.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isDirty
}

// =============================================================================
// OBSERVERS
// =============================================================================

// OnWarning registers fn to run when the warning threshold is crossed,
// with the remaining time until expiry. The returned disposer removes the
// observer; multiple observers are independent.
func (m *Manager) OnWarning(fn func(remaining time.Duration)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextObserverID
	m.nextObserverID++
	m.warningObservers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.warningObservers, id)
	}
}

// OnTimeout registers fn to run when the session expires. The returned
// disposer removes the observer.
func (m *Manager) OnTimeout(fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextObserverID
	m.nextObserverID++
	m.timeoutObservers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.timeoutObservers, id)
	}
}

// SetAutoSaveCallback sets the function called to persist dirty state.
func (m *Manager) SetAutoSaveCallback(fn func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAutoSave = fn
}

// =============================================================================
// TIMER MACHINERY
// =============================================================================

// armTimersLocked cancels any outstanding timers and arms a fresh pair
// relative to lastActivity. Bumping gen makes an already-fired but
// not-yet-run timer function a no-op. Caller holds mu.
func (m *Manager) armTimersLocked() {
	m.gen++
	gen := m.gen
	if m.warningTimer != nil {
		m.warningTimer.Stop()
	}
	if m.expiryTimer != nil {
		m.expiryTimer.Stop()
	}

	idle := time.Since(m.lastActivity)
	warnIn := m.timeout - m.warningBefore - idle
	if warnIn < 0 {
		warnIn = 0
	}
	expireIn := m.timeout - idle
	if expireIn < 0 {
		expireIn = 0
	}
	m.warningTimer = time.AfterFunc(warnIn, func() { m.fireWarning(gen) })
	m.expiryTimer = time.AfterFunc(expireIn, func() { m.fireExpiry(gen) })
}

// disarmTimersLocked cancels both timers and invalidates in-flight fires.
// Caller holds mu.
func (m *Manager) disarmTimersLocked() {
	m.gen++
	if m.warningTimer != nil {
		m.warningTimer.Stop()
		m.warningTimer = nil
	}
	if m.expiryTimer != nil {
		m.expiryTimer.Stop()
		m.expiryTimer = nil
	}
}

// fireWarning transitions Active to Warning and notifies observers.
// Observers run outside the lock.
func (m *Manager) fireWarning(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != StateActive {
		m.mu.Unlock()
		return
	}
	m.state = StateWarning
	remaining := m.timeout - time.Since(m.lastActivity)
	if remaining < 0 {
		remaining = 0
	}
	observers := make([]func(time.Duration), 0, len(m.warningObservers))
	for _, fn := range m.warningObservers {
		observers = append(observers, fn)
	}
	m.mu.Unlock()

	for _, fn := range observers {
		fn(remaining)
	}
}

// fireExpiry transitions to Expired and notifies timeout observers.
// Observers run outside the lock.
func (m *Manager) fireExpiry(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || (m.state != StateActive && m.state != StateWarning) {
		m.mu.Unlock()
		return
	}
	m.state = StateExpired
	if m.warningTimer != nil {
		m.warningTimer.Stop()
	}
	observers := make([]func(), 0, len(m.timeoutObservers))
	for _, fn := range m.timeoutObservers {
		observers = append(observers, fn)
	}
	m.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// =============================================================================
// AUTO-SAVE LOOP
// =============================================================================

// autoSaveLoop persists dirty state once per interval while the session
// runs. A successful save marks the session clean.
func (m *Manager) autoSaveLoop(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			due := m.autoSaveEnabled && m.isDirty &&
				time.Since(m.lastAutoSave) >= m.autoSaveInterval
			fn := m.onAutoSave
			m.mu.Unlock()

			if due && fn != nil {
				if err := fn(); err == nil {
					m.MarkClean()
				}
			}
		}
	}
}

// ShouldAutoSave returns true if an auto-save is due.
func (m *Manager) ShouldAutoSave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.autoSaveEnabled || !m.isDirty {
		return false
	}
	return time.Since(m.lastAutoSave) >= m.autoSaveInterval
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to refresh session-driven UI.
type TickMsg struct {
	Time time.Time
}

// TimeoutWarningMsg indicates the session is about to time out.
type TimeoutWarningMsg struct {
	Remaining time.Duration
}

// TimeoutMsg indicates the session has timed out.
type TimeoutMsg struct{}

// TickCmd returns a command that ticks once per second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick inspects session state and returns the transition messages
// the TUI consumes. Each of warning and timeout is emitted once per idle
// period; observer dispatch is independent and timer-driven.
func (m *Manager) HandleTick() tea.Cmd {
	var cmds []tea.Cmd

	m.mu.Lock()
	if m.state == StateWarning && !m.warnNotified {
		m.warnNotified = true
		remaining := m.timeout - time.Since(m.lastActivity)
		if remaining < 0 {
			remaining = 0
		}
		cmds = append(cmds, func() tea.Msg {
			return TimeoutWarningMsg{Remaining: remaining}
		})
	}
	if m.state == StateExpired && !m.expireNotified {
		m.expireNotified = true
		cmds = append(cmds, func() tea.Msg {
			return TimeoutMsg{}
		})
	}
	m.mu.Unlock()

	cmds = append(cmds, TickCmd())
	return tea.Batch(cmds...)
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetTimeout updates the timeout duration. A running session re-arms its
// timers against the new budget immediately.
func (m *Manager) SetTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = d
	if m.state == StateActive || m.state == StateWarning {
		m.armTimersLocked()
	}
}

// SetWarningTime updates how long before expiry the warning fires.
func (m *Manager) SetWarningTime(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warningBefore = d
	if m.state == StateActive || m.state == StateWarning {
		m.armTimersLocked()
	}
}

// SetAutoSaveEnabled enables or disables auto-save.
func (m *Manager) SetAutoSaveEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoSaveEnabled = enabled
}

// SetAutoSaveInterval updates the auto-save interval.
func (m *Manager) SetAutoSaveInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoSaveInterval = d
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateSessionID creates a session ID like "sess_20260118_142233".
func generateSessionID() string {
	return "sess_" + time.Now().Format("20060102_150405")
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status is a snapshot of the session for status displays.
type Status struct {
	SessionID     string
	State         State
	StartTime     time.Time
	Duration      time.Duration
	IdleTime      time.Duration
	RemainingTime time.Duration
	IsDirty       bool
}

// GetStatus returns the current session status.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	idle := now.Sub(m.lastActivity)
	remaining := m.timeout - idle
	if remaining < 0 {
		remaining = 0
	}

	return Status{
		SessionID:     m.sessionID,
		State:         m.state,
		StartTime:     m.startTime,
		Duration:      now.Sub(m.startTime),
		IdleTime:      idle,
		RemainingTime: remaining,
		IsDirty:       m.isDirty,
	}
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		return util.IntToString(secs) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return util.IntToString(mins) + "m"
	}
	return util.IntToString(mins) + "m " + util.IntToString(secs) + "s"
}
