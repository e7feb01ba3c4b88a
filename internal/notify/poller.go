// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify watches travel requests for status changes.
//
// The backend has no push channel, so a background poller fetches the
// viewer's requests on an interval and diffs statuses against the last
// poll. Differences become Events consumed by the TUI (toasts) and the
// status bar. The first poll only primes the diff base: restarting the
// client does not replay old transitions as fresh notifications.
package notify

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jeranaias/tripdesk-tui/internal/model"
)

// =============================================================================
// EVENTS
// =============================================================================

// EventKind discriminates what changed.
type EventKind int

const (
	// EventStatusChanged fires when a known request's status moves.
	EventStatusChanged EventKind = iota
	// EventNewRequest fires when a request appears that was not in the
	// previous poll (someone filed one, or one entered the viewer's
	// approval queue).
	EventNewRequest
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventStatusChanged:
		return "status_changed"
	case EventNewRequest:
		return "new_request"
	default:
		return "unknown"
	}
}

// Event is one observed change.
type Event struct {
	Kind      EventKind
	Request   model.TravelRequest
	OldStatus model.RequestStatus
	NewStatus model.RequestStatus
	At        time.Time
}

// =============================================================================
// POLLER
// =============================================================================

const (
	// DefaultInterval is the poll cadence.
	DefaultInterval = 60 * time.Second

	// pollTimeout bounds a single fetch.
	pollTimeout = 20 * time.Second

	// eventBuffer is the event channel capacity. When the consumer
	// falls behind, newer events are dropped with a log line rather
	// than blocking the poll loop.
	eventBuffer = 32

	// maxBackoffShift caps the error backoff at interval * 2^4.
	maxBackoffShift = 4
)

// Fetcher returns the current request collection for the viewer.
// Wired to the gateway's by-user or by-approver listing depending on
// role.
type Fetcher func(ctx context.Context) ([]model.TravelRequest, error)

// Poller periodically fetches requests and emits change events.
// Start and Stop are idempotent; a stopped poller cannot be restarted.
type Poller struct {
	fetch    Fetcher
	interval time.Duration

	mu       sync.Mutex
	known    map[int]model.RequestStatus
	primed   bool
	failures int

	events  chan Event
	stop    chan struct{}
	wg      sync.WaitGroup
	started atomic.Bool
	stopped atomic.Bool
}

// NewPoller creates a poller over the given fetcher. A non-positive
// interval selects DefaultInterval.
func NewPoller(fetch Fetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		fetch:    fetch,
		interval: interval,
		known:    make(map[int]model.RequestStatus),
		events:   make(chan Event, eventBuffer),
		stop:     make(chan struct{}),
	}
}

// Events returns the event stream. Closed after Stop returns.
func (p *Poller) Events() <-chan Event {
	return p.events
}

// Start launches the poll loop. Calling Start twice is a no-op.
func (p *Poller) Start() {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	p.wg.Add(1)
	go p.loop()
}

// Stop halts polling and closes the event channel. Calling Stop twice,
// or before Start, is a no-op.
func (p *Poller) Stop() {
	if !p.stopped.CompareAndSwap(false, true) {
		return
	}
	close(p.stop)
	if p.started.Load() {
		p.wg.Wait()
	}
	close(p.events)
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	return p.started.Load() && !p.stopped.Load()
}

// loop runs one immediate priming poll, then polls on the interval.
// Fetch failures stretch the wait exponentially so an unreachable
// backend is not hammered.
func (p *Poller) loop() {
	defer p.wg.Done()

	p.poll()

	for {
		select {
		case <-p.stop:
			return
		case <-time.After(p.delay()):
			if p.stopped.Load() {
				return
			}
			p.poll()
		}
	}
}

// delay returns the wait before the next poll, backing off after
// consecutive failures.
func (p *Poller) delay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	shift := p.failures
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}
	return p.interval * time.Duration(1<<shift)
}

// poll fetches once and diffs against the previous snapshot.
func (p *Poller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	requests, err := p.fetch(ctx)
	if err != nil {
		p.mu.Lock()
		p.failures++
		failures := p.failures
		p.mu.Unlock()
		log.Printf("[notify] Poll failed (%d consecutive): %v", failures, err)
		return
	}

	p.mu.Lock()
	p.failures = 0
	primed := p.primed
	previous := p.known

	next := make(map[int]model.RequestStatus, len(requests))
	var changes []Event
	now := time.Now()

	for _, req := range requests {
		next[req.ID] = req.Status

		old, seen := previous[req.ID]
		switch {
		case !primed:
			// First poll establishes the base; no events.
		case !seen:
			changes = append(changes, Event{
				Kind:      EventNewRequest,
				Request:   req,
				NewStatus: req.Status,
				At:        now,
			})
		case old != req.Status:
			changes = append(changes, Event{
				Kind:      EventStatusChanged,
				Request:   req,
				OldStatus: old,
				NewStatus: req.Status,
				At:        now,
			})
		}
	}

	p.known = next
	p.primed = true
	p.mu.Unlock()

	for _, event := range changes {
		p.emit(event)
	}
}

// emit sends without blocking; a full buffer drops the event.
func (p *Poller) emit(event Event) {
	select {
	case p.events <- event:
	default:
		log.Printf("[notify] Event buffer full, dropping %s for request %d",
			event.Kind, event.Request.ID)
	}
}
