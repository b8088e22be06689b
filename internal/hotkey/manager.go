// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package hotkey

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// debounceWindow is the minimum monotonic interval between accepted
// toggles, suppressing key auto-repeat.
const debounceWindow = 200 * time.Millisecond

// Provider grabs a key combination on the windowing system and reports
// presses. Implementations: the X11 XGrabKey provider and the evdev
// best-effort fallback.
type Provider interface {
	Grab(spec KeySpec, onPress func()) error
	Ungrab() error
	// Probe performs a non-destructive grab+ungrab and reports availability.
	Probe(spec KeySpec) (bool, error)
}

// Manager owns the live grab, the signal self-pipe fallback, debouncing,
// and the single-pending-toggle CAS guard described by the hotkey
// contract. Exactly one toggle request may be outstanding to the main
// loop at a time.
type Manager struct {
	provider Provider
	spec     KeySpec

	lastToggle    atomic.Int64 // unix nanos, monotonic-ish via time.Now().UnixNano()
	togglePending atomic.Bool

	mu        sync.Mutex
	available bool // false once HotkeyGrabConflict is observed

	onToggle func()
	pipe     *selfPipe
}

// NewManager builds a Manager around provider for the given key spec. cb
// is invoked on the main loop whenever a debounced toggle is accepted.
func NewManager(provider Provider, spec KeySpec, cb func()) *Manager {
	return &Manager{provider: provider, spec: spec, onToggle: cb, available: true}
}

// Start grabs the key combination and arms the signal self-pipe fallback.
// A grab conflict (HotkeyGrabConflict) is non-fatal: the fallback signal
// path remains usable and Available reports false.
func (m *Manager) Start() error {
	pipe, err := newSelfPipe(m.handlePress)
	if err != nil {
		return fmt.Errorf("hotkey: install signal fallback: %w", err)
	}
	m.pipe = pipe

	if err := m.provider.Grab(m.spec, m.handlePress); err != nil {
		m.mu.Lock()
		m.available = false
		m.mu.Unlock()
		return fmt.Errorf("hotkey: grab conflict, fallback signal remains usable: %w", err)
	}
	return nil
}

// Stop releases the grab and the signal fallback.
func (m *Manager) Stop() {
	if m.pipe != nil {
		m.pipe.close()
	}
	_ = m.provider.Ungrab()
}

// Available reports whether the live grab succeeded (for tray display).
func (m *Manager) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// Probe performs the non-destructive availability check used by settings UI.
func (m *Manager) Probe() (bool, error) {
	return m.provider.Probe(m.spec)
}

// handlePress is invoked from the provider callback, the evdev fallback,
// or the self-pipe reader. It enforces the 200ms debounce and the
// single-pending-toggle CAS before invoking onToggle.
func (m *Manager) handlePress() {
	now := time.Now().UnixNano()
	last := m.lastToggle.Load()
	if now-last < debounceWindow.Nanoseconds() {
		return
	}

	if !m.togglePending.CompareAndSwap(false, true) {
		return // a toggle is already queued for the main loop
	}
	m.lastToggle.Store(now)
	m.onToggle()
}

// ClearPending is called by the main-loop task after it has executed the
// queued toggle, freeing the CAS guard for the next press.
func (m *Manager) ClearPending() {
	m.togglePending.Store(false)
}
