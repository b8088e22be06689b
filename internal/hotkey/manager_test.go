// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package hotkey

import (
	"sync/atomic"
	"testing"
	"time"
)

type fakeProvider struct {
	onPress func()
}

func (f *fakeProvider) Grab(spec KeySpec, onPress func()) error {
	f.onPress = onPress
	return nil
}
func (f *fakeProvider) Ungrab() error                   { return nil }
func (f *fakeProvider) Probe(spec KeySpec) (bool, error) { return true, nil }

func TestRapidPressesYieldExactlyOneToggle(t *testing.T) {
	var toggles atomic.Int32
	provider := &fakeProvider{}
	spec, _ := ParseKeySpec("ctrl+space")
	mgr := NewManager(provider, spec, func() { toggles.Add(1) })
	if err := mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mgr.Stop()

	for i := 0; i < 5; i++ {
		provider.onPress()
	}

	if got := toggles.Load(); got != 1 {
		t.Fatalf("toggles = %d, want 1", got)
	}
}

func TestDebounceWindowElapsesBetweenAcceptedToggles(t *testing.T) {
	var accepted []time.Time
	provider := &fakeProvider{}
	spec, _ := ParseKeySpec("ctrl+space")
	mgr := NewManager(provider, spec, func() {
		accepted = append(accepted, time.Now())
	})
	if err := mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mgr.Stop()

	provider.onPress()
	mgr.ClearPending()
	time.Sleep(250 * time.Millisecond)
	provider.onPress()
	mgr.ClearPending()

	if len(accepted) != 2 {
		t.Fatalf("expected 2 accepted toggles, got %d", len(accepted))
	}
	if accepted[1].Sub(accepted[0]) < debounceWindow {
		t.Fatalf("accepted toggles closer than debounce window: %v", accepted[1].Sub(accepted[0]))
	}
}

func TestClearPendingAllowsNextToggle(t *testing.T) {
	var toggles atomic.Int32
	provider := &fakeProvider{}
	spec, _ := ParseKeySpec("ctrl+space")
	mgr := NewManager(provider, spec, func() { toggles.Add(1) })
	if err := mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mgr.Stop()

	provider.onPress()
	if toggles.Load() != 1 {
		t.Fatalf("expected first press accepted")
	}
	mgr.ClearPending()
	// Force past the debounce window so the second press is eligible.
	mgr.lastToggle.Store(time.Now().Add(-time.Second).UnixNano())
	provider.onPress()
	if toggles.Load() != 2 {
		t.Fatalf("expected second press accepted after ClearPending, got %d toggles", toggles.Load())
	}
}
