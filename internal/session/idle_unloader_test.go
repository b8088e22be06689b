// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

import (
	"testing"
	"time"

	"github.com/quietkey/auriscribe/internal/recog"
)

func TestIdleUnloaderUnloadsAfterTimeoutWhenIdleAndLoaded(t *testing.T) {
	client := &fakeClient{state: recog.Loaded}
	coord, _, _, _ := newTestCoordinator(client)
	coord.noteUsed()

	u := &IdleModelUnloader{coord: coord}
	// Exercise fire() directly with a manipulated last-used timestamp
	// rather than sleeping the real 15s timeout.
	coord.lastUsedMu.Lock()
	coord.lastUsed = time.Now().Add(-2 * IdleUnloadTimeout)
	coord.lastUsedMu.Unlock()

	u.fire()

	if client.state != recog.Unloaded {
		t.Fatalf("expected model to be unloaded, state=%v", client.state)
	}
	if client.quits != 1 {
		t.Fatalf("expected the worker process to be reaped once, quits=%d", client.quits)
	}
}

func TestIdleUnloaderSkipsWhenNotIdle(t *testing.T) {
	client := &fakeClient{state: recog.Loaded}
	coord, _, _, _ := newTestCoordinator(client)
	coord.StartRecording() // Recording, not Idle
	coord.lastUsedMu.Lock()
	coord.lastUsed = time.Now().Add(-2 * IdleUnloadTimeout)
	coord.lastUsedMu.Unlock()

	u := &IdleModelUnloader{coord: coord}
	u.fire()

	if client.state != recog.Loaded {
		t.Fatalf("expected model to remain loaded while Recording, state=%v", client.state)
	}
}

func TestIdleUnloaderSkipsWhenRecentlyUsed(t *testing.T) {
	client := &fakeClient{state: recog.Loaded}
	coord, _, _, _ := newTestCoordinator(client)
	coord.noteUsed()

	u := &IdleModelUnloader{coord: coord}
	u.fire()

	if client.state != recog.Loaded {
		t.Fatalf("expected model to remain loaded right after use, state=%v", client.state)
	}
}

func TestIdleUnloaderDisarmCancelsPendingTimer(t *testing.T) {
	client := &fakeClient{state: recog.Loaded}
	coord, _, _, _ := newTestCoordinator(client)
	u := NewIdleModelUnloader(coord)
	u.Arm()
	u.Disarm()
	if u.timer != nil {
		t.Fatalf("expected timer to be cleared after Disarm")
	}
}
