// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package app

import (
	"time"

	"github.com/quietkey/auriscribe/internal/overlay"
	"github.com/quietkey/auriscribe/internal/session"
)

// runMainLoop consumes session.MainLoopEvents posted by the chunk worker
// and dispatches them to the Finalizer, the tray, notifications, and the
// overlay broadcaster. It is intended to run in its own goroutine for the
// lifetime of the process.
func (a *App) runMainLoop() {
	for ev := range a.mainLoop {
		switch ev.Kind {
		case session.EventFinalize:
			a.handleFinalize(ev)
		case session.EventError:
			a.handleError(ev)
		}
	}
}

func (a *App) handleFinalize(ev session.MainLoopEvent) {
	if err := a.Finalizer.Finalize(ev); err != nil {
		a.Runtime.Logger.Warning("finalize: paste failed: %v", err)
		a.Notifier.NotifyError("Paste failed", err.Error())
	}

	text := a.Coordinator.LastFinalized()
	a.setLastTranscript(text)

	a.Tray.SetRecordingState(false)
	a.Overlay.Broadcast(overlay.Event{Kind: "state", State: "idle"})
	a.Overlay.Broadcast(overlay.Event{Kind: "chunk", Text: text})
}

func (a *App) handleError(ev session.MainLoopEvent) {
	a.Runtime.Logger.Error("%s: %s", ev.Title, ev.Message)
	a.Notifier.NotifyError(ev.Title, ev.Message)
	a.Overlay.Broadcast(overlay.Event{Kind: "error", Message: ev.Message})
}

func (a *App) setLastTranscript(text string) {
	a.transcriptMu.Lock()
	a.lastTranscript = text
	a.transcriptMu.Unlock()
}

func (a *App) getLastTranscript() string {
	a.transcriptMu.Lock()
	defer a.transcriptMu.Unlock()
	return a.lastTranscript
}

// waitForTranscript blocks until a finalize event has produced a new
// transcript or the timeout expires, used by the synchronous "stop" IPC
// command.
func (a *App) waitForTranscript(timeout time.Duration) (string, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if a.Coordinator.State() != session.Processing {
			return a.getLastTranscript(), true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return a.getLastTranscript(), false
}
