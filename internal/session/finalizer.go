// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

// Finalizer is the main-loop task that assembles the session transcript,
// delivers it to the previously captured target window, and arms the
// idle-unload timer.
type Finalizer struct {
	coord    *Coordinator
	unloader *IdleModelUnloader
}

// NewFinalizer builds a Finalizer bound to coord. unloader is armed once
// finalize completes.
func NewFinalizer(coord *Coordinator, unloader *IdleModelUnloader) *Finalizer {
	return &Finalizer{coord: coord, unloader: unloader}
}

// Finalize runs the finalize step for event (which must be EventFinalize):
// take the final text under the transcript's mutex, paste it to the
// captured target, transition to Idle, and arm the idle-unload timer.
func (f *Finalizer) Finalize(event MainLoopEvent) error {
	text := f.coord.transcript.Take()
	f.coord.setLastFinalized(text)

	var pasteErr error
	if text != "" {
		pasteErr = f.coord.target.Paste(event.Target, text)
	}

	f.coord.toIdle()
	f.coord.noteUsed()
	if f.unloader != nil {
		f.unloader.Arm()
	}
	return pasteErr
}
