// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package tray

import "github.com/quietkey/auriscribe/config"

// TrayManagerInterface is the tray indicator surface the daemon drives:
// state icon and menu labels only. Settings and download dialogs live in
// the external settings UI, so the daemon only ever toggles recording
// state and reports hotkey availability.
type TrayManagerInterface interface {
	Start()
	Stop()
	// SetRecordingState updates the tray icon/label to reflect the
	// Idle/Recording/Processing state.
	SetRecordingState(isRecording bool)
	// SetHotkeyAvailable reflects a HotkeyGrabConflict: the live grab
	// failed and only the signal fallback remains usable.
	SetHotkeyAvailable(available bool)
	UpdateSettings(cfg *config.Config)
	// SetExitAction sets the callback invoked when Quit is clicked.
	SetExitAction(onExit func())
	// SetToggleAction sets the callback invoked when the menu's
	// start/stop recording item is clicked.
	SetToggleAction(onToggle func())
}
