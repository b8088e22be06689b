//go:build systray

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package tray

import (
	"fmt"
	"sync"

	"fyne.io/systray"

	"github.com/quietkey/auriscribe/config"
	"github.com/quietkey/auriscribe/internal/constants"
	"github.com/quietkey/auriscribe/internal/logger"
	"github.com/quietkey/auriscribe/internal/platform"
)

// TrayManager manages the system tray icon and menu: a status label plus
// a toggle-recording item and Quit (settings/about live in the external
// settings UI).
type TrayManager struct {
	mu          sync.Mutex
	iconMicOff  []byte
	iconMicOn   []byte
	logger      logger.Logger
	isRecording bool

	toggleItem *systray.MenuItem
	statusItem *systray.MenuItem
	exitItem   *systray.MenuItem

	onExit   func()
	onToggle func()

	ready chan struct{}
}

// NewTrayManager builds a TrayManager using the given icon byte slices.
func NewTrayManager(iconMicOff, iconMicOn []byte, log logger.Logger) *TrayManager {
	return &TrayManager{
		iconMicOff: iconMicOff,
		iconMicOn:  iconMicOn,
		logger:     log,
		ready:      make(chan struct{}),
	}
}

// CreateDefaultTrayManager wires up the real systray-backed manager with
// the built-in microphone icons. It warns up front when no StatusNotifier
// watcher is present on the session bus, since the icon will otherwise
// silently fail to appear.
func CreateDefaultTrayManager(log logger.Logger) TrayManagerInterface {
	if !platform.HasStatusNotifierWatcher() {
		hint := ""
		if platform.IsGNOMEWithWayland() {
			hint = " (GNOME Shell needs the AppIndicator/KStatusNotifierItem extension)"
		}
		log.Warning("tray: no StatusNotifier watcher on the session bus, icon may not appear%s", hint)
	}
	return NewTrayManager(GetIconMicOff(log), GetIconMicOn(log), log)
}

func (tm *TrayManager) Start() {
	go systray.Run(tm.onReady, func() {
		tm.logger.Info("tray: systray exited")
	})
}

func (tm *TrayManager) onReady() {
	systray.SetIcon(tm.iconMicOff)
	systray.SetTitle("Auriscribe")
	systray.SetTooltip("Auriscribe - push-to-dictate")

	tm.statusItem = systray.AddMenuItem(fmt.Sprintf("%s Idle", constants.IconReady), "Current state")
	tm.statusItem.Disable()

	tm.toggleItem = systray.AddMenuItem(fmt.Sprintf("%s Start Recording", constants.IconRecording), "Start/stop recording")
	systray.AddSeparator()
	tm.exitItem = systray.AddMenuItem(fmt.Sprintf("%s Quit", constants.IconError), "Quit")

	close(tm.ready)

	go func() {
		for {
			select {
			case <-tm.toggleItem.ClickedCh:
				tm.mu.Lock()
				cb := tm.onToggle
				tm.mu.Unlock()
				if cb != nil {
					cb()
				}
			case <-tm.exitItem.ClickedCh:
				tm.mu.Lock()
				cb := tm.onExit
				tm.mu.Unlock()
				systray.Quit()
				if cb != nil {
					cb()
				}
				return
			}
		}
	}()
}

func (tm *TrayManager) SetRecordingState(isRecording bool) {
	tm.mu.Lock()
	tm.isRecording = isRecording
	tm.mu.Unlock()

	<-tm.ready
	if isRecording {
		systray.SetIcon(tm.iconMicOn)
		tm.statusItem.SetTitle(fmt.Sprintf("%s Recording", constants.IconRecording))
		tm.toggleItem.SetTitle(fmt.Sprintf("%s Stop Recording", constants.IconRecording))
	} else {
		systray.SetIcon(tm.iconMicOff)
		tm.statusItem.SetTitle(fmt.Sprintf("%s Idle", constants.IconReady))
		tm.toggleItem.SetTitle(fmt.Sprintf("%s Start Recording", constants.IconRecording))
	}
}

func (tm *TrayManager) SetHotkeyAvailable(available bool) {
	<-tm.ready
	if available {
		tm.statusItem.SetTooltip("")
		return
	}
	tm.statusItem.SetTooltip(fmt.Sprintf("%s hotkey grab unavailable, signal fallback only", constants.IconWarning))
}

func (tm *TrayManager) UpdateSettings(cfg *config.Config) {
	tm.logger.Debug("tray: settings updated")
}

func (tm *TrayManager) SetExitAction(onExit func()) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.onExit = onExit
}

func (tm *TrayManager) SetToggleAction(onToggle func()) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.onToggle = onToggle
}

func (tm *TrayManager) Stop() {
	systray.Quit()
}

// CreateTrayManagerWithConfig creates a tray manager with initial configuration.
func CreateTrayManagerWithConfig(cfg *config.Config, log logger.Logger) TrayManagerInterface {
	trayManager := CreateDefaultTrayManager(log)
	trayManager.UpdateSettings(cfg)
	return trayManager
}
