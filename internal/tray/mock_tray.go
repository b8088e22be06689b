// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package tray

import (
	"github.com/quietkey/auriscribe/config"
	"github.com/quietkey/auriscribe/internal/logger"
)

// MockTrayManager implements TrayManagerInterface without drawing a real
// indicator, for headless runs (AURISCRIBE_HEADLESS) and tests.
type MockTrayManager struct {
	logger      logger.Logger
	isRecording bool
	onExit      func()
	onToggle    func()
}

// CreateMockTrayManager builds a no-op tray manager that logs state
// changes instead of drawing a real indicator.
func CreateMockTrayManager(log logger.Logger) TrayManagerInterface {
	return &MockTrayManager{logger: log}
}

func (tm *MockTrayManager) Start() {
	tm.logger.Info("tray: mock tray started (no systray build tag)")
}

func (tm *MockTrayManager) Stop() {
	tm.logger.Info("tray: mock tray stopped")
}

func (tm *MockTrayManager) SetRecordingState(isRecording bool) {
	tm.isRecording = isRecording
	tm.logger.Debug("tray: recording state -> %v", isRecording)
}

func (tm *MockTrayManager) SetHotkeyAvailable(available bool) {
	tm.logger.Debug("tray: hotkey available -> %v", available)
}

func (tm *MockTrayManager) UpdateSettings(cfg *config.Config) {
	tm.logger.Debug("tray: settings updated")
}

func (tm *MockTrayManager) SetExitAction(onExit func()) {
	tm.onExit = onExit
}

func (tm *MockTrayManager) SetToggleAction(onToggle func()) {
	tm.onToggle = onToggle
}
