//go:build !systray

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package tray

import "github.com/quietkey/auriscribe/internal/logger"

// CreateDefaultTrayManager falls back to the mock tray manager in builds
// without the systray tag (headless CI, or no X11/cgo toolchain).
func CreateDefaultTrayManager(log logger.Logger) TrayManagerInterface {
	return CreateMockTrayManager(log)
}
