// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package constants

// UI Icons used by the tray menu labels.
const (
	IconReady      = "✅"
	IconError      = "❌"
	IconRecording  = "🎤"
	IconProcessing = "🔄"
	IconWarning    = "⚠️"
	IconDownload   = "📥"
	IconInfo       = "ℹ️"
)
