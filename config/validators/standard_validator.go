// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package validators

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quietkey/auriscribe/config/models"
)

var hostRegex = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)

// ValidateConfig inspects the configuration for invalid or unsafe values. It
// corrects offending values to safe defaults in place and returns an error
// aggregating every issue found, so the application can always run with a
// sane configuration even when settings.json was hand-edited badly.
func ValidateConfig(config *models.Config) error {
	var errs []string

	if config.VADThreshold <= 0 || config.VADThreshold > 1 {
		errs = append(errs, fmt.Sprintf("invalid vad_threshold: %v, correcting to 0.02", config.VADThreshold))
		config.VADThreshold = 0.02
	}

	validPasteMethods := map[string]bool{
		models.PasteMethodAuto:             true,
		models.PasteMethodKeystrokesX11:     true,
		models.PasteMethodKeystrokesWayland: true,
		models.PasteMethodClipboard:         true,
	}
	if !validPasteMethods[config.PasteMethod] {
		errs = append(errs, fmt.Sprintf("invalid paste_method: %s, correcting to 'auto'", config.PasteMethod))
		config.PasteMethod = models.PasteMethodAuto
	}

	validOverlayPositions := map[string]bool{
		models.OverlayPositionScreen: true,
		models.OverlayPositionTarget: true,
	}
	if config.OverlayPosition != "" && !validOverlayPositions[config.OverlayPosition] {
		errs = append(errs, fmt.Sprintf("invalid overlay_position: %s, correcting to 'target'", config.OverlayPosition))
		config.OverlayPosition = models.OverlayPositionTarget
	}

	validChunkOutputs := map[string]bool{
		models.ChunkOutputTarget:  true,
		models.ChunkOutputOverlay: true,
		models.ChunkOutputBoth:    true,
	}
	if config.ChunkOutput != "" && !validChunkOutputs[config.ChunkOutput] {
		errs = append(errs, fmt.Sprintf("invalid chunk_output: %s, correcting to 'target'", config.ChunkOutput))
		config.ChunkOutput = models.ChunkOutputTarget
	}

	// Thread count is clamped to the range the recognition worker accepts.
	if config.ThreadCount == 0 || config.ThreadCount > 64 {
		def := models.DefaultThreadCount()
		errs = append(errs, fmt.Sprintf("invalid thread_count: %d, correcting to %d", config.ThreadCount, def))
		config.ThreadCount = def
	}

	if config.OverlayEnabled {
		if config.Overlay.Port <= 0 || config.Overlay.Port > 65535 {
			errs = append(errs, fmt.Sprintf("invalid overlay port: %d, correcting to 8765", config.Overlay.Port))
			config.Overlay.Port = 8765
		}
		if config.Overlay.Host == "" {
			config.Overlay.Host = "127.0.0.1"
		} else if !hostRegex.MatchString(config.Overlay.Host) {
			errs = append(errs, fmt.Sprintf("invalid overlay host: %s, correcting to '127.0.0.1'", config.Overlay.Host))
			config.Overlay.Host = "127.0.0.1"
		}
	}

	if len(config.Security.AllowedCommands) == 0 {
		config.Security.AllowedCommands = []string{
			"xdotool", "wtype", "ydotool", "wl-copy", "wl-paste", "xclip", "notify-send", "xdg-open",
		}
		errs = append(errs, "allowed_commands was empty, populated with defaults")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation issues: %s", strings.Join(errs, "; "))
	}
	return nil
}
