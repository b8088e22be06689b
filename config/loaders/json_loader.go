// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package loaders

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/quietkey/auriscribe/config/models"
	"github.com/quietkey/auriscribe/config/security"
	"github.com/quietkey/auriscribe/config/validators"
	"github.com/quietkey/auriscribe/internal/platform"
)

// DefaultConfigPath returns ${XDG_CONFIG_HOME:-$HOME/.config}/auriscribe/settings.json.
func DefaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, "auriscribe", "settings.json")
}

// EnsureConfigDir creates (if necessary) and returns the directory holding
// settings.json. Mode 0700 keeps the directory private: settings.json
// carries the security.allowed_commands exec allowlist.
func EnsureConfigDir() (string, error) {
	dir := filepath.Dir(DefaultConfigPath())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// DefaultDataDir returns ${XDG_DATA_HOME:-$HOME/.local/share}/auriscribe,
// the root the models subdirectory lives under.
// The downloader external to this core is responsible for
// populating it; this core only needs the directory to exist so
// model_path lookups under it don't fail on a missing parent.
func DefaultDataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".local", "share")
	}
	return filepath.Join(base, "auriscribe")
}

// EnsureModelsDir creates (if necessary) and returns
// DefaultDataDir()/models.
func EnsureModelsDir() (string, error) {
	dir := filepath.Join(DefaultDataDir(), "models")
	if err := platform.EnsureDirectoryExists(dir); err != nil {
		return "", fmt.Errorf("create models directory: %w", err)
	}
	return dir, nil
}

// LoadConfig loads configuration from a JSON file. A missing file is not an
// error: defaults are returned instead.
func LoadConfig(filename string) (*models.Config, error) {
	var config models.Config
	SetDefaultConfig(&config)

	clean := filepath.Clean(filename)
	if strings.Contains(clean, "..") {
		return nil, fmt.Errorf("invalid config path: %s", filename)
	}
	// #nosec G304 -- Safe: path is sanitized and controlled by application configuration.
	data, err := os.ReadFile(clean)
	if err != nil {
		log.Printf("Warning: could not read config file: %v", err)
		log.Println("Using default configuration")
		return &config, nil
	}

	// Size limit is checked against the defaults before parsing so an
	// oversized file is never unmarshalled.
	if err := security.EnforceFileSizeLimit(clean, &config); err != nil {
		return nil, fmt.Errorf("config file rejected: %w", err)
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Integrity verification compares against the hash stored in the file
	// itself; a no-op unless check_integrity is enabled.
	if err := security.VerifyConfigIntegrity(clean, &config); err != nil {
		return nil, fmt.Errorf("config integrity check failed: %w", err)
	}

	if err := validators.ValidateConfig(&config); err != nil {
		log.Printf("Configuration validation error: %v", err)
		log.Println("Using validated configuration with corrections")
	}

	return &config, nil
}

// SetDefaultConfig applies the built-in defaults for every setting.
func SetDefaultConfig(config *models.Config) {
	config.ModelID = "base"
	config.ModelPath = "sources/language-models/base.bin"
	config.Hotkey = "[Super]Space"
	config.Language = "auto"
	config.PasteMethod = models.PasteMethodAuto
	config.Microphone = ""
	config.TranslateToEnglish = false
	config.VADThreshold = 0.02
	config.Autostart = false
	config.OverlayEnabled = false
	config.OverlayPosition = models.OverlayPositionTarget
	config.PasteEachChunk = false
	config.ChunkOutput = models.ChunkOutputTarget
	config.PushToTalk = false

	config.ThreadCount = models.DefaultThreadCount()
	config.GPUDeviceIndex = 0
	config.UseGPU = true

	config.LogFile = ""
	config.LogLevel = "info"

	config.Overlay.Host = "127.0.0.1"
	config.Overlay.Port = 8765

	config.Security.AllowedCommands = []string{
		"xdotool", "wtype", "ydotool", "wl-copy", "wl-paste", "xclip", "notify-send", "xdg-open",
	}
	config.Security.CheckIntegrity = false
	config.Security.ConfigHash = ""
	config.Security.MaxTempFileSize = 50 * 1024 * 1024
}

// SaveConfig writes the configuration back to disk as JSON.
func SaveConfig(filename string, config *models.Config) error {
	safe := filepath.Clean(filename)
	if strings.Contains(safe, "..") {
		return fmt.Errorf("invalid config path: %s", filename)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(safe), 0o750); err != nil {
		return err
	}

	return os.WriteFile(safe, data, 0o600)
}
