// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package config provides configuration management functionality with support for multiple
// configuration formats, validation, and security features.
//
// Subpackages:
//   - models:     Defines the core configuration data structures.
//   - loaders:    Handles loading and saving configuration from/to different formats (e.g., YAML).
//   - validators: Implements validation logic to ensure configuration integrity.
//   - security:   Provides security-related utilities like integrity checks and command validation.
package config

import (
	"github.com/quietkey/auriscribe/config/loaders"
	"github.com/quietkey/auriscribe/config/models"
	"github.com/quietkey/auriscribe/config/security"
	"github.com/quietkey/auriscribe/config/validators"
)

// Config is a type alias for the main configuration structure defined in the models package.
// This provides a convenient way to reference the configuration type without importing the models package directly.
type Config = models.Config

// Paste method and chunk routing constants, aliased from the models package for convenience.
const (
	PasteMethodAuto              = models.PasteMethodAuto
	PasteMethodKeystrokesX11     = models.PasteMethodKeystrokesX11
	PasteMethodKeystrokesWayland = models.PasteMethodKeystrokesWayland
	PasteMethodClipboard         = models.PasteMethodClipboard

	ChunkOutputTarget  = models.ChunkOutputTarget
	ChunkOutputOverlay = models.ChunkOutputOverlay
	ChunkOutputBoth    = models.ChunkOutputBoth
)

// Load configuration from the specified file using the configured loader.
func LoadConfig(filename string) (*Config, error) {
	return loaders.LoadConfig(filename)
}

// DefaultConfigPath returns ${XDG_CONFIG_HOME:-$HOME/.config}/auriscribe/settings.json.
func DefaultConfigPath() string {
	return loaders.DefaultConfigPath()
}

// EnsureConfigDir creates (if necessary) and returns the directory holding
// settings.json, for other subsystems (lock file, IPC socket) that want to
// keep their runtime files alongside it.
func EnsureConfigDir() (string, error) {
	return loaders.EnsureConfigDir()
}

// Write the configuration to the specified file.
func SaveConfig(filename string, config *Config) error {
	return loaders.SaveConfig(filename, config)
}

// Apply the default values to a configuration object.
func SetDefaultConfig(config *Config) {
	loaders.SetDefaultConfig(config)
}

// Apply recognizer tuning overrides from the environment (NO_GPU,
// GPU_DEVICE, THREADS, including the legacy variable names).
func ApplyEnvOverrides(config *Config) {
	loaders.ApplyEnvOverrides(config)
}

// Check the configuration for correctness and apply corrections if necessary.
func ValidateConfig(config *Config) error {
	return validators.ValidateConfig(config)
}

// Check if a command is permitted by the security policy.
func IsCommandAllowed(config *Config, command string) bool {
	return security.IsCommandAllowed(config, command)
}

// Remove potentially unsafe arguments from a command.
func SanitizeCommandArgs(args []string) []string {
	return security.SanitizeCommandArgs(args)
}

// Verify if the configuration file has been tampered with.
func VerifyConfigIntegrity(filename string, config *Config) error {
	return security.VerifyConfigIntegrity(filename, config)
}

// Calculate and update the integrity hash for the configuration file.
func UpdateConfigHash(filename string, config *Config) error {
	return security.UpdateConfigHash(filename, config)
}

// Compute the SHA-256 hash of a file.
func CalculateFileHash(filename string) (string, error) {
	return security.CalculateFileHash(filename)
}

// Enforce that a file does not exceed the configured size limit.
func EnforceFileSizeLimit(filename string, config *Config) error {
	return security.EnforceFileSizeLimit(filename, config)
}
