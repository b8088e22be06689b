// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package utils

import (
	"os"
	"path/filepath"
)

// IsValidFile reports whether path points at a readable regular file.
// Used by the app package to validate the whisper model path from config
// before handing it to the worker process.
func IsValidFile(path string) bool {
	clean := filepath.Clean(path)
	if clean != path {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}

// GetFileSize returns a model file's size in bytes, logged alongside the
// model path at startup.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
