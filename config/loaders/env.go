// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package loaders

import (
	"os"
	"strconv"

	"github.com/quietkey/auriscribe/config/models"
)

// Legacy alias prefix kept so environments configured for the older
// builds keep working.
const (
	envPrefix       = "AURISCRIBE_"
	legacyEnvPrefix = "XFCE_WHISPER_"
)

func lookupEnv(suffix string) (string, bool) {
	if v, ok := os.LookupEnv(envPrefix + suffix); ok {
		return v, true
	}
	if v, ok := os.LookupEnv(legacyEnvPrefix + suffix); ok {
		return v, true
	}
	return "", false
}

// ApplyEnvOverrides applies the recognizer tuning environment variables on
// top of the loaded configuration: NO_GPU forces CPU, GPU_DEVICE selects
// the device index, THREADS overrides the thread count (clamped to 1-64).
func ApplyEnvOverrides(config *models.Config) {
	if _, ok := lookupEnv("NO_GPU"); ok {
		config.UseGPU = false
	}

	if v, ok := lookupEnv("GPU_DEVICE"); ok && v != "" {
		if idx, err := strconv.Atoi(v); err == nil && idx >= 0 {
			config.GPUDeviceIndex = uint32(idx)
		}
	}

	if v, ok := lookupEnv("THREADS"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if n < 1 {
				n = 1
			}
			if n > 64 {
				n = 64
			}
			config.ThreadCount = uint32(n)
		}
	}
}
