// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package debugdump writes captured utterances to WAV files for offline
// inspection when AURISCRIBE_DEBUG_AUDIO is set.
package debugdump

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/quietkey/auriscribe/internal/logger"
)

const sampleRate = 16000

// Enabled reports whether audio dumping is turned on via environment.
func Enabled() bool {
	return logger.DebugCategoryEnabled("audio")
}

// Write encodes samples (f32, [-1,1]) as a 16-bit mono WAV file at path.
func Write(path string, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create debug wav %s: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	ints := make([]int, len(samples))
	for i, s := range samples {
		v := int(s * 32768.0)
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		ints[i] = v
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           ints,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write debug wav %s: %w", path, err)
	}
	return enc.Close()
}
