// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package audio

import (
	"testing"

	"github.com/quietkey/auriscribe/internal/vad"
)

func TestReblockerEmitsFixedWindows(t *testing.T) {
	var r Reblocker
	frame := make([]float32, FrameSamples) // 640
	var total int
	for i := 0; i < 10; i++ {
		windows := r.Push(frame)
		for _, w := range windows {
			if len(w) != vad.FrameSize {
				t.Fatalf("window size = %d, want %d", len(w), vad.FrameSize)
			}
			total++
		}
	}
	// 10*640 = 6400 samples -> 13 windows of 480, 160 left over.
	if total != 13 {
		t.Fatalf("emitted %d windows, want 13", total)
	}
}

func TestReblockerCarriesRemainder(t *testing.T) {
	var r Reblocker
	r.Push(make([]float32, 100))
	windows := r.Push(make([]float32, 400))
	if len(windows) != 1 {
		t.Fatalf("expected exactly one window once remainder crosses 480, got %d", len(windows))
	}
}
