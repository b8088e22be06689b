// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package audio

import "github.com/quietkey/auriscribe/internal/vad"

// Reblocker accumulates arbitrarily-sized capture frames and emits
// fixed vad.FrameSize windows, carrying any remainder forward.
type Reblocker struct {
	pending []float32
}

// Push appends frame to the pending tail and returns zero or more
// complete vad.FrameSize windows ready for VAD processing.
func (r *Reblocker) Push(frame []float32) [][]float32 {
	r.pending = append(r.pending, frame...)

	var windows [][]float32
	for len(r.pending) >= vad.FrameSize {
		w := make([]float32, vad.FrameSize)
		copy(w, r.pending[:vad.FrameSize])
		windows = append(windows, w)
		r.pending = r.pending[vad.FrameSize:]
	}
	return windows
}

// Reset discards any buffered remainder.
func (r *Reblocker) Reset() {
	r.pending = r.pending[:0]
}
