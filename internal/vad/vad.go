// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package vad implements the energy-based voice-activity segmenter that
// turns a raw 16 kHz sample stream into utterance chunks with prefill and
// hangover.
package vad

import "math"

const (
	// FrameSize is the fixed window size the detector operates on (~30 ms at 16 kHz).
	FrameSize = 480

	// PrefillFrames is the number of trailing frames buffered so the first
	// word of an utterance is not clipped (~300 ms).
	PrefillFrames = 10

	// HangoverFrames is the number of silent frames tolerated inside an
	// utterance before it is declared ended (~450 ms).
	HangoverFrames = 15

	// OnsetFrames is the number of consecutive voiced frames required to
	// enter speech (~60 ms).
	OnsetFrames = 2

	// DefaultThreshold is the default RMS energy threshold.
	DefaultThreshold = 0.02
)

// Result is returned from every call to Detector.Process.
type Result struct {
	IsSpeech       bool
	SpeechEnded    bool
	EmittedSamples []float32
}

// Detector is the VAD state machine described by the segmenter contract:
// silence, onset counting, speech, and hangover.
type Detector struct {
	Threshold float32

	prefill      []float32 // ring buffer, PrefillFrames*FrameSize samples
	prefillNext  int
	prefillFull  bool
	inSpeech     bool
	onsetCounter int
	hangover     int
}

// NewDetector creates a Detector with the given RMS threshold. A zero or
// negative threshold falls back to DefaultThreshold.
func NewDetector(threshold float32) *Detector {
	d := &Detector{Threshold: threshold}
	if d.Threshold <= 0 {
		d.Threshold = DefaultThreshold
	}
	d.prefill = make([]float32, PrefillFrames*FrameSize)
	return d
}

// Reset clears counters, state, and the prefill ring.
func (d *Detector) Reset() {
	d.prefillNext = 0
	d.prefillFull = false
	d.inSpeech = false
	d.onsetCounter = 0
	d.hangover = 0
	for i := range d.prefill {
		d.prefill[i] = 0
	}
}

// InSpeech reports whether the detector currently believes it is inside an utterance.
func (d *Detector) InSpeech() bool { return d.inSpeech }

func rms(frame []float32) float32 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		sum += float64(s) * float64(s)
	}
	mean := sum / float64(len(frame))
	return float32(math.Sqrt(mean))
}

// pushPrefill always feeds the ring, even while in speech, so the next
// utterance's onset is prefilled correctly.
func (d *Detector) pushPrefill(frame []float32) {
	base := d.prefillNext * FrameSize
	copy(d.prefill[base:base+FrameSize], frame)
	d.prefillNext++
	if d.prefillNext >= PrefillFrames {
		d.prefillNext = 0
		d.prefillFull = true
	}
}

// prefillContents returns the ring's contents in chronological order.
func (d *Detector) prefillContents() []float32 {
	if !d.prefillFull {
		out := make([]float32, d.prefillNext*FrameSize)
		copy(out, d.prefill[:d.prefillNext*FrameSize])
		return out
	}
	out := make([]float32, PrefillFrames*FrameSize)
	head := d.prefillNext * FrameSize
	n := copy(out, d.prefill[head:])
	copy(out[n:], d.prefill[:head])
	return out
}

// Process runs the state machine over one fixed-size frame. frame must be
// exactly FrameSize samples.
func (d *Detector) Process(frame []float32) Result {
	energy := rms(frame)
	isVoice := energy > d.Threshold

	// Prefill is fed unconditionally, before the onset/state transition
	// below, so the ring already contains the current frame if this call
	// turns out to be the onset.
	d.pushPrefill(frame)

	if !d.inSpeech {
		if isVoice {
			d.onsetCounter++
			if d.onsetCounter >= OnsetFrames {
				d.inSpeech = true
				d.onsetCounter = 0
				d.hangover = HangoverFrames
				return Result{IsSpeech: true, EmittedSamples: d.prefillContents()}
			}
			return Result{}
		}
		d.onsetCounter = 0
		return Result{}
	}

	// in speech
	if isVoice {
		d.hangover = HangoverFrames
		return Result{IsSpeech: true, EmittedSamples: append([]float32{}, frame...)}
	}

	if d.hangover > 0 {
		d.hangover--
		return Result{IsSpeech: true, EmittedSamples: append([]float32{}, frame...)}
	}

	d.inSpeech = false
	d.onsetCounter = 0
	return Result{SpeechEnded: true}
}
