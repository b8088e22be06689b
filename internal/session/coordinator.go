// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quietkey/auriscribe/internal/audio"
	"github.com/quietkey/auriscribe/internal/audio/debugdump"
	"github.com/quietkey/auriscribe/internal/recog"
	"github.com/quietkey/auriscribe/internal/vad"
)

// AudioCapture is the subset of audio.Capture the coordinator depends on.
type AudioCapture interface {
	Start(cb audio.FrameCallback) error
	Stop()
}

// Params configures per-session recognition behavior.
type Params struct {
	ModelPath      string
	Language       string // "" or "auto" means auto-detect
	Translate      bool
	ThreadCount    uint32
	GPUDeviceIndex uint32
	UseGPU         bool
	VADThreshold   float32

	// TailPaddingSamples is the trailing silence appended before an
	// utterance is moved into a chunk (~300ms at 16kHz).
	TailPaddingSamples int
}

// Coordinator is the central state machine: Idle<->Recording<->Processing.
// It owns the current utterance buffer, the chunk queue, and the
// accumulated transcript.
type Coordinator struct {
	params Params

	mu    sync.Mutex
	state State

	vadDetector *vad.Detector
	reblock     audio.Reblocker
	utterance   []float32

	capture AudioCapture
	target  TargetCapture
	client  RecognitionClient

	queue       chan ChunkMessage
	chunkSeq    atomic.Uint64
	transcript  *Transcript
	targetWin   WindowHandle
	mainLoop    chan<- MainLoopEvent
	erroredOnce atomic.Bool

	lastUsedMu sync.Mutex
	lastUsed   time.Time

	lastFinalizedMu sync.Mutex
	lastFinalized   string
}

// NewCoordinator builds a Coordinator. mainLoop is the channel the
// coordinator and its chunk worker post MainLoopEvents to.
func NewCoordinator(params Params, capture AudioCapture, target TargetCapture, client RecognitionClient, mainLoop chan<- MainLoopEvent) *Coordinator {
	threshold := params.VADThreshold
	if threshold <= 0 {
		threshold = vad.DefaultThreshold
	}
	if params.TailPaddingSamples <= 0 {
		params.TailPaddingSamples = 300 * audio.SampleRate / 1000 // ~300ms
	}
	return &Coordinator{
		params:      params,
		state:       Idle,
		vadDetector: vad.NewDetector(threshold),
		capture:     capture,
		target:      target,
		client:      client,
		queue:       make(chan ChunkMessage, 64),
		transcript:  &Transcript{},
		mainLoop:    mainLoop,
	}
}

// State returns the current Application state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Queue exposes the chunk queue for the ChunkWorkerThread to consume.
func (c *Coordinator) Queue() <-chan ChunkMessage { return c.queue }

// HandleToggle implements the toggle semantics: Idle starts a session,
// Recording stops it, Processing is ignored.
func (c *Coordinator) HandleToggle() {
	switch c.State() {
	case Idle:
		c.StartRecording()
	case Recording:
		c.StopRecording()
	case Processing:
		// ignore
	}
}

// StartRecording implements the seven-step start sequence.
func (c *Coordinator) StartRecording() {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// 1. Async model load if not loaded/loading. A Failed session means
	// the previous worker was killed; the load respawns it.
	if st := c.client.State(); st == recog.Unloaded || st == recog.Failed {
		_ = c.client.LoadAsync(recog.LoadParams{
			ModelPath:      c.params.ModelPath,
			ThreadCount:    c.params.ThreadCount,
			GPUDeviceIndex: c.params.GPUDeviceIndex,
			UseGPU:         c.params.UseGPU,
		})
	}

	// 2. Reset utterance buffer and VAD.
	c.utterance = nil
	c.reblock.Reset()
	c.vadDetector.Reset()

	// 3. Capture the focused window handle now.
	c.targetWin = c.target.CaptureFocusedWindow()

	// 4. Drain stale queue items.
	c.drainQueue()

	// 5. Clear the accumulated transcript.
	c.transcript.Take()
	c.erroredOnce.Store(false)

	// 6. Start audio capture; on failure remain Idle.
	if err := c.capture.Start(c.onFrame); err != nil {
		return
	}

	// 7. Transition to Recording.
	c.mu.Lock()
	c.state = Recording
	c.mu.Unlock()
}

func (c *Coordinator) drainQueue() {
	for {
		select {
		case <-c.queue:
		default:
			return
		}
	}
}

// onFrame is the audio capture callback: it re-blocks to VAD windows,
// runs the detector, and appends emitted samples to the utterance buffer,
// moving it into a chunk on speech-end.
func (c *Coordinator) onFrame(frame []float32) {
	for _, window := range c.reblock.Push(frame) {
		result := c.vadDetector.Process(window)
		if len(result.EmittedSamples) > 0 {
			c.utterance = append(c.utterance, result.EmittedSamples...)
		}
		if result.SpeechEnded {
			c.flushUtterance(true)
		}
	}
}

// flushUtterance moves the current utterance buffer into a chunk,
// optionally padding tail silence first, and allocates a fresh buffer.
func (c *Coordinator) flushUtterance(padTail bool) {
	if len(c.utterance) == 0 {
		return
	}
	buf := c.utterance
	if padTail {
		buf = append(buf, make([]float32, c.params.TailPaddingSamples)...)
	}
	c.utterance = nil
	if debugdump.Enabled() {
		seq := c.chunkSeq.Add(1)
		path := filepath.Join(os.TempDir(), fmt.Sprintf("auriscribe-utterance-%d.wav", seq))
		_ = debugdump.Write(path, buf)
	}
	c.queue <- AudioChunk(buf)
}

// StopRecording implements the four-step stop sequence.
func (c *Coordinator) StopRecording() {
	c.mu.Lock()
	if c.state != Recording {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// 1. Stop the audio capture thread (blocking join).
	c.capture.Stop()

	// 2. Pad and enqueue any remaining utterance buffer.
	c.flushUtterance(true)

	// 3. Enqueue a Flush marker.
	c.queue <- FlushChunk()

	// 4. Transition to Processing.
	c.mu.Lock()
	c.state = Processing
	c.mu.Unlock()
}

// Shutdown pushes the distinct shutdown sentinel so the chunk worker
// exits without triggering a finalize.
func (c *Coordinator) Shutdown() {
	c.queue <- ShutdownChunk()
}

// noteUsed records the model-last-used timestamp, read by the idle unloader.
func (c *Coordinator) noteUsed() {
	c.lastUsedMu.Lock()
	c.lastUsed = time.Now()
	c.lastUsedMu.Unlock()
}

// LastUsed returns the model-last-used timestamp.
func (c *Coordinator) LastUsed() time.Time {
	c.lastUsedMu.Lock()
	defer c.lastUsedMu.Unlock()
	return c.lastUsed
}

// setLastFinalized records the most recently finalized transcript, read
// by IPC's status/last-transcript commands.
func (c *Coordinator) setLastFinalized(text string) {
	c.lastFinalizedMu.Lock()
	c.lastFinalized = text
	c.lastFinalizedMu.Unlock()
}

// LastFinalized returns the most recently finalized transcript text.
func (c *Coordinator) LastFinalized() string {
	c.lastFinalizedMu.Lock()
	defer c.lastFinalizedMu.Unlock()
	return c.lastFinalized
}

// toIdle transitions back to Idle; called by the Finalizer.
func (c *Coordinator) toIdle() {
	c.mu.Lock()
	c.state = Idle
	c.mu.Unlock()
}
