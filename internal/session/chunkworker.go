// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

import (
	"github.com/quietkey/auriscribe/internal/recog"
	"github.com/quietkey/auriscribe/internal/utils"
)

// ChunkWorker is the background consumer of the chunk queue: it invokes
// RecognitionClient for Audio chunks and posts Finalize to the main loop
// on Flush.
type ChunkWorker struct {
	coord   *Coordinator
	done    chan struct{}
	onChunk func(target WindowHandle, text string)
}

// NewChunkWorker builds a ChunkWorker bound to coord.
func NewChunkWorker(coord *Coordinator) *ChunkWorker {
	return &ChunkWorker{coord: coord, done: make(chan struct{})}
}

// SetChunkCallback installs a hook invoked with each successfully
// transcribed utterance as soon as it is recognized, independent of the
// session-final paste. It backs the X11-only paste_each_chunk setting;
// leave unset to only deliver text at finalize.
func (w *ChunkWorker) SetChunkCallback(cb func(target WindowHandle, text string)) {
	w.onChunk = cb
}

// Run pops from the queue until the shutdown sentinel arrives. It is
// intended to be run in its own goroutine.
func (w *ChunkWorker) Run() {
	defer close(w.done)
	for msg := range w.coord.queue {
		if msg.IsShutdown() {
			return
		}
		if msg.IsFlush() {
			w.coord.mainLoop <- MainLoopEvent{Kind: EventFinalize, Target: w.coord.targetWin}
			continue
		}
		w.handleAudio(msg.Samples)
	}
}

// Done is closed once Run has observed the shutdown sentinel.
func (w *ChunkWorker) Done() <-chan struct{} { return w.done }

func (w *ChunkWorker) handleAudio(samples []float32) {
	padded := recog.PadShortUtterance(samples)

	text, err := w.coord.client.Transcribe(padded, w.coord.params.Language, w.coord.params.Translate, w.coord.params.ThreadCount)
	w.coord.noteUsed()

	if err != nil {
		// The dialog itself is owned by the main loop; post exactly one
		// error event per session.
		if w.coord.erroredOnce.CompareAndSwap(false, true) {
			title := "Transcription failed"
			message := err.Error()
			if recog.IsOutOfDeviceMemory(err) {
				title = "Out of device memory"
				message += " (try a smaller model or disable GPU)"
			}
			if w.coord.mainLoop != nil {
				w.coord.mainLoop <- MainLoopEvent{Kind: EventError, Title: title, Message: message}
			}
		}
		return
	}

	text = utils.SanitizeTranscript(text)

	w.coord.transcript.Append(text)
	if w.onChunk != nil && text != "" {
		w.onChunk(w.coord.targetWin, text)
	}
}
