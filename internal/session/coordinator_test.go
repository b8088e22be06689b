// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

import (
	"fmt"
	"testing"

	"github.com/quietkey/auriscribe/internal/audio"
	"github.com/quietkey/auriscribe/internal/recog"
)

type fakeCapture struct {
	startErr error
	cb       audio.FrameCallback
	running  bool
}

func (f *fakeCapture) Start(cb audio.FrameCallback) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.cb = cb
	f.running = true
	return nil
}
func (f *fakeCapture) Stop() { f.running = false }

type fakeTarget struct {
	handle WindowHandle
	pastes []pasteCall
}

type pasteCall struct {
	target WindowHandle
	text   string
}

func (f *fakeTarget) CaptureFocusedWindow() WindowHandle { return f.handle }
func (f *fakeTarget) Paste(target WindowHandle, text string) error {
	f.pastes = append(f.pastes, pasteCall{target, text})
	return nil
}

type fakeClient struct {
	state     recog.SessionState
	responses []fakeResponse
	calls     int
	quits     int
}

type fakeResponse struct {
	text string
	err  error
}

func (f *fakeClient) LoadAsync(recog.LoadParams) error { f.state = recog.Loading; return nil }
func (f *fakeClient) Unload() error { f.state = recog.Unloaded; return nil }
func (f *fakeClient) Quit() error   { f.quits++; f.state = recog.Unloaded; return nil }
func (f *fakeClient) State() recog.SessionState { return f.state }
func (f *fakeClient) Transcribe(samples []float32, lang string, translate bool, threads uint32) (string, error) {
	if f.calls >= len(f.responses) {
		return "", fmt.Errorf("no canned response for call %d", f.calls)
	}
	r := f.responses[f.calls]
	f.calls++
	return r.text, r.err
}

func zerosFrame() []float32 { return make([]float32, audio.FrameSamples) }

func voicedFrame(rms float32) []float32 {
	f := make([]float32, audio.FrameSamples)
	for i := range f {
		f[i] = rms
	}
	return f
}

func newTestCoordinator(client RecognitionClient) (*Coordinator, *fakeCapture, *fakeTarget, chan MainLoopEvent) {
	cap := &fakeCapture{}
	tgt := &fakeTarget{handle: 42}
	mainLoop := make(chan MainLoopEvent, 16)
	coord := NewCoordinator(Params{ModelPath: "m.bin"}, cap, tgt, client, mainLoop)
	return coord, cap, tgt, mainLoop
}

func drainAll(c *Coordinator) []ChunkMessage {
	var out []ChunkMessage
	for {
		select {
		case m := <-c.queue:
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestSilenceOnlySessionProducesOnlyFlush(t *testing.T) {
	client := &fakeClient{}
	coord, cap, tgt, _ := newTestCoordinator(client)

	coord.StartRecording()
	if coord.State() != Recording {
		t.Fatalf("expected Recording after start")
	}

	// 3s of zeros at 640 samples/frame, ~16000*3/640 frames.
	for i := 0; i < 75; i++ {
		cap.cb(zerosFrame())
	}

	coord.StopRecording()
	if coord.State() != Processing {
		t.Fatalf("expected Processing after stop")
	}

	msgs := drainAll(coord)
	if len(msgs) != 1 || !msgs[0].IsFlush() {
		t.Fatalf("expected exactly one Flush message, got %+v", msgs)
	}
	if len(tgt.pastes) != 0 {
		t.Fatalf("expected no paste calls before finalize, got %v", tgt.pastes)
	}
}

func TestSingleUtteranceProducesOneAudioChunk(t *testing.T) {
	client := &fakeClient{}
	coord, cap, _, _ := newTestCoordinator(client)
	coord.StartRecording()

	// 10 frames silence, 60 frames speech, 30 frames silence (drains in 640-sample blocks).
	feedFrames(cap, 10, zerosFrame)
	feedFrames(cap, 60, func() []float32 { return voicedFrame(0.05) })
	feedFrames(cap, 30, zerosFrame)

	coord.StopRecording()
	msgs := drainAll(coord)

	var audioChunks int
	for _, m := range msgs {
		if m.IsAudio() {
			audioChunks++
		}
	}
	if audioChunks != 1 {
		t.Fatalf("expected exactly one Audio chunk, got %d (msgs=%+v)", audioChunks, msgs)
	}
}

func feedFrames(cap *fakeCapture, n int, gen func() []float32) {
	for i := 0; i < n; i++ {
		cap.cb(gen())
	}
}

func TestTwoUtterancesSeparatedBySilenceProduceTwoChunksInOrder(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{{text: "first"}, {text: "second"}}}
	coord, cap, tgt, events := newTestCoordinator(client)
	coord.StartRecording()

	feedFrames(cap, 5, zerosFrame)
	feedFrames(cap, 40, func() []float32 { return voicedFrame(0.05) })
	// > hangover (15 frames * 480 samples) of silence to end first utterance,
	// expressed in 640-sample capture frames.
	feedFrames(cap, 20, zerosFrame)
	feedFrames(cap, 40, func() []float32 { return voicedFrame(0.05) })

	coord.StopRecording()

	worker := NewChunkWorker(coord)
	go worker.Run()
	coord.Shutdown()
	<-worker.Done()

	// Drain the finalize event and run it through the Finalizer.
	select {
	case ev := <-events:
		f := NewFinalizer(coord, nil)
		if err := f.Finalize(ev); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
	default:
		t.Fatalf("expected a finalize event")
	}

	if len(tgt.pastes) != 1 {
		t.Fatalf("expected exactly one paste, got %d", len(tgt.pastes))
	}
	if tgt.pastes[0].text != "first second" {
		t.Fatalf("transcript = %q, want %q", tgt.pastes[0].text, "first second")
	}
}

func TestRecognitionWorkerOOMOnSecondChunk(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{text: "ok"},
		{err: fmt.Errorf("transcription failed: out of device memory")},
	}}
	coord, cap, tgt, events := newTestCoordinator(client)
	coord.StartRecording()

	feedFrames(cap, 5, zerosFrame)
	feedFrames(cap, 40, func() []float32 { return voicedFrame(0.05) })
	feedFrames(cap, 20, zerosFrame)
	feedFrames(cap, 40, func() []float32 { return voicedFrame(0.05) })

	coord.StopRecording()

	worker := NewChunkWorker(coord)
	go worker.Run()
	coord.Shutdown()
	<-worker.Done()

	var finalizeEvent *MainLoopEvent
	var errEvents int
	for {
		select {
		case ev := <-events:
			if ev.Kind == EventFinalize {
				e := ev
				finalizeEvent = &e
			} else {
				errEvents++
			}
			continue
		default:
		}
		break
	}

	if errEvents != 1 {
		t.Fatalf("expected exactly one error event, got %d", errEvents)
	}
	if finalizeEvent == nil {
		t.Fatalf("expected a finalize event")
	}

	f := NewFinalizer(coord, nil)
	if err := f.Finalize(*finalizeEvent); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(tgt.pastes) != 1 || tgt.pastes[0].text != "ok" {
		t.Fatalf("unexpected paste result: %+v", tgt.pastes)
	}
	if coord.State() != Idle {
		t.Fatalf("expected Idle after finalize, got %s", coord.State())
	}
}

func TestIdleStartStopWithNoAudioReturnsToIdleWithEmptyTranscript(t *testing.T) {
	client := &fakeClient{}
	coord, _, tgt, events := newTestCoordinator(client)

	coord.StartRecording()
	coord.StopRecording()

	worker := NewChunkWorker(coord)
	go worker.Run()
	coord.Shutdown()
	<-worker.Done()

	select {
	case ev := <-events:
		f := NewFinalizer(coord, nil)
		if err := f.Finalize(ev); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
	default:
		t.Fatalf("expected a finalize event")
	}

	if coord.State() != Idle {
		t.Fatalf("expected Idle, got %s", coord.State())
	}
	if len(tgt.pastes) != 0 {
		t.Fatalf("expected no paste on empty transcript, got %v", tgt.pastes)
	}
}

func TestStartRecordingRemainsIdleOnCaptureFailure(t *testing.T) {
	client := &fakeClient{}
	coord, cap, _, _ := newTestCoordinator(client)
	cap.startErr = fmt.Errorf("audio open failed")

	coord.StartRecording()
	if coord.State() != Idle {
		t.Fatalf("expected Idle after capture start failure, got %s", coord.State())
	}
}

func TestModelLoadAsyncIssuedBeforeRecordingBegins(t *testing.T) {
	client := &fakeClient{}
	coord, _, _, _ := newTestCoordinator(client)
	coord.StartRecording()

	if client.state != recog.Loading {
		t.Fatalf("expected LoadAsync to have been issued, state=%v", client.state)
	}
	if coord.State() != Recording {
		t.Fatalf("expected recording to begin immediately, got %s", coord.State())
	}
}

func TestStartRecordingReissuesLoadAfterWorkerFailure(t *testing.T) {
	client := &fakeClient{state: recog.Failed}
	coord, _, _, _ := newTestCoordinator(client)
	coord.StartRecording()

	if client.state != recog.Loading {
		t.Fatalf("expected a Failed session to respawn via LoadAsync, state=%v", client.state)
	}
}

func TestUtteranceBufferEmptyAfterChunkAndAfterIdle(t *testing.T) {
	client := &fakeClient{}
	coord, cap, _, _ := newTestCoordinator(client)
	coord.StartRecording()

	feedFrames(cap, 5, zerosFrame)
	feedFrames(cap, 40, func() []float32 { return voicedFrame(0.05) })
	feedFrames(cap, 20, zerosFrame)

	if len(coord.utterance) != 0 {
		t.Fatalf("expected utterance buffer empty right after moving into a chunk, got %d samples", len(coord.utterance))
	}

	coord.StopRecording()
	if len(coord.utterance) != 0 {
		t.Fatalf("expected utterance buffer empty after stop, got %d samples", len(coord.utterance))
	}
}
