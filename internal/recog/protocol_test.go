// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package recog

import (
	"bytes"
	"testing"
)

func TestLoadRequestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLoad(&buf, "/models/ggml-base.bin", 4, 0, true); err != nil {
		t.Fatalf("WriteLoad: %v", err)
	}
	cmd, err := ReadRequestHeader(&buf)
	if err != nil {
		t.Fatalf("ReadRequestHeader: %v", err)
	}
	if cmd != CmdLoad {
		t.Fatalf("cmd = %q, want L", cmd)
	}
	req, err := ReadLoadRequest(&buf)
	if err != nil {
		t.Fatalf("ReadLoadRequest: %v", err)
	}
	if req.Path != "/models/ggml-base.bin" || req.ThreadCount != 4 || !req.UseGPU {
		t.Fatalf("unexpected load request: %+v", req)
	}
}

func TestTranscribeRequestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	samples := []float32{0, 0.5, -0.5, 1, -1}
	if err := WriteTranscribe(&buf, samples, "en", true, 8); err != nil {
		t.Fatalf("WriteTranscribe: %v", err)
	}
	cmd, err := ReadRequestHeader(&buf)
	if err != nil || cmd != CmdTranscribe {
		t.Fatalf("ReadRequestHeader: cmd=%q err=%v", cmd, err)
	}
	req, err := ReadTranscribeRequest(&buf)
	if err != nil {
		t.Fatalf("ReadTranscribeRequest: %v", err)
	}
	if req.Language != "en" || !req.Translate || req.ThreadCount != 8 {
		t.Fatalf("unexpected transcribe request: %+v", req)
	}
	if len(req.Samples) != len(samples) {
		t.Fatalf("samples length mismatch: got %d want %d", len(req.Samples), len(samples))
	}
	for i := range samples {
		if req.Samples[i] != samples[i] {
			t.Fatalf("sample %d = %v, want %v", i, req.Samples[i], samples[i])
		}
	}
}

func TestMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, RespResult, []byte("hello world")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	msg, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if msg.Type != RespResult || string(msg.Payload) != "hello world" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestEmptyResultMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, RespResult, nil); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	msg, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if msg.Type != RespResult || len(msg.Payload) != 0 {
		t.Fatalf("expected empty-result message, got %+v", msg)
	}
}

func TestPadShortUtterance(t *testing.T) {
	short := make([]float32, 100)
	padded := PadShortUtterance(short)
	if len(padded) != MinPaddedSamples {
		t.Fatalf("len(padded) = %d, want %d", len(padded), MinPaddedSamples)
	}

	long := make([]float32, MinPaddedSamples+1)
	if p := PadShortUtterance(long); len(p) != len(long) {
		t.Fatalf("long utterance should not be padded, got len %d", len(p))
	}
}

func TestBadRequestMagic(t *testing.T) {
	buf := bytes.NewBufferString("xxxxL")
	if _, err := ReadRequestHeader(buf); err == nil {
		t.Fatalf("expected error on bad magic")
	}
}
