//go:build cgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package runtime

import (
	"fmt"
	"os"
	"strings"

	// Low-level bindings
	whispercpp "github.com/ggerganov/whisper.cpp/bindings/go"
)

// Model owns one loaded whisper context.
type Model struct {
	path    string
	ctx     *whispercpp.Context
	backend BackendType
}

// TranscribeOptions configure one inference run.
type TranscribeOptions struct {
	// Language is an ISO code; empty or "auto" auto-detects.
	Language string
	// Translate requests translation to English.
	Translate bool
	// Threads is the inference thread count.
	Threads int
}

// Load initialises a model from path with the given runtime options,
// trying the preferred backend first and falling back to CPU.
func Load(path string, opts Options) (*Model, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	var lastErr error
	for _, backend := range opts.orderedBackends() {
		ctx, err := loadContext(path, backend, opts.GPUDevice)
		if err == nil {
			return &Model{path: path, ctx: ctx, backend: backend}, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Backend reports which backend the model ended up on.
func (m *Model) Backend() BackendType { return m.backend }

// Close frees the whisper context.
func (m *Model) Close() error {
	if m.ctx != nil {
		m.ctx.Whisper_free()
	}
	m.ctx = nil
	return nil
}

// Transcribe runs one inference pass over samples with single_segment and
// no_context set, and returns the concatenated segment text with the
// single leading space the recognizer habitually prepends stripped.
func (m *Model) Transcribe(samples []float32, opts TranscribeOptions) (string, error) {
	if m.ctx == nil {
		return "", fmt.Errorf("model is closed")
	}

	params := m.ctx.Whisper_full_default_params(whispercpp.SAMPLING_GREEDY)
	params.SetPrintSpecial(false)
	params.SetPrintProgress(false)
	params.SetPrintRealtime(false)
	params.SetPrintTimestamps(false)
	params.SetNoContext(true)
	params.SetSingleSegment(true)
	params.SetTranslate(opts.Translate)
	if opts.Threads > 0 {
		params.SetThreads(opts.Threads)
	}

	lang := opts.Language
	if lang == "" || lang == "auto" {
		params.SetLanguage(-1)
	} else {
		id := m.ctx.Whisper_lang_id(lang)
		if id < 0 {
			return "", fmt.Errorf("unknown language %q", lang)
		}
		params.SetLanguage(id)
	}

	if err := m.ctx.Whisper_full(params, samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("inference: %w", err)
	}

	var sb strings.Builder
	for i := 0; i < m.ctx.Whisper_full_n_segments(); i++ {
		sb.WriteString(m.ctx.Whisper_full_get_segment_text(i))
	}
	return strings.TrimPrefix(sb.String(), " "), nil
}
