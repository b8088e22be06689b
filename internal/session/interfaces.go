// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

import "github.com/quietkey/auriscribe/internal/recog"

// RecognitionClient is the subset of recog.Client the coordinator and
// chunk worker depend on; defined as an interface so tests can substitute
// a fake worker process.
type RecognitionClient interface {
	LoadAsync(params recog.LoadParams) error
	Transcribe(samples []float32, language string, translate bool, threadCount uint32) (string, error)
	Unload() error
	Quit() error
	State() recog.SessionState
}

// WindowHandle is the opaque target-window identifier captured at the
// moment recording starts; zero on non-X11 displays.
type WindowHandle uint64

// TargetCapture identifies the focused window and delivers the finished
// transcript to it.
type TargetCapture interface {
	CaptureFocusedWindow() WindowHandle
	Paste(target WindowHandle, text string) error
}

