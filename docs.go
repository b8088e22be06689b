// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package auriscribe provides a high-level overview of the auriscribe project.
//
// Auriscribe is a push-to-dictate desktop utility written in Go that
// converts speech to text offline using local Whisper models and types
// the transcript into whichever window was focused when recording began.
//
// Process split:
//   - Host daemon (cmd/auriscribe): audio capture, VAD segmentation, the
//     session state machine, hotkey grab, tray icon, and text delivery
//   - Recognition worker (cmd/auriscribe-worker): a separate process that
//     owns the loaded model and answers framed requests over its pipes,
//     so a GPU-runtime abort cannot take the daemon down
//
// Core responsibilities:
//   - Global hotkey using raw X11 XGrabKey (primary), evdev or SIGUSR2 (fallbacks)
//   - Real-time 16 kHz microphone capture via portaudio
//   - Energy-based voice-activity segmentation with prefill and hangover
//   - Per-utterance transcription through the worker, in capture order
//   - Text output routing: synthetic keystrokes (xdotool/wtype/ydotool) or
//     clipboard + simulated paste (xclip/wl-copy), X11 and Wayland
//   - IPC via Unix socket for the auriscribe-cli companion binary
//
// Optional overlay WebSocket feed:
//   - Localhost event broadcaster for an external on-screen indicator
//   - Enabled via config: overlay_enabled: true (default: false)
//   - Endpoint: ws://127.0.0.1:8765/overlay
//
// Testing strategy:
//   - Unit tests colocated with packages (default go test ./...)
package auriscribe
