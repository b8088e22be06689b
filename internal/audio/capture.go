// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package audio owns the real-time microphone capture loop: a background
// thread reading a low-latency 16 kHz mono stream, converting S16 to f32,
// and invoking a callback with fixed-size frames.
package audio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// FrameSamples is the nominal frame size delivered to the callback (~40 ms at 16 kHz).
const (
	SampleRate    = 16000
	FrameSamples  = 640
)

// FrameCallback receives one capture frame as f32 samples in [-1, 1].
type FrameCallback func(frame []float32)

// Capture owns a single portaudio input stream. It is safe to call Start
// and Stop repeatedly; both are idempotent.
type Capture struct {
	deviceName string

	mu      sync.Mutex
	stream  *portaudio.Stream
	running atomic.Bool
	onFrame FrameCallback
	done    chan struct{}
}

// NewCapture builds a Capture bound to the named input device. An empty
// name selects the host default device.
func NewCapture(deviceName string) *Capture {
	return &Capture{deviceName: deviceName}
}

func (c *Capture) findDevice() (*portaudio.DeviceInfo, error) {
	if c.deviceName == "" {
		return portaudio.DefaultInputDevice()
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate audio devices: %w", err)
	}
	for _, d := range devices {
		if d.Name == c.deviceName && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("audio device %q not found", c.deviceName)
}

// Start opens a 16 kHz S16 mono capture stream with a small-fragment
// latency hint and begins invoking cb with successive frames. It returns an
// error without starting anything if the audio server rejects the stream.
// Calling Start while already running is a no-op.
func (c *Capture) Start(cb FrameCallback) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running.Load() {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize audio server: %w", err)
	}

	device, err := c.findDevice()
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open audio device: %w", err)
	}

	params := portaudio.LowLatencyParameters(device, nil)
	params.Input.Channels = 1
	params.SampleRate = SampleRate
	params.FramesPerBuffer = FrameSamples

	buf := make([]int16, FrameSamples)
	stream, err := portaudio.OpenStream(params, buf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start audio stream: %w", err)
	}

	c.stream = stream
	c.onFrame = cb
	c.done = make(chan struct{})
	c.running.Store(true)

	go c.readLoop(stream, buf, c.done)
	return nil
}

func (c *Capture) readLoop(stream *portaudio.Stream, buf []int16, done chan<- struct{}) {
	defer close(done)
	frame := make([]float32, FrameSamples)
	for c.running.Load() {
		if err := stream.Read(); err != nil {
			continue
		}
		for i, s := range buf {
			frame[i] = float32(s) / 32768.0
		}
		c.onFrame(frame)
	}
}

// Stop sets the running flag to false, joins the read goroutine (Read
// returns within one buffer period, so the flag is observed promptly),
// and only then releases the stream. Calling Stop twice is a no-op. No
// callback fires after Stop returns.
func (c *Capture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running.Load() {
		return
	}
	c.running.Store(false)
	<-c.done

	if c.stream != nil {
		c.stream.Stop()
		c.stream.Close()
		c.stream = nil
	}
	portaudio.Terminate()
}

// Running reports whether the capture stream is currently active.
func (c *Capture) Running() bool {
	return c.running.Load()
}
