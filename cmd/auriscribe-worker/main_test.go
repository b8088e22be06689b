//go:build cgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/quietkey/auriscribe/internal/recog"
)

func TestUnloadWithoutModelIsNoOp(t *testing.T) {
	var in, out bytes.Buffer
	if err := recog.WriteUnload(&in); err != nil {
		t.Fatalf("WriteUnload: %v", err)
	}
	if err := recog.WriteQuit(&in); err != nil {
		t.Fatalf("WriteQuit: %v", err)
	}

	if err := run(&in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	msg, err := recog.ReadMessage(&out)
	if err != nil {
		t.Fatalf("ReadMessage(unload reply): %v", err)
	}
	if msg.Type != recog.RespOK || string(msg.Payload) != "unloaded" {
		t.Fatalf("unexpected unload reply: %+v", msg)
	}

	msg, err = recog.ReadMessage(&out)
	if err != nil {
		t.Fatalf("ReadMessage(quit reply): %v", err)
	}
	if msg.Type != recog.RespOK || string(msg.Payload) != "bye" {
		t.Fatalf("unexpected quit reply: %+v", msg)
	}
}

func TestTranscribeWithoutModelLoadedReturnsError(t *testing.T) {
	var in, out bytes.Buffer
	samples := make([]float32, 16100)
	if err := recog.WriteTranscribe(&in, samples, "", false, 4); err != nil {
		t.Fatalf("WriteTranscribe: %v", err)
	}
	if err := recog.WriteQuit(&in); err != nil {
		t.Fatalf("WriteQuit: %v", err)
	}

	if err := run(&in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	msg, err := recog.ReadMessage(&out)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if msg.Type != recog.RespError || string(msg.Payload) != "No model loaded" {
		t.Fatalf("unexpected reply: %+v", msg)
	}
}

func TestVulkanWarmupWritesStampOnce(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	if err := runVulkanWarmup(); err != nil {
		t.Fatalf("runVulkanWarmup: %v", err)
	}
	stamps, err := filepath.Glob(filepath.Join(dir, "auriscribe", "vulkan-warmup-*.stamp"))
	if err != nil || len(stamps) != 1 {
		t.Fatalf("expected exactly one stamp file, got %v (err %v)", stamps, err)
	}

	info1, _ := os.Stat(stamps[0])
	if err := runVulkanWarmup(); err != nil {
		t.Fatalf("runVulkanWarmup (second call): %v", err)
	}
	info2, _ := os.Stat(stamps[0])
	if info1.ModTime() != info2.ModTime() {
		t.Fatalf("expected second warmup to be a no-op, stamp was rewritten")
	}
}

func TestVulkanWarmupDisabledByEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	t.Setenv("AURISCRIBE_VULKAN_WARMUP", "0")

	if err := runVulkanWarmup(); err != nil {
		t.Fatalf("runVulkanWarmup: %v", err)
	}
	stamps, _ := filepath.Glob(filepath.Join(dir, "auriscribe", "vulkan-warmup-*.stamp"))
	if len(stamps) != 0 {
		t.Fatalf("expected no stamp when disabled, got %v", stamps)
	}
}
