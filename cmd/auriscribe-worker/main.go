//go:build cgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Command auriscribe-worker is the out-of-process recognition worker: a
// pure request-response loop over stdin/stdout that owns a single loaded
// model handle and runs inference on demand, isolated from the host so a
// GPU-runtime abort cannot take the host down with it.
package main

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quietkey/auriscribe/cmd/auriscribe-worker/runtime"
	"github.com/quietkey/auriscribe/internal/recog"
)

func main() {
	warmupVulkan := flag.Bool("warmup-vulkan", false, "perform a one-shot GPU pipeline warm-up and exit")
	flag.Parse()

	if *warmupVulkan {
		if err := runVulkanWarmup(); err != nil {
			fmt.Fprintf(os.Stderr, "vulkan warmup: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type workerState struct {
	model *runtime.Model
}

func (w *workerState) unload() {
	if w.model != nil {
		_ = w.model.Close()
		w.model = nil
	}
}

// run is the request-response loop: read a 4-byte magic + 1-byte
// command, dispatch, write a framed reply, repeat until Q or EOF.
func run(stdin io.Reader, stdout io.Writer) error {
	in := bufio.NewReader(stdin)
	var state workerState
	defer state.unload()

	for {
		cmd, err := recog.ReadRequestHeader(in)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read request header: %w", err)
		}

		switch cmd {
		case recog.CmdLoad:
			if err := handleLoad(in, stdout, &state); err != nil {
				return err
			}
		case recog.CmdTranscribe:
			if err := handleTranscribe(in, stdout, &state); err != nil {
				return err
			}
		case recog.CmdUnload:
			state.unload()
			if err := recog.WriteMessage(stdout, recog.RespOK, []byte("unloaded")); err != nil {
				return err
			}
		case recog.CmdQuit:
			_ = recog.WriteMessage(stdout, recog.RespOK, []byte("bye"))
			return nil
		default:
			return fmt.Errorf("unknown command byte %q", cmd)
		}
	}
}

func handleLoad(in *bufio.Reader, stdout io.Writer, state *workerState) error {
	req, err := recog.ReadLoadRequest(in)
	if err != nil {
		return fmt.Errorf("read load request: %w", err)
	}

	state.unload()

	gpuDevice := int(req.GPUDeviceIndex)
	if req.GPUDeviceIndex == 0 {
		gpuDevice = -1
	}
	model, err := runtime.Load(req.Path, runtime.Options{UseGPU: req.UseGPU, GPUDevice: gpuDevice})
	if err != nil {
		fmt.Fprintf(os.Stderr, "load model %s: %v\n", req.Path, err)
		return recog.WriteMessage(stdout, recog.RespError, []byte("Failed to load model"))
	}
	state.model = model
	return recog.WriteMessage(stdout, recog.RespOK, []byte("loaded "+string(model.Backend())))
}

func handleTranscribe(in *bufio.Reader, stdout io.Writer, state *workerState) error {
	req, err := recog.ReadTranscribeRequest(in)
	if err != nil {
		return fmt.Errorf("read transcribe request: %w", err)
	}

	if state.model == nil {
		return recog.WriteMessage(stdout, recog.RespError, []byte("No model loaded"))
	}

	text, err := transcribe(state.model, req)
	if err != nil {
		return recog.WriteMessage(stdout, recog.RespError, []byte("Transcription failed: "+err.Error()))
	}
	return recog.WriteMessage(stdout, recog.RespResult, []byte(text))
}

func transcribe(model *runtime.Model, req recog.TranscribeRequest) (string, error) {
	return model.Transcribe(req.Samples, runtime.TranscribeOptions{
		Language:  req.Language,
		Translate: req.Translate,
		Threads:   int(req.ThreadCount),
	})
}

// runVulkanWarmup triggers the first-time GPU pipeline compilation and
// writes a stamp file keyed to this worker build, so subsequent launches
// of the same binary skip the warm-up while an upgraded binary redoes it.
func runVulkanWarmup() error {
	if os.Getenv("AURISCRIBE_VULKAN_WARMUP") == "0" {
		return nil
	}

	stampDir := filepath.Join(xdgCacheHome(), "auriscribe")
	if err := os.MkdirAll(stampDir, 0o700); err != nil {
		return fmt.Errorf("create stamp dir: %w", err)
	}

	key, err := selfDigest()
	if err != nil {
		return fmt.Errorf("digest worker binary: %w", err)
	}
	stamp := filepath.Join(stampDir, "vulkan-warmup-"+key+".stamp")
	if _, err := os.Stat(stamp); err == nil {
		return nil
	}

	if err := warmupBackend(); err != nil {
		return err
	}

	return os.WriteFile(stamp, []byte(key+"\n"), 0o600)
}

// warmupBackend forces the recognizer runtime to initialize its GPU
// backend, compiling the pipeline cache on first run.
func warmupBackend() error {
	runtime.WarmupBackends()
	return nil
}

// selfDigest hashes the running worker executable, the content the GPU
// pipeline cache actually depends on.
func selfDigest() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	f, err := os.Open(exe)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

func xdgCacheHome() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache")
}
