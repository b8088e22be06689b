// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package app

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/quietkey/auriscribe/internal/audio"
	"github.com/quietkey/auriscribe/internal/hotkey"
	"github.com/quietkey/auriscribe/internal/logger"
	"github.com/quietkey/auriscribe/internal/notify"
	"github.com/quietkey/auriscribe/internal/overlay"
	"github.com/quietkey/auriscribe/internal/platform"
	"github.com/quietkey/auriscribe/internal/recog"
	"github.com/quietkey/auriscribe/internal/session"
	"github.com/quietkey/auriscribe/internal/target"
	"github.com/quietkey/auriscribe/internal/tray"
	"github.com/quietkey/auriscribe/internal/utils"
)

const workerBinaryName = "auriscribe-worker"

// pasteEachChunkTarget wraps target.Capture so the Finalizer's end-of-
// session paste becomes a no-op when paste_each_chunk has already
// delivered every utterance to the target window as it was transcribed
// (X11-only; the flag is read but ignored on Wayland).
type pasteEachChunkTarget struct {
	inner                 session.TargetCapture
	suppressFinalizePaste bool
}

func (t *pasteEachChunkTarget) CaptureFocusedWindow() session.WindowHandle {
	return t.inner.CaptureFocusedWindow()
}

func (t *pasteEachChunkTarget) Paste(target session.WindowHandle, text string) error {
	if t.suppressFinalizePaste {
		return nil
	}
	return t.inner.Paste(target, text)
}

// initComponents builds every subsystem but does not start any
// background goroutine or listener.
func (a *App) initComponents() error {
	log := a.Runtime.Logger
	cfg := a.Config

	a.Notifier = notify.NewManager("auriscribe")
	a.Overlay = overlay.NewBroadcaster(cfg, logger.Named(log, "overlay"))

	isWayland := a.Environment == platform.EnvironmentWayland
	realTarget := target.NewCapture(cfg, logger.Named(log, "target"), isWayland)
	pasteEachChunk := cfg.PasteEachChunk && !isWayland
	a.Target = &pasteEachChunkTarget{inner: realTarget, suppressFinalizePaste: pasteEachChunk}

	workerPath, err := resolveWorkerPath()
	if err != nil {
		return fmt.Errorf("locate recognition worker: %w", err)
	}
	a.RecogClient = recog.NewClient(workerPath)

	a.Capture = audio.NewCapture(cfg.Microphone)

	a.mainLoop = make(chan session.MainLoopEvent, 16)

	modelPath := cfg.ModelPath
	params := session.Params{
		ModelPath:      modelPath,
		Language:       cfg.Language,
		Translate:      cfg.TranslateToEnglish,
		ThreadCount:    cfg.ThreadCount,
		GPUDeviceIndex: cfg.GPUDeviceIndex,
		UseGPU:         cfg.UseGPU,
		VADThreshold:   cfg.VADThreshold,
	}
	a.Coordinator = session.NewCoordinator(params, a.Capture, a.Target, a.RecogClient, a.mainLoop)
	a.ChunkWorker = session.NewChunkWorker(a.Coordinator)
	a.IdleUnloader = session.NewIdleModelUnloader(a.Coordinator)
	a.Finalizer = session.NewFinalizer(a.Coordinator, a.IdleUnloader)

	if pasteEachChunk {
		a.ChunkWorker.SetChunkCallback(func(target session.WindowHandle, text string) {
			if err := realTarget.Paste(target, text); err != nil {
				log.Warning("paste_each_chunk: %v", err)
			}
		})
	}

	if err := a.initHotkey(); err != nil {
		log.Warning("hotkey setup failed, continuing with tray-only control: %v", err)
	}

	trayLog := logger.Named(log, "tray")
	if os.Getenv("AURISCRIBE_HEADLESS") != "" {
		a.Tray = tray.CreateMockTrayManager(trayLog)
	} else {
		a.Tray = tray.CreateDefaultTrayManager(trayLog)
	}
	a.wireTray()

	return nil
}

// resolveWorkerPath looks for the worker binary next to the running
// executable first, then falls back to PATH.
func resolveWorkerPath() (string, error) {
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), workerBinaryName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, nil
		}
	}
	if p, err := exec.LookPath(workerBinaryName); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("%s not found next to the executable or in PATH", workerBinaryName)
}

// initHotkey parses the configured key spec, picks an X11 or evdev
// provider depending on the detected display server, and wires the
// toggle callback to the coordinator.
func (a *App) initHotkey() error {
	spec, err := hotkey.ParseKeySpec(a.Config.Hotkey)
	if err != nil {
		return fmt.Errorf("parse hotkey spec %q: %w", a.Config.Hotkey, err)
	}

	var provider hotkey.Provider
	if a.Environment == platform.EnvironmentWayland {
		provider = hotkey.NewEvdevProvider()
	} else {
		x11, err := hotkey.NewX11Provider()
		if err != nil {
			a.Runtime.Logger.Warning("X11 hotkey provider unavailable, falling back to evdev: %v", err)
			provider = hotkey.NewEvdevProvider()
		} else {
			provider = x11
		}
	}

	a.HotkeyManager = hotkey.NewManager(provider, spec, a.handleToggle)
	return nil
}

// handleToggle is the debounced hotkey callback: it drives the
// coordinator's Idle/Recording toggle and frees the manager's
// single-pending-toggle guard once the (fast, non-blocking) transition
// has been applied.
func (a *App) handleToggle() {
	a.Coordinator.HandleToggle()
	a.Tray.SetRecordingState(a.Coordinator.State() == session.Recording)
	a.HotkeyManager.ClearPending()
}

func (a *App) wireTray() {
	a.Tray.UpdateSettings(a.Config)
	a.Tray.SetToggleAction(a.handleToggle)
	a.Tray.SetExitAction(func() {
		a.Runtime.Cancel()
	})
}

// startComponents starts every background goroutine and listener: the
// chunk worker, the main-loop dispatcher, the hotkey grab, the tray icon,
// the overlay broadcaster, and the IPC server.
func (a *App) startComponents() error {
	log := a.Runtime.Logger

	utils.Go(a.ChunkWorker.Run)
	utils.Go(a.runMainLoop)

	a.Tray.Start()

	if a.HotkeyManager != nil {
		if err := a.HotkeyManager.Start(); err != nil {
			log.Warning("hotkey grab unavailable, signal fallback only: %v", err)
			a.hotkeyAvailable = false
		} else {
			a.hotkeyAvailable = true
		}
		a.Tray.SetHotkeyAvailable(a.hotkeyAvailable)
	}

	if err := a.Overlay.Start(); err != nil {
		log.Warning("overlay broadcaster failed to start: %v", err)
	}

	if err := a.startIPCServer(); err != nil {
		log.Warning("IPC server failed to start: %v", err)
	}

	if a.Config.Autostart {
		log.Debug("autostart enabled (handled by the desktop session, not the daemon)")
	}

	a.startVulkanWarmup()

	return nil
}

// startVulkanWarmup forks the worker in its one-shot GPU warm-up mode so
// the first real transcription does not pay the pipeline compilation
// cost. AURISCRIBE_VULKAN_WARMUP=0 disables the fork.
func (a *App) startVulkanWarmup() {
	if os.Getenv("AURISCRIBE_VULKAN_WARMUP") == "0" {
		return
	}
	workerPath, err := resolveWorkerPath()
	if err != nil {
		return
	}
	log := a.Runtime.Logger
	utils.Go(func() {
		cmd := exec.Command(workerPath, "--warmup-vulkan")
		if out, err := cmd.CombinedOutput(); err != nil {
			log.Debug("vulkan warmup: %v (output: %s)", err, out)
		}
	})
}
