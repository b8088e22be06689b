// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package app assembles the session coordinator, audio capture, hotkey
// manager, recognition client, target capture, tray, notifications, and
// overlay broadcaster into one running process, and owns its lifecycle:
// config load, component wiring, the main-loop event dispatcher, and
// graceful shutdown.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/quietkey/auriscribe/config"
	"github.com/quietkey/auriscribe/internal/audio"
	"github.com/quietkey/auriscribe/internal/hotkey"
	"github.com/quietkey/auriscribe/internal/ipc"
	"github.com/quietkey/auriscribe/internal/logger"
	"github.com/quietkey/auriscribe/internal/notify"
	"github.com/quietkey/auriscribe/internal/overlay"
	"github.com/quietkey/auriscribe/internal/platform"
	"github.com/quietkey/auriscribe/internal/recog"
	"github.com/quietkey/auriscribe/internal/session"
	"github.com/quietkey/auriscribe/internal/tray"
	"github.com/quietkey/auriscribe/internal/utils"
)

// RuntimeContext manages the process lifecycle and shutdown signaling.
type RuntimeContext struct {
	Ctx        context.Context
	Cancel     context.CancelFunc
	ShutdownCh chan os.Signal
	Logger     logger.Logger
}

// NewRuntimeContext builds a RuntimeContext that listens for SIGINT/SIGTERM.
func NewRuntimeContext(log logger.Logger) *RuntimeContext {
	ctx, cancel := context.WithCancel(context.Background())
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	return &RuntimeContext{
		Ctx:        ctx,
		Cancel:     cancel,
		ShutdownCh: shutdownCh,
		Logger:     log,
	}
}

// App is the assembled application: every long-lived subsystem plus the
// main-loop event dispatcher that ties them together.
type App struct {
	Runtime *RuntimeContext

	Config      *config.Config
	Environment platform.EnvironmentType

	Capture     *audio.Capture
	RecogClient *recog.Client
	Target      session.TargetCapture
	Notifier    *notify.Manager
	Overlay     *overlay.Broadcaster
	Tray        tray.TrayManagerInterface

	HotkeyManager   *hotkey.Manager
	hotkeyAvailable bool

	Coordinator  *session.Coordinator
	ChunkWorker  *session.ChunkWorker
	Finalizer    *session.Finalizer
	IdleUnloader *session.IdleModelUnloader
	mainLoop     chan session.MainLoopEvent

	ipcServer *ipc.Server

	transcriptMu   sync.Mutex
	lastTranscript string
}

// NewApp builds an App bound to log; call Initialize before RunAndWait.
func NewApp(log logger.Logger) *App {
	return &App{Runtime: NewRuntimeContext(log)}
}

// Initialize loads configuration from configFile and wires every
// subsystem; no background goroutine is started yet.
func (a *App) Initialize(configFile string) error {
	a.Runtime.Logger.Info("Initializing auriscribe...")

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Config = cfg
	config.ApplyEnvOverrides(cfg)

	if cfg.LogFile != "" || cfg.LogLevel != "" {
		if refined, err := logger.Configure(logger.Config{Level: parseLogLevel(cfg.LogLevel), File: cfg.LogFile}); err != nil {
			a.Runtime.Logger.Warning("failed to apply configured log settings, keeping defaults: %v", err)
		} else {
			a.Runtime.Logger = refined
		}
	}

	a.Environment = platform.DetectEnvironment()
	a.Runtime.Logger.Info("Detected environment: %s", a.Environment)

	a.checkModelFile(cfg.ModelPath)

	if err := a.initComponents(); err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}

	a.Runtime.Logger.Info("Initialization complete")
	return nil
}

// RunAndWait starts every background component and blocks until a
// shutdown signal or context cancellation, then shuts down gracefully.
func (a *App) RunAndWait() error {
	if err := a.startComponents(); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}

	a.Runtime.Logger.Info("auriscribe is ready to use")

	utils.Go(func() {
		sig := <-a.Runtime.ShutdownCh
		a.Runtime.Logger.Info("Shutdown signal received: %s", sig)
		a.Runtime.Cancel()
	})

	<-a.Runtime.Ctx.Done()
	return a.Shutdown()
}

// checkModelFile warns (but never blocks startup) when the configured model
// is missing, empty, or the disk backing it is nearly full - model
// acquisition itself is the external downloader's job, not ours.
func (a *App) checkModelFile(modelPath string) {
	log := a.Runtime.Logger
	if modelPath == "" {
		return
	}
	if !utils.IsValidFile(modelPath) {
		log.Warning("configured model_path %q is missing or unreadable; recording will fail to load a model", modelPath)
		return
	}
	if size, err := utils.GetFileSize(modelPath); err != nil {
		log.Warning("could not stat model_path %q: %v", modelPath, err)
	} else if size == 0 {
		log.Warning("model_path %q is empty, the download may be incomplete", modelPath)
	}
	if err := utils.CheckDiskSpace(modelPath); err != nil {
		log.Warning("%v", err)
	}
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.DebugLevel
	case "warning":
		return logger.WarningLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}

// Shutdown stops every component in reverse dependency order.
func (a *App) Shutdown() error {
	a.Runtime.Logger.Info("Shutting down...")

	if a.HotkeyManager != nil {
		a.HotkeyManager.Stop()
	}
	if a.Coordinator != nil {
		a.Coordinator.Shutdown()
	}
	if a.ChunkWorker != nil {
		select {
		case <-a.ChunkWorker.Done():
		case <-time.After(2 * time.Second):
			a.Runtime.Logger.Warning("chunk worker did not exit within the shutdown window")
		}
	}
	if a.mainLoop != nil {
		close(a.mainLoop)
	}
	if a.IdleUnloader != nil {
		a.IdleUnloader.Disarm()
	}
	if a.RecogClient != nil {
		if err := a.RecogClient.Quit(); err != nil {
			a.Runtime.Logger.Warning("recognition worker quit error: %v", err)
		}
	}
	if a.Overlay != nil {
		a.Overlay.Stop()
	}
	if a.Tray != nil {
		a.Tray.Stop()
	}
	if a.ipcServer != nil {
		a.ipcServer.Stop()
	}
	if ok := utils.WaitAll(5 * time.Second); !ok {
		a.Runtime.Logger.Warning("shutdown timeout - forcing exit")
	}

	a.Runtime.Logger.Info("Shutdown complete")
	return nil
}
