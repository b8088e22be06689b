// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Command auriscribe is the host daemon: it owns the session coordinator,
// audio capture, hotkey grab, tray icon, and the recognition worker
// subprocess. Control it with cmd/cli or the tray's Start/Stop item.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/quietkey/auriscribe/config"
	"github.com/quietkey/auriscribe/internal/app"
	"github.com/quietkey/auriscribe/internal/logger"
	"github.com/quietkey/auriscribe/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logLevel := logger.InfoLevel
	if opts.debug {
		logLevel = logger.DebugLevel
	}
	appLogger := logger.NewDefaultLogger(logLevel)

	lockFile := utils.NewLockFile(utils.GetDefaultLockPath())
	if isRunning, pid, err := lockFile.CheckExistingInstance(); err != nil {
		appLogger.Warning("failed to check existing instance: %v", err)
	} else if isRunning {
		fmt.Fprintf(os.Stderr, "Another instance of auriscribe is already running (PID: %d)\n", pid)
		fmt.Fprintf(os.Stderr, "If you're sure no other instance is running, remove the lock file: %s\n", lockFile.GetLockFilePath())
		return 1
	}
	if err := lockFile.TryLock(); err != nil {
		appLogger.Error("failed to acquire application lock: %v", err)
		return 1
	}
	defer func() {
		if err := lockFile.Unlock(); err != nil {
			appLogger.Warning("failed to release lock: %v", err)
		}
	}()

	application := app.NewApp(appLogger)
	if err := application.Initialize(opts.configFile); err != nil {
		appLogger.Error("failed to initialize: %v", err)
		return 1
	}

	if err := application.RunAndWait(); err != nil {
		appLogger.Error("application error: %v", err)
		return 1
	}
	return 0
}

type options struct {
	configFile string
	debug      bool
}

func parseOptions(args []string) (*options, error) {
	opts := &options{configFile: config.DefaultConfigPath()}

	fs := flag.NewFlagSet("auriscribe", flag.ContinueOnError)
	fs.StringVar(&opts.configFile, "config", opts.configFile, "Path to settings.json")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags]\n\n", os.Args[0])
		fmt.Fprintln(fs.Output(), "Control a running daemon with the auriscribe-cli binary (start/stop/status/transcript).")
		fmt.Fprintln(fs.Output(), "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if remaining := fs.Args(); len(remaining) > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %v\n", remaining)
		fs.Usage()
		return nil, fmt.Errorf("unexpected arguments")
	}
	return opts, nil
}
