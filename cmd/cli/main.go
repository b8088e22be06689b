// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quietkey/auriscribe/internal/ipc"
	"github.com/quietkey/auriscribe/internal/utils"
)

const (
	defaultStatusTimeout = 5 * time.Second
	defaultStopTimeout   = 60 * time.Second
)

func main() {
	var (
		socketPath string
		jsonOutput bool
		timeoutSec int
	)

	flag.StringVar(&socketPath, "socket", "", "Path to IPC socket (defaults to user runtime path)")
	flag.BoolVar(&jsonOutput, "json", false, "Print responses as JSON")
	flag.IntVar(&timeoutSec, "timeout", 0, "Override timeout in seconds for the command")
	flag.Usage = func() {
		usageWriter := flag.CommandLine.Output()
		writeUsage := func(format string, args ...any) {
			if _, err := fmt.Fprintf(usageWriter, format, args...); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Failed to write usage information: %v\n", err)
			}
		}

		writeUsage("Usage: %s [flags] <command>\n", os.Args[0])
		writeUsage("\n")
		writeUsage("Commands:\n")
		writeUsage("  start        Start recording\n")
		writeUsage("  stop         Stop recording and return transcript\n")
		writeUsage("  status       Show current recording status\n")
		writeUsage("  transcript   Show the last transcript\n")
		writeUsage("\n")
		writeUsage("Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if socketPath == "" {
		socketPath = utils.GetDefaultSocketPath()
	}

	command := strings.ToLower(args[0])
	timeout := deriveTimeout(command, timeoutSec)
	client := ipc.NewClient(socketPath, timeout)

	var (
		out any
		err error
	)

	switch command {
	case "start":
		out, err = client.StartRecording()
	case "stop":
		out, err = client.StopRecording()
	case "status":
		out, err = client.Status()
	case "transcript", "last-transcript":
		out, err = client.LastTranscript()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode response: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printResponse(command, out)
}

func deriveTimeout(command string, override int) time.Duration {
	if override > 0 {
		return time.Duration(override) * time.Second
	}

	switch command {
	case "stop":
		return defaultStopTimeout
	default:
		return defaultStatusTimeout
	}
}

func printResponse(command string, out any) {
	switch command {
	case "start":
		fmt.Println("Recording started.")
	case "stop":
		data := out.(ipc.RecordingData)
		if data.Warning != "" {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", data.Warning)
		}
		if data.Transcript != "" {
			fmt.Println(data.Transcript)
		} else {
			fmt.Println("Recording stopped (no transcript available).")
		}
	case "status":
		data := out.(ipc.StatusData)
		fmt.Printf("Recording: %t\n", data.Recording)
		if data.LastTranscript != "" {
			fmt.Printf("Last transcript: %s\n", data.LastTranscript)
		}
	case "transcript", "last-transcript":
		data := out.(ipc.TranscriptData)
		if data.Transcript != "" {
			fmt.Println(data.Transcript)
		} else {
			fmt.Println("No transcript available.")
		}
	}
}
