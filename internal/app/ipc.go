// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package app

import (
	"fmt"
	"time"

	"github.com/quietkey/auriscribe/internal/ipc"
	"github.com/quietkey/auriscribe/internal/logger"
	"github.com/quietkey/auriscribe/internal/overlay"
	"github.com/quietkey/auriscribe/internal/session"
	"github.com/quietkey/auriscribe/internal/utils"
)

// ipcStopTimeout bounds how long the synchronous "stop" command waits for
// the chunk worker to finish transcribing the trailing utterance.
const ipcStopTimeout = 45 * time.Second

// startIPCServer opens the Unix socket IPC server used by cmd/cli and
// registers the four commands it understands.
func (a *App) startIPCServer() error {
	socketPath := utils.GetDefaultSocketPath()
	server := ipc.NewServer(socketPath, logger.Named(a.Runtime.Logger, "ipc"))
	server.Register(ipc.CommandStartRecording, a.ipcHandleStartRecording)
	server.Register(ipc.CommandStopRecording, a.ipcHandleStopRecording)
	server.Register(ipc.CommandStatus, a.ipcHandleStatus)
	server.Register(ipc.CommandLastTranscript, a.ipcHandleLastTranscript)

	if err := server.Start(); err != nil {
		return err
	}
	a.ipcServer = server
	return nil
}

func (a *App) ipcHandleStartRecording(ipc.Request) (ipc.Response, error) {
	if a.Coordinator.State() != session.Idle {
		return ipc.NewSuccessResponse("already recording", ipc.RecordingData{Recording: true}), nil
	}
	a.Coordinator.StartRecording()
	if a.Coordinator.State() != session.Recording {
		return ipc.Response{}, fmt.Errorf("failed to start recording (audio capture unavailable)")
	}
	a.Tray.SetRecordingState(true)
	a.Overlay.Broadcast(overlay.Event{Kind: "state", State: "recording"})
	return ipc.NewSuccessResponse("recording started", ipc.RecordingData{Recording: true}), nil
}

func (a *App) ipcHandleStopRecording(ipc.Request) (ipc.Response, error) {
	if a.Coordinator.State() == session.Idle {
		return ipc.NewSuccessResponse("recording already stopped", ipc.RecordingData{}), nil
	}
	a.Coordinator.StopRecording()
	a.Tray.SetRecordingState(false)
	a.Overlay.Broadcast(overlay.Event{Kind: "state", State: "processing"})

	transcript, finished := a.waitForTranscript(ipcStopTimeout)
	if !finished {
		return ipc.NewSuccessResponse("recording stopped", ipc.RecordingData{
			Transcript: transcript,
			Warning:    "transcription still in progress, returning the most recent result",
		}), nil
	}
	return ipc.NewSuccessResponse("recording stopped", ipc.RecordingData{Transcript: transcript}), nil
}

func (a *App) ipcHandleStatus(ipc.Request) (ipc.Response, error) {
	return ipc.NewSuccessResponse("status", ipc.StatusData{
		Recording:      a.Coordinator.State() == session.Recording,
		LastTranscript: a.getLastTranscript(),
	}), nil
}

func (a *App) ipcHandleLastTranscript(ipc.Request) (ipc.Response, error) {
	return ipc.NewSuccessResponse("last transcript", ipc.TranscriptData{Transcript: a.getLastTranscript()}), nil
}
