// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package overlay

import (
	"testing"

	"github.com/quietkey/auriscribe/config"
	"github.com/quietkey/auriscribe/internal/logger"
)

func TestStartDisabledIsNoop(t *testing.T) {
	cfg := &config.Config{OverlayEnabled: false}
	b := NewBroadcaster(cfg, logger.NewDefaultLogger(logger.ErrorLevel))
	if err := b.Start(); err != nil {
		t.Fatalf("Start with overlay disabled should be a no-op, got %v", err)
	}
	if b.started {
		t.Fatalf("server should not have started")
	}
	b.Stop() // must not panic on an unstarted server
}

func TestBroadcastWithNoClientsIsSafe(t *testing.T) {
	cfg := &config.Config{OverlayEnabled: false}
	b := NewBroadcaster(cfg, logger.NewDefaultLogger(logger.ErrorLevel))
	b.Broadcast(Event{Kind: "state", State: "Recording"})
}
