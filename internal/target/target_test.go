// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package target

import (
	"fmt"
	"testing"

	"github.com/quietkey/auriscribe/config"
	"github.com/quietkey/auriscribe/internal/testutils"
)

func testConfig(method string, allowed ...string) *config.Config {
	cfg := &config.Config{PasteMethod: method}
	cfg.Security.AllowedCommands = allowed
	return cfg
}

func lookPathWith(available ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", fmt.Errorf("%s not found", name)
	}
}

func TestCaptureFocusedWindowIsZeroOnWayland(t *testing.T) {
	c := NewCapture(testConfig(config.PasteMethodAuto), testutils.NewMockLogger(), true)
	if got := c.CaptureFocusedWindow(); got != 0 {
		t.Fatalf("expected opaque zero handle on Wayland, got %d", got)
	}
}

func TestPasteEmptyTextIsNoOp(t *testing.T) {
	// No tools are allowed, so any exec attempt would error; empty text
	// must return before dispatching.
	c := NewCapture(testConfig(config.PasteMethodKeystrokesX11), testutils.NewMockLogger(), false)
	if err := c.Paste(42, ""); err != nil {
		t.Fatalf("empty paste should be a no-op, got %v", err)
	}
}

func TestResolveMethodHonoursExplicitSetting(t *testing.T) {
	c := NewCapture(testConfig(config.PasteMethodClipboard), testutils.NewMockLogger(), false)
	c.lookPath = lookPathWith("xdotool")
	if got := c.resolveMethod(config.PasteMethodClipboard); got != config.PasteMethodClipboard {
		t.Fatalf("explicit method overridden: got %s", got)
	}
}

func TestResolveMethodAuto(t *testing.T) {
	tests := []struct {
		name      string
		isWayland bool
		available []string
		want      string
	}{
		{"x11 with xdotool", false, []string{"xdotool"}, config.PasteMethodKeystrokesX11},
		{"x11 without xdotool", false, nil, config.PasteMethodClipboard},
		{"wayland with wtype", true, []string{"wtype"}, config.PasteMethodKeystrokesWayland},
		{"wayland without wtype", true, nil, config.PasteMethodClipboard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCapture(testConfig(config.PasteMethodAuto), testutils.NewMockLogger(), tt.isWayland)
			c.lookPath = lookPathWith(tt.available...)
			if got := c.resolveMethod(config.PasteMethodAuto); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPasteRejectsDisallowedTool(t *testing.T) {
	// Empty allowlist: the back-end must refuse before exec'ing anything.
	c := NewCapture(testConfig(config.PasteMethodKeystrokesX11), testutils.NewMockLogger(), false)
	err := c.Paste(0, "hello")
	if err == nil {
		t.Fatal("expected security policy rejection")
	}
}

func TestPasteUnsupportedMethod(t *testing.T) {
	c := NewCapture(testConfig("teleport"), testutils.NewMockLogger(), false)
	if err := c.Paste(0, "hello"); err == nil {
		t.Fatal("expected unsupported method error")
	}
}
