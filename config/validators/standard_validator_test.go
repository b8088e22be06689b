// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package validators

import "github.com/quietkey/auriscribe/config/models"
import "testing"

func validConfig() models.Config {
	var c models.Config
	c.VADThreshold = 0.02
	c.PasteMethod = models.PasteMethodAuto
	c.OverlayPosition = models.OverlayPositionTarget
	c.ChunkOutput = models.ChunkOutputTarget
	c.ThreadCount = 4
	c.Security.AllowedCommands = []string{"xdotool"}
	return c
}

func TestValidateConfigAcceptsValidConfig(t *testing.T) {
	c := validConfig()
	if err := ValidateConfig(&c); err != nil {
		t.Fatalf("expected no errors for a valid config, got %v", err)
	}
}

func TestValidateConfigCorrectsBadThreshold(t *testing.T) {
	c := validConfig()
	c.VADThreshold = -1
	if err := ValidateConfig(&c); err == nil {
		t.Fatal("expected validation error for bad vad_threshold")
	}
	if c.VADThreshold != 0.02 {
		t.Fatalf("expected vad_threshold corrected to 0.02, got %v", c.VADThreshold)
	}
}

func TestValidateConfigCorrectsBadPasteMethod(t *testing.T) {
	c := validConfig()
	c.PasteMethod = "bogus"
	if err := ValidateConfig(&c); err == nil {
		t.Fatal("expected validation error for bad paste_method")
	}
	if c.PasteMethod != models.PasteMethodAuto {
		t.Fatalf("expected paste_method corrected to auto, got %q", c.PasteMethod)
	}
}

func TestValidateConfigPopulatesEmptyAllowedCommands(t *testing.T) {
	c := validConfig()
	c.Security.AllowedCommands = nil
	if err := ValidateConfig(&c); err == nil {
		t.Fatal("expected validation error for empty allowed_commands")
	}
	if len(c.Security.AllowedCommands) == 0 {
		t.Fatal("expected allowed_commands to be populated with defaults")
	}
}

func TestValidateConfigClampsOverlayPort(t *testing.T) {
	c := validConfig()
	c.OverlayEnabled = true
	c.Overlay.Port = -1
	if err := ValidateConfig(&c); err == nil {
		t.Fatal("expected validation error for bad overlay port")
	}
	if c.Overlay.Port != 8765 {
		t.Fatalf("expected overlay port corrected to 8765, got %d", c.Overlay.Port)
	}
}
