// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package hotkey

import "testing"

func TestParseKeySpecBasic(t *testing.T) {
	ks, err := ParseKeySpec("<Super>+<Shift>+F12")
	if err != nil {
		t.Fatalf("ParseKeySpec: %v", err)
	}
	if ks.Key != "F12" {
		t.Fatalf("Key = %q, want F12", ks.Key)
	}
	if len(ks.Modifiers) != 2 || ks.Modifiers[0] != "super" || ks.Modifiers[1] != "shift" {
		t.Fatalf("Modifiers = %v", ks.Modifiers)
	}
}

func TestParseKeySpecBracketForm(t *testing.T) {
	ks, err := ParseKeySpec("[Super]Space")
	if err != nil {
		t.Fatalf("ParseKeySpec: %v", err)
	}
	if ks.Key != "Space" {
		t.Fatalf("Key = %q, want Space", ks.Key)
	}
	if len(ks.Modifiers) != 1 || ks.Modifiers[0] != "super" {
		t.Fatalf("Modifiers = %v", ks.Modifiers)
	}

	if _, err := ParseKeySpec("[Super"); err == nil {
		t.Fatalf("expected error on unterminated bracket")
	}
	if _, err := ParseKeySpec("[Super]"); err == nil {
		t.Fatalf("expected error on bracket-only spec")
	}
}

func TestParseKeySpecNoModifiers(t *testing.T) {
	ks, err := ParseKeySpec("F12")
	if err != nil {
		t.Fatalf("ParseKeySpec: %v", err)
	}
	if len(ks.Modifiers) != 0 {
		t.Fatalf("expected no modifiers, got %v", ks.Modifiers)
	}
}

func TestParseKeySpecRejectsEmptyAndModifierOnlyKey(t *testing.T) {
	if _, err := ParseKeySpec(""); err == nil {
		t.Fatalf("expected error on empty spec")
	}
	if _, err := ParseKeySpec("ctrl+shift"); err == nil {
		t.Fatalf("expected error when key is itself a modifier")
	}
}

func TestParseKeySpecRejectsUnknownModifier(t *testing.T) {
	if _, err := ParseKeySpec("bogus+F12"); err == nil {
		t.Fatalf("expected error on unknown modifier")
	}
}
