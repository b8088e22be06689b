// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package hotkey owns the global key grab on the windowing system plus a
// signal-based fallback; it debounces presses and posts a toggle request
// to the main loop.
package hotkey

import (
	"fmt"
	"strings"
)

// KeySpec is a parsed textual key specification of the form
// "[<Modifier>...]KeyName".
type KeySpec struct {
	Key       string
	Modifiers []string
}

// modifierAliases maps recognized spellings (including the angle-bracket
// form used in settings, e.g. "<Super>", "<Ctrl>") to a canonical name.
var modifierAliases = map[string]string{
	"super":   "super",
	"mod4":    "super",
	"win":     "super",
	"meta":    "super",
	"control": "control",
	"ctrl":    "control",
	"alt":     "alt",
	"mod1":    "alt",
	"shift":   "shift",
}

// ParseKeySpec parses a hotkey string such as "[Super]Space",
// "<Super>+<Shift>+F12" or "ctrl+alt+space" into a KeySpec. Bracketed
// prefixes are modifiers; after those, the last '+'-separated part is
// the key and everything before it is a modifier.
func ParseKeySpec(spec string) (KeySpec, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return KeySpec{}, fmt.Errorf("hotkey: empty key spec")
	}

	var ks KeySpec
	for strings.HasPrefix(spec, "[") {
		end := strings.Index(spec, "]")
		if end < 0 {
			return KeySpec{}, fmt.Errorf("hotkey: unterminated modifier bracket in spec %q", spec)
		}
		raw := strings.ToLower(strings.TrimSpace(spec[1:end]))
		canon, ok := modifierAliases[raw]
		if !ok {
			return KeySpec{}, fmt.Errorf("hotkey: unknown modifier %q in spec %q", spec[1:end], spec)
		}
		ks.Modifiers = append(ks.Modifiers, canon)
		spec = strings.TrimSpace(spec[end+1:])
	}
	if spec == "" {
		return KeySpec{}, fmt.Errorf("hotkey: missing key in spec")
	}

	parts := strings.Split(spec, "+")
	ks.Key = strings.Trim(strings.TrimSpace(parts[len(parts)-1]), "<>")
	if ks.Key == "" {
		return KeySpec{}, fmt.Errorf("hotkey: missing key in spec %q", spec)
	}
	if IsModifierName(ks.Key) {
		return KeySpec{}, fmt.Errorf("hotkey: key cannot be a modifier: %q", spec)
	}

	for _, p := range parts[:len(parts)-1] {
		raw := strings.ToLower(strings.Trim(strings.TrimSpace(p), "<>"))
		canon, ok := modifierAliases[raw]
		if !ok {
			return KeySpec{}, fmt.Errorf("hotkey: unknown modifier %q in spec %q", p, spec)
		}
		ks.Modifiers = append(ks.Modifiers, canon)
	}
	return ks, nil
}

// IsModifierName reports whether name is a recognized modifier keyword
// rather than a base key.
func IsModifierName(name string) bool {
	_, ok := modifierAliases[strings.ToLower(name)]
	return ok
}
