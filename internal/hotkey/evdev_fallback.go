// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package hotkey

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/quietkey/auriscribe/internal/platform"
)

// evKeyType is the evdev EV_KEY event type constant.
const evKeyType = 1

// EvdevProvider is the automatic fallback used when no X11 display can be
// opened (pure Wayland without XWayland). It is best-effort: it requires
// read access to /dev/input/event*, which is not guaranteed outside of
// the "input" group.
type EvdevProvider struct {
	mu            sync.Mutex
	devices       []*evdev.InputDevice
	stop          chan struct{}
	modifierState map[string]bool
}

// NewEvdevProvider constructs an EvdevProvider. No devices are opened
// until Grab is called.
func NewEvdevProvider() *EvdevProvider {
	return &EvdevProvider{modifierState: make(map[string]bool)}
}

func findKeyboardDevices() ([]*evdev.InputDevice, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var devices []*evdev.InputDevice
	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(dev.Name), "keyboard") || hasKeyCapability(dev) {
			devices = append(devices, dev)
		} else {
			dev.File.Close()
		}
	}
	return devices, nil
}

func hasKeyCapability(dev *evdev.InputDevice) bool {
	for evType, codes := range dev.Capabilities {
		if evType.Type == evKeyType && len(codes) > 0 {
			return true
		}
	}
	return false
}

// Grab opens every detected keyboard device and invokes onPress whenever
// the configured combination's key transitions down while its modifiers
// are held.
func (p *EvdevProvider) Grab(spec KeySpec, onPress func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	devices, err := findKeyboardDevices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		if !platform.CheckPrivileges() {
			return fmt.Errorf("hotkey: no evdev keyboard devices available (not running as root and not in the \"input\" group; /dev/input/event* is likely unreadable)")
		}
		return fmt.Errorf("hotkey: no evdev keyboard devices available")
	}
	p.devices = devices
	p.stop = make(chan struct{})

	for _, dev := range devices {
		go p.readLoop(dev, spec, onPress)
	}
	return nil
}

func (p *EvdevProvider) readLoop(dev *evdev.InputDevice, spec KeySpec, onPress func()) {
	for {
		select {
		case <-p.stop:
			return
		default:
		}
		events, err := dev.Read()
		if err != nil {
			return
		}
		for _, ev := range events {
			if ev.Type != evKeyType {
				continue
			}
			p.handleKeyEvent(ev, spec, onPress)
		}
	}
}

func (p *EvdevProvider) handleKeyEvent(ev evdev.InputEvent, spec KeySpec, onPress func()) {
	name := evdevKeyName(int(ev.Code))

	p.mu.Lock()
	if isEvdevModifier(name) {
		p.modifierState[name] = ev.Value == 1
	}
	modifiersHeld := true
	for _, m := range spec.Modifiers {
		if !p.modifierState[evdevModifierName(m)] {
			modifiersHeld = false
			break
		}
	}
	p.mu.Unlock()

	if ev.Value != 1 || !modifiersHeld {
		return
	}
	if strings.EqualFold(name, spec.Key) {
		onPress()
	}
}

// Ungrab stops all read loops and closes the opened devices.
func (p *EvdevProvider) Ungrab() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
	for _, dev := range p.devices {
		dev.File.Close()
	}
	p.devices = nil
	return nil
}

// Probe reports whether at least one keyboard device is accessible,
// without registering any callback.
func (p *EvdevProvider) Probe(spec KeySpec) (bool, error) {
	devices, err := findKeyboardDevices()
	if err != nil {
		return false, err
	}
	for _, d := range devices {
		d.File.Close()
	}
	return len(devices) > 0, nil
}

func isEvdevModifier(name string) bool {
	switch name {
	case "leftctrl", "rightctrl", "leftalt", "rightalt", "leftshift", "rightshift", "leftmeta", "rightmeta":
		return true
	default:
		return false
	}
}

func evdevModifierName(canonical string) string {
	switch canonical {
	case "control":
		return "leftctrl"
	case "alt":
		return "leftalt"
	case "shift":
		return "leftshift"
	case "super":
		return "leftmeta"
	default:
		return canonical
	}
}

// evdevKeyNames maps the subset of Linux key codes relevant to hotkey
// combinations; unrecognized codes fall back to "KEY_<code>".
var evdevKeyNames = map[int]string{
	1: "esc", 28: "enter", 57: "space",
	29: "leftctrl", 97: "rightctrl",
	56: "leftalt", 100: "rightalt",
	42: "leftshift", 54: "rightshift",
	125: "leftmeta", 126: "rightmeta",
	58: "capslock", 69: "numlock", 70: "scrolllock",
	59: "f1", 60: "f2", 61: "f3", 62: "f4", 63: "f5", 64: "f6",
	65: "f7", 66: "f8", 67: "f9", 68: "f10", 87: "f11", 88: "f12",
}

func evdevKeyName(code int) string {
	if name, ok := evdevKeyNames[code]; ok {
		return name
	}
	return fmt.Sprintf("KEY_%d", code)
}
