// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package platform

import (
	"os"
	"os/exec"

	"github.com/godbus/dbus/v5"
)

// EnvironmentType is the display server the hotkey, tray, and target
// packages each branch their X11-vs-Wayland behavior on.
type EnvironmentType string

const (
	EnvironmentX11     EnvironmentType = "X11"
	EnvironmentWayland EnvironmentType = "Wayland"
	EnvironmentUnknown EnvironmentType = "Unknown"
)

// DetectEnvironment reports X11 or Wayland from the session's own env vars.
// WAYLAND_DISPLAY wins when both are set (XWayland keeps DISPLAY around).
func DetectEnvironment() EnvironmentType {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return EnvironmentWayland
	}
	if os.Getenv("DISPLAY") != "" {
		return EnvironmentX11
	}
	return EnvironmentUnknown
}

// DetectDesktopEnvironment returns XDG_CURRENT_DESKTOP, falling back to the
// legacy DESKTOP_SESSION var; used only by IsGNOMEWithWayland's tray hint.
func DetectDesktopEnvironment() string {
	if de := os.Getenv("XDG_CURRENT_DESKTOP"); de != "" {
		return de
	}
	if de := os.Getenv("DESKTOP_SESSION"); de != "" {
		return de
	}
	return "Unknown"
}

// IsGNOMEWithWayland reports whether the session is GNOME Shell under
// Wayland, the one desktop where a bare StatusNotifierItem tray icon is
// known to need an extra shell extension. The tray package uses this to
// sharpen its "icon may not appear" warning.
func IsGNOMEWithWayland() bool {
	de := DetectDesktopEnvironment()
	env := DetectEnvironment()
	return (de == "GNOME" || de == "ubuntu:GNOME") && env == EnvironmentWayland
}

// HasStatusNotifierWatcher reports whether a StatusNotifierWatcher (KDE's
// or freedesktop's) owns a name on the session bus. Without one, systray's
// icon is created but never drawn by any host, which otherwise looks like
// a silent startup failure; the tray package checks this before Start.
func HasStatusNotifierWatcher() bool {
	conn, err := dbus.SessionBus()
	if err != nil {
		return false
	}

	names := []string{
		"org.kde.StatusNotifierWatcher",
		"org.freedesktop.StatusNotifierWatcher",
	}

	busObj := conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
	for _, name := range names {
		var hasOwner bool
		call := busObj.Call("org.freedesktop.DBus.NameHasOwner", 0, name)
		if call.Err == nil {
			if err := call.Store(&hasOwner); err == nil && hasOwner {
				return true
			}
		}
	}
	return false
}

// UtilityExists reports whether name resolves on PATH. The target package
// uses it to pick xdotool/wtype for "auto" paste method resolution, and to
// decide whether the clipboard back-end falls back silently.
func UtilityExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// CheckPrivileges reports whether the process runs as root, which on most
// distributions is sufficient (alongside, but not exclusively, membership
// in the "input" group) to read /dev/input/event*. The hotkey package's
// evdev fallback uses this only to make its "no devices found" error
// message more specific, not to gate whether it attempts the fallback.
func CheckPrivileges() bool {
	return os.Geteuid() == 0
}

// EnsureDirectoryExists creates path (and any missing parents) with mode
// 0755 if it doesn't already exist.
func EnsureDirectoryExists(path string) error {
	return os.MkdirAll(path, 0755)
}
