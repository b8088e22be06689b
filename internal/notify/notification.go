// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package notify surfaces the modal error/status dialogs described by the
// error handling design (ModelLoadFailed, TranscribeFailed/OOM) over the
// freedesktop.org Notifications portal, the way hotkeys/providers used
// godbus for the global-shortcuts portal.
package notify

import (
	"fmt"

	dbus "github.com/godbus/dbus/v5"
)

const (
	notifyDest  = "org.freedesktop.Notifications"
	notifyPath  = "/org/freedesktop/Notifications"
	notifyIface = notifyDest + ".Notify"

	urgencyCritical = byte(2)
	urgencyNormal   = byte(1)

	expireNever = int32(0)
)

// Manager sends desktop notifications over the session D-Bus.
type Manager struct {
	appName string
}

// NewManager builds a notification Manager identified as appName in the
// notification shade.
func NewManager(appName string) *Manager {
	return &Manager{appName: appName}
}

// NotifyError implements session.Notifier: it surfaces title/message as a
// critical-urgency desktop notification.
func (m *Manager) NotifyError(title, message string) {
	_ = m.notify(title, message, "dialog-error", urgencyCritical)
}

// NotifyInfo surfaces a normal-urgency informational notification, used
// for status events such as recording start/stop.
func (m *Manager) NotifyInfo(title, message string) {
	_ = m.notify(title, message, "dialog-information", urgencyNormal)
}

func (m *Manager) notify(title, message, icon string, urgency byte) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("notify: connect session bus: %w", err)
	}
	defer func() { _ = conn.Close() }()

	obj := conn.Object(notifyDest, dbus.ObjectPath(notifyPath))
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgency),
	}

	call := obj.Call(notifyIface, 0,
		m.appName,      // app_name
		uint32(0),      // replaces_id
		icon,           // app_icon
		title,          // summary
		message,        // body
		[]string{},     // actions
		hints,          // hints
		expireNever,    // expire_timeout
	)
	if call.Err != nil {
		return fmt.Errorf("notify: Notify call: %w", call.Err)
	}
	return nil
}

// IsAvailable reports whether the session bus can be reached at all.
func (m *Manager) IsAvailable() bool {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
