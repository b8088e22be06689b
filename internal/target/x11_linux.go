//go:build linux && cgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package target

/*
#cgo LDFLAGS: -lX11
#include <X11/Xlib.h>
#include <X11/Xatom.h>
#include <stdlib.h>

// Read _NET_ACTIVE_WINDOW off the root window; fall back to
// XGetInputFocus when the window manager does not publish the property.
static unsigned long x11_active_window(void) {
	Display *dpy = XOpenDisplay(NULL);
	if (!dpy) return 0;

	unsigned long result = 0;
	Window root = DefaultRootWindow(dpy);
	Atom prop = XInternAtom(dpy, "_NET_ACTIVE_WINDOW", True);
	if (prop != None) {
		Atom actual_type = None;
		int actual_format = 0;
		unsigned long nitems = 0;
		unsigned long bytes_after = 0;
		unsigned char *data = NULL;
		if (XGetWindowProperty(dpy, root, prop, 0, (~0L), False, AnyPropertyType,
		                       &actual_type, &actual_format, &nitems, &bytes_after, &data) == Success) {
			if (data && nitems >= 1) {
				result = *(unsigned long *)data;
			}
			if (data) XFree(data);
		}
	}

	if (!result) {
		Window focus = 0;
		int revert = 0;
		XGetInputFocus(dpy, &focus, &revert);
		if (focus != None && focus != PointerRoot) result = (unsigned long)focus;
	}

	XCloseDisplay(dpy);
	return result;
}
*/
import "C"

// activeWindow returns the focused top-level X11 window, or 0 when no
// display can be opened or nothing has focus.
func activeWindow() uint64 {
	return uint64(C.x11_active_window())
}
