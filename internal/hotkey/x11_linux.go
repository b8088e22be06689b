//go:build linux && cgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package hotkey

/*
#cgo LDFLAGS: -lX11
#include <X11/Xlib.h>
#include <X11/Xutil.h>
#include <X11/keysym.h>
#include <stdlib.h>

static int x11_badaccess_flag = 0;

static int x11_error_handler(Display *d, XErrorEvent *e) {
	if (e->error_code == BadAccess) {
		x11_badaccess_flag = 1;
	}
	return 0;
}

static void x11_install_error_handler() {
	XSetErrorHandler(x11_error_handler);
}

static int x11_take_badaccess_flag() {
	int v = x11_badaccess_flag;
	x11_badaccess_flag = 0;
	return v;
}

static void x11_grab_key(Display *d, int keycode, unsigned int modifiers, Window root) {
	XGrabKey(d, keycode, modifiers, root, True, GrabModeAsync, GrabModeAsync);
}

static void x11_ungrab_key(Display *d, int keycode, unsigned int modifiers, Window root) {
	XUngrabKey(d, keycode, modifiers, root);
}
*/
import "C"

import (
	"fmt"
	"sync"
	"time"
	"unsafe"
)

// standardModMasks are the 8 modifier bit positions queried when resolving
// which bit a symbolic modifier key currently occupies.
var standardModMasks = []C.uint{
	C.ShiftMask, C.LockMask, C.ControlMask,
	C.Mod1Mask, C.Mod2Mask, C.Mod3Mask, C.Mod4Mask, C.Mod5Mask,
}

var modifierKeysyms = map[string]C.KeySym{
	"super":   C.XK_Super_L,
	"control": C.XK_Control_L,
	"alt":     C.XK_Alt_L,
	"shift":   C.XK_Shift_L,
}

// X11Provider grabs keys via raw Xlib XGrabKey, resolving modifier bits at
// runtime and registering every lock-modifier permutation alongside the
// base combination.
type X11Provider struct {
	mu      sync.Mutex
	display *C.Display
	root    C.Window
	grabbed []grabbedCombo
}

type grabbedCombo struct {
	keycode   C.int
	modifiers C.uint
}

// NewX11Provider opens a connection to the X display named by the DISPLAY
// environment variable (or the default). It returns an error if no X11
// display can be opened (e.g. pure Wayland without XWayland).
func NewX11Provider() (*X11Provider, error) {
	C.x11_install_error_handler()
	display := C.XOpenDisplay(nil)
	if display == nil {
		return nil, fmt.Errorf("hotkey: cannot open X11 display")
	}
	root := C.XDefaultRootWindow(display)
	return &X11Provider{display: display, root: root}, nil
}

// modifierMaskFor resolves which modifier bit currently maps to the given
// canonical modifier name, by walking XGetModifierMapping and checking
// which keycode under each bit produces that modifier's keysym.
func (p *X11Provider) modifierMaskFor(name string) (C.uint, bool) {
	target, ok := modifierKeysyms[name]
	if !ok {
		return 0, false
	}

	modmap := C.XGetModifierMapping(p.display)
	if modmap == nil {
		return 0, false
	}
	defer C.XFreeModifiermap(modmap)

	keysPerMod := int(modmap.max_keypermod)
	keycodes := unsafe.Slice(modmap.modifiermap, 8*keysPerMod)

	for i, mask := range standardModMasks {
		for j := 0; j < keysPerMod; j++ {
			kc := keycodes[i*keysPerMod+j]
			if kc == 0 {
				continue
			}
			ks := C.XKeycodeToKeysym(p.display, C.KeyCode(kc), 0)
			if ks == target {
				return mask, true
			}
		}
	}
	return 0, false
}

// lockMaskFor resolves the modifier bit for a well-known lock key by
// keysym, used to build the lock-permutation grab set.
func (p *X11Provider) lockMaskFor(keysym C.KeySym) (C.uint, bool) {
	modmap := C.XGetModifierMapping(p.display)
	if modmap == nil {
		return 0, false
	}
	defer C.XFreeModifiermap(modmap)

	keysPerMod := int(modmap.max_keypermod)
	keycodes := unsafe.Slice(modmap.modifiermap, 8*keysPerMod)

	for i, mask := range standardModMasks {
		for j := 0; j < keysPerMod; j++ {
			kc := keycodes[i*keysPerMod+j]
			if kc == 0 {
				continue
			}
			if C.XKeycodeToKeysym(p.display, C.KeyCode(kc), 0) == keysym {
				return mask, true
			}
		}
	}
	return 0, false
}

// lockPermutations returns LockMask (CapsLock) plus NumLock, ScrollLock
// and their pairwise combinations with CapsLock -- the ignore-masks set
// that must also be grabbed so the hotkey still fires with those locks on.
func (p *X11Provider) lockPermutations() []C.uint {
	perms := []C.uint{0, C.LockMask}

	numLock, hasNum := p.lockMaskFor(C.XK_Num_Lock)
	scrollLock, hasScroll := p.lockMaskFor(C.XK_Scroll_Lock)

	if hasNum {
		perms = append(perms, numLock, numLock|C.LockMask)
	}
	if hasScroll {
		perms = append(perms, scrollLock, scrollLock|C.LockMask)
	}
	if hasNum && hasScroll {
		perms = append(perms, numLock|scrollLock, numLock|scrollLock|C.LockMask)
	}
	return perms
}

func (p *X11Provider) resolveCombo(spec KeySpec) (C.int, C.uint, error) {
	cstr := C.CString(spec.Key)
	defer C.free(unsafe.Pointer(cstr))
	keysym := C.XStringToKeysym(cstr)
	if keysym == C.NoSymbol {
		return 0, 0, fmt.Errorf("hotkey: unknown key name %q", spec.Key)
	}
	keycode := C.XKeysymToKeycode(p.display, keysym)
	if keycode == 0 {
		return 0, 0, fmt.Errorf("hotkey: key %q has no keycode on this keyboard", spec.Key)
	}

	var mods C.uint
	for _, m := range spec.Modifiers {
		mask, ok := p.modifierMaskFor(m)
		if !ok {
			return 0, 0, fmt.Errorf("hotkey: cannot resolve modifier bit for %q", m)
		}
		mods |= mask
	}
	return C.int(keycode), mods, nil
}

// Grab registers the base combination and every lock-modifier permutation,
// ignoring BadAccess on the permutation grabs (a locked modifier being
// already grabbed elsewhere is not fatal), then starts the event-pump
// goroutine that invokes onPress on KeyPress.
func (p *X11Provider) Grab(spec KeySpec, onPress func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	keycode, baseMods, err := p.resolveCombo(spec)
	if err != nil {
		return err
	}

	C.x11_take_badaccess_flag()
	for _, lock := range p.lockPermutations() {
		mods := baseMods | lock
		C.x11_grab_key(p.display, keycode, mods, p.root)
		C.XSync(p.display, C.False)
		if C.x11_take_badaccess_flag() != 0 && lock == 0 {
			return fmt.Errorf("hotkey: XGrabKey BadAccess, combination already grabbed")
		}
		p.grabbed = append(p.grabbed, grabbedCombo{keycode, mods})
	}

	C.XSelectInput(p.display, p.root, C.KeyPressMask)
	go p.pump(onPress)
	return nil
}

func (p *X11Provider) pump(onPress func()) {
	var event C.XEvent
	for {
		p.mu.Lock()
		d := p.display
		p.mu.Unlock()
		if d == nil {
			return
		}
		if C.XPending(d) == 0 {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		C.XNextEvent(d, &event)
		any := (*C.XAnyEvent)(unsafe.Pointer(&event))
		if any._type == C.KeyPress {
			onPress()
		}
	}
}

// Ungrab releases every combination grabbed by Grab and closes the display.
func (p *X11Provider) Ungrab() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, g := range p.grabbed {
		C.x11_ungrab_key(p.display, g.keycode, g.modifiers, p.root)
	}
	p.grabbed = nil

	if p.display != nil {
		C.XCloseDisplay(p.display)
		p.display = nil
	}
	return nil
}

// Probe performs a non-destructive grab+ungrab of the base combination,
// used by the settings UI without disturbing the live grab.
func (p *X11Provider) Probe(spec KeySpec) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	keycode, mods, err := p.resolveCombo(spec)
	if err != nil {
		return false, err
	}

	C.x11_take_badaccess_flag()
	C.x11_grab_key(p.display, keycode, mods, p.root)
	C.XSync(p.display, C.False)
	ok := C.x11_take_badaccess_flag() == 0
	C.x11_ungrab_key(p.display, keycode, mods, p.root)
	return ok, nil
}
