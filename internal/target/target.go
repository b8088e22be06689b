// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package target identifies the focused window at recording start and
// delivers the finished transcript to it through one of the paste
// back-ends: synthetic keystrokes on X11 (xdotool), synthetic keystrokes
// on Wayland (wtype, ydotool fallback), or clipboard + simulated Ctrl+V.
package target

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/quietkey/auriscribe/config"
	"github.com/quietkey/auriscribe/internal/logger"
	"github.com/quietkey/auriscribe/internal/session"
)

const (
	// pasteTimeout bounds one whole paste attempt, including the
	// clipboard write and the simulated keystroke.
	pasteTimeout = 30 * time.Second

	// activateTimeout bounds the xdotool windowactivate --sync call that
	// raises the captured window before keystrokes are delivered.
	activateTimeout = 1500 * time.Millisecond
)

// Capture implements session.TargetCapture: it snapshots the focused
// top-level window before audio starts and pastes into it at finalize.
type Capture struct {
	config    *config.Config
	logger    logger.Logger
	isWayland bool

	// lookPath is swapped out by tests so back-end detection does not
	// depend on which tools the build host has installed.
	lookPath func(string) (string, error)
}

// NewCapture builds a Capture using cfg's paste_method and security
// allowlist. On Wayland the window handle is always zero; the paste
// back-ends that need no handle still work.
func NewCapture(cfg *config.Config, log logger.Logger, isWayland bool) *Capture {
	return &Capture{
		config:    cfg,
		logger:    log,
		isWayland: isWayland,
		lookPath:  exec.LookPath,
	}
}

// CaptureFocusedWindow returns the focused top-level window identifier on
// X11 displays (read from _NET_ACTIVE_WINDOW, falling back to
// XGetInputFocus), and 0 elsewhere.
func (c *Capture) CaptureFocusedWindow() session.WindowHandle {
	if c.isWayland {
		return 0
	}
	win := activeWindow()
	if win == 0 {
		c.logger.Debug("no focused X11 window captured")
	}
	return session.WindowHandle(win)
}

// Paste delivers text to the window captured at recording start,
// dispatching to the configured back-end. Empty text is a no-op.
func (c *Capture) Paste(target session.WindowHandle, text string) error {
	if text == "" {
		return nil
	}

	method := c.resolveMethod(c.config.PasteMethod)
	c.logger.Debug("pasting %d chars via %s", len(text), method)

	ctx, cancel := context.WithTimeout(context.Background(), pasteTimeout)
	defer cancel()

	var err error
	switch method {
	case config.PasteMethodKeystrokesX11:
		err = c.pasteKeystrokesX11(ctx, target, text)
	case config.PasteMethodKeystrokesWayland:
		err = c.pasteKeystrokesWayland(ctx, text)
	case config.PasteMethodClipboard:
		err = c.pasteClipboard(ctx, target, text)
	default:
		err = fmt.Errorf("unsupported paste method: %s", method)
	}
	if err != nil {
		return fmt.Errorf("paste via %s: %w", method, err)
	}
	return nil
}

// resolveMethod maps "auto" to the best back-end available on this
// display server, preferring synthetic keystrokes over the clipboard.
func (c *Capture) resolveMethod(method string) string {
	if method != "" && method != config.PasteMethodAuto {
		return method
	}
	if c.isWayland {
		if _, err := c.lookPath("wtype"); err == nil {
			return config.PasteMethodKeystrokesWayland
		}
		return config.PasteMethodClipboard
	}
	if _, err := c.lookPath("xdotool"); err == nil {
		return config.PasteMethodKeystrokesX11
	}
	return config.PasteMethodClipboard
}

// activateWindow raises the captured window with xdotool windowactivate
// --sync before keystrokes, bounded by activateTimeout. A zero handle is
// a no-op: the keystrokes then land in whatever window has focus.
func (c *Capture) activateWindow(ctx context.Context, target session.WindowHandle) error {
	if target == 0 || c.isWayland {
		return nil
	}
	actCtx, cancel := context.WithTimeout(ctx, activateTimeout)
	defer cancel()
	id := strconv.FormatUint(uint64(target), 10)
	if err := c.runTool(actCtx, "xdotool", []string{"windowactivate", "--sync", id}, ""); err != nil {
		return fmt.Errorf("activate window %s: %w", id, err)
	}
	return nil
}

func (c *Capture) pasteKeystrokesX11(ctx context.Context, target session.WindowHandle, text string) error {
	if err := c.activateWindow(ctx, target); err != nil {
		return err
	}
	return c.runTool(ctx, "xdotool", []string{"type", "--clearmodifiers", "--", text}, "")
}

func (c *Capture) pasteKeystrokesWayland(ctx context.Context, text string) error {
	err := c.runTool(ctx, "wtype", []string{"--", text}, "")
	if err == nil {
		return nil
	}
	// Runtime fallback: if wtype fails, try ydotool if it is allowed and available
	if config.IsCommandAllowed(c.config, "ydotool") {
		if _, lookErr := c.lookPath("ydotool"); lookErr == nil {
			if fbErr := c.runTool(ctx, "ydotool", []string{"type", text}, ""); fbErr == nil {
				return nil
			} else {
				return fmt.Errorf("wtype failed: %w; ydotool fallback failed: %v", err, fbErr)
			}
		}
	}
	return err
}

// pasteClipboard copies text to the system clipboard and simulates Ctrl+V
// in the target window.
func (c *Capture) pasteClipboard(ctx context.Context, target session.WindowHandle, text string) error {
	if c.isWayland {
		if err := c.runTool(ctx, "wl-copy", nil, text); err != nil {
			return err
		}
		return c.runTool(ctx, "wtype", []string{"-M", "ctrl", "v", "-m", "ctrl"}, "")
	}
	if err := c.runTool(ctx, "xclip", []string{"-selection", "clipboard"}, text); err != nil {
		return err
	}
	if err := c.activateWindow(ctx, target); err != nil {
		return err
	}
	return c.runTool(ctx, "xdotool", []string{"key", "--clearmodifiers", "ctrl+v"}, "")
}

// runTool executes one external tool after checking the security
// whitelist and sanitizing its arguments. stdin, when non-empty, is piped
// to the tool. Non-zero exit is reported with the combined output tail.
func (c *Capture) runTool(ctx context.Context, tool string, args []string, stdin string) error {
	if !config.IsCommandAllowed(c.config, tool) {
		return fmt.Errorf("tool not allowed by security policy: %s", tool)
	}
	safeArgs := config.SanitizeCommandArgs(args)
	// #nosec G204 -- Safe: tool is from an allowlist and arguments are sanitized
	cmd := exec.CommandContext(ctx, tool, safeArgs...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s timed out: %w", tool, ctx.Err())
		}
		return fmt.Errorf("%s failed: %w, output: %s", tool, err, strings.TrimSpace(string(output)))
	}
	return nil
}
