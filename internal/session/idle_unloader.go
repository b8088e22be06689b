// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

import (
	"time"

	"github.com/quietkey/auriscribe/internal/recog"
)

// IdleUnloadTimeout is the duration of inactivity after which a loaded
// model is unloaded.
const IdleUnloadTimeout = 15 * time.Second

// IdleModelUnloader is the main-loop timer that unloads the model some
// time after the last use, provided the application is still Idle.
type IdleModelUnloader struct {
	coord *Coordinator
	timer *time.Timer
}

// NewIdleModelUnloader builds an unloader bound to coord. It starts unarmed.
func NewIdleModelUnloader(coord *Coordinator) *IdleModelUnloader {
	return &IdleModelUnloader{coord: coord}
}

// Arm (re-)starts the timeout window from now.
func (u *IdleModelUnloader) Arm() {
	if u.timer != nil {
		u.timer.Stop()
	}
	u.timer = time.AfterFunc(IdleUnloadTimeout, u.fire)
}

// Disarm cancels any pending timer, e.g. on shutdown.
func (u *IdleModelUnloader) Disarm() {
	if u.timer != nil {
		u.timer.Stop()
		u.timer = nil
	}
}

// fire runs the 15-second check: only unload if still Idle, the
// recognition session is Loaded, and the last-used timestamp predates
// the timeout window. The worker process is reaped too; the next start
// respawns it.
func (u *IdleModelUnloader) fire() {
	if u.coord.State() != Idle {
		return
	}
	if u.coord.client.State() != recog.Loaded {
		return
	}
	if time.Since(u.coord.LastUsed()) < IdleUnloadTimeout {
		return
	}
	_ = u.coord.client.Unload()
	_ = u.coord.client.Quit()
}
