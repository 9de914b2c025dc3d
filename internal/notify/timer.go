// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package notify manages the display lifetime of transient status messages.
package notify

import (
	"sync"
	"time"
)

// DefaultDelay is how long a notification stays visible.
const DefaultDelay = 5 * time.Second

// Stopper is a scheduled callback that can be cancelled.
type Stopper interface {
	Stop() bool
}

// Clock schedules callbacks. SystemClock is backed by time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// SystemClock is the wall clock used outside of tests.
var SystemClock Clock = systemClock{}

// Timer holds at most one pending expiry. Starting a new expiry cancels the
// previous one; a callback that was already firing when it got superseded
// or cancelled is dropped.
type Timer struct {
	mu      sync.Mutex
	clock   Clock
	delay   time.Duration
	pending Stopper
	seq     uint64
}

// NewTimer returns a Timer firing after delay. A non-positive delay selects
// DefaultDelay and a nil clock selects SystemClock.
func NewTimer(delay time.Duration, clock Clock) *Timer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Timer{clock: clock, delay: delay}
}

// Delay returns the configured expiry delay.
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// Start cancels any pending expiry and schedules fn to run after the delay.
func (t *Timer) Start(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.seq++
	seq := t.seq
	t.pending = t.clock.AfterFunc(t.delay, func() {
		t.mu.Lock()
		if seq != t.seq || t.pending == nil {
			t.mu.Unlock()
			return
		}
		t.pending = nil
		t.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending expiry, if any.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Pending reports whether an expiry is scheduled.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

func (t *Timer) stopLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.seq++
}
