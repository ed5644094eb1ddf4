// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package timer

import (
	"time"
)

// Timer is a re-armable deadline timer.
//
// It is meant to be owned by a single goroutine that selects on C.
// Arm and Disarm leave the channel drained so a stale expiry is never
// observed after re-arming.
type Timer struct {
	timer  *time.Timer
	armed  bool
	expiry time.Time
}

// New creates a disarmed Timer
func New() *Timer {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	return &Timer{timer: timer}
}

// Arm sets the timer to fire at the given point in time.
// A point in the past fires immediately.
func (t *Timer) Arm(at time.Time) {
	if t.armed && t.expiry.Equal(at) {
		return
	}
	t.Disarm()
	t.expiry = at
	t.armed = true
	t.timer.Reset(max(time.Until(at), 0))
}

// Disarm stops the timer
func (t *Timer) Disarm() {
	if !t.armed {
		return
	}
	if !t.timer.Stop() {
		select {
		case <-t.timer.C:
		default:
		}
	}
	t.armed = false
}

// Fired must be called after receiving from C
func (t *Timer) Fired() {
	t.armed = false
}

// Armed reports whether an expiry is pending
func (t *Timer) Armed() bool {
	return t.armed
}

// Expiry returns the point in time the timer is armed for
func (t *Timer) Expiry() time.Time {
	return t.expiry
}

// C returns the expiry channel
func (t *Timer) C() <-chan time.Time {
	return t.timer.C
}
