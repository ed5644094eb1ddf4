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

package clock

import (
	"sync"
	"time"

	"github.com/tochemey/coactor/internal/timer"
	"github.com/tochemey/coactor/log"
)

// RealClock is a Clock backed by wall-clock time.
//
// A dispatcher goroutine waits for the earliest entry and delivers the due
// ones. Entries scheduled before Start fire once the clock is started.
type RealClock struct {
	*schedule
	logger log.Logger

	mu      sync.Mutex
	wake    chan struct{}
	quit    chan struct{}
	done    chan struct{}
	running bool
}

// enforce compilation error
var _ Clock = (*RealClock)(nil)

// NewRealClock creates a RealClock
func NewRealClock(logger log.Logger) *RealClock {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &RealClock{
		schedule: newSchedule(),
		logger:   logger,
		wake:     make(chan struct{}, 1),
	}
}

// Start starts the dispatcher. Calling Start on a running clock is a no-op.
func (c *RealClock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.quit = make(chan struct{})
	c.done = make(chan struct{})
	c.running = true
	go c.dispatch(c.quit, c.done)
}

// Stop stops the dispatcher and waits for it to exit.
// Pending entries are kept and fire after a subsequent Start.
func (c *RealClock) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	quit, done := c.quit, c.done
	c.mu.Unlock()

	close(quit)
	<-done
}

// Now returns the current wall-clock time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// SetOrdinaryTimeout schedules a TimeoutMsg, replacing the receiver's pending one with the same label
func (c *RealClock) SetOrdinaryTimeout(due time.Time, receiver Receiver, label string) uint64 {
	id := c.setOrdinary(due, receiver, label)
	c.notify()
	return id
}

// SetMultiTimeout schedules a TimeoutMsg
func (c *RealClock) SetMultiTimeout(due time.Time, receiver Receiver, label string) uint64 {
	id := c.setMulti(due, receiver, label)
	c.notify()
	return id
}

// SetRequestTimeout schedules a RequestTimeoutMsg
func (c *RealClock) SetRequestTimeout(due time.Time, receiver Receiver, requestID uint64) {
	c.setRequest(due, receiver, requestID)
	c.notify()
}

// CancelOrdinaryTimeout removes the pending ordinary timeout with the given label
func (c *RealClock) CancelOrdinaryTimeout(receiver Receiver, label string) {
	c.cancelOrdinary(receiver, label)
}

// CancelRequestTimeout removes the pending timeout of the given request
func (c *RealClock) CancelRequestTimeout(receiver Receiver, requestID uint64) {
	c.cancelRequest(receiver, requestID)
}

// CancelTimeouts removes every entry of the receiver
func (c *RealClock) CancelTimeouts(receiver Receiver) {
	c.cancelAll(receiver)
}

// ScheduleMessage delivers the message to the receiver at the due point
func (c *RealClock) ScheduleMessage(due time.Time, receiver Receiver, message any) {
	c.scheduleMessage(due, receiver, message)
	c.notify()
}

// Pending returns the number of scheduled entries
func (c *RealClock) Pending() int {
	return c.pending()
}

func (c *RealClock) notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *RealClock) dispatch(quit, done chan struct{}) {
	defer close(done)
	t := timer.New()
	defer t.Disarm()

	for {
		if due, ok := c.next(); ok {
			t.Arm(due)
		} else {
			t.Disarm()
		}

		select {
		case <-quit:
			return
		case <-c.wake:
		case <-t.C():
			t.Fired()
			entries := c.popDue(time.Now())
			if len(entries) > 0 && c.logger.Enabled(log.DebugLevel) {
				c.logger.Debugf("clock firing %d entries", len(entries))
			}
			for _, e := range entries {
				e.receiver.Deliver(e.payload())
			}
		}
	}
}
