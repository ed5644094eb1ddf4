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
)

// TestClock is a deterministic Clock driven by the test.
//
// Time only moves when AdvanceTime is called. Entries fire synchronously on the
// calling goroutine in ascending due order, ties broken by scheduling order.
type TestClock struct {
	mu  sync.Mutex
	now time.Time
	*schedule
}

// enforce compilation error
var _ Clock = (*TestClock)(nil)

// NewTestClock creates a TestClock starting at the given point in time
func NewTestClock(start time.Time) *TestClock {
	return &TestClock{now: start, schedule: newSchedule()}
}

// Now returns the current time of the clock
func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// SetOrdinaryTimeout schedules a TimeoutMsg, replacing the receiver's pending one with the same label
func (c *TestClock) SetOrdinaryTimeout(due time.Time, receiver Receiver, label string) uint64 {
	return c.setOrdinary(due, receiver, label)
}

// SetMultiTimeout schedules a TimeoutMsg
func (c *TestClock) SetMultiTimeout(due time.Time, receiver Receiver, label string) uint64 {
	return c.setMulti(due, receiver, label)
}

// SetRequestTimeout schedules a RequestTimeoutMsg
func (c *TestClock) SetRequestTimeout(due time.Time, receiver Receiver, requestID uint64) {
	c.setRequest(due, receiver, requestID)
}

// CancelOrdinaryTimeout removes the pending ordinary timeout with the given label
func (c *TestClock) CancelOrdinaryTimeout(receiver Receiver, label string) {
	c.cancelOrdinary(receiver, label)
}

// CancelRequestTimeout removes the pending timeout of the given request
func (c *TestClock) CancelRequestTimeout(receiver Receiver, requestID uint64) {
	c.cancelRequest(receiver, requestID)
}

// CancelTimeouts removes every entry of the receiver
func (c *TestClock) CancelTimeouts(receiver Receiver) {
	c.cancelAll(receiver)
}

// ScheduleMessage delivers the message to the receiver at the due point
func (c *TestClock) ScheduleMessage(due time.Time, receiver Receiver, message any) {
	c.scheduleMessage(due, receiver, message)
}

// Pending returns the number of scheduled entries
func (c *TestClock) Pending() int {
	return c.pending()
}

// HasPendingTimeout reports whether any entry is scheduled
func (c *TestClock) HasPendingTimeout() bool {
	return c.pending() > 0
}

// NextTimeout returns the due point of the next entry
func (c *TestClock) NextTimeout() (time.Time, bool) {
	return c.next()
}

// AdvanceTime moves the clock forward and fires every entry that became due,
// including entries scheduled by receivers while firing. It returns the
// number of fired entries.
func (c *TestClock) AdvanceTime(d time.Duration) int {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()

	fired := 0
	for {
		due := c.popDue(now)
		if len(due) == 0 {
			return fired
		}
		for _, e := range due {
			e.receiver.Deliver(e.payload())
		}
		fired += len(due)
	}
}

// TriggerTimeout fires the next entry regardless of its due point. The clock
// moves to the due point of the fired entry unless it is already past it.
// It returns false when nothing is scheduled.
func (c *TestClock) TriggerTimeout() bool {
	e := c.popNext()
	if e == nil {
		return false
	}

	c.mu.Lock()
	if e.due.After(c.now) {
		c.now = e.due
	}
	c.mu.Unlock()

	e.receiver.Deliver(e.payload())
	return true
}

// TriggerTimeouts fires every scheduled entry, including the ones scheduled
// while firing, and returns the number of fired entries.
func (c *TestClock) TriggerTimeouts() int {
	fired := 0
	for c.TriggerTimeout() {
		fired++
	}
	return fired
}
