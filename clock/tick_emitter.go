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
	"time"
)

// TickEmitter discretizes the progress of time into fixed-size ticks counted
// from a start point. Several periodic triggers expressed as multiples of the
// tick interval can then share a single timer.
//
// A TickEmitter is not safe for concurrent use; it is owned by one actor.
type TickEmitter struct {
	start    time.Time
	interval time.Duration
	lastTick uint64
}

// NewTickEmitter creates a TickEmitter. The interval must be positive.
func NewTickEmitter(start time.Time, interval time.Duration) *TickEmitter {
	if interval <= 0 {
		panic("clock: tick interval must be greater than zero")
	}
	return &TickEmitter{start: start, interval: interval}
}

// Start resets the epoch to the given point in time
func (t *TickEmitter) Start(now time.Time) {
	t.start = now
	t.lastTick = 0
}

// Interval returns the tick interval
func (t *TickEmitter) Interval() time.Duration {
	return t.interval
}

// Update calls fn for every tick elapsed since the previous update, in order.
func (t *TickEmitter) Update(now time.Time, fn func(tick uint64)) {
	current := t.tickAt(now)
	for tick := t.lastTick + 1; tick <= current; tick++ {
		fn(tick)
	}
	if current > t.lastTick {
		t.lastTick = current
	}
}

// Timeouts returns a bitmask where bit i is set when periods[i] divides at
// least one tick elapsed since the previous call. Periods are counted in ticks
// and a zero period never fires.
func (t *TickEmitter) Timeouts(now time.Time, periods ...uint64) uint64 {
	var mask uint64
	t.Update(now, func(tick uint64) {
		for i, period := range periods {
			if period > 0 && tick%period == 0 {
				mask |= 1 << uint(i)
			}
		}
	})
	return mask
}

// NextTimeout returns the point in time of the next tick at which any of the
// periods fires.
func (t *TickEmitter) NextTimeout(now time.Time, periods ...uint64) time.Time {
	current := max(t.tickAt(now), t.lastTick)
	var next uint64
	for _, period := range periods {
		if period == 0 {
			continue
		}
		candidate := (current/period + 1) * period
		if next == 0 || candidate < next {
			next = candidate
		}
	}
	if next == 0 {
		next = current + 1
	}
	return t.start.Add(time.Duration(next) * t.interval)
}

func (t *TickEmitter) tickAt(now time.Time) uint64 {
	if now.Before(t.start) {
		return 0
	}
	return uint64(now.Sub(t.start) / t.interval)
}
