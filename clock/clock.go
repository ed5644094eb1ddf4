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

// Receiver is the target of timeouts and delayed messages.
// Deliver must not block; it is called by the clock outside of its locks.
type Receiver interface {
	// ID uniquely identifies the receiver
	ID() uint64
	// Deliver hands a message over to the receiver
	Deliver(message any)
}

// TimeoutMsg is delivered when an ordinary or multi timeout fires
type TimeoutMsg struct {
	Label string
	ID    uint64
}

// RequestTimeoutMsg is delivered when a request timeout fires
type RequestTimeoutMsg struct {
	ID uint64
}

// Clock schedules timeouts and delayed messages for receivers.
//
// Entries fire in ascending due order; entries with the same due point fire
// in the order they were scheduled. Firing means calling Receiver.Deliver,
// so timeouts travel through the receiver's regular message path.
type Clock interface {
	// Now returns the current time of the clock
	Now() time.Time
	// SetOrdinaryTimeout schedules a TimeoutMsg for the receiver, replacing a
	// pending one with the same label. It returns the id carried by the message.
	SetOrdinaryTimeout(due time.Time, receiver Receiver, label string) uint64
	// SetMultiTimeout schedules a TimeoutMsg without replacing pending ones
	SetMultiTimeout(due time.Time, receiver Receiver, label string) uint64
	// SetRequestTimeout schedules a RequestTimeoutMsg for the given request id
	SetRequestTimeout(due time.Time, receiver Receiver, requestID uint64)
	// CancelOrdinaryTimeout removes the pending ordinary timeout with the given label
	CancelOrdinaryTimeout(receiver Receiver, label string)
	// CancelRequestTimeout removes the pending timeout of the given request
	CancelRequestTimeout(receiver Receiver, requestID uint64)
	// CancelTimeouts removes every entry of the receiver
	CancelTimeouts(receiver Receiver)
	// ScheduleMessage delivers the message to the receiver at the due point
	ScheduleMessage(due time.Time, receiver Receiver, message any)
	// Pending returns the number of scheduled entries
	Pending() int
}
