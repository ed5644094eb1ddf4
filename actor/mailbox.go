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

package actor

import (
	"sync"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/coactor/errors"
	"github.com/tochemey/coactor/internal/queue"
)

// TaskResult is returned by the consumer of a mailbox round
type TaskResult int

const (
	// TaskResume continues the round
	TaskResume TaskResult = iota
	// TaskStop ends the round after the current element
	TaskStop
)

// Mailbox is the per-actor inbox. It multiplexes one FIFO sub-queue per
// Category with a weighted deficit round robin.
//
// Concurrency
//   - Push is safe for concurrent producers and never blocks.
//   - NextRound and Close must be called by the owning actor only.
//
// Fairness
//   - Each round refills the deficit of every non-empty sub-queue by
//     quantum times the category weight. Urgent weighs 2, the others 1.
//   - The front element is taken while its task size fits the deficit.
//   - A sub-queue that runs empty loses its remaining deficit.
type Mailbox struct {
	mu       sync.RWMutex
	closed   bool
	queues   [numCategories]*queue.Mpsc[*Envelope]
	deficits [numCategories]int
	length   atomic.Int64
}

// NewMailbox creates an empty Mailbox
func NewMailbox() *Mailbox {
	m := new(Mailbox)
	for i := range m.queues {
		m.queues[i] = queue.NewMpsc[*Envelope]()
	}
	return m
}

// Push appends the envelope to the sub-queue of its category.
// It returns ErrMailboxClosed once the mailbox is closed.
func (m *Mailbox) Push(envelope *Envelope) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return gerrors.ErrMailboxClosed
	}
	m.queues[envelope.Category()].Push(envelope)
	m.length.Inc()
	return nil
}

// NextRound runs one round robin pass over the sub-queues and hands every
// dequeued envelope to consume. It returns the number of consumed envelopes
// and whether consume stopped the round.
func (m *Mailbox) NextRound(quantum int, consume func(*Envelope) TaskResult) (consumed int, stopped bool) {
	if quantum <= 0 {
		quantum = 1
	}

	for i, q := range m.queues {
		if q.IsEmpty() {
			m.deficits[i] = 0
			continue
		}

		m.deficits[i] += quantum * Category(i).weight()
		for {
			head, ok := q.Peek()
			if !ok {
				m.deficits[i] = 0
				break
			}
			size := head.taskSize()
			if size > m.deficits[i] {
				break
			}

			q.Pop()
			m.length.Dec()
			m.deficits[i] -= size
			consumed++

			if consume(head) == TaskStop {
				if q.IsEmpty() {
					m.deficits[i] = 0
				}
				return consumed, true
			}
		}
	}
	return consumed, false
}

// Close closes the mailbox and returns the envelopes left in it, in category
// order. Pushes racing with Close either land in the returned slice or fail.
func (m *Mailbox) Close() []*Envelope {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	var remaining []*Envelope
	for i, q := range m.queues {
		for {
			envelope, ok := q.Pop()
			if !ok {
				break
			}
			m.length.Dec()
			remaining = append(remaining, envelope)
		}
		m.deficits[i] = 0
	}
	return remaining
}

// IsClosed reports whether the mailbox is closed
func (m *Mailbox) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// IsEmpty reports whether every sub-queue is empty
func (m *Mailbox) IsEmpty() bool {
	return m.length.Load() <= 0
}

// Len returns the number of queued envelopes
func (m *Mailbox) Len() int {
	return int(m.length.Load())
}

// LenOf returns the number of queued envelopes of the given category
func (m *Mailbox) LenOf(category Category) int {
	if int(category) >= numCategories {
		return 0
	}
	return int(m.queues[category].Len())
}
