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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	id        uint64
	mu        sync.Mutex
	messages  []any
	onDeliver func(message any)
}

func newRecorder(id uint64) *recorder {
	return &recorder{id: id}
}

func (r *recorder) ID() uint64 { return r.id }

func (r *recorder) Deliver(message any) {
	r.mu.Lock()
	r.messages = append(r.messages, message)
	fn := r.onDeliver
	r.mu.Unlock()
	if fn != nil {
		fn(message)
	}
}

func (r *recorder) received() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *recorder) labels() []string {
	var labels []string
	for _, message := range r.received() {
		if msg, ok := message.(*TimeoutMsg); ok {
			labels = append(labels, msg.Label)
		}
	}
	return labels
}

var epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestTestClock(t *testing.T) {
	t.Run("With entries fired by due point then scheduling order", func(t *testing.T) {
		clock := NewTestClock(epoch)
		receiver := newRecorder(1)

		clock.SetMultiTimeout(epoch.Add(30*time.Millisecond), receiver, "c")
		clock.SetMultiTimeout(epoch.Add(10*time.Millisecond), receiver, "a1")
		clock.SetMultiTimeout(epoch.Add(20*time.Millisecond), receiver, "b")
		clock.SetMultiTimeout(epoch.Add(10*time.Millisecond), receiver, "a2")
		clock.SetMultiTimeout(epoch.Add(10*time.Millisecond), receiver, "a3")

		assert.Equal(t, 0, clock.AdvanceTime(5*time.Millisecond))
		assert.Equal(t, 3, clock.AdvanceTime(5*time.Millisecond))
		assert.Equal(t, []string{"a1", "a2", "a3"}, receiver.labels())
		assert.Equal(t, 2, clock.AdvanceTime(time.Hour))
		assert.Equal(t, []string{"a1", "a2", "a3", "b", "c"}, receiver.labels())
		assert.False(t, clock.HasPendingTimeout())
	})
	t.Run("With ordinary timeout replaced by label", func(t *testing.T) {
		clock := NewTestClock(epoch)
		receiver := newRecorder(1)

		first := clock.SetOrdinaryTimeout(epoch.Add(10*time.Millisecond), receiver, "receive")
		second := clock.SetOrdinaryTimeout(epoch.Add(20*time.Millisecond), receiver, "receive")
		require.NotEqual(t, first, second)
		require.Equal(t, 1, clock.Pending())

		assert.Equal(t, 0, clock.AdvanceTime(10*time.Millisecond))
		assert.Equal(t, 1, clock.AdvanceTime(10*time.Millisecond))

		messages := receiver.received()
		require.Len(t, messages, 1)
		assert.Equal(t, &TimeoutMsg{Label: "receive", ID: second}, messages[0])
	})
	t.Run("With ordinary timeouts of distinct receivers kept apart", func(t *testing.T) {
		clock := NewTestClock(epoch)
		one, two := newRecorder(1), newRecorder(2)
		clock.SetOrdinaryTimeout(epoch.Add(time.Millisecond), one, "tick")
		clock.SetOrdinaryTimeout(epoch.Add(time.Millisecond), two, "tick")
		assert.Equal(t, 2, clock.AdvanceTime(time.Millisecond))
		assert.Len(t, one.received(), 1)
		assert.Len(t, two.received(), 1)
	})
	t.Run("With cancellation", func(t *testing.T) {
		clock := NewTestClock(epoch)
		receiver := newRecorder(1)
		other := newRecorder(2)

		clock.SetOrdinaryTimeout(epoch.Add(time.Millisecond), receiver, "a")
		clock.SetRequestTimeout(epoch.Add(time.Millisecond), receiver, 7)
		clock.SetRequestTimeout(epoch.Add(time.Millisecond), receiver, 8)
		clock.ScheduleMessage(epoch.Add(time.Millisecond), other, "hello")
		require.Equal(t, 4, clock.Pending())

		clock.CancelOrdinaryTimeout(receiver, "a")
		clock.CancelRequestTimeout(receiver, 7)
		assert.Equal(t, 2, clock.Pending())

		clock.CancelTimeouts(receiver)
		assert.Equal(t, 1, clock.Pending())

		assert.Equal(t, 1, clock.AdvanceTime(time.Second))
		assert.Empty(t, receiver.received())
		assert.Equal(t, []any{"hello"}, other.received())
	})
	t.Run("With request timeout delivered once", func(t *testing.T) {
		clock := NewTestClock(epoch)
		receiver := newRecorder(1)
		clock.SetRequestTimeout(epoch.Add(100*time.Millisecond), receiver, 3)
		clock.SetRequestTimeout(epoch.Add(100*time.Millisecond), receiver, 3)

		assert.Equal(t, 1, clock.AdvanceTime(100*time.Millisecond))
		assert.Equal(t, 0, clock.AdvanceTime(100*time.Millisecond))
		assert.Equal(t, []any{&RequestTimeoutMsg{ID: 3}}, receiver.received())
	})
	t.Run("With entries scheduled while firing", func(t *testing.T) {
		clock := NewTestClock(epoch)
		receiver := newRecorder(1)
		count := 0
		receiver.onDeliver = func(any) {
			count++
			if count < 3 {
				clock.ScheduleMessage(clock.Now(), receiver, count)
			}
		}
		clock.ScheduleMessage(epoch, receiver, 0)
		assert.Equal(t, 3, clock.AdvanceTime(0))
		assert.Equal(t, []any{0, 1, 2}, receiver.received())
	})
	t.Run("With trigger regardless of due point", func(t *testing.T) {
		clock := NewTestClock(epoch)
		receiver := newRecorder(1)
		assert.False(t, clock.TriggerTimeout())

		clock.SetMultiTimeout(epoch.Add(time.Minute), receiver, "late")
		clock.SetMultiTimeout(epoch.Add(time.Second), receiver, "early")

		next, ok := clock.NextTimeout()
		require.True(t, ok)
		assert.Equal(t, epoch.Add(time.Second), next)

		require.True(t, clock.TriggerTimeout())
		assert.Equal(t, epoch.Add(time.Second), clock.Now())
		assert.Equal(t, 1, clock.TriggerTimeouts())
		assert.Equal(t, epoch.Add(time.Minute), clock.Now())
		assert.Equal(t, []string{"early", "late"}, receiver.labels())

		_, ok = clock.NextTimeout()
		assert.False(t, ok)
	})
}

func TestRealClock(t *testing.T) {
	t.Run("With timeouts fired in order", func(t *testing.T) {
		clock := NewRealClock(nil)
		clock.Start()
		defer clock.Stop()

		receiver := newRecorder(1)
		now := clock.Now()
		clock.SetMultiTimeout(now.Add(40*time.Millisecond), receiver, "second")
		clock.SetMultiTimeout(now.Add(10*time.Millisecond), receiver, "first")
		clock.ScheduleMessage(now.Add(20*time.Millisecond), receiver, "message")

		require.Eventually(t, func() bool { return len(receiver.received()) == 3 }, time.Second, 5*time.Millisecond)
		messages := receiver.received()
		assert.Equal(t, "first", messages[0].(*TimeoutMsg).Label)
		assert.Equal(t, "message", messages[1])
		assert.Equal(t, "second", messages[2].(*TimeoutMsg).Label)
	})
	t.Run("With cancelled timeout never fired", func(t *testing.T) {
		clock := NewRealClock(nil)
		clock.Start()
		defer clock.Stop()

		receiver := newRecorder(1)
		clock.SetOrdinaryTimeout(clock.Now().Add(30*time.Millisecond), receiver, "a")
		clock.CancelOrdinaryTimeout(receiver, "a")
		clock.ScheduleMessage(clock.Now().Add(60*time.Millisecond), receiver, "marker")

		require.Eventually(t, func() bool { return len(receiver.received()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, []any{"marker"}, receiver.received())
	})
	t.Run("With entries kept until started", func(t *testing.T) {
		clock := NewRealClock(nil)
		receiver := newRecorder(1)
		clock.ScheduleMessage(clock.Now(), receiver, "pending")
		assert.Equal(t, 1, clock.Pending())

		clock.Start()
		clock.Start()
		require.Eventually(t, func() bool { return len(receiver.received()) == 1 }, time.Second, 5*time.Millisecond)
		clock.Stop()
		clock.Stop()
	})
}
