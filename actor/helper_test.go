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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tochemey/coactor/clock"
	"github.com/tochemey/coactor/log"
)

const (
	waitFor = 3 * time.Second
	tick    = 5 * time.Millisecond
)

func newTestSystem(t *testing.T, opts ...Option) (ActorSystem, *clock.TestClock) {
	t.Helper()
	clk := clock.NewTestClock(time.Unix(1_700_000_000, 0))
	defaults := []Option{
		WithLogger(log.DiscardLogger),
		WithClock(clk),
		WithWorkers(2),
		WithShutdownTimeout(2 * time.Second),
		WithActorInitTimeout(200 * time.Millisecond),
		WithActorInitMaxRetries(2),
	}
	system, err := NewActorSystem("test", append(defaults, opts...)...)
	require.NoError(t, err)
	require.NoError(t, system.Start(context.Background()))
	t.Cleanup(func() {
		if system.Running() {
			assert.NoError(t, system.Stop(context.Background()))
		}
	})
	return system, clk
}

func spawn(t *testing.T, system ActorSystem, name string, behavior *Behavior, opts ...SpawnOption) *PID {
	t.Helper()
	pid, err := system.Spawn(context.Background(), name, FromBehavior(behavior), opts...)
	require.NoError(t, err)
	require.NotNil(t, pid)
	return pid
}

// sink collects every message it receives
type sink struct {
	messages chan any
}

func newSink() *sink {
	return &sink{messages: make(chan any, 64)}
}

func (s *sink) behavior() *Behavior {
	return NewBehavior(Others(func(_ *ReceiveContext, msg any) {
		s.messages <- msg
	}))
}

func (s *sink) expect(t *testing.T) any {
	t.Helper()
	select {
	case msg := <-s.messages:
		return msg
	case <-time.After(waitFor):
		require.FailNow(t, "no message received")
		return nil
	}
}

func (s *sink) expectNone(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case msg := <-s.messages:
		require.FailNowf(t, "unexpected message", "%#v", msg)
	case <-time.After(within):
	}
}

func awaitExit(t *testing.T, pid *PID) error {
	t.Helper()
	select {
	case <-pid.Done():
		return pid.ExitReason()
	case <-time.After(waitFor):
		require.FailNow(t, "actor did not exit")
		return nil
	}
}

// lifecycle records the hooks of an actor
type lifecycle struct {
	behavior  *Behavior
	startErr  error
	attempts  atomic.Int32
	postStops atomic.Int32
}

func (l *lifecycle) PreStart(*Context) (*Behavior, error) {
	l.attempts.Inc()
	if l.startErr != nil {
		return nil, l.startErr
	}
	return l.behavior, nil
}

func (l *lifecycle) PostStop(*Context) error {
	l.postStops.Inc()
	return nil
}
