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

package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/coactor/actor"
	"github.com/tochemey/coactor/clock"
	"github.com/tochemey/coactor/log"
)

const (
	waitFor = 3 * time.Second
	tick    = 5 * time.Millisecond
)

func newTestSystem(t *testing.T) (actor.ActorSystem, *clock.TestClock) {
	t.Helper()
	clk := clock.NewTestClock(time.Unix(1_700_000_000, 0))
	system, err := actor.NewActorSystem("streams",
		actor.WithLogger(log.DiscardLogger),
		actor.WithClock(clk),
		actor.WithWorkers(2),
		actor.WithShutdownTimeout(2*time.Second),
		actor.WithActorInitMaxRetries(1))
	require.NoError(t, err)
	require.NoError(t, system.Start(context.Background()))
	t.Cleanup(func() {
		assert.NoError(t, system.Stop(context.Background()))
	})
	return system, clk
}

// spawnWith spawns an actor whose PreStart sets up a stream manager
func spawnWith(t *testing.T, system actor.ActorSystem, name string, setup func(ctx *actor.Context) error) *actor.PID {
	t.Helper()
	pid, err := system.Spawn(context.Background(), name, actor.Func(func(ctx *actor.Context) (*actor.Behavior, error) {
		if err := setup(ctx); err != nil {
			return nil, err
		}
		return actor.NewBehavior(), nil
	}))
	require.NoError(t, err)
	return pid
}

// spawnBehavior spawns an actor whose PreStart sets up a stream manager and
// returns the behavior driving it
func spawnBehavior(t *testing.T, system actor.ActorSystem, name string, setup func(ctx *actor.Context) (*actor.Behavior, error)) *actor.PID {
	t.Helper()
	pid, err := system.Spawn(context.Background(), name, actor.Func(setup))
	require.NoError(t, err)
	return pid
}

// removeRequest asks a test actor to remove its path
type removeRequest struct {
	reason error
}

func await[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitFor):
		require.FailNow(t, "timed out")
		var zero T
		return zero
	}
}

// endlessSource never runs out of items
func endlessSource() SourceDriver {
	next := 0
	return SourceFunc(func(demand int) ([]any, bool, error) {
		items := make([]any, demand)
		for i := range items {
			items[i] = next
			next++
		}
		return items, false, nil
	})
}

func numbers(n int) []any {
	items := make([]any, n)
	for i := range items {
		items[i] = i
	}
	return items
}

// collector is a SinkDriver recording what it consumes
type collector struct {
	items    []any
	batches  []int
	onBatch  func(items []any)
	finished chan error
}

func newCollector() *collector {
	return &collector{finished: make(chan error, 1)}
}

func (c *collector) Consume(items []any) {
	c.batches = append(c.batches, len(items))
	c.items = append(c.items, items...)
	if c.onBatch != nil {
		c.onBatch(items)
	}
}

func (c *collector) Finalize(err error) {
	c.finished <- err
}
