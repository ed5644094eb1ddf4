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
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/coactor/errors"
	"github.com/tochemey/coactor/internal/pause"
	"github.com/tochemey/coactor/log"
)

func TestNewActorSystem(t *testing.T) {
	t.Run("With missing name", func(t *testing.T) {
		_, err := NewActorSystem("")
		assert.ErrorIs(t, err, gerrors.ErrNameRequired)
	})
	t.Run("With invalid name", func(t *testing.T) {
		_, err := NewActorSystem("no spaces!")
		assert.ErrorIs(t, err, gerrors.ErrInvalidActorSystemName)
	})
	t.Run("With invalid settings", func(t *testing.T) {
		_, err := NewActorSystem("test", WithMaxThroughput(0))
		assert.Error(t, err)
		_, err = NewActorSystem("test", WithShutdownTimeout(-time.Second))
		assert.Error(t, err)
		_, err = NewActorSystem("test", WithStealPolicy(StealPolicy{}))
		assert.Error(t, err)
	})
	t.Run("With defaults", func(t *testing.T) {
		system, err := NewActorSystem("test", WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		assert.Equal(t, "test", system.Name())
		assert.NotEmpty(t, system.ID())
		assert.NotNil(t, system.Clock())
		assert.Equal(t, log.DiscardLogger, system.Logger())
		assert.False(t, system.Running())
	})
}

func TestActorSystemLifecycle(t *testing.T) {
	t.Run("With start and stop", func(t *testing.T) {
		ctx := context.Background()
		system, err := NewActorSystem("test",
			WithLogger(log.DiscardLogger),
			WithWorkers(2),
			WithMeterProvider(noop.NewMeterProvider()))
		require.NoError(t, err)

		_, err = system.Spawn(ctx, "early", FromBehavior(NewBehavior()))
		assert.ErrorIs(t, err, gerrors.ErrActorSystemNotStarted)
		assert.ErrorIs(t, system.Stop(ctx), gerrors.ErrActorSystemNotStarted)

		require.NoError(t, system.Start(ctx))
		assert.ErrorIs(t, system.Start(ctx), gerrors.ErrActorSystemAlreadyStarted)
		assert.True(t, system.Running())

		received := newSink()
		pid := spawn(t, system, "echo", received.behavior())
		require.NoError(t, system.Tell(pid, "ping"))
		assert.Equal(t, "ping", received.expect(t))

		require.NoError(t, system.Stop(ctx))
		assert.False(t, system.Running())
		assert.ErrorIs(t, awaitExit(t, pid), gerrors.ExitUserShutdown)
		assert.Zero(t, system.ActorsCount())
	})
	t.Run("With stop running PostStop of every actor", func(t *testing.T) {
		system, _ := newTestSystem(t)
		actors := make([]*lifecycle, 5)
		for i := range actors {
			actors[i] = &lifecycle{behavior: NewBehavior()}
			_, err := system.Spawn(context.Background(), fmt.Sprintf("actor-%d", i), actors[i])
			require.NoError(t, err)
		}
		detached := &lifecycle{behavior: NewBehavior()}
		_, err := system.Spawn(context.Background(), "detached", detached, WithDetached())
		require.NoError(t, err)

		require.NoError(t, system.Stop(context.Background()))
		for _, actor := range append(actors, detached) {
			assert.EqualValues(t, 1, actor.postStops.Load())
		}
	})
}

func TestSpawn(t *testing.T) {
	t.Run("With unique names", func(t *testing.T) {
		system, _ := newTestSystem(t)
		pid := spawn(t, system, "unique", NewBehavior())
		assert.Equal(t, "unique", pid.Name())
		assert.Equal(t, "unique", pid.String())

		_, err := system.Spawn(context.Background(), "unique", FromBehavior(NewBehavior()))
		assert.ErrorIs(t, err, gerrors.ErrActorAlreadyExists)

		found, err := system.ActorOf("unique")
		require.NoError(t, err)
		assert.Same(t, pid, found)

		_, err = system.ActorOf("missing")
		assert.ErrorIs(t, err, gerrors.ErrActorNotFound)
	})
	t.Run("With name released after exit", func(t *testing.T) {
		system, _ := newTestSystem(t)
		pid := spawn(t, system, "reused", NewBehavior())
		require.NoError(t, system.Kill(pid, gerrors.ExitKill))
		require.ErrorIs(t, awaitExit(t, pid), gerrors.ExitKill)
		require.Eventually(t, func() bool {
			_, err := system.ActorOf("reused")
			return errors.Is(err, gerrors.ErrActorNotFound)
		}, waitFor, tick)
		spawn(t, system, "reused", NewBehavior())
	})
	t.Run("With anonymous actors", func(t *testing.T) {
		system, _ := newTestSystem(t)
		first := spawn(t, system, "", NewBehavior())
		second := spawn(t, system, "", NewBehavior())
		assert.NotEqual(t, first.ID(), second.ID())
		assert.Equal(t, fmt.Sprintf("#%d", first.ID()), first.String())
		assert.Len(t, system.Actors(), 2)
	})
	t.Run("With invalid arguments", func(t *testing.T) {
		system, _ := newTestSystem(t)
		_, err := system.Spawn(context.Background(), "nil", nil)
		assert.ErrorIs(t, err, gerrors.ErrInvalidInstance)
		_, err = system.Spawn(context.Background(), "bad name", FromBehavior(NewBehavior()))
		assert.ErrorIs(t, err, gerrors.ErrInvalidActorName)
	})
	t.Run("With empty behavior exiting normally", func(t *testing.T) {
		system, _ := newTestSystem(t)
		pid, err := system.Spawn(context.Background(), "", Func(func(*Context) (*Behavior, error) { return nil, nil }))
		require.NoError(t, err)
		assert.ErrorIs(t, awaitExit(t, pid), gerrors.ExitNormal)
		assert.False(t, pid.IsRunning())
	})
	t.Run("With registry", func(t *testing.T) {
		registry := NewRegistry().
			Register("adder", Factory1(func(offset int) (Actor, error) {
				return FromBehavior(NewBehavior(Reply(func(_ *ReceiveContext, x int) (int, error) {
					return x + offset, nil
				}))), nil
			})).
			Register("noop", Factory0(func() (Actor, error) { return FromBehavior(NewBehavior()), nil }))
		require.Equal(t, 2, registry.Kinds())

		system, _ := newTestSystem(t, WithRegistry(registry))
		ctx := context.Background()

		pid, err := system.SpawnFromRegistry(ctx, "adder", "adder", 10)
		require.NoError(t, err)
		reply, err := system.Ask(ctx, pid, 32, time.Second)
		require.NoError(t, err)
		assert.Equal(t, 42, reply)

		_, err = system.SpawnFromRegistry(ctx, "bad", "adder", "ten")
		assert.ErrorIs(t, err, gerrors.ErrInvalidArguments)
		_, err = system.SpawnFromRegistry(ctx, "bad", "adder")
		assert.ErrorIs(t, err, gerrors.ErrInvalidArguments)
		_, err = system.SpawnFromRegistry(ctx, "bad", "noop", 1)
		assert.ErrorIs(t, err, gerrors.ErrInvalidArguments)
		_, err = system.SpawnFromRegistry(ctx, "bad", "unknown")
		assert.ErrorIs(t, err, gerrors.ErrTypeNotRegistered)

		registry.Deregister("noop")
		_, ok := registry.Lookup("noop")
		assert.False(t, ok)
	})
}

func TestRequest(t *testing.T) {
	t.Run("With reply then become", func(t *testing.T) {
		system, _ := newTestSystem(t)
		muted := NewBehavior(On(func(*ReceiveContext, int) {}))
		pid := spawn(t, system, "incr", NewBehavior(
			Reply(func(_ *ReceiveContext, x int) (int, error) { return x + 1, nil }),
			On(func(ctx *ReceiveContext, msg string) { ctx.Become(muted) }),
		))

		scoped, err := system.Scoped("caller")
		require.NoError(t, err)
		defer scoped.Close()

		replies := make(chan int, 2)
		collect := NewBehavior(On(func(_ *ReceiveContext, x int) { replies <- x }))

		require.NoError(t, scoped.Tell(pid, 41))
		ctx, cancel := context.WithTimeout(context.Background(), waitFor)
		defer cancel()
		require.NoError(t, scoped.Receive(ctx, collect))
		assert.Equal(t, 42, <-replies)

		require.NoError(t, scoped.Tell(pid, "mute"))
		require.NoError(t, scoped.Tell(pid, 41))

		short, cancelShort := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancelShort()
		assert.ErrorIs(t, scoped.Receive(short, collect), context.DeadlineExceeded)
		assert.Empty(t, replies)
	})
	t.Run("With external request timing out", func(t *testing.T) {
		system, clk := newTestSystem(t)
		pid := spawn(t, system, "silent", NewBehavior(On(func(*ReceiveContext, string) {})))

		response := system.Request(context.Background(), pid, 100*time.Millisecond, "hello")
		require.True(t, clk.HasPendingTimeout())
		clk.AdvanceTime(99 * time.Millisecond)
		select {
		case <-response.Done():
			require.FailNow(t, "request completed too early")
		default:
		}

		clk.AdvanceTime(time.Millisecond)
		_, err := response.Await(context.Background())
		assert.ErrorIs(t, err, gerrors.ErrRequestTimeout)
		assert.False(t, clk.HasPendingTimeout())
	})
	t.Run("With actor request timing out exactly once", func(t *testing.T) {
		system, clk := newTestSystem(t)

		var pending *ResponsePromise
		target := spawn(t, system, "slow", NewBehavior(
			On(func(ctx *ReceiveContext, msg string) {
				if msg == "release" {
					pending.Deliver("late")
					return
				}
				pending = ctx.Promise()
			}),
		))

		calls := atomic.NewInt32(0)
		results := make(chan error, 4)
		requester := spawn(t, system, "requester", NewBehavior(
			On(func(ctx *ReceiveContext, _ bool) {
				ctx.Request(target, 100*time.Millisecond, "hello", func(_ any, err error) {
					calls.Inc()
					results <- err
				})
			}),
		))

		require.NoError(t, system.Tell(requester, true))
		require.Eventually(t, clk.HasPendingTimeout, waitFor, tick)
		clk.AdvanceTime(100 * time.Millisecond)

		select {
		case err := <-results:
			assert.ErrorIs(t, err, gerrors.ErrRequestTimeout)
		case <-time.After(waitFor):
			require.FailNow(t, "request did not time out")
		}

		require.NoError(t, system.Tell(target, "release"))
		clk.AdvanceTime(time.Second)
		pause.For(100 * time.Millisecond)
		assert.EqualValues(t, 1, calls.Load())
		assert.True(t, requester.IsRunning())
	})
	t.Run("With actor request answered", func(t *testing.T) {
		system, _ := newTestSystem(t)
		doubler := spawn(t, system, "doubler", NewBehavior(
			Reply(func(_ *ReceiveContext, x int) (int, error) { return 2 * x, nil }),
		))
		answers := make(chan any, 1)
		requester := spawn(t, system, "requester", NewBehavior(
			On(func(ctx *ReceiveContext, x int) {
				ctx.Request(doubler, 0, x, func(reply any, err error) {
					if err != nil {
						answers <- err
						return
					}
					answers <- reply
				})
			}),
		))
		require.NoError(t, system.Tell(requester, 21))
		select {
		case answer := <-answers:
			assert.Equal(t, 42, answer)
		case <-time.After(waitFor):
			require.FailNow(t, "no answer")
		}
	})
	t.Run("With error reply", func(t *testing.T) {
		system, _ := newTestSystem(t)
		boom := errors.New("boom")
		pid := spawn(t, system, "failing", NewBehavior(
			Reply(func(_ *ReceiveContext, x int) (int, error) { return 0, boom }),
		))
		_, err := system.Ask(context.Background(), pid, 1, time.Second)
		assert.ErrorIs(t, err, boom)
		assert.True(t, pid.IsRunning())
	})
	t.Run("With unexpected message", func(t *testing.T) {
		system, _ := newTestSystem(t)
		pid := spawn(t, system, "strict", NewBehavior(On(func(*ReceiveContext, int) {})))
		_, err := system.Ask(context.Background(), pid, "what", time.Second)
		assert.ErrorIs(t, err, gerrors.ErrUnexpectedMessage)
	})
	t.Run("With receiver down", func(t *testing.T) {
		system, _ := newTestSystem(t)
		pid := spawn(t, system, "gone", NewBehavior())
		require.NoError(t, system.Kill(pid, gerrors.ExitKill))
		awaitExit(t, pid)

		_, err := system.Ask(context.Background(), pid, 1, time.Second)
		assert.ErrorIs(t, err, gerrors.ErrRequestReceiverDown)
	})
	t.Run("With invalid request", func(t *testing.T) {
		system, _ := newTestSystem(t)
		_, err := system.Ask(context.Background(), nil, 1, time.Second)
		assert.ErrorIs(t, err, gerrors.ErrUndefinedActor)
		pid := spawn(t, system, "", NewBehavior())
		_, err = system.Ask(context.Background(), pid, 1, -time.Second)
		assert.ErrorIs(t, err, gerrors.ErrInvalidTimeout)
	})
	t.Run("With caller context cancelled", func(t *testing.T) {
		system, _ := newTestSystem(t)
		pid := spawn(t, system, "silent", NewBehavior(On(func(*ReceiveContext, int) {})))
		ctx, cancel := context.WithCancel(context.Background())
		response := system.Request(ctx, pid, 0, 1)
		cancel()
		_, err := response.Await(context.Background())
		assert.ErrorIs(t, err, context.Canceled)
	})
	t.Run("With forward", func(t *testing.T) {
		system, _ := newTestSystem(t)
		worker := spawn(t, system, "worker", NewBehavior(
			Reply(func(_ *ReceiveContext, x int) (int, error) { return x * 3, nil }),
		))
		router := spawn(t, system, "router", NewBehavior(
			On(func(ctx *ReceiveContext, _ int) { assert.NoError(t, ctx.Forward(worker)) }),
		))
		reply, err := system.Ask(context.Background(), router, 5, time.Second)
		require.NoError(t, err)
		assert.Equal(t, 15, reply)
	})
	t.Run("With forwarding stages", func(t *testing.T) {
		type staged string
		system, _ := newTestSystem(t)
		received := newSink()
		source := spawn(t, system, "source", NewBehavior(
			Reply(func(_ *ReceiveContext, x int) (int, error) { return x * 10, nil }),
		))
		first := spawn(t, system, "first", NewBehavior(
			Reply(func(_ *ReceiveContext, x int) (int, error) { return x + 1, nil }),
		))
		second := spawn(t, system, "second", NewBehavior(
			Reply(func(_ *ReceiveContext, x int) (staged, error) { return staged(fmt.Sprintf("value=%d", x)), nil }),
		))
		origin := spawn(t, system, "origin", NewBehavior(
			On(func(ctx *ReceiveContext, _ bool) { assert.NoError(t, ctx.TellVia(source, 4, first, second)) }),
			On(func(_ *ReceiveContext, msg staged) { received.messages <- msg }),
		))
		require.NoError(t, system.Tell(origin, true))
		assert.Equal(t, staged("value=41"), received.expect(t))
	})
}

func TestKill(t *testing.T) {
	t.Run("With linked actor receiving the exact reason", func(t *testing.T) {
		system, _ := newTestSystem(t)
		exits := make(chan *ExitMsg, 1)
		first := spawn(t, system, "first", NewBehavior())
		second, err := system.Spawn(context.Background(), "second", Func(func(ctx *Context) (*Behavior, error) {
			ctx.SetExitHandler(func(_ *Context, msg *ExitMsg) { exits <- msg })
			ctx.Link(first)
			return NewBehavior(), nil
		}))
		require.NoError(t, err)
		require.Eventually(t, func() bool { return first.IsLinkedTo(second) }, waitFor, tick)

		require.NoError(t, system.Kill(first, gerrors.ExitUserShutdown))
		assert.ErrorIs(t, awaitExit(t, first), gerrors.ExitUserShutdown)

		select {
		case msg := <-exits:
			assert.Same(t, first, msg.Source)
			assert.Equal(t, gerrors.ExitUserShutdown, msg.Reason)
		case <-time.After(waitFor):
			require.FailNow(t, "no exit message")
		}
		assert.True(t, second.IsRunning())
		assert.False(t, second.IsLinkedTo(first))
	})
	t.Run("With kill reason not trappable", func(t *testing.T) {
		system, _ := newTestSystem(t)
		trapped := atomic.NewBool(false)
		pid, err := system.Spawn(context.Background(), "trapper", Func(func(ctx *Context) (*Behavior, error) {
			ctx.SetExitHandler(func(*Context, *ExitMsg) { trapped.Store(true) })
			return NewBehavior(), nil
		}))
		require.NoError(t, err)
		require.NoError(t, system.Kill(pid, gerrors.ExitKill))
		assert.ErrorIs(t, awaitExit(t, pid), gerrors.ExitKill)
		assert.False(t, trapped.Load())
		assert.ErrorIs(t, system.Kill(pid, gerrors.ExitKill), gerrors.ErrDead)
	})
	t.Run("With invalid target", func(t *testing.T) {
		system, _ := newTestSystem(t)
		assert.ErrorIs(t, system.Kill(nil, nil), gerrors.ErrUndefinedActor)
	})
}

func TestTell(t *testing.T) {
	t.Run("With dead letters", func(t *testing.T) {
		system, _ := newTestSystem(t)
		pid := spawn(t, system, "short", NewBehavior())
		require.NoError(t, system.Kill(pid, gerrors.ExitKill))
		awaitExit(t, pid)

		assert.ErrorIs(t, system.Tell(pid, "lost"), gerrors.ErrMailboxClosed)
		assert.GreaterOrEqual(t, system.DeadLetters(), int64(1))
		assert.ErrorIs(t, system.Tell(nil, "lost"), gerrors.ErrUndefinedActor)
	})
	t.Run("With delayed tell", func(t *testing.T) {
		system, clk := newTestSystem(t)
		received := newSink()
		pid := spawn(t, system, "delayed", received.behavior())

		require.NoError(t, system.DelayedTell(pid, time.Second, "later"))
		received.expectNone(t, 50*time.Millisecond)
		assert.Equal(t, 1, clk.AdvanceTime(time.Second))
		assert.Equal(t, "later", received.expect(t))
	})
	t.Run("With urgent messages first", func(t *testing.T) {
		system, _ := newTestSystem(t, WithActorInitTimeout(waitFor))
		received := newSink()
		gate := make(chan struct{})
		pid, err := system.Spawn(context.Background(), "ordered", Func(func(*Context) (*Behavior, error) {
			<-gate
			return received.behavior(), nil
		}))
		require.NoError(t, err)
		for i := range 3 {
			require.NoError(t, system.Tell(pid, i))
		}
		require.NoError(t, system.TellUrgent(pid, "urgent"))
		close(gate)

		assert.Equal(t, "urgent", received.expect(t))
		for i := range 3 {
			assert.Equal(t, i, received.expect(t))
		}
	})
	t.Run("With stats", func(t *testing.T) {
		system, _ := newTestSystem(t)
		received := newSink()
		pid := spawn(t, system, "counted", received.behavior())
		for i := range 10 {
			require.NoError(t, system.Tell(pid, i))
		}
		for range 10 {
			received.expect(t)
		}
		require.Eventually(t, func() bool { return pid.ProcessedCount() == 10 }, waitFor, tick)
		stats := system.Stats()
		assert.Equal(t, 1, stats.Actors)
		assert.GreaterOrEqual(t, stats.Processed, int64(10))
		assert.Positive(t, stats.Executed)
	})
}

func TestMessageScheduler(t *testing.T) {
	t.Run("With schedule once", func(t *testing.T) {
		system, _ := newTestSystem(t)
		received := newSink()
		pid := spawn(t, system, "scheduled", received.behavior())

		reference, err := system.ScheduleOnce("tick", pid, 50*time.Millisecond)
		require.NoError(t, err)
		assert.NotEmpty(t, reference)
		assert.Equal(t, "tick", received.expect(t))
		received.expectNone(t, 200*time.Millisecond)
	})
	t.Run("With recurring schedule cancelled", func(t *testing.T) {
		system, _ := newTestSystem(t)
		received := newSink()
		pid := spawn(t, system, "recurring", received.behavior())

		reference, err := system.Schedule("tick", pid, 20*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, "tick", received.expect(t))
		assert.Equal(t, "tick", received.expect(t))

		require.NoError(t, system.CancelSchedule(reference))
		pause.For(50 * time.Millisecond)
		for len(received.messages) > 0 {
			<-received.messages
		}
		received.expectNone(t, 100*time.Millisecond)
		assert.ErrorIs(t, system.CancelSchedule(reference), gerrors.ErrScheduledReferenceNotFound)
	})
	t.Run("With cron expression", func(t *testing.T) {
		system, _ := newTestSystem(t)
		received := newSink()
		pid := spawn(t, system, "cron", received.behavior())

		_, err := system.ScheduleWithCron("tick", pid, "* * * * * ?")
		require.NoError(t, err)
		assert.Equal(t, "tick", received.expect(t))

		_, err = system.ScheduleWithCron("tick", pid, "not a cron")
		assert.Error(t, err)
	})
	t.Run("With invalid target", func(t *testing.T) {
		system, _ := newTestSystem(t)
		_, err := system.ScheduleOnce("tick", nil, time.Millisecond)
		assert.ErrorIs(t, err, gerrors.ErrUndefinedActor)
	})
}
