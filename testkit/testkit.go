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

package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/tochemey/coactor/actor"
	"github.com/tochemey/coactor/clock"
	"github.com/tochemey/coactor/log"
)

// TestKit defines actor test kit
type TestKit struct {
	actorSystem actor.ActorSystem
	kt          *testing.T
	logger      log.Logger
	clock       *clock.TestClock
	workers     int
}

// New creates an instance of TestKit
func New(ctx context.Context, t *testing.T, opts ...Option) *TestKit {
	testkit := &TestKit{
		kt:     t,
		logger: log.DiscardLogger,
	}

	for _, opt := range opts {
		opt.Apply(testkit)
	}

	systemOpts := []actor.Option{
		actor.WithLogger(testkit.logger),
		actor.WithActorInitTimeout(time.Second),
		actor.WithActorInitMaxRetries(5),
	}
	if testkit.clock != nil {
		systemOpts = append(systemOpts, actor.WithClock(testkit.clock))
	}
	if testkit.workers > 0 {
		systemOpts = append(systemOpts, actor.WithWorkers(testkit.workers))
	}

	system, err := actor.NewActorSystem("testkit", systemOpts...)
	if err != nil {
		t.Fatal(err.Error())
	}

	if err := system.Start(ctx); err != nil {
		t.Fatal(err.Error())
	}

	testkit.actorSystem = system
	return testkit
}

// ActorSystem returns the testkit actor system
func (k *TestKit) ActorSystem() actor.ActorSystem {
	return k.actorSystem
}

// Clock returns the TestClock set with WithTestClock, nil otherwise
func (k *TestKit) Clock() *clock.TestClock {
	return k.clock
}

// Spawn creates an actor
func (k *TestKit) Spawn(ctx context.Context, name string, a actor.Actor, opts ...actor.SpawnOption) *actor.PID {
	pid, err := k.actorSystem.Spawn(ctx, name, a, opts...)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return pid
}

// NewProbe create a test probe
func (k *TestKit) NewProbe(ctx context.Context) Probe {
	testProbe, err := newProbe(ctx, k.actorSystem, k.kt)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return testProbe
}

// Shutdown stops the test kit
func (k *TestKit) Shutdown(ctx context.Context) {
	if err := k.actorSystem.Stop(ctx); err != nil {
		k.kt.Fatal(err.Error())
	}
}
