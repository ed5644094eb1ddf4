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
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/coactor/clock"
	"github.com/tochemey/coactor/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(sys *actorSystem)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*actorSystem)

// Apply applies the actor system's option
func (f OptionFunc) Apply(c *actorSystem) {
	f(c)
}

// WithLogger sets the actor system custom log
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(a *actorSystem) {
		a.logger = logger
	})
}

// WithWorkers sets the number of scheduler workers
func WithWorkers(count int) Option {
	return OptionFunc(func(a *actorSystem) {
		a.workers = count
	})
}

// WithMaxThroughput sets how many messages an actor processes before it yields its worker
func WithMaxThroughput(max int) Option {
	return OptionFunc(func(a *actorSystem) {
		a.maxThroughput = max
	})
}

// WithMailboxQuantum sets the deficit quantum of the mailbox round robin
func WithMailboxQuantum(quantum int) Option {
	return OptionFunc(func(a *actorSystem) {
		a.mailboxQuantum = quantum
	})
}

// WithStealPolicy sets the idle strategy of the scheduler workers
func WithStealPolicy(policy StealPolicy) Option {
	return OptionFunc(func(a *actorSystem) {
		a.stealPolicy = policy
	})
}

// WithClock sets the clock driving timeouts and delayed messages.
// A clock given here is not started nor stopped by the actor system.
func WithClock(clk clock.Clock) Option {
	return OptionFunc(func(a *actorSystem) {
		a.clock = clk
	})
}

// WithRegistry sets the registry used by SpawnFromRegistry
func WithRegistry(registry *Registry) Option {
	return OptionFunc(func(a *actorSystem) {
		a.registry = registry
	})
}

// WithMeterProvider sets the OpenTelemetry meter provider of the runtime metrics
func WithMeterProvider(provider otelmetric.MeterProvider) Option {
	return OptionFunc(func(a *actorSystem) {
		a.meterProvider = provider
	})
}

// WithShutdownTimeout sets the shutdown timeout
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(a *actorSystem) {
		a.shutdownTimeout = timeout
	})
}

// WithActorInitMaxRetries sets the number of times to retry an actor init process
func WithActorInitMaxRetries(max int) Option {
	return OptionFunc(func(a *actorSystem) {
		a.actorInitMaxRetries = max
	})
}

// WithActorInitTimeout sets how long an actor initialization may take, retries included
func WithActorInitTimeout(timeout time.Duration) Option {
	return OptionFunc(func(a *actorSystem) {
		a.actorInitTimeout = timeout
	})
}

// WithDetachedIdleTimeout sets how long an idle detached worker is kept around
func WithDetachedIdleTimeout(timeout time.Duration) Option {
	return OptionFunc(func(a *actorSystem) {
		a.detachedIdleTimeout = timeout
	})
}
