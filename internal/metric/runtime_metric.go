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

package metric

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// SchedulerStats is the snapshot read when the scheduler instruments are observed
type SchedulerStats struct {
	Executed int64
	Steals   int64
	Panics   int64
}

// RuntimeMetric groups the instruments describing the actor runtime.
//
// Instruments:
//   - coactor.actors.spawned     (Int64Counter)
//   - coactor.actors.exited      (Int64Counter)
//   - coactor.actors.running     (Int64UpDownCounter)
//   - coactor.messages.processed (Int64Counter)
//   - coactor.messages.bounced   (Int64Counter)
//   - coactor.scheduler.executed (Int64ObservableCounter)
//   - coactor.scheduler.steals   (Int64ObservableCounter)
//   - coactor.scheduler.panics   (Int64ObservableCounter)
type RuntimeMetric struct {
	spawnCount     metric.Int64Counter
	exitCount      metric.Int64Counter
	runningActors  metric.Int64UpDownCounter
	processedCount metric.Int64Counter
	bounceCount    metric.Int64Counter
	executedJobs   metric.Int64ObservableCounter
	steals         metric.Int64ObservableCounter
	panics         metric.Int64ObservableCounter
}

// NewRuntimeMetric creates the runtime instruments using the provided Meter.
// It returns an error if any instrument cannot be created.
func NewRuntimeMetric(meter metric.Meter) (*RuntimeMetric, error) {
	var instruments RuntimeMetric
	var err error

	if instruments.spawnCount, err = meter.Int64Counter(
		"coactor.actors.spawned",
		metric.WithDescription("Total number of actors spawned"),
	); err != nil {
		return nil, fmt.Errorf("failed to create spawnCount instrument, %w", err)
	}

	if instruments.exitCount, err = meter.Int64Counter(
		"coactor.actors.exited",
		metric.WithDescription("Total number of actors exited"),
	); err != nil {
		return nil, fmt.Errorf("failed to create exitCount instrument, %w", err)
	}

	if instruments.runningActors, err = meter.Int64UpDownCounter(
		"coactor.actors.running",
		metric.WithDescription("Number of actors currently running"),
	); err != nil {
		return nil, fmt.Errorf("failed to create runningActors instrument, %w", err)
	}

	if instruments.processedCount, err = meter.Int64Counter(
		"coactor.messages.processed",
		metric.WithDescription("Total number of messages processed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processedCount instrument, %w", err)
	}

	if instruments.bounceCount, err = meter.Int64Counter(
		"coactor.messages.bounced",
		metric.WithDescription("Total number of messages bounced by closed mailboxes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create bounceCount instrument, %w", err)
	}

	if instruments.executedJobs, err = meter.Int64ObservableCounter(
		"coactor.scheduler.executed",
		metric.WithDescription("Total number of jobs resumed by the scheduler"),
	); err != nil {
		return nil, fmt.Errorf("failed to create executedJobs instrument, %w", err)
	}

	if instruments.steals, err = meter.Int64ObservableCounter(
		"coactor.scheduler.steals",
		metric.WithDescription("Total number of jobs stolen between workers"),
	); err != nil {
		return nil, fmt.Errorf("failed to create steals instrument, %w", err)
	}

	if instruments.panics, err = meter.Int64ObservableCounter(
		"coactor.scheduler.panics",
		metric.WithDescription("Total number of panics recovered by the scheduler"),
	); err != nil {
		return nil, fmt.Errorf("failed to create panics instrument, %w", err)
	}

	return &instruments, nil
}

// ObserveScheduler registers a callback reporting the scheduler statistics
// returned by stats whenever the observable instruments are collected.
func (x *RuntimeMetric) ObserveScheduler(meter metric.Meter, stats func() SchedulerStats) (metric.Registration, error) {
	return meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := stats()
		observer.ObserveInt64(x.executedJobs, snapshot.Executed)
		observer.ObserveInt64(x.steals, snapshot.Steals)
		observer.ObserveInt64(x.panics, snapshot.Panics)
		return nil
	}, x.executedJobs, x.steals, x.panics)
}

// SpawnCount returns the counter of spawned actors
func (x *RuntimeMetric) SpawnCount() metric.Int64Counter {
	return x.spawnCount
}

// ExitCount returns the counter of exited actors
func (x *RuntimeMetric) ExitCount() metric.Int64Counter {
	return x.exitCount
}

// RunningActors returns the up-down counter of running actors
func (x *RuntimeMetric) RunningActors() metric.Int64UpDownCounter {
	return x.runningActors
}

// ProcessedCount returns the counter of processed messages
func (x *RuntimeMetric) ProcessedCount() metric.Int64Counter {
	return x.processedCount
}

// BounceCount returns the counter of bounced messages
func (x *RuntimeMetric) BounceCount() metric.Int64Counter {
	return x.bounceCount
}

// ExecutedJobs returns the observable counter of resumed jobs
func (x *RuntimeMetric) ExecutedJobs() metric.Int64ObservableCounter {
	return x.executedJobs
}

// Steals returns the observable counter of stolen jobs
func (x *RuntimeMetric) Steals() metric.Int64ObservableCounter {
	return x.steals
}

// Panics returns the observable counter of recovered panics
func (x *RuntimeMetric) Panics() metric.Int64ObservableCounter {
	return x.panics
}
