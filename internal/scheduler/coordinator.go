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

package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/coactor/errors"
	"github.com/tochemey/coactor/log"
)

const defaultMaxThroughput = 300

// Stats is a snapshot of the coordinator counters
type Stats struct {
	Executed int64
	Steals   int64
	Panics   int64
}

// Coordinator owns a fixed pool of workers and places jobs on them.
//
// Jobs enqueued from outside a worker are spread round-robin; jobs scheduled
// by a running job stay on the same worker. Idle workers steal from their peers.
type Coordinator struct {
	numWorkers    int
	maxThroughput int
	policy        Policy
	logger        log.Logger

	workers []*worker
	next    atomic.Uint64
	group   *errgroup.Group

	started  atomic.Bool
	stopping atomic.Bool
	stopped  atomic.Bool

	// inflight counts the jobs queued or running; drained is signaled when it drops to zero
	inflight atomic.Int64
	drained  chan struct{}

	executed atomic.Int64
	steals   atomic.Int64
	panics   atomic.Int64
}

// New creates a Coordinator. It defaults to one worker per CPU.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		numWorkers:    runtime.GOMAXPROCS(0),
		maxThroughput: defaultMaxThroughput,
		policy:        DefaultPolicy(),
		logger:        log.DefaultLogger,
		drained:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt.Apply(c)
	}
	return c
}

// Start launches the workers
func (c *Coordinator) Start() error {
	if err := c.policy.Validate(); err != nil {
		return fmt.Errorf("invalid steal policy: %w", err)
	}
	if !c.started.CompareAndSwap(false, true) {
		return nil
	}

	c.workers = make([]*worker, c.numWorkers)
	for i := range c.workers {
		c.workers[i] = newWorker(i, c)
	}

	c.group = new(errgroup.Group)
	for _, w := range c.workers {
		c.group.Go(func() error {
			w.run()
			return nil
		})
	}

	c.logger.Debugf("scheduler started with %d workers", c.numWorkers)
	return nil
}

// Enqueue places the job on the next worker in round-robin order.
func (c *Coordinator) Enqueue(job Resumable) error {
	if !c.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}
	c.inflight.Inc()
	if c.stopped.Load() {
		c.release()
		return gerrors.ErrSchedulerStopped
	}
	idx := (c.next.Inc() - 1) % uint64(len(c.workers))
	c.workers[idx].external(job)
	return nil
}

// Stop shuts every worker down. It first waits until every queued or running
// job reported Done or AwaitMessage, then stops the workers. Stop blocks until
// every worker exited or ctx is done, in which case the workers are told to
// quit at their next poll.
func (c *Coordinator) Stop(ctx context.Context) error {
	if !c.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}
	if !c.stopping.CompareAndSwap(false, true) {
		return nil
	}

	// jobs may still be enqueued until stopped is set, so drain on both sides of it
	if err := c.drain(ctx); err != nil {
		return c.abort(err)
	}
	c.stopped.Store(true)
	if err := c.drain(ctx); err != nil {
		return c.abort(err)
	}

	alive := make(map[int]*worker, len(c.workers))
	for _, w := range c.workers {
		alive[w.id] = w
	}

	for len(alive) > 0 {
		var target *worker
		for _, w := range alive {
			target = w
			break
		}

		// the request may be stolen; whoever runs it stops
		request := &shutdownJob{stopped: make(chan int, 1)}
		target.post(request)

		select {
		case id := <-request.stopped:
			delete(alive, id)
		case <-ctx.Done():
			return c.abort(ctx.Err())
		}
	}

	_ = c.group.Wait()
	c.logger.Debug("scheduler stopped")
	return nil
}

// drain waits until no job is queued or running
func (c *Coordinator) drain(ctx context.Context) error {
	for c.inflight.Load() > 0 {
		select {
		case <-c.drained:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// abort tells every worker to quit and waits for them
func (c *Coordinator) abort(err error) error {
	c.stopped.Store(true)
	for _, w := range c.workers {
		w.quit()
	}
	_ = c.group.Wait()
	return err
}

// release accounts for a job that left the scheduler
func (c *Coordinator) release() {
	if c.inflight.Dec() == 0 {
		select {
		case c.drained <- struct{}{}:
		default:
		}
	}
}

// Workers returns the number of workers
func (c *Coordinator) Workers() int {
	return c.numWorkers
}

// MaxThroughput returns the per-Resume message budget
func (c *Coordinator) MaxThroughput() int {
	return c.maxThroughput
}

// Stats returns a snapshot of the counters
func (c *Coordinator) Stats() Stats {
	return Stats{
		Executed: c.executed.Load(),
		Steals:   c.steals.Load(),
		Panics:   c.panics.Load(),
	}
}

// Queued returns the number of jobs waiting in the deques
func (c *Coordinator) Queued() int {
	total := 0
	for _, w := range c.workers {
		total += w.deque.len()
	}
	return total
}

type shutdownJob struct {
	stopped chan int
}

func (s *shutdownJob) Resume(unit ExecutionUnit, _ int) ResumeResult {
	if w, ok := unit.(*worker); ok {
		s.stopped <- w.id
	}
	return ShutdownUnit
}

// sleep waits for the given duration, a wake-up or a quit signal.
// It returns false when the worker must quit.
func sleep(d time.Duration, wake, quit <-chan struct{}) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-wake:
	case <-quit:
		return false
	}
	return true
}
