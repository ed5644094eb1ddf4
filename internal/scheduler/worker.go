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
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	gerrors "github.com/tochemey/coactor/errors"
)

// worker executes jobs from its own deque and steals from its peers when idle
type worker struct {
	id          int
	coordinator *Coordinator
	deque       *deque
	wake        chan struct{}
	done        chan struct{}
	quitOnce    sync.Once
	rng         splitMix64
}

var _ ExecutionUnit = (*worker)(nil)

func newWorker(id int, c *Coordinator) *worker {
	w := &worker{
		id:          id,
		coordinator: c,
		deque:       newDeque(),
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	w.rng.seed(uint64(time.Now().UnixNano()) + uint64(id))
	return w
}

// Exec schedules a job on this worker. Only the job currently running on
// the worker calls it, so the job lands at the LIFO end.
func (w *worker) Exec(job Resumable) {
	w.coordinator.inflight.Inc()
	w.deque.pushFront(job)
}

// external queues a job counted by Enqueue
func (w *worker) external(job Resumable) {
	w.post(job)
}

// post queues a job at the FIFO end and wakes the worker
func (w *worker) post(job Resumable) {
	w.deque.pushBack(job)
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *worker) quit() {
	w.quitOnce.Do(func() { close(w.done) })
}

func (w *worker) run() {
	for {
		job := w.next()
		if job == nil {
			return
		}

		result := w.resume(job)
		w.coordinator.executed.Inc()
		switch result {
		case ResumeLater:
			w.deque.pushBack(job)
		case ShutdownUnit:
			return
		case AwaitMessage, Done:
			w.coordinator.release()
		}
	}
}

// next walks the policy tiers until it finds a job. It returns nil when told to quit.
func (w *worker) next() Resumable {
	tiers := w.coordinator.policy.tiers()
	for i, tier := range tiers {
		relaxed := i == len(tiers)-1
		for attempt := 1; relaxed || attempt <= tier.Attempts; attempt++ {
			select {
			case <-w.done:
				return nil
			default:
			}

			if job := w.deque.popFront(); job != nil {
				return job
			}

			if attempt%tier.StealInterval == 0 {
				if job := w.steal(); job != nil {
					return job
				}
			}

			if tier.Sleep > 0 {
				if !sleep(tier.Sleep, w.wake, w.done) {
					return nil
				}
				continue
			}
			runtime.Gosched()
		}
	}
	return nil
}

func (w *worker) steal() Resumable {
	workers := w.coordinator.workers
	if len(workers) < 2 {
		return nil
	}

	victim := workers[w.rng.next()%uint64(len(workers))]
	if victim == w {
		return nil
	}

	job := victim.deque.popBack()
	if job != nil {
		w.coordinator.steals.Inc()
	}
	return job
}

// resume runs the job and turns a panic into an abort of that job only
func (w *worker) resume(job Resumable) (result ResumeResult) {
	defer func() {
		if r := recover(); r != nil {
			w.coordinator.panics.Inc()
			err := toError(r)
			w.coordinator.logger.Errorf("worker %d recovered from a panic: %v", w.id, err)
			if aborter, ok := job.(Aborter); ok {
				aborter.Abort(gerrors.NewPanicError(err))
			}
			result = Done
		}
	}()
	return job.Resume(w, w.coordinator.maxThroughput)
}

func toError(r any) error {
	switch v := r.(type) {
	case error:
		return v
	case string:
		return errors.New(v)
	default:
		return fmt.Errorf("%#v", r)
	}
}

// splitMix64 picks steal victims
type splitMix64 struct {
	state uint64
}

func (s *splitMix64) seed(seed uint64) {
	s.state = seed
}

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
