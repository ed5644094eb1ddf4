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

package workerpool

import (
	"sync"
	"time"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/coactor/errors"
	"github.com/tochemey/coactor/internal/ticker"
)

const (
	indexMask     = 1<<32 - 1
	defaultIdle   = time.Minute
	initialArena  = 16
	noWorkerIndex = 0
)

// slot is an arena cell. Slots never move once allocated; a retired
// worker's slot is recycled for the next spawned worker.
type slot struct {
	worker atomic.Pointer[worker]
	// next is the handle (index+1) of the next idle slot, 0 terminates the stack
	next atomic.Int32
}

type worker struct {
	handle   int32
	tasks    chan func()
	lastUsed atomic.Int64
}

// Hub hosts detached workers: goroutines that run a single long task
// at a time, then park until the next task arrives.
//
// Idle workers form a lock-free stack threaded through the arena by slot
// handle. The stack head packs a generation tag in the high 32 bits and
// the top handle in the low 32 bits so a concurrent pop and push of the
// same slot cannot be confused.
type Hub struct {
	head atomic.Uint64

	arenaMu sync.Mutex
	arena   atomic.Pointer[[]*slot]
	free    []int32

	idleTimeout time.Duration
	ticker      *ticker.Ticker
	started     atomic.Bool
	stopped     atomic.Bool
	spawned     atomic.Int64
	running     sync.WaitGroup
	quit        chan struct{}
	cleanupDone chan struct{}
}

// NewHub creates a Hub
func NewHub(opts ...Option) *Hub {
	hub := &Hub{
		idleTimeout: defaultIdle,
		free:        make([]int32, 0, initialArena),
	}
	arena := make([]*slot, 0, initialArena)
	hub.arena.Store(&arena)

	for _, opt := range opts {
		opt.Apply(hub)
	}
	return hub
}

// Start launches the idle-worker retirement loop
func (hub *Hub) Start() {
	if !hub.started.CompareAndSwap(false, true) {
		return
	}
	hub.ticker = ticker.New(hub.idleTimeout)
	hub.quit = make(chan struct{})
	hub.cleanupDone = make(chan struct{})
	hub.ticker.Start()
	go hub.cleanup()
}

// Run hands the task to an idle worker or spawns a new one.
func (hub *Hub) Run(task func()) error {
	if !hub.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}
	if hub.stopped.Load() {
		return gerrors.ErrSchedulerStopped
	}

	w := hub.pop()
	if w == nil {
		w = hub.spawn()
	}
	w.tasks <- task
	return nil
}

// Stop retires every idle worker. Busy workers exit once their current task returns.
func (hub *Hub) Stop() {
	if !hub.started.Load() || !hub.stopped.CompareAndSwap(false, true) {
		return
	}
	close(hub.quit)
	<-hub.cleanupDone
	hub.ticker.Stop()
	hub.drain()
}

// Await blocks until every worker goroutine has exited
func (hub *Hub) Await() {
	hub.running.Wait()
}

// Spawned returns the number of live workers
func (hub *Hub) Spawned() int {
	return int(hub.spawned.Load())
}

// Idle returns the number of parked workers
func (hub *Hub) Idle() int {
	count := 0
	handle := int32(hub.head.Load() & indexMask)
	for handle != noWorkerIndex {
		count++
		handle = hub.slotAt(handle).next.Load()
	}
	return count
}

func (hub *Hub) spawn() *worker {
	hub.arenaMu.Lock()
	var handle int32
	if n := len(hub.free); n > 0 {
		handle = hub.free[n-1]
		hub.free = hub.free[:n-1]
	} else {
		current := *hub.arena.Load()
		grown := append(current[:len(current):len(current)], &slot{})
		hub.arena.Store(&grown)
		handle = int32(len(grown))
	}

	w := &worker{
		handle: handle,
		tasks:  make(chan func(), 1),
	}
	hub.slotAt(handle).worker.Store(w)
	hub.arenaMu.Unlock()

	hub.spawned.Inc()
	hub.running.Add(1)
	go hub.work(w)
	return w
}

func (hub *Hub) work(w *worker) {
	defer func() {
		hub.spawned.Dec()
		hub.running.Done()
	}()

	for task := range w.tasks {
		task()
		w.lastUsed.Store(time.Now().UnixNano())
		if hub.stopped.Load() {
			return
		}
		hub.push(w)
		// a Stop racing with the push above may have missed this worker
		if hub.stopped.Load() {
			hub.drain()
		}
	}
}

func (hub *Hub) push(w *worker) {
	s := hub.slotAt(w.handle)
	for {
		old := hub.head.Load()
		s.next.Store(int32(old & indexMask))
		tag := (old >> 32) + 1
		if hub.head.CompareAndSwap(old, tag<<32|uint64(uint32(w.handle))) {
			return
		}
	}
}

func (hub *Hub) pop() *worker {
	for {
		old := hub.head.Load()
		handle := int32(old & indexMask)
		if handle == noWorkerIndex {
			return nil
		}
		s := hub.slotAt(handle)
		next := s.next.Load()
		tag := (old >> 32) + 1
		if hub.head.CompareAndSwap(old, tag<<32|uint64(uint32(next))) {
			return s.worker.Load()
		}
	}
}

// drain pops and closes every idle worker. Only the popper owns a worker,
// so each task channel is closed once.
func (hub *Hub) drain() {
	for w := hub.pop(); w != nil; w = hub.pop() {
		hub.retire(w)
	}
}

func (hub *Hub) retire(w *worker) {
	close(w.tasks)
	hub.arenaMu.Lock()
	hub.free = append(hub.free, w.handle)
	hub.arenaMu.Unlock()
}

func (hub *Hub) slotAt(handle int32) *slot {
	return (*hub.arena.Load())[handle-1]
}

func (hub *Hub) cleanup() {
	defer close(hub.cleanupDone)
	for {
		select {
		case <-hub.quit:
			return
		case <-hub.ticker.C():
		}

		deadline := time.Now().Add(-hub.idleTimeout).UnixNano()
		var keep []*worker
		for w := hub.pop(); w != nil; w = hub.pop() {
			if w.lastUsed.Load() <= deadline {
				hub.retire(w)
				continue
			}
			keep = append(keep, w)
		}

		for i := len(keep) - 1; i >= 0; i-- {
			hub.push(keep[i])
		}
	}
}
