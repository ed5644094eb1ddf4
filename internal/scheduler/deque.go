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
	"sync"

	"golang.org/x/sys/cpu"
)

const minDequeLen = 16

// deque is a growable ring buffer. The owner works on the front,
// thieves and external producers use the back.
type deque struct {
	_     cpu.CacheLinePad
	mu    sync.Mutex
	items []Resumable
	head  int
	count int
	_     cpu.CacheLinePad
}

func newDeque() *deque {
	return &deque{items: make([]Resumable, minDequeLen)}
}

func (d *deque) pushFront(job Resumable) {
	d.mu.Lock()
	if d.count == len(d.items) {
		d.resize(len(d.items) << 1)
	}
	d.head = (d.head - 1) & (len(d.items) - 1)
	d.items[d.head] = job
	d.count++
	d.mu.Unlock()
}

func (d *deque) pushBack(job Resumable) {
	d.mu.Lock()
	if d.count == len(d.items) {
		d.resize(len(d.items) << 1)
	}
	d.items[(d.head+d.count)&(len(d.items)-1)] = job
	d.count++
	d.mu.Unlock()
}

func (d *deque) popFront() Resumable {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.count == 0 {
		return nil
	}
	job := d.items[d.head]
	d.items[d.head] = nil
	d.head = (d.head + 1) & (len(d.items) - 1)
	d.count--
	d.shrink()
	return job
}

func (d *deque) popBack() Resumable {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.count == 0 {
		return nil
	}
	idx := (d.head + d.count - 1) & (len(d.items) - 1)
	job := d.items[idx]
	d.items[idx] = nil
	d.count--
	d.shrink()
	return job
}

func (d *deque) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// shrink halves the buffer once it is a quarter full
func (d *deque) shrink() {
	if len(d.items) > minDequeLen && d.count<<2 == len(d.items) {
		d.resize(len(d.items) >> 1)
	}
}

func (d *deque) resize(size int) {
	items := make([]Resumable, size)
	for i := 0; i < d.count; i++ {
		items[i] = d.items[(d.head+i)&(len(d.items)-1)]
	}
	d.items = items
	d.head = 0
}
