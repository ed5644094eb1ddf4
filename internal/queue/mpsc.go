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

package queue

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

type node[T any] struct {
	next  atomic.Pointer[node[T]]
	value T
}

// Mpsc is an unbounded multi-producer single-consumer FIFO queue.
//
// Producers append by swapping the tail and linking the previous node.
// Push is safe for any number of goroutines; Pop, Peek and IsEmpty must
// only be called by the single consumer.
type Mpsc[T any] struct {
	head   atomic.Pointer[node[T]] // consumer only
	_      cpu.CacheLinePad
	tail   atomic.Pointer[node[T]] // producers only
	_      cpu.CacheLinePad
	length atomic.Int64
}

// NewMpsc creates an empty queue with a dummy node.
func NewMpsc[T any]() *Mpsc[T] {
	dummy := new(node[T])
	q := &Mpsc[T]{}
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

// Push appends the value. It never blocks.
func (q *Mpsc[T]) Push(value T) {
	n := &node[T]{value: value}
	q.length.Add(1)
	prev := q.tail.Swap(n)
	prev.next.Store(n)
}

// Pop removes and returns the oldest value.
// It returns false when the queue is empty.
func (q *Mpsc[T]) Pop() (T, bool) {
	var zero T
	head := q.head.Load()
	next := head.next.Load()
	if next == nil {
		return zero, false
	}

	q.head.Store(next)
	value := next.value
	next.value = zero
	head.next.Store(nil)
	q.length.Add(-1)
	return value, true
}

// Peek returns the oldest value without removing it.
func (q *Mpsc[T]) Peek() (T, bool) {
	next := q.head.Load().next.Load()
	if next == nil {
		var zero T
		return zero, false
	}
	return next.value, true
}

// IsEmpty reports whether a value is ready to be popped.
// A producer that swapped the tail but has not linked yet is not visible.
func (q *Mpsc[T]) IsEmpty() bool {
	return q.head.Load().next.Load() == nil
}

// Len returns the number of pushed values not yet popped.
// The count includes values whose producer has not finished linking.
func (q *Mpsc[T]) Len() int64 {
	return q.length.Load()
}
