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

package future

import (
	"context"
	"sync"
)

// Future represents a value which may or may not currently be available,
// but will be available at some point in the future, or an error if that value
// could not be made available.
//
// Example usage:
//
//	future := system.Request(ctx, pid, time.Second, "ping")
//	reply, err := future.Await(ctx)
//	if err != nil {
//	    return err
//	}
type Future[T any] interface {
	// Await blocks until the Future is completed or the context is canceled and
	// returns either a result or an error.
	Await(ctx context.Context) (T, error)
	// Done returns a channel closed once the Future is completed
	Done() <-chan struct{}
	// Result returns the outcome of a completed Future without blocking.
	// The boolean is false when the Future is not completed yet.
	Result() (*Result[T], bool)
}

// New creates a Future completed with the outcome of the given task.
// The task runs in its own goroutine.
func New[T any](task func() (T, error)) Future[T] {
	promise := NewPromise[T]()
	go func() {
		promise.Complete(task())
	}()
	return promise.Future()
}

// Promise is a writable, single-assignment container which completes a Future.
// Only the first completion is kept; later ones are ignored.
type Promise[T any] struct {
	once   sync.Once
	done   chan struct{}
	result Result[T]
}

// enforce compilation error
var _ Future[any] = (*Promise[any])(nil)

// NewPromise creates a pending Promise
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Success completes the Promise with a value.
// It returns false when the Promise was already completed.
func (p *Promise[T]) Success(value T) bool {
	return p.Complete(value, nil)
}

// Failure completes the Promise with an error.
// It returns false when the Promise was already completed.
func (p *Promise[T]) Failure(err error) bool {
	var zero T
	return p.Complete(zero, err)
}

// Complete completes the Promise with a value when err is nil, otherwise with the error.
// It returns false when the Promise was already completed.
func (p *Promise[T]) Complete(value T, err error) bool {
	completed := false
	p.once.Do(func() {
		if err != nil {
			p.result.failure = err
		} else {
			p.result.success = value
		}
		completed = true
		close(p.done)
	})
	return completed
}

// Future returns the Future completed by this Promise
func (p *Promise[T]) Future() Future[T] {
	return p
}

// Await blocks until the Promise is completed or the context is canceled
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.result.success, p.result.failure
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed once the Promise is completed
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Result returns the outcome without blocking
func (p *Promise[T]) Result() (*Result[T], bool) {
	select {
	case <-p.done:
		result := p.result
		return &result, true
	default:
		return nil, false
	}
}
