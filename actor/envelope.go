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
	gerrors "github.com/tochemey/coactor/errors"
	"github.com/tochemey/coactor/future"
)

// Envelope is a mailbox element
type Envelope struct {
	sender  *PID
	id      MessageID
	stages  []*PID
	payload any
	// set for requests issued from outside any actor
	waiter *requestWaiter
}

// newEnvelope builds an envelope. The category comes from the payload when it
// implements Categorized, otherwise from the requested priority.
func newEnvelope(sender *PID, id MessageID, stages []*PID, payload any, priority Category) *Envelope {
	category := priority
	if categorized, ok := payload.(Categorized); ok {
		category = categorized.Category()
	}
	return &Envelope{
		sender:  sender,
		id:      id.WithCategory(category),
		stages:  stages,
		payload: payload,
	}
}

// Sender returns the sender. It is nil for messages sent from outside any actor.
func (e *Envelope) Sender() *PID {
	return e.sender
}

// ID returns the message id
func (e *Envelope) ID() MessageID {
	return e.id
}

// Category returns the mailbox category of the envelope
func (e *Envelope) Category() Category {
	return e.id.Category()
}

// Payload returns the message
func (e *Envelope) Payload() any {
	return e.payload
}

// Stages returns the forwarding stages left to visit
func (e *Envelope) Stages() []*PID {
	return e.stages
}

// taskSize returns the deficit the envelope consumes
func (e *Envelope) taskSize() int {
	if sizer, ok := e.payload.(TaskSizer); ok {
		if size := sizer.TaskSize(); size > 0 {
			return size
		}
	}
	return 1
}

// response is the payload of a response envelope
type response struct {
	value any
	err   error
}

// requestWaiter completes the future of a request issued from outside any
// actor. It receives the request timeout from the clock.
type requestWaiter struct {
	id        uint64
	requestID uint64
	promise   *future.Promise[any]
	system    *actorSystem
	// releases the context watch of the caller
	stop func() bool
}

func (w *requestWaiter) ID() uint64 {
	return w.id
}

func (w *requestWaiter) Deliver(any) {
	if w.promise.Failure(gerrors.ErrRequestTimeout) && w.stop != nil {
		w.stop()
	}
}

func (w *requestWaiter) complete(value any, err error) {
	if w.promise.Complete(value, err) {
		w.system.clock.CancelRequestTimeout(w, w.requestID)
		if w.stop != nil {
			w.stop()
		}
	}
}
