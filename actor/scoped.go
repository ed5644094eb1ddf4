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
	"context"
	"sync"
	"time"

	gerrors "github.com/tochemey/coactor/errors"
)

// ScopedActor is an actor driven by a goroutine that is not part of the
// scheduler, typically a test or a main function. Messages sent to it wait
// in its mailbox until Receive is called.
//
// A ScopedActor never exits on its own: it lives until Close is called or
// it is killed.
type ScopedActor struct {
	pid *PID
	mu  sync.Mutex
}

// Scoped creates a ScopedActor. An empty name creates an anonymous one.
func (x *actorSystem) Scoped(name string) (*ScopedActor, error) {
	if !x.running.Load() {
		return nil, gerrors.ErrActorSystemNotStarted
	}
	if name != "" && !actorNamePattern.MatchString(name) {
		return nil, gerrors.ErrInvalidActorName
	}

	pid := newPID(x, name, nil, newSpawnConfig())
	pid.scoped = true
	pid.initialized = true
	if err := x.register(pid); err != nil {
		return nil, err
	}
	pid.state.Store(idleState)
	return &ScopedActor{pid: pid}, nil
}

// PID returns the handle of the scoped actor
func (s *ScopedActor) PID() *PID {
	return s.pid
}

// Context returns the context of the scoped actor.
// It must only be used from the goroutine driving the actor.
func (s *ScopedActor) Context() *Context {
	return s.pid.ctx
}

// Tell sends a message with the scoped actor as sender
func (s *ScopedActor) Tell(to *PID, message any) error {
	return s.pid.ctx.Tell(to, message)
}

// Request sends a request. The handler runs during a later Receive.
func (s *ScopedActor) Request(to *PID, timeout time.Duration, message any, then ResponseHandler) {
	s.pid.ctx.Request(to, timeout, message, then)
}

// Ask sends a request and drives the actor until its response or its timeout
// arrived. Other messages received meanwhile go to the default handler.
func (s *ScopedActor) Ask(ctx context.Context, to *PID, message any, timeout time.Duration) (any, error) {
	var (
		value    any
		err      error
		answered bool
	)
	s.Request(to, timeout, message, func(reply any, replyErr error) {
		value, err, answered = reply, replyErr, true
	})
	for !answered {
		if receiveErr := s.Receive(ctx, NewBehavior()); receiveErr != nil {
			return nil, receiveErr
		}
	}
	return value, err
}

// Receive waits for one message and dispatches it with the given behavior.
// Responses to pending requests and receive timeouts count as one message.
// It returns ctx.Err() when ctx is done first and ErrDead once the actor exited.
func (s *ScopedActor) Receive(ctx context.Context, behavior *Behavior) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pid := s.pid
	pid.state.Store(scheduledState)
	pid.behaviors = []*Behavior{behavior}
	pid.armReceiveTimeout()
	defer func() {
		pid.behaviors = nil
		if pid.receiveTimeout != 0 && !pid.cleanedUp {
			pid.system.clock.CancelOrdinaryTimeout(pid, receiveTimeoutLabel)
			pid.receiveTimeout = 0
		}
	}()

	for {
		if pid.exiting.Load() {
			pid.cleanup()
			return gerrors.ErrDead
		}

		delivered := false
		pid.budget = 1
		pid.mailbox.NextRound(1, func(envelope *Envelope) TaskResult {
			if pid.process(envelope) {
				delivered = true
			}
			pid.processed.Inc()
			if delivered || pid.exiting.Load() {
				return TaskStop
			}
			return TaskResume
		})

		if delivered {
			pid.system.recordProcessed(1)
			return nil
		}
		if pid.exiting.Load() || !pid.mailbox.IsEmpty() {
			continue
		}

		pid.state.Store(idleState)
		if !pid.mailbox.IsEmpty() {
			pid.state.CompareAndSwap(idleState, scheduledState)
			continue
		}

		select {
		case <-pid.wake:
			pid.state.CompareAndSwap(idleState, scheduledState)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close exits the scoped actor with ExitNormal
func (s *ScopedActor) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pid.quit(gerrors.ExitNormal)
	s.pid.cleanup()
}
