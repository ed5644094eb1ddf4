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

// Actor defines the lifecycle hooks of an actor.
//
// Actors are lightweight, isolated units of computation that communicate exclusively
// via message passing. An actor never runs concurrently with itself, so the state it
// keeps needs no locking.
//
// The lifecycle of an actor follows three main phases:
//  1. PreStart – Setup logic run by the first resume, returning the initial Behavior
//  2. Running – Messages are dispatched to the Behavior on top of the behavior stack
//  3. PostStop – Cleanup logic after the actor exited
type Actor interface {
	// PreStart is invoked once before the actor begins processing any messages.
	//
	// It returns the initial Behavior. A nil Behavior leaves the behavior stack
	// empty and the actor exits normally unless it has pending requests.
	// If an error is returned the initialization is retried according to the
	// actor system settings and the actor finally exits with an InitError.
	PreStart(ctx *Context) (*Behavior, error)

	// PostStop is invoked once the actor exited and its mailbox was drained.
	// The returned error is logged.
	PostStop(ctx *Context) error
}

// Func adapts a behavior factory into an Actor without PostStop hook
type Func func(ctx *Context) (*Behavior, error)

// enforce compilation error
var _ Actor = Func(nil)

// PreStart calls the factory
func (f Func) PreStart(ctx *Context) (*Behavior, error) {
	return f(ctx)
}

// PostStop does nothing
func (f Func) PostStop(*Context) error {
	return nil
}

// FromBehavior returns an Actor starting with the given Behavior
func FromBehavior(behavior *Behavior) Actor {
	return Func(func(*Context) (*Behavior, error) {
		return behavior, nil
	})
}
