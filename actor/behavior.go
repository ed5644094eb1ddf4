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
	"reflect"
	"time"
)

var anyType = reflect.TypeFor[any]()

// Case is one entry of a Behavior dispatch table
type Case interface {
	// messageType returns the type the case matches on
	messageType() reflect.Type
	// match reports whether the case accepts the message
	match(message any) bool
	// handle runs the case
	handle(ctx *ReceiveContext, message any)
}

// Behavior is the set of message handlers an actor currently responds to.
//
// Cases matching a concrete type are found through a table keyed by the
// dynamic type of the message. Cases matching an interface type are tried
// afterwards in declaration order. A Behavior is immutable once built and may
// be shared by several actors.
type Behavior struct {
	exact      map[reflect.Type]Case
	interfaces []Case
	others     Case
	timeout    time.Duration
	onTimeout  func(ctx *Context)
}

// NewBehavior builds a Behavior from the given cases. When two cases match
// the same concrete type the first one wins.
func NewBehavior(cases ...Case) *Behavior {
	b := &Behavior{exact: make(map[reflect.Type]Case, len(cases))}
	for _, c := range cases {
		typ := c.messageType()
		if typ == anyType {
			if b.others == nil {
				b.others = c
			}
			continue
		}
		if typ.Kind() == reflect.Interface {
			b.interfaces = append(b.interfaces, c)
			continue
		}
		if _, ok := b.exact[typ]; !ok {
			b.exact[typ] = c
		}
	}
	return b
}

// After returns a copy of the Behavior that calls fn when no message was
// dispatched for the given duration. The timeout is re-armed after every
// dispatched message.
func (b *Behavior) After(d time.Duration, fn func(ctx *Context)) *Behavior {
	clone := *b
	clone.timeout = d
	clone.onTimeout = fn
	return &clone
}

// Timeout returns the receive timeout. Zero means none.
func (b *Behavior) Timeout() time.Duration {
	if b.onTimeout == nil {
		return 0
	}
	return b.timeout
}

// lookup returns the case handling the message
func (b *Behavior) lookup(message any) (Case, bool) {
	if message == nil {
		return nil, false
	}
	if c, ok := b.exact[reflect.TypeOf(message)]; ok {
		return c, true
	}
	for _, c := range b.interfaces {
		if c.match(message) {
			return c, true
		}
	}
	if b.others != nil {
		return b.others, true
	}
	return nil, false
}

// On returns a Case handling messages of type T. The handler replies
// explicitly through the ReceiveContext when the message is a request.
func On[T any](fn func(ctx *ReceiveContext, msg T)) Case {
	return &onCase[T]{fn: fn}
}

// Reply returns a Case handling messages of type T whose result is sent back
// to the requester. An error result is sent back as an error response.
// The result of a message that is not a request goes to the sender, if any.
func Reply[T, R any](fn func(ctx *ReceiveContext, msg T) (R, error)) Case {
	return &replyCase[T, R]{fn: fn}
}

// Others returns a Case matching every message. It is only reached when no
// other case matches.
func Others(fn func(ctx *ReceiveContext, msg any)) Case {
	return &onCase[any]{fn: fn}
}

type onCase[T any] struct {
	fn func(ctx *ReceiveContext, msg T)
}

func (c *onCase[T]) messageType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (c *onCase[T]) match(message any) bool {
	_, ok := message.(T)
	return ok
}

func (c *onCase[T]) handle(ctx *ReceiveContext, message any) {
	c.fn(ctx, message.(T))
}

type replyCase[T, R any] struct {
	fn func(ctx *ReceiveContext, msg T) (R, error)
}

func (c *replyCase[T, R]) messageType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (c *replyCase[T, R]) match(message any) bool {
	_, ok := message.(T)
	return ok
}

func (c *replyCase[T, R]) handle(ctx *ReceiveContext, message any) {
	result, err := c.fn(ctx, message.(T))
	if ctx.replied {
		return
	}
	if err != nil {
		ctx.ReplyError(err)
		return
	}
	ctx.Reply(result)
}
