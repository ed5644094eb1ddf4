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
	"slices"
	"time"

	"github.com/tochemey/coactor/clock"
	gerrors "github.com/tochemey/coactor/errors"
	"github.com/tochemey/coactor/log"
)

// ResponseHandler receives the outcome of a request. It runs on the requesting actor.
type ResponseHandler func(reply any, err error)

// ExitHandler handles an ExitMsg. Setting one traps exits.
type ExitHandler func(ctx *Context, msg *ExitMsg)

// DownHandler handles a DownMsg
type DownHandler func(ctx *Context, msg *DownMsg)

// DefaultHandler handles messages no case of the active Behavior matches
type DefaultHandler func(ctx *ReceiveContext, msg any)

// ErrorHandler handles a failure raised while dispatching a message.
// Returning nil resumes the actor; returning an error exits it with that reason.
type ErrorHandler func(ctx *Context, err error) error

// Interceptor sees every regular message before the active Behavior.
// Returning true consumes the message.
type Interceptor interface {
	Intercept(ctx *ReceiveContext) bool
}

// Context is the handle an actor uses to act on itself and on the system.
//
// It must only be used from the actor's own execution: its hooks, its
// Behavior cases, and the handlers it installs.
type Context struct {
	pid *PID
}

func newContext(pid *PID) *Context {
	return &Context{pid: pid}
}

// Self returns the PID of the actor
func (c *Context) Self() *PID {
	return c.pid
}

// System returns the actor system
func (c *Context) System() ActorSystem {
	return c.pid.system
}

// Context returns the context.Context bound to the actor system
func (c *Context) Context() context.Context {
	return c.pid.system.ctx
}

// Logger returns the actor logger
func (c *Context) Logger() log.Logger {
	return c.pid.logger
}

// Clock returns the clock of the actor system
func (c *Context) Clock() clock.Clock {
	return c.pid.system.clock
}

// Become replaces the active Behavior
func (c *Context) Become(behavior *Behavior) {
	pid := c.pid
	if n := len(pid.behaviors); n > 0 {
		pid.behaviors[n-1] = behavior
	} else {
		pid.behaviors = append(pid.behaviors, behavior)
	}
	pid.rearm = true
}

// BecomeStacked pushes the Behavior on top of the active one.
// Unbecome restores the previous Behavior.
func (c *Context) BecomeStacked(behavior *Behavior) {
	c.pid.behaviors = append(c.pid.behaviors, behavior)
	c.pid.rearm = true
}

// Unbecome pops the active Behavior. The actor exits normally once the
// behavior stack is empty and no request is pending.
func (c *Context) Unbecome() {
	pid := c.pid
	if n := len(pid.behaviors); n > 0 {
		pid.behaviors[n-1] = nil
		pid.behaviors = pid.behaviors[:n-1]
	}
	pid.rearm = true
}

// Quit exits the actor with the given reason once the current message is processed.
// A nil reason means a normal exit.
func (c *Context) Quit(reason error) {
	c.pid.quit(reason)
}

// Link links the actor with other. When either exits the other receives an ExitMsg.
func (c *Context) Link(other *PID) {
	c.pid.link(other)
}

// Unlink removes the link with other
func (c *Context) Unlink(other *PID) {
	c.pid.unlink(other)
}

// Monitor makes the actor receive a DownMsg when other exits
func (c *Context) Monitor(other *PID) {
	c.pid.monitor(other)
}

// Demonitor removes one monitor set on other
func (c *Context) Demonitor(other *PID) {
	if other != nil {
		other.detach(monitorAttachable, c.pid.id)
	}
}

// SetExitHandler traps exits. ExitMsg carrying ExitKill is never trapped.
func (c *Context) SetExitHandler(handler ExitHandler) {
	c.pid.exitHandler = handler
}

// SetDownHandler sets the DownMsg handler
func (c *Context) SetDownHandler(handler DownHandler) {
	c.pid.downHandler = handler
}

// Attach registers fn to run with the exit reason when the actor exits
func (c *Context) Attach(fn func(reason error)) {
	if !c.pid.attach(&attachable{kind: funcAttachable, fn: fn}) {
		fn(c.pid.ExitReason())
	}
}

// Intercept adds an Interceptor
func (c *Context) Intercept(interceptor Interceptor) {
	c.pid.interceptors = append(c.pid.interceptors, interceptor)
}

// Interceptors returns the interceptors added so far
func (c *Context) Interceptors() []Interceptor {
	return slices.Clone(c.pid.interceptors)
}

// Tell sends a message in the normal category
func (c *Context) Tell(to *PID, message any) error {
	return c.send(to, message, Normal, nil)
}

// TellUrgent sends a message in the urgent category
func (c *Context) TellUrgent(to *PID, message any) error {
	return c.send(to, message, Urgent, nil)
}

// TellVia sends a message to the given actor. The reply it produces visits the
// stages in order before reaching this actor.
func (c *Context) TellVia(to *PID, message any, stages ...*PID) error {
	return c.send(to, message, Normal, stages)
}

// DelayedTell sends a message after the given delay
func (c *Context) DelayedTell(to *PID, delay time.Duration, message any) {
	if to == nil {
		return
	}
	envelope := newEnvelope(c.pid, newMessageID(Normal), nil, message, Normal)
	c.pid.system.clock.ScheduleMessage(c.pid.system.clock.Now().Add(delay), to, envelope)
}

// Request sends a request and calls then with the response. A zero timeout
// waits forever. When the timeout elapses first, then receives ErrRequestTimeout
// and a late response is dropped.
func (c *Context) Request(to *PID, timeout time.Duration, message any, then ResponseHandler) {
	c.pid.request(to, timeout, message, then)
}

// SetTimeout schedules a clock.TimeoutMsg with the given label, replacing a
// pending one with the same label. The message goes through the active Behavior.
func (c *Context) SetTimeout(label string, d time.Duration) uint64 {
	clk := c.pid.system.clock
	return clk.SetOrdinaryTimeout(clk.Now().Add(d), c.pid, label)
}

// CancelTimeout cancels the pending timeout with the given label
func (c *Context) CancelTimeout(label string) {
	c.pid.system.clock.CancelOrdinaryTimeout(c.pid, label)
}

// Spawn creates an actor in the same actor system
func (c *Context) Spawn(name string, actor Actor, opts ...SpawnOption) (*PID, error) {
	return c.pid.system.spawn(name, actor, opts...)
}

func (c *Context) send(to *PID, message any, priority Category, stages []*PID) error {
	if to == nil {
		return gerrors.ErrUndefinedActor
	}
	envelope := newEnvelope(c.pid, newMessageID(priority), stages, message, priority)
	return to.enqueue(envelope, c.pid.unit)
}

// ReceiveContext is the Context of the message being dispatched
type ReceiveContext struct {
	*Context
	envelope *Envelope
	replied  bool
}

func newReceiveContext(ctx *Context, envelope *Envelope) *ReceiveContext {
	return &ReceiveContext{Context: ctx, envelope: envelope}
}

// Message returns the message being dispatched
func (r *ReceiveContext) Message() any {
	return r.envelope.payload
}

// Sender returns the sender. It is nil for messages sent from outside any actor.
func (r *ReceiveContext) Sender() *PID {
	return r.envelope.sender
}

// ID returns the id of the message being dispatched
func (r *ReceiveContext) ID() MessageID {
	return r.envelope.id
}

// IsRequest reports whether the message expects a response
func (r *ReceiveContext) IsRequest() bool {
	return r.envelope.id.IsRequest()
}

// Reply answers the message. Only the first answer is sent.
func (r *ReceiveContext) Reply(value any) {
	r.Promise().Deliver(value)
}

// ReplyError answers the message with an error
func (r *ReceiveContext) ReplyError(err error) {
	r.Promise().DeliverError(err)
}

// Promise takes over the duty of answering the message. The returned
// ResponsePromise may be completed later, from a subsequent message.
func (r *ReceiveContext) Promise() *ResponsePromise {
	if r.replied {
		return &ResponsePromise{delivered: true}
	}
	r.replied = true
	return &ResponsePromise{
		self:     r.pid,
		envelope: r.envelope,
	}
}

// Forward hands the message over to another actor. The sender, the message
// id and the stages are kept so the other actor answers the original sender.
func (r *ReceiveContext) Forward(to *PID) error {
	if to == nil {
		return gerrors.ErrUndefinedActor
	}
	r.replied = true
	forwarded := *r.envelope
	return to.enqueue(&forwarded, r.pid.unit)
}

// Err reports a failure of the current message to the error handler
func (r *ReceiveContext) Err(err error) {
	if err != nil {
		r.pid.fail(r, err)
	}
}

// ResponsePromise answers a message once
type ResponsePromise struct {
	self      *PID
	envelope  *Envelope
	delivered bool
}

// Pending reports whether the promise has not been delivered yet
func (p *ResponsePromise) Pending() bool {
	return !p.delivered
}

// Deliver answers with a value
func (p *ResponsePromise) Deliver(value any) {
	p.respond(value, nil)
}

// DeliverError answers with an error
func (p *ResponsePromise) DeliverError(err error) {
	p.respond(nil, err)
}

func (p *ResponsePromise) respond(value any, err error) {
	if p.delivered {
		return
	}
	p.delivered = true

	envelope := p.envelope
	system := p.self.system
	if err == nil && len(envelope.stages) > 0 {
		// the next stage receives the value in place of the original message
		next := envelope.stages[0]
		staged := newEnvelope(envelope.sender, envelope.id, envelope.stages[1:], value, envelope.id.Category())
		staged.waiter = envelope.waiter
		_ = next.enqueue(staged, p.self.unit)
		return
	}
	system.respond(p.self, envelope, value, err)
}
