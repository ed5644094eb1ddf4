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

package testkit

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tochemey/coactor/actor"
)

const (
	// DefaultTimeout bounds every expectation without explicit duration
	DefaultTimeout = 3 * time.Second
	// DefaultNoMessageTimeout is how long ExpectNoMessage waits
	DefaultNoMessageTimeout = 100 * time.Millisecond
)

// Probe defines the probe interface that helps perform some assertions
// when implementing unit tests with actors
type Probe interface {
	// ExpectMessage asserts that the message received from the test actor is the expected one
	ExpectMessage(message any)
	// ExpectMessageWithin asserts that the message received from the test actor is the expected one within a time duration
	ExpectMessageWithin(duration time.Duration, message any)
	// ExpectNoMessage asserts that no message is expected
	ExpectNoMessage()
	// ExpectAnyMessage asserts that any message is expected
	ExpectAnyMessage() any
	// ExpectAnyMessageWithin asserts that any message within a time duration
	ExpectAnyMessageWithin(duration time.Duration) any
	// ExpectMessageOfType asserts the expectation of a given message type
	ExpectMessageOfType(messageType reflect.Type)
	// ExpectMessageOfTypeWithin asserts the expectation of a given message type within a time duration
	ExpectMessageOfTypeWithin(duration time.Duration, messageType reflect.Type)
	// Watch monitors the given actor
	Watch(pid *actor.PID)
	// ExpectTerminated asserts that the watched actor exited
	ExpectTerminated(pid *actor.PID) error
	// Send sends a message to the actor to be tested.
	Send(to *actor.PID, message any)
	// SendSync sends a request to the actor to be tested and expects a response
	// within a time duration. The response is the next message of the probe.
	SendSync(to *actor.PID, message any, timeout time.Duration)
	// Sender returns the sender of last received message.
	Sender() *actor.PID
	// PID returns the pid of the test actor
	PID() *actor.PID
	// Stop stops the test probe
	Stop()
}

type message struct {
	sender  *actor.PID
	payload any
}

// probe defines the test probe implementation
type probe struct {
	pt             *testing.T
	testCtx        context.Context
	scoped         *actor.ScopedActor
	collect        *actor.Behavior
	pending        []message
	lastMessage    any
	lastSender     *actor.PID
	defaultTimeout time.Duration
}

// ensure that probe implements Probe
var _ Probe = (*probe)(nil)

// newProbe creates an instance of probe
func newProbe(ctx context.Context, actorSystem actor.ActorSystem, t *testing.T) (*probe, error) {
	scoped, err := actorSystem.Scoped("")
	if err != nil {
		return nil, err
	}

	x := &probe{
		pt:             t,
		testCtx:        ctx,
		scoped:         scoped,
		defaultTimeout: DefaultTimeout,
	}
	x.collect = actor.NewBehavior(actor.Others(func(ctx *actor.ReceiveContext, msg any) {
		x.pending = append(x.pending, message{sender: ctx.Sender(), payload: msg})
	}))
	scoped.Context().SetDownHandler(func(_ *actor.Context, msg *actor.DownMsg) {
		x.pending = append(x.pending, message{sender: msg.Source, payload: msg})
	})
	return x, nil
}

// ExpectMessageOfType asserts the expectation of a given message type
func (x *probe) ExpectMessageOfType(messageType reflect.Type) {
	x.expectMessageOfType(x.defaultTimeout, messageType)
}

// ExpectMessageOfTypeWithin asserts the expectation of a given message type within a time duration
func (x *probe) ExpectMessageOfTypeWithin(duration time.Duration, messageType reflect.Type) {
	x.expectMessageOfType(duration, messageType)
}

// ExpectMessage assert message expectation
func (x *probe) ExpectMessage(message any) {
	x.expectMessage(x.defaultTimeout, message)
}

// ExpectMessageWithin expects message within a time duration
func (x *probe) ExpectMessageWithin(duration time.Duration, message any) {
	x.expectMessage(duration, message)
}

// ExpectNoMessage expects no message
func (x *probe) ExpectNoMessage() {
	received := x.receiveOne(DefaultNoMessageTimeout)
	require.Nil(x.pt, received, fmt.Sprintf("received unexpected message %v", received))
}

// ExpectAnyMessage expects any message
func (x *probe) ExpectAnyMessage() any {
	return x.expectAnyMessage(x.defaultTimeout)
}

// ExpectAnyMessageWithin expects any message within a time duration
func (x *probe) ExpectAnyMessageWithin(duration time.Duration) any {
	return x.expectAnyMessage(duration)
}

// Watch monitors the given actor
func (x *probe) Watch(pid *actor.PID) {
	x.scoped.Context().Monitor(pid)
}

// ExpectTerminated waits for the DownMsg of a watched actor and returns its exit reason
func (x *probe) ExpectTerminated(pid *actor.PID) error {
	received := x.receiveOne(x.defaultTimeout)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) while waiting for %s to terminate", x.defaultTimeout, pid))
	down, ok := received.(*actor.DownMsg)
	require.True(x.pt, ok, fmt.Sprintf("expected termination of %s, found %v", pid, received))
	require.Equal(x.pt, pid, down.Source)
	return down.Reason
}

// Send sends a message to the actor to be tested.
func (x *probe) Send(to *actor.PID, message any) {
	require.NoError(x.pt, x.scoped.Tell(to, message))
}

// SendSync sends a request to the actor to be tested and queues the response
func (x *probe) SendSync(to *actor.PID, msg any, timeout time.Duration) {
	received, err := x.scoped.Ask(x.testCtx, to, msg, timeout)
	require.NoError(x.pt, err)
	x.pending = append(x.pending, message{sender: to, payload: received})
}

// Sender returns the last sender
func (x *probe) Sender() *actor.PID {
	return x.lastSender
}

// PID returns the pid of the test actor
func (x *probe) PID() *actor.PID {
	return x.scoped.PID()
}

// Stop stops the test probe
func (x *probe) Stop() {
	x.scoped.Close()
}

// receiveOne receives one message within a maximum time duration
func (x *probe) receiveOne(max time.Duration) any {
	if len(x.pending) == 0 {
		ctx, cancel := context.WithTimeout(x.testCtx, max)
		defer cancel()
		for len(x.pending) == 0 {
			if err := x.scoped.Receive(ctx, x.collect); err != nil {
				return nil
			}
		}
	}

	m := x.pending[0]
	x.pending = x.pending[1:]
	x.lastMessage = m.payload
	x.lastSender = m.sender
	return m.payload
}

// expectMessage assert the expectation of a message within a maximum time duration
func (x *probe) expectMessage(max time.Duration, message any) {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectMessage while waiting for %v", max, message))
	require.Equal(x.pt, message, received, fmt.Sprintf("expected %v, found %v", message, received))
}

// expectAnyMessage asserts that any message is expected
func (x *probe) expectAnyMessage(max time.Duration) any {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectAnyMessage while waiting", max))
	return received
}

// expectMessageOfType asserts the expectation of a given message type
func (x *probe) expectMessageOfType(max time.Duration, messageType reflect.Type) {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) while waiting for a message of type %v", max, messageType))
	require.Equal(x.pt, messageType, reflect.TypeOf(received), fmt.Sprintf("expected a message of type %v, found %T", messageType, received))
}
